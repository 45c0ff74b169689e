package storage

import (
	"context"
	"errors"

	"bookdiary/internal/models"
)

// ErrUnavailable indicates the backing store failed or timed out.
// Implementations wrap it so callers can match with errors.Is and
// distinguish "no data" from "couldn't reach storage".
var ErrUnavailable = errors.New("storage unavailable")

// Storage defines the interface for data storage operations
type Storage interface {
	// Reading event operations
	SaveEvent(ctx context.Context, event models.ReadingEvent) error
	DeleteEvent(ctx context.Context, id string) (bool, error)
	ListEvents(ctx context.Context) ([]models.ReadingEvent, error)

	// Reading goal operations

	// LoadGoal returns the stored goal. ok is false when no goal has
	// been saved yet; callers fall back to their configured default.
	LoadGoal(ctx context.Context) (goal int, ok bool, err error)
	SaveGoal(ctx context.Context, goal int) error

	// Monthly pick operations
	LoadMonthlyPick(ctx context.Context, year, month int) (models.MonthlyPick, bool, error)
	SaveMonthlyPick(ctx context.Context, pick models.MonthlyPick) error
	DeleteMonthlyPick(ctx context.Context, year, month int) error

	// Catalog operations
	ListBooks(ctx context.Context) ([]models.CatalogItem, error)
	UpsertBook(ctx context.Context, item models.CatalogItem) error

	// Reading list (wishlist) operations
	AddToReadingList(ctx context.Context, bookID string) error
	RemoveFromReadingList(ctx context.Context, bookID string) (bool, error)
	ListReadingList(ctx context.Context) ([]string, error)

	// Lifecycle
	Initialize(ctx context.Context) error
	Close() error
}
