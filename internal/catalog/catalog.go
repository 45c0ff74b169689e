package catalog

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"bookdiary/internal/models"
	"bookdiary/internal/storage"
)

// Provider supplies the candidate pool for the daily rotation.
// Implementations must return items with a stable ordering; the picker
// additionally sorts by ID before selecting.
type Provider interface {
	LoadPool(ctx context.Context) ([]models.CatalogItem, error)
}

// SeedProvider serves the embedded seed catalog only. Used when no
// storage-backed catalog is wanted (e.g. in tests).
type SeedProvider struct{}

func (SeedProvider) LoadPool(ctx context.Context) ([]models.CatalogItem, error) {
	return SeedItems()
}

// StoreProvider serves the catalog from storage, falling back to the
// embedded seed catalog while the books table is empty so the daily
// pick works out of the box.
type StoreProvider struct {
	store  storage.Storage
	logger *zap.Logger
}

// NewStoreProvider creates a storage-backed catalog provider.
func NewStoreProvider(store storage.Storage, logger *zap.Logger) *StoreProvider {
	return &StoreProvider{store: store, logger: logger}
}

func (p *StoreProvider) LoadPool(ctx context.Context) ([]models.CatalogItem, error) {
	items, err := p.store.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog: %w", err)
	}

	if len(items) == 0 {
		p.logger.Debug("Catalog empty, serving seed books")
		return SeedItems()
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})
	return items, nil
}
