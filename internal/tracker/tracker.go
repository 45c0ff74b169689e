package tracker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bookdiary/internal/clock"
	"bookdiary/internal/models"
	"bookdiary/internal/storage"
)

// DefaultGoal is used until the user sets a goal of their own.
const DefaultGoal = 10

var (
	// ErrInvalidGoal rejects non-positive reading goals. The prior goal
	// is retained.
	ErrInvalidGoal = errors.New("reading goal must be positive")

	// ErrInvalidRating rejects ratings outside 1-5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrNotLoaded signals use of the tracker before Load succeeded.
	ErrNotLoaded = errors.New("tracker not loaded")
)

// Tracker owns the set of reading events and the reading goal, and
// computes derived statistics on demand.
//
// One instance is shared across the HTTP and bot surfaces. Mutations
// are serialized against queries with a readers-writer lock; every
// mutation is written to storage first and applied to the in-memory
// set only after the write succeeded, so a failed store never leaves
// the cache ahead of durable state.
type Tracker struct {
	store  storage.Storage
	clock  clock.Clock
	logger *zap.Logger

	mu          sync.RWMutex
	events      []models.ReadingEvent
	goal        int
	defaultGoal int
	loaded      bool
	stale       bool
}

// New creates a Tracker. Call Load before use.
func New(store storage.Storage, clk clock.Clock, defaultGoal int, logger *zap.Logger) *Tracker {
	if defaultGoal <= 0 {
		defaultGoal = DefaultGoal
	}
	return &Tracker{
		store:       store,
		clock:       clk,
		defaultGoal: defaultGoal,
		logger:      logger,
	}
}

// Load fetches the event set and goal from storage. Awaited once at
// startup; queries before a successful Load return ErrNotLoaded.
func (t *Tracker) Load(ctx context.Context) error {
	events, err := t.store.ListEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}

	goal, ok, err := t.store.LoadGoal(ctx)
	if err != nil {
		return fmt.Errorf("failed to load goal: %w", err)
	}
	if !ok {
		goal = t.defaultGoal
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = events
	t.goal = goal
	t.loaded = true
	t.stale = false

	t.logger.Info("Tracker loaded",
		zap.Int("events", len(events)),
		zap.Int("goal", goal),
	)
	return nil
}

// Reload refreshes the cached event set from storage. On failure the
// cache is kept and subsequent snapshots carry Stale=true, so callers
// can tell last-known data from fresh data.
func (t *Tracker) Reload(ctx context.Context) error {
	events, err := t.store.ListEvents(ctx)
	if err != nil {
		t.mu.Lock()
		t.stale = true
		t.mu.Unlock()
		t.logger.Warn("Reload failed, serving cached events", zap.Error(err))
		return fmt.Errorf("failed to reload events: %w", err)
	}

	t.mu.Lock()
	t.events = events
	t.stale = false
	t.mu.Unlock()
	return nil
}

// AddEvent logs a completed reading. Events are never deduplicated:
// re-reads of the same book are separate events. rating may be 0
// (unrated) or 1-5.
func (t *Tracker) AddEvent(ctx context.Context, bookID string, completedOn time.Time, notes string, rating int) (models.ReadingEvent, error) {
	if rating != 0 && (rating < 1 || rating > 5) {
		return models.ReadingEvent{}, ErrInvalidRating
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.loaded {
		return models.ReadingEvent{}, ErrNotLoaded
	}

	event := models.ReadingEvent{
		ID:          uuid.NewString(),
		BookID:      bookID,
		CompletedOn: completedOn,
		Notes:       notes,
		Rating:      rating,
	}

	if err := t.store.SaveEvent(ctx, event); err != nil {
		return models.ReadingEvent{}, fmt.Errorf("failed to save event: %w", err)
	}

	t.events = append(t.events, event)

	t.logger.Info("Reading event added",
		zap.String("event_id", event.ID),
		zap.String("book_id", bookID),
		zap.Time("completed_on", completedOn),
	)
	return event, nil
}

// RemoveEvent deletes an event if present and reports whether a
// removal occurred. Removing a missing id is a no-op, not an error.
func (t *Tracker) RemoveEvent(ctx context.Context, id string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.loaded {
		return false, ErrNotLoaded
	}

	index := -1
	for i, event := range t.events {
		if event.ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return false, nil
	}

	if _, err := t.store.DeleteEvent(ctx, id); err != nil {
		return false, fmt.Errorf("failed to delete event: %w", err)
	}

	t.events = append(t.events[:index], t.events[index+1:]...)

	t.logger.Info("Reading event removed", zap.String("event_id", id))
	return true, nil
}

// IsRead reports whether at least one event exists for the book.
func (t *Tracker) IsRead(bookID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, event := range t.events {
		if event.BookID == bookID {
			return true
		}
	}
	return false
}

// EventsForItem returns all events for a book, most recent first.
func (t *Tracker) EventsForItem(bookID string) []models.ReadingEvent {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var events []models.ReadingEvent
	for _, event := range t.events {
		if event.BookID == bookID {
			events = append(events, event)
		}
	}
	sortByCompletedDesc(events)
	return events
}

// AllEvents returns every event, most recent first.
func (t *Tracker) AllEvents() []models.ReadingEvent {
	t.mu.RLock()
	defer t.mu.RUnlock()

	events := make([]models.ReadingEvent, len(t.events))
	copy(events, t.events)
	sortByCompletedDesc(events)
	return events
}

// RecentEvents returns the n most recent events.
func (t *Tracker) RecentEvents(n int) []models.ReadingEvent {
	events := t.AllEvents()
	if n > 0 && n < len(events) {
		events = events[:n]
	}
	return events
}

// EventsInMonth returns events completed within the calendar month
// containing ref, most recent first.
func (t *Tracker) EventsInMonth(ref time.Time) []models.ReadingEvent {
	return t.filterEvents(func(completed time.Time) bool {
		return completed.Year() == ref.Year() && completed.Month() == ref.Month()
	})
}

// EventsInYear returns events completed within the calendar year
// containing ref, most recent first.
func (t *Tracker) EventsInYear(ref time.Time) []models.ReadingEvent {
	return t.filterEvents(func(completed time.Time) bool {
		return completed.Year() == ref.Year()
	})
}

func (t *Tracker) filterEvents(match func(time.Time) bool) []models.ReadingEvent {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var events []models.ReadingEvent
	for _, event := range t.events {
		if match(event.CompletedOn) {
			events = append(events, event)
		}
	}
	sortByCompletedDesc(events)
	return events
}

// SetGoal updates the reading goal. Non-positive goals are rejected
// with ErrInvalidGoal and the prior goal is retained.
func (t *Tracker) SetGoal(ctx context.Context, goal int) error {
	if goal <= 0 {
		return ErrInvalidGoal
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.SaveGoal(ctx, goal); err != nil {
		return fmt.Errorf("failed to save goal: %w", err)
	}

	t.goal = goal
	t.logger.Info("Reading goal updated", zap.Int("goal", goal))
	return nil
}

// Goal returns the current reading goal. Before Load succeeds it
// returns the configured default rather than a zero goal.
func (t *Tracker) Goal() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.loaded {
		return t.defaultGoal
	}
	return t.goal
}

// Snapshot recomputes progress from the current event set and goal.
// The month/year counts are filtered against the clock's current date
// at query time, never cached. Before Load succeeds the snapshot is
// empty and flagged Stale, matching the ErrNotLoaded guard on
// mutations.
func (t *Tracker) Snapshot() models.ProgressSnapshot {
	now := t.clock.Now()

	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.loaded {
		return models.ProgressSnapshot{Goal: t.defaultGoal, Stale: true}
	}

	snapshot := models.ProgressSnapshot{
		ReadCount: len(t.events),
		Goal:      t.goal,
		Stale:     t.stale,
	}
	if t.goal > 0 {
		snapshot.PercentComplete = float64(snapshot.ReadCount) / float64(t.goal)
		if snapshot.PercentComplete > 1.0 {
			snapshot.PercentComplete = 1.0
		}
	}

	for _, event := range t.events {
		if event.CompletedOn.Year() == now.Year() {
			snapshot.ReadThisYear++
			if event.CompletedOn.Month() == now.Month() {
				snapshot.ReadThisMonth++
			}
		}
	}
	return snapshot
}

func sortByCompletedDesc(events []models.ReadingEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CompletedOn.After(events[j].CompletedOn)
	})
}
