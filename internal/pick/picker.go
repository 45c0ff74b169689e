package pick

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"bookdiary/internal/catalog"
	"bookdiary/internal/clock"
	"bookdiary/internal/models"
	"bookdiary/internal/storage"
)

// Picker resolves the book of the day and the book of the month.
//
// The selection functions are pure; the Picker only adds pool loading,
// ordering, memoization of the current day's selection, and the stored
// monthly pick override. It is shared by the HTTP and bot surfaces, so
// the memo is guarded by a mutex.
type Picker struct {
	catalog catalog.Provider
	store   storage.Storage
	clock   clock.Clock
	logger  *zap.Logger

	mu        sync.Mutex
	cachedKey string
	cached    models.DailySelection
}

// New creates a Picker.
func New(provider catalog.Provider, store storage.Storage, clk clock.Clock, logger *zap.Logger) *Picker {
	return &Picker{
		catalog: provider,
		store:   store,
		clock:   clk,
		logger:  logger,
	}
}

// pool loads the candidate pool and freezes its ordering by sorting on
// item ID. Determinism requires a stable ordering, and the catalog
// provider makes no guarantee about the order it returns.
func (p *Picker) pool(ctx context.Context) ([]models.CatalogItem, error) {
	items, err := p.catalog.LoadPool(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pool: %w", err)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})
	return items, nil
}

// PickForDate returns the book of the day for an arbitrary date.
// ok is false when the pool is empty; that is not an error.
func (p *Picker) PickForDate(ctx context.Context, date time.Time) (models.CatalogItem, bool, error) {
	pool, err := p.pool(ctx)
	if err != nil {
		return models.CatalogItem{}, false, err
	}

	item, ok := SelectForDate(pool, date)
	return item, ok, nil
}

// DailyPick returns today's selection, memoized for the current date
// key. Recomputing after Refresh yields the same answer for the same
// date, so the memo is purely a pool-load saver.
func (p *Picker) DailyPick(ctx context.Context) (models.DailySelection, bool, error) {
	key := DateKey(p.clock.Now())

	p.mu.Lock()
	if p.cachedKey == key {
		cached := p.cached
		p.mu.Unlock()
		return cached, true, nil
	}
	p.mu.Unlock()

	item, ok, err := p.PickForDate(ctx, p.clock.Now())
	if err != nil {
		return models.DailySelection{}, false, err
	}
	if !ok {
		return models.DailySelection{}, false, nil
	}

	selection := models.DailySelection{Date: key, Item: item}

	p.mu.Lock()
	p.cachedKey = key
	p.cached = selection
	p.mu.Unlock()

	p.logger.Debug("Daily pick computed",
		zap.String("date", key),
		zap.String("book_id", item.ID),
		zap.String("title", item.Title),
	)

	return selection, true, nil
}

// Refresh drops the memoized daily selection. The next DailyPick call
// recomputes it from the pool.
func (p *Picker) Refresh() {
	p.mu.Lock()
	p.cachedKey = ""
	p.cached = models.DailySelection{}
	p.mu.Unlock()
}

// MonthlyPick returns the book of the month for the month containing
// ref. A pick stored explicitly for that month wins; otherwise the
// selection falls back to the deterministic rotation keyed on yyyy-MM.
func (p *Picker) MonthlyPick(ctx context.Context, ref time.Time) (models.MonthlySelection, bool, error) {
	year, month := ref.Year(), int(ref.Month())

	stored, found, err := p.store.LoadMonthlyPick(ctx, year, month)
	if err != nil {
		return models.MonthlySelection{}, false, fmt.Errorf("failed to load monthly pick: %w", err)
	}
	if found {
		return models.MonthlySelection{
			Year:   year,
			Month:  month,
			Item:   stored.Item,
			Pinned: true,
		}, true, nil
	}

	pool, err := p.pool(ctx)
	if err != nil {
		return models.MonthlySelection{}, false, err
	}

	item, ok := SelectForMonth(pool, ref)
	if !ok {
		return models.MonthlySelection{}, false, nil
	}

	return models.MonthlySelection{
		Year:  year,
		Month: month,
		Item:  item,
	}, true, nil
}

// PinMonthlyPick stores an explicit book of the month for the month
// containing ref, replacing any previous pick for that month.
func (p *Picker) PinMonthlyPick(ctx context.Context, item models.CatalogItem, ref time.Time) error {
	pickRecord := models.MonthlyPick{
		Year:  ref.Year(),
		Month: int(ref.Month()),
		Item:  item,
	}
	if err := p.store.SaveMonthlyPick(ctx, pickRecord); err != nil {
		return fmt.Errorf("failed to save monthly pick: %w", err)
	}

	p.logger.Info("Monthly pick pinned",
		zap.Int("year", pickRecord.Year),
		zap.Int("month", pickRecord.Month),
		zap.String("title", item.Title),
	)
	return nil
}

// UnpinMonthlyPick removes the stored pick for the month containing
// ref, restoring the deterministic fallback.
func (p *Picker) UnpinMonthlyPick(ctx context.Context, ref time.Time) error {
	if err := p.store.DeleteMonthlyPick(ctx, ref.Year(), int(ref.Month())); err != nil {
		return fmt.Errorf("failed to delete monthly pick: %w", err)
	}
	return nil
}
