package stubs

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"bookdiary/internal/models"
	"bookdiary/internal/storage"
)

// MockDB is an in-memory implementation of the Storage interface for
// testing and USE_MOCK_DB mode.
type MockDB struct {
	mu           sync.RWMutex
	events       map[string]models.ReadingEvent
	goal         int
	goalSet      bool
	monthlyPicks map[string]models.MonthlyPick
	books        map[string]models.CatalogItem
	readingList  map[string]time.Time
	unavailable  bool
}

// NewMockDB creates a new mock database
func NewMockDB() *MockDB {
	return &MockDB{
		events:       make(map[string]models.ReadingEvent),
		monthlyPicks: make(map[string]models.MonthlyPick),
		books:        make(map[string]models.CatalogItem),
		readingList:  make(map[string]time.Time),
	}
}

// SetUnavailable switches the mock into a failing state. Every
// operation returns storage.ErrUnavailable until switched back.
func (m *MockDB) SetUnavailable(unavailable bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unavailable = unavailable
}

func (m *MockDB) checkAvailable(op string) error {
	if m.unavailable {
		return fmt.Errorf("%s: %w", op, storage.ErrUnavailable)
	}
	return nil
}

// Initialize does nothing for mock DB
func (m *MockDB) Initialize(ctx context.Context) error {
	return nil
}

// SaveEvent stores a reading event
func (m *MockDB) SaveEvent(ctx context.Context, event models.ReadingEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkAvailable("save event"); err != nil {
		return err
	}

	m.events[event.ID] = event
	return nil
}

// DeleteEvent removes a reading event by id, reporting whether it existed
func (m *MockDB) DeleteEvent(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkAvailable("delete event"); err != nil {
		return false, err
	}

	if _, ok := m.events[id]; !ok {
		return false, nil
	}
	delete(m.events, id)
	return true, nil
}

// ListEvents returns all reading events sorted by completion date descending
func (m *MockDB) ListEvents(ctx context.Context) ([]models.ReadingEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkAvailable("list events"); err != nil {
		return nil, err
	}

	events := make([]models.ReadingEvent, 0, len(m.events))
	for _, event := range m.events {
		events = append(events, event)
	}

	// Sort by completion date descending
	sort.Slice(events, func(i, j int) bool {
		return events[i].CompletedOn.After(events[j].CompletedOn)
	})
	return events, nil
}

// LoadGoal returns the stored goal; ok is false when none was saved
func (m *MockDB) LoadGoal(ctx context.Context) (int, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkAvailable("load goal"); err != nil {
		return 0, false, err
	}

	return m.goal, m.goalSet, nil
}

// SaveGoal stores the reading goal
func (m *MockDB) SaveGoal(ctx context.Context, goal int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkAvailable("save goal"); err != nil {
		return err
	}

	m.goal = goal
	m.goalSet = true
	return nil
}

// LoadMonthlyPick returns the stored pick for a month, if any
func (m *MockDB) LoadMonthlyPick(ctx context.Context, year, month int) (models.MonthlyPick, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkAvailable("load monthly pick"); err != nil {
		return models.MonthlyPick{}, false, err
	}

	pick, ok := m.monthlyPicks[monthKey(year, month)]
	return pick, ok, nil
}

// SaveMonthlyPick stores a pick, replacing any previous pick for the month
func (m *MockDB) SaveMonthlyPick(ctx context.Context, pick models.MonthlyPick) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkAvailable("save monthly pick"); err != nil {
		return err
	}

	m.monthlyPicks[monthKey(pick.Year, pick.Month)] = pick
	return nil
}

// DeleteMonthlyPick removes the stored pick for a month
func (m *MockDB) DeleteMonthlyPick(ctx context.Context, year, month int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkAvailable("delete monthly pick"); err != nil {
		return err
	}

	delete(m.monthlyPicks, monthKey(year, month))
	return nil
}

// ListBooks returns all catalog items sorted by ID
func (m *MockDB) ListBooks(ctx context.Context) ([]models.CatalogItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkAvailable("list books"); err != nil {
		return nil, err
	}

	books := make([]models.CatalogItem, 0, len(m.books))
	for _, book := range m.books {
		books = append(books, book)
	}

	// Sort by ID
	sort.Slice(books, func(i, j int) bool {
		return books[i].ID < books[j].ID
	})
	return books, nil
}

// UpsertBook stores or replaces a catalog item
func (m *MockDB) UpsertBook(ctx context.Context, item models.CatalogItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkAvailable("upsert book"); err != nil {
		return err
	}

	m.books[item.ID] = item
	return nil
}

// AddToReadingList adds a book to the reading list; adding twice is a no-op
func (m *MockDB) AddToReadingList(ctx context.Context, bookID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkAvailable("add to reading list"); err != nil {
		return err
	}

	if _, ok := m.readingList[bookID]; !ok {
		m.readingList[bookID] = time.Now()
	}
	return nil
}

// RemoveFromReadingList removes a book, reporting whether it was listed
func (m *MockDB) RemoveFromReadingList(ctx context.Context, bookID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkAvailable("remove from reading list"); err != nil {
		return false, err
	}

	if _, ok := m.readingList[bookID]; !ok {
		return false, nil
	}
	delete(m.readingList, bookID)
	return true, nil
}

// ListReadingList returns listed book IDs, oldest first
func (m *MockDB) ListReadingList(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkAvailable("list reading list"); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(m.readingList))
	for id := range m.readingList {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return m.readingList[ids[i]].Before(m.readingList[ids[j]])
	})
	return ids, nil
}

// Close does nothing for mock DB
func (m *MockDB) Close() error {
	return nil
}

func monthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
