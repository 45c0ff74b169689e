package stubs

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookdiary/internal/models"
	"bookdiary/internal/storage"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestMockDB_SaveAndListEvents(t *testing.T) {
	db := NewMockDB()
	ctx := context.Background()

	events := []models.ReadingEvent{
		{ID: "e1", BookID: "b1", CompletedOn: date("2024-06-01")},
		{ID: "e2", BookID: "b2", CompletedOn: date("2024-06-10"), Rating: 5},
		{ID: "e3", BookID: "b1", CompletedOn: date("2024-05-20"), Notes: "re-read"},
	}
	for _, event := range events {
		if err := db.SaveEvent(ctx, event); err != nil {
			t.Fatalf("Failed to save event: %v", err)
		}
	}

	listed, err := db.ListEvents(ctx)
	if err != nil {
		t.Fatalf("Failed to list events: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(listed))
	}

	// Sorted by completion date descending
	if listed[0].ID != "e2" || listed[1].ID != "e1" || listed[2].ID != "e3" {
		t.Errorf("Unexpected event order: %s, %s, %s", listed[0].ID, listed[1].ID, listed[2].ID)
	}
}

func TestMockDB_DeleteEvent(t *testing.T) {
	db := NewMockDB()
	ctx := context.Background()

	if err := db.SaveEvent(ctx, models.ReadingEvent{ID: "e1", BookID: "b1", CompletedOn: date("2024-06-01")}); err != nil {
		t.Fatalf("Failed to save event: %v", err)
	}

	removed, err := db.DeleteEvent(ctx, "e1")
	if err != nil {
		t.Fatalf("Failed to delete event: %v", err)
	}
	if !removed {
		t.Error("Expected delete to report true for an existing event")
	}

	// Second delete is a no-op
	removed, err = db.DeleteEvent(ctx, "e1")
	if err != nil {
		t.Fatalf("Failed to delete event: %v", err)
	}
	if removed {
		t.Error("Expected delete to report false for a missing event")
	}
}

func TestMockDB_GoalRoundtrip(t *testing.T) {
	db := NewMockDB()
	ctx := context.Background()

	_, ok, err := db.LoadGoal(ctx)
	if err != nil {
		t.Fatalf("Failed to load goal: %v", err)
	}
	if ok {
		t.Error("Expected no stored goal initially")
	}

	if err := db.SaveGoal(ctx, 15); err != nil {
		t.Fatalf("Failed to save goal: %v", err)
	}

	goal, ok, err := db.LoadGoal(ctx)
	if err != nil {
		t.Fatalf("Failed to load goal: %v", err)
	}
	if !ok || goal != 15 {
		t.Errorf("Expected stored goal 15, got %d (ok=%v)", goal, ok)
	}
}

func TestMockDB_MonthlyPick(t *testing.T) {
	db := NewMockDB()
	ctx := context.Background()

	_, ok, err := db.LoadMonthlyPick(ctx, 2024, 6)
	if err != nil {
		t.Fatalf("Failed to load monthly pick: %v", err)
	}
	if ok {
		t.Error("Expected no pick initially")
	}

	pickRecord := models.MonthlyPick{
		Year:  2024,
		Month: 6,
		Item:  models.CatalogItem{ID: "b1", Title: "The Hobbit"},
	}
	if err := db.SaveMonthlyPick(ctx, pickRecord); err != nil {
		t.Fatalf("Failed to save monthly pick: %v", err)
	}

	loaded, ok, err := db.LoadMonthlyPick(ctx, 2024, 6)
	if err != nil {
		t.Fatalf("Failed to load monthly pick: %v", err)
	}
	if !ok || loaded.Item.Title != "The Hobbit" {
		t.Errorf("Unexpected pick: %+v (ok=%v)", loaded, ok)
	}

	// Other months are unaffected
	_, ok, err = db.LoadMonthlyPick(ctx, 2024, 7)
	if err != nil {
		t.Fatalf("Failed to load monthly pick: %v", err)
	}
	if ok {
		t.Error("Expected no pick for another month")
	}

	if err := db.DeleteMonthlyPick(ctx, 2024, 6); err != nil {
		t.Fatalf("Failed to delete monthly pick: %v", err)
	}
	_, ok, err = db.LoadMonthlyPick(ctx, 2024, 6)
	if err != nil {
		t.Fatalf("Failed to load monthly pick: %v", err)
	}
	if ok {
		t.Error("Expected pick to be deleted")
	}
}

func TestMockDB_Books(t *testing.T) {
	db := NewMockDB()
	ctx := context.Background()

	books := []models.CatalogItem{
		{ID: "2", Title: "B"},
		{ID: "1", Title: "A"},
	}
	for _, book := range books {
		if err := db.UpsertBook(ctx, book); err != nil {
			t.Fatalf("Failed to upsert book: %v", err)
		}
	}

	listed, err := db.ListBooks(ctx)
	if err != nil {
		t.Fatalf("Failed to list books: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("Expected 2 books, got %d", len(listed))
	}
	// Sorted by ID
	if listed[0].ID != "1" || listed[1].ID != "2" {
		t.Errorf("Unexpected order: %s, %s", listed[0].ID, listed[1].ID)
	}

	// Upsert replaces by ID
	if err := db.UpsertBook(ctx, models.CatalogItem{ID: "1", Title: "A2"}); err != nil {
		t.Fatalf("Failed to upsert book: %v", err)
	}
	listed, err = db.ListBooks(ctx)
	if err != nil {
		t.Fatalf("Failed to list books: %v", err)
	}
	if len(listed) != 2 || listed[0].Title != "A2" {
		t.Errorf("Expected upsert to replace, got %+v", listed)
	}
}

func TestMockDB_ReadingList(t *testing.T) {
	db := NewMockDB()
	ctx := context.Background()

	if err := db.AddToReadingList(ctx, "b1"); err != nil {
		t.Fatalf("Failed to add to reading list: %v", err)
	}
	// Adding twice is a no-op
	if err := db.AddToReadingList(ctx, "b1"); err != nil {
		t.Fatalf("Failed to add to reading list: %v", err)
	}
	if err := db.AddToReadingList(ctx, "b2"); err != nil {
		t.Fatalf("Failed to add to reading list: %v", err)
	}

	ids, err := db.ListReadingList(ctx)
	if err != nil {
		t.Fatalf("Failed to list reading list: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("Expected 2 listed books, got %d", len(ids))
	}

	removed, err := db.RemoveFromReadingList(ctx, "b1")
	if err != nil {
		t.Fatalf("Failed to remove from reading list: %v", err)
	}
	if !removed {
		t.Error("Expected removal to report true")
	}

	removed, err = db.RemoveFromReadingList(ctx, "b1")
	if err != nil {
		t.Fatalf("Failed to remove from reading list: %v", err)
	}
	if removed {
		t.Error("Expected removal of missing book to report false")
	}
}

func TestMockDB_Unavailable(t *testing.T) {
	db := NewMockDB()
	ctx := context.Background()

	db.SetUnavailable(true)

	if err := db.SaveEvent(ctx, models.ReadingEvent{ID: "e1"}); !errors.Is(err, storage.ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable from SaveEvent, got %v", err)
	}
	if _, err := db.ListEvents(ctx); !errors.Is(err, storage.ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable from ListEvents, got %v", err)
	}
	if _, _, err := db.LoadGoal(ctx); !errors.Is(err, storage.ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable from LoadGoal, got %v", err)
	}

	// Recovers once available again
	db.SetUnavailable(false)
	if err := db.SaveEvent(ctx, models.ReadingEvent{ID: "e1"}); err != nil {
		t.Errorf("Expected save to succeed after recovery, got %v", err)
	}
}
