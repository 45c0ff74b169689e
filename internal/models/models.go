package models

import "time"

// CatalogItem represents a book supplied by the catalog.
// Immutable once loaded; the tracker references it by ID only.
type CatalogItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Description string   `json:"description,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	PageCount   int      `json:"page_count,omitempty"`
	Categories  []string `json:"categories,omitempty"`
}

// ReadingEvent represents one completed reading of a book.
// Re-reads are allowed, so multiple events may reference the same book.
type ReadingEvent struct {
	ID          string    `json:"id"`
	BookID      string    `json:"book_id"`
	CompletedOn time.Time `json:"completed_on"`
	Notes       string    `json:"notes,omitempty"`
	Rating      int       `json:"rating,omitempty"` // 1-5, 0 means not rated
}

// DailySelection is the book of the day for a calendar date.
// Derived, never persisted; recomputed from (date, pool).
type DailySelection struct {
	Date string      `json:"date"` // yyyy-MM-dd key the selection was computed for
	Item CatalogItem `json:"item"`
}

// MonthlyPick is a stored book of the month for a calendar month.
type MonthlyPick struct {
	Year  int         `json:"year"`
	Month int         `json:"month"`
	Item  CatalogItem `json:"item"`
}

// MonthlySelection is the resolved book of the month. Pinned means a
// pick was stored explicitly rather than derived from the rotation.
type MonthlySelection struct {
	Year   int         `json:"year"`
	Month  int         `json:"month"`
	Item   CatalogItem `json:"item"`
	Pinned bool        `json:"pinned"`
}

// ProgressSnapshot is a derived, point-in-time view of reading progress.
// Stale is set when the snapshot was computed from cached events after
// a failed reload from storage.
type ProgressSnapshot struct {
	ReadCount       int     `json:"read_count"`
	Goal            int     `json:"goal"`
	PercentComplete float64 `json:"percent_complete"`
	ReadThisMonth   int     `json:"read_this_month"`
	ReadThisYear    int     `json:"read_this_year"`
	Stale           bool    `json:"stale,omitempty"`
}
