package ch

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"bookdiary/internal/models"
	"bookdiary/internal/storage"

	"github.com/ClickHouse/clickhouse-go/v2"
)

type ClickHouseDB struct {
	conn clickhouse.Conn
}

// NewClickHouseDB creates a new ClickHouse database connection
func NewClickHouseDB(host string, port int, database, user, password string, useTLS bool) (*ClickHouseDB, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	options := &clickhouse.Options{
		Addr:     []string{addr},
		Protocol: clickhouse.Native,
		Auth: clickhouse.Auth{
			Database: database,
			Username: user,
			Password: password,
		},
		DialTimeout: 10 * time.Second,
	}

	// Configure TLS if enabled
	if useTLS {
		options.TLS = &tls.Config{
			InsecureSkipVerify: false,
		}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	// Test the connection
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &ClickHouseDB{conn: conn}, nil
}

// unavailable wraps a driver error so callers can match
// storage.ErrUnavailable with errors.Is.
func unavailable(op string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", op, storage.ErrUnavailable, err)
}

// Initialize is a no-op - tables are managed via migrations
func (db *ClickHouseDB) Initialize(ctx context.Context) error {
	// Tables are managed via migrations (see migrations/ directory)
	// This method is kept for interface compatibility
	return nil
}

// SaveEvent stores a reading event
func (db *ClickHouseDB) SaveEvent(ctx context.Context, event models.ReadingEvent) error {
	err := db.conn.Exec(ctx,
		`INSERT INTO reading_events (id, book_id, completed_on, notes, rating) VALUES (?, ?, ?, ?, ?)`,
		event.ID, event.BookID, event.CompletedOn, event.Notes, uint8(event.Rating))
	if err != nil {
		return unavailable("save event", err)
	}
	return nil
}

// DeleteEvent removes a reading event by id, reporting whether it existed
func (db *ClickHouseDB) DeleteEvent(ctx context.Context, id string) (bool, error) {
	var count uint64
	row := db.conn.QueryRow(ctx, `SELECT count() FROM reading_events WHERE id = ?`, id)
	if err := row.Scan(&count); err != nil {
		return false, unavailable("check event", err)
	}
	if count == 0 {
		return false, nil
	}

	if err := db.conn.Exec(ctx, `DELETE FROM reading_events WHERE id = ?`, id); err != nil {
		return false, unavailable("delete event", err)
	}
	return true, nil
}

// ListEvents returns all reading events sorted by completion date descending
func (db *ClickHouseDB) ListEvents(ctx context.Context) ([]models.ReadingEvent, error) {
	rows, err := db.conn.Query(ctx,
		`SELECT id, book_id, completed_on, notes, rating FROM reading_events ORDER BY completed_on DESC, id`)
	if err != nil {
		return nil, unavailable("list events", err)
	}
	defer rows.Close()

	var events []models.ReadingEvent
	for rows.Next() {
		var event models.ReadingEvent
		var rating uint8
		if err := rows.Scan(&event.ID, &event.BookID, &event.CompletedOn, &event.Notes, &rating); err != nil {
			return nil, unavailable("scan event", err)
		}
		event.Rating = int(rating)
		events = append(events, event)
	}
	return events, nil
}

// LoadGoal returns the most recently saved reading goal
func (db *ClickHouseDB) LoadGoal(ctx context.Context) (int, bool, error) {
	rows, err := db.conn.Query(ctx,
		`SELECT value FROM settings WHERE name = 'reading_goal' ORDER BY updated DESC LIMIT 1`)
	if err != nil {
		return 0, false, unavailable("load goal", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return 0, false, nil
	}

	var value int64
	if err := rows.Scan(&value); err != nil {
		return 0, false, unavailable("scan goal", err)
	}
	return int(value), true, nil
}

// SaveGoal stores the reading goal
func (db *ClickHouseDB) SaveGoal(ctx context.Context, goal int) error {
	err := db.conn.Exec(ctx,
		`INSERT INTO settings (name, value, updated) VALUES ('reading_goal', ?, now())`, int64(goal))
	if err != nil {
		return unavailable("save goal", err)
	}
	return nil
}

// LoadMonthlyPick returns the most recently stored pick for a month, if any
func (db *ClickHouseDB) LoadMonthlyPick(ctx context.Context, year, month int) (models.MonthlyPick, bool, error) {
	rows, err := db.conn.Query(ctx,
		`SELECT book_id, title, authors, description, thumbnail, page_count, categories
		 FROM monthly_picks WHERE year = ? AND month = ?
		 ORDER BY updated DESC LIMIT 1`,
		uint16(year), uint8(month))
	if err != nil {
		return models.MonthlyPick{}, false, unavailable("load monthly pick", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return models.MonthlyPick{}, false, nil
	}

	pick := models.MonthlyPick{Year: year, Month: month}
	var pageCount int32
	if err := rows.Scan(&pick.Item.ID, &pick.Item.Title, &pick.Item.Authors,
		&pick.Item.Description, &pick.Item.Thumbnail, &pageCount, &pick.Item.Categories); err != nil {
		return models.MonthlyPick{}, false, unavailable("scan monthly pick", err)
	}
	pick.Item.PageCount = int(pageCount)
	return pick, true, nil
}

// SaveMonthlyPick stores a pick. Earlier picks for the same month are
// superseded by the insert timestamp, not overwritten.
func (db *ClickHouseDB) SaveMonthlyPick(ctx context.Context, pick models.MonthlyPick) error {
	err := db.conn.Exec(ctx,
		`INSERT INTO monthly_picks (year, month, book_id, title, authors, description, thumbnail, page_count, categories, updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, now())`,
		uint16(pick.Year), uint8(pick.Month), pick.Item.ID, pick.Item.Title, pick.Item.Authors,
		pick.Item.Description, pick.Item.Thumbnail, int32(pick.Item.PageCount), pick.Item.Categories)
	if err != nil {
		return unavailable("save monthly pick", err)
	}
	return nil
}

// DeleteMonthlyPick removes all stored picks for a month
func (db *ClickHouseDB) DeleteMonthlyPick(ctx context.Context, year, month int) error {
	err := db.conn.Exec(ctx, `DELETE FROM monthly_picks WHERE year = ? AND month = ?`,
		uint16(year), uint8(month))
	if err != nil {
		return unavailable("delete monthly pick", err)
	}
	return nil
}

// ListBooks returns all catalog items ordered by ID
func (db *ClickHouseDB) ListBooks(ctx context.Context) ([]models.CatalogItem, error) {
	rows, err := db.conn.Query(ctx,
		`SELECT id, title, authors, description, thumbnail, page_count, categories
		 FROM books FINAL ORDER BY id`)
	if err != nil {
		return nil, unavailable("list books", err)
	}
	defer rows.Close()

	var books []models.CatalogItem
	for rows.Next() {
		var book models.CatalogItem
		var pageCount int32
		if err := rows.Scan(&book.ID, &book.Title, &book.Authors,
			&book.Description, &book.Thumbnail, &pageCount, &book.Categories); err != nil {
			return nil, unavailable("scan book", err)
		}
		book.PageCount = int(pageCount)
		books = append(books, book)
	}
	return books, nil
}

// UpsertBook stores or replaces a catalog item
func (db *ClickHouseDB) UpsertBook(ctx context.Context, item models.CatalogItem) error {
	err := db.conn.Exec(ctx,
		`INSERT INTO books (id, title, authors, description, thumbnail, page_count, categories)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Title, item.Authors, item.Description, item.Thumbnail,
		int32(item.PageCount), item.Categories)
	if err != nil {
		return unavailable("upsert book", err)
	}
	return nil
}

// AddToReadingList adds a book to the reading list
func (db *ClickHouseDB) AddToReadingList(ctx context.Context, bookID string) error {
	listed, err := db.isInReadingList(ctx, bookID)
	if err != nil {
		return err
	}
	if listed {
		return nil
	}

	if err := db.conn.Exec(ctx,
		`INSERT INTO reading_list (book_id, added) VALUES (?, now())`, bookID); err != nil {
		return unavailable("add to reading list", err)
	}
	return nil
}

// RemoveFromReadingList removes a book, reporting whether it was listed
func (db *ClickHouseDB) RemoveFromReadingList(ctx context.Context, bookID string) (bool, error) {
	listed, err := db.isInReadingList(ctx, bookID)
	if err != nil {
		return false, err
	}
	if !listed {
		return false, nil
	}

	if err := db.conn.Exec(ctx, `DELETE FROM reading_list WHERE book_id = ?`, bookID); err != nil {
		return false, unavailable("remove from reading list", err)
	}
	return true, nil
}

// ListReadingList returns listed book IDs, oldest first
func (db *ClickHouseDB) ListReadingList(ctx context.Context) ([]string, error) {
	rows, err := db.conn.Query(ctx, `SELECT book_id FROM reading_list ORDER BY added`)
	if err != nil {
		return nil, unavailable("list reading list", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, unavailable("scan reading list", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (db *ClickHouseDB) isInReadingList(ctx context.Context, bookID string) (bool, error) {
	var count uint64
	row := db.conn.QueryRow(ctx, `SELECT count() FROM reading_list WHERE book_id = ?`, bookID)
	if err := row.Scan(&count); err != nil {
		return false, unavailable("check reading list", err)
	}
	return count > 0, nil
}

// Close closes the database connection
func (db *ClickHouseDB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}
