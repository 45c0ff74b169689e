package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"bookdiary/internal/models"
)

const dateLayout = "2006-01-02"

// refDate resolves the optional ?date=yyyy-MM-dd query parameter,
// defaulting to the current date.
func (s *Server) refDate(r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return s.clock.Now(), true
	}
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

func (s *Server) handleDailyPick(w http.ResponseWriter, r *http.Request) {
	date, ok := s.refDate(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid date, expected yyyy-MM-dd")
		return
	}

	item, found, err := s.picker.PickForDate(r.Context(), date)
	if err != nil {
		s.writeFailure(w, err, "daily pick")
		return
	}
	if !found {
		// An empty pool is an empty result, not an error.
		s.writeError(w, http.StatusNotFound, "no books in catalog")
		return
	}

	s.writeJSON(w, http.StatusOK, models.DailySelection{
		Date: date.Format(dateLayout),
		Item: item,
	})
}

func (s *Server) handleRefreshDailyPick(w http.ResponseWriter, r *http.Request) {
	s.picker.Refresh()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetMonthlyPick(w http.ResponseWriter, r *http.Request) {
	date, ok := s.refDate(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid date, expected yyyy-MM-dd")
		return
	}

	selection, found, err := s.picker.MonthlyPick(r.Context(), date)
	if err != nil {
		s.writeFailure(w, err, "monthly pick")
		return
	}
	if !found {
		s.writeError(w, http.StatusNotFound, "no books in catalog")
		return
	}

	s.writeJSON(w, http.StatusOK, selection)
}

func (s *Server) handlePinMonthlyPick(w http.ResponseWriter, r *http.Request) {
	var item models.CatalogItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if item.ID == "" || item.Title == "" {
		s.writeError(w, http.StatusBadRequest, "id and title are required")
		return
	}

	date, ok := s.refDate(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid date, expected yyyy-MM-dd")
		return
	}

	if err := s.picker.PinMonthlyPick(r.Context(), item, date); err != nil {
		s.writeFailure(w, err, "pin monthly pick")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnpinMonthlyPick(w http.ResponseWriter, r *http.Request) {
	date, ok := s.refDate(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid date, expected yyyy-MM-dd")
		return
	}

	if err := s.picker.UnpinMonthlyPick(r.Context(), date); err != nil {
		s.writeFailure(w, err, "unpin monthly pick")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCatalog(w http.ResponseWriter, r *http.Request) {
	items, err := s.catalog.LoadPool(r.Context())
	if err != nil {
		s.writeFailure(w, err, "list catalog")
		return
	}
	s.writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleUpsertBook(w http.ResponseWriter, r *http.Request) {
	var item models.CatalogItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if item.ID == "" || item.Title == "" {
		s.writeError(w, http.StatusBadRequest, "id and title are required")
		return
	}

	if err := s.store.UpsertBook(r.Context(), item); err != nil {
		s.writeFailure(w, err, "upsert book")
		return
	}

	s.logger.Info("Catalog item stored",
		zap.String("book_id", item.ID),
		zap.String("title", item.Title),
	)
	s.writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	if bookID := r.URL.Query().Get("book_id"); bookID != "" {
		s.writeJSON(w, http.StatusOK, s.tracker.EventsForItem(bookID))
		return
	}

	if month := r.URL.Query().Get("month"); month != "" {
		ref, err := time.Parse("2006-01", month)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid month, expected yyyy-MM")
			return
		}
		s.writeJSON(w, http.StatusOK, s.tracker.EventsInMonth(ref))
		return
	}

	if year := r.URL.Query().Get("year"); year != "" {
		ref, err := time.Parse("2006", year)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid year, expected yyyy")
			return
		}
		s.writeJSON(w, http.StatusOK, s.tracker.EventsInYear(ref))
		return
	}

	s.writeJSON(w, http.StatusOK, s.tracker.AllEvents())
}

// CreateEventRequest represents the request body for logging a read
type CreateEventRequest struct {
	BookID string `json:"book_id"`
	Date   string `json:"date"`
	Notes  string `json:"notes"`
	Rating int    `json:"rating"`
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BookID == "" {
		s.writeError(w, http.StatusBadRequest, "book_id is required")
		return
	}

	completedOn := s.clock.Now()
	if req.Date != "" {
		date, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid date format")
			return
		}
		completedOn = date
	}

	event, err := s.tracker.AddEvent(r.Context(), req.BookID, completedOn, req.Notes, req.Rating)
	if err != nil {
		s.writeFailure(w, err, "create event")
		return
	}

	s.writeJSON(w, http.StatusCreated, event)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	removed, err := s.tracker.RemoveEvent(r.Context(), id)
	if err != nil {
		s.writeFailure(w, err, "delete event")
		return
	}
	if !removed {
		s.writeError(w, http.StatusNotFound, "event not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.tracker.Snapshot())
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]int{"goal": s.tracker.Goal()})
}

// SetGoalRequest represents the request body for updating the goal
type SetGoalRequest struct {
	Goal int `json:"goal"`
}

func (s *Server) handleSetGoal(w http.ResponseWriter, r *http.Request) {
	var req SetGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.tracker.SetGoal(r.Context(), req.Goal); err != nil {
		s.writeFailure(w, err, "set goal")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"goal": s.tracker.Goal()})
}

func (s *Server) handleListReadingList(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.ListReadingList(r.Context())
	if err != nil {
		s.writeFailure(w, err, "list reading list")
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"book_ids": ids})
}

// ReadingListRequest represents the request body for wishlist additions
type ReadingListRequest struct {
	BookID string `json:"book_id"`
}

func (s *Server) handleAddToReadingList(w http.ResponseWriter, r *http.Request) {
	var req ReadingListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BookID == "" {
		s.writeError(w, http.StatusBadRequest, "book_id is required")
		return
	}

	if err := s.store.AddToReadingList(r.Context(), req.BookID); err != nil {
		s.writeFailure(w, err, "add to reading list")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveFromReadingList(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	removed, err := s.store.RemoveFromReadingList(r.Context(), id)
	if err != nil {
		s.writeFailure(w, err, "remove from reading list")
		return
	}
	if !removed {
		s.writeError(w, http.StatusNotFound, "book not in reading list")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
