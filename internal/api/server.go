package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"bookdiary/internal/catalog"
	"bookdiary/internal/clock"
	"bookdiary/internal/pick"
	"bookdiary/internal/storage"
	"bookdiary/internal/tracker"
)

// Server exposes the tracker and picker operations as a JSON API.
type Server struct {
	tracker *tracker.Tracker
	picker  *pick.Picker
	catalog catalog.Provider
	store   storage.Storage
	clock   clock.Clock
	logger  *zap.Logger
}

// New creates an API server.
func New(trk *tracker.Tracker, picker *pick.Picker, provider catalog.Provider, store storage.Storage, clk clock.Clock, logger *zap.Logger) *Server {
	return &Server{
		tracker: trk,
		picker:  picker,
		catalog: provider,
		store:   store,
		clock:   clk,
		logger:  logger,
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/daily-pick", s.handleDailyPick)
		r.Post("/daily-pick/refresh", s.handleRefreshDailyPick)

		r.Get("/monthly-pick", s.handleGetMonthlyPick)
		r.Put("/monthly-pick", s.handlePinMonthlyPick)
		r.Delete("/monthly-pick", s.handleUnpinMonthlyPick)

		r.Get("/catalog", s.handleListCatalog)
		r.Post("/catalog", s.handleUpsertBook)

		r.Get("/events", s.handleListEvents)
		r.Post("/events", s.handleCreateEvent)
		r.Delete("/events/{id}", s.handleDeleteEvent)

		r.Get("/progress", s.handleProgress)
		r.Get("/goal", s.handleGetGoal)
		r.Put("/goal", s.handleSetGoal)

		r.Get("/reading-list", s.handleListReadingList)
		r.Post("/reading-list", s.handleAddToReadingList)
		r.Delete("/reading-list/{id}", s.handleRemoveFromReadingList)
	})

	return r
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeFailure maps domain errors onto HTTP statuses. Storage outages
// become 503 so callers can tell "no data" from "couldn't reach
// storage"; validation rejects become 400.
func (s *Server) writeFailure(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, storage.ErrUnavailable):
		s.logger.Error("Storage unavailable", zap.String("op", op), zap.Error(err))
		s.writeError(w, http.StatusServiceUnavailable, "storage unavailable")
	case errors.Is(err, tracker.ErrInvalidGoal), errors.Is(err, tracker.ErrInvalidRating):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("Request failed", zap.String("op", op), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}
