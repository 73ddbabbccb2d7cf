// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/okian/matchday/internal/adapters/ai"
	service "github.com/okian/matchday/internal/app"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/pkg/logger"
)

const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the aggregator implementation.
type Dependencies interface {
	GetScores(ctx context.Context, sport model.Sport) (model.ScoresResult, error)
	GetMatch(ctx context.Context, id string) (model.Match, error)
	ResolveSlug(ctx context.Context, sport model.Sport, slug string) (model.Match, error)
	Search(ctx context.Context, query string) (ai.SearchAnswer, error)
	CatchUp(ctx context.Context, id string, lastVisit time.Time) (*model.Text, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	scoresHandler  *ScoresHandler
	searchHandler  *SearchHandler
	catchUpHandler *CatchUpHandler
	logger         logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	l := logger.Get().Named("api")
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		scoresHandler:  NewScoresHandler(deps, l),
		searchHandler:  NewSearchHandler(deps, l),
		catchUpHandler: NewCatchUpHandler(deps, l),
		logger:         l,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /health", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /scores", MetricsMiddleware(s.scoresHandler.HandleListScores, "scores"))
	mux.HandleFunc("GET /scores/{id}", MetricsMiddleware(s.scoresHandler.HandleGetMatch, "scores_id"))
	mux.HandleFunc("GET /matches/{sport}/{slug}", MetricsMiddleware(s.scoresHandler.HandleGetBySlug, "matches_slug"))
	mux.HandleFunc("POST /search", MetricsMiddleware(s.searchHandler.HandleSearch, "search"))
	mux.HandleFunc("POST /catchup/{id}", MetricsMiddleware(s.catchUpHandler.HandleCatchUp, "catchup"))
}

// Handler wraps next with panic recovery and request ids.
func (s *Server) Handler(next http.Handler) http.Handler {
	return RequestIDMiddleware(RecoverMiddleware(next, s.logger))
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

// writeServiceError maps aggregator errors to status codes. Unexpected
// errors are logged and answered with a generic message.
func writeServiceError(ctx context.Context, w http.ResponseWriter, l logger.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrMatchNotFound):
		writeError(w, http.StatusNotFound, "not_found", ErrNotFound)
	case errors.Is(err, model.ErrUnknownSport):
		writeError(w, http.StatusBadRequest, "bad_request", ErrInvalidSport)
	case errors.Is(err, service.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, "bad_request", service.ErrEmptyQuery)
	default:
		l.Error(ctx, "request failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", ErrInternal)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
