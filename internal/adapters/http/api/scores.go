package api

import (
	"net/http"

	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/pkg/logger"
)

// ScoresHandler serves listings and single matches.
type ScoresHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps Dependencies, l logger.Logger) *ScoresHandler {
	return &ScoresHandler{deps: deps, logger: l}
}

// HandleListScores handles GET /scores?sport=<cricket|football>.
func (h *ScoresHandler) HandleListScores(w http.ResponseWriter, r *http.Request) {
	var sport model.Sport
	if raw := r.URL.Query().Get("sport"); raw != "" {
		parsed, err := model.ParseSport(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrInvalidSport)
			return
		}
		sport = parsed
	}

	res, err := h.deps.GetScores(r.Context(), sport)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleGetMatch handles GET /scores/{id}.
func (h *ScoresHandler) HandleGetMatch(w http.ResponseWriter, r *http.Request) {
	m, err := h.deps.GetMatch(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleGetBySlug handles GET /matches/{sport}/{slug}.
func (h *ScoresHandler) HandleGetBySlug(w http.ResponseWriter, r *http.Request) {
	sport, err := model.ParseSport(r.PathValue("sport"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", ErrNotFound)
		return
	}
	m, err := h.deps.ResolveSlug(r.Context(), sport, r.PathValue("slug"))
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}
