package api

import (
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/matchday/internal/app"
	"github.com/okian/matchday/pkg/logger"
)

type searchRequest struct {
	Query string `json:"query"`
}

// SearchHandler answers free-text match searches.
type SearchHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps Dependencies, l logger.Logger) *SearchHandler {
	return &SearchHandler{deps: deps, logger: l}
}

// HandleSearch handles POST /search {"query": "..."}.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeBody(w, r, &req); err != nil || strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", service.ErrEmptyQuery)
		return
	}

	answer, err := h.deps.Search(r.Context(), req.Query)
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuery) {
			writeError(w, http.StatusBadRequest, "bad_request", service.ErrEmptyQuery)
			return
		}
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	if answer.MatchIDs == nil {
		answer.MatchIDs = []string{}
	}
	writeJSON(w, http.StatusOK, answer)
}
