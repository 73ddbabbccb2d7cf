package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/pkg/logger"
)

var (
	errLastVisitRequired = errors.New("lastVisit required")
	errLastVisitInvalid  = errors.New("lastVisit must be an ISO 8601 timestamp")
)

type catchUpRequest struct {
	LastVisit string `json:"lastVisit"`
}

type catchUpResponse struct {
	CatchUp *model.Text `json:"catchup"`
}

// CatchUpHandler tells returning visitors what they missed.
type CatchUpHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewCatchUpHandler creates a new catch-up handler.
func NewCatchUpHandler(deps Dependencies, l logger.Logger) *CatchUpHandler {
	return &CatchUpHandler{deps: deps, logger: l}
}

// HandleCatchUp handles POST /catchup/{id} {"lastVisit": "<RFC 3339>"}.
func (h *CatchUpHandler) HandleCatchUp(w http.ResponseWriter, r *http.Request) {
	var req catchUpRequest
	if err := decodeBody(w, r, &req); err != nil || req.LastVisit == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errLastVisitRequired)
		return
	}
	lastVisit, err := time.Parse(time.RFC3339, req.LastVisit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errLastVisitInvalid)
		return
	}

	text, err := h.deps.CatchUp(r.Context(), r.PathValue("id"), lastVisit)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, catchUpResponse{CatchUp: text})
}
