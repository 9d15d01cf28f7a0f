package api

import (
	"context"
	"net/http"

	"github.com/nanavatisneha/analytics-handbook/internal/domain/model"
)

// AggregatesHandler serves the canned SQL aggregates.
type AggregatesHandler struct {
	deps Dependencies
}

// NewAggregatesHandler creates a new aggregates handler.
func NewAggregatesHandler(deps Dependencies) *AggregatesHandler {
	return &AggregatesHandler{deps: deps}
}

// HandleShots handles GET /aggregates/shots requests.
func (h *AggregatesHandler) HandleShots(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "api.aggregates.shots", h.deps.ShotSummary)
}

// HandlePasses handles GET /aggregates/passes requests.
func (h *AggregatesHandler) HandlePasses(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "api.aggregates.passes", h.deps.PassSummary)
}

func (h *AggregatesHandler) serve(w http.ResponseWriter, r *http.Request, op string, fetch func(context.Context) (*model.Table, error)) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}

	table, err := fetch(r.Context())
	if err != nil {
		status, code := statusFor(classifyStoreError(op, err))
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, newTableResponse(table))
}
