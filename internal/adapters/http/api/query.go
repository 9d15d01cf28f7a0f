package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/nanavatisneha/analytics-handbook/internal/adapters/repository"
)

// QueryHandler serves ad hoc read-only SQL queries.
type QueryHandler struct {
	deps           Dependencies
	maxQueryLength int
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(deps Dependencies, maxQueryLength int) *QueryHandler {
	return &QueryHandler{deps: deps, maxQueryLength: maxQueryLength}
}

type queryRequest struct {
	SQL string `json:"sql"`
}

// HandlePostQuery handles POST /query requests.
func (h *QueryHandler) HandlePostQuery(w http.ResponseWriter, r *http.Request) {
	const op = "api.query"

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}

	var req queryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, int64(h.maxQueryLength))).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.SQL) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	table, err := h.deps.Query(r.Context(), req.SQL)
	if err != nil {
		status, code := statusFor(classifyStoreError(op, err))
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, newTableResponse(table))
}

// classifyStoreError maps repository sentinels onto API error kinds.
func classifyStoreError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrReadOnly):
		return WrapKind(op, ErrBadRequest, err)
	case errors.Is(err, repository.ErrQueryUnsupported):
		return WrapKind(op, ErrUnsupported, err)
	case errors.Is(err, repository.ErrEmptyTable):
		return WrapKind(op, ErrNotReady, err)
	default:
		return WrapKind(op, ErrInternal, err)
	}
}
