package api

import (
	"net/http"
)

// ColumnsHandler serves the column set of the loaded table.
type ColumnsHandler struct {
	deps Dependencies
}

// NewColumnsHandler creates a new columns handler.
func NewColumnsHandler(deps Dependencies) *ColumnsHandler {
	return &ColumnsHandler{deps: deps}
}

type columnsResponse struct {
	Columns []string `json:"columns"`
	Count   int      `json:"count"`
}

// HandleGetColumns handles GET /columns requests.
func (h *ColumnsHandler) HandleGetColumns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}

	columns := h.deps.Columns(r.Context())
	if len(columns) == 0 {
		writeError(w, http.StatusServiceUnavailable, "not_ready", NewKind("api.columns", ErrNotReady))
		return
	}
	writeJSON(w, http.StatusOK, columnsResponse{Columns: columns, Count: len(columns)})
}
