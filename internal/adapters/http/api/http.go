// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/nanavatisneha/analytics-handbook/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Columns returns the column set of the loaded table.
	Columns(ctx context.Context) []string

	// Query runs read-only SQL against the store.
	Query(ctx context.Context, sql string) (*model.Table, error)

	// Canned aggregates over the loaded table.
	ShotSummary(ctx context.Context) (*model.Table, error)
	PassSummary(ctx context.Context) (*model.Table, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	columnsHandler    *ColumnsHandler
	queryHandler      *QueryHandler
	aggregatesHandler *AggregatesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	cfg := serverConfig{maxQueryLength: defaultMaxQueryLength}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		columnsHandler:    NewColumnsHandler(deps),
		queryHandler:      NewQueryHandler(deps, cfg.maxQueryLength),
		aggregatesHandler: NewAggregatesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/columns", MetricsMiddleware(s.columnsHandler.HandleGetColumns, "columns"))
	mux.HandleFunc("/query", MetricsMiddleware(s.queryHandler.HandlePostQuery, "query"))
	mux.HandleFunc("/aggregates/shots", MetricsMiddleware(s.aggregatesHandler.HandleShots, "aggregates_shots"))
	mux.HandleFunc("/aggregates/passes", MetricsMiddleware(s.aggregatesHandler.HandlePasses, "aggregates_passes"))
}

// tableResponse is the JSON shape every table-returning endpoint uses.
type tableResponse struct {
	Columns []string           `json:"columns"`
	Rows    []model.FlatRecord `json:"rows"`
	Count   int                `json:"count"`
}

// newTableResponse converts a table into the wire shape.
func newTableResponse(t *model.Table) tableResponse {
	rows := make([]model.FlatRecord, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		rows = append(rows, t.Row(i))
	}
	return tableResponse{
		Columns: t.Columns(),
		Rows:    rows,
		Count:   t.Len(),
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
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
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
