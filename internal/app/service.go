// Package service provides the core pipeline service that implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nanavatisneha/analytics-handbook/internal/adapters/mq/queue"
	workerpool "github.com/nanavatisneha/analytics-handbook/internal/adapters/mq/worker"
	"github.com/nanavatisneha/analytics-handbook/internal/adapters/repository"
	"github.com/nanavatisneha/analytics-handbook/internal/adapters/repository/memory"
	"github.com/nanavatisneha/analytics-handbook/internal/domain/dedupe"
	"github.com/nanavatisneha/analytics-handbook/internal/domain/flatten"
	"github.com/nanavatisneha/analytics-handbook/internal/domain/model"
	"github.com/nanavatisneha/analytics-handbook/pkg/logger"
	"github.com/nanavatisneha/analytics-handbook/pkg/metrics"
)

// Source is the slice of the data source the pipeline needs.
type Source interface {
	Matches(ctx context.Context, competitionID, seasonID int) ([]model.Match, error)
	Events(ctx context.Context, matchID int) ([]model.RawEvent, error)
}

// IngestReport summarizes one full pipeline pass.
type IngestReport struct {
	Matches       int           `json:"matches"`
	EventsFetched int           `json:"events_fetched"`
	Duplicates    int           `json:"duplicates_skipped"`
	RowsLoaded    int64         `json:"rows_loaded"`
	Columns       int           `json:"columns"`
	Duration      time.Duration `json:"duration_ns"`
}

// Service runs the fetch -> flatten -> load pipeline and exposes the read
// surface over the loaded table.
type Service struct {
	mu sync.RWMutex

	// Collaborators
	source  Source
	store   repository.Store
	deduper dedupe.Deduper

	// Configuration
	competitionID int
	seasonID      int
	eventsTable   string
	dropColumns   []string
	strict        bool
	workerCount   int
	queueSize     int
	dedupeSize    int

	// State
	started    bool
	columns    []string
	lastReport IngestReport

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		eventsTable: "events",
		workerCount: runtime.NumCPU(),
		queueSize:   1024,
		dedupeSize:  500_000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service collaborators.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("pipeline")
	}
	if s.source == nil {
		return fmt.Errorf("service: no data source configured")
	}
	if s.store == nil {
		s.store = memory.NewStore()
		s.logger.Info(ctx, "no database configured; using in-memory store")
	}
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)

	s.started = true
	s.logger.Info(ctx, "pipeline service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.String("table", s.eventsTable),
	)
	return nil
}

// Stop releases the service collaborators.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.store != nil {
		s.store.Close()
	}
	s.started = false
	s.logger.Info(context.Background(), "pipeline service stopped")
}

// eventCollector gathers fetched events across workers. The flatten step
// needs the full event set at once so the column union spans every match.
type eventCollector struct {
	mu      sync.Mutex
	events  []model.RawEvent
	matches int
}

func (c *eventCollector) Collect(_ context.Context, _ int, events []model.RawEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, events...)
	c.matches++
	return nil
}

// Ingest runs one full pipeline pass: enumerate matches, fetch events
// concurrently, flatten once over the whole set, and bulk-load the result.
func (s *Service) Ingest(ctx context.Context) (IngestReport, error) {
	start := time.Now()

	s.mu.RLock()
	if !s.started {
		s.mu.RUnlock()
		return IngestReport{}, fmt.Errorf("service not started")
	}
	source, store, deduper := s.source, s.store, s.deduper
	compID, seasonID, tableName := s.competitionID, s.seasonID, s.eventsTable
	s.mu.RUnlock()

	matches, err := source.Matches(ctx, compID, seasonID)
	if err != nil {
		return IngestReport{}, fmt.Errorf("list matches: %w", err)
	}
	s.logger.Info(ctx, "fetching match events",
		logger.Int("matches", len(matches)),
		logger.Int("competitionID", compID),
		logger.Int("seasonID", seasonID),
	)

	// Fan out the per-match fetches; everything downstream is single-pass.
	capacity := s.queueSize
	if capacity < len(matches) {
		capacity = len(matches)
	}
	q := queue.NewInMemoryQueue(queue.WithCapacity(capacity))
	collector := &eventCollector{}
	pool := workerpool.NewPool(s.workerCount, q, source, collector)
	pool.Start(ctx)

	for _, m := range matches {
		if !q.Enqueue(ctx, queue.Job{MatchID: m.MatchID, CompetitionID: compID, SeasonID: seasonID}) {
			s.logger.Warn(ctx, "match dropped by queue backpressure", logger.Int("matchID", m.MatchID))
		}
	}
	_ = q.Close()
	if err := pool.Wait(ctx); err != nil {
		return IngestReport{}, fmt.Errorf("fetch pool: %w", err)
	}

	// Dedupe by event id before flattening so already-loaded rows never
	// reach the sink. Events without an id get a synthetic one.
	fresh := make([]model.RawEvent, 0, len(collector.events))
	freshIDs := make([]string, 0, len(collector.events))
	duplicates := 0
	for _, ev := range collector.events {
		id, _ := ev["id"].(string)
		if id == "" {
			id = uuid.NewString()
		}
		if deduper.SeenAndRecord(ctx, id) {
			duplicates++
			metrics.RecordDuplicateSkipped()
			continue
		}
		fresh = append(fresh, ev)
		freshIDs = append(freshIDs, id)
	}

	table, err := s.flattenEvents(fresh)
	if err != nil {
		s.unrecord(ctx, freshIDs)
		return IngestReport{}, err
	}

	report := IngestReport{
		Matches:       collector.matches,
		EventsFetched: len(collector.events),
		Duplicates:    duplicates,
		Columns:       len(table.Columns()),
	}

	if table.Len() > 0 {
		if err := store.EnsureTable(ctx, tableName, table); err != nil {
			s.unrecord(ctx, freshIDs)
			return IngestReport{}, fmt.Errorf("ensure table: %w", err)
		}
		n, err := store.Load(ctx, tableName, table)
		if err != nil {
			s.unrecord(ctx, freshIDs)
			return IngestReport{}, fmt.Errorf("load table: %w", err)
		}
		report.RowsLoaded = n
	}

	report.Duration = time.Since(start)

	s.mu.Lock()
	if table.Len() > 0 {
		s.columns = table.Columns()
	}
	s.lastReport = report
	s.mu.Unlock()

	metrics.UpdateColumnCount(report.Columns)
	s.logger.Info(ctx, "ingest complete",
		logger.Int("matches", report.Matches),
		logger.Int("events", report.EventsFetched),
		logger.Int("duplicates", report.Duplicates),
		logger.Int64("rows", report.RowsLoaded),
		logger.Int("columns", report.Columns),
		logger.Duration("took", report.Duration),
	)
	return report, nil
}

// flattenEvents applies the configured flattening policy.
func (s *Service) flattenEvents(events []model.RawEvent) (*model.Table, error) {
	opts := []flatten.Option{flatten.WithDropColumns(s.dropColumns...)}
	if s.strict {
		opts = append(opts, flatten.WithStrictCoordinates())
	}
	table, err := flatten.Flatten(events, opts...)
	if err != nil {
		metrics.RecordFlattenError()
		return nil, fmt.Errorf("flatten events: %w", err)
	}
	metrics.RecordEventsFlattened(table.Len())
	return table, nil
}

// unrecord releases ids whose rows never reached the sink.
func (s *Service) unrecord(ctx context.Context, ids []string) {
	for _, id := range ids {
		s.deduper.Unrecord(ctx, id)
	}
}

// Columns returns the column set of the last ingest.
func (s *Service) Columns(_ context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

// Query forwards read-only SQL to the store.
func (s *Service) Query(ctx context.Context, sql string) (*model.Table, error) {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		return nil, fmt.Errorf("service not started")
	}
	return store.Query(ctx, sql)
}

// ShotSummary aggregates shots, goals, and expected goals per team.
func (s *Service) ShotSummary(ctx context.Context) (*model.Table, error) {
	sql := fmt.Sprintf(`
		SELECT "team_name" AS team,
		       COUNT(*) AS shots,
		       SUM(CASE WHEN "shot_outcome_name" = 'Goal' THEN 1 ELSE 0 END) AS goals,
		       SUM("shot_statsbomb_xg") AS xg
		FROM %q
		WHERE "type_name" = 'Shot'
		GROUP BY "team_name"
		ORDER BY xg DESC`, s.eventsTable)
	return s.Query(ctx, sql)
}

// PassSummary aggregates pass volume and average length per player.
func (s *Service) PassSummary(ctx context.Context) (*model.Table, error) {
	sql := fmt.Sprintf(`
		SELECT "player_name" AS player,
		       COUNT(*) AS passes,
		       AVG("pass_length") AS avg_length
		FROM %q
		WHERE "type_name" = 'Pass'
		GROUP BY "player_name"
		ORDER BY passes DESC
		LIMIT 25`, s.eventsTable)
	return s.Query(ctx, sql)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"table":       s.eventsTable,
	}
	if s.started {
		stats["columns"] = len(s.columns)
		stats["lastIngest"] = s.lastReport
		stats["dedupeSize"] = s.deduper.Size()
	}
	return stats
}
