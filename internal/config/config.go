// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - Load layers defaults, an optional YAML file, and environment variables.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// BaseURL points at the open-data root the pipeline fetches from.
	BaseURL string `koanf:"base_url"`

	// CompetitionID and SeasonID select which season to ingest.
	CompetitionID int `koanf:"competition_id"`
	SeasonID      int `koanf:"season_id"`

	// DatabaseURL is the Postgres connection string. Empty selects the
	// in-memory store (useful for local runs without a database).
	DatabaseURL string `koanf:"database_url"`

	// EventsTable names the relation the flattened table is loaded into.
	EventsTable string `koanf:"events_table"`

	// DropColumns lists columns (and prefixes) removed during flattening.
	DropColumns []string `koanf:"drop_columns"`

	// FetchWorkers sets the number of concurrent match fetchers.
	FetchWorkers int `koanf:"fetch_workers"`

	// QueueSize bounds the in-memory fetch job queue.
	QueueSize int `koanf:"queue_size"`

	// FetchTimeoutMS bounds each source request.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// DedupeSize bounds the ingested-event id cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxQueryRows caps rows returned by the query surface.
	MaxQueryRows int `koanf:"max_query_rows"`

	// StrictCoordinates makes malformed positional arrays a hard failure.
	StrictCoordinates bool `koanf:"strict_coordinates"`

	// IngestOnStart runs one full ingest before the HTTP server comes up.
	IngestOnStart bool `koanf:"ingest_on_start"`
}

// New creates a Config populated with defaults. The default competition and
// season point at the 2018 FIFA World Cup in the open-data set.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9080",
		BaseURL:        "https://raw.githubusercontent.com/statsbomb/open-data/master/data",
		CompetitionID:  43,
		SeasonID:       3,
		EventsTable:    "events",
		DropColumns: []string{
			"tactics_lineup",
			"related_events",
			"shot_freeze_frame",
		},
		FetchWorkers:   runtime.NumCPU(),
		QueueSize:      1024,
		FetchTimeoutMS: 30_000,
		DedupeSize:     500_000,
		MaxQueryRows:   10_000,
		IngestOnStart:  true,
	}
}
