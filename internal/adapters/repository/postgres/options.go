// Package postgres implements the storage sink on PostgreSQL via pgx.
package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Default pool and query configuration constants.
const (
	defaultMaxQueryRows = 10_000
	defaultMaxConns     = 10
	defaultMinConns     = 1
)

// Option applies a configuration option to the Store and its pool config.
type Option func(*Store, *pgxpool.Config)

// WithMaxQueryRows caps the rows a single Query call returns.
func WithMaxQueryRows(n int) Option {
	return func(s *Store, _ *pgxpool.Config) {
		if n > 0 {
			s.maxQueryRows = n
		}
	}
}

// WithPoolLimits sets the pool's connection bounds.
func WithPoolLimits(minConns, maxConns int32) Option {
	return func(_ *Store, cfg *pgxpool.Config) {
		if minConns > 0 {
			cfg.MinConns = minConns
		}
		if maxConns > 0 {
			cfg.MaxConns = maxConns
		}
	}
}
