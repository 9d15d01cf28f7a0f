// Package repository defines the storage sink contracts and errors.
//
// The flattened table is the exact input contract of the sink: one relation
// named by the caller, columns matching the table's column set, rows
// matching its records.
package repository

import (
	"context"

	"github.com/nanavatisneha/analytics-handbook/internal/domain/model"
)

// Loader writes a flattened table into the store.
type Loader interface {
	// EnsureTable creates the named relation for the table's column set if
	// it does not exist yet, adding any missing columns otherwise. No other
	// schema management happens here.
	EnsureTable(ctx context.Context, name string, t *model.Table) error

	// Load bulk-inserts the table's rows into the named relation and
	// returns the number of rows written.
	Load(ctx context.Context, name string, t *model.Table) (int64, error)
}

// Querier runs caller-supplied read-only SQL and returns the result as a
// table.
type Querier interface {
	Query(ctx context.Context, sql string) (*model.Table, error)
}

// Store bundles both sides of the sink.
type Store interface {
	Loader
	Querier

	// Close releases underlying resources.
	Close()
}
