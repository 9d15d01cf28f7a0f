// Package postgres implements the storage sink on PostgreSQL via pgx.
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nanavatisneha/analytics-handbook/internal/adapters/repository"
	"github.com/nanavatisneha/analytics-handbook/internal/domain/model"
	"github.com/nanavatisneha/analytics-handbook/pkg/metrics"
)

// Store implements repository.Store on a pgx connection pool.
type Store struct {
	pool         *pgxpool.Pool
	maxQueryRows int
}

// compile-time conformance check
var _ repository.Store = (*Store)(nil)

// NewStore connects to the database and verifies the connection.
func NewStore(ctx context.Context, databaseURL string, opts ...Option) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolCfg.MaxConns = defaultMaxConns
	poolCfg.MinConns = defaultMinConns

	s := &Store{maxQueryRows: defaultMaxQueryRows}
	for _, opt := range opts {
		opt(s, poolCfg)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create DB pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}

	s.pool = pool
	return s, nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// EnsureTable creates the relation for the table's columns if missing and
// adds columns that appeared since the last run.
func (s *Store) EnsureTable(ctx context.Context, name string, t *model.Table) error {
	columns := t.Columns()
	if len(columns) == 0 {
		return repository.ErrEmptyTable
	}

	types := inferColumnTypes(t)

	defs := make([]string, 0, len(columns))
	for _, col := range columns {
		defs = append(defs, fmt.Sprintf("%s %s", quoteIdent(col), types[col]))
	}
	create := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(name), strings.Join(defs, ", "))
	if _, err := s.pool.Exec(ctx, create); err != nil {
		return fmt.Errorf("create table %s: %w", name, err)
	}

	// Newly observed columns migrate in additively; existing data reads
	// them as null.
	for _, col := range columns {
		alter := fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s %s",
			quoteIdent(name), quoteIdent(col), types[col])
		if _, err := s.pool.Exec(ctx, alter); err != nil {
			return fmt.Errorf("add column %s.%s: %w", name, col, err)
		}
	}
	return nil
}

// Load bulk-inserts the table via COPY inside one transaction.
func (s *Store) Load(ctx context.Context, name string, t *model.Table) (int64, error) {
	columns := t.Columns()
	if len(columns) == 0 {
		return 0, repository.ErrEmptyTable
	}

	start := time.Now()
	types := inferColumnTypes(t)

	rows := make([][]any, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		row := make([]any, len(columns))
		for j, col := range columns {
			row[j] = coerce(t.At(i, col), types[col])
		}
		rows = append(rows, row)
	}

	idents := make([]string, len(columns))
	copy(idents, columns)

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	n, err := tx.CopyFrom(ctx, pgx.Identifier{name}, idents, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", name, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}

	metrics.RecordRowsLoaded(n)
	metrics.RecordLoadLatency(float64(time.Since(start).Milliseconds()))
	return n, nil
}

// Query runs read-only SQL and converts the result set back into a table.
// Result size is capped at the configured row limit.
func (s *Store) Query(ctx context.Context, sql string) (*model.Table, error) {
	if err := assertReadOnly(sql); err != nil {
		metrics.RecordQueryError()
		return nil, err
	}

	start := time.Now()
	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		metrics.RecordQueryError()
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	table := model.NewTable(columns...)
	for rows.Next() {
		if table.Len() >= s.maxQueryRows {
			break
		}
		values, err := rows.Values()
		if err != nil {
			metrics.RecordQueryError()
			return nil, fmt.Errorf("read row: %w", err)
		}
		rec := model.FlatRecord{}
		for i, v := range values {
			rec[columns[i]] = toScalar(v)
		}
		table.Append(rec)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordQueryError()
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	metrics.RecordQueryLatency(float64(time.Since(start).Milliseconds()))
	return table, nil
}

// assertReadOnly rejects anything that is not a SELECT or WITH statement.
func assertReadOnly(sql string) error {
	head := strings.ToLower(strings.TrimSpace(sql))
	if strings.HasPrefix(head, "select") || strings.HasPrefix(head, "with") {
		return nil
	}
	return fmt.Errorf("%w: statement must start with SELECT or WITH", repository.ErrReadOnly)
}

// inferColumnTypes picks a Postgres type per column from the values seen:
// all-bool columns map to boolean, all-numeric to double precision, and
// anything else (including all-null and mixed) to text.
func inferColumnTypes(t *model.Table) map[string]string {
	const (
		unset = iota
		boolean
		double
		text
	)

	kinds := map[string]int{}
	for i := 0; i < t.Len(); i++ {
		for _, col := range t.Columns() {
			v := t.At(i, col)
			if v == nil {
				continue
			}
			var k int
			switch v.(type) {
			case bool:
				k = boolean
			case float64:
				k = double
			default:
				k = text
			}
			if prev, ok := kinds[col]; ok && prev != k {
				kinds[col] = text
			} else if !ok {
				kinds[col] = k
			}
		}
	}

	out := make(map[string]string, len(t.Columns()))
	for _, col := range t.Columns() {
		switch kinds[col] {
		case boolean:
			out[col] = "boolean"
		case double:
			out[col] = "double precision"
		default:
			out[col] = "text"
		}
	}
	return out
}

// coerce readies a value for its column's wire type. Values already match
// their inferred type except when a mixed column fell back to text.
func coerce(v model.Value, pgType string) any {
	if v == nil {
		return nil
	}
	if pgType != "text" {
		return v
	}
	switch x := v.(type) {
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}

// toScalar maps pgx result values onto the table's scalar set.
func toScalar(v any) model.Value {
	switch x := v.(type) {
	case nil, string, float64, bool:
		return x
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float32:
		return float64(x)
	case time.Time:
		return x.Format(time.RFC3339)
	case []byte:
		return string(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// quoteIdent double-quotes an identifier so flattened column names are safe
// verbatim.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
