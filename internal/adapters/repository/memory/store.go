// Package memory implements the storage sink in process memory.
//
// It backs local runs and tests that have no database. There is no SQL
// engine: Query reports ErrQueryUnsupported, and callers fall back to the
// inspection helpers.
package memory

import (
	"context"
	"sync"

	"github.com/nanavatisneha/analytics-handbook/internal/adapters/repository"
	"github.com/nanavatisneha/analytics-handbook/internal/domain/model"
	"github.com/nanavatisneha/analytics-handbook/pkg/metrics"
)

// Store implements repository.Store over named in-memory tables.
type Store struct {
	mu     sync.RWMutex
	tables map[string]*model.Table
}

var _ repository.Store = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{tables: make(map[string]*model.Table)}
}

// EnsureTable registers the relation and unions in any new columns.
func (s *Store) EnsureTable(_ context.Context, name string, t *model.Table) error {
	if len(t.Columns()) == 0 {
		return repository.ErrEmptyTable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tables[name]
	if !ok {
		s.tables[name] = model.NewTable(t.Columns()...)
		return nil
	}
	for _, col := range t.Columns() {
		existing.AddColumn(col)
	}
	return nil
}

// Load appends the table's rows to the named relation.
func (s *Store) Load(_ context.Context, name string, t *model.Table) (int64, error) {
	if len(t.Columns()) == 0 {
		return 0, repository.ErrEmptyTable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dest, ok := s.tables[name]
	if !ok {
		dest = model.NewTable(t.Columns()...)
		s.tables[name] = dest
	}
	for i := 0; i < t.Len(); i++ {
		dest.Append(t.Row(i))
	}

	n := int64(t.Len())
	metrics.RecordRowsLoaded(n)
	return n, nil
}

// Query is unsupported; the memory store has no SQL engine.
func (s *Store) Query(_ context.Context, _ string) (*model.Table, error) {
	return nil, repository.ErrQueryUnsupported
}

// Close is a no-op.
func (s *Store) Close() {}

// Table returns the named relation, or nil when absent. Test helper.
func (s *Store) Table(name string) *model.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tables[name]
}

// RowCount returns the number of rows in the named relation.
func (s *Store) RowCount(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.tables[name]; ok {
		return t.Len()
	}
	return 0
}
