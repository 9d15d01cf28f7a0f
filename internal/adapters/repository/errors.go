package repository

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrReadOnly rejects SQL that is not a plain SELECT (or WITH ... SELECT).
	ErrReadOnly = errors.New("query surface is read-only")

	// ErrQueryUnsupported marks stores without a SQL engine.
	ErrQueryUnsupported = errors.New("store does not support SQL queries")

	// ErrEmptyTable rejects loading a table with no columns.
	ErrEmptyTable = errors.New("table has no columns")
)
