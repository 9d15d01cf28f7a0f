package flatten

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrMalformedRecord marks a coordinate field whose shape breaks the
	// two-element numeric contract under strict mode.
	ErrMalformedRecord = errors.New("malformed record")
)

// newMalformed wraps ErrMalformedRecord with the offending column and size.
func newMalformed(column string, n int) error {
	return fmt.Errorf("%w: column %q holds a %d-element array", ErrMalformedRecord, column, n)
}
