// Package flatten collapses schema-less nested match events into a
// scalar-only table.
package flatten

// Option applies a configuration option to a flattening run.
type Option func(*flattener)

// WithDropColumns removes the named columns from the output. A name also
// acts as a prefix: dropping "tactics_lineup" removes every column nested
// under it.
func WithDropColumns(names ...string) Option {
	return func(f *flattener) {
		f.drop = append(f.drop, names...)
	}
}

// WithStrictCoordinates makes malformed positional arrays (more than two
// elements, or non-numeric elements) a hard failure instead of emitting
// nulls.
func WithStrictCoordinates() Option {
	return func(f *flattener) {
		f.strict = true
	}
}
