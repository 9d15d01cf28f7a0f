// Package dedupe defines the interface for idempotency tracking.
package dedupe

// Default eviction bound for the in-memory deduper. A full season of match
// events stays well under this.
const defaultMaxSize = 500_000

// Option applies a configuration option to the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize bounds the number of tracked ids; zero or negative disables
// eviction.
func WithMaxSize(size int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = size
	}
}
