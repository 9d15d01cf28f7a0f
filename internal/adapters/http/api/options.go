package api

const defaultMaxQueryLength = 16 * 1024

type serverConfig struct {
	maxQueryLength int
}

// ServerOption configures the API server.
type ServerOption func(*serverConfig)

// WithMaxQueryLength caps the size of the SQL accepted by POST /query.
func WithMaxQueryLength(n int) ServerOption {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxQueryLength = n
		}
	}
}
