package inflight

// Option applies a configuration option to the in-memory guard.
type Option func(*memoryGuard)

// WithMaxInFlight caps the number of keys held at once.
// If n <= 0 the guard is unbounded.
func WithMaxInFlight(n int) Option {
	return func(g *memoryGuard) {
		g.maxSize = n
	}
}
