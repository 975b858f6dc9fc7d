// Package inflight tracks route searches that are awaiting the route service,
// keyed by whoever submitted them (a browser session, a CLI run, ...).
package inflight

import (
	"context"
	"sync"
	"sync/atomic"
)

// Guard admits at most one in-flight submission per key.
type Guard interface {
	// Acquire marks key as in flight. It returns ErrBusy when key already is,
	// and ErrCapacity when the guard is bounded and full.
	Acquire(ctx context.Context, key string) error

	// Release clears key. Releasing a key that is not held is a no-op.
	Release(ctx context.Context, key string)

	// Size returns the number of keys currently in flight.
	Size() int64
}

// memoryGuard implements Guard with a mutex-protected set.
type memoryGuard struct {
	mu      sync.Mutex
	held    map[string]struct{}
	maxSize int // 0 or negative = unbounded
	size    atomic.Int64
}

// NewMemoryGuard creates an in-memory guard.
func NewMemoryGuard(opts ...Option) Guard {
	g := &memoryGuard{}

	for _, opt := range opts {
		opt(g)
	}

	g.held = make(map[string]struct{})
	return g
}

func (g *memoryGuard) Acquire(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.held[key]; busy {
		return ErrBusy
	}
	if g.maxSize > 0 && len(g.held) >= g.maxSize {
		return ErrCapacity
	}

	g.held[key] = struct{}{}
	g.size.Add(1)
	return nil
}

func (g *memoryGuard) Release(_ context.Context, key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.held[key]; ok {
		delete(g.held, key)
		g.size.Add(-1)
	}
}

func (g *memoryGuard) Size() int64 {
	return g.size.Load()
}
