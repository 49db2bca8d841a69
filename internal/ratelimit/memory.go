// Package ratelimit provides fixed-window request counters keyed by client
// identity. Two backends exist: an in-process map for single-instance
// deployments and a Redis counter for anything running behind a balancer.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count    int
	resetsAt time.Time
}

// MemoryLimiter is an in-process fixed-window rate limiter. Counters are
// serialized under one mutex so concurrent bursts from the same client
// cannot undercount.
type MemoryLimiter struct {
	mu          sync.Mutex
	windows     map[string]*window
	maxRequests int
	windowSize  time.Duration
	now         func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryLimiter creates an in-memory limiter allowing maxRequests per
// windowSize for each key. A background sweep drops expired windows until
// Close is called.
func NewMemoryLimiter(maxRequests int, windowSize time.Duration) *MemoryLimiter {
	l := &MemoryLimiter{
		windows:     make(map[string]*window),
		maxRequests: maxRequests,
		windowSize:  windowSize,
		now:         time.Now,
		stop:        make(chan struct{}),
	}

	go l.sweep()

	return l
}

// Allow increments the key's counter and reports whether it is still within
// the window limit. The error return is always nil for this backend.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	w, ok := l.windows[key]
	if !ok || now.After(w.resetsAt) {
		l.windows[key] = &window{count: 1, resetsAt: now.Add(l.windowSize)}
		return true, nil
	}

	w.count++
	return w.count <= l.maxRequests, nil
}

// Close stops the background sweep. Safe to call more than once; counting
// still works afterwards.
func (l *MemoryLimiter) Close() {
	l.stopOnce.Do(func() {
		close(l.stop)
	})
}

func (l *MemoryLimiter) sweep() {
	ticker := time.NewTicker(l.windowSize)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
		}

		l.mu.Lock()
		now := l.now()
		for key, w := range l.windows {
			if now.After(w.resetsAt) {
				delete(l.windows, key)
			}
		}
		l.mu.Unlock()
	}
}
