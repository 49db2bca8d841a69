package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_AllowsUpToLimit(t *testing.T) {
	l := NewMemoryLimiter(3, time.Minute)
	t.Cleanup(l.Close)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		require.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.False(t, allowed, "request over the limit must be rejected")
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter(1, time.Minute)
	t.Cleanup(l.Close)
	ctx := context.Background()

	allowed, _ := l.Allow(ctx, "1.2.3.4")
	require.True(t, allowed)
	allowed, _ = l.Allow(ctx, "1.2.3.4")
	require.False(t, allowed)

	allowed, _ = l.Allow(ctx, "5.6.7.8")
	require.True(t, allowed, "a different client has its own window")
}

func TestMemoryLimiter_WindowResets(t *testing.T) {
	l := NewMemoryLimiter(1, time.Minute)
	t.Cleanup(l.Close)

	base := time.Now()
	l.now = func() time.Time { return base }

	ctx := context.Background()

	allowed, _ := l.Allow(ctx, "1.2.3.4")
	require.True(t, allowed)
	allowed, _ = l.Allow(ctx, "1.2.3.4")
	require.False(t, allowed)

	// Advance past the window; the counter starts over.
	l.now = func() time.Time { return base.Add(time.Minute + time.Second) }

	allowed, _ = l.Allow(ctx, "1.2.3.4")
	require.True(t, allowed)
}

func TestMemoryLimiter_ConcurrentBurstDoesNotUndercount(t *testing.T) {
	const limit = 50
	const burst = 120

	l := NewMemoryLimiter(limit, time.Minute)
	t.Cleanup(l.Close)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for i := 0; i < burst; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed, err := l.Allow(ctx, "1.2.3.4")
			require.NoError(t, err)
			if allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, limit, allowedCount)
}

func TestMemoryLimiter_CloseStopsSweep(t *testing.T) {
	l := NewMemoryLimiter(1, 5*time.Millisecond)

	l.Close()

	// Give the sweeper time to observe the stop signal across several ticks.
	time.Sleep(20 * time.Millisecond)

	allowed, err := l.Allow(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	require.True(t, allowed, "counting still works after Close")

	// Close is idempotent.
	l.Close()
}
