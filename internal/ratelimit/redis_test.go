package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisLimiter(t *testing.T, maxRequests int, window time.Duration) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLimiter(client, maxRequests, window), mr
}

func TestRedisLimiter_AllowsUpToLimit(t *testing.T) {
	l, _ := newRedisLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		require.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.False(t, allowed)
}

func TestRedisLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newRedisLimiter(t, 1, time.Minute)
	ctx := context.Background()

	allowed, _ := l.Allow(ctx, "1.2.3.4")
	require.True(t, allowed)
	allowed, _ = l.Allow(ctx, "1.2.3.4")
	require.False(t, allowed)

	allowed, _ = l.Allow(ctx, "5.6.7.8")
	require.True(t, allowed)
}

func TestRedisLimiter_WindowExpires(t *testing.T) {
	l, mr := newRedisLimiter(t, 1, time.Minute)
	ctx := context.Background()

	allowed, _ := l.Allow(ctx, "1.2.3.4")
	require.True(t, allowed)
	allowed, _ = l.Allow(ctx, "1.2.3.4")
	require.False(t, allowed)

	mr.FastForward(time.Minute + time.Second)

	allowed, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestRedisLimiter_LaterRequestsDoNotExtendWindow(t *testing.T) {
	l, mr := newRedisLimiter(t, 100, time.Minute)
	ctx := context.Background()

	_, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)

	mr.FastForward(30 * time.Second)

	// A mid-window request must not push the expiry out.
	_, err = l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)

	ttl := mr.TTL(keyPrefix + "1.2.3.4")
	require.LessOrEqual(t, ttl, 30*time.Second)
	require.Greater(t, ttl, time.Duration(0))
}

func TestRedisLimiter_BackendFailureSurfacesAsError(t *testing.T) {
	l, mr := newRedisLimiter(t, 1, time.Minute)
	mr.Close()

	_, err := l.Allow(context.Background(), "1.2.3.4")
	require.Error(t, err)
}
