package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// RedisLimiter is a fixed-window rate limiter backed by Redis, for
// deployments where multiple relay instances share one limit.
type RedisLimiter struct {
	client      *redis.Client
	maxRequests int
	windowSize  time.Duration
}

// NewRedisLimiter creates a Redis-backed limiter allowing maxRequests per
// windowSize for each key.
func NewRedisLimiter(client *redis.Client, maxRequests int, windowSize time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:      client,
		maxRequests: maxRequests,
		windowSize:  windowSize,
	}
}

// Allow atomically increments the key's window counter. INCR and EXPIRE run
// in one pipeline; the expiry is only attached on the first hit so the window
// is not extended by later requests.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := keyPrefix + key

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, l.windowSize)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}

	return incr.Val() <= int64(l.maxRequests), nil
}
