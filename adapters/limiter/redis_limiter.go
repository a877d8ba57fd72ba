// Package limiter provides RateLimiter implementations keyed by caller
// identifier.
package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/layer-3/rangda/ports"
)

// RedisLimiter is a fixed-window rate limiter backed by Redis, so the limit
// holds across instances
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

// NewRedisLimiter creates a new Redis-backed rate limiter
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) ports.RateLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: "rangda:ratelimit:",
	}
}

// Allow increments the caller's window counter and reports whether the
// caller is within the limit
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := l.prefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate counter: %w", err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate window: %w", err)
		}
	}

	return count <= int64(l.limit), nil
}
