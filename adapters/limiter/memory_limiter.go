package limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/layer-3/rangda/ports"
)

// MemoryLimiter is a per-key token bucket limiter for single-instance
// deployments and tests
type MemoryLimiter struct {
	limit   rate.Limit
	burst   int
	buckets map[string]*rate.Limiter
	mu      sync.Mutex
}

// NewMemoryLimiter creates an in-memory rate limiter allowing limit events
// per window with a burst of the same size
func NewMemoryLimiter(limit int, window time.Duration) ports.RateLimiter {
	return &MemoryLimiter{
		limit:   rate.Every(window / time.Duration(limit)),
		burst:   limit,
		buckets: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether the caller identified by key may proceed
func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = rate.NewLimiter(l.limit, l.burst)
		l.buckets[key] = bucket
	}
	l.mu.Unlock()

	return bucket.Allow(), nil
}
