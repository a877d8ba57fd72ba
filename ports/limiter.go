package ports

import "context"

// RateLimiter bounds verification attempts per caller. It runs before the
// orchestrator so repeated cryptographic work cannot be forced cheaply.
type RateLimiter interface {
	// Allow reports whether the caller identified by key may proceed
	Allow(ctx context.Context, key string) (bool, error)
}
