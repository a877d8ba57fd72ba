package ports

import "context"

// NonceStore issues single-use random nonces and consumes them atomically.
// Consume is a test-and-clear: for any nonce value it succeeds at most once,
// including under concurrent calls.
type NonceStore interface {
	Issue(ctx context.Context) (string, error)
	Consume(ctx context.Context, nonce string) error
}
