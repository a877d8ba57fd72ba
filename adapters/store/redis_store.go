package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/ports"
)

// RedisStore is a Redis implementation of the NonceStore interface. Atomicity
// of Consume comes from GETDEL, so the exactly-once guarantee holds across
// instances sharing the same Redis.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisStore creates a new Redis nonce store
func NewRedisStore(client *redis.Client, ttl time.Duration) ports.NonceStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		prefix: "rangda:nonce:",
	}
}

// Issue generates a cryptographically random nonce and stores it with a TTL
func (s *RedisStore) Issue(ctx context.Context) (string, error) {
	buf := make([]byte, nonceBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	nonce := hex.EncodeToString(buf)

	if err := s.client.Set(ctx, s.prefix+nonce, "1", s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store nonce: %w", err)
	}

	return nonce, nil
}

// Consume removes the nonce as a single atomic operation. Unknown and
// TTL-expired nonces fail identically.
func (s *RedisStore) Consume(ctx context.Context, nonce string) error {
	_, err := s.client.GetDel(ctx, s.prefix+nonce).Result()
	if errors.Is(err, redis.Nil) {
		return core.ErrInvalidNonce
	}
	if err != nil {
		return fmt.Errorf("failed to consume nonce: %w", err)
	}
	return nil
}
