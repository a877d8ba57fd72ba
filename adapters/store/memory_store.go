package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/ports"
)

const nonceBytes = 32

// MemoryStore is an in-memory implementation of the NonceStore interface
type MemoryStore struct {
	ttl    time.Duration
	nonces map[string]time.Time
	mu     sync.Mutex
}

// NewMemoryStore creates a new in-memory nonce store
func NewMemoryStore(ttl time.Duration) ports.NonceStore {
	return &MemoryStore{
		ttl:    ttl,
		nonces: make(map[string]time.Time),
	}
}

// Issue generates a cryptographically random nonce and records its expiry
func (s *MemoryStore) Issue(ctx context.Context) (string, error) {
	buf := make([]byte, nonceBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	nonce := hex.EncodeToString(buf)

	expiry := time.Now().Add(s.ttl)

	s.mu.Lock()
	s.nonces[nonce] = expiry
	s.mu.Unlock()

	// Evict after the TTL unless the nonce was consumed and reissued
	go func() {
		time.Sleep(s.ttl)

		s.mu.Lock()
		defer s.mu.Unlock()

		if storedExpiry, exists := s.nonces[nonce]; exists && !storedExpiry.After(expiry) {
			delete(s.nonces, nonce)
		}
	}()

	return nonce, nil
}

// Consume atomically checks and clears a nonce. Exactly one of N concurrent
// consumers of the same value succeeds.
func (s *MemoryStore) Consume(ctx context.Context, nonce string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, exists := s.nonces[nonce]
	if !exists {
		return core.ErrInvalidNonce
	}

	delete(s.nonces, nonce)

	if time.Now().After(expiry) {
		return core.ErrInvalidNonce
	}

	return nil
}
