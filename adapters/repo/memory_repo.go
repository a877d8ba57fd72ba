// Package repo provides AccountRepository implementations.
package repo

import (
	"context"
	"sync"

	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/ports"
)

// MemoryRepo is an in-memory AccountRepository. Uniqueness of address and
// display name is enforced under a single lock, which gives callers the same
// create-or-conflict semantics a database uniqueness constraint would.
type MemoryRepo struct {
	byAddress map[string]*core.Identity
	byName    map[string]*core.Identity
	byID      map[string]*core.Identity
	mu        sync.RWMutex
}

// NewMemoryRepo creates a new in-memory account repository
func NewMemoryRepo() ports.AccountRepository {
	return &MemoryRepo{
		byAddress: make(map[string]*core.Identity),
		byName:    make(map[string]*core.Identity),
		byID:      make(map[string]*core.Identity),
	}
}

// GetByAddress returns the record keyed by normalized address
func (r *MemoryRepo) GetByAddress(ctx context.Context, address string) (*core.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, ok := r.byAddress[address]
	if !ok {
		return nil, core.ErrRecordNotFound
	}
	out := *identity
	return &out, nil
}

// GetByID returns the record keyed by identity id
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (*core.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, ok := r.byID[id]
	if !ok {
		return nil, core.ErrRecordNotFound
	}
	out := *identity
	return &out, nil
}

// Create inserts a new record, failing on address or name collisions
func (r *MemoryRepo) Create(ctx context.Context, identity *core.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byAddress[identity.Address]; exists {
		return core.ErrConflict
	}
	if _, exists := r.byName[identity.DisplayName]; exists {
		return core.ErrNameTaken
	}

	stored := *identity
	r.byAddress[stored.Address] = &stored
	r.byName[stored.DisplayName] = &stored
	r.byID[stored.ID] = &stored
	return nil
}

// Rename changes a record's display name if the new name is free
func (r *MemoryRepo) Rename(ctx context.Context, id, name string, generated bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.byID[id]
	if !ok {
		return core.ErrRecordNotFound
	}
	if holder, exists := r.byName[name]; exists && holder.ID != id {
		return core.ErrNameTaken
	}

	delete(r.byName, identity.DisplayName)
	identity.DisplayName = name
	identity.GeneratedName = generated
	r.byName[name] = identity
	return nil
}

// SetEmail stores an unverified email on the record
func (r *MemoryRepo) SetEmail(ctx context.Context, id, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.byID[id]
	if !ok {
		return core.ErrRecordNotFound
	}
	identity.Email = email
	identity.EmailVerified = false
	return nil
}

// MarkEmailVerified flags the record's email as confirmed
func (r *MemoryRepo) MarkEmailVerified(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.byID[id]
	if !ok {
		return core.ErrRecordNotFound
	}
	identity.EmailVerified = true
	return nil
}
