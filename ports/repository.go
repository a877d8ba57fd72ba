package ports

import (
	"context"

	"github.com/layer-3/rangda/core"
)

// AccountRepository persists identity records. Address is the sole lookup
// key and is always the normalized lowercase hex form.
type AccountRepository interface {
	// GetByAddress returns the record for a normalized address, or
	// core.ErrRecordNotFound
	GetByAddress(ctx context.Context, address string) (*core.Identity, error)

	// GetByID returns the record for an identity id, or core.ErrRecordNotFound
	GetByID(ctx context.Context, id string) (*core.Identity, error)

	// Create inserts a new record. It returns core.ErrConflict when the
	// address already exists and core.ErrNameTaken when the display name is
	// in use, so callers can retry with a different name.
	Create(ctx context.Context, identity *core.Identity) error

	// Rename changes the display name of an existing record. Returns
	// core.ErrNameTaken when the name is in use.
	Rename(ctx context.Context, id, name string, generated bool) error

	// SetEmail stores an unverified email on the record
	SetEmail(ctx context.Context, id, email string) error

	// MarkEmailVerified flags the record's email as confirmed
	MarkEmailVerified(ctx context.Context, id string) error
}
