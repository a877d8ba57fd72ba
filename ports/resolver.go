package ports

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// NameResolver maps human-readable names to addresses and back against an
// external naming registry.
type NameResolver interface {
	// ResolveForward maps a name to its address, or core.ErrNameNotFound
	ResolveForward(ctx context.Context, name string) (common.Address, error)

	// ResolveReverse maps an address to its primary name, or
	// core.ErrNameNotFound. Callers must never trust the result without a
	// forward re-check; use VerifiedReverse for that.
	ResolveReverse(ctx context.Context, address common.Address) (string, error)

	// VerifiedReverse resolves the primary name of an address and confirms
	// it forward-resolves back to the same address before returning it
	VerifiedReverse(ctx context.Context, address common.Address) (string, error)
}
