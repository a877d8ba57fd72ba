package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/ports"
)

// CreateInput is the structured input for account creation. Every field is
// optional; absent values fall back to generated defaults.
type CreateInput struct {
	NameClaim         string // Verified external name, adopted as display name
	Email             string // Email supplied alongside the sign-in
	PreferredUsername string // User-chosen name, wins over the name claim
}

// identityManager owns identity creation and naming. findOrCreate is safe
// against concurrent requests for the same address: creation conflicts are
// resolved by re-reading the winner's record rather than locking.
type identityManager struct {
	accounts ports.AccountRepository
}

const createRetries = 8

func (m *identityManager) findOrCreate(ctx context.Context, address string, input CreateInput) (*core.Identity, bool, error) {
	identity, err := m.accounts.GetByAddress(ctx, address)
	if err == nil {
		return identity, false, nil
	}
	if !errors.Is(err, core.ErrRecordNotFound) {
		return nil, false, err
	}

	name, generated := m.pickName(address, input, 0)

	for attempt := 0; attempt < createRetries; attempt++ {
		candidate := &core.Identity{
			ID:            uuid.New().String(),
			Address:       address,
			DisplayName:   name,
			GeneratedName: generated,
			Email:         input.Email,
			CreatedAt:     time.Now(),
		}

		err := m.accounts.Create(ctx, candidate)
		switch {
		case err == nil:
			return candidate, true, nil
		case errors.Is(err, core.ErrConflict):
			// Lost the race for this address; the winner's record is authoritative
			identity, err := m.accounts.GetByAddress(ctx, address)
			if err != nil {
				return nil, false, err
			}
			return identity, false, nil
		case errors.Is(err, core.ErrNameTaken):
			name, generated = m.pickName(address, input, attempt+1)
		default:
			return nil, false, err
		}
	}

	return nil, false, fmt.Errorf("could not find a free display name for %s: %w", address, core.ErrNameTaken)
}

// pickName chooses the display name for a new record. Preference order:
// user-chosen name, verified name claim, generated address-derived name.
// Once a preferred name turns out to be taken, fall through to the
// generated name with a numeric suffix.
func (m *identityManager) pickName(address string, input CreateInput, attempt int) (string, bool) {
	hasPreferred := input.PreferredUsername != "" || input.NameClaim != ""
	if attempt == 0 && hasPreferred {
		if input.PreferredUsername != "" {
			return input.PreferredUsername, false
		}
		return input.NameClaim, false
	}

	suffix := attempt
	if hasPreferred {
		suffix--
	}
	return GeneratedName(address, suffix), true
}

// renameIfGenerated replaces the display name only when the current one is
// system-generated; a user-chosen name is never silently overwritten
func (m *identityManager) renameIfGenerated(ctx context.Context, identity *core.Identity, name string) error {
	if !IsGeneratedName(identity.Address, identity.DisplayName) {
		return nil
	}
	if err := m.accounts.Rename(ctx, identity.ID, name, false); err != nil {
		return err
	}
	identity.DisplayName = name
	identity.GeneratedName = false
	return nil
}

// GeneratedName derives the deterministic display name for an address:
// 0x{first4}...{last4} of the lowercase hex, with a numeric suffix when the
// base form is taken.
func GeneratedName(address string, suffix int) string {
	hexPart := strings.TrimPrefix(strings.ToLower(address), "0x")
	name := fmt.Sprintf("0x%s...%s", hexPart[:4], hexPart[len(hexPart)-4:])
	if suffix > 0 {
		name += "_" + strconv.Itoa(suffix)
	}
	return name
}

// IsGeneratedName reports whether name is the generated pattern for this
// specific address, with or without a numeric suffix. The classification
// gates whether a verified external name may replace it.
func IsGeneratedName(address, name string) bool {
	base := GeneratedName(address, 0)
	if name == base {
		return true
	}
	rest, ok := strings.CutPrefix(name, base+"_")
	if !ok {
		return false
	}
	n, err := strconv.Atoi(rest)
	return err == nil && n > 0
}
