package service

import (
	"time"

	"github.com/layer-3/rangda/core"
)

// validateTemporal enforces the message validity window. skew bounds how far
// in the future issued-at may sit; maxAge bounds how old a message may be.
func validateTemporal(msg *core.Message, now time.Time, skew, maxAge time.Duration) error {
	if msg.IssuedAt.After(now.Add(skew)) {
		return core.ErrIssuedInFuture
	}
	if now.Sub(msg.IssuedAt) > maxAge {
		return core.ErrMessageTooOld
	}
	if msg.ExpirationTime != nil && now.After(*msg.ExpirationTime) {
		return core.ErrMessageExpired
	}
	if msg.NotBefore != nil && now.Before(*msg.NotBefore) {
		return core.ErrNotYetValid
	}
	return nil
}
