package eth

import "errors"

var (
	// ErrRecoveryFailed is returned when public key recovery cannot proceed
	ErrRecoveryFailed = errors.New("signature recovery failed")

	// ErrAddressMismatch is returned when the recovered address differs from the claim
	ErrAddressMismatch = errors.New("recovered address does not match claim")

	// ErrInvalidAddress is returned for malformed hex addresses
	ErrInvalidAddress = errors.New("invalid ethereum address")
)
