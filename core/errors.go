package core

import "errors"

var (
	// ErrMalformedMessage is returned when a sign-in message cannot be parsed
	ErrMalformedMessage = errors.New("malformed sign-in message")

	// ErrInvalidSignature is returned when signature recovery fails or the
	// recovered address does not match the claimed address
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrInvalidNonce is returned for unknown, expired or already-consumed nonces
	ErrInvalidNonce = errors.New("invalid nonce")

	// ErrIssuedInFuture is returned when issued-at exceeds now plus the skew tolerance
	ErrIssuedInFuture = errors.New("message issued in the future")

	// ErrMessageTooOld is returned when issued-at is older than the maximum age
	ErrMessageTooOld = errors.New("message too old")

	// ErrMessageExpired is returned when now is past the expiration time
	ErrMessageExpired = errors.New("message expired")

	// ErrNotYetValid is returned when now precedes the not-before time
	ErrNotYetValid = errors.New("message not yet valid")

	// ErrDomainMismatch is returned when the message domain is not on the allow-list
	ErrDomainMismatch = errors.New("domain not allowed")

	// ErrNameNotFound is returned when the resolver has no record for a name or address
	ErrNameNotFound = errors.New("name not found")

	// ErrNameResolution is returned when every resolver endpoint failed
	ErrNameResolution = errors.New("name resolution failed")

	// ErrNameMismatch is returned when a claimed name does not resolve to the signer
	ErrNameMismatch = errors.New("name does not resolve to signer address")

	// ErrNameTaken is returned when a display name is already in use
	ErrNameTaken = errors.New("display name already taken")

	// ErrConflict is returned when a create races with an existing record
	ErrConflict = errors.New("record already exists")

	// ErrRecordNotFound is returned when no identity matches the lookup key
	ErrRecordNotFound = errors.New("record not found")

	// ErrInvalidToken is returned when a session or step token is invalid
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when a token has expired
	ErrTokenExpired = errors.New("token has expired")

	// ErrConfirmationLink is returned when an email confirmation link is
	// tampered with or expired
	ErrConfirmationLink = errors.New("invalid confirmation link")
)
