package core

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Message is a parsed sign-in message binding an origin, an address, a nonce
// and a validity window
type Message struct {
	Domain         string         // Origin the client claims to be signing in to
	Address        common.Address // Wallet address of the user
	Statement      string         // Optional human-readable statement, empty if absent
	URI            string         // URI the message applies to
	Version        string         // Message format version
	ChainID        uint64         // EIP-155 chain identifier
	Nonce          string         // Single-use token issued by the server
	IssuedAt       time.Time      // When the message was produced
	ExpirationTime *time.Time     // Optional hard expiry
	NotBefore      *time.Time     // Optional start of validity
	RequestID      string         // Optional opaque request correlation id
	Resources      []string       // Ordered list of resource URIs
}

// Validate checks that every required field is populated. It runs before any
// cryptographic check.
func (m *Message) Validate() error {
	if m.Domain == "" || m.URI == "" || m.Version == "" || m.Nonce == "" {
		return ErrMalformedMessage
	}
	if m.Address == (common.Address{}) {
		return ErrMalformedMessage
	}
	if m.IssuedAt.IsZero() {
		return ErrMalformedMessage
	}
	return nil
}

// NameClaim returns the name claim carried in the resources list, if any.
// A claim is a resource entry of the form "name:<value>".
func (m *Message) NameClaim() (string, bool) {
	for _, r := range m.Resources {
		if len(r) > 5 && r[:5] == "name:" {
			return r[5:], true
		}
	}
	return "", false
}
