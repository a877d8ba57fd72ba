package core

import "time"

// Identity is the account record anchored to a verified wallet address
type Identity struct {
	ID            string    // Unique record identifier
	Address       string    // Normalized lowercase hex address, the sole lookup key
	DisplayName   string    // Globally unique display name
	GeneratedName bool      // Whether DisplayName was derived from the address
	Email         string    // Optional email, empty until provided
	EmailVerified bool      // Whether Email was confirmed via a signed link
	CreatedAt     time.Time // When the record was created
}

// Session represents an authenticated user session
type Session struct {
	ID          string    // Unique session identifier
	Address     string    // Normalized address of the user
	DisplayName string    // Display name at session issuance
	IssuedAt    time.Time // When the session was created
	Expiry      time.Time // When the session expires
}
