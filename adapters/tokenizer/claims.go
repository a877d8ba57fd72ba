package tokenizer

import "github.com/golang-jwt/jwt/v5"

// SessionClaims combines standard claims with session-specific ones. Step
// tokens reuse the same shape; the audience encodes what the token
// authorizes.
type SessionClaims struct {
	jwt.RegisteredClaims
	DisplayName string `json:"name"`
}
