package tokenizer

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/ports"
)

const AudienceSession = "session:access"

// stepAudience maps a pending outcome to the audience of its step token, so
// an email-step token cannot complete the username step or open a session
func stepAudience(step core.OutcomeStatus) string {
	return "step:" + string(step)
}

// JWTIssuer implements the SessionIssuer interface using ES256 JWTs
type JWTIssuer struct {
	signKey    *ecdsa.PrivateKey
	sessionTTL time.Duration
	stepTTL    time.Duration
}

// NewJWTIssuer creates a new JWT session issuer
func NewJWTIssuer(signKey *ecdsa.PrivateKey, sessionTTL time.Duration) ports.SessionIssuer {
	return &JWTIssuer{
		signKey:    signKey,
		sessionTTL: sessionTTL,
		stepTTL:    30 * time.Minute,
	}
}

// Finalize issues a session token for a fully verified identity
func (j *JWTIssuer) Finalize(identity *core.Identity) (string, error) {
	return j.issue(identity, AudienceSession, j.sessionTTL)
}

// ValidateSession parses a session token and returns the session it represents
func (j *JWTIssuer) ValidateSession(token string) (*core.Session, error) {
	return j.validate(token, AudienceSession)
}

// IssueStep issues a token that authorizes only the completion of one
// pending sign-in step
func (j *JWTIssuer) IssueStep(identity *core.Identity, step core.OutcomeStatus) (string, error) {
	return j.issue(identity, stepAudience(step), j.stepTTL)
}

// ValidateStep parses a step token, requiring the expected step audience
func (j *JWTIssuer) ValidateStep(token string, step core.OutcomeStatus) (*core.Session, error) {
	return j.validate(token, stepAudience(step))
}

func (j *JWTIssuer) issue(identity *core.Identity, audience string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Address,
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Audience:  jwt.ClaimStrings{audience},
		},
		DisplayName: identity.DisplayName,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)

	signedToken, err := token.SignedString(j.signKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

func (j *JWTIssuer) validate(tokenStr, audience string) (*core.Session, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return &j.signKey.PublicKey, nil
	}, jwt.WithAudience(audience))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, core.ErrTokenExpired
		}
		return nil, fmt.Errorf("failed to parse token: %w", core.ErrInvalidToken)
	}

	if !token.Valid {
		return nil, core.ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, core.ErrInvalidToken
	}

	return &core.Session{
		ID:          claims.ID,
		Address:     claims.Subject,
		DisplayName: claims.DisplayName,
		IssuedAt:    claims.IssuedAt.Time,
		Expiry:      claims.ExpiresAt.Time,
	}, nil
}
