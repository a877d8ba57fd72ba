package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/layer-3/rangda/core"
)

// confirmationHash computes the keyed hash binding a user id, a timestamp
// and an email to the server secret
func confirmationHash(userID string, ts int64, email string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	fmt.Fprintf(mac, "%s/%d/%s", userID, ts, email)
	return hex.EncodeToString(mac.Sum(nil))
}

// RequestEmailConfirmation stores the email on the account pending
// verification and returns the confirmation link path
// "{userId}/{timestamp}/{hash}". Delivery of the link is the mailer's
// concern, not this engine's.
func (s *AuthService) RequestEmailConfirmation(ctx context.Context, stepToken, email string) (string, error) {
	session, err := s.issuer.ValidateStep(stepToken, core.StatusNeedsEmail)
	if err != nil {
		return "", err
	}

	identity, err := s.accounts.GetByAddress(ctx, session.Address)
	if err != nil {
		return "", err
	}

	if err := s.accounts.SetEmail(ctx, identity.ID, email); err != nil {
		return "", err
	}

	ts := s.now().Unix()
	hash := confirmationHash(identity.ID, ts, email, s.cfg.ServerSecret)
	return fmt.Sprintf("%s/%d/%s", identity.ID, ts, hash), nil
}

// ConfirmEmail validates a confirmation link and marks the account's email
// as verified. The hash comparison is constant-time and the link expires
// after the configured TTL.
func (s *AuthService) ConfirmEmail(ctx context.Context, userID, tsStr, hash string) (*core.Identity, error) {
	ts, err := strconv.ParseInt(tsStr, 10, 64)
	if err != nil {
		return nil, core.ErrConfirmationLink
	}

	if s.now().Sub(time.Unix(ts, 0)) > s.cfg.ConfirmationTTL {
		return nil, core.ErrConfirmationLink
	}

	identity, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, core.ErrConfirmationLink
	}
	if identity.Email == "" {
		return nil, core.ErrConfirmationLink
	}

	expected := confirmationHash(identity.ID, ts, identity.Email, s.cfg.ServerSecret)
	if !hmac.Equal([]byte(expected), []byte(hash)) {
		return nil, core.ErrConfirmationLink
	}

	if err := s.accounts.MarkEmailVerified(ctx, identity.ID); err != nil {
		return nil, err
	}

	identity.EmailVerified = true
	return identity, nil
}
