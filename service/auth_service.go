package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/internal/eth"
	"github.com/layer-3/rangda/ports"
	"github.com/layer-3/rangda/siwe"
)

// AuthService drives the sign-in flow: nonce issuance, verification of
// signed messages and completion of pending identity steps. It holds no
// per-request state; every verification is an independent call chain.
type AuthService struct {
	cfg      core.Config
	nonces   ports.NonceStore
	accounts ports.AccountRepository
	resolver ports.NameResolver
	issuer   ports.SessionIssuer
	events   ports.EventPublisher
	identity *identityManager
	log      *slog.Logger
	now      func() time.Time
}

// NewAuthService creates a new authentication service. resolver may be nil
// when name validation is disabled; events may be nil when no broker is
// configured.
func NewAuthService(
	cfg core.Config,
	nonces ports.NonceStore,
	accounts ports.AccountRepository,
	resolver ports.NameResolver,
	issuer ports.SessionIssuer,
	events ports.EventPublisher,
	log *slog.Logger,
) *AuthService {
	return &AuthService{
		cfg:      cfg,
		nonces:   nonces,
		accounts: accounts,
		resolver: resolver,
		issuer:   issuer,
		events:   events,
		identity: &identityManager{accounts: accounts},
		log:      log,
		now:      time.Now,
	}
}

// CreateNonce issues a fresh single-use nonce
func (s *AuthService) CreateNonce(ctx context.Context) (string, error) {
	nonce, err := s.nonces.Issue(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to issue nonce: %w", err)
	}
	return nonce, nil
}

// Verify runs the full validation chain over a signed message and returns a
// terminal outcome. Each step short-circuits on failure; the specific reason
// is carried internally and never surfaced to the caller.
func (s *AuthService) Verify(ctx context.Context, messageText, signature, claimedAddress string) core.Outcome {
	msg, err := siwe.Parse(messageText)
	if err != nil {
		return s.rejected(err)
	}

	claimed, err := eth.ChecksumAddress(claimedAddress)
	if err != nil {
		return s.rejected(core.ErrMalformedMessage)
	}
	if claimed != msg.Address.Hex() {
		// The message must be bound to the claimed address before any
		// cryptographic work happens
		return s.rejected(core.ErrInvalidSignature)
	}

	sigBytes, err := hexutil.Decode(signature)
	if err != nil {
		return s.rejected(core.ErrInvalidSignature)
	}
	if err := eth.VerifyPersonalSignature([]byte(messageText), sigBytes, msg.Address); err != nil {
		return s.rejected(core.ErrInvalidSignature)
	}

	if err := validateTemporal(msg, s.now(), s.cfg.ClockSkewTolerance, s.cfg.MessageMaxAge); err != nil {
		return s.rejected(err)
	}

	if err := s.nonces.Consume(ctx, msg.Nonce); err != nil {
		if errors.Is(err, core.ErrInvalidNonce) {
			return s.rejected(err)
		}
		return s.internal(err)
	}

	if err := validateDomain(msg.Domain, s.cfg.AllowedDomains); err != nil {
		return s.rejected(err)
	}

	input := CreateInput{}
	if s.cfg.EnableNameValidation {
		name, err := s.validateNameClaim(ctx, msg)
		if err != nil {
			return s.rejected(err)
		}
		input.NameClaim = name
	}

	identity, created, err := s.identity.findOrCreate(ctx, eth.NormalizeAddress(msg.Address), input)
	if err != nil {
		return s.internal(err)
	}

	if created {
		s.publishCreated(ctx, identity)
	}

	s.adoptReverseName(ctx, identity, msg)

	return s.resolveOutcome(ctx, identity)
}

// resolveOutcome applies the completion-step policy to a verified identity.
// Email is the more urgent requirement and is reported before username.
func (s *AuthService) resolveOutcome(ctx context.Context, identity *core.Identity) core.Outcome {
	if s.cfg.RequireEmailVerification && !identity.EmailVerified {
		return core.Outcome{Status: core.StatusNeedsEmail, Identity: identity}
	}
	if s.cfg.RequireUsername && identity.GeneratedName {
		return core.Outcome{Status: core.StatusNeedsUsername, Identity: identity}
	}

	s.publishLogin(ctx, identity)
	return core.Outcome{Status: core.StatusAuthenticated, Identity: identity}
}

// validateNameClaim checks the name claim carried in the message resources,
// if any, against the signer address. A claim that fails to resolve or
// resolves elsewhere is a hard failure.
func (s *AuthService) validateNameClaim(ctx context.Context, msg *core.Message) (string, error) {
	claim, ok := msg.NameClaim()
	if !ok {
		return "", nil
	}
	if s.resolver == nil {
		return "", core.ErrNameResolution
	}

	resolved, err := s.resolver.ResolveForward(ctx, claim)
	if err != nil {
		if errors.Is(err, core.ErrNameNotFound) {
			return "", core.ErrNameMismatch
		}
		return "", fmt.Errorf("%w: %w", core.ErrNameResolution, err)
	}
	if resolved != msg.Address {
		return "", core.ErrNameMismatch
	}

	return claim, nil
}

// adoptReverseName replaces a system-generated display name with the
// verified primary name of the address, when reverse lookup is enabled.
// Failures are soft; the generated name simply stays.
func (s *AuthService) adoptReverseName(ctx context.Context, identity *core.Identity, msg *core.Message) {
	if !s.cfg.EnableReverseNameLookup || s.resolver == nil || !identity.GeneratedName {
		return
	}

	name, err := s.resolver.VerifiedReverse(ctx, msg.Address)
	if err != nil {
		if !errors.Is(err, core.ErrNameNotFound) {
			s.log.Warn("reverse name lookup failed", "address", identity.Address, "err", err)
		}
		return
	}

	if err := s.identity.renameIfGenerated(ctx, identity, name); err != nil {
		s.log.Warn("could not adopt reverse name", "address", identity.Address, "name", name, "err", err)
	}
}

// FinalizeSession issues a session token for an authenticated identity
func (s *AuthService) FinalizeSession(identity *core.Identity) (string, error) {
	return s.issuer.Finalize(identity)
}

// StepToken issues a token authorizing the completion of one pending step
func (s *AuthService) StepToken(identity *core.Identity, step core.OutcomeStatus) (string, error) {
	return s.issuer.IssueStep(identity, step)
}

// ValidateSession parses and validates a session token
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*core.Session, error) {
	return s.issuer.ValidateSession(token)
}

// IdentityByAddress returns the identity for a normalized address
func (s *AuthService) IdentityByAddress(ctx context.Context, address string) (*core.Identity, error) {
	return s.accounts.GetByAddress(ctx, address)
}

// ChooseUsername completes the username step: the step token proves the
// wallet was verified, and the chosen name replaces the generated one.
func (s *AuthService) ChooseUsername(ctx context.Context, stepToken, username string) (*core.Identity, error) {
	session, err := s.issuer.ValidateStep(stepToken, core.StatusNeedsUsername)
	if err != nil {
		return nil, err
	}

	identity, err := s.accounts.GetByAddress(ctx, session.Address)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.Rename(ctx, identity.ID, username, false); err != nil {
		return nil, err
	}

	identity.DisplayName = username
	identity.GeneratedName = false
	return identity, nil
}

func (s *AuthService) rejected(reason error) core.Outcome {
	s.log.Info("verification rejected", "reason", reason)
	return core.Rejected(reason)
}

func (s *AuthService) internal(err error) core.Outcome {
	s.log.Error("verification failed on infrastructure", "err", err)
	return core.Internal(err)
}

func (s *AuthService) publishLogin(ctx context.Context, identity *core.Identity) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishLogin(ctx, identity); err != nil {
		s.log.Warn("failed to publish login event", "err", err)
	}
}

func (s *AuthService) publishCreated(ctx context.Context, identity *core.Identity) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishIdentityCreated(ctx, identity); err != nil {
		s.log.Warn("failed to publish identity event", "err", err)
	}
}
