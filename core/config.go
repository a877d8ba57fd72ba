package core

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config is the configuration surface of the authentication engine
type Config struct {
	AllowedDomains []string // Exact hosts accepted in the message domain field

	NonceTTL           time.Duration // How long an issued nonce stays valid
	MessageMaxAge      time.Duration // Maximum accepted age of a signed message
	ClockSkewTolerance time.Duration // Accepted forward clock drift on issued-at

	RequireEmailVerification bool // Gate sessions on a confirmed email
	RequireUsername          bool // Gate sessions on a user-chosen display name

	EnableNameValidation    bool          // Verify name claims in message resources
	EnableReverseNameLookup bool          // Adopt verified reverse-resolved names
	NameCacheTTL            time.Duration // Resolver cache entry lifetime
	ResolverEndpoints       []string      // Ordered resolver endpoints, first is primary
	ResolverTimeout         time.Duration // Per-endpoint request timeout

	ConfirmationTTL time.Duration // Email confirmation link validity
	ServerSecret    []byte        // Key for confirmation link hashes

	SessionTTL time.Duration // Session token lifetime

	RateLimit       int           // Verification attempts allowed per window per caller
	RateLimitWindow time.Duration // Rate limit window length
}

// DefaultConfig returns the default engine configuration. The 30s skew and
// 5m max age mirror long-standing operational practice; both remain
// overridable.
func DefaultConfig() Config {
	return Config{
		NonceTTL:           5 * time.Minute,
		MessageMaxAge:      5 * time.Minute,
		ClockSkewTolerance: 30 * time.Second,
		NameCacheTTL:       10 * time.Minute,
		ResolverTimeout:    5 * time.Second,
		ConfirmationTTL:    24 * time.Hour,
		SessionTTL:         5 * 24 * time.Hour,
		RateLimit:          10,
		RateLimitWindow:    time.Minute,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back to
// defaults for anything unset
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("ALLOWED_DOMAINS"); v != "" {
		cfg.AllowedDomains = strings.Split(v, ",")
	}
	if v := os.Getenv("RESOLVER_ENDPOINTS"); v != "" {
		cfg.ResolverEndpoints = strings.Split(v, ",")
		cfg.EnableNameValidation = true
	}
	if v := os.Getenv("ENABLE_REVERSE_NAME_LOOKUP"); v == "true" {
		cfg.EnableReverseNameLookup = true
	}
	if v := os.Getenv("REQUIRE_EMAIL_VERIFICATION"); v == "true" {
		cfg.RequireEmailVerification = true
	}
	if v := os.Getenv("REQUIRE_USERNAME"); v == "true" {
		cfg.RequireUsername = true
	}
	if v := os.Getenv("SERVER_SECRET"); v != "" {
		cfg.ServerSecret = []byte(v)
	}

	for _, d := range []struct {
		env string
		dst *time.Duration
	}{
		{"NONCE_TTL", &cfg.NonceTTL},
		{"MESSAGE_MAX_AGE", &cfg.MessageMaxAge},
		{"CLOCK_SKEW_TOLERANCE", &cfg.ClockSkewTolerance},
		{"NAME_CACHE_TTL", &cfg.NameCacheTTL},
		{"CONFIRMATION_TTL", &cfg.ConfirmationTTL},
		{"SESSION_TTL", &cfg.SessionTTL},
	} {
		if v := os.Getenv(d.env); v != "" {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, fmt.Errorf("invalid %s: %w", d.env, err)
			}
			*d.dst = parsed
		}
	}

	return cfg, cfg.Validate()
}

// Validate rejects configurations that would silently change matching
// semantics. Domain comparison is against the bare host, so allow-list
// entries must not carry a scheme.
func (c Config) Validate() error {
	for _, d := range c.AllowedDomains {
		if strings.Contains(d, "://") {
			return fmt.Errorf("allowed domain %q must be a bare host without scheme", d)
		}
	}
	return nil
}
