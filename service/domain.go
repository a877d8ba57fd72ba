package service

import "github.com/layer-3/rangda/core"

// validateDomain requires an exact, case-sensitive match against the
// allow-list. No wildcard or suffix matching: "a.com.evil.com" never
// matches "a.com".
func validateDomain(domain string, allowed []string) error {
	for _, a := range allowed {
		if domain == a {
			return nil
		}
	}
	return core.ErrDomainMismatch
}
