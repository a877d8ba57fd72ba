package ports

import "github.com/layer-3/rangda/core"

// SessionIssuer converts between verified identities and tokens.
// Finalize issues a full session token; step tokens authorize only the
// completion of a pending sign-in step.
type SessionIssuer interface {
	Finalize(identity *core.Identity) (string, error)
	ValidateSession(token string) (*core.Session, error)

	IssueStep(identity *core.Identity, step core.OutcomeStatus) (string, error)
	ValidateStep(token string, step core.OutcomeStatus) (*core.Session, error)
}
