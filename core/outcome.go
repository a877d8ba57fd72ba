package core

// OutcomeStatus is the terminal decision of one verification call
type OutcomeStatus string

const (
	// StatusAuthenticated means every check passed and no completion step is pending
	StatusAuthenticated OutcomeStatus = "authenticated"

	// StatusNeedsEmail means the account must confirm an email before a session is issued
	StatusNeedsEmail OutcomeStatus = "needs_email"

	// StatusNeedsUsername means the account must pick a display name before a
	// session is issued
	StatusNeedsUsername OutcomeStatus = "needs_username"

	// StatusRejected means a validation step failed; the specific reason is
	// kept internal
	StatusRejected OutcomeStatus = "rejected"

	// StatusInternal means a storage or infrastructure failure, distinct from
	// rejection so operators can alert on it separately
	StatusInternal OutcomeStatus = "internal_error"
)

// Outcome is the result of one verification call. Reason is never shown to
// the caller for rejected outcomes; it exists for logging only.
type Outcome struct {
	Status   OutcomeStatus
	Identity *Identity
	Reason   error
}

// Rejected builds a rejection outcome carrying the internal reason
func Rejected(reason error) Outcome {
	return Outcome{Status: StatusRejected, Reason: reason}
}

// Internal builds an infrastructure-failure outcome
func Internal(err error) Outcome {
	return Outcome{Status: StatusInternal, Reason: err}
}
