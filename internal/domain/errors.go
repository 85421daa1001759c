package domain

import "fmt"

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// PreconditionError is a client-correctable rejection with a stable
// machine-readable code. Operations that return one have applied no
// mutation.
type PreconditionError struct {
	Code    string
	Message string
}

func (e PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any PreconditionError when the target carries no code, or the
// exact code otherwise.
func (e PreconditionError) Is(target error) bool {
	t, ok := target.(PreconditionError)
	if !ok {
		if p, ok := target.(*PreconditionError); ok {
			t = *p
		} else {
			return false
		}
	}
	return t.Code == "" || t.Code == e.Code
}

var (
	ErrInvalidDirection = PreconditionError{Code: "INVALID_DIRECTION", Message: "vote direction must be +1 or -1"}
	ErrSelfVote         = PreconditionError{Code: "SELF_VOTE", Message: "users cannot vote on their own claim"}
	ErrUserBanned       = PreconditionError{Code: "USER_BANNED", Message: "banned users cannot vote"}
	ErrEmailNotVerified = PreconditionError{Code: "EMAIL_NOT_VERIFIED", Message: "email verification is required to vote"}
	ErrVoteDebounced    = PreconditionError{Code: "VOTE_DEBOUNCED", Message: "vote submitted too soon after the previous attempt"}

	ErrClaimNotProven          = PreconditionError{Code: "CLAIM_NOT_PROVEN", Message: "only proven claims can be disputed"}
	ErrDuplicatePendingDispute = PreconditionError{Code: "DUPLICATE_PENDING_DISPUTE", Message: "a pending dispute by this user already exists for this claim"}
	ErrEmptySources            = PreconditionError{Code: "EMPTY_SOURCES", Message: "a dispute requires at least one cited source"}
	ErrMalformedSourceURL      = PreconditionError{Code: "MALFORMED_SOURCE_URL", Message: "dispute source url is not well-formed"}
	ErrDisputeNotPending       = PreconditionError{Code: "DISPUTE_NOT_PENDING", Message: "the dispute has already been resolved"}
)
