package domain

import "errors"

// Sentinel errors for the verification workflow. The HTTP layer maps these to
// status codes; services wrap them with context but never replace them, so
// callers can errors.Is against the sentinel.
var (
	ErrRequestNotFound  = errors.New("verification request not found")
	ErrRequestResolved  = errors.New("verification request already resolved")
	ErrDuplicateVote    = errors.New("verifier has already voted on this request")
	ErrNotAuthorized    = errors.New("caller is not a member of this church")
	ErrVoterNotEligible = errors.New("caller must be a verified member for at least 7 days")
	ErrUserNotFound     = errors.New("user not found")
	ErrChurchNotFound   = errors.New("church not found")
	ErrInvalidAction    = errors.New("vote action must be APPROVED or REJECTED")
)
