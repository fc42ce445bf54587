package repository

import (
	"context"
	"time"

	"github.com/PatrickVM/in-house-open-sub001/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)

	// Membership facet transitions
	SetMembershipRequested(ctx context.Context, userID int32, at time.Time) error
	// PromoteToVerified is a guarded conditional update: it only fires while
	// membership_status is not already VERIFIED and reports whether the row
	// actually changed, so concurrent quorum evaluations promote at most once.
	PromoteToVerified(ctx context.Context, userID, churchID int32, at time.Time) (bool, error)
	MarkRejected(ctx context.Context, userID int32, at time.Time) error

	// Enforcement
	ListEnforceable(ctx context.Context) ([]domain.User, error)
	StampWarningSent(ctx context.Context, userID int32, at time.Time) (bool, error)
	DisableAccount(ctx context.Context, userID int32, reason domain.DisabledReason, at time.Time) (bool, error)
	SetEnforcementExempt(ctx context.Context, userID int32, exempt bool) error
	Reactivate(ctx context.Context, userID int32) error

	// CountEligibleVoters counts VERIFIED members of the church whose
	// verified_at is at or before the cutoff.
	CountEligibleVoters(ctx context.Context, churchID int32, cutoff time.Time) (int32, error)
}

type ChurchRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Church, error)
	UpdateMinVerifications(ctx context.Context, churchID, min int32) error
}

type VerificationRequestRepository interface {
	Create(ctx context.Context, req *domain.VerificationRequest) error
	GetByID(ctx context.Context, id int32) (*domain.VerificationRequest, error)
	// GetPendingByUser returns the applicant's open request for the church,
	// or domain.ErrRequestNotFound when none is open.
	GetPendingByUser(ctx context.Context, userID, churchID int32) (*domain.VerificationRequest, error)
	// ListPendingForVoter returns the church's PENDING requests the voter has
	// not yet voted on, excluding the voter's own request, in a stable
	// (created_at, id) order.
	ListPendingForVoter(ctx context.Context, churchID, voterID int32) ([]domain.VerificationRequest, error)
	// Resolve applies a lead-contact resolution to the request row.
	Resolve(ctx context.Context, req *domain.VerificationRequest) error
}

type MemberVerificationRepository interface {
	// Create appends one vote. A second vote by the same verifier on the same
	// request fails with domain.ErrDuplicateVote.
	Create(ctx context.Context, v *domain.MemberVerification) error
	HasVoted(ctx context.Context, requestID, verifierID int32) (bool, error)
	CountByAction(ctx context.Context, requestID int32, action domain.VoteAction) (int32, error)
	ListByRequest(ctx context.Context, requestID int32) ([]domain.MemberVerification, error)
}
