package service

import (
	"context"
	"time"

	"github.com/PatrickVM/in-house-open-sub001/internal/domain"
)

// Clock supplies "now" to anything with time-dependent behavior. Eligibility
// checks and enforcement anchors are computed from an injected Clock rather
// than the ambient system clock so they stay deterministic under test.
type Clock func() time.Time

type VerificationService interface {
	RequestToJoin(ctx context.Context, userID, churchID int32, note string) (*domain.VerificationRequest, error)
	SubmitVote(ctx context.Context, requestID, callerID int32, action domain.VoteAction, note string) (*domain.VoteOutcome, error)
	AssignedRequests(ctx context.Context, voterID int32) ([]domain.VerificationRequest, error)
	MembershipStatus(ctx context.Context, userID int32) (*domain.User, error)
}

type EnforcementService interface {
	RunCycle(ctx context.Context) (*domain.EnforcementSummary, error)
}

type AdminService interface {
	SetEnforcementExempt(ctx context.Context, userID int32, exempt bool) error
	ReactivateAccount(ctx context.Context, userID int32) error
	UpdateMinVerifications(ctx context.Context, churchID, min int32) error
}

// NotificationDispatcher is the outbound notification collaborator. This
// subsystem only ever picks a template and supplies parameters; transport,
// retries and rendering belong to the dispatcher.
type NotificationDispatcher interface {
	Send(ctx context.Context, toAddress, templateID string, params map[string]any) error
}
