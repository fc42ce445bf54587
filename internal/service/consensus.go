package service

import (
	"context"
	"fmt"
	"time"

	"github.com/PatrickVM/in-house-open-sub001/internal/domain"
	"github.com/PatrickVM/in-house-open-sub001/internal/repository"
)

// ConsensusEvaluator decides when an applicant has gathered enough approving
// peer votes, and which members may cast them. Eligibility is recomputed from
// the clock on every call; it is never stored, because it flips on its own as
// time passes.
type ConsensusEvaluator struct {
	voteRepo         repository.MemberVerificationRepository
	eligibilityAfter time.Duration
	now              Clock
}

func NewConsensusEvaluator(voteRepo repository.MemberVerificationRepository, eligibilityDays int, now Clock) *ConsensusEvaluator {
	if now == nil {
		now = time.Now
	}
	return &ConsensusEvaluator{
		voteRepo:         voteRepo,
		eligibilityAfter: time.Duration(eligibilityDays) * 24 * time.Hour,
		now:              now,
	}
}

// IsEligibleVoter reports whether the user may vote on requests for the given
// church: a VERIFIED member whose verification is at least the eligibility
// period old. Exactly on the boundary counts as eligible.
func (e *ConsensusEvaluator) IsEligibleVoter(user *domain.User, churchID int32) bool {
	if user == nil || !user.IsVerifiedMemberOf(churchID) || user.VerifiedAt == nil {
		return false
	}
	cutoff := e.now().Add(-e.eligibilityAfter)
	return !user.VerifiedAt.After(cutoff)
}

// EligibilityCutoff returns the latest verified_at a member may have and
// still be an eligible voter right now.
func (e *ConsensusEvaluator) EligibilityCutoff() time.Time {
	return e.now().Add(-e.eligibilityAfter)
}

// CountApprovals counts APPROVED ledger rows for the applicant's request.
func (e *ConsensusEvaluator) CountApprovals(ctx context.Context, requestID int32) (int32, error) {
	count, err := e.voteRepo.CountByAction(ctx, requestID, domain.VoteActionApproved)
	if err != nil {
		return 0, fmt.Errorf("failed to count approvals: %w", err)
	}
	return count, nil
}

// HasQuorum reports whether the approval count meets the church's threshold.
func (e *ConsensusEvaluator) HasQuorum(ctx context.Context, requestID int32, church *domain.Church) (int32, bool, error) {
	count, err := e.CountApprovals(ctx, requestID)
	if err != nil {
		return 0, false, err
	}
	return count, count >= church.MinVerificationsRequired, nil
}
