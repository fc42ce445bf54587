package domain

import "time"

type VerificationRequestStatus string

const (
	VerificationRequestStatusPending  VerificationRequestStatus = "PENDING"
	VerificationRequestStatusApproved VerificationRequestStatus = "APPROVED"
	VerificationRequestStatusRejected VerificationRequestStatus = "REJECTED"
)

type VoteAction string

const (
	VoteActionApproved VoteAction = "APPROVED"
	VoteActionRejected VoteAction = "REJECTED"
)

// VerificationRequest is one applicant's request to join a church. Peer votes
// accumulate in member_verifications against this row; quorum promotion is
// driven by the vote count and leaves the row PENDING. The row's own status
// only changes on the lead-contact path, which stamps VerifierID and the
// matching terminal timestamp.
type VerificationRequest struct {
	ID          int32                     `json:"id"`
	UserID      int32                     `json:"user_id"`
	ChurchID    int32                     `json:"church_id"`
	RequesterID int32                     `json:"requester_id"`
	Status      VerificationRequestStatus `json:"status"`
	Note        string                    `json:"note"`
	VerifierID  *int32                    `json:"verifier_id,omitempty"`
	CreatedAt   time.Time                 `json:"created_at"`
	VerifiedAt  *time.Time                `json:"verified_at,omitempty"`
	RejectedAt  *time.Time                `json:"rejected_at,omitempty"`
}

// AcceptsVotes reports whether the request is still open for voting.
func (r *VerificationRequest) AcceptsVotes() bool {
	return r.Status == VerificationRequestStatusPending
}

// MemberVerification is a single peer vote. The ledger is append-only and
// holds at most one row per (request, verifier) pair.
type MemberVerification struct {
	ID         int32      `json:"id"`
	RequestID  int32      `json:"request_id"`
	VerifierID int32      `json:"verifier_id"`
	Action     VoteAction `json:"action"`
	Note       string     `json:"note"`
	CreatedAt  time.Time  `json:"created_at"`
}

// VoteOutcome is returned to the caller of SubmitVote.
type VoteOutcome struct {
	Accepted          bool  `json:"accepted"`
	UserPromoted      bool  `json:"user_promoted"`
	CurrentApprovals  int32 `json:"current_approvals,omitempty"`
	RequiredApprovals int32 `json:"required_approvals,omitempty"`
}
