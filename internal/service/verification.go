package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PatrickVM/in-house-open-sub001/internal/domain"
	"github.com/PatrickVM/in-house-open-sub001/internal/logger"
	"github.com/PatrickVM/in-house-open-sub001/internal/metrics"
	"github.com/PatrickVM/in-house-open-sub001/internal/repository"
	"github.com/PatrickVM/in-house-open-sub001/internal/rotation"
)

type verificationService struct {
	userRepo   repository.UserRepository
	churchRepo repository.ChurchRepository
	reqRepo    repository.VerificationRequestRepository
	voteRepo   repository.MemberVerificationRepository
	consensus  *ConsensusEvaluator
	dispatcher NotificationDispatcher
	templates  Templates
	metrics    *metrics.Metrics
	now        Clock
}

func NewVerificationService(
	userRepo repository.UserRepository,
	churchRepo repository.ChurchRepository,
	reqRepo repository.VerificationRequestRepository,
	voteRepo repository.MemberVerificationRepository,
	consensus *ConsensusEvaluator,
	dispatcher NotificationDispatcher,
	templates Templates,
	m *metrics.Metrics,
	now Clock,
) VerificationService {
	if now == nil {
		now = time.Now
	}
	return &verificationService{
		userRepo:   userRepo,
		churchRepo: churchRepo,
		reqRepo:    reqRepo,
		voteRepo:   voteRepo,
		consensus:  consensus,
		dispatcher: dispatcher,
		templates:  templates,
		metrics:    m,
		now:        now,
	}
}

func (s *verificationService) RequestToJoin(ctx context.Context, userID, churchID int32, note string) (*domain.VerificationRequest, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user.IsVerifiedMemberOf(churchID) {
		return nil, fmt.Errorf("user %d is already a verified member of church %d", userID, churchID)
	}
	if _, err := s.churchRepo.GetByID(ctx, churchID); err != nil {
		return nil, fmt.Errorf("failed to get church: %w", err)
	}

	// Selecting a church is idempotent while a request is still open.
	if existing, err := s.reqRepo.GetPendingByUser(ctx, userID, churchID); err == nil {
		return existing, nil
	} else if !errors.Is(err, domain.ErrRequestNotFound) {
		return nil, fmt.Errorf("failed to check pending request: %w", err)
	}

	at := s.now()
	req := &domain.VerificationRequest{
		UserID:      userID,
		ChurchID:    churchID,
		RequesterID: userID,
		Status:      domain.VerificationRequestStatusPending,
		Note:        note,
		CreatedAt:   at,
	}
	if err := s.reqRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create verification request: %w", err)
	}
	if err := s.userRepo.SetMembershipRequested(ctx, userID, at); err != nil {
		return nil, fmt.Errorf("failed to mark membership requested: %w", err)
	}

	logger.Info("Join request created", "user_id", userID, "church_id", churchID, "request_id", req.ID)
	return req, nil
}

func (s *verificationService) SubmitVote(ctx context.Context, requestID, callerID int32, action domain.VoteAction, note string) (*domain.VoteOutcome, error) {
	if action != domain.VoteActionApproved && action != domain.VoteActionRejected {
		return nil, domain.ErrInvalidAction
	}

	req, err := s.reqRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.AcceptsVotes() {
		return nil, domain.ErrRequestResolved
	}

	church, err := s.churchRepo.GetByID(ctx, req.ChurchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get church: %w", err)
	}
	caller, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get caller: %w", err)
	}

	res, err := s.classify(ctx, req, church, caller, action, note)
	if err != nil {
		return nil, err
	}
	return res.apply(ctx)
}

// classify picks one of the two resolution variants. Lead-contact authority
// and the peer quorum path have asymmetric semantics (a lead rejection is
// terminal, a peer rejection is advisory), so the branch is an explicit type
// rather than conditionals scattered through the write path.
func (s *verificationService) classify(ctx context.Context, req *domain.VerificationRequest, church *domain.Church, caller *domain.User, action domain.VoteAction, note string) (voteResolution, error) {
	if caller.ID == church.LeadContactID {
		return &leadContactResolution{svc: s, req: req, church: church, caller: caller, action: action, note: note}, nil
	}

	if !caller.IsVerifiedMemberOf(church.ID) {
		return nil, domain.ErrNotAuthorized
	}
	if !s.consensus.IsEligibleVoter(caller, church.ID) {
		return nil, domain.ErrVoterNotEligible
	}
	voted, err := s.voteRepo.HasVoted(ctx, req.ID, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check vote ledger: %w", err)
	}
	if voted {
		return nil, domain.ErrDuplicateVote
	}
	return &peerVote{svc: s, req: req, church: church, caller: caller, action: action, note: note}, nil
}

// voteResolution is the two-variant outcome of classifying a vote submission.
type voteResolution interface {
	apply(ctx context.Context) (*domain.VoteOutcome, error)
}

// leadContactResolution resolves the request row directly in one action;
// quorum is irrelevant on this path.
type leadContactResolution struct {
	svc    *verificationService
	req    *domain.VerificationRequest
	church *domain.Church
	caller *domain.User
	action domain.VoteAction
	note   string
}

func (r *leadContactResolution) apply(ctx context.Context) (*domain.VoteOutcome, error) {
	s := r.svc
	at := s.now()
	r.req.VerifierID = &r.caller.ID
	if r.note != "" {
		r.req.Note = r.note
	}

	switch r.action {
	case domain.VoteActionApproved:
		r.req.Status = domain.VerificationRequestStatusApproved
		r.req.VerifiedAt = &at
	default:
		r.req.Status = domain.VerificationRequestStatusRejected
		r.req.RejectedAt = &at
	}
	if err := s.reqRepo.Resolve(ctx, r.req); err != nil {
		return nil, err
	}

	if r.action == domain.VoteActionRejected {
		if err := s.userRepo.MarkRejected(ctx, r.req.UserID, at); err != nil {
			return nil, fmt.Errorf("failed to mark applicant rejected: %w", err)
		}
		logger.Info("Applicant rejected by lead contact",
			"request_id", r.req.ID, "user_id", r.req.UserID, "lead_contact_id", r.caller.ID)
		s.metrics.RecordVote(string(domain.VoteActionRejected))
		s.notifyResolution(ctx, r.req.UserID, s.templates.MembershipRejected, r.church)
		return &domain.VoteOutcome{Accepted: true}, nil
	}

	promoted, err := s.promote(ctx, r.req.UserID, r.church, at)
	if err != nil {
		return nil, err
	}
	logger.Info("Applicant approved by lead contact",
		"request_id", r.req.ID, "user_id", r.req.UserID, "lead_contact_id", r.caller.ID)
	s.metrics.RecordVote(string(domain.VoteActionApproved))
	return &domain.VoteOutcome{Accepted: true, UserPromoted: promoted}, nil
}

// peerVote appends one ledger row and re-evaluates quorum. A REJECTED peer
// vote is recorded for the lead contact's information but never rejects the
// applicant and never removes the request from other voters' rotation.
type peerVote struct {
	svc    *verificationService
	req    *domain.VerificationRequest
	church *domain.Church
	caller *domain.User
	action domain.VoteAction
	note   string
}

func (v *peerVote) apply(ctx context.Context) (*domain.VoteOutcome, error) {
	s := v.svc
	at := s.now()
	entry := &domain.MemberVerification{
		RequestID:  v.req.ID,
		VerifierID: v.caller.ID,
		Action:     v.action,
		Note:       v.note,
		CreatedAt:  at,
	}
	if err := s.voteRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	s.metrics.RecordVote(string(v.action))

	count, reached, err := s.consensus.HasQuorum(ctx, v.req.ID, v.church)
	if err != nil {
		return nil, err
	}
	outcome := &domain.VoteOutcome{
		Accepted:          true,
		CurrentApprovals:  count,
		RequiredApprovals: v.church.MinVerificationsRequired,
	}

	if v.action == domain.VoteActionApproved && reached {
		promoted, err := s.promote(ctx, v.req.UserID, v.church, at)
		if err != nil {
			return nil, err
		}
		outcome.UserPromoted = promoted
		if promoted {
			logger.Info("Applicant promoted on quorum",
				"request_id", v.req.ID, "user_id", v.req.UserID,
				"approvals", count, "required", v.church.MinVerificationsRequired)
		}
	}
	return outcome, nil
}

// promote performs the single guarded VERIFIED transition. The repository
// update is conditional on the status not already being VERIFIED, so two
// concurrent quorum evaluations cannot both take the promotion side effects.
func (s *verificationService) promote(ctx context.Context, userID int32, church *domain.Church, at time.Time) (bool, error) {
	promoted, err := s.userRepo.PromoteToVerified(ctx, userID, church.ID, at)
	if err != nil {
		return false, fmt.Errorf("failed to promote user: %w", err)
	}
	if promoted {
		s.metrics.MembersPromoted.Inc()
		s.notifyResolution(ctx, userID, s.templates.MembershipApproved, church)
	}
	return promoted, nil
}

// notifyResolution is best-effort: resolution outcomes are already durable
// and a failed notification must not fail the vote.
func (s *verificationService) notifyResolution(ctx context.Context, userID int32, templateID string, church *domain.Church) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Error("Failed to load user for resolution notification", "user_id", userID, "error", err)
		return
	}
	params := map[string]any{
		"name":        user.FullName(),
		"church_name": church.Name,
	}
	if err := s.dispatcher.Send(ctx, user.Email, templateID, params); err != nil {
		s.metrics.NotificationFailures.Inc()
		logger.Error("Failed to send resolution notification",
			"user_id", userID, "template_id", templateID, "error", err)
	}
}

func (s *verificationService) AssignedRequests(ctx context.Context, voterID int32) ([]domain.VerificationRequest, error) {
	voter, err := s.userRepo.GetByID(ctx, voterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get voter: %w", err)
	}
	if voter.MembershipStatus != domain.MembershipStatusVerified || voter.ChurchID == nil {
		return nil, domain.ErrNotAuthorized
	}
	churchID := *voter.ChurchID
	if !s.consensus.IsEligibleVoter(voter, churchID) {
		return nil, domain.ErrVoterNotEligible
	}

	pending, err := s.reqRepo.ListPendingForVoter(ctx, churchID, voterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	eligible, err := s.userRepo.CountEligibleVoters(ctx, churchID, s.consensus.EligibilityCutoff())
	if err != nil {
		return nil, fmt.Errorf("failed to count eligible voters: %w", err)
	}
	return rotation.Assign(pending, int(eligible), voterID), nil
}

func (s *verificationService) MembershipStatus(ctx context.Context, userID int32) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
