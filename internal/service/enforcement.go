package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PatrickVM/in-house-open-sub001/internal/domain"
	"github.com/PatrickVM/in-house-open-sub001/internal/logger"
	"github.com/PatrickVM/in-house-open-sub001/internal/metrics"
	"github.com/PatrickVM/in-house-open-sub001/internal/repository"
)

// EnforcementConfig carries the timing policy and notification parameters of
// the enforcement cycle.
type EnforcementConfig struct {
	WarnAfter    time.Duration
	DisableAfter time.Duration
	SupportEmail string
	// ReactivationURL is included in disablement notices so a disabled user
	// can reach the operator flow that restores the account.
	ReactivationURL string
}

type enforcementService struct {
	userRepo   repository.UserRepository
	dispatcher NotificationDispatcher
	templates  Templates
	cfg        EnforcementConfig
	metrics    *metrics.Metrics
	now        Clock
}

func NewEnforcementService(
	userRepo repository.UserRepository,
	dispatcher NotificationDispatcher,
	templates Templates,
	cfg EnforcementConfig,
	m *metrics.Metrics,
	now Clock,
) EnforcementService {
	if now == nil {
		now = time.Now
	}
	return &enforcementService{
		userRepo:   userRepo,
		dispatcher: dispatcher,
		templates:  templates,
		cfg:        cfg,
		metrics:    m,
		now:        now,
	}
}

// RunCycle performs one enforcement pass. It is safe to re-invoke: the
// warning stamp and the conditional disable update make a duplicate run a
// no-op, with no external lock required even if two runs overlap.
func (s *enforcementService) RunCycle(ctx context.Context) (*domain.EnforcementSummary, error) {
	start := time.Now()
	defer s.metrics.ObserveEnforcementCycle(start)

	now := s.now()
	summary := &domain.EnforcementSummary{
		RunID:  uuid.New().String(),
		Errors: []string{},
	}
	logger.Info("Enforcement cycle starting", "run_id", summary.RunID)

	users, err := s.userRepo.ListEnforceable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list enforceable accounts: %w", err)
	}

	for i := range users {
		user := &users[i]
		age := now.Sub(enforcementAnchor(user))

		switch {
		case age >= s.cfg.DisableAfter:
			s.disable(ctx, user, now, summary)
		case age >= s.cfg.WarnAfter && user.WarningSentAt == nil:
			s.warn(ctx, user, now, age, summary)
		}
	}

	logger.Info("Enforcement cycle finished",
		"run_id", summary.RunID,
		"warnings_processed", summary.WarningsProcessed,
		"accounts_disabled", summary.AccountsDisabled,
		"errors", len(summary.Errors))
	return summary, nil
}

// enforcementAnchor returns the timestamp the warning/disable windows are
// measured from. A fresh status transition moves the anchor; reactivation
// alone does not.
func enforcementAnchor(user *domain.User) time.Time {
	switch user.MembershipStatus {
	case domain.MembershipStatusRequested:
		if user.JoinRequestedAt != nil {
			return *user.JoinRequestedAt
		}
	case domain.MembershipStatusRejected:
		return user.LastStatusChange
	}
	return user.CreatedAt
}

// warn sends the day-5 notice and stamps warning_sent_at only after the
// dispatcher accepted it, so a failed delivery is retried on the next cycle.
func (s *enforcementService) warn(ctx context.Context, user *domain.User, now time.Time, age time.Duration, summary *domain.EnforcementSummary) {
	daysRemaining := int((s.cfg.DisableAfter - age).Hours() / 24)
	if daysRemaining < 0 {
		daysRemaining = 0
	}
	params := map[string]any{
		"name":             user.FullName(),
		"days_remaining":   daysRemaining,
		"support_contact":  s.cfg.SupportEmail,
		"reactivation_url": s.cfg.ReactivationURL,
	}
	if err := s.dispatcher.Send(ctx, user.Email, s.templates.EnforcementWarning, params); err != nil {
		s.metrics.NotificationFailures.Inc()
		summary.Errors = append(summary.Errors,
			fmt.Sprintf("warning for user %d: %v", user.ID, err))
		return
	}

	stamped, err := s.userRepo.StampWarningSent(ctx, user.ID, now)
	if err != nil {
		summary.Errors = append(summary.Errors,
			fmt.Sprintf("warning stamp for user %d: %v", user.ID, err))
		return
	}
	if stamped {
		summary.WarningsProcessed++
		s.metrics.WarningsSent.Inc()
		logger.Info("Enforcement warning sent", "user_id", user.ID, "days_remaining", daysRemaining)
	}
}

// disable turns the account off first; the notification is informational and
// a dispatch failure never rolls the disablement back.
func (s *enforcementService) disable(ctx context.Context, user *domain.User, now time.Time, summary *domain.EnforcementSummary) {
	disabled, err := s.userRepo.DisableAccount(ctx, user.ID, domain.DisabledReasonMembershipRequired, now)
	if err != nil {
		summary.Errors = append(summary.Errors,
			fmt.Sprintf("disable for user %d: %v", user.ID, err))
		return
	}
	if !disabled {
		return
	}
	summary.AccountsDisabled++
	s.metrics.AccountsDisabled.Inc()
	logger.Info("Account disabled for missing membership", "user_id", user.ID)

	params := map[string]any{
		"name":             user.FullName(),
		"support_contact":  s.cfg.SupportEmail,
		"reactivation_url": s.cfg.ReactivationURL,
	}
	if err := s.dispatcher.Send(ctx, user.Email, s.templates.AccountDisabled, params); err != nil {
		s.metrics.NotificationFailures.Inc()
		summary.Errors = append(summary.Errors,
			fmt.Sprintf("disablement notice for user %d: %v", user.ID, err))
	}
}
