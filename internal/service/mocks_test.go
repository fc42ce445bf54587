package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/PatrickVM/in-house-open-sub001/internal/domain"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) SetMembershipRequested(ctx context.Context, userID int32, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}
func (m *MockUserRepo) PromoteToVerified(ctx context.Context, userID, churchID int32, at time.Time) (bool, error) {
	args := m.Called(ctx, userID, churchID, at)
	return args.Bool(0), args.Error(1)
}
func (m *MockUserRepo) MarkRejected(ctx context.Context, userID int32, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}
func (m *MockUserRepo) ListEnforceable(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) StampWarningSent(ctx context.Context, userID int32, at time.Time) (bool, error) {
	args := m.Called(ctx, userID, at)
	return args.Bool(0), args.Error(1)
}
func (m *MockUserRepo) DisableAccount(ctx context.Context, userID int32, reason domain.DisabledReason, at time.Time) (bool, error) {
	args := m.Called(ctx, userID, reason, at)
	return args.Bool(0), args.Error(1)
}
func (m *MockUserRepo) SetEnforcementExempt(ctx context.Context, userID int32, exempt bool) error {
	args := m.Called(ctx, userID, exempt)
	return args.Error(0)
}
func (m *MockUserRepo) Reactivate(ctx context.Context, userID int32) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *MockUserRepo) CountEligibleVoters(ctx context.Context, churchID int32, cutoff time.Time) (int32, error) {
	args := m.Called(ctx, churchID, cutoff)
	return args.Get(0).(int32), args.Error(1)
}

// MockChurchRepo
type MockChurchRepo struct {
	mock.Mock
}

func (m *MockChurchRepo) GetByID(ctx context.Context, id int32) (*domain.Church, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Church), args.Error(1)
}
func (m *MockChurchRepo) UpdateMinVerifications(ctx context.Context, churchID, min int32) error {
	args := m.Called(ctx, churchID, min)
	return args.Error(0)
}

// MockRequestRepo
type MockRequestRepo struct {
	mock.Mock
}

func (m *MockRequestRepo) Create(ctx context.Context, req *domain.VerificationRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockRequestRepo) GetByID(ctx context.Context, id int32) (*domain.VerificationRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationRequest), args.Error(1)
}
func (m *MockRequestRepo) GetPendingByUser(ctx context.Context, userID, churchID int32) (*domain.VerificationRequest, error) {
	args := m.Called(ctx, userID, churchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationRequest), args.Error(1)
}
func (m *MockRequestRepo) ListPendingForVoter(ctx context.Context, churchID, voterID int32) ([]domain.VerificationRequest, error) {
	args := m.Called(ctx, churchID, voterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VerificationRequest), args.Error(1)
}
func (m *MockRequestRepo) Resolve(ctx context.Context, req *domain.VerificationRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// MockVoteRepo
type MockVoteRepo struct {
	mock.Mock
}

func (m *MockVoteRepo) Create(ctx context.Context, v *domain.MemberVerification) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}
func (m *MockVoteRepo) HasVoted(ctx context.Context, requestID, verifierID int32) (bool, error) {
	args := m.Called(ctx, requestID, verifierID)
	return args.Bool(0), args.Error(1)
}
func (m *MockVoteRepo) CountByAction(ctx context.Context, requestID int32, action domain.VoteAction) (int32, error) {
	args := m.Called(ctx, requestID, action)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockVoteRepo) ListByRequest(ctx context.Context, requestID int32) ([]domain.MemberVerification, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MemberVerification), args.Error(1)
}

// MockDispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Send(ctx context.Context, toAddress, templateID string, params map[string]any) error {
	args := m.Called(ctx, toAddress, templateID, params)
	return args.Error(0)
}
