package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/PatrickVM/in-house-open-sub001/internal/domain"
	apihttp "github.com/PatrickVM/in-house-open-sub001/internal/api/http"
	"github.com/PatrickVM/in-house-open-sub001/internal/security"
)

const testJWTSecret = "0123456789abcdef0123456789abcdef"

type MockVerificationService struct {
	mock.Mock
}

func (m *MockVerificationService) RequestToJoin(ctx context.Context, userID, churchID int32, note string) (*domain.VerificationRequest, error) {
	args := m.Called(ctx, userID, churchID, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationRequest), args.Error(1)
}
func (m *MockVerificationService) SubmitVote(ctx context.Context, requestID, callerID int32, action domain.VoteAction, note string) (*domain.VoteOutcome, error) {
	args := m.Called(ctx, requestID, callerID, action, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VoteOutcome), args.Error(1)
}
func (m *MockVerificationService) AssignedRequests(ctx context.Context, voterID int32) ([]domain.VerificationRequest, error) {
	args := m.Called(ctx, voterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VerificationRequest), args.Error(1)
}
func (m *MockVerificationService) MembershipStatus(ctx context.Context, userID int32) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockEnforcementService struct {
	mock.Mock
}

func (m *MockEnforcementService) RunCycle(ctx context.Context) (*domain.EnforcementSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EnforcementSummary), args.Error(1)
}

type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) SetEnforcementExempt(ctx context.Context, userID int32, exempt bool) error {
	args := m.Called(ctx, userID, exempt)
	return args.Error(0)
}
func (m *MockAdminService) ReactivateAccount(ctx context.Context, userID int32) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *MockAdminService) UpdateMinVerifications(ctx context.Context, churchID, min int32) error {
	args := m.Called(ctx, churchID, min)
	return args.Error(0)
}

type routerFixture struct {
	verification *MockVerificationService
	enforcement  *MockEnforcementService
	admin        *MockAdminService
	tokens       security.TokenManager
	router       http.Handler
}

const testOperationalToken = "ops-secret"

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testOperationalToken), bcrypt.MinCost)
	assert.NoError(t, err)

	f := &routerFixture{
		verification: new(MockVerificationService),
		enforcement:  new(MockEnforcementService),
		admin:        new(MockAdminService),
		tokens:       security.NewTokenManager(testJWTSecret),
	}
	f.router = apihttp.NewRouter(apihttp.RouterDeps{
		Verification: f.verification,
		Enforcement:  f.enforcement,
		Admin:        f.admin,
		Tokens:       f.tokens,
		Operational:  security.NewOperationalTokenVerifier(string(hash)),
	})
	return f
}

func (f *routerFixture) authedRequest(t *testing.T, method, target string, body any, callerID int32) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	token, err := f.tokens.GenerateAccessToken(callerID, "caller@example.org")
	assert.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestAuthMiddleware_RejectsMissingToken(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest("GET", "/api/v1/verification/requests", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	f.verification.AssertNotCalled(t, "AssignedRequests", mock.Anything, mock.Anything)
}

func TestAuthMiddleware_RejectsGarbageToken(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest("GET", "/api/v1/verification/requests", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleSubmitVote_Success(t *testing.T) {
	f := newRouterFixture(t)

	f.verification.On("SubmitVote", mock.Anything, int32(5), int32(42), domain.VoteActionApproved, "seen at services").
		Return(&domain.VoteOutcome{Accepted: true, CurrentApprovals: 2, RequiredApprovals: 3}, nil)

	req := f.authedRequest(t, "POST", "/api/v1/verification/requests/5/vote",
		map[string]string{"action": "approve", "note": "seen at services"}, 42)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var outcome domain.VoteOutcome
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.True(t, outcome.Accepted)
	assert.Equal(t, int32(2), outcome.CurrentApprovals)
	f.verification.AssertExpectations(t)
}

func TestHandleSubmitVote_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"NotFound", domain.ErrRequestNotFound, http.StatusNotFound},
		{"Resolved", domain.ErrRequestResolved, http.StatusConflict},
		{"Duplicate", domain.ErrDuplicateVote, http.StatusConflict},
		{"NotAuthorized", domain.ErrNotAuthorized, http.StatusForbidden},
		{"NotEligible", domain.ErrVoterNotEligible, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newRouterFixture(t)
			f.verification.On("SubmitVote", mock.Anything, int32(5), int32(42), domain.VoteActionApproved, "").
				Return(nil, tc.err)

			req := f.authedRequest(t, "POST", "/api/v1/verification/requests/5/vote",
				map[string]string{"action": "approve"}, 42)
			rec := httptest.NewRecorder()
			f.router.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestHandleSubmitVote_UnknownAction(t *testing.T) {
	f := newRouterFixture(t)

	req := f.authedRequest(t, "POST", "/api/v1/verification/requests/5/vote",
		map[string]string{"action": "abstain"}, 42)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.verification.AssertNotCalled(t, "SubmitVote",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleRequestToJoin(t *testing.T) {
	f := newRouterFixture(t)

	f.verification.On("RequestToJoin", mock.Anything, int32(42), int32(3), "new in town").
		Return(&domain.VerificationRequest{ID: 9, UserID: 42, ChurchID: 3,
			Status: domain.VerificationRequestStatusPending}, nil)

	req := f.authedRequest(t, "POST", "/api/v1/churches/3/join",
		map[string]string{"note": "new in town"}, 42)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var created domain.VerificationRequest
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int32(9), created.ID)
}

func TestHandleAssignedRequests_EmptySliceNotNull(t *testing.T) {
	f := newRouterFixture(t)

	f.verification.On("AssignedRequests", mock.Anything, int32(42)).
		Return([]domain.VerificationRequest{}, nil)

	req := f.authedRequest(t, "GET", "/api/v1/verification/requests", nil, 42)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestHandleMembershipStatus(t *testing.T) {
	f := newRouterFixture(t)

	churchID := int32(3)
	f.verification.On("MembershipStatus", mock.Anything, int32(7)).
		Return(&domain.User{
			ID:               7,
			MembershipStatus: domain.MembershipStatusVerified,
			ChurchID:         &churchID,
			AccountActive:    true,
		}, nil)

	req := f.authedRequest(t, "GET", "/api/v1/users/7/membership", nil, 42)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "VERIFIED", resp["membership_status"])
	assert.Equal(t, float64(3), resp["church_id"])
}

func TestOperationalAuth(t *testing.T) {
	t.Run("RejectsMissingToken", func(t *testing.T) {
		f := newRouterFixture(t)

		req := httptest.NewRequest("POST", "/api/v1/admin/enforcement/run", nil)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		f.enforcement.AssertNotCalled(t, "RunCycle", mock.Anything)
	})

	t.Run("RunsCycleWithValidToken", func(t *testing.T) {
		f := newRouterFixture(t)
		f.enforcement.On("RunCycle", mock.Anything).
			Return(&domain.EnforcementSummary{RunID: "run-1", AccountsDisabled: 2, Errors: []string{}}, nil)

		req := httptest.NewRequest("POST", "/api/v1/admin/enforcement/run", nil)
		req.Header.Set("X-Operational-Token", testOperationalToken)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var summary domain.EnforcementSummary
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		assert.Equal(t, 2, summary.AccountsDisabled)
	})
}

func TestAdminEndpoints(t *testing.T) {
	t.Run("SetExemption", func(t *testing.T) {
		f := newRouterFixture(t)
		f.admin.On("SetEnforcementExempt", mock.Anything, int32(7), true).Return(nil)

		var buf bytes.Buffer
		assert.NoError(t, json.NewEncoder(&buf).Encode(map[string]bool{"exempt": true}))
		req := httptest.NewRequest("POST", "/api/v1/admin/users/7/exemption", &buf)
		req.Header.Set("X-Operational-Token", testOperationalToken)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		f.admin.AssertExpectations(t)
	})

	t.Run("Reactivate", func(t *testing.T) {
		f := newRouterFixture(t)
		f.admin.On("ReactivateAccount", mock.Anything, int32(7)).Return(nil)

		req := httptest.NewRequest("POST", "/api/v1/admin/users/7/reactivate", nil)
		req.Header.Set("X-Operational-Token", testOperationalToken)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("UpdateQuorum", func(t *testing.T) {
		f := newRouterFixture(t)
		f.admin.On("UpdateMinVerifications", mock.Anything, int32(3), int32(5)).Return(nil)

		var buf bytes.Buffer
		assert.NoError(t, json.NewEncoder(&buf).Encode(map[string]int32{"min_verifications": 5}))
		req := httptest.NewRequest("POST", "/api/v1/admin/churches/3/quorum", &buf)
		req.Header.Set("X-Operational-Token", testOperationalToken)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestHealthz(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
