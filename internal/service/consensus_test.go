package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/PatrickVM/in-house-open-sub001/internal/domain"
	"github.com/PatrickVM/in-house-open-sub001/internal/service"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func verifiedMember(churchID int32, verifiedAt time.Time) *domain.User {
	return &domain.User{
		ID:               7,
		MembershipStatus: domain.MembershipStatusVerified,
		ChurchID:         &churchID,
		VerifiedAt:       &verifiedAt,
		AccountActive:    true,
	}
}

func TestIsEligibleVoter_Boundary(t *testing.T) {
	eval := service.NewConsensusEvaluator(new(MockVoteRepo), 7, fixedClock)

	t.Run("ExactlySevenDays", func(t *testing.T) {
		u := verifiedMember(1, testNow.Add(-7*24*time.Hour))
		assert.True(t, eval.IsEligibleVoter(u, 1))
	})

	t.Run("OneHourShort", func(t *testing.T) {
		u := verifiedMember(1, testNow.Add(-7*24*time.Hour+time.Hour))
		assert.False(t, eval.IsEligibleVoter(u, 1))
	})

	t.Run("WellPast", func(t *testing.T) {
		u := verifiedMember(1, testNow.Add(-30*24*time.Hour))
		assert.True(t, eval.IsEligibleVoter(u, 1))
	})
}

func TestIsEligibleVoter_Membership(t *testing.T) {
	eval := service.NewConsensusEvaluator(new(MockVoteRepo), 7, fixedClock)
	old := testNow.Add(-30 * 24 * time.Hour)

	t.Run("WrongChurch", func(t *testing.T) {
		u := verifiedMember(2, old)
		assert.False(t, eval.IsEligibleVoter(u, 1))
	})

	t.Run("NotVerified", func(t *testing.T) {
		churchID := int32(1)
		u := &domain.User{MembershipStatus: domain.MembershipStatusRequested, ChurchID: &churchID}
		assert.False(t, eval.IsEligibleVoter(u, 1))
	})

	t.Run("NilUser", func(t *testing.T) {
		assert.False(t, eval.IsEligibleVoter(nil, 1))
	})
}

func TestHasQuorum(t *testing.T) {
	ctx := context.Background()
	church := &domain.Church{ID: 1, MinVerificationsRequired: 3}

	t.Run("BelowThreshold", func(t *testing.T) {
		voteRepo := new(MockVoteRepo)
		voteRepo.On("CountByAction", ctx, int32(10), domain.VoteActionApproved).Return(int32(2), nil)
		eval := service.NewConsensusEvaluator(voteRepo, 7, fixedClock)

		count, reached, err := eval.HasQuorum(ctx, 10, church)
		assert.NoError(t, err)
		assert.Equal(t, int32(2), count)
		assert.False(t, reached)
	})

	t.Run("AtThreshold", func(t *testing.T) {
		voteRepo := new(MockVoteRepo)
		voteRepo.On("CountByAction", ctx, int32(10), domain.VoteActionApproved).Return(int32(3), nil)
		eval := service.NewConsensusEvaluator(voteRepo, 7, fixedClock)

		count, reached, err := eval.HasQuorum(ctx, 10, church)
		assert.NoError(t, err)
		assert.Equal(t, int32(3), count)
		assert.True(t, reached)
	})
}

func TestEligibilityCutoff(t *testing.T) {
	eval := service.NewConsensusEvaluator(new(MockVoteRepo), 7, fixedClock)
	assert.Equal(t, testNow.Add(-7*24*time.Hour), eval.EligibilityCutoff())
}
