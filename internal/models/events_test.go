package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tropicaldog17/engage/internal/errors"
)

func TestVoteRequestValidate(t *testing.T) {
	for _, v := range []int{-1, 0, 1} {
		require.NoError(t, VoteRequest{UserID: "u1", PostID: "p1", Value: v}.Validate())
	}

	err := VoteRequest{UserID: "u1", PostID: "p1", Value: 2}.Validate()
	var verr *apperrors.ErrValidation
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "value", verr.Field)

	err = VoteRequest{PostID: "p1", Value: 1}.Validate()
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "user_id", verr.Field)
	assert.Equal(t, "is required", verr.Message)
}

func TestContentEventValidate(t *testing.T) {
	require.NoError(t, ContentEvent{AuthorID: "u1", ContentID: "p1"}.Validate())

	long := strings.Repeat("x", 65)
	err := ContentEvent{AuthorID: "u1", ContentID: "c1", ParentID: &long}.Validate()
	require.Error(t, err)

	require.Error(t, ContentEvent{ContentID: "p1"}.Validate())
}

func TestContentEventIsComment(t *testing.T) {
	post := "p1"
	assert.False(t, ContentEvent{AuthorID: "u1", ContentID: "p1"}.IsComment())
	assert.True(t, ContentEvent{AuthorID: "u1", ContentID: "c1", ParentID: &post}.IsComment())
}

func TestBalanceDeltaValidate(t *testing.T) {
	require.NoError(t, BalanceDelta{UserID: "u1", Delta: -5, Reason: "prize_redemption"}.Validate())
	require.Error(t, BalanceDelta{UserID: "u1", Delta: 0, Reason: "noop"}.Validate())
	require.Error(t, ApproveChallengeParticipation{ParticipationID: "p1", RewardCoins: 0}.Validate())
	require.Error(t, ResetBalance{UserID: "u1", Target: -1, OperatorRef: "ops"}.Validate())
}

func TestActionStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusProcessing.IsTerminal())
	assert.True(t, StatusSent.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
}
