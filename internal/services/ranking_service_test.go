package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tropicaldog17/engage/internal/db/dbtest"
	"github.com/tropicaldog17/engage/internal/models"
	"github.com/tropicaldog17/engage/internal/repositories"
)

func TestRankBalances_OrderAndTieBreak(t *testing.T) {
	early := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := RankBalances([]*models.BalanceRow{
		{UserID: "late", Balance: 50, AccountCreatedAt: &late},
		{UserID: "unknown", Balance: 50},
		{UserID: "early", Balance: 50, AccountCreatedAt: &early},
		{UserID: "rich", Balance: 100, AccountCreatedAt: &late},
		{UserID: "broke", Balance: 0, AccountCreatedAt: &early},
	}, fixedNow)

	var order []string
	for _, r := range rows {
		order = append(order, r.UserID)
	}
	assert.Equal(t, []string{"rich", "early", "late", "unknown", "broke"}, order)
	for i, r := range rows {
		assert.Equal(t, i+1, r.Rank)
		assert.Equal(t, fixedNow, r.SnapshotAt)
	}
	assert.True(t, decimal.RequireFromString("40").Equal(rows[0].SharePercent))
	assert.True(t, decimal.RequireFromString("20").Equal(rows[1].SharePercent))
	assert.True(t, rows[4].SharePercent.IsZero())
}

func TestRankBalances_RoundsShare(t *testing.T) {
	rows := RankBalances([]*models.BalanceRow{
		{UserID: "a", Balance: 1},
		{UserID: "b", Balance: 1},
		{UserID: "c", Balance: 1},
	}, fixedNow)
	assert.Equal(t, "33.33", rows[0].SharePercent.StringFixed(2))
}

func TestRankBalances_Empty(t *testing.T) {
	assert.Empty(t, RankBalances(nil, fixedNow))
}

func TestRankingService_RefreshAndRead(t *testing.T) {
	database := dbtest.New(t)
	ctx := context.Background()
	ledger := NewLedgerService(repositories.NewLedgerRepository(database), nil)
	for user, coins := range map[string]int64{"u1": 10, "u2": 30} {
		_, err := ledger.ApplyBalanceDelta(ctx, &models.BalanceDelta{UserID: user, Delta: coins, Reason: models.ReasonChallengeReward})
		require.NoError(t, err)
	}

	svc := NewRankingService(repositories.NewRankingRepository(database), nil)
	n, err := svc.RefreshSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	board, err := svc.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "u2", board[0].UserID)
	assert.Equal(t, 1, board[0].Rank)

	// The snapshot is a cache: live balance changes show up on the next refresh.
	_, err = ledger.ApplyBalanceDelta(ctx, &models.BalanceDelta{UserID: "u1", Delta: 50, Reason: models.ReasonChallengeReward})
	require.NoError(t, err)
	board, err = svc.Leaderboard(ctx, 1)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, "u2", board[0].UserID)

	_, err = svc.RefreshSnapshot(ctx)
	require.NoError(t, err)
	board, err = svc.Leaderboard(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "u1", board[0].UserID)
}
