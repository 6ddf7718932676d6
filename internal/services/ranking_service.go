package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tropicaldog17/engage/internal/logger"
	"github.com/tropicaldog17/engage/internal/models"
	"github.com/tropicaldog17/engage/internal/repositories"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

type rankingService struct {
	repo   repositories.RankingRepository
	logger *zap.Logger
	clock  func() time.Time
}

func NewRankingService(repo repositories.RankingRepository, log *zap.Logger) RankingService {
	return &rankingService{repo: repo, logger: logger.OrNop(log), clock: time.Now}
}

// RefreshSnapshot recomputes the leaderboard from live balances and replaces
// the snapshot. It only reads the ledger.
func (s *rankingService) RefreshSnapshot(ctx context.Context) (int, error) {
	started := s.clock()
	balances, err := s.repo.ListBalances(ctx)
	if err != nil {
		s.logger.Error("Ranking snapshot failed", zap.Error(err))
		return 0, err
	}

	rows := RankBalances(balances, started.UTC())
	if err := s.repo.ReplaceSnapshot(ctx, rows); err != nil {
		s.logger.Error("Ranking snapshot failed", zap.Error(err))
		return 0, err
	}
	s.logger.Info("Ranking snapshot refreshed",
		zap.Int("rows", len(rows)),
		zap.Duration("elapsed", s.clock().Sub(started)))
	return len(rows), nil
}

func (s *rankingService) Leaderboard(ctx context.Context, limit int) ([]*models.RankingSnapshot, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}
	rows, err := s.repo.ListSnapshot(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	return rows, nil
}

// RankBalances orders balances descending. Ties go to the earliest account,
// accounts without a creation time after those with one, then user id.
// SharePercent is the user's share of all coins, rounded to two places.
func RankBalances(balances []*models.BalanceRow, at time.Time) []*models.RankingSnapshot {
	sorted := make([]*models.BalanceRow, len(balances))
	copy(sorted, balances)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Balance != b.Balance {
			return a.Balance > b.Balance
		}
		switch {
		case a.AccountCreatedAt != nil && b.AccountCreatedAt != nil:
			if !a.AccountCreatedAt.Equal(*b.AccountCreatedAt) {
				return a.AccountCreatedAt.Before(*b.AccountCreatedAt)
			}
		case a.AccountCreatedAt != nil:
			return true
		case b.AccountCreatedAt != nil:
			return false
		}
		return a.UserID < b.UserID
	})

	var total int64
	for _, b := range sorted {
		total += b.Balance
	}
	hundred := decimal.NewFromInt(100)

	rows := make([]*models.RankingSnapshot, 0, len(sorted))
	for i, b := range sorted {
		share := decimal.Zero
		if total > 0 {
			share = decimal.NewFromInt(b.Balance).Mul(hundred).Div(decimal.NewFromInt(total)).Round(2)
		}
		rows = append(rows, &models.RankingSnapshot{
			UserID:           b.UserID,
			Rank:             i + 1,
			Balance:          b.Balance,
			SharePercent:     share,
			AccountCreatedAt: b.AccountCreatedAt,
			SnapshotAt:       at,
		})
	}
	return rows
}
