package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/tropicaldog17/engage/internal/db"
	"github.com/tropicaldog17/engage/internal/models"
)

type rankingRepository struct {
	db *db.DB
}

// NewRankingRepository creates a new ranking repository
func NewRankingRepository(database *db.DB) RankingRepository {
	return &rankingRepository{db: database}
}

// ListBalances returns every stored balance with the owner's account creation
// time, which is nil for balances without a user row.
func (r *rankingRepository) ListBalances(ctx context.Context) ([]*models.BalanceRow, error) {
	var rows []*models.BalanceRow
	if err := r.db.WithContext(ctx).
		Table("coin_balances AS b").
		Select("b.user_id AS user_id, b.balance AS balance, u.created_at AS account_created_at").
		Joins("LEFT JOIN users u ON u.id = b.user_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	return rows, nil
}

// ReplaceSnapshot swaps the whole leaderboard in one transaction so readers
// never see a partial ranking.
func (r *rankingRepository) ReplaceSnapshot(ctx context.Context, rows []*models.RankingSnapshot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.RankingSnapshot{}).Error; err != nil {
			return fmt.Errorf("failed to clear snapshot: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, 100).Error; err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
		return nil
	})
}

func (r *rankingRepository) ListSnapshot(ctx context.Context, limit int) ([]*models.RankingSnapshot, error) {
	var list []*models.RankingSnapshot
	q := r.db.WithContext(ctx).Order("rank ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list snapshot: %w", err)
	}
	return list, nil
}
