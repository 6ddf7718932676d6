package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tropicaldog17/engage/internal/db"
	apperrors "github.com/tropicaldog17/engage/internal/errors"
	"github.com/tropicaldog17/engage/internal/models"
)

type ledgerRepository struct {
	db *db.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(database *db.DB) LedgerRepository {
	return &ledgerRepository{db: database}
}

func (r *ledgerRepository) Transaction(ctx context.Context, fn func(repo LedgerRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerRepository{db: &db.DB{DB: tx}})
	})
}

// forUpdate locks the selected rows on postgres. The sqlite dialect drops the
// clause; its single connection already serializes transactions.
func (r *ledgerRepository) forUpdate(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
}

func (r *ledgerRepository) LockPost(ctx context.Context, postID string) (*models.Post, error) {
	var p models.Post
	if err := r.forUpdate(ctx).First(&p, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.ErrNotFound{Entity: "post", ID: postID}
		}
		return nil, fmt.Errorf("failed to lock post: %w", err)
	}
	return &p, nil
}

// GetVote returns nil when the user has no stored vote on the post.
func (r *ledgerRepository) GetVote(ctx context.Context, userID, postID string) (*models.VoteRecord, error) {
	var v models.VoteRecord
	err := r.db.WithContext(ctx).First(&v, "user_id = ? AND post_id = ?", userID, postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}
	return &v, nil
}

func (r *ledgerRepository) UpsertVote(ctx context.Context, v *models.VoteRecord) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(v).Error
	if err != nil {
		return fmt.Errorf("failed to upsert vote: %w", err)
	}
	return nil
}

func (r *ledgerRepository) DeleteVote(ctx context.Context, userID, postID string) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.VoteRecord{}).Error; err != nil {
		return fmt.Errorf("failed to delete vote: %w", err)
	}
	return nil
}

func (r *ledgerRepository) AddPostScore(ctx context.Context, postID string, delta int64) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("vote_score", gorm.Expr("vote_score + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("failed to update post score: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &apperrors.ErrNotFound{Entity: "post", ID: postID}
	}
	return nil
}

func (r *ledgerRepository) SumVotes(ctx context.Context, postID string) (int64, error) {
	var sum int64
	if err := r.db.WithContext(ctx).Model(&models.VoteRecord{}).
		Select("COALESCE(SUM(value), 0)").
		Where("post_id = ?", postID).
		Scan(&sum).Error; err != nil {
		return 0, fmt.Errorf("failed to sum votes: %w", err)
	}
	return sum, nil
}

// GetBalance returns zero for users that never held coins.
func (r *ledgerRepository) GetBalance(ctx context.Context, userID string) (int64, error) {
	var b models.CoinBalance
	err := r.db.WithContext(ctx).First(&b, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return b.Balance, nil
}

// LockBalance creates the balance row at zero if needed and locks it.
func (r *ledgerRepository) LockBalance(ctx context.Context, userID string) (*models.CoinBalance, error) {
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.CoinBalance{UserID: userID}).Error; err != nil {
		return nil, fmt.Errorf("failed to create balance: %w", err)
	}

	var b models.CoinBalance
	if err := r.forUpdate(ctx).First(&b, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to lock balance: %w", err)
	}
	return &b, nil
}

// AddBalance applies delta only if the result stays non-negative and returns
// the new balance.
func (r *ledgerRepository) AddBalance(ctx context.Context, userID string, delta int64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.CoinBalance{}).
		Where("user_id = ? AND balance + ? >= 0", userID, delta).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance + ?", delta),
			"updated_at": r.db.NowFunc(),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update balance: %w", res.Error)
	}

	current, err := r.GetBalance(ctx, userID)
	if err != nil {
		return 0, err
	}
	if res.RowsAffected == 0 {
		return current, &apperrors.ErrInsufficientBalance{UserID: userID, Attempted: -delta, Available: current}
	}
	return current, nil
}

func (r *ledgerRepository) InsertEntry(ctx context.Context, e *models.LedgerEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return nil
}

func (r *ledgerRepository) MarkProcessed(ctx context.Context, eventID, kind string) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ProcessedEvent{EventID: eventID, Kind: kind})
	if res.Error != nil {
		return false, fmt.Errorf("failed to record processed event: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *ledgerRepository) LockParticipation(ctx context.Context, id string) (*models.ChallengeParticipation, error) {
	var p models.ChallengeParticipation
	if err := r.forUpdate(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.ErrNotFound{Entity: "challenge participation", ID: id}
		}
		return nil, fmt.Errorf("failed to lock participation: %w", err)
	}
	return &p, nil
}

func (r *ledgerRepository) ApproveParticipation(ctx context.Context, id string, reward int64, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.ChallengeParticipation{}).
		Where("id = ? AND status = ?", id, models.ParticipationPending).
		Updates(map[string]interface{}{
			"status":       models.ParticipationApproved,
			"reward_coins": reward,
			"approved_at":  at.UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to approve participation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrInvalidTransition
	}
	return nil
}

func (r *ledgerRepository) LockPrize(ctx context.Context, id string) (*models.Prize, error) {
	var p models.Prize
	if err := r.forUpdate(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.ErrNotFound{Entity: "prize", ID: id}
		}
		return nil, fmt.Errorf("failed to lock prize: %w", err)
	}
	return &p, nil
}

func (r *ledgerRepository) DecrementStock(ctx context.Context, prizeID string) error {
	res := r.db.WithContext(ctx).Model(&models.Prize{}).
		Where("id = ? AND stock > 0", prizeID).
		UpdateColumn("stock", gorm.Expr("stock - 1"))
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &apperrors.ErrOutOfStock{PrizeID: prizeID}
	}
	return nil
}

func (r *ledgerRepository) CreateRedemption(ctx context.Context, red *models.Redemption) error {
	if err := r.db.WithContext(ctx).Create(red).Error; err != nil {
		return fmt.Errorf("failed to create redemption: %w", err)
	}
	return nil
}
