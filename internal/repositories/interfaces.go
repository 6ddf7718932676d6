package repositories

import (
	"context"
	"time"

	"github.com/tropicaldog17/engage/internal/models"
	"gorm.io/gorm"
)

// ScheduledActionRepository persists the automated action queue. Only the
// queue service and the worker call it.
type ScheduledActionRepository interface {
	Enqueue(ctx context.Context, a *models.ScheduledAction) error
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*models.ScheduledAction, error)
	MarkSent(ctx context.Context, id string, update models.SentUpdate) error
	MarkFailed(ctx context.Context, id, reason string, at time.Time) error
	Cancel(ctx context.Context, id string, at time.Time) error
	CancelForTarget(ctx context.Context, targetType models.TargetType, targetID string, at time.Time) (int, error)
	Reenqueue(ctx context.Context, id string, at time.Time) (*models.ScheduledAction, error)
	FailStale(ctx context.Context, claimedBefore, at time.Time) (int, error)
	GetByID(ctx context.Context, id string) (*models.ScheduledAction, error)
	List(ctx context.Context, filter *models.ActionFilter) ([]*models.ScheduledAction, error)
	WithTx(tx *gorm.DB) ScheduledActionRepository
}

// ContentRepository reads target content and writes the automated account's
// likes and comments.
type ContentRepository interface {
	GetPost(ctx context.Context, id string) (*models.Post, error)
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	CreateComment(ctx context.Context, c *models.Comment) error
	// CreateLike inserts the like unless it already exists and returns the stored row.
	CreateLike(ctx context.Context, l *models.Like) (*models.Like, error)
	WithTx(tx *gorm.DB) ContentRepository
}

// LedgerRepository is the Ledger Store: votes, scores, balances and the
// idempotency markers guarding them. Mutating methods are meant to run inside
// Transaction.
type LedgerRepository interface {
	Transaction(ctx context.Context, fn func(repo LedgerRepository) error) error

	LockPost(ctx context.Context, postID string) (*models.Post, error)
	GetVote(ctx context.Context, userID, postID string) (*models.VoteRecord, error)
	UpsertVote(ctx context.Context, v *models.VoteRecord) error
	DeleteVote(ctx context.Context, userID, postID string) error
	AddPostScore(ctx context.Context, postID string, delta int64) error
	SumVotes(ctx context.Context, postID string) (int64, error)

	GetBalance(ctx context.Context, userID string) (int64, error)
	LockBalance(ctx context.Context, userID string) (*models.CoinBalance, error)
	AddBalance(ctx context.Context, userID string, delta int64) (int64, error)
	InsertEntry(ctx context.Context, e *models.LedgerEntry) error
	// MarkProcessed records eventID and reports whether it was new.
	MarkProcessed(ctx context.Context, eventID, kind string) (bool, error)

	LockParticipation(ctx context.Context, id string) (*models.ChallengeParticipation, error)
	ApproveParticipation(ctx context.Context, id string, reward int64, at time.Time) error
	LockPrize(ctx context.Context, id string) (*models.Prize, error)
	DecrementStock(ctx context.Context, prizeID string) error
	CreateRedemption(ctx context.Context, r *models.Redemption) error
}

// RankingRepository reads balances and replaces the leaderboard snapshot.
type RankingRepository interface {
	ListBalances(ctx context.Context) ([]*models.BalanceRow, error)
	ReplaceSnapshot(ctx context.Context, rows []*models.RankingSnapshot) error
	ListSnapshot(ctx context.Context, limit int) ([]*models.RankingSnapshot, error)
}
