package services

import (
	"context"
	"time"

	"github.com/tropicaldog17/engage/internal/models"
)

// DecisionEngine turns content events into scheduled automated actions.
type DecisionEngine interface {
	HandleContentEvent(ctx context.Context, event *models.ContentEvent) ([]*models.ScheduledAction, error)
}

// QueueService is the Scheduled Action Queue as seen by everything except the worker.
type QueueService interface {
	Enqueue(ctx context.Context, action *models.ScheduledAction) error
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*models.ScheduledAction, error)
	MarkSent(ctx context.Context, id string, update models.SentUpdate) error
	MarkFailed(ctx context.Context, id, reason string) error
	Cancel(ctx context.Context, id string) error
	CancelForTarget(ctx context.Context, targetType models.TargetType, targetID string) (int, error)
	Reenqueue(ctx context.Context, id string, at time.Time) (*models.ScheduledAction, error)
	Get(ctx context.Context, id string) (*models.ScheduledAction, error)
	List(ctx context.Context, filter *models.ActionFilter) ([]*models.ScheduledAction, error)
}

// ActionWorker drains due scheduled actions.
type ActionWorker interface {
	Drain(ctx context.Context) (*DrainReport, error)
}

// TextGenerator is the external text-generation capability.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ResponseGenerator produces checked text for automated comments and replies.
// Failures are always *apperrors.GenerationError.
type ResponseGenerator interface {
	Generate(ctx context.Context, pc *models.PromptContext) (string, error)
}

// LedgerService is the Engagement Ledger Applier, the sole writer of coin
// balances and post vote scores.
type LedgerService interface {
	ApplyVote(ctx context.Context, req *models.VoteRequest) (*models.VoteResult, error)
	ApplyBalanceDelta(ctx context.Context, delta *models.BalanceDelta) (*models.BalanceResult, error)
	ApproveChallengeParticipation(ctx context.Context, cmd *models.ApproveChallengeParticipation) (*models.BalanceResult, error)
	RedeemPrize(ctx context.Context, cmd *models.RedeemPrize) (*models.BalanceResult, error)
	ResetBalance(ctx context.Context, cmd *models.ResetBalance) (*models.BalanceResult, error)
	Balance(ctx context.Context, userID string) (*models.BalanceResult, error)
}

// RankingService maintains the leaderboard snapshot.
type RankingService interface {
	RefreshSnapshot(ctx context.Context) (int, error)
	Leaderboard(ctx context.Context, limit int) ([]*models.RankingSnapshot, error)
}
