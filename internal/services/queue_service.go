package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/tropicaldog17/engage/internal/errors"
	"github.com/tropicaldog17/engage/internal/logger"
	"github.com/tropicaldog17/engage/internal/models"
	"github.com/tropicaldog17/engage/internal/repositories"
)

type queueService struct {
	repo   repositories.ScheduledActionRepository
	logger *zap.Logger
	clock  func() time.Time
}

func NewQueueService(repo repositories.ScheduledActionRepository, log *zap.Logger) QueueService {
	return &queueService{repo: repo, logger: logger.OrNop(log), clock: time.Now}
}

func (s *queueService) Enqueue(ctx context.Context, action *models.ScheduledAction) error {
	if err := validateAction(action); err != nil {
		return err
	}
	return s.repo.Enqueue(ctx, action)
}

func validateAction(a *models.ScheduledAction) error {
	if a == nil {
		return &apperrors.ErrValidation{Field: "action", Message: "is required"}
	}
	switch a.Kind {
	case models.ActionLike, models.ActionComment, models.ActionReply:
	default:
		return &apperrors.ErrValidation{Field: "kind", Message: "must be one of like comment reply"}
	}
	switch a.TargetType {
	case models.TargetPost, models.TargetComment:
	default:
		return &apperrors.ErrValidation{Field: "target_type", Message: "must be one of post comment"}
	}
	if a.TargetID == "" {
		return &apperrors.ErrValidation{Field: "target_id", Message: "is required"}
	}
	if a.ActorID == "" {
		return &apperrors.ErrValidation{Field: "actor_id", Message: "is required"}
	}
	if a.ScheduledFor.IsZero() {
		return &apperrors.ErrValidation{Field: "scheduled_for", Message: "is required"}
	}
	return nil
}

func (s *queueService) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*models.ScheduledAction, error) {
	return s.repo.ClaimDue(ctx, now, limit)
}

func (s *queueService) MarkSent(ctx context.Context, id string, update models.SentUpdate) error {
	if update.At.IsZero() {
		update.At = s.clock()
	}
	return s.repo.MarkSent(ctx, id, update)
}

func (s *queueService) MarkFailed(ctx context.Context, id, reason string) error {
	return s.repo.MarkFailed(ctx, id, reason, s.clock())
}

func (s *queueService) Cancel(ctx context.Context, id string) error {
	if err := s.repo.Cancel(ctx, id, s.clock()); err != nil {
		return err
	}
	s.logger.Info("Action cancelled", zap.String("action_id", id))
	return nil
}

// CancelForTarget cancels every pending action aimed at a target that no
// longer exists. In-flight actions run to completion.
func (s *queueService) CancelForTarget(ctx context.Context, targetType models.TargetType, targetID string) (int, error) {
	n, err := s.repo.CancelForTarget(ctx, targetType, targetID, s.clock())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("Actions cancelled for target",
			zap.String("target_type", string(targetType)),
			zap.String("target_id", targetID),
			zap.Int("count", n))
	}
	return n, nil
}

// Reenqueue is the operator's manual retry. A zero at schedules immediately.
func (s *queueService) Reenqueue(ctx context.Context, id string, at time.Time) (*models.ScheduledAction, error) {
	if at.IsZero() {
		at = s.clock()
	}
	action, err := s.repo.Reenqueue(ctx, id, at)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Action re-enqueued",
		zap.String("action_id", action.ID),
		zap.String("reenqueued_from", id))
	return action, nil
}

func (s *queueService) Get(ctx context.Context, id string) (*models.ScheduledAction, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *queueService) List(ctx context.Context, filter *models.ActionFilter) ([]*models.ScheduledAction, error) {
	return s.repo.List(ctx, filter)
}
