package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tropicaldog17/engage/internal/db"
	apperrors "github.com/tropicaldog17/engage/internal/errors"
	"github.com/tropicaldog17/engage/internal/models"
)

var openStatuses = []models.ActionStatus{models.StatusPending, models.StatusProcessing}

type scheduledActionRepository struct {
	db *db.DB
}

// NewScheduledActionRepository creates a new scheduled action repository
func NewScheduledActionRepository(database *db.DB) ScheduledActionRepository {
	return &scheduledActionRepository{db: database}
}

func (r *scheduledActionRepository) WithTx(tx *gorm.DB) ScheduledActionRepository {
	return &scheduledActionRepository{db: &db.DB{DB: tx}}
}

func (r *scheduledActionRepository) Enqueue(ctx context.Context, a *models.ScheduledAction) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.Status = models.StatusPending
	a.ScheduledFor = a.ScheduledFor.UTC()

	var open int64
	if err := r.db.WithContext(ctx).Model(&models.ScheduledAction{}).
		Where("actor_id = ? AND kind = ? AND target_type = ? AND target_id = ? AND status IN ?",
			a.ActorID, a.Kind, a.TargetType, a.TargetID, openStatuses).
		Count(&open).Error; err != nil {
		return fmt.Errorf("failed to check open actions: %w", err)
	}
	if open > 0 {
		return apperrors.ErrDuplicateAction
	}

	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		// The partial unique index catches a concurrent enqueue that passed the check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrDuplicateAction
		}
		return fmt.Errorf("failed to enqueue action: %w", err)
	}
	return nil
}

// ClaimDue moves up to limit due pending actions to processing. Each row is
// claimed with a conditional update, so concurrent workers never claim the
// same action twice.
func (r *scheduledActionRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*models.ScheduledAction, error) {
	now = now.UTC()
	var due []*models.ScheduledAction
	q := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_for <= ?", models.StatusPending, now).
		Order("scheduled_for ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&due).Error; err != nil {
		return nil, fmt.Errorf("failed to list due actions: %w", err)
	}

	claimed := make([]*models.ScheduledAction, 0, len(due))
	for _, a := range due {
		token := uuid.NewString()
		res := r.db.WithContext(ctx).Model(&models.ScheduledAction{}).
			Where("id = ? AND status = ?", a.ID, models.StatusPending).
			Updates(map[string]interface{}{
				"status":      models.StatusProcessing,
				"claim_token": token,
				"claimed_at":  now,
				"updated_at":  now,
			})
		if res.Error != nil {
			return claimed, fmt.Errorf("failed to claim action %s: %w", a.ID, res.Error)
		}
		if res.RowsAffected != 1 {
			continue
		}
		a.Status = models.StatusProcessing
		a.ClaimToken = &token
		a.ClaimedAt = &now
		claimed = append(claimed, a)
	}
	return claimed, nil
}

func (r *scheduledActionRepository) MarkSent(ctx context.Context, id string, update models.SentUpdate) error {
	at := update.At.UTC()
	values := map[string]interface{}{
		"status":         models.StatusSent,
		"sent_at":        at,
		"failure_reason": nil,
		"updated_at":     at,
	}
	if update.Payload != nil {
		values["payload"] = *update.Payload
	}
	if update.PromptContext != nil {
		values["prompt_context"] = *update.PromptContext
	}
	if update.GeneratedText != nil {
		values["generated_text"] = *update.GeneratedText
	}
	return r.transition(ctx, id, openStatuses, models.StatusSent, values)
}

func (r *scheduledActionRepository) MarkFailed(ctx context.Context, id, reason string, at time.Time) error {
	return r.transition(ctx, id, openStatuses, models.StatusFailed, map[string]interface{}{
		"status":         models.StatusFailed,
		"failure_reason": reason,
		"updated_at":     at.UTC(),
	})
}

func (r *scheduledActionRepository) Cancel(ctx context.Context, id string, at time.Time) error {
	return r.transition(ctx, id, []models.ActionStatus{models.StatusPending}, models.StatusCancelled, map[string]interface{}{
		"status":     models.StatusCancelled,
		"updated_at": at.UTC(),
	})
}

// transition applies values only while the row is in one of the from states.
// Terminal rows are never rewritten.
func (r *scheduledActionRepository) transition(ctx context.Context, id string, from []models.ActionStatus, to models.ActionStatus, values map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.ScheduledAction{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(values)
	if res.Error != nil {
		return fmt.Errorf("failed to mark action %s %s: %w", id, to, res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return &apperrors.ErrInvalidStateTransition{ID: id, From: string(current.Status), To: string(to)}
}

func (r *scheduledActionRepository) CancelForTarget(ctx context.Context, targetType models.TargetType, targetID string, at time.Time) (int, error) {
	res := r.db.WithContext(ctx).Model(&models.ScheduledAction{}).
		Where("target_type = ? AND target_id = ? AND status = ?", targetType, targetID, models.StatusPending).
		Updates(map[string]interface{}{
			"status":     models.StatusCancelled,
			"updated_at": at.UTC(),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to cancel actions for %s %s: %w", targetType, targetID, res.Error)
	}
	return int(res.RowsAffected), nil
}

// Reenqueue schedules a fresh pending copy of a failed or cancelled action.
// The original row keeps its terminal state.
func (r *scheduledActionRepository) Reenqueue(ctx context.Context, id string, at time.Time) (*models.ScheduledAction, error) {
	original, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if original.Status != models.StatusFailed && original.Status != models.StatusCancelled {
		return nil, &apperrors.ErrInvalidStateTransition{ID: id, From: string(original.Status), To: string(models.StatusPending)}
	}

	copied := &models.ScheduledAction{
		Kind:           original.Kind,
		TargetType:     original.TargetType,
		TargetID:       original.TargetID,
		ActorID:        original.ActorID,
		PromptContext:  original.PromptContext,
		ScheduledFor:   at,
		ReenqueuedFrom: &original.ID,
	}
	if err := r.Enqueue(ctx, copied); err != nil {
		return nil, err
	}
	return copied, nil
}

// FailStale fails in-flight actions whose claim is older than claimedBefore.
// A worker that crashed mid-action leaves them behind.
func (r *scheduledActionRepository) FailStale(ctx context.Context, claimedBefore, at time.Time) (int, error) {
	res := r.db.WithContext(ctx).Model(&models.ScheduledAction{}).
		Where("status = ? AND claimed_at < ?", models.StatusProcessing, claimedBefore.UTC()).
		Updates(map[string]interface{}{
			"status":         models.StatusFailed,
			"failure_reason": models.ReasonWorkerAbandoned,
			"updated_at":     at.UTC(),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to fail stale actions: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

func (r *scheduledActionRepository) GetByID(ctx context.Context, id string) (*models.ScheduledAction, error) {
	var a models.ScheduledAction
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.ErrNotFound{Entity: "scheduled action", ID: id}
		}
		return nil, fmt.Errorf("failed to get action: %w", err)
	}
	return &a, nil
}

func (r *scheduledActionRepository) List(ctx context.Context, filter *models.ActionFilter) ([]*models.ScheduledAction, error) {
	var list []*models.ScheduledAction
	q := r.db.WithContext(ctx).Model(&models.ScheduledAction{})
	if filter != nil {
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.ActorID != "" {
			q = q.Where("actor_id = ?", filter.ActorID)
		}
		if filter.TargetID != "" {
			q = q.Where("target_id = ?", filter.TargetID)
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	return list, nil
}
