package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tropicaldog17/engage/internal/db"
	apperrors "github.com/tropicaldog17/engage/internal/errors"
	"github.com/tropicaldog17/engage/internal/logger"
	"github.com/tropicaldog17/engage/internal/models"
	"github.com/tropicaldog17/engage/internal/repositories"
)

const reasonUnsupportedKind = "UnsupportedKind"

// DrainReport summarizes one drain pass.
type DrainReport struct {
	Abandoned int `json:"abandoned"`
	Claimed   int `json:"claimed"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
	Errors    int `json:"errors"`
}

// WorkerOptions tunes a drain pass.
type WorkerOptions struct {
	BatchSize  int
	StaleAfter time.Duration
}

type actionWorker struct {
	db        *db.DB
	actions   repositories.ScheduledActionRepository
	content   repositories.ContentRepository
	generator ResponseGenerator
	opts      WorkerOptions
	logger    *zap.Logger
	clock     func() time.Time
}

func NewActionWorker(
	database *db.DB,
	actions repositories.ScheduledActionRepository,
	content repositories.ContentRepository,
	generator ResponseGenerator,
	opts WorkerOptions,
	log *zap.Logger,
) ActionWorker {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 25
	}
	return &actionWorker{
		db:        database,
		actions:   actions,
		content:   content,
		generator: generator,
		opts:      opts,
		logger:    logger.OrNop(log),
		clock:     time.Now,
	}
}

// Drain fails abandoned in-flight actions, claims a batch of due ones and
// executes each. One failing action never stops the rest of the batch.
//
// Claimed actions run to completion even if ctx is cancelled mid-batch; the
// generator's own timeout bounds each one.
func (w *actionWorker) Drain(ctx context.Context) (*DrainReport, error) {
	report := &DrainReport{}
	now := w.clock().UTC()

	if w.opts.StaleAfter > 0 {
		n, err := w.actions.FailStale(ctx, now.Add(-w.opts.StaleAfter), now)
		if err != nil {
			w.logger.Error("Failed to fail stale actions", zap.Error(err))
		}
		report.Abandoned = n
		if n > 0 {
			w.logger.Warn("Abandoned actions failed", zap.Int("count", n))
		}
	}

	claimed, err := w.actions.ClaimDue(ctx, now, w.opts.BatchSize)
	report.Claimed = len(claimed)
	if err != nil {
		w.logger.Error("Failed to claim due actions", zap.Error(err))
		if len(claimed) == 0 {
			return report, err
		}
	}
	if len(claimed) > 0 {
		w.logger.Info("Claimed due actions", zap.Int("claimed", len(claimed)))
	}

	execCtx := context.WithoutCancel(ctx)
	for _, action := range claimed {
		status, reason, execErr := w.execute(execCtx, action)
		fields := []zap.Field{
			zap.String("action_id", action.ID),
			zap.String("kind", string(action.Kind)),
			zap.String("status", string(status)),
		}
		if reason != "" {
			fields = append(fields, zap.String("reason", reason))
		}
		if execErr != nil {
			report.Errors++
			w.logger.Error("Action execution error", append(fields, zap.Error(execErr))...)
			continue
		}
		switch status {
		case models.StatusSent:
			report.Sent++
			w.logger.Info("Action sent", fields...)
		case models.StatusFailed:
			report.Failed++
			w.logger.Warn("Action failed", fields...)
		}
	}
	return report, nil
}

func (w *actionWorker) execute(ctx context.Context, a *models.ScheduledAction) (models.ActionStatus, string, error) {
	switch a.Kind {
	case models.ActionLike:
		return w.executeLike(ctx, a)
	case models.ActionComment, models.ActionReply:
		return w.executeResponse(ctx, a)
	default:
		return w.fail(ctx, a, reasonUnsupportedKind)
	}
}

func (w *actionWorker) fail(ctx context.Context, a *models.ScheduledAction, reason string) (models.ActionStatus, string, error) {
	if err := w.actions.MarkFailed(ctx, a.ID, reason, w.clock()); err != nil {
		return a.Status, reason, err
	}
	return models.StatusFailed, reason, nil
}

func (w *actionWorker) executeLike(ctx context.Context, a *models.ScheduledAction) (models.ActionStatus, string, error) {
	if _, _, err := w.loadTarget(ctx, a); err != nil {
		var nf *apperrors.ErrNotFound
		if errors.As(err, &nf) {
			return w.fail(ctx, a, models.ReasonTargetMissing)
		}
		return a.Status, "", err
	}

	like, err := w.content.CreateLike(ctx, &models.Like{
		UserID:     a.ActorID,
		TargetType: a.TargetType,
		TargetID:   a.TargetID,
	})
	if err != nil {
		return a.Status, "", err
	}

	receipt, err := marshalString(map[string]string{"like_id": like.ID})
	if err != nil {
		return a.Status, "", err
	}
	if err := w.actions.MarkSent(ctx, a.ID, models.SentUpdate{Payload: &receipt, At: w.clock()}); err != nil {
		return a.Status, "", err
	}
	return models.StatusSent, "", nil
}

// executeResponse generates the text outside any transaction, then stores the
// comment and marks the action sent atomically.
func (w *actionWorker) executeResponse(ctx context.Context, a *models.ScheduledAction) (models.ActionStatus, string, error) {
	post, parent, err := w.loadTarget(ctx, a)
	if err != nil {
		var nf *apperrors.ErrNotFound
		if errors.As(err, &nf) {
			return w.fail(ctx, a, models.ReasonTargetMissing)
		}
		return a.Status, "", err
	}

	pc, err := promptContextFor(a, post, parent)
	if err != nil {
		return a.Status, "", err
	}
	pcJSON, err := marshalString(pc)
	if err != nil {
		return a.Status, "", err
	}

	text, err := w.generator.Generate(ctx, pc)
	if err != nil {
		return w.fail(ctx, a, apperrors.GenerationReason(err))
	}

	comment := &models.Comment{PostID: post.ID, AuthorID: a.ActorID, Body: text}
	if parent != nil {
		comment.ParentID = &parent.ID
	}
	err = w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := w.content.WithTx(tx).CreateComment(ctx, comment); err != nil {
			return err
		}
		receipt, err := marshalString(map[string]string{"comment_id": comment.ID})
		if err != nil {
			return err
		}
		return w.actions.WithTx(tx).MarkSent(ctx, a.ID, models.SentUpdate{
			Payload:       &receipt,
			PromptContext: &pcJSON,
			GeneratedText: &text,
			At:            w.clock(),
		})
	})
	if err != nil {
		return a.Status, "", err
	}
	return models.StatusSent, "", nil
}

// loadTarget returns the post the action is about and, for comment targets,
// the comment itself.
func (w *actionWorker) loadTarget(ctx context.Context, a *models.ScheduledAction) (*models.Post, *models.Comment, error) {
	switch a.TargetType {
	case models.TargetPost:
		post, err := w.content.GetPost(ctx, a.TargetID)
		return post, nil, err
	case models.TargetComment:
		comment, err := w.content.GetComment(ctx, a.TargetID)
		if err != nil {
			return nil, nil, err
		}
		post, err := w.content.GetPost(ctx, comment.PostID)
		return post, comment, err
	default:
		return nil, nil, fmt.Errorf("unknown target type %q", a.TargetType)
	}
}

// promptContextFor prefers the context stored on the action so a re-enqueued
// reply sees what the original saw.
func promptContextFor(a *models.ScheduledAction, post *models.Post, parent *models.Comment) (*models.PromptContext, error) {
	if a.PromptContext != nil && *a.PromptContext != "" {
		var pc models.PromptContext
		if err := json.Unmarshal([]byte(*a.PromptContext), &pc); err != nil {
			return nil, fmt.Errorf("invalid stored prompt context: %w", err)
		}
		return &pc, nil
	}

	pc := &models.PromptContext{Kind: a.Kind, Title: post.Title, Body: post.Body}
	if parent != nil {
		pc.PreviousMessage = parent.Body
	}
	return pc, nil
}

func marshalString(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal: %w", err)
	}
	return string(b), nil
}
