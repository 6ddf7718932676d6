package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/tropicaldog17/engage/internal/errors"
	"github.com/tropicaldog17/engage/internal/logger"
	"github.com/tropicaldog17/engage/internal/models"
)

type decisionEngine struct {
	queue   QueueService
	policy  Policy
	actorID string
	logger  *zap.Logger
	clock   func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewDecisionEngine creates a decision engine acting as actorID. rng may be
// seeded by the caller for reproducible decisions.
func NewDecisionEngine(queue QueueService, policy Policy, actorID string, rng *rand.Rand, log *zap.Logger) DecisionEngine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &decisionEngine{
		queue:   queue,
		policy:  policy,
		actorID: actorID,
		logger:  logger.OrNop(log),
		clock:   time.Now,
		rng:     rng,
	}
}

// HandleContentEvent schedules the actions Decide picks for event. A duplicate
// open action is not an error; the returned slice holds only accepted actions.
func (e *decisionEngine) HandleContentEvent(ctx context.Context, event *models.ContentEvent) ([]*models.ScheduledAction, error) {
	if event == nil {
		return nil, &apperrors.ErrValidation{Field: "event", Message: "is required"}
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	decided := Decide(e.policy, e.rng, e.actorID, *event, e.clock().UTC())
	e.mu.Unlock()

	accepted := make([]*models.ScheduledAction, 0, len(decided))
	var errs []error
	for _, action := range decided {
		err := e.queue.Enqueue(ctx, action)
		switch {
		case errors.Is(err, apperrors.ErrDuplicateAction):
			e.logger.Debug("Skipping duplicate action",
				zap.String("kind", string(action.Kind)),
				zap.String("target_id", action.TargetID))
		case err != nil:
			e.logger.Error("Failed to enqueue action",
				zap.String("kind", string(action.Kind)),
				zap.String("target_id", action.TargetID),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("failed to enqueue %s: %w", action.Kind, err))
		default:
			accepted = append(accepted, action)
		}
	}

	e.logger.Info("Content event handled",
		zap.String("content_id", event.ContentID),
		zap.Int("decided", len(decided)),
		zap.Int("scheduled", len(accepted)))
	return accepted, errors.Join(errs...)
}
