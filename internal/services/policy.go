package services

import (
	"math/rand"
	"time"

	"github.com/tropicaldog17/engage/internal/config"
	"github.com/tropicaldog17/engage/internal/models"
)

// Rule is the chance of performing one kind of action and the delay window
// before it runs.
type Rule struct {
	Probability float64
	MinDelay    time.Duration
	MaxDelay    time.Duration
}

// Policy maps each action kind to its rule. Kinds without a rule are never emitted.
type Policy struct {
	Rules map[models.ActionKind]Rule
}

// DefaultPolicy returns the production humanizing table.
func DefaultPolicy() Policy {
	return Policy{Rules: map[models.ActionKind]Rule{
		models.ActionLike:    {Probability: 0.8, MinDelay: 30 * time.Second, MaxDelay: 5 * time.Minute},
		models.ActionComment: {Probability: 0.4, MinDelay: 2 * time.Minute, MaxDelay: 20 * time.Minute},
		models.ActionReply:   {Probability: 0.67, MinDelay: time.Minute, MaxDelay: 10 * time.Minute},
	}}
}

func PolicyFromConfig(cfg config.PolicyConfig) Policy {
	return Policy{Rules: map[models.ActionKind]Rule{
		models.ActionLike:    {Probability: cfg.LikeProbability, MinDelay: cfg.LikeDelay.Min, MaxDelay: cfg.LikeDelay.Max},
		models.ActionComment: {Probability: cfg.CommentProbability, MinDelay: cfg.CommentDelay.Min, MaxDelay: cfg.CommentDelay.Max},
		models.ActionReply:   {Probability: cfg.ReplyProbability, MinDelay: cfg.ReplyDelay.Min, MaxDelay: cfg.ReplyDelay.Max},
	}}
}

func (r Rule) delay(rng *rand.Rand) time.Duration {
	if r.MaxDelay <= r.MinDelay {
		return r.MinDelay
	}
	return r.MinDelay + time.Duration(rng.Int63n(int64(r.MaxDelay-r.MinDelay)+1))
}

// Decide computes the automated actions actorID performs in response to event.
//
// Post events consider a like and then a comment on the post; comment events
// a like and then a reply on the comment. Each candidate consumes exactly one
// rng.Float64 draw in that order, and each emitted action one more draw for
// its delay, so a seeded rng reproduces the same decisions.
func Decide(policy Policy, rng *rand.Rand, actorID string, event models.ContentEvent, now time.Time) []*models.ScheduledAction {
	if actorID == "" || event.AuthorID == actorID {
		return nil
	}

	targetType := models.TargetPost
	candidates := []models.ActionKind{models.ActionLike, models.ActionComment}
	if event.IsComment() {
		targetType = models.TargetComment
		candidates = []models.ActionKind{models.ActionLike, models.ActionReply}
	}

	var actions []*models.ScheduledAction
	for _, kind := range candidates {
		draw := rng.Float64()
		rule, ok := policy.Rules[kind]
		if !ok || draw >= rule.Probability {
			continue
		}
		actions = append(actions, &models.ScheduledAction{
			Kind:         kind,
			TargetType:   targetType,
			TargetID:     event.ContentID,
			ActorID:      actorID,
			ScheduledFor: now.Add(rule.delay(rng)),
			Status:       models.StatusPending,
		})
	}
	return actions
}
