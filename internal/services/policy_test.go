package services

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tropicaldog17/engage/internal/config"
	"github.com/tropicaldog17/engage/internal/models"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func fixedPolicy(like, comment, reply float64) Policy {
	return Policy{Rules: map[models.ActionKind]Rule{
		models.ActionLike:    {Probability: like, MinDelay: 30 * time.Second, MaxDelay: 5 * time.Minute},
		models.ActionComment: {Probability: comment, MinDelay: 2 * time.Minute, MaxDelay: 20 * time.Minute},
		models.ActionReply:   {Probability: reply, MinDelay: time.Minute, MaxDelay: 10 * time.Minute},
	}}
}

func TestDecide_LikeOnlyOnPost(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	event := models.ContentEvent{AuthorID: "alice", ContentID: "post-1", CreatedAt: fixedNow}

	actions := Decide(fixedPolicy(1.0, 0.0, 0.0), rng, "bot", event, fixedNow)

	require.Len(t, actions, 1)
	a := actions[0]
	assert.Equal(t, models.ActionLike, a.Kind)
	assert.Equal(t, models.TargetPost, a.TargetType)
	assert.Equal(t, "post-1", a.TargetID)
	assert.Equal(t, "bot", a.ActorID)
	assert.Equal(t, models.StatusPending, a.Status)
	delay := a.ScheduledFor.Sub(fixedNow)
	assert.GreaterOrEqual(t, delay, 30*time.Second)
	assert.LessOrEqual(t, delay, 5*time.Minute)
}

func TestDecide_NeverTargetsOwnContent(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		event := models.ContentEvent{AuthorID: "bot", ContentID: "post-1"}
		assert.Empty(t, Decide(fixedPolicy(1, 1, 1), rng, "bot", event, fixedNow))
	}
	assert.Empty(t, Decide(fixedPolicy(1, 1, 1), rng, "", models.ContentEvent{AuthorID: "alice", ContentID: "p"}, fixedNow))
}

func TestDecide_CommentEventSchedulesReply(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	post := "post-1"
	event := models.ContentEvent{AuthorID: "alice", ContentID: "comment-1", ParentID: &post}

	actions := Decide(fixedPolicy(1, 1, 1), rng, "bot", event, fixedNow)

	require.Len(t, actions, 2)
	assert.Equal(t, models.ActionLike, actions[0].Kind)
	assert.Equal(t, models.ActionReply, actions[1].Kind)
	for _, a := range actions {
		assert.Equal(t, models.TargetComment, a.TargetType)
		assert.Equal(t, "comment-1", a.TargetID)
	}
	delay := actions[1].ScheduledFor.Sub(fixedNow)
	assert.GreaterOrEqual(t, delay, time.Minute)
	assert.LessOrEqual(t, delay, 10*time.Minute)
}

func TestDecide_ReproducibleWithSeed(t *testing.T) {
	event := models.ContentEvent{AuthorID: "alice", ContentID: "post-1"}
	policy := DefaultPolicy()

	for seed := int64(0); seed < 20; seed++ {
		first := Decide(policy, rand.New(rand.NewSource(seed)), "bot", event, fixedNow)
		second := Decide(policy, rand.New(rand.NewSource(seed)), "bot", event, fixedNow)
		require.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].Kind, second[i].Kind)
			assert.Equal(t, first[i].ScheduledFor, second[i].ScheduledFor)
		}
	}
}

func TestDecide_MissingRuleNeverEmits(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	policy := Policy{Rules: map[models.ActionKind]Rule{}}
	assert.Empty(t, Decide(policy, rng, "bot", models.ContentEvent{AuthorID: "alice", ContentID: "p"}, fixedNow))
}

func TestRuleDelay_FixedWindow(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	r := Rule{Probability: 1, MinDelay: time.Minute, MaxDelay: time.Minute}
	assert.Equal(t, time.Minute, r.delay(rng))
}

func TestPolicyFromConfig(t *testing.T) {
	p := PolicyFromConfig(config.PolicyConfig{
		LikeProbability:    0.5,
		CommentProbability: 0.25,
		ReplyProbability:   0.1,
		LikeDelay:          config.DelayRange{Min: time.Second, Max: 2 * time.Second},
		CommentDelay:       config.DelayRange{Min: 3 * time.Second, Max: 4 * time.Second},
		ReplyDelay:         config.DelayRange{Min: 5 * time.Second, Max: 6 * time.Second},
	})
	assert.Equal(t, 0.5, p.Rules[models.ActionLike].Probability)
	assert.Equal(t, 4*time.Second, p.Rules[models.ActionComment].MaxDelay)
	assert.Equal(t, 5*time.Second, p.Rules[models.ActionReply].MinDelay)
}
