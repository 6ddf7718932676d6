package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tropicaldog17/engage/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOT_ACTOR_ID", "bot-1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "bot-1", cfg.ActorID)
	assert.Equal(t, 0.8, cfg.Policy.LikeProbability)
	assert.Equal(t, 0.4, cfg.Policy.CommentProbability)
	assert.Equal(t, 0.67, cfg.Policy.ReplyProbability)
	assert.Equal(t, DelayRange{Min: 30 * time.Second, Max: 5 * time.Minute}, cfg.Policy.LikeDelay)
	assert.Equal(t, 15*time.Second, cfg.Worker.PollInterval)
	assert.Equal(t, 25, cfg.Worker.BatchSize)
	assert.Equal(t, 20*time.Second, cfg.Generator.Timeout)
	assert.False(t, cfg.Worker.Enabled)
}

func TestLoadRejectsBadProbability(t *testing.T) {
	t.Setenv("POLICY_LIKE_PROBABILITY", "1.5")

	_, err := Load()
	var verr *apperrors.ErrValidation
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "POLICY_LIKE_PROBABILITY", verr.Field)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("WORKER_POLL_INTERVAL", "soon")

	_, err := Load()
	require.Error(t, err)
}

func TestParseDelayRange(t *testing.T) {
	r, err := ParseDelayRange("1m-10m")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, r.Min)
	assert.Equal(t, 10*time.Minute, r.Max)

	_, err = ParseDelayRange("10m-1m")
	require.Error(t, err)

	_, err = ParseDelayRange("5m")
	require.Error(t, err)
}
