package app

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tropicaldog17/engage/internal/config"
	"github.com/tropicaldog17/engage/internal/db/dbtest"
	apperrors "github.com/tropicaldog17/engage/internal/errors"
	"github.com/tropicaldog17/engage/internal/handlers"
	"github.com/tropicaldog17/engage/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		ActorID:       "bot",
		WebhookSecret: "secret",
		Policy: config.PolicyConfig{
			LikeProbability:    1,
			CommentProbability: 1,
			ReplyProbability:   1,
		},
		Worker: config.WorkerConfig{
			PollInterval:     time.Hour,
			SnapshotInterval: time.Hour,
			BatchSize:        10,
			StaleAfter:       time.Minute,
		},
		Generator: config.GeneratorConfig{Timeout: time.Second, MaxLength: 200},
	}
}

func TestNewRequiresActor(t *testing.T) {
	cfg := testConfig()
	cfg.ActorID = ""

	_, err := New(context.Background(), cfg, dbtest.New(t), nil)

	var verr *apperrors.ErrValidation
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "BOT_ACTOR_ID", verr.Field)
}

func TestContentEventToSentActions(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	require.NoError(t, database.Create(&models.Post{ID: "p1", AuthorID: "alice", Title: "Weekend hike", Body: "Ridge trail"}).Error)

	a, err := New(ctx, testConfig(), database, nil)
	require.NoError(t, err)
	defer a.Close()

	router := handlers.NewRouter(a.Handlers())
	body, err := json.Marshal(models.ContentEvent{AuthorID: "alice", ContentID: "p1", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write(body)

	req := httptest.NewRequest(http.MethodPost, "/api/events/content", bytes.NewReader(body))
	req.Header.Set("X-Signature", hex.EncodeToString(mac.Sum(nil)))
	rw := httptest.NewRecorder()
	router.ServeHTTP(rw, req)
	require.Equal(t, http.StatusAccepted, rw.Code, rw.Body.String())

	require.NoError(t, a.DrainJob(ctx))

	sent, err := a.Queue.List(ctx, &models.ActionFilter{Status: models.StatusSent})
	require.NoError(t, err)
	assert.Len(t, sent, 2)

	var comments []models.Comment
	require.NoError(t, database.Where("post_id = ? AND author_id = ?", "p1", "bot").Find(&comments).Error)
	require.Len(t, comments, 1)
	assert.Contains(t, fallbackReplies, comments[0].Body)
}

func TestRunnersStartAndStop(t *testing.T) {
	a, err := New(context.Background(), testConfig(), dbtest.New(t), nil)
	require.NoError(t, err)

	a.StartRunners(context.Background())
	require.Len(t, a.runners, 2)
	require.NoError(t, a.Close())
	assert.Empty(t, a.runners)
}

func TestRunnersSkipZeroInterval(t *testing.T) {
	cfg := testConfig()
	cfg.Worker.SnapshotInterval = 0
	a, err := New(context.Background(), cfg, dbtest.New(t), nil)
	require.NoError(t, err)

	a.StartRunners(context.Background())
	assert.Len(t, a.runners, 1)
	require.NoError(t, a.Close())
}
