package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tropicaldog17/engage/internal/db/dbtest"
	apperrors "github.com/tropicaldog17/engage/internal/errors"
	"github.com/tropicaldog17/engage/internal/models"
)

func TestContentRepository_CreateLikeIsIdempotent(t *testing.T) {
	repo := NewContentRepository(dbtest.New(t))
	ctx := context.Background()

	first, err := repo.CreateLike(ctx, &models.Like{UserID: "bot", TargetType: models.TargetPost, TargetID: "p1"})
	require.NoError(t, err)
	second, err := repo.CreateLike(ctx, &models.Like{UserID: "bot", TargetType: models.TargetPost, TargetID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestContentRepository_SoftDeletedPostIsMissing(t *testing.T) {
	database := dbtest.New(t)
	repo := NewContentRepository(database)
	ctx := context.Background()

	require.NoError(t, database.Create(&models.Post{ID: "p1", AuthorID: "u1", Title: "t"}).Error)
	_, err := repo.GetPost(ctx, "p1")
	require.NoError(t, err)

	require.NoError(t, database.Delete(&models.Post{ID: "p1"}).Error)
	_, err = repo.GetPost(ctx, "p1")
	var nf *apperrors.ErrNotFound
	assert.ErrorAs(t, err, &nf)
}

func TestContentRepository_CreateComment(t *testing.T) {
	repo := NewContentRepository(dbtest.New(t))
	ctx := context.Background()

	c := &models.Comment{PostID: "p1", AuthorID: "bot", Body: "hello"}
	require.NoError(t, repo.CreateComment(ctx, c))
	require.NotEmpty(t, c.ID)

	got, err := repo.GetComment(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Body)
}
