package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tropicaldog17/engage/internal/db"
	apperrors "github.com/tropicaldog17/engage/internal/errors"
	"github.com/tropicaldog17/engage/internal/models"
)

type contentRepository struct {
	db *db.DB
}

// NewContentRepository creates a new content repository
func NewContentRepository(database *db.DB) ContentRepository {
	return &contentRepository{db: database}
}

func (r *contentRepository) WithTx(tx *gorm.DB) ContentRepository {
	return &contentRepository{db: &db.DB{DB: tx}}
}

// GetPost returns the post unless it is missing or soft-deleted.
func (r *contentRepository) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.ErrNotFound{Entity: "post", ID: id}
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &p, nil
}

func (r *contentRepository) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	var c models.Comment
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.ErrNotFound{Entity: "comment", ID: id}
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &c, nil
}

func (r *contentRepository) CreateComment(ctx context.Context, c *models.Comment) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *contentRepository) CreateLike(ctx context.Context, l *models.Like) (*models.Like, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(l).Error; err != nil {
		return nil, fmt.Errorf("failed to create like: %w", err)
	}

	var stored models.Like
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", l.UserID, l.TargetType, l.TargetID).
		First(&stored).Error; err != nil {
		return nil, fmt.Errorf("failed to load like: %w", err)
	}
	return &stored, nil
}
