package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the subset of the platform account needed here. Accounts are
// created elsewhere; CreatedAt breaks leaderboard ties.
type User struct {
	ID          string    `json:"id" gorm:"primaryKey;column:id;type:varchar(64)"`
	DisplayName string    `json:"display_name" gorm:"column:display_name;type:varchar(255)"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at;not null"`
}

func (User) TableName() string { return "users" }

// Post carries the aggregate vote score. VoteScore is written only by the
// ledger applier.
type Post struct {
	ID        string         `json:"id" gorm:"primaryKey;column:id;type:varchar(64)"`
	AuthorID  string         `json:"author_id" gorm:"column:author_id;type:varchar(64);not null;index"`
	Title     string         `json:"title" gorm:"column:title;type:varchar(500)"`
	Body      string         `json:"body" gorm:"column:body;type:text"`
	VoteScore int64          `json:"vote_score" gorm:"column:vote_score;not null;default:0"`
	CreatedAt time.Time      `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"column:deleted_at;index"`
}

func (Post) TableName() string { return "posts" }

type Comment struct {
	ID        string         `json:"id" gorm:"primaryKey;column:id;type:varchar(64)"`
	PostID    string         `json:"post_id" gorm:"column:post_id;type:varchar(64);not null;index"`
	ParentID  *string        `json:"parent_id,omitempty" gorm:"column:parent_id;type:varchar(64);index"`
	AuthorID  string         `json:"author_id" gorm:"column:author_id;type:varchar(64);not null"`
	Body      string         `json:"body" gorm:"column:body;type:text;not null"`
	CreatedAt time.Time      `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"column:deleted_at;index"`
}

func (Comment) TableName() string { return "comments" }

// Like is unique per (user, target); inserting it twice is a no-op.
type Like struct {
	ID         string     `json:"id" gorm:"primaryKey;column:id;type:varchar(64)"`
	UserID     string     `json:"user_id" gorm:"column:user_id;type:varchar(64);not null;uniqueIndex:ux_likes_user_target,priority:1"`
	TargetType TargetType `json:"target_type" gorm:"column:target_type;type:varchar(20);not null;uniqueIndex:ux_likes_user_target,priority:2"`
	TargetID   string     `json:"target_id" gorm:"column:target_id;type:varchar(64);not null;uniqueIndex:ux_likes_user_target,priority:3"`
	CreatedAt  time.Time  `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (Like) TableName() string { return "likes" }
