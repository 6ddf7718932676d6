package models

import (
	"time"
)

// ContentEvent announces a newly created post (ParentID nil) or comment
// (ParentID is the post the comment belongs to).
type ContentEvent struct {
	AuthorID  string    `json:"author_id" validate:"required,max=64"`
	ContentID string    `json:"content_id" validate:"required,max=64"`
	ParentID  *string   `json:"parent_id,omitempty" validate:"omitempty,min=1,max=64"`
	CreatedAt time.Time `json:"created_at"`
}

// IsComment reports whether the event describes a comment.
func (e ContentEvent) IsComment() bool {
	return e.ParentID != nil && *e.ParentID != ""
}

func (e ContentEvent) Validate() error { return validateStruct(e) }

// ContentDeletedEvent reports that a post or comment was removed, so pending
// actions aimed at it can be cancelled.
type ContentDeletedEvent struct {
	TargetType TargetType `json:"target_type" validate:"required,oneof=post comment"`
	TargetID   string     `json:"target_id" validate:"required,max=64"`
}

func (e ContentDeletedEvent) Validate() error { return validateStruct(e) }

// VoteRequest casts, changes (+1/-1) or removes (0) a vote.
type VoteRequest struct {
	UserID string `json:"user_id" validate:"required,max=64"`
	PostID string `json:"post_id" validate:"required,max=64"`
	Value  int    `json:"value" validate:"oneof=-1 0 1"`
}

func (r VoteRequest) Validate() error { return validateStruct(r) }

type VoteResult struct {
	Success  bool  `json:"success"`
	NewScore int64 `json:"new_score"`
}

// BalanceDelta is a single balance mutation. SourceEventID, when set, makes
// the mutation idempotent.
type BalanceDelta struct {
	UserID        string `json:"user_id" validate:"required,max=64"`
	Delta         int64  `json:"delta" validate:"ne=0"`
	Reason        string `json:"reason" validate:"required,max=100"`
	SourceEventID string `json:"source_event_id,omitempty" validate:"max=255"`
}

func (d BalanceDelta) Validate() error { return validateStruct(d) }

type BalanceResult struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
	// Applied is false when the source event had already been processed.
	Applied bool   `json:"applied"`
}

type ApproveChallengeParticipation struct {
	ParticipationID string `json:"participation_id" validate:"required,max=64"`
	RewardCoins     int64  `json:"reward_coins" validate:"gt=0"`
}

func (c ApproveChallengeParticipation) Validate() error { return validateStruct(c) }

type RedeemPrize struct {
	RedemptionID string `json:"redemption_id" validate:"required,max=64"`
	UserID       string `json:"user_id" validate:"required,max=64"`
	PrizeID      string `json:"prize_id" validate:"required,max=64"`
}

func (c RedeemPrize) Validate() error { return validateStruct(c) }

type ResetBalance struct {
	UserID      string `json:"user_id" validate:"required,max=64"`
	Target      int64  `json:"target" validate:"gte=0"`
	OperatorRef string `json:"operator_ref" validate:"required,max=128"`
}

func (c ResetBalance) Validate() error { return validateStruct(c) }

// PromptContext is what the response generator needs to write a comment or reply.
type PromptContext struct {
	Kind            ActionKind `json:"kind"`
	Title           string     `json:"title"`
	Body            string     `json:"body"`
	PreviousMessage string     `json:"previous_message,omitempty"`
}
