package models

import (
	"time"
)

type ActionKind string

const (
	ActionLike    ActionKind = "like"
	ActionComment ActionKind = "comment"
	ActionReply   ActionKind = "reply"
)

type TargetType string

const (
	TargetPost    TargetType = "post"
	TargetComment TargetType = "comment"
)

type ActionStatus string

const (
	StatusPending    ActionStatus = "pending"
	StatusProcessing ActionStatus = "processing" // claimed by a worker, in flight
	StatusSent       ActionStatus = "sent"
	StatusFailed     ActionStatus = "failed"
	StatusCancelled  ActionStatus = "cancelled"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s ActionStatus) IsTerminal() bool {
	return s == StatusSent || s == StatusFailed || s == StatusCancelled
}

// Failure reasons recorded by the worker besides the generation kinds.
const (
	ReasonTargetMissing   = "TargetMissing"
	ReasonWorkerAbandoned = "WorkerAbandoned"
)

// ScheduledAction is a deferred automated interaction owned by the queue.
// Comment and reply actions double as autoresponse tasks: PromptContext holds
// the JSON-encoded PromptContext used for generation and GeneratedText the
// model output, both filled at execution time unless provided on enqueue.
type ScheduledAction struct {
	ID             string       `json:"id" gorm:"primaryKey;column:id;type:varchar(64)"`
	Kind           ActionKind   `json:"kind" gorm:"column:kind;type:varchar(20);not null"`
	TargetType     TargetType   `json:"target_type" gorm:"column:target_type;type:varchar(20);not null"`
	TargetID       string       `json:"target_id" gorm:"column:target_id;type:varchar(64);not null;index"`
	ActorID        string       `json:"actor_id" gorm:"column:actor_id;type:varchar(64);not null"`
	Payload        *string      `json:"payload,omitempty" gorm:"column:payload;type:text"`
	PromptContext  *string      `json:"prompt_context,omitempty" gorm:"column:prompt_context;type:text"`
	GeneratedText  *string      `json:"generated_text,omitempty" gorm:"column:generated_text;type:text"`
	ScheduledFor   time.Time    `json:"scheduled_for" gorm:"column:scheduled_for;not null;index:idx_scheduled_actions_due,priority:2"`
	Status         ActionStatus `json:"status" gorm:"column:status;type:varchar(20);not null;default:'pending';index:idx_scheduled_actions_due,priority:1"`
	FailureReason  *string      `json:"failure_reason,omitempty" gorm:"column:failure_reason;type:text"`
	ClaimToken     *string      `json:"claim_token,omitempty" gorm:"column:claim_token;type:varchar(64)"`
	ClaimedAt      *time.Time   `json:"claimed_at,omitempty" gorm:"column:claimed_at"`
	ReenqueuedFrom *string      `json:"reenqueued_from,omitempty" gorm:"column:reenqueued_from;type:varchar(64)"`
	CreatedAt      time.Time    `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	SentAt         *time.Time   `json:"sent_at,omitempty" gorm:"column:sent_at"`
	UpdatedAt      time.Time    `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (ScheduledAction) TableName() string { return "scheduled_actions" }

// ActionFilter narrows queue listings for operators.
type ActionFilter struct {
	Status   ActionStatus
	ActorID  string
	TargetID string
	Limit    int
	Offset   int
}

// SentUpdate carries the execution results attached when an action is marked
// sent. Payload is a JSON receipt of what was written.
type SentUpdate struct {
	Payload       *string
	PromptContext *string
	GeneratedText *string
	At            time.Time
}
