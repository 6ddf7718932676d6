package models

import (
	"time"
)

// VoteRecord is one user's current vote on a post. Absence means 0.
type VoteRecord struct {
	UserID    string    `json:"user_id" gorm:"primaryKey;column:user_id;type:varchar(64)"`
	PostID    string    `json:"post_id" gorm:"primaryKey;column:post_id;type:varchar(64);index"`
	Value     int       `json:"value" gorm:"column:value;not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (VoteRecord) TableName() string { return "vote_records" }

// CoinBalance is the per-user point balance. Balance never goes below zero.
type CoinBalance struct {
	UserID    string    `json:"user_id" gorm:"primaryKey;column:user_id;type:varchar(64)"`
	Balance   int64     `json:"balance" gorm:"column:balance;not null;default:0;check:chk_coin_balances_non_negative,balance >= 0"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (CoinBalance) TableName() string { return "coin_balances" }

// Ledger entry reasons.
const (
	ReasonChallengeReward = "challenge_reward"
	ReasonPrizeRedemption = "prize_redemption"
	ReasonAdminReset      = "admin_reset"
)

// LedgerEntry is the append-only audit row written with every applied delta.
type LedgerEntry struct {
	ID            string    `json:"id" gorm:"primaryKey;column:id;type:varchar(64)"`
	UserID        string    `json:"user_id" gorm:"column:user_id;type:varchar(64);not null;index"`
	Delta         int64     `json:"delta" gorm:"column:delta;not null"`
	BalanceAfter  int64     `json:"balance_after" gorm:"column:balance_after;not null"`
	Reason        string    `json:"reason" gorm:"column:reason;type:varchar(100);not null"`
	SourceEventID *string   `json:"source_event_id,omitempty" gorm:"column:source_event_id;type:varchar(255)"`
	CreatedAt     time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (LedgerEntry) TableName() string { return "ledger_entries" }

// ProcessedEvent marks a source event as applied. Its primary key is the
// natural id of the event, e.g. "challenge_participation:<id>".
type ProcessedEvent struct {
	EventID   string    `json:"event_id" gorm:"primaryKey;column:event_id;type:varchar(255)"`
	Kind      string    `json:"kind" gorm:"column:kind;type:varchar(100);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (ProcessedEvent) TableName() string { return "processed_events" }

type ParticipationStatus string

const (
	ParticipationPending  ParticipationStatus = "pending"
	ParticipationApproved ParticipationStatus = "approved"
	ParticipationRejected ParticipationStatus = "rejected"
)

// ChallengeParticipation is a user's submission to a challenge.
type ChallengeParticipation struct {
	ID          string              `json:"id" gorm:"primaryKey;column:id;type:varchar(64)"`
	ChallengeID string              `json:"challenge_id" gorm:"column:challenge_id;type:varchar(64);not null;index"`
	UserID      string              `json:"user_id" gorm:"column:user_id;type:varchar(64);not null;index"`
	Status      ParticipationStatus `json:"status" gorm:"column:status;type:varchar(20);not null;default:'pending'"`
	RewardCoins int64               `json:"reward_coins" gorm:"column:reward_coins;not null;default:0"`
	ApprovedAt  *time.Time          `json:"approved_at,omitempty" gorm:"column:approved_at"`
	CreatedAt   time.Time           `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (ChallengeParticipation) TableName() string { return "challenge_participations" }

type Prize struct {
	ID        string    `json:"id" gorm:"primaryKey;column:id;type:varchar(64)"`
	Name      string    `json:"name" gorm:"column:name;type:varchar(255);not null"`
	CostCoins int64     `json:"cost_coins" gorm:"column:cost_coins;not null"`
	Stock     int       `json:"stock" gorm:"column:stock;not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (Prize) TableName() string { return "prizes" }

type Redemption struct {
	ID        string    `json:"id" gorm:"primaryKey;column:id;type:varchar(64)"`
	UserID    string    `json:"user_id" gorm:"column:user_id;type:varchar(64);not null;index"`
	PrizeID   string    `json:"prize_id" gorm:"column:prize_id;type:varchar(64);not null;index"`
	Cost      int64     `json:"cost" gorm:"column:cost;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (Redemption) TableName() string { return "redemptions" }
