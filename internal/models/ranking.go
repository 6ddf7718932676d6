package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RankingSnapshot is one row of the denormalized leaderboard cache.
type RankingSnapshot struct {
	UserID           string          `json:"user_id" gorm:"primaryKey;column:user_id;type:varchar(64)"`
	Rank             int             `json:"rank" gorm:"column:rank;not null;index"`
	Balance          int64           `json:"balance" gorm:"column:balance;not null"`
	SharePercent     decimal.Decimal `json:"share_percent" gorm:"column:share_percent;type:decimal(7,2);not null"`
	AccountCreatedAt *time.Time      `json:"account_created_at,omitempty" gorm:"column:account_created_at"`
	SnapshotAt       time.Time       `json:"snapshot_at" gorm:"column:snapshot_at;not null"`
}

func (RankingSnapshot) TableName() string { return "ranking_snapshots" }

// BalanceRow is a balance joined with the owning account's creation time.
type BalanceRow struct {
	UserID           string
	Balance          int64
	AccountCreatedAt *time.Time
}
