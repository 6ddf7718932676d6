package db

import (
	"fmt"

	"github.com/tropicaldog17/engage/internal/models"
)

// openActionIndex enforces at most one open (pending or in-flight) action per
// (actor, kind, target). Partial indexes are supported by both postgres and sqlite.
const openActionIndex = `CREATE UNIQUE INDEX IF NOT EXISTS ux_scheduled_actions_open
	ON scheduled_actions (actor_id, kind, target_type, target_id)
	WHERE status IN ('pending', 'processing')`

// AutoMigrate creates or updates the schema from the models. Production
// postgres deployments use the SQL files under migrations/ instead.
func AutoMigrate(database *DB) error {
	if err := database.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.ScheduledAction{},
		&models.VoteRecord{},
		&models.CoinBalance{},
		&models.LedgerEntry{},
		&models.ProcessedEvent{},
		&models.ChallengeParticipation{},
		&models.Prize{},
		&models.Redemption{},
		&models.RankingSnapshot{},
	); err != nil {
		return fmt.Errorf("failed to auto-migrate schema: %w", err)
	}
	if err := database.Exec(openActionIndex).Error; err != nil {
		return fmt.Errorf("failed to create open action index: %w", err)
	}
	return nil
}
