package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/tropicaldog17/engage/internal/db"
	"github.com/tropicaldog17/engage/internal/logger"
	"github.com/tropicaldog17/engage/migrations"
)

func main() {
	_ = godotenv.Load()

	zl, err := logger.NewForEnv(os.Getenv("APP_ENV"))
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer zl.Sync()

	conn, err := sql.Open("postgres", db.NewConfig().DSN())
	if err != nil {
		zl.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	ctx := context.Background()
	if err := conn.PingContext(ctx); err != nil {
		zl.Fatal("Failed to ping database", zap.Error(err))
	}

	if _, err := migrations.Run(ctx, conn, migrations.Files, zl); err != nil {
		zl.Fatal("Migration failed", zap.Error(err))
	}
}
