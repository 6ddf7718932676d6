package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/tropicaldog17/engage/docs"
	"github.com/tropicaldog17/engage/internal/app"
	"github.com/tropicaldog17/engage/internal/config"
	"github.com/tropicaldog17/engage/internal/db"
	"github.com/tropicaldog17/engage/internal/handlers"
	"github.com/tropicaldog17/engage/internal/logger"
)

// @title Engage API
// @version 1.0
// @description Engagement automation and reward ledger.
// @BasePath /api
func main() {
	_ = godotenv.Load()

	zl, err := logger.NewForEnv(os.Getenv("APP_ENV"))
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer zl.Sync()

	cfg, err := config.Load()
	if err != nil {
		zl.Fatal("Invalid configuration", zap.Error(err))
	}

	dbConfig := db.NewConfig()
	database, err := db.Connect(dbConfig)
	if err != nil {
		zl.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Health(); err != nil {
		zl.Fatal("Database health check failed", zap.Error(err))
	}
	// Postgres schemas come from cmd/migrate.
	if dbConfig.Driver == db.DriverSQLite {
		if err := db.AutoMigrate(database); err != nil {
			zl.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}
	zl.Info("Database connection established", zap.String("driver", dbConfig.Driver))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, database, zl)
	if err != nil {
		zl.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer application.Close()

	if cfg.Worker.Enabled {
		application.StartRunners(ctx)
	}

	docs.SwaggerInfo.BasePath = "/api"
	router := handlers.NewRouter(application.Handlers())

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handlers.CORS(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("Server starting", zap.String("port", cfg.ServerPort), zap.Bool("worker", cfg.Worker.Enabled))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("Server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zl.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("Graceful shutdown failed", zap.Error(err))
	}
}
