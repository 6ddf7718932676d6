// Package app wires repositories, services and background runners from a
// loaded configuration. Both the server and engagectl build on it.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tropicaldog17/engage/internal/config"
	"github.com/tropicaldog17/engage/internal/db"
	apperrors "github.com/tropicaldog17/engage/internal/errors"
	"github.com/tropicaldog17/engage/internal/handlers"
	"github.com/tropicaldog17/engage/internal/logger"
	"github.com/tropicaldog17/engage/internal/repositories"
	"github.com/tropicaldog17/engage/internal/services"
	"github.com/tropicaldog17/engage/internal/worker"
)

// Replies used when no Gemini key is configured.
var fallbackReplies = []string{
	"Thanks for sharing this!",
	"Great point, thanks for posting.",
	"Interesting read, appreciate it.",
}

type App struct {
	Config *config.Config
	DB     *db.DB
	Logger *zap.Logger

	Queue   services.QueueService
	Engine  services.DecisionEngine
	Worker  services.ActionWorker
	Ledger  services.LedgerService
	Ranking services.RankingService
	Lease   worker.Lease
	redis   *redis.Client
	runners []*worker.Runner
}

// New builds the application graph over an open database.
func New(ctx context.Context, cfg *config.Config, database *db.DB, log *zap.Logger) (*App, error) {
	log = logger.OrNop(log)
	if cfg.ActorID == "" {
		return nil, &apperrors.ErrValidation{Field: "BOT_ACTOR_ID", Message: "is required"}
	}

	textGen, err := newTextGenerator(ctx, cfg.Generator, log)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, DB: database, Logger: log}

	actionRepo := repositories.NewScheduledActionRepository(database)
	contentRepo := repositories.NewContentRepository(database)

	a.Queue = services.NewQueueService(actionRepo, log)
	a.Engine = services.NewDecisionEngine(a.Queue, services.PolicyFromConfig(cfg.Policy), cfg.ActorID, nil, log)
	a.Worker = services.NewActionWorker(database, actionRepo, contentRepo,
		services.NewResponseGenerator(textGen, cfg.Generator.Timeout, cfg.Generator.MaxLength, log),
		services.WorkerOptions{BatchSize: cfg.Worker.BatchSize, StaleAfter: cfg.Worker.StaleAfter},
		log)
	a.Ledger = services.NewLedgerService(repositories.NewLedgerRepository(database), log)
	a.Ranking = services.NewRankingService(repositories.NewRankingRepository(database), log)

	if cfg.Worker.RedisAddress != "" {
		client, err := worker.NewRedisClient(ctx, cfg.Worker.RedisAddress)
		if err != nil {
			return nil, err
		}
		a.redis = client
		a.Lease = worker.NewRedisLease(client, cfg.Worker.LeaseTTL)
		log.Info("Using redis lease", zap.String("address", cfg.Worker.RedisAddress))
	} else {
		a.Lease = worker.NewLocalLease()
	}
	return a, nil
}

func newTextGenerator(ctx context.Context, cfg config.GeneratorConfig, log *zap.Logger) (services.TextGenerator, error) {
	if cfg.APIKey == "" {
		log.Warn("GEMINI_API_KEY not set, using canned replies")
		return services.NewStaticGenerator(fallbackReplies...), nil
	}
	gen, err := services.NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		return nil, err
	}
	log.Info("Using gemini generator", zap.String("model", cfg.Model))
	return gen, nil
}

// Handlers returns the HTTP handlers over the application services.
func (a *App) Handlers() handlers.Handlers {
	return handlers.Handlers{
		Events: handlers.NewContentEventHandler(a.Engine, a.Queue, a.Config.WebhookSecret, a.Logger),
		Ledger: handlers.NewLedgerHandler(a.Ledger, a.Ranking),
		Admin:  handlers.NewAdminHandler(a.Queue, a.Worker, a.Ranking, a.Ledger),
		Health: a.DB.Health,
	}
}

// DrainJob runs one worker pass.
func (a *App) DrainJob(ctx context.Context) error {
	report, err := a.Worker.Drain(ctx)
	if err != nil {
		return err
	}
	if report.Claimed > 0 || report.Abandoned > 0 {
		a.Logger.Info("Drain finished",
			zap.Int("claimed", report.Claimed),
			zap.Int("sent", report.Sent),
			zap.Int("failed", report.Failed),
			zap.Int("abandoned", report.Abandoned))
	}
	return nil
}

// SnapshotJob refreshes the leaderboard snapshot.
func (a *App) SnapshotJob(ctx context.Context) error {
	_, err := a.Ranking.RefreshSnapshot(ctx)
	return err
}

// Runner builds a runner for job guarded by the application lease.
func (a *App) Runner(name string, interval time.Duration, job worker.Job) *worker.Runner {
	return worker.NewRunner(name, interval, job, a.Lease, a.Logger)
}

// StartRunners starts the drain and snapshot loops. A loop with a
// non-positive interval is not started.
func (a *App) StartRunners(ctx context.Context) {
	jobs := []struct {
		name     string
		interval time.Duration
		job      worker.Job
	}{
		{"drain", a.Config.Worker.PollInterval, a.DrainJob},
		{"snapshot", a.Config.Worker.SnapshotInterval, a.SnapshotJob},
	}
	for _, j := range jobs {
		if j.interval <= 0 {
			a.Logger.Warn("Runner disabled", zap.String("runner", j.name))
			continue
		}
		r := a.Runner(j.name, j.interval, j.job)
		r.Start(ctx)
		a.runners = append(a.runners, r)
	}
}

// Close stops runners and releases the redis client. The database is owned
// by the caller.
func (a *App) Close() error {
	for _, r := range a.runners {
		r.Stop()
	}
	a.runners = nil
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			return fmt.Errorf("failed to close redis client: %w", err)
		}
	}
	return nil
}
