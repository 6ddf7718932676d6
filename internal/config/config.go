package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/tropicaldog17/engage/internal/errors"
)

// DelayRange is a bounded [Min, Max] delay used to humanize automated actions.
type DelayRange struct {
	Min time.Duration
	Max time.Duration
}

// PolicyConfig carries the raw probability/delay table for the decision engine.
type PolicyConfig struct {
	LikeProbability    float64
	CommentProbability float64
	ReplyProbability   float64
	LikeDelay          DelayRange
	CommentDelay       DelayRange
	ReplyDelay         DelayRange
}

type WorkerConfig struct {
	Enabled          bool
	PollInterval     time.Duration
	BatchSize        int
	StaleAfter       time.Duration
	SnapshotInterval time.Duration
	LeaseTTL         time.Duration
	RedisAddress     string
}

type GeneratorConfig struct {
	APIKey    string
	Model     string
	Timeout   time.Duration
	MaxLength int
}

// Config is the process configuration. Every component receives the piece it
// needs explicitly; nothing reads the environment after Load.
type Config struct {
	ActorID       string
	ServerPort    string
	WebhookSecret string
	Policy        PolicyConfig
	Worker        WorkerConfig
	Generator     GeneratorConfig
}

// Load reads configuration from environment variables, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{
		ActorID:       getEnv("BOT_ACTOR_ID", ""),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		WebhookSecret: getEnv("WEBHOOK_SECRET", ""),
	}

	var err error
	p := &cfg.Policy
	if p.LikeProbability, err = getProbability("POLICY_LIKE_PROBABILITY", 0.8); err != nil {
		return nil, err
	}
	if p.CommentProbability, err = getProbability("POLICY_COMMENT_PROBABILITY", 0.4); err != nil {
		return nil, err
	}
	if p.ReplyProbability, err = getProbability("POLICY_REPLY_PROBABILITY", 0.67); err != nil {
		return nil, err
	}
	if p.LikeDelay, err = getDelayRange("POLICY_LIKE_DELAY", "30s-5m"); err != nil {
		return nil, err
	}
	if p.CommentDelay, err = getDelayRange("POLICY_COMMENT_DELAY", "2m-20m"); err != nil {
		return nil, err
	}
	if p.ReplyDelay, err = getDelayRange("POLICY_REPLY_DELAY", "1m-10m"); err != nil {
		return nil, err
	}

	w := &cfg.Worker
	w.Enabled = getEnv("WORKER_ENABLED", "false") == "true"
	w.RedisAddress = getEnv("REDIS_ADDRESS", "")
	if w.PollInterval, err = getDuration("WORKER_POLL_INTERVAL", 15*time.Second); err != nil {
		return nil, err
	}
	if w.StaleAfter, err = getDuration("WORKER_STALE_AFTER", 15*time.Minute); err != nil {
		return nil, err
	}
	if w.SnapshotInterval, err = getDuration("SNAPSHOT_INTERVAL", 24*time.Hour); err != nil {
		return nil, err
	}
	if w.LeaseTTL, err = getDuration("WORKER_LEASE_TTL", time.Minute); err != nil {
		return nil, err
	}
	if w.BatchSize, err = getInt("WORKER_BATCH_SIZE", 25); err != nil {
		return nil, err
	}

	g := &cfg.Generator
	g.APIKey = getEnv("GEMINI_API_KEY", "")
	g.Model = getEnv("GEMINI_MODEL", "gemini-2.5-flash")
	if g.Timeout, err = getDuration("GENERATOR_TIMEOUT", 20*time.Second); err != nil {
		return nil, err
	}
	if g.MaxLength, err = getInt("GENERATOR_MAX_LENGTH", 600); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ParseDelayRange parses "min-max" (for example "30s-5m") into a DelayRange.
func ParseDelayRange(s string) (DelayRange, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return DelayRange{}, fmt.Errorf("delay range %q must look like 30s-5m", s)
	}
	lo, err := time.ParseDuration(strings.TrimSpace(parts[0]))
	if err != nil {
		return DelayRange{}, fmt.Errorf("invalid minimum delay: %w", err)
	}
	hi, err := time.ParseDuration(strings.TrimSpace(parts[1]))
	if err != nil {
		return DelayRange{}, fmt.Errorf("invalid maximum delay: %w", err)
	}
	if lo < 0 || hi < lo {
		return DelayRange{}, fmt.Errorf("delay range %q must satisfy 0 <= min <= max", s)
	}
	return DelayRange{Min: lo, Max: hi}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, &apperrors.ErrValidation{Field: key, Message: "must be a positive duration"}
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, &apperrors.ErrValidation{Field: key, Message: "must be a positive integer"}
	}
	return n, nil
}

func getProbability(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	p, err := strconv.ParseFloat(raw, 64)
	if err != nil || p < 0 || p > 1 {
		return 0, &apperrors.ErrValidation{Field: key, Message: "must be a number between 0 and 1"}
	}
	return p, nil
}

func getDelayRange(key, defaultValue string) (DelayRange, error) {
	r, err := ParseDelayRange(getEnv(key, defaultValue))
	if err != nil {
		return DelayRange{}, &apperrors.ErrValidation{Field: key, Message: err.Error()}
	}
	return r, nil
}
