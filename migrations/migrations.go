// Package migrations holds the versioned postgres schema and applies it.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tropicaldog17/engage/internal/logger"
)

//go:embed *.sql
var Files embed.FS

// Migration is one numbered SQL file, e.g. "001_init.sql".
type Migration struct {
	ID       int
	Filename string
	Content  string
}

// Load reads numbered .sql files from fsys sorted by ID. Files without a
// numeric prefix are ignored.
func Load(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	var migrations []Migration
	seen := make(map[int]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		prefix, _, ok := strings.Cut(name, "_")
		if !ok {
			continue
		}
		id, err := strconv.Atoi(prefix)
		if err != nil {
			continue
		}
		if other, dup := seen[id]; dup {
			return nil, fmt.Errorf("migration %d defined twice: %s and %s", id, other, name)
		}
		seen[id] = name

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", name, err)
		}
		migrations = append(migrations, Migration{ID: id, Filename: name, Content: string(content)})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].ID < migrations[j].ID
	})
	return migrations, nil
}

// Pending returns the migrations newer than current.
func Pending(all []Migration, current int) []Migration {
	var out []Migration
	for _, m := range all {
		if m.ID > current {
			out = append(out, m)
		}
	}
	return out
}

// Run applies every pending migration from fsys and returns how many ran.
func Run(ctx context.Context, db *sql.DB, fsys fs.FS, log *zap.Logger) (int, error) {
	log = logger.OrNop(log)

	if err := createMigrationsTable(ctx, db); err != nil {
		return 0, fmt.Errorf("failed to create migrations table: %w", err)
	}
	current, err := CurrentVersion(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	all, err := Load(fsys)
	if err != nil {
		return 0, fmt.Errorf("failed to load migrations: %w", err)
	}

	pending := Pending(all, current)
	for _, m := range pending {
		log.Info("Running migration", zap.Int("version", m.ID), zap.String("file", m.Filename))
		if err := runMigration(ctx, db, m); err != nil {
			return 0, fmt.Errorf("failed to run migration %d: %w", m.ID, err)
		}
	}
	log.Info("Migrations complete", zap.Int("applied", len(pending)), zap.Int("from_version", current))
	return len(pending), nil
}

func createMigrationsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			filename VARCHAR(255) NOT NULL,
			executed_at TIMESTAMP DEFAULT NOW()
		)
	`)
	return err
}

// CurrentVersion is the highest applied migration, or 0.
func CurrentVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	return version, err
}

func runMigration(ctx context.Context, db *sql.DB, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.Content); err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, filename) VALUES ($1, $2)",
		m.ID, m.Filename,
	); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return tx.Commit()
}
