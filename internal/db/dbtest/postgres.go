package dbtest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tropicaldog17/engage/internal/db"
	"github.com/tropicaldog17/engage/migrations"
)

// PostgresEnv enables container-backed tests. They need Docker.
const PostgresEnv = "ENGAGE_PG_TESTS"

// NewPostgres starts a PostgreSQL container, applies the SQL migrations and
// returns a connection. The test is skipped unless PostgresEnv is "1".
func NewPostgres(t *testing.T) *db.DB {
	t.Helper()
	if os.Getenv(PostgresEnv) != "1" || testing.Short() {
		t.Skip("set " + PostgresEnv + "=1 to run postgres container tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 180*time.Second)
	defer cancel()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("engage_test"),
		postgres.WithUsername("engage_user"),
		postgres.WithPassword("engage_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	database, err := db.Connect(&db.Config{
		Driver:   db.DriverPostgres,
		Host:     host,
		Port:     port.Port(),
		User:     "engage_user",
		Password: "engage_password",
		Name:     "engage_test",
		SSLMode:  "disable",
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	sqlDB, err := database.GetSQLDB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	if _, err := migrations.Run(ctx, sqlDB, migrations.Files, nil); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return database
}
