// Package dbtest provides throwaway databases for package tests.
package dbtest

import (
	"testing"

	"github.com/google/uuid"

	"github.com/tropicaldog17/engage/internal/db"
)

// New returns a migrated in-memory SQLite database private to the test.
func New(t testing.TB) *db.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	database, err := db.OpenSQLite(dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(database); err != nil {
		database.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})
	return database
}
