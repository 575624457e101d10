// Package testing provides shared fixtures and helpers for fiisentinel tests.
package testing

import (
	"path/filepath"
	"testing"

	"github.com/aristath/fiisentinel/internal/database"
	"github.com/rs/zerolog"
)

// NewTestDB creates a migrated SQLite database in the test's temp directory.
// The connection is closed by t.Cleanup.
//
// Supported schema names:
//   - "history" - applies history_schema.sql
//   - Unknown names - creates an empty database (no schema applied)
func NewTestDB(t *testing.T, name string) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), name+".db"),
		Profile: database.ProfileStandard,
		Name:    name,
	})
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database %s: %v", name, err)
		}
	})

	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}
	return db
}

// NopLogger returns a disabled logger for components under test
func NopLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}
