// Package testdb opens migrated in-memory quiz databases for tests.
package testdb

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/tgbots/bots/quiz/internal/store"
	"github.com/m3rciful/tgbots/bots/quiz/migrations"
	coredatabase "github.com/m3rciful/tgbots/core/database"
)

// Open returns a store over a fresh in-memory SQLite database with all
// migrations applied and default settings seeded.
func Open(t testing.TB) *store.Store {
	t.Helper()
	cfg := coredatabase.Config{Driver: coredatabase.DriverSQLite, Path: ":memory:"}
	db, err := coredatabase.Connect(cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := coredatabase.RunMigrations(db, cfg, migrations.FS); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := store.SettingsSeeder().Seed(context.Background(), db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return store.New(db)
}

// MustExec runs raw SQL against db and fails the test on error.
func MustExec(t testing.TB, db *sqlx.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.Exec(db.Rebind(query), args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}
