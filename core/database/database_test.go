package database

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestConfigDSN(t *testing.T) {
	cases := []struct {
		cfg  Config
		want string
	}{
		{Config{}, "file:quiz_system.db?_busy_timeout=20000&_journal_mode=WAL"},
		{Config{Driver: "sqlite", Path: ":memory:", BusyTimeoutMS: 50}, "file::memory:?_busy_timeout=50"},
		{Config{Driver: "postgres", User: "u", Password: "p", Host: "h", Port: "5432", Name: "quiz"},
			"user=u password=p host=h port=5432 dbname=quiz sslmode=disable"},
	}
	for _, tc := range cases {
		if got := tc.cfg.DSN(); got != tc.want {
			t.Errorf("DSN(%+v) = %q, want %q", tc.cfg, got, tc.want)
		}
	}
}

func TestMigrateURLHidesNothingButTargetDoes(t *testing.T) {
	cfg := Config{Driver: "postgres", User: "u", Password: "s3cret", Host: "db", Port: "5432", Name: "quiz"}
	if got := cfg.MigrateURL(); got != "postgres://u:s3cret@db:5432/quiz?sslmode=disable" {
		t.Fatalf("MigrateURL = %q", got)
	}
	if strings.Contains(cfg.Target(), "s3cret") {
		t.Fatalf("Target leaks password: %q", cfg.Target())
	}
}

func TestMigrationFileHelpers(t *testing.T) {
	fsys := fstest.MapFS{
		"sqlite3/000002_b.up.sql":   {Data: []byte("")},
		"sqlite3/000001_a.up.sql":   {Data: []byte("")},
		"sqlite3/000001_a.down.sql": {Data: []byte("")},
		"sqlite3/000003_c.up.sql":   {Data: []byte("")},
		"postgres/000001_a.up.sql":  {Data: []byte("")},
	}
	files := listMigrationFiles(fsys, "sqlite3")
	if strings.Join(files, ",") != "000001_a.up.sql,000002_b.up.sql,000003_c.up.sql" {
		t.Fatalf("files = %v", files)
	}
	applied := selectApplied(files, 1, 3)
	if strings.Join(applied, ",") != "000002_b.up.sql,000003_c.up.sql" {
		t.Fatalf("applied = %v", applied)
	}
	if selectApplied(files, 3, 3) != nil {
		t.Fatal("no migrations expected when versions match")
	}
}
