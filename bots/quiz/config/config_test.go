package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
  admin_id: 42
database:
  driver: sqlite3
  path: ":memory:"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.AdminID != 42 || cfg.Telegram.RunMode != "longpoll" {
		t.Fatalf("core config not decoded: %+v", cfg.Telegram)
	}
	if cfg.Database.Path != ":memory:" {
		t.Fatalf("database path = %q", cfg.Database.Path)
	}
	if cfg.Import.MaxRows != defaultMaxRows || cfg.Import.MaxFileBytes() != defaultMaxFileMB<<20 {
		t.Fatalf("import defaults not applied: %+v", cfg.Import)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
database:
  driver: mysql
`)
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "invalid quiz config") {
		t.Fatalf("expected validation error, got %v", err)
	}
}
