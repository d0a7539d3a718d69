package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNormalizeDefaults(t *testing.T) {
	cfg := &Config{Telegram: TelegramConfig{Token: "t", RunMode: " Polling "}}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run mode = %q", cfg.Telegram.RunMode)
	}
	if got := cfg.RestartDelay(); got != DefaultRestartDelay {
		t.Fatalf("restart delay = %v", got)
	}
	cfg.RestartDelaySeconds = 3
	if got := cfg.RestartDelay(); got != 3*time.Second {
		t.Fatalf("restart delay = %v", got)
	}
}

func TestNormalizeErrors(t *testing.T) {
	cases := map[string]Config{
		"no token":        {},
		"bad mode":        {Telegram: TelegramConfig{Token: "t", RunMode: "push"}},
		"webhook no url":  {Telegram: TelegramConfig{Token: "t", RunMode: "webhook"}},
		"negative admin":  {Telegram: TelegramConfig{Token: "t", AdminID: -1}},
		"negative delay":  {Telegram: TelegramConfig{Token: "t"}, RestartDelaySeconds: -1},
		"bad rate update": {Telegram: TelegramConfig{Token: "t"}, RateLimit: RateLimitConfig{ExcludeUpdates: []string{"inline"}}},
	}
	for name, cfg := range cases {
		cfg := cfg
		if err := Normalize(&cfg); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadOverlaysEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bot.yaml")
	yaml := "telegram:\n  token: from-file\n  admin_id: 1\nhealth:\n  listen: \":8080\"\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OWNER_ID", "99")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.Token != "from-file" {
		t.Fatalf("token = %q", cfg.Telegram.Token)
	}
	if cfg.Telegram.AdminID != 99 {
		t.Fatalf("admin id = %d, want env override", cfg.Telegram.AdminID)
	}
	if cfg.Health.Listen != ":8080" {
		t.Fatalf("health listen = %q", cfg.Health.Listen)
	}
}
