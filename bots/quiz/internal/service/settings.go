package service

import (
	"context"
	"log/slog"

	"github.com/m3rciful/tgbots/bots/quiz/internal/models"
	"github.com/m3rciful/tgbots/bots/quiz/internal/store"
	"github.com/m3rciful/tgbots/core/logger"
)

// Settings is the process-wide key-value configuration edited from the admin panel.
type Settings struct {
	store   *store.Store
	ownerID int64
}

// NewSettings creates the settings service. ownerID is never put in maintenance.
func NewSettings(s *store.Store, ownerID int64) *Settings {
	return &Settings{store: s, ownerID: ownerID}
}

// Get returns the value of key, or "" when the key was never stored.
func (s *Settings) Get(ctx context.Context, key string) (string, error) {
	v, _, err := s.store.GetSetting(ctx, key)
	return v, err
}

// Set stores value under key.
func (s *Settings) Set(ctx context.Context, key, value string) error {
	if err := s.store.SetSetting(ctx, key, value); err != nil {
		return err
	}
	logger.LogEvent(ctx, logger.SVCQuiz, slog.LevelInfo, "settings.set",
		slog.String("key", key),
		slog.String("value", logger.SanitizeLimit(value, 64)),
	)
	return nil
}

// Enabled reports whether a flag key holds "1".
func (s *Settings) Enabled(ctx context.Context, key string) (bool, error) {
	v, err := s.Get(ctx, key)
	return v == "1", err
}

// Toggle flips a "1"/"0" flag and returns the new state. Any value other
// than "1" counts as off.
func (s *Settings) Toggle(ctx context.Context, key string) (bool, error) {
	on, err := s.Enabled(ctx, key)
	if err != nil {
		return false, err
	}
	next := "1"
	if on {
		next = "0"
	}
	if err := s.Set(ctx, key, next); err != nil {
		return false, err
	}
	return !on, nil
}

// BotActiveFor reports whether userID may use the bot right now. The owner
// always may; a storage failure keeps the bot open.
func (s *Settings) BotActiveFor(ctx context.Context, userID int64) bool {
	if s.ownerID != 0 && userID == s.ownerID {
		return true
	}
	v, ok, err := s.store.GetSetting(ctx, models.SettingBotActive)
	if err != nil {
		logger.LogEvent(ctx, logger.SVCQuiz, slog.LevelWarn, "settings.read_failed",
			slog.String("key", models.SettingBotActive),
			slog.String("err", err.Error()),
		)
		return true
	}
	return !ok || v == "1"
}

// ChannelLink returns the subscription link when it should be shown to users.
func (s *Settings) ChannelLink(ctx context.Context) string {
	show, err := s.Enabled(ctx, models.SettingShowChannelLink)
	if err != nil || !show {
		return ""
	}
	link, err := s.Get(ctx, models.SettingChannelLink)
	if err != nil {
		return ""
	}
	return link
}
