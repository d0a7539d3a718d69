// Package app wires the image-to-PDF bot.
package app

import (
	"context"
	"fmt"

	pdfconfig "github.com/m3rciful/tgbots/bots/pdf/config"
	"github.com/m3rciful/tgbots/bots/pdf/internal/handlers"
	"github.com/m3rciful/tgbots/bots/pdf/internal/pdf"
	"github.com/m3rciful/tgbots/bots/pdf/internal/session"
	"github.com/m3rciful/tgbots/core/cmd"
	"github.com/m3rciful/tgbots/core/logger"
	coretelegram "github.com/m3rciful/tgbots/core/telegram"
	"github.com/m3rciful/tgbots/core/telegram/router"

	tele "gopkg.in/telebot.v4"
)

// App holds the wired PDF bot. It keeps no database.
type App struct {
	cfg      *pdfconfig.Config
	sessions *session.Store
	handlers *handlers.Handlers
}

// LoadConfig adapts pdfconfig.Load to cmd.Options.
func LoadConfig(path string) (cmd.ConfigCarrier, error) {
	return pdfconfig.Load(path)
}

// Bootstrap initializes logging and builds the app.
func Bootstrap(_ context.Context, carrier cmd.ConfigCarrier) (cmd.TelegramApp, error) {
	cfg, ok := carrier.(*pdfconfig.Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}
	if err := logger.InitLogger(&cfg.Config); err != nil {
		return nil, fmt.Errorf("app: logger init failed: %w", err)
	}
	return New(cfg), nil
}

// New builds the app from cfg.
func New(cfg *pdfconfig.Config) *App {
	sessions := session.New(cfg.PDF.TempDir, cfg.PDF.MaxPhotos)
	h := handlers.New(handlers.Deps{
		Sessions:     sessions,
		Options:      pdf.Options{MaxSide: cfg.PDF.MaxSide, Quality: cfg.PDF.JPEGQuality},
		MaxFileBytes: cfg.PDF.MaxFileBytes(),
	})
	return &App{cfg: cfg, sessions: sessions, handlers: h}
}

// TelegramRunOptions implements cmd.TelegramApp.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	if err := a.handlers.Register(reg); err != nil {
		return coretelegram.RunOptions{}, fmt.Errorf("app: register handlers: %w", err)
	}

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{})
	routes = append(routes, router.TextRoutes(nil, reg, router.TextOptions{
		UnknownText:     a.handlers.Text,
		UnknownDocument: a.handlers.Document,
		Media:           map[string]tele.HandlerFunc{tele.OnPhoto: a.handlers.Photo},
	})...)

	return coretelegram.RunOptions{
		Config:      &a.cfg.Config,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(&a.cfg.Config, nil),
		Routes:      routes,
		OnError: func(_ error, c tele.Context) {
			if c != nil && c.Chat() != nil {
				_ = c.Send("⚠️ Something went wrong, please try again.")
			}
		},
	}, nil
}

// Close discards sessions left over at shutdown.
func (a *App) Close() error {
	return a.sessions.Purge()
}
