// Package app wires the quiz bot: storage, services, gateway and handlers.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	quizconfig "github.com/m3rciful/tgbots/bots/quiz/config"
	"github.com/m3rciful/tgbots/bots/quiz/internal/gateway"
	"github.com/m3rciful/tgbots/bots/quiz/internal/handlers"
	"github.com/m3rciful/tgbots/bots/quiz/internal/importer"
	"github.com/m3rciful/tgbots/bots/quiz/internal/service"
	"github.com/m3rciful/tgbots/bots/quiz/internal/store"
	"github.com/m3rciful/tgbots/bots/quiz/migrations"
	"github.com/m3rciful/tgbots/core/bootstrap"
	"github.com/m3rciful/tgbots/core/cmd"
	"github.com/m3rciful/tgbots/core/logger"
	coretelegram "github.com/m3rciful/tgbots/core/telegram"
	"github.com/m3rciful/tgbots/core/telegram/router"
	"github.com/m3rciful/tgbots/core/telegram/state"
)

// App holds the wired quiz bot.
type App struct {
	cfg      *quizconfig.Config
	db       *sqlx.DB
	gw       *gateway.Telegram
	handlers *handlers.Handlers
	fsm      state.Manager
}

// LoadConfig adapts quizconfig.Load to cmd.Options.
func LoadConfig(path string) (cmd.ConfigCarrier, error) {
	return quizconfig.Load(path)
}

// Bootstrap connects storage and builds the service graph.
func Bootstrap(ctx context.Context, carrier cmd.ConfigCarrier) (cmd.TelegramApp, error) {
	cfg, ok := carrier.(*quizconfig.Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}

	res, err := bootstrap.Run(ctx, bootstrap.Options{
		Config:     &cfg.Config,
		Database:   cfg.Database,
		Migrations: migrations.FS,
		Seeders:    []bootstrap.Seeder{store.SettingsSeeder()},
	})
	if err != nil {
		return nil, err
	}
	return New(cfg, res.DB), nil
}

// New builds the app on an open database.
func New(cfg *quizconfig.Config, db *sqlx.DB) *App {
	ownerID := cfg.Telegram.AdminID
	st := store.New(db)
	gw := gateway.New(ownerID)
	settings := service.NewSettings(st, ownerID)
	tracker := service.NewTracker(st)
	fsm := state.NewMemoryManager()

	h := handlers.New(handlers.Deps{
		OwnerID:        ownerID,
		Users:          service.NewUsers(st, gw),
		Gate:           service.NewGate(st, settings, gw, gw),
		Navigator:      service.NewNavigator(st, tracker),
		Admin:          service.NewAdmin(st, importer.Parser{MaxRows: cfg.Import.MaxRows}),
		Settings:       settings,
		Bot:            gw,
		FSM:            fsm,
		MaxUploadBytes: cfg.Import.MaxFileBytes(),
	})
	return &App{cfg: cfg, db: db, gw: gw, handlers: h, fsm: fsm}
}

// TelegramRunOptions implements cmd.TelegramApp.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	if err := a.handlers.Register(reg); err != nil {
		return coretelegram.RunOptions{}, fmt.Errorf("app: register handlers: %w", err)
	}

	cmdOpts := router.CommandRouteOptions{
		AdminID:       a.cfg.Telegram.AdminID,
		OnAdminReject: a.handlers.AdminReject(),
	}
	routes := router.CommandRoutes(reg, cmdOpts)
	routes = append(routes, router.TextRoutes(a.fsm, reg, router.TextOptions{Commands: cmdOpts})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))

	return coretelegram.RunOptions{
		Config:      &a.cfg.Config,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(&a.cfg.Config, nil, a.handlers.Maintenance()),
		Routes:      routes,
		OnError:     a.handlers.OnError,
		OnStart: func(_ context.Context, rt coretelegram.Runtime) error {
			a.gw.Attach(rt)
			return nil
		},
		OnStop: func(_ context.Context, _ coretelegram.Runtime) error {
			a.gw.Detach()
			return nil
		},
	}, nil
}

// Close releases the database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	logger.DB.Info("closing database", slog.String("event", "db.close"))
	return a.db.Close()
}

var _ interface {
	cmd.TelegramApp
	Close() error
} = (*App)(nil)
