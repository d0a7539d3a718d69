// Package health serves the keep-alive HTTP endpoints hosting platforms probe.
package health

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/m3rciful/tgbots/core/logger"
)

// Server is a tiny fiber app answering GET / and GET /health.
type Server struct {
	app    *fiber.App
	listen string
}

// New builds the server for the given listen address.
func New(listen string) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "tgbots-health",
	})
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Bot is running")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	return &Server{app: app, listen: strings.TrimSpace(listen)}
}

// App exposes the fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start listens in the background. An empty listen address disables the server.
func (s *Server) Start() error {
	if s.listen == "" {
		logger.Health.Debug("health server disabled", slog.String("event", "health.disabled"))
		return nil
	}
	ln, err := net.Listen("tcp", s.listen)
	if err != nil {
		return err
	}
	go func() {
		if err := s.app.Listener(ln); err != nil && !errors.Is(err, net.ErrClosed) {
			logger.Health.Error("health server stopped",
				slog.String("event", "health.serve"),
				slog.String("err", err.Error()),
			)
		}
	}()
	logger.Health.Info("health server listening",
		slog.String("event", "health.listen"),
		slog.String("listen", s.listen),
	)
	return nil
}

// Shutdown stops the server and waits for in-flight requests within ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.listen == "" {
		return nil
	}
	return s.app.ShutdownWithContext(ctx)
}
