package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/oggyb/muzz-realtime/internal/auth"
	"github.com/oggyb/muzz-realtime/internal/config"
)

// HTTPServer serves the REST API and the websocket gateway.
type HTTPServer struct {
	addr string
	app  *fiber.App
	log  *slog.Logger
}

// NewHTTPServer mounts /health publicly and everything else behind
// auth.Middleware.
func NewHTTPServer(cfg *config.Config, log *slog.Logger, verifier *auth.Verifier, registrars ...RouteRegistrar) *HTTPServer {
	app := NewHTTPApp(log, verifier, registrars...)
	return &HTTPServer{
		addr: fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port),
		app:  app,
		log:  log,
	}
}

// NewHTTPApp builds the fiber app without binding a port.
func NewHTTPApp(log *slog.Logger, verifier *auth.Verifier, registrars ...RouteRegistrar) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
			}
			if code >= fiber.StatusInternalServerError {
				log.Error("unhandled http error", "path", c.Path(), "err", err)
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	// registered before the auth middleware so it never reaches it
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	protected := app.Group("/", auth.Middleware(verifier, log))
	for _, r := range registrars {
		r.RegisterRoutes(protected)
	}
	return app
}

// Start blocks until Stop.
func (s *HTTPServer) Start() error {
	s.log.Info("starting HTTP server", "addr", s.addr)
	return s.app.Listen(s.addr)
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
