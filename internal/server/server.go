package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/tally-ledger/tally/internal/clock"
	"github.com/tally-ledger/tally/internal/config"
	"github.com/tally-ledger/tally/internal/routes"
)

// Backends holds the optional external connections the server is wired to.
type Backends struct {
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Events *kafka.Writer
}

// Server wraps the Fiber application and shared dependencies.
type Server struct {
	app *fiber.App
	cfg config.Config
}

// New instantiates the HTTP server and delegates route wiring to routes.Setup.
func New(cfg config.Config, b Backends, logger *slog.Logger) (*Server, error) {
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		DisableStartupMessage: !cfg.IsDev(),
	})

	err := routes.Setup(app, routes.Deps{
		Cfg:    cfg,
		DB:     b.DB,
		Cache:  b.Cache,
		Events: b.Events,
		Clock:  clock.System(),
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	return &Server{app: app, cfg: cfg}, nil
}

// App exposes the underlying Fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts the HTTP server.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Address())
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
