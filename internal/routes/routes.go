package routes

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/tally-ledger/tally/internal/accounts"
	"github.com/tally-ledger/tally/internal/balance"
	"github.com/tally-ledger/tally/internal/clock"
	"github.com/tally-ledger/tally/internal/config"
	"github.com/tally-ledger/tally/internal/forecast"
	"github.com/tally-ledger/tally/internal/ledger"
	"github.com/tally-ledger/tally/internal/middleware"
	"github.com/tally-ledger/tally/internal/notification"
	"github.com/tally-ledger/tally/internal/transactions"
)

// Deps aggregates shared dependencies required to wire routes. DB, Cache and
// Events may be nil in development.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Events *kafka.Writer
	Clock  clock.Clock
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though config also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}
	if d.Clock == nil {
		d.Clock = clock.System()
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	// Plain text access log in desired format: [HH:MM:SS] 200 -  145ms METHOD /path
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))

	// Health and metrics
	RegisterHealthRoutes(app, d)
	RegisterMetricsRoute(app)

	// Services and handlers
	var store ledger.Store
	if d.DB != nil {
		store = ledger.NewPostgresStore(d.DB)
	} else {
		store = ledger.NewInMemory()
	}

	var notifier notification.Notifier = notification.NewLoggerNotifier(d.Logger)
	if d.Events != nil {
		notifier = notification.NewKafkaNotifier(d.Events)
	}

	accountSvc := accounts.NewService(store, d.Clock)
	transactionSvc := transactions.NewService(store, d.Clock, notifier, d.Logger)
	balanceSvc := balance.NewService(store, forecast.LinearRegression{}, d.Clock, d.Logger)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.RequestIDFrom(c),
			"timestamp":  d.Clock.Now().Format(timestampLayout),
		})
	})

	RegisterAccountRoutes(api, accounts.NewHandler(accountSvc), balance.NewHandler(balanceSvc))

	var postingGuards []fiber.Handler
	if d.Cache != nil {
		postingGuards = append(postingGuards,
			middleware.PostingRateLimit(d.Cache, d.Cfg.PostingRateLimit, d.Logger),
			middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger),
		)
	}
	RegisterTransactionRoutes(api, transactions.NewHandler(transactionSvc), postingGuards...)

	return nil
}
