package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tally-ledger/tally/internal/metrics"
)

// RegisterMetricsRoute exposes Prometheus metrics.
func RegisterMetricsRoute(app *fiber.App) {
	app.Get("/metrics", metrics.Handler())
}
