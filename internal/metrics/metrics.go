// Package metrics holds the Prometheus collectors shared by the services
// and the HTTP layer.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TransactionsPosted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_transactions_posted_total",
			Help: "Total number of transaction postings by direction and outcome",
		},
		[]string{"direction", "status"},
	)

	BalanceQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_balance_queries_total",
			Help: "Total number of balance queries by result source",
		},
		[]string{"source"},
	)

	EventPublishErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_event_publish_errors_total",
			Help: "Total number of failed transaction event publishes",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)
)

// Handler serves the default registry in the Prometheus exposition format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
