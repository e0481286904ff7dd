package middleware

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tally-ledger/tally/internal/metrics"
)

// Audit emits structured logs and request metrics for each request/response
// lifecycle event.
func Audit(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if err != nil {
			status = fiber.StatusInternalServerError
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		duration := time.Since(start)
		requestID, _ := c.Locals(requestIDHeader).(string)

		// Route template, not the raw path.
		route := c.Route().Path
		metrics.HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Method(), route).Observe(duration.Seconds())

		attrs := []any{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("duration", duration),
		}
		if requestID != "" {
			attrs = append(attrs, slog.String("request_id", requestID))
		}
		if err != nil {
			attrs = append(attrs, slog.Any("error", err))
			if status >= fiber.StatusInternalServerError {
				logger.Error("request completed", attrs...)
			} else {
				logger.Warn("request completed", attrs...)
			}
			return err
		}

		logger.Info("request completed", attrs...)
		return nil
	}
}
