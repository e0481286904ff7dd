package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const postingRateLimitPrefix = "rl:posting:"

// PostingRateLimit caps postings per account per minute using a fixed window
// counter in Redis. It must be mounted on a route with an :accountId param.
// A nil cache or a limit of zero disables it, and cache errors fail open.
func PostingRateLimit(cache *redis.Client, maxPerMin int, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cache == nil || maxPerMin <= 0 {
			return c.Next()
		}
		accountID := c.Params("accountId")
		if accountID == "" {
			return c.Next()
		}

		window := time.Now().Unix() / 60
		key := postingRateLimitPrefix + accountID + ":" + strconv.FormatInt(window, 10)

		pipe := cache.TxPipeline()
		incr := pipe.Incr(c.UserContext(), key)
		pipe.Expire(c.UserContext(), key, time.Minute)
		if _, err := pipe.Exec(c.UserContext()); err != nil {
			if logger != nil {
				logger.Warn("posting rate limit unavailable", slog.String("account_id", accountID), slog.Any("error", err))
			}
			return c.Next()
		}

		if incr.Val() > int64(maxPerMin) {
			c.Set(fiber.HeaderRetryAfter, strconv.FormatInt(60-time.Now().Unix()%60, 10))
			return fiber.NewError(http.StatusTooManyRequests, "too many postings for this account, try again later")
		}
		return c.Next()
	}
}
