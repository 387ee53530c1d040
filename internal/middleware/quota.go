package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/storage/redis/v3"

	"priceintel/internal/config"
)

// SearchQuota limits how many searches one IP may run per hour. With a Redis
// URL configured the counters are shared across instances; without one they
// fall back to the in-process store.
func SearchQuota(cfg *config.Config) fiber.Handler {
	limiterCfg := limiter.Config{
		Max:        cfg.SearchQuota,
		Expiration: 1 * time.Hour,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"status": "error",
				"error":  "search quota exceeded, try again later",
			})
		},
	}
	if cfg.RedisURL != "" {
		limiterCfg.Storage = redis.New(redis.Config{URL: cfg.RedisURL})
	}
	return limiter.New(limiterCfg)
}
