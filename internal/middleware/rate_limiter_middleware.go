package middleware

import (
	"log"
	"time"

	"github.com/fadilmartias/atobs/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimiter allows max requests per client IP for the named action in a
// sliding window. Zero values fall back to 50 per minute; a negative max
// disables the limiter.
func RateLimiter(action string, max int, window time.Duration) fiber.Handler {
	if max < 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	if max == 0 {
		max = 50
	}
	if window == 0 {
		window = 1 * time.Minute
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return action + ":" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Printf("[ratelimit] %s: %s exceeded %d requests per %s", action, c.IP(), max, window)
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusTooManyRequests,
				Message: "Too many requests, please try again later",
			})
		},
		LimiterMiddleware: limiter.SlidingWindow{},
	})
}
