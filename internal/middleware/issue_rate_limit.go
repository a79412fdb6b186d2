package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// IssueRateLimit bounds token issuance attempts per identity (falling
// back to client IP) to slow credential guessing. Without redis it is a
// no-op, and cache errors fail open.
func IssueRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 5
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}
		var req struct {
			Identity string `json:"identity"`
		}
		_ = c.BodyParser(&req)
		subject := strings.TrimSpace(req.Identity)
		if subject == "" {
			subject = c.IP()
		}
		key := "rl:issue:" + subject
		cnt, err := cache.Incr(c.UserContext(), key).Result()
		if err != nil {
			return c.Next()
		}
		if cnt == 1 {
			cache.Expire(c.UserContext(), key, time.Minute)
		}
		if cnt > int64(maxPerMin) {
			return fiber.NewError(http.StatusTooManyRequests, "too many token requests, try again later")
		}
		return c.Next()
	}
}
