package authz

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const legacyTokenHeader = "token"

// BearerToken extracts the caller's token from the Authorization header,
// falling back to the legacy bare token header. Empty when neither is set.
func BearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[len("bearer "):])
	}
	return strings.TrimSpace(c.Get(legacyTokenHeader))
}
