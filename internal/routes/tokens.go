package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pulsewatch/pulsewatch/internal/token"
)

// RegisterTokenRoutes wires token endpoints. Issuance optionally sits
// behind a rate limiter to slow credential guessing.
func RegisterTokenRoutes(r fiber.Router, h *token.Handler, rateLimiter fiber.Handler) {
	if rateLimiter != nil {
		r.Post("/tokens", rateLimiter, h.Issue)
	} else {
		r.Post("/tokens", h.Issue)
	}
	r.Get("/tokens", h.Get)
	r.Put("/tokens", h.Extend)
	r.Delete("/tokens", h.Revoke)
}
