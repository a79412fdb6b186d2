package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pulsewatch/pulsewatch/internal/check"
)

// RegisterCheckRoutes wires check endpoints; every operation is gated by
// the caller's bearer token.
func RegisterCheckRoutes(r fiber.Router, h *check.Handler) {
	r.Post("/checks", h.Create)
	r.Get("/checks", h.Get)
	r.Put("/checks", h.Update)
	r.Delete("/checks", h.Delete)
}
