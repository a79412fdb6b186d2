package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pulsewatch/pulsewatch/internal/user"
)

// RegisterUserRoutes wires user endpoints. Creation is open; the rest are
// authorized per identity inside the handler.
func RegisterUserRoutes(r fiber.Router, h *user.Handler) {
	r.Post("/users", h.Create)
	r.Get("/users", h.Get)
	r.Put("/users", h.Update)
	r.Delete("/users", h.Delete)
}
