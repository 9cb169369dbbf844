package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ninguard/ninguard/internal/identity"
)

// RegisterIdentityRoutes wires the public identity endpoints.
func RegisterIdentityRoutes(r fiber.Router, h *identity.Handler) {
	r.Post("/identity/register", h.Register)
}
