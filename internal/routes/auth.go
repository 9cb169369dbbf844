package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ninguard/ninguard/internal/auth"
)

// RegisterAuthRoutes wires session endpoints.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	if rateLimiter != nil {
		group.Post("/signin", rateLimiter, h.Signin)
	} else {
		group.Post("/signin", h.Signin)
	}
	group.Post("/signout", h.Signout)
}
