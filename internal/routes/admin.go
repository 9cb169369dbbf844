package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ninguard/ninguard/internal/identity"
	"github.com/ninguard/ninguard/internal/middleware"
)

// RegisterAdminRoutes wires the administrative directory listing.
func RegisterAdminRoutes(r fiber.Router, h *identity.Handler) {
	r.Get("/admin/identities", middleware.RequireRole(identity.RoleAdmin), h.ListAll)
}
