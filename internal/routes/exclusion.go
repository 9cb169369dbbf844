package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ninguard/ninguard/internal/exclusion"
	"github.com/ninguard/ninguard/internal/identity"
	"github.com/ninguard/ninguard/internal/middleware"
)

// RegisterExclusionRoutes wires the exclusion engine endpoints. The partner
// read path demands the partner role (admins pass too); self-service
// endpoints only need a session.
func RegisterExclusionRoutes(r fiber.Router, h *exclusion.Handler, d Deps) {
	group := r.Group("/exclusion")
	group.Post("/verify-nin", h.VerifyNIN)
	group.Post("/block", middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger), h.RequestBlock)
	group.Post("/check", middleware.RequireRole(identity.RolePartner, identity.RoleAdmin), h.CheckExclusion)
}
