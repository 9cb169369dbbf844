package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ninguard/ninguard/internal/auth"
	"github.com/ninguard/ninguard/internal/identity"
)

const (
	identityIDKey = "identity_id"
	roleKey       = "identity_role"
)

// SessionAuth resolves the caller's session token (cookie first, bearer
// header as fallback) into an existing identity and attaches its id and role
// to the request. Any failure along the way denies access; there is no
// default role for an unresolved identity.
func SessionAuth(issuer *auth.Issuer, repo identity.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(auth.CookieName)
		if token == "" {
			authz := c.Get(fiber.HeaderAuthorization)
			if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				token = strings.TrimSpace(authz[len("Bearer "):])
			}
		}
		if token == "" {
			return fiber.NewError(http.StatusUnauthorized, "unauthorized - no session token provided")
		}

		id, err := issuer.Resolve(token)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "unauthorized - invalid session token")
		}

		rec, err := repo.FindByID(c.UserContext(), id)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "unauthorized - unknown identity")
		}

		c.Locals(identityIDKey, rec.ID)
		c.Locals(roleKey, rec.Role)
		return c.Next()
	}
}

// RequireRole admits only callers whose resolved role is in the allowed set.
// Must run after SessionAuth; a request without a resolved role fails closed
// with 401 rather than being treated as any role at all.
func RequireRole(allowed ...identity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(roleKey).(identity.Role)
		if !ok || !role.Valid() {
			return fiber.NewError(http.StatusUnauthorized, "unauthorized")
		}
		for _, a := range allowed {
			if role == a {
				return c.Next()
			}
		}
		return fiber.NewError(http.StatusForbidden, "access denied - insufficient role")
	}
}
