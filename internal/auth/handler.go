package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ninguard/ninguard/internal/identity"
)

// CookieName is the session cookie the issuer's tokens travel in.
const CookieName = "session_token"

// cookieMaxAge may outlive the token's signature window; Resolve treats the
// signature expiry as authoritative.
const cookieMaxAge = 7 * 24 * time.Hour

// Handler exposes signin/signout endpoints.
type Handler struct {
	ids    *identity.Service
	issuer *Issuer
}

// NewHandler constructs an auth HTTP handler.
func NewHandler(ids *identity.Service, issuer *Issuer) *Handler {
	return &Handler{ids: ids, issuer: issuer}
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signin validates credentials and delivers a session token in a secure,
// http-only, cross-site cookie.
func (h *Handler) Signin(c *fiber.Ctx) error {
	var req signinRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	rec, err := h.ids.Authenticate(c.UserContext(), identity.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return fiber.NewError(http.StatusUnauthorized, identity.ErrInvalidCredentials.Error())
		}
		return err
	}

	token, _, err := h.issuer.Issue(rec.ID)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  time.Now().Add(cookieMaxAge),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
	})

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "signed in successfully",
		"data":    identity.NewResponse(rec),
	})
}

// Signout clears the session cookie. The token itself simply ages out; there
// is no server-side session state to revoke.
func (h *Handler) Signout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
	})
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "signed out successfully",
		"data":    nil,
	})
}
