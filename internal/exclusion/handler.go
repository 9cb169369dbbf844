package exclusion

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ninguard/ninguard/internal/identity"
)

// Handler exposes the exclusion engine over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs an exclusion HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// VerifyNIN runs the verification state machine for the authenticated caller.
func (h *Handler) VerifyNIN(c *fiber.Ctx) error {
	id, _ := c.Locals("identity_id").(string)
	if id == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	rec, err := h.service.Verify(c.UserContext(), id)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrNotFound):
			return fiber.NewError(http.StatusNotFound, identity.ErrNotFound.Error())
		case errors.Is(err, ErrAlreadyVerified):
			return fiber.NewError(http.StatusConflict, ErrAlreadyVerified.Error())
		case errors.Is(err, ErrVerificationFailed):
			return fiber.NewError(http.StatusUnprocessableEntity, ErrVerificationFailed.Error())
		default:
			return err
		}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "NIN verified successfully",
		"data": fiber.Map{
			"id":                 rec.ID,
			"nin":                rec.NIN,
			"verificationStatus": string(rec.VerificationStatus),
		},
	})
}

type blockRequest struct {
	Duration int    `json:"duration"`
	Reason   string `json:"reason"`
}

// RequestBlock activates a self-exclusion window for the authenticated caller.
func (h *Handler) RequestBlock(c *fiber.Ctx) error {
	id, _ := c.Locals("identity_id").(string)
	if id == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	var req blockRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	rec, err := h.service.RequestBlock(c.UserContext(), id, req.Duration, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidArgument):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, identity.ErrNotFound):
			return fiber.NewError(http.StatusNotFound, identity.ErrNotFound.Error())
		default:
			return err
		}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "self-block activated",
		"data": fiber.Map{
			"blockedUntil": rec.BlockedUntil,
			"reason":       rec.BlockReason,
		},
	})
}

type checkRequest struct {
	NIN string `json:"nin"`
}

// CheckExclusion is the partner-facing read path. Route wiring gates it
// behind the partner (or admin) role.
func (h *Handler) CheckExclusion(c *fiber.Ctx) error {
	var req checkRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.NIN == "" {
		return fiber.NewError(http.StatusBadRequest, "nin is required")
	}
	st, err := h.service.CheckExclusion(c.UserContext(), req.NIN)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, identity.ErrNotFound.Error())
		}
		return err
	}
	msg := "identity is allowed"
	if st.Excluded {
		msg = "identity is currently self-excluded"
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": msg,
		"data":    st,
	})
}
