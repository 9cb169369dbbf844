package identity

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes identity endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an identity HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	NIN      string `json:"nin"`
}

// Response is the outward identity shape. The credential hash has no field
// here on purpose.
type Response struct {
	ID                 string     `json:"id"`
	FullName           string     `json:"fullName"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone"`
	NIN                string     `json:"nin"`
	Role               string     `json:"role"`
	VerificationStatus string     `json:"verificationStatus"`
	IsBlocked          bool       `json:"isBlocked"`
	BlockedUntil       *time.Time `json:"blockedUntil,omitempty"`
	BlockReason        string     `json:"blockReason,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// NewResponse maps an identity record to its outward shape.
func NewResponse(rec Identity) Response {
	return Response{
		ID:                 rec.ID,
		FullName:           rec.FullName,
		Email:              rec.Email,
		Phone:              rec.Phone,
		NIN:                rec.NIN,
		Role:               string(rec.Role),
		VerificationStatus: string(rec.VerificationStatus),
		IsBlocked:          rec.IsBlocked,
		BlockedUntil:       rec.BlockedUntil,
		BlockReason:        rec.BlockReason,
		CreatedAt:          rec.CreatedAt,
		UpdatedAt:          rec.UpdatedAt,
	}
}

// Register handles identity onboarding.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	rec, err := h.service.Register(c.UserContext(), RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		NIN:      req.NIN,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidArgument):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrConflict):
			return fiber.NewError(http.StatusConflict, err.Error())
		default:
			return err
		}
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "identity registered successfully",
		"data":    NewResponse(rec),
	})
}

// Me returns the authenticated caller's own identity.
func (h *Handler) Me(c *fiber.Ctx) error {
	id, _ := c.Locals("identity_id").(string)
	if id == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	rec, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, ErrNotFound.Error())
		}
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "identity fetched",
		"data":    NewResponse(rec),
	})
}

// ListAll returns every identity sans credential. Route wiring gates this
// behind the admin role.
func (h *Handler) ListAll(c *fiber.Ctx) error {
	all, err := h.service.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]Response, 0, len(all))
	for _, rec := range all {
		out = append(out, NewResponse(rec))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "identities fetched",
		"data":    out,
	})
}
