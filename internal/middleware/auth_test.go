package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ninguard/ninguard/internal/auth"
	"github.com/ninguard/ninguard/internal/identity"
)

func seedWithRole(t *testing.T, repo identity.Repository, role identity.Role) identity.Identity {
	t.Helper()
	now := time.Now().UTC()
	rec := identity.Identity{
		ID:                 uuid.New().String(),
		FullName:           "Test " + string(role),
		Email:              string(role) + "@example.com",
		Phone:              "+23480" + string(role),
		CredentialHash:     []byte("hash"),
		NIN:                "1234567890" + string(role[0]),
		Role:               role,
		VerificationStatus: identity.StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := repo.Create(context.Background(), rec); err != nil {
		t.Fatalf("seed %s: %v", role, err)
	}
	return rec
}

func setupAuthApp(t *testing.T) (*fiber.App, *auth.Issuer, identity.Repository) {
	t.Helper()
	repo := identity.NewMemoryRepository()
	issuer := auth.NewIssuer("test-secret", time.Hour)

	app := fiber.New()
	protected := app.Group("", SessionAuth(issuer, repo))
	protected.Get("/me", func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	protected.Get("/partner-only", RequireRole(identity.RolePartner, identity.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	protected.Get("/admin-only", RequireRole(identity.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app, issuer, repo
}

func requestAs(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestSessionAuthRejectsMissingToken(t *testing.T) {
	app, _, _ := setupAuthApp(t)
	if status := requestAs(t, app, "/me", ""); status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
}

func TestSessionAuthRejectsUnknownIdentity(t *testing.T) {
	app, issuer, _ := setupAuthApp(t)
	token, _, err := issuer.Issue(uuid.New().String())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if status := requestAs(t, app, "/me", token); status != http.StatusUnauthorized {
		t.Fatalf("token for deleted identity: expected 401, got %d", status)
	}
}

func TestSessionAuthAcceptsBearerHeader(t *testing.T) {
	app, issuer, repo := setupAuthApp(t)
	rec := seedWithRole(t, repo, identity.RoleUser)
	token, _, err := issuer.Issue(rec.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestRequireRoleEnforcesTrustLevels(t *testing.T) {
	app, issuer, repo := setupAuthApp(t)

	tokens := map[identity.Role]string{}
	for _, role := range []identity.Role{identity.RoleUser, identity.RolePartner, identity.RoleAdmin} {
		rec := seedWithRole(t, repo, role)
		token, _, err := issuer.Issue(rec.ID)
		if err != nil {
			t.Fatalf("issue %s: %v", role, err)
		}
		tokens[role] = token
	}

	cases := []struct {
		path   string
		role   identity.Role
		expect int
	}{
		{"/partner-only", identity.RoleUser, http.StatusForbidden},
		{"/partner-only", identity.RolePartner, http.StatusOK},
		{"/partner-only", identity.RoleAdmin, http.StatusOK},
		{"/admin-only", identity.RoleUser, http.StatusForbidden},
		{"/admin-only", identity.RolePartner, http.StatusForbidden},
		{"/admin-only", identity.RoleAdmin, http.StatusOK},
	}
	for _, tc := range cases {
		if status := requestAs(t, app, tc.path, tokens[tc.role]); status != tc.expect {
			t.Fatalf("%s as %s: expected %d, got %d", tc.path, tc.role, tc.expect, status)
		}
	}
}

func TestRequireRoleFailsClosedWithoutSession(t *testing.T) {
	// RequireRole mounted without SessionAuth must deny, not default a role.
	app := fiber.New()
	app.Get("/admin-only", RequireRole(identity.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	req := httptest.NewRequest(fiber.MethodGet, "/admin-only", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
