package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ninguard/ninguard/internal/config"
	"github.com/ninguard/ninguard/internal/logging"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	cfg := config.Config{
		AppName:        "NinGuard",
		AppEnv:         "development",
		JWTSecret:      "test-secret",
		SessionTTL:     48 * time.Hour,
		IdempotencyTTL: time.Minute,
	}
	if err := Setup(app, Deps{Cfg: cfg, Logger: logging.Discard()}); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string, cookie *http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == "session_token" {
			return c
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

const registerBody = `{"fullName":"Ada Obi","email":"ada@example.com","password":"s3cret-pass","phone":"+2348030000001","nin":"12345678901"}`

func TestSelfExclusionFlow(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, fiber.MethodPost, "/api/v1/identity/register", registerBody, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Duplicate registration collides on every unique field.
	resp = doJSON(t, app, fiber.MethodPost, "/api/v1/identity/register", registerBody, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, app, fiber.MethodPost, "/api/v1/auth/signin", `{"email":"ada@example.com","password":"s3cret-pass"}`, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signin: expected 200, got %d", resp.StatusCode)
	}
	cookie := sessionCookie(t, resp)
	resp.Body.Close()

	resp = doJSON(t, app, fiber.MethodGet, "/api/v1/identity/me", "", cookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if strings.Contains(string(body), "credentialHash") || strings.Contains(string(body), "s3cret-pass") {
		t.Fatalf("identity response must not carry credentials: %s", body)
	}

	resp = doJSON(t, app, fiber.MethodPost, "/api/v1/exclusion/verify-nin", "", cookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify-nin: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, app, fiber.MethodPost, "/api/v1/exclusion/verify-nin", "", cookie)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("re-verify: expected 409, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, app, fiber.MethodPost, "/api/v1/exclusion/block", `{"duration":3,"reason":"test"}`, cookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("block: expected 200, got %d", resp.StatusCode)
	}
	var blockEnvelope struct {
		Success bool `json:"success"`
		Data    struct {
			BlockedUntil time.Time `json:"blockedUntil"`
			Reason       string    `json:"reason"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&blockEnvelope); err != nil {
		t.Fatalf("decode block response: %v", err)
	}
	resp.Body.Close()
	if !blockEnvelope.Success || blockEnvelope.Data.Reason != "test" {
		t.Fatalf("unexpected block response: %+v", blockEnvelope)
	}
	want := time.Now().AddDate(0, 0, 3)
	if diff := blockEnvelope.Data.BlockedUntil.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Fatalf("blockedUntil drifted from now+3d by %v", diff)
	}

	// A plain user is not a partner: the query path denies, the admin
	// directory denies, and neither returns partial data.
	resp = doJSON(t, app, fiber.MethodPost, "/api/v1/exclusion/check", `{"nin":"12345678901"}`, cookie)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("check as user: expected 403, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, app, fiber.MethodGet, "/api/v1/admin/identities", "", cookie)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("admin listing as user: expected 403, got %d", resp.StatusCode)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if strings.Contains(string(body), "ada@example.com") {
		t.Fatalf("forbidden listing leaked data: %s", body)
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	app := setupApp(t)

	for _, tc := range []struct{ method, path string }{
		{fiber.MethodGet, "/api/v1/identity/me"},
		{fiber.MethodPost, "/api/v1/exclusion/verify-nin"},
		{fiber.MethodPost, "/api/v1/exclusion/block"},
		{fiber.MethodPost, "/api/v1/exclusion/check"},
		{fiber.MethodGet, "/api/v1/admin/identities"},
	} {
		resp := doJSON(t, app, tc.method, tc.path, "{}", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", tc.method, tc.path, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestBlockRequiresPositiveDuration(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, fiber.MethodPost, "/api/v1/identity/register", registerBody, nil)
	resp.Body.Close()
	resp = doJSON(t, app, fiber.MethodPost, "/api/v1/auth/signin", `{"email":"ada@example.com","password":"s3cret-pass"}`, nil)
	cookie := sessionCookie(t, resp)
	resp.Body.Close()

	for _, body := range []string{`{}`, `{"duration":0}`, `{"duration":-2}`} {
		resp = doJSON(t, app, fiber.MethodPost, "/api/v1/exclusion/block", body, cookie)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("block %s: expected 400, got %d", body, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestSignoutClearsCookie(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/signout", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signout: expected 200, got %d", resp.StatusCode)
	}
	cookie := sessionCookie(t, resp)
	resp.Body.Close()
	if cookie.Value != "" {
		t.Fatalf("expected cleared cookie, got %q", cookie.Value)
	}
}
