package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ninguard/ninguard/internal/auth"
	"github.com/ninguard/ninguard/internal/config"
	"github.com/ninguard/ninguard/internal/exclusion"
	"github.com/ninguard/ninguard/internal/identity"
	"github.com/ninguard/ninguard/internal/middleware"
	"github.com/ninguard/ninguard/internal/notification"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though config also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	if d.Cfg.ClientOrigin != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     d.Cfg.ClientOrigin,
			AllowCredentials: true,
		}))
	}
	// Plain text access log in desired format: [HH:MM:SS] 200 -  145ms METHOD /path
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	// Health
	RegisterHealthRoutes(app, d)

	// Services and handlers
	var identityRepo identity.Repository
	if d.DB != nil {
		identityRepo = identity.NewPostgresRepository(d.DB)
	} else {
		identityRepo = identity.NewMemoryRepository()
	}
	identitySvc := identity.NewService(identityRepo)
	issuer := auth.NewIssuer(d.Cfg.JWTSecret, d.Cfg.SessionTTL)
	notifier := notification.NewLoggerNotifier(d.Logger)
	exclusionSvc := exclusion.NewService(identityRepo, exclusion.NewMockAuthority(), notifier)

	identityHandler := identity.NewHandler(identitySvc)
	authHandler := auth.NewHandler(identitySvc, issuer)
	exclusionHandler := exclusion.NewHandler(exclusionSvc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	RegisterIdentityRoutes(api, identityHandler)
	rateLimiter := middleware.SigninRateLimit(d.Cache, d.Cfg.SigninPerMin)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	// Protected routes
	sessionmw := middleware.SessionAuth(issuer, identityRepo)
	protected := api.Group("", sessionmw, middleware.Audit(d.Logger))
	protected.Get("/identity/me", identityHandler.Me)
	RegisterExclusionRoutes(protected, exclusionHandler, d)
	RegisterAdminRoutes(protected, identityHandler)

	return nil
}
