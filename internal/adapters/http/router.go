package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"

	"github.com/acreblitz/fieldgate/internal/pkg/metrics"
)

// Provider list/get calls can chase several upstream pages; they get a longer
// budget than the 15s default.
const (
	handlerTimeout  = 15 * time.Second
	providerTimeout = 60 * time.Second
)

// SetupRoutes registers all REST routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout — fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")

	// OAuth connection lifecycle
	auth := v1.Group("/auth/:provider")
	auth.Get("/authorize", timeout.NewWithContext(AuthorizeHandler(deps), handlerTimeout))
	auth.Post("/token", timeout.NewWithContext(TokenHandler(deps), providerTimeout))
	auth.Post("/refresh", timeout.NewWithContext(RefreshHandler(deps), handlerTimeout))
	auth.Post("/revoke", timeout.NewWithContext(RevokeHandler(deps), handlerTimeout))
	auth.Get("/organizations", timeout.NewWithContext(OrganizationsHandler(deps), providerTimeout))

	// Unified provider resources
	v1.Get("/providers", ProvidersHandler(deps))
	providers := v1.Group("/providers/:provider")
	providers.Get("/fields", timeout.NewWithContext(ListFieldsHandler(deps), providerTimeout))
	providers.Get("/fields/:id", timeout.NewWithContext(GetFieldHandler(deps), providerTimeout))
	providers.Get("/fields/:id/weather", timeout.NewWithContext(FieldWeatherHandler(deps), providerTimeout))
	providers.Get("/boundaries", timeout.NewWithContext(ListBoundariesHandler(deps), providerTimeout))
	providers.Get("/boundaries/:id", timeout.NewWithContext(GetBoundaryHandler(deps), providerTimeout))
	providers.Get("/workplans", timeout.NewWithContext(ListWorkPlansHandler(deps), providerTimeout))
	providers.Get("/workplans/:id", timeout.NewWithContext(GetWorkPlanHandler(deps), providerTimeout))

	// Weather proxy (US locations, NWS)
	v1.Get("/weather/forecast", timeout.NewWithContext(WeatherForecastHandler(deps), handlerTimeout))
}
