package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"
	"github.com/samirrijal/begiramap/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // Balance speed vs compression ratio
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: pointer-move and viewport events arrive in bursts, so
	// the ceiling is higher than a CRUD API would use.
	app.Use(limiter.New(limiter.Config{
		Max:        600,
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

	// Deprecated aliases kept for older clients
	app.Use(DeprecationMiddleware([]DeprecatedRoute{
		{
			Path:        "/v1/toggle3d",
			SunsetDate:  time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
			Alternative: "/v1/features",
		},
	}))

	// Health & readiness (no timeout — fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1 — 15s per-request timeout
	v1 := app.Group("/v1")
	v1.Get("/state", timeout.NewWithContext(StateHandler(deps), 15*time.Second))
	v1.Get("/landmarks", timeout.NewWithContext(ListLandmarksHandler(deps), 15*time.Second))
	v1.Get("/landmarks/:id", timeout.NewWithContext(GetLandmarkHandler(deps), 15*time.Second))
	v1.Get("/regions", timeout.NewWithContext(ListRegionsHandler(deps), 15*time.Second))
	v1.Get("/regions/geojson", timeout.NewWithContext(RegionsGeoJSONHandler(deps), 15*time.Second))
	v1.Get("/regions/at", timeout.NewWithContext(RegionAtHandler(deps), 15*time.Second))

	v1.Post("/viewport", timeout.NewWithContext(ViewportHandler(deps), 15*time.Second))
	v1.Post("/selection/point", timeout.NewWithContext(SelectPointHandler(deps), 15*time.Second))
	v1.Post("/selection/place", timeout.NewWithContext(SelectPlaceHandler(deps), 15*time.Second))
	v1.Delete("/selection", timeout.NewWithContext(ClearSelectionHandler(deps), 15*time.Second))
	v1.Post("/hover/move", timeout.NewWithContext(HoverMoveHandler(deps), 15*time.Second))
	v1.Post("/hover/leave", timeout.NewWithContext(HoverLeaveHandler(deps), 15*time.Second))
	v1.Put("/features", timeout.NewWithContext(SetFeaturesHandler(deps), 15*time.Second))
	v1.Post("/toggle3d", timeout.NewWithContext(SetFeaturesHandler(deps), 15*time.Second))
	v1.Post("/resize", timeout.NewWithContext(ResizeHandler(deps), 15*time.Second))
	v1.Post("/engine/events", timeout.NewWithContext(EngineEventHandler(deps), 15*time.Second))

	// Assistant gets a longer window: the chat backend can be slow
	v1.Post("/assistant", timeout.NewWithContext(AssistantHandler(deps), 45*time.Second))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
