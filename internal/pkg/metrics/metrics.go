package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "begiramap",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "begiramap",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Map-state metrics
	SelectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "begiramap",
		Subsystem: "map",
		Name:      "selections_total",
		Help:      "Total landmark selections resolved, by origin",
	}, []string{"origin"}) // "click" | "assistant"

	SelectionMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "begiramap",
		Subsystem: "map",
		Name:      "selection_misses_total",
		Help:      "Selection attempts that resolved to no landmark",
	}, []string{"origin"})

	TerrainTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "begiramap",
		Subsystem: "map",
		Name:      "terrain_transitions_total",
		Help:      "Terrain state machine transitions",
	}, []string{"to"}) // "enabled" | "disabled"

	TerrainAttachRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "begiramap",
		Subsystem: "map",
		Name:      "terrain_attach_retries_total",
		Help:      "Terrain attach calls rejected by the engine and left for retry",
	})

	HoverUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "begiramap",
		Subsystem: "map",
		Name:      "hover_updates_total",
		Help:      "Border highlight filter updates actually issued",
	})

	EngineCommands = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "begiramap",
		Subsystem: "engine",
		Name:      "commands_total",
		Help:      "Engine control-surface commands emitted over the bridge",
	}, []string{"op"})

	BoundaryLoadErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "begiramap",
		Subsystem: "boundary",
		Name:      "load_errors_total",
		Help:      "Boundary region file fetch or parse failures",
	})

	AssistantRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "begiramap",
		Subsystem: "assistant",
		Name:      "requests_total",
		Help:      "Assistant prompts forwarded, by outcome",
	}, []string{"outcome"}) // "ok" | "error"

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "begiramap",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "begiramap",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "begiramap",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
