package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/begiramap/internal/adapters/assistant"
	"github.com/samirrijal/begiramap/internal/adapters/boundary"
	"github.com/samirrijal/begiramap/internal/adapters/engine"
	"github.com/samirrijal/begiramap/internal/adapters/http"
	"github.com/samirrijal/begiramap/internal/adapters/landmarks"
	natsadapter "github.com/samirrijal/begiramap/internal/adapters/nats"
	"github.com/samirrijal/begiramap/internal/adapters/valkey"
	"github.com/samirrijal/begiramap/internal/core/domain"
	"github.com/samirrijal/begiramap/internal/core/ports"
	"github.com/samirrijal/begiramap/internal/core/state"
	"github.com/samirrijal/begiramap/internal/core/usecases"
	"github.com/samirrijal/begiramap/internal/pkg/config"
	"github.com/samirrijal/begiramap/internal/pkg/logging"
	"github.com/samirrijal/begiramap/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("begiramap-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Cache
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		defer cache.Close()
	}

	// NATS publisher for engine commands and map events
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer pub.Close()

	// Raw NATS connection for the WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Landmark manifest
	catalog, err := landmarks.Load(cfg.Map.LandmarkPath)
	if err != nil {
		log.Fatalf("landmarks: %v", err)
	}
	slog.Info("landmark catalog loaded", "count", len(catalog.All()))

	// Municipal boundaries. Hover highlighting degrades without them, the
	// map itself keeps working, so a load failure is not fatal.
	var boundaryIdx *boundary.Index
	if cfg.Map.BoundaryURL != "" {
		idx, err := boundary.NewLoader(cacheOrNil(cache)).Load(ctx, cfg.Map.BoundaryURL)
		if err != nil {
			slog.Warn("boundary data unavailable, hover highlighting disabled", "error", err)
		} else {
			boundaryIdx = idx
			slog.Info("boundary index built", "regions", len(idx.Regions()))
		}
	}

	// Shared map state and the engine bridge that turns mutations into
	// commands on the wire.
	store := state.New()
	bridge := engine.NewBridge(pub)

	fence := usecases.NewGeofence(cfg.Map.RegionBounds())
	terrain := usecases.NewTerrainService(bridge, store, fence, usecases.DEMSourceID, domain.DEMSourceSpec{
		URL:      cfg.Map.DEMSourceURL,
		TileSize: 512,
		MaxZoom:  14,
	})
	selection := usecases.NewSelectionService(bridge, store, catalog, terrain, pub, usecases.DefaultMarkerOffset)

	var boundaryGeoJSON []byte
	if boundaryIdx != nil {
		boundaryGeoJSON = boundaryIdx.MergedGeoJSON()
	}
	hover := usecases.NewHoverService(bridge, indexOrNil(boundaryIdx), usecases.BorderHighlightLayerID)
	syncSvc := usecases.NewSyncService(bridge, store, terrain, hover, pub, boundaryGeoJSON)
	visibility := usecases.NewVisibilityService(bridge, store, terrain, usecases.ModelLayerID)

	var assistantSvc *usecases.AssistantService
	if cfg.Assistant.URL != "" {
		client := assistant.NewClient(cfg.Assistant.URL, cfg.Assistant.APIKey)
		assistantSvc = usecases.NewAssistantService(client, cacheOrNil(cache), selection)
	}

	syncSvc.Start(ctx)

	deps := &http.Dependencies{
		State:         store,
		Sync:          syncSvc,
		Selection:     selection,
		Hover:         hover,
		Visibility:    visibility,
		Assistant:     assistantSvc,
		Landmarks:     catalog,
		Boundaries:    indexOrNil(boundaryIdx),
		RegionGeoJSON: boundaryGeoJSON,
		NATS:          natsConn,
		Cache:         cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "BegiraMap API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.begiramap.eus",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

// indexOrNil keeps a missing boundary index as a nil interface so the
// handlers' nil checks keep working.
func indexOrNil(idx *boundary.Index) ports.BoundaryIndex {
	if idx == nil {
		return nil
	}
	return idx
}

func cacheOrNil(c *valkey.Cache) ports.CacheService {
	if c == nil {
		return nil
	}
	return c
}
