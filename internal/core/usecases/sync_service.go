package usecases

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/samirrijal/begiramap/internal/core/domain"
	"github.com/samirrijal/begiramap/internal/core/ports"
	"github.com/samirrijal/begiramap/internal/core/state"
)

// Engine source and layer identifiers shared across the state machines.
const (
	DEMSourceID            = "bizkaia-dem"
	BoundarySourceID       = "region-boundaries"
	BorderHighlightLayerID = "border-highlight"
	BorderLineLayerID      = "border-lines"
	ModelLayerID           = "landmark-models"
)

// DefaultLoadTimeout bounds how long the loading indicator may stay up
// waiting for the engine's load-completion event.
const DefaultLoadTimeout = 15 * time.Second

// SyncService orchestrates the engine lifecycle: style load, source
// readiness, viewport mirroring, and render errors. Each entry point feeds
// the state machines with the freshest inputs; stale evaluations are
// superseded, never merged.
type SyncService struct {
	engine    ports.MapEngine
	store     *state.Store
	terrain   *TerrainService
	hover     *HoverService
	publisher ports.EventPublisher

	// boundaryGeoJSON is the pre-merged boundary FeatureCollection, nil
	// when the region file failed to load (hover is then degraded).
	boundaryGeoJSON []byte

	loadTimeout time.Duration

	mu        sync.Mutex
	loadTimer *time.Timer
}

// NewSyncService creates the orchestrator. hover may be nil when boundary
// data is unavailable.
func NewSyncService(engine ports.MapEngine, store *state.Store, terrain *TerrainService, hover *HoverService, publisher ports.EventPublisher, boundaryGeoJSON []byte) *SyncService {
	return &SyncService{
		engine:          engine,
		store:           store,
		terrain:         terrain,
		hover:           hover,
		publisher:       publisher,
		boundaryGeoJSON: boundaryGeoJSON,
		loadTimeout:     DefaultLoadTimeout,
	}
}

// Start arms the load-timeout fallback: if the engine's load-completion
// event never arrives, the loading indicator is cleared anyway so the UI
// does not hang.
func (s *SyncService) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadTimer = time.AfterFunc(s.loadTimeout, func() {
		if s.store.Loading() {
			slog.Warn("engine load event missed, clearing loading indicator")
			s.store.SetLoading(false)
		}
	})
}

// OnStyleLoaded handles style-load completion. A style load means a fresh
// engine: the client dropped every source, layer, and terrain attachment,
// whether this is the first load or a browser reload mid-session. All
// mirrored engine state is discarded and everything reinstalls; terrain
// waits for the new source-data event before it may attach again.
func (s *SyncService) OnStyleLoaded(ctx context.Context) {
	s.mu.Lock()
	if s.loadTimer != nil {
		s.loadTimer.Stop()
	}
	s.mu.Unlock()
	s.store.SetLoading(false)

	s.engine.Reset()
	s.terrain.Invalidate()
	if s.hover != nil {
		s.hover.Invalidate()
	}

	if err := s.terrain.EnsureSource(ctx); err != nil {
		slog.Warn("dem source registration failed", "error", err)
	}

	s.installBoundaryLayers()
	s.installModelLayer()

	s.terrain.Evaluate(ctx)
}

// OnSourceData handles a source-data event. DEM readiness can lag behind
// style load; once the DEM source reports loaded, terrain may attach.
func (s *SyncService) OnSourceData(ctx context.Context, sourceID string) {
	if sourceID != DEMSourceID {
		return
	}
	s.terrain.MarkSourceReady()
	s.terrain.Evaluate(ctx)
}

// OnViewportChanged mirrors the newest camera snapshot into shared state,
// publishes it to collaborators, and re-runs the geofence-gated machines.
func (s *SyncService) OnViewportChanged(ctx context.Context, vp domain.Viewport) {
	s.store.SetViewport(vp)
	if s.publisher != nil {
		_ = s.publisher.PublishViewport(ctx, vp)
	}
	s.terrain.Evaluate(ctx)
}

// OnRenderError surfaces an engine-reported rendering error as a
// non-blocking notice and clears the loading indicator so the UI does not
// hang behind it.
func (s *SyncService) OnRenderError(ctx context.Context, message string) {
	slog.Error("engine render error", "message", message)
	s.store.SetLoading(false)
	if s.publisher != nil {
		_ = s.publisher.PublishNotice(ctx, domain.Notice{Level: "error", Message: message})
	}
}

func (s *SyncService) installBoundaryLayers() {
	if s.boundaryGeoJSON == nil {
		return
	}
	if !s.engine.HasSource(BoundarySourceID) {
		if err := s.engine.AddGeoJSONSource(BoundarySourceID, s.boundaryGeoJSON); err != nil {
			slog.Warn("boundary source install failed", "error", err)
			return
		}
	}
	if !s.engine.HasLayer(BorderLineLayerID) {
		_ = s.engine.AddLayer(domain.LayerSpec{
			ID:       BorderLineLayerID,
			Type:     "line",
			SourceID: BoundarySourceID,
			Paint:    map[string]any{"line-color": "#8a6d3b", "line-width": 1.2},
		})
	}
	if !s.engine.HasLayer(BorderHighlightLayerID) {
		_ = s.engine.AddLayer(domain.LayerSpec{
			ID:       BorderHighlightLayerID,
			Type:     "fill",
			SourceID: BoundarySourceID,
			Paint:    map[string]any{"fill-color": "#d4b06a", "fill-opacity": hoverHiddenOpacity},
		})
		// Start matching nothing; the hover tracker owns this filter.
		_ = s.engine.SetFilter(BorderHighlightLayerID, []any{"==", "code", ""})
	}
}

func (s *SyncService) installModelLayer() {
	if s.engine.HasLayer(ModelLayerID) {
		return
	}
	visibility := "none"
	if s.store.ModelsToggle() {
		visibility = "visible"
	}
	_ = s.engine.AddLayer(domain.LayerSpec{
		ID:       ModelLayerID,
		Type:     "model",
		SourceID: "",
		Layout:   map[string]any{"visibility": visibility},
	})
}
