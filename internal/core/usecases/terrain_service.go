package usecases

import (
	"context"
	"log/slog"
	"sync"

	"github.com/samirrijal/begiramap/internal/core/domain"
	"github.com/samirrijal/begiramap/internal/core/ports"
	"github.com/samirrijal/begiramap/internal/core/state"
	"github.com/samirrijal/begiramap/internal/pkg/metrics"
)

// DefaultTerrainExaggeration is the vertical exaggeration applied when
// terrain is attached.
const DefaultTerrainExaggeration = 1.5

// TerrainService decides when elevation terrain is attached to the map
// engine. The decision is recomputed on every qualifying event from the
// user's terrain toggle, the geofence, and DEM source readiness. The state
// is never allowed to drift: re-evaluating with unchanged inputs issues no
// engine calls.
type TerrainService struct {
	mu     sync.Mutex
	engine ports.MapEngine
	store  *state.Store
	fence  *Geofence

	demSourceID  string
	demSpec      domain.DEMSourceSpec
	exaggeration float64

	status      domain.TerrainStatus
	sourceReady bool
}

// NewTerrainService creates the terrain state machine in the Disabled state.
func NewTerrainService(engine ports.MapEngine, store *state.Store, fence *Geofence, demSourceID string, demSpec domain.DEMSourceSpec) *TerrainService {
	return &TerrainService{
		engine:       engine,
		store:        store,
		fence:        fence,
		demSourceID:  demSourceID,
		demSpec:      demSpec,
		exaggeration: DefaultTerrainExaggeration,
		status:       domain.TerrainDisabled,
	}
}

// EnsureSource registers the DEM raster source with the engine if it is not
// already registered. Registration does not mean the source is usable yet;
// readiness arrives later as a source-data event.
func (s *TerrainService) EnsureSource(ctx context.Context) error {
	if s.engine.HasSource(s.demSourceID) {
		return nil
	}
	return s.engine.AddRasterDEMSource(s.demSourceID, s.demSpec)
}

// MarkSourceReady records that the engine reported the DEM source loaded.
func (s *TerrainService) MarkSourceReady() {
	s.mu.Lock()
	s.sourceReady = true
	s.mu.Unlock()
}

// Invalidate returns the machine to Disabled without touching the engine.
// Used after a fresh style load: the engine lost its terrain anyway, and
// the new DEM source must report ready before the next attach.
func (s *TerrainService) Invalidate() {
	s.mu.Lock()
	s.status = domain.TerrainDisabled
	s.sourceReady = false
	s.mu.Unlock()
}

// Status returns the current terrain state.
func (s *TerrainService) Status() domain.TerrainStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Active reports whether terrain is currently attached.
func (s *TerrainService) Active() bool {
	return s.Status() == domain.TerrainEnabled
}

// Evaluate recomputes the terrain state from the current inputs and issues
// at most one engine mutation. Safe to call from any event handler, any
// number of times.
//
// An attach rejected by the engine (the source is registered but not yet
// actually usable) is swallowed: the machine stays Disabled and the next
// qualifying event retries. This race is never surfaced to the user.
func (s *TerrainService) Evaluate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	toggle := s.store.TerrainToggle()
	inside := s.fence.ContainsViewport(s.store.Viewport())

	switch {
	case s.status == domain.TerrainDisabled && toggle && inside && s.sourceReady:
		if err := s.engine.SetTerrain(s.demSourceID, s.exaggeration); err != nil {
			metrics.TerrainAttachRetries.Inc()
			slog.Debug("terrain attach rejected, retrying on next evaluation", "error", err)
			return
		}
		s.status = domain.TerrainEnabled
		metrics.TerrainTransitions.WithLabelValues("enabled").Inc()

	case s.status == domain.TerrainEnabled && (!toggle || !inside):
		if err := s.engine.ClearTerrain(); err != nil {
			slog.Warn("terrain detach failed", "error", err)
		}
		s.status = domain.TerrainDisabled
		metrics.TerrainTransitions.WithLabelValues("disabled").Inc()
	}
}
