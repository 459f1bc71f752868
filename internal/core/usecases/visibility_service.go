package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/samirrijal/begiramap/internal/core/ports"
	"github.com/samirrijal/begiramap/internal/core/state"
)

// DefaultResizeDelay gives the page layout time to settle (sidebar
// open/close, window resize) before the rendering surface is re-fitted.
const DefaultResizeDelay = 250 * time.Millisecond

// VisibilityService owns the combined "3D features" toggle (terrain and
// model rendering always flip together) and the delayed surface-resize
// reaction to container size changes.
type VisibilityService struct {
	mu           sync.Mutex
	engine       ports.MapEngine
	store        *state.Store
	terrain      *TerrainService
	modelLayerID string
	resizeDelay  time.Duration
	resizeTimer  *time.Timer
}

// NewVisibilityService creates the gate over the model layer.
func NewVisibilityService(engine ports.MapEngine, store *state.Store, terrain *TerrainService, modelLayerID string) *VisibilityService {
	return &VisibilityService{
		engine:       engine,
		store:        store,
		terrain:      terrain,
		modelLayerID: modelLayerID,
		resizeDelay:  DefaultResizeDelay,
	}
}

// Enabled reports the combined toggle state.
func (s *VisibilityService) Enabled() bool {
	return s.store.FeaturesEnabled()
}

// SetEnabled flips both 3D flags to the same value, updates model layer
// visibility, and re-evaluates terrain.
func (s *VisibilityService) SetEnabled(ctx context.Context, on bool) {
	s.store.SetFeatures(on)

	if s.engine.HasLayer(s.modelLayerID) {
		visibility := "none"
		if on {
			visibility = "visible"
		}
		_ = s.engine.SetLayoutProperty(s.modelLayerID, "visibility", visibility)
	}

	s.terrain.Evaluate(ctx)
}

// ContainerResized schedules a surface resize after the settle delay. A
// newer resize supersedes a pending one.
func (s *VisibilityService) ContainerResized() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.resizeTimer != nil {
		s.resizeTimer.Stop()
	}
	s.resizeTimer = time.AfterFunc(s.resizeDelay, func() {
		_ = s.engine.Resize()
	})
}
