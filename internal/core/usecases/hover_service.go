package usecases

import (
	"context"
	"log/slog"
	"sync"

	"github.com/samirrijal/begiramap/internal/core/domain"
	"github.com/samirrijal/begiramap/internal/core/ports"
	"github.com/samirrijal/begiramap/internal/pkg/metrics"
)

const (
	hoverVisibleOpacity = 0.35
	hoverHiddenOpacity  = 0.0
	hoverCursor         = "pointer"
	defaultCursor       = ""
)

// HoverService tracks which administrative boundary the pointer is over and
// keeps the highlight layer consistent with it: the filter isolates exactly
// the hovered region's code, or matches nothing. Re-querying the hovered
// region issues no engine calls.
type HoverService struct {
	mu      sync.Mutex
	engine  ports.MapEngine
	index   ports.BoundaryIndex
	layerID string
	hovered string // region code, "" = none
}

// NewHoverService creates the hover tracker over the given highlight layer.
// A nil index means the boundary file failed to load; hover highlighting is
// then silently disabled.
func NewHoverService(engine ports.MapEngine, index ports.BoundaryIndex, layerID string) *HoverService {
	return &HoverService{engine: engine, index: index, layerID: layerID}
}

// Hovered returns the currently highlighted region code, or "".
func (s *HoverService) Hovered() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hovered
}

// PointerMove processes a pointer position over the map. It transitions the
// highlight only when the region under the pointer actually changed.
func (s *HoverService) PointerMove(ctx context.Context, pt domain.GeoPoint) {
	if s.index == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	code, ok := s.index.FindAt(pt)
	switch {
	case ok && code != s.hovered:
		s.highlight(code)
	case !ok && s.hovered != "":
		s.clear()
	}
}

// Invalidate forgets the hovered region without touching the engine. Used
// after a fresh style load, when the highlight layer was just reinstalled
// matching nothing.
func (s *HoverService) Invalidate() {
	s.mu.Lock()
	s.hovered = ""
	s.mu.Unlock()
}

// PointerLeave forcibly clears the highlight, regardless of prior state.
// Fired when the pointer exits the interactive layer entirely.
func (s *HoverService) PointerLeave(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hovered != "" {
		s.clear()
	}
}

func (s *HoverService) highlight(code string) {
	if err := s.engine.SetFilter(s.layerID, []any{"==", "code", code}); err != nil {
		slog.Warn("hover filter update failed", "code", code, "error", err)
		return
	}
	_ = s.engine.SetPaintProperty(s.layerID, "fill-opacity", hoverVisibleOpacity)
	_ = s.engine.SetCursor(hoverCursor)
	s.hovered = code
	metrics.HoverUpdates.Inc()
}

func (s *HoverService) clear() {
	if err := s.engine.SetFilter(s.layerID, []any{"==", "code", ""}); err != nil {
		slog.Warn("hover filter reset failed", "error", err)
		return
	}
	_ = s.engine.SetPaintProperty(s.layerID, "fill-opacity", hoverHiddenOpacity)
	_ = s.engine.SetCursor(defaultCursor)
	s.hovered = ""
	metrics.HoverUpdates.Inc()
}
