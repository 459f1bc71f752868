package usecases

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/samirrijal/begiramap/internal/core/domain"
	"github.com/samirrijal/begiramap/internal/core/ports"
	"github.com/samirrijal/begiramap/internal/core/state"
	"github.com/samirrijal/begiramap/internal/pkg/geospatial"
	"github.com/samirrijal/begiramap/internal/pkg/metrics"
)

// Camera framing constants. Zoom adjustments are step functions of the
// model's scale and altitude so that large or tall models stay framed;
// pitch drops when terrain is off because a flat scene centers better at a
// shallower angle.
const (
	// hitThresholdDeg is the click hit-test proximity in degree space.
	// Degree-based rather than geodesic distance is an accepted
	// approximation at Bizkaia's scale; do not generalize it.
	hitThresholdDeg = 0.0015

	baseZoomOnSelect = 17.2
	zoomFloor        = 15.0

	scaleThreshold    = 80.0
	largeScaleZoomAdj = 1.6
	smallScaleZoomAdj = 0.4

	altitudeThreshold    = 60.0
	largeAltitudeZoomAdj = 0.9
	smallAltitudeZoomAdj = 0.2

	pitchWithTerrain = 65.0
	pitchFlat        = 45.0

	selectBearing = -17.0
	flyDurationMS = 2600
)

// DefaultMarkerOffset displaces click markers from the landmark's true
// coordinate so the marker clears the 3D model footprint. The camera target
// uses the same offset so both land on the same screen location.
var DefaultMarkerOffset = domain.GeoOffset{MetersNorth: 60}

// SelectionService resolves a selection, by click hit-test or by an
// externally supplied place, into shared selection state and a single
// camera animation. At most one landmark is selected at a time; a newer
// selection simply issues a newer animation (last writer wins).
type SelectionService struct {
	engine       ports.MapEngine
	store        *state.Store
	catalog      ports.LandmarkCatalog
	terrain      *TerrainService
	publisher    ports.EventPublisher
	markerOffset domain.GeoOffset
}

// NewSelectionService creates a SelectionService.
func NewSelectionService(engine ports.MapEngine, store *state.Store, catalog ports.LandmarkCatalog, terrain *TerrainService, publisher ports.EventPublisher, markerOffset domain.GeoOffset) *SelectionService {
	return &SelectionService{
		engine:       engine,
		store:        store,
		catalog:      catalog,
		terrain:      terrain,
		publisher:    publisher,
		markerOffset: markerOffset,
	}
}

// SelectAt resolves a clicked geographic point to a landmark. The first
// catalog entry within the hit threshold wins; ties break by catalog order.
// A click that hits nothing is a no-op and returns nil.
func (s *SelectionService) SelectAt(ctx context.Context, pt domain.GeoPoint) (*domain.Landmark, error) {
	for _, lm := range s.catalog.All() {
		d := math.Hypot(pt.Lat-lm.Location.Lat, pt.Lon-lm.Location.Lon)
		if d <= hitThresholdDeg {
			metrics.SelectionsTotal.WithLabelValues("click").Inc()
			return s.apply(ctx, lm)
		}
	}
	metrics.SelectionMisses.WithLabelValues("click").Inc()
	return nil, nil
}

// SelectPlace resolves an assistant-referenced place to a known landmark by
// its name or aliases. A place that matches nothing is logged and dropped;
// it is not an error.
func (s *SelectionService) SelectPlace(ctx context.Context, place domain.Place) (*domain.Landmark, error) {
	want := normalizeName(place.Name)
	if want == "" {
		return nil, nil
	}

	for _, lm := range s.catalog.All() {
		if matchesLandmark(lm, want) {
			metrics.SelectionsTotal.WithLabelValues("assistant").Inc()
			return s.apply(ctx, lm)
		}
	}

	metrics.SelectionMisses.WithLabelValues("assistant").Inc()
	slog.Info("assistant place matched no landmark, dropped", "place", place.Name)
	return nil, nil
}

// Clear removes the current selection. Invoked by the explicit close action.
func (s *SelectionService) Clear(ctx context.Context) {
	s.store.SetSelection("")
	if s.publisher != nil {
		_ = s.publisher.PublishSelection(ctx, "")
	}
}

// apply marks the landmark selected and issues the camera animation toward
// its marker-aligned target.
func (s *SelectionService) apply(ctx context.Context, lm domain.Landmark) (*domain.Landmark, error) {
	s.store.SetSelection(lm.ID)
	if s.publisher != nil {
		_ = s.publisher.PublishSelection(ctx, lm.ID)
	}

	move := s.CameraFor(lm)
	if err := s.engine.FlyTo(move); err != nil {
		// Recoverable: the selection state is already set; the camera
		// simply stays put until the next selection.
		slog.Warn("camera animation not issued", "landmark", lm.ID, "error", err)
	}
	return &lm, nil
}

// CameraFor computes the target camera parameters for a landmark. Both
// selection entry points converge here, so a click and an assistant
// selection of the same landmark produce the same animation.
func (s *SelectionService) CameraFor(lm domain.Landmark) domain.CameraMove {
	lat, lon := geospatial.OffsetPoint(lm.Location.Lat, lm.Location.Lon,
		s.markerOffset.MetersNorth, s.markerOffset.MetersEast)

	scaleAdj := smallScaleZoomAdj
	if lm.Scale > scaleThreshold {
		scaleAdj = largeScaleZoomAdj
	}
	altAdj := smallAltitudeZoomAdj
	if lm.Altitude > altitudeThreshold {
		altAdj = largeAltitudeZoomAdj
	}
	zoom := math.Max(zoomFloor, baseZoomOnSelect-scaleAdj-altAdj)

	pitch := pitchFlat
	if s.terrain.Active() {
		pitch = pitchWithTerrain
	}

	return domain.CameraMove{
		Center:     domain.GeoPoint{Lat: lat, Lon: lon},
		Zoom:       zoom,
		Pitch:      pitch,
		Bearing:    selectBearing,
		DurationMS: flyDurationMS,
	}
}

// normalizeName folds a display name for matching: lower case, trimmed,
// accents stripped, inner whitespace collapsed.
func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = accentFolder.Replace(name)
	return strings.Join(strings.Fields(name), " ")
}

// accentFolder covers the accents that occur in Basque and Spanish names.
var accentFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u",
	"ü", "u", "ñ", "n", "à", "a", "è", "e",
)

func matchesLandmark(lm domain.Landmark, want string) bool {
	name := normalizeName(lm.Name)
	if name == want {
		return true
	}
	for _, alias := range lm.Aliases {
		if normalizeName(alias) == want {
			return true
		}
	}
	// Fall back to containment so "the guggenheim museum" still resolves.
	return strings.Contains(want, name) || strings.Contains(name, want)
}
