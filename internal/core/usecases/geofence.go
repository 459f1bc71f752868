package usecases

import (
	"github.com/samirrijal/begiramap/internal/core/domain"
)

// Geofence is the geographic envelope within which terrain rendering is
// permitted. The test is a plain bounding-box check: it runs on every
// viewport change, so it has to be cheap, and at Bizkaia's scale a box is
// indistinguishable from the real border for this purpose.
type Geofence struct {
	bounds domain.Bounds
}

// NewGeofence creates a geofence over the managed region envelope.
func NewGeofence(bounds domain.Bounds) *Geofence {
	return &Geofence{bounds: bounds}
}

// Contains reports whether the point is inside the managed region.
// Points exactly on the envelope edge count as inside.
func (g *Geofence) Contains(p domain.GeoPoint) bool {
	return g.bounds.Contains(p)
}

// ContainsViewport reports whether the viewport center is inside the
// managed region.
func (g *Geofence) ContainsViewport(vp domain.Viewport) bool {
	return g.bounds.Contains(vp.Center)
}
