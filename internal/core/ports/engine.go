package ports

import (
	"github.com/samirrijal/begiramap/internal/core/domain"
)

// MapEngine is the control surface of the remote render engine. State
// machines never hold engine internals; they read current engine state
// through the adapter and mutate it only when a change is needed, so that
// re-entrant evaluation stays idempotent.
type MapEngine interface {
	// HasSource reports whether a data source is registered.
	HasSource(id string) bool
	// AddRasterDEMSource registers an elevation raster source. Adding a
	// source that already exists is a no-op.
	AddRasterDEMSource(id string, spec domain.DEMSourceSpec) error
	// AddGeoJSONSource registers a GeoJSON source from raw bytes.
	AddGeoJSONSource(id string, data []byte) error

	// HasLayer reports whether a style layer exists.
	HasLayer(id string) bool
	// AddLayer adds a style layer. Adding an existing layer is a no-op.
	AddLayer(spec domain.LayerSpec) error

	// SetTerrain attaches elevation terrain from a registered DEM source.
	// Returns an error when the engine rejects the attach because the
	// source is registered but not yet usable.
	SetTerrain(sourceID string, exaggeration float64) error
	// ClearTerrain detaches elevation terrain.
	ClearTerrain() error
	// TerrainActive reports whether terrain is currently attached.
	TerrainActive() bool

	// SetFilter replaces a layer's feature filter.
	SetFilter(layerID string, filter []any) error
	// SetPaintProperty updates one paint property on a layer.
	SetPaintProperty(layerID, prop string, value any) error
	// SetLayoutProperty updates one layout property on a layer.
	SetLayoutProperty(layerID, prop string, value any) error

	// FlyTo issues a timed camera animation. A newer call supersedes any
	// animation still in flight.
	FlyTo(move domain.CameraMove) error
	// SetCursor changes the pointer cursor over the map canvas.
	SetCursor(cursor string) error
	// Resize re-fits the rendering surface to its container.
	Resize() error

	// Reset discards all known engine state. Called when the client
	// reports a fresh style load, which implicitly dropped every source,
	// layer, and terrain attachment on the engine side.
	Reset()
}
