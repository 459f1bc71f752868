package engine

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/samirrijal/begiramap/internal/core/domain"
	"github.com/samirrijal/begiramap/internal/core/ports"
	"github.com/samirrijal/begiramap/internal/pkg/metrics"
)

// Bridge implements ports.MapEngine against a remote render engine. The
// actual renderer lives in the client; the bridge mirrors the engine state
// it has instructed and relays every mutation as an EngineCommand over the
// event bus. Existence checks answer from the mirror, which is what makes
// the state machines' install-once guards work without a round trip.
//
// A command that would not change the mirrored state is not emitted.
type Bridge struct {
	mu        sync.Mutex
	publisher ports.EventPublisher

	sources map[string]bool
	layers  map[string]bool

	terrainOn     bool
	terrainSource string

	filters map[string]string // layerID -> canonical filter JSON
	paints  map[string]string // layerID+prop -> canonical value JSON
	layouts map[string]string
	cursor  string
}

// NewBridge creates a Bridge relaying commands through the publisher.
func NewBridge(publisher ports.EventPublisher) *Bridge {
	return &Bridge{
		publisher: publisher,
		sources:   make(map[string]bool),
		layers:    make(map[string]bool),
		filters:   make(map[string]string),
		paints:    make(map[string]string),
		layouts:   make(map[string]string),
	}
}

// Reset drops the mirrored state. Called when the client reports a fresh
// style load, which implicitly discards all sources and layers.
func (b *Bridge) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sources = make(map[string]bool)
	b.layers = make(map[string]bool)
	b.terrainOn = false
	b.terrainSource = ""
	b.filters = make(map[string]string)
	b.paints = make(map[string]string)
	b.layouts = make(map[string]string)
	b.cursor = ""
}

func (b *Bridge) HasSource(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sources[id]
}

func (b *Bridge) AddRasterDEMSource(id string, spec domain.DEMSourceSpec) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sources[id] {
		return nil
	}
	if err := b.emit("addRasterDEMSource", map[string]any{
		"id": id, "url": spec.URL, "tile_size": spec.TileSize, "max_zoom": spec.MaxZoom,
	}); err != nil {
		return err
	}
	b.sources[id] = true
	return nil
}

func (b *Bridge) AddGeoJSONSource(id string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sources[id] {
		return nil
	}
	if err := b.emit("addGeoJSONSource", map[string]any{
		"id": id, "data": json.RawMessage(data),
	}); err != nil {
		return err
	}
	b.sources[id] = true
	return nil
}

func (b *Bridge) HasLayer(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.layers[id]
}

func (b *Bridge) AddLayer(spec domain.LayerSpec) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.layers[spec.ID] {
		return nil
	}
	params := map[string]any{
		"id": spec.ID, "type": spec.Type,
	}
	if spec.SourceID != "" {
		params["source"] = spec.SourceID
	}
	if spec.Paint != nil {
		params["paint"] = spec.Paint
	}
	if spec.Layout != nil {
		params["layout"] = spec.Layout
	}
	if err := b.emit("addLayer", params); err != nil {
		return err
	}
	b.layers[spec.ID] = true
	return nil
}

func (b *Bridge) SetTerrain(sourceID string, exaggeration float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.terrainOn && b.terrainSource == sourceID {
		return nil
	}
	if err := b.emit("setTerrain", map[string]any{
		"source": sourceID, "exaggeration": exaggeration,
	}); err != nil {
		return err
	}
	b.terrainOn = true
	b.terrainSource = sourceID
	return nil
}

func (b *Bridge) ClearTerrain() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.terrainOn {
		return nil
	}
	if err := b.emit("setTerrain", map[string]any{"source": nil}); err != nil {
		return err
	}
	b.terrainOn = false
	b.terrainSource = ""
	return nil
}

func (b *Bridge) TerrainActive() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.terrainOn
}

func (b *Bridge) SetFilter(layerID string, filter []any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := canonical(filter)
	if b.filters[layerID] == key {
		return nil
	}
	if err := b.emit("setFilter", map[string]any{
		"layer": layerID, "filter": filter,
	}); err != nil {
		return err
	}
	b.filters[layerID] = key
	return nil
}

func (b *Bridge) SetPaintProperty(layerID, prop string, value any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := canonical(value)
	if b.paints[layerID+"\x00"+prop] == key {
		return nil
	}
	if err := b.emit("setPaintProperty", map[string]any{
		"layer": layerID, "name": prop, "value": value,
	}); err != nil {
		return err
	}
	b.paints[layerID+"\x00"+prop] = key
	return nil
}

func (b *Bridge) SetLayoutProperty(layerID, prop string, value any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := canonical(value)
	if b.layouts[layerID+"\x00"+prop] == key {
		return nil
	}
	if err := b.emit("setLayoutProperty", map[string]any{
		"layer": layerID, "name": prop, "value": value,
	}); err != nil {
		return err
	}
	b.layouts[layerID+"\x00"+prop] = key
	return nil
}

// FlyTo always emits: a newer animation superseding one still in flight is
// the intended behaviour, even toward the same target.
func (b *Bridge) FlyTo(move domain.CameraMove) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.emit("flyTo", map[string]any{
		"center":   []float64{move.Center.Lon, move.Center.Lat},
		"zoom":     move.Zoom,
		"pitch":    move.Pitch,
		"bearing":  move.Bearing,
		"duration": move.DurationMS,
	})
}

func (b *Bridge) SetCursor(cursor string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cursor == cursor {
		return nil
	}
	if err := b.emit("setCursor", map[string]any{"cursor": cursor}); err != nil {
		return err
	}
	b.cursor = cursor
	return nil
}

func (b *Bridge) Resize() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.emit("resize", nil)
}

// emit relays one control-surface call. Callers hold b.mu.
func (b *Bridge) emit(op string, params map[string]any) error {
	metrics.EngineCommands.WithLabelValues(op).Inc()
	return b.publisher.PublishEngineCommand(context.Background(),
		domain.EngineCommand{Op: op, Params: params})
}

// canonical folds a value to its JSON form so equality checks survive
// interface boxing differences.
func canonical(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
