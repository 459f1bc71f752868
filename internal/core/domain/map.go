package domain

// Viewport is a snapshot of the map camera, mirrored into shared state
// after every move. Each new snapshot supersedes the previous one; no
// history is kept.
type Viewport struct {
	Center  GeoPoint `json:"center"`
	Zoom    float64  `json:"zoom"`
	Pitch   float64  `json:"pitch"`
	Bearing float64  `json:"bearing"`
}

// CameraMove is a single timed camera animation issued to the map engine.
// A newer move supersedes any animation still in flight.
type CameraMove struct {
	Center     GeoPoint `json:"center"`
	Zoom       float64  `json:"zoom"`
	Pitch      float64  `json:"pitch"`
	Bearing    float64  `json:"bearing"`
	DurationMS int      `json:"duration_ms"`
}

// TerrainStatus is the two-state elevation terrain machine.
type TerrainStatus string

const (
	TerrainDisabled TerrainStatus = "disabled"
	TerrainEnabled  TerrainStatus = "enabled"
)

// EngineCommand is one serialized control-surface call, relayed to the
// remote render engine over the event bridge.
type EngineCommand struct {
	Op     string         `json:"op"`
	Params map[string]any `json:"params,omitempty"`
}

// Notice is a non-blocking notification surfaced to the client, used for
// transient engine errors that must not hang or interrupt the session.
type Notice struct {
	Level   string `json:"level"` // "info" | "warning" | "error"
	Message string `json:"message"`
}

// LayerSpec describes a style layer added to the engine.
type LayerSpec struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"` // "fill" | "line" | "raster" | ...
	SourceID string         `json:"source_id"`
	Paint    map[string]any `json:"paint,omitempty"`
	Layout   map[string]any `json:"layout,omitempty"`
}

// DEMSourceSpec describes a raster elevation source.
type DEMSourceSpec struct {
	URL      string `json:"url"`
	TileSize int    `json:"tile_size"`
	MaxZoom  int    `json:"max_zoom"`
}
