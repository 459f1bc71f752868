package domain

// Landmark is a point of interest with a true geographic coordinate and
// optional 3D rendering parameters. Landmarks are loaded once from the
// static manifest and never mutated at runtime.
type Landmark struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Aliases  []string `json:"aliases,omitempty"`
	Location GeoPoint `json:"location"`
	Scale    float64  `json:"scale,omitempty"`    // model scale factor, 0 = default
	Altitude float64  `json:"altitude,omitempty"` // render altitude in metres, 0 = ground
	Asset    string   `json:"asset"`              // glTF asset reference
}

// Place is a geographic reference returned by the assistant collaborator.
// Only the name and coordinates are used to resolve a landmark; the reply
// text it came with is never inspected.
type Place struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lng"`
	Type string  `json:"type,omitempty"`
}
