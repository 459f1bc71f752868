package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GeoOffset displaces a rendered marker from its landmark's true coordinate,
// in metres along the local north and east axes.
type GeoOffset struct {
	MetersNorth float64 `json:"meters_north"`
	MetersEast  float64 `json:"meters_east"`
}

// IsZero reports whether the offset displaces nothing.
func (o GeoOffset) IsZero() bool {
	return o.MetersNorth == 0 && o.MetersEast == 0
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether the point lies within the box.
// All four edges are inclusive.
func (b Bounds) Contains(p GeoPoint) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}
