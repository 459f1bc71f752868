package boundary

import (
	"fmt"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/samirrijal/begiramap/internal/core/domain"
)

// region is one merged administrative boundary.
type region struct {
	code  string
	name  string
	geom  orb.MultiPolygon
	bound orb.Bound
	parts int
}

// Index implements ports.BoundaryIndex over a GeoJSON boundary file.
//
// Source files ship municipalities as separate features per polygon
// fragment (exclaves, islands), all carrying the same region code. The
// index merges fragments into one multi-polygon per code at load time so
// a code identifies exactly one hoverable entity.
type Index struct {
	regions []region
	merged  []byte
}

// NewIndex parses the boundary FeatureCollection and merges fragments by
// region code. Features without a recognizable code are skipped.
func NewIndex(data []byte) (*Index, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse boundary geojson: %w", err)
	}

	byCode := make(map[string]*region)
	var order []string

	for _, f := range fc.Features {
		code := stringProp(f.Properties, "code", "natcode", "id")
		if code == "" {
			continue
		}

		var polys orb.MultiPolygon
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			polys = orb.MultiPolygon{g}
		case orb.MultiPolygon:
			polys = g
		default:
			continue
		}

		r, ok := byCode[code]
		if !ok {
			r = &region{code: code, name: stringProp(f.Properties, "name", "nameunit")}
			byCode[code] = r
			order = append(order, code)
		}
		r.geom = append(r.geom, polys...)
		r.parts += len(polys)
	}

	if len(byCode) == 0 {
		return nil, fmt.Errorf("boundary geojson contains no coded regions")
	}

	idx := &Index{regions: make([]region, 0, len(byCode))}
	for _, code := range order {
		r := byCode[code]
		r.bound = r.geom.Bound()
		idx.regions = append(idx.regions, *r)
	}

	merged, err := idx.marshalMerged()
	if err != nil {
		return nil, err
	}
	idx.merged = merged
	return idx, nil
}

// FindAt returns the region code containing the point, or ok=false. The
// bounding-box check screens out most regions before the polygon test.
func (idx *Index) FindAt(p domain.GeoPoint) (string, bool) {
	point := orb.Point{p.Lon, p.Lat}
	for i := range idx.regions {
		r := &idx.regions[i]
		if !r.bound.Contains(point) {
			continue
		}
		if planar.MultiPolygonContains(r.geom, point) {
			return r.code, true
		}
	}
	return "", false
}

// Regions lists the merged regions sorted by code.
func (idx *Index) Regions() []domain.BoundaryRegion {
	out := make([]domain.BoundaryRegion, len(idx.regions))
	for i, r := range idx.regions {
		out[i] = domain.BoundaryRegion{Code: r.code, Name: r.name, Parts: r.parts}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// MergedGeoJSON returns the post-merge FeatureCollection, one feature per
// region code, ready to install as the engine's boundary source.
func (idx *Index) MergedGeoJSON() []byte {
	return idx.merged
}

func (idx *Index) marshalMerged() ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for i := range idx.regions {
		r := &idx.regions[i]
		f := geojson.NewFeature(r.geom)
		f.Properties["code"] = r.code
		f.Properties["name"] = r.name
		fc.Append(f)
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal merged boundaries: %w", err)
	}
	return data, nil
}

func stringProp(props geojson.Properties, keys ...string) string {
	for _, k := range keys {
		if v, ok := props[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
