package geospatial

import (
	"math"
	"testing"
)

func TestOffsetPoint_Deterministic(t *testing.T) {
	lat1, lon1 := OffsetPoint(43.2687, -2.9340, 120, -45)
	lat2, lon2 := OffsetPoint(43.2687, -2.9340, 120, -45)
	if lat1 != lat2 || lon1 != lon2 {
		t.Fatalf("same input produced different output: (%v,%v) vs (%v,%v)", lat1, lon1, lat2, lon2)
	}
}

func TestOffsetPoint_SignMatchesDirection(t *testing.T) {
	baseLat, baseLon := 43.2687, -2.9340

	lat, lon := OffsetPoint(baseLat, baseLon, 100, 100)
	if lat <= baseLat {
		t.Errorf("north offset should increase latitude: got %v from %v", lat, baseLat)
	}
	if lon <= baseLon {
		t.Errorf("east offset should increase longitude: got %v from %v", lon, baseLon)
	}

	lat, lon = OffsetPoint(baseLat, baseLon, -100, -100)
	if lat >= baseLat {
		t.Errorf("south offset should decrease latitude: got %v", lat)
	}
	if lon >= baseLon {
		t.Errorf("west offset should decrease longitude: got %v", lon)
	}
}

func TestOffsetPoint_RoundTripDistance(t *testing.T) {
	// The displaced point should sit roughly as far away as the offset
	// magnitude. Spherical approximation tolerance: 1%.
	baseLat, baseLon := 43.30, -2.95
	lat, lon := OffsetPoint(baseLat, baseLon, 300, 0)

	d := Haversine(baseLat, baseLon, lat, lon)
	if math.Abs(d-300) > 3 {
		t.Errorf("expected ~300m displacement, got %.2fm", d)
	}
}

func TestOffsetPoint_MeridianConvergence(t *testing.T) {
	// The same eastward metre offset must produce a larger longitude delta
	// at a higher latitude.
	_, lonLow := OffsetPoint(10.0, 0, 0, 500)
	_, lonHigh := OffsetPoint(60.0, 0, 0, 500)
	if lonHigh <= lonLow {
		t.Errorf("expected larger lon delta at higher latitude: %v vs %v", lonHigh, lonLow)
	}
}

func TestHaversine_KnownDistance(t *testing.T) {
	// Guggenheim Bilbao to Plaza Moyua is about 560m.
	d := Haversine(43.2687, -2.9340, 43.2630, -2.9350)
	if d < 500 || d > 700 {
		t.Errorf("unexpected distance: %.0fm", d)
	}
}

func TestBoundingBox_ContainsCenter(t *testing.T) {
	minLat, minLon, maxLat, maxLon := BoundingBox(43.26, -2.93, 500)
	if 43.26 < minLat || 43.26 > maxLat || -2.93 < minLon || -2.93 > maxLon {
		t.Error("bounding box must contain its own center")
	}
}
