package landmarks

import (
	"testing"
)

const manifestFixture = `[
  {"id": "guggenheim", "name": "Guggenheim Museum", "aliases": ["The Guggenheim"], "location": {"lat": 43.2687, "lon": -2.9340}, "scale": 120, "altitude": 24, "asset": "guggenheim.glb"},
  {"id": "san-mames", "name": "San Mamés", "location": {"lat": 43.2641, "lon": -2.9494}, "scale": 150, "altitude": 80, "asset": "san_mames.glb"}
]`

func TestParsePreservesManifestOrder(t *testing.T) {
	c, err := Parse([]byte(manifestFixture))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	all := c.All()
	if len(all) != 2 {
		t.Fatalf("landmarks = %d, want 2", len(all))
	}
	if all[0].ID != "guggenheim" || all[1].ID != "san-mames" {
		t.Errorf("order = [%s %s], want manifest order", all[0].ID, all[1].ID)
	}
}

func TestGetByID(t *testing.T) {
	c, err := Parse([]byte(manifestFixture))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	lm, ok := c.GetByID("san-mames")
	if !ok || lm.Name != "San Mamés" {
		t.Errorf("GetByID(san-mames) = (%+v, %v)", lm, ok)
	}
	if _, ok := c.GetByID("nope"); ok {
		t.Error("unknown id should not resolve")
	}
}

func TestParseRejectsBadManifests(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"empty list", `[]`},
		{"missing id", `[{"name": "X", "location": {"lat": 1, "lon": 1}}]`},
		{"missing name", `[{"id": "x", "location": {"lat": 1, "lon": 1}}]`},
		{"lat out of range", `[{"id": "x", "name": "X", "location": {"lat": 91, "lon": 1}}]`},
		{"duplicate id", `[{"id": "x", "name": "X", "location": {"lat": 1, "lon": 1}}, {"id": "x", "name": "Y", "location": {"lat": 2, "lon": 2}}]`},
		{"not json", `nope`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.data)); err == nil {
				t.Error("want error, got nil")
			}
		})
	}
}
