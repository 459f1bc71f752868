package state_test

import (
	"testing"

	"github.com/samirrijal/begiramap/internal/core/domain"
	"github.com/samirrijal/begiramap/internal/core/state"
)

func TestStore_ViewportSuperseded(t *testing.T) {
	s := state.New()

	s.SetViewport(domain.Viewport{Zoom: 10})
	s.SetViewport(domain.Viewport{Zoom: 12.5})

	if got := s.Viewport().Zoom; got != 12.5 {
		t.Errorf("expected latest snapshot to win, got zoom %v", got)
	}
}

func TestStore_FeaturesSetTogether(t *testing.T) {
	s := state.New()

	s.SetFeatures(false)
	if s.TerrainToggle() || s.ModelsToggle() {
		t.Error("both toggles should be off")
	}
	if s.FeaturesEnabled() {
		t.Error("features should report disabled")
	}

	s.SetFeatures(true)
	if !s.TerrainToggle() || !s.ModelsToggle() {
		t.Error("both toggles should be on")
	}
}

func TestStore_SelectionNotifiesOnChangeOnly(t *testing.T) {
	s := state.New()

	var changes []state.Change
	s.Subscribe(func(c state.Change) { changes = append(changes, c) })

	s.SetSelection("guggenheim")
	s.SetSelection("guggenheim") // same value, no notification
	s.SetSelection("")

	if len(changes) != 2 {
		t.Fatalf("expected 2 selection notifications, got %d", len(changes))
	}
	for _, c := range changes {
		if c != state.ChangeSelection {
			t.Errorf("unexpected change kind %q", c)
		}
	}
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	s := state.New()
	s.SetViewport(domain.Viewport{Center: domain.GeoPoint{Lat: 43.26, Lon: -2.93}, Zoom: 11})
	s.SetSelection("san-mames")

	snap := s.Snapshot()
	if snap.SelectedID != "san-mames" || snap.Viewport.Zoom != 11 {
		t.Errorf("snapshot mismatch: %+v", snap)
	}
	if !snap.Loading {
		t.Error("fresh session should start loading")
	}
}
