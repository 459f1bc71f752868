package usecases_test

import (
	"context"
	"testing"

	"github.com/samirrijal/begiramap/internal/core/domain"
	"github.com/samirrijal/begiramap/internal/core/state"
	"github.com/samirrijal/begiramap/internal/core/usecases"
)

type syncFixture struct {
	svc       *usecases.SyncService
	terrain   *usecases.TerrainService
	engine    *fakeEngine
	store     *state.Store
	publisher *mockPublisher
}

func newSyncFixture(boundary []byte) *syncFixture {
	engine := newFakeEngine()
	store := state.New()
	terrain := usecases.NewTerrainService(engine, store, bizkaiaFence(),
		usecases.DEMSourceID, domain.DEMSourceSpec{URL: "https://tiles.example/dem.json"})
	hover := usecases.NewHoverService(engine, splitIndex(), usecases.BorderHighlightLayerID)
	publisher := &mockPublisher{}
	svc := usecases.NewSyncService(engine, store, terrain, hover, publisher, boundary)
	return &syncFixture{svc: svc, terrain: terrain, engine: engine, store: store, publisher: publisher}
}

var boundaryFixture = []byte(`{"type":"FeatureCollection","features":[]}`)

func TestStyleLoadInstallsSourcesAndLayers(t *testing.T) {
	f := newSyncFixture(boundaryFixture)
	ctx := context.Background()

	f.svc.OnStyleLoaded(ctx)

	if f.store.Loading() {
		t.Error("loading flag should clear on style load")
	}
	if !f.engine.HasSource(usecases.DEMSourceID) {
		t.Error("dem source not installed")
	}
	if !f.engine.HasSource(usecases.BoundarySourceID) {
		t.Error("boundary source not installed")
	}
	for _, layer := range []string{usecases.BorderLineLayerID, usecases.BorderHighlightLayerID, usecases.ModelLayerID} {
		if !f.engine.HasLayer(layer) {
			t.Errorf("layer %s not installed", layer)
		}
	}
}

// A second style load means the client rebuilt its engine (browser reload):
// the mirror resets, everything reinstalls, and terrain must wait for the
// new source-data event before attaching again.
func TestStyleReloadReinstallsFromScratch(t *testing.T) {
	f := newSyncFixture(boundaryFixture)
	ctx := context.Background()

	f.store.SetViewport(inBizkaia())
	f.svc.OnStyleLoaded(ctx)
	f.svc.OnSourceData(ctx, usecases.DEMSourceID)
	if !f.terrain.Active() {
		t.Fatal("terrain should be attached before the reload")
	}

	f.svc.OnStyleLoaded(ctx)

	if f.engine.resets != 2 {
		t.Fatalf("engine resets = %d, want 2", f.engine.resets)
	}
	if !f.engine.HasSource(usecases.DEMSourceID) || !f.engine.HasSource(usecases.BoundarySourceID) {
		t.Error("sources should reinstall after the reload")
	}
	if !f.engine.HasLayer(usecases.ModelLayerID) {
		t.Error("layers should reinstall after the reload")
	}
	if f.terrain.Active() {
		t.Error("terrain must wait for the new dem source before reattaching")
	}

	f.svc.OnSourceData(ctx, usecases.DEMSourceID)
	if !f.terrain.Active() {
		t.Error("terrain should reattach once the new dem source loads")
	}
}

func TestStyleLoadWithoutBoundariesDegrades(t *testing.T) {
	f := newSyncFixture(nil)
	ctx := context.Background()

	f.svc.OnStyleLoaded(ctx)

	if f.engine.HasSource(usecases.BoundarySourceID) {
		t.Error("boundary source should not install without data")
	}
	if f.engine.HasLayer(usecases.BorderHighlightLayerID) {
		t.Error("highlight layer should not install without data")
	}
	// The rest of the scene still comes up.
	if !f.engine.HasSource(usecases.DEMSourceID) {
		t.Error("dem source should still install")
	}
	if !f.engine.HasLayer(usecases.ModelLayerID) {
		t.Error("model layer should still install")
	}
}

func TestSourceDataReadiesTerrain(t *testing.T) {
	f := newSyncFixture(boundaryFixture)
	ctx := context.Background()

	f.store.SetViewport(inBizkaia())
	f.svc.OnStyleLoaded(ctx)

	// Unrelated source: no effect.
	f.svc.OnSourceData(ctx, usecases.BoundarySourceID)
	if f.terrain.Active() {
		t.Fatal("terrain should not attach before the dem source loads")
	}

	f.svc.OnSourceData(ctx, usecases.DEMSourceID)
	if !f.terrain.Active() {
		t.Fatal("terrain should attach once the dem source loads")
	}
}

func TestViewportChangeMirrorsAndPublishes(t *testing.T) {
	f := newSyncFixture(boundaryFixture)
	ctx := context.Background()

	vp := inBizkaia()
	f.svc.OnViewportChanged(ctx, vp)

	if f.store.Viewport() != vp {
		t.Errorf("store viewport = %+v, want %+v", f.store.Viewport(), vp)
	}
	if len(f.publisher.viewports) != 1 {
		t.Fatalf("published viewports = %d, want 1", len(f.publisher.viewports))
	}
}

func TestViewportChangeDrivesTerrainMachine(t *testing.T) {
	f := newSyncFixture(boundaryFixture)
	ctx := context.Background()

	f.svc.OnStyleLoaded(ctx)
	f.svc.OnSourceData(ctx, usecases.DEMSourceID)

	f.svc.OnViewportChanged(ctx, inBizkaia())
	if !f.terrain.Active() {
		t.Fatal("terrain should attach when the viewport enters the region")
	}

	f.svc.OnViewportChanged(ctx, outsideBizkaia())
	if f.terrain.Active() {
		t.Fatal("terrain should detach when the viewport leaves the region")
	}
}

func TestRenderErrorClearsLoadingAndNotifies(t *testing.T) {
	f := newSyncFixture(boundaryFixture)
	ctx := context.Background()

	f.svc.OnRenderError(ctx, "style fetch failed")

	if f.store.Loading() {
		t.Error("loading flag should clear on render error")
	}
	if len(f.publisher.notices) != 1 {
		t.Fatalf("notices = %d, want 1", len(f.publisher.notices))
	}
	if f.publisher.notices[0].Level != "error" {
		t.Errorf("notice level = %q, want error", f.publisher.notices[0].Level)
	}
}
