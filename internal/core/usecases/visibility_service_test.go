package usecases_test

import (
	"context"
	"testing"

	"github.com/samirrijal/begiramap/internal/core/domain"
	"github.com/samirrijal/begiramap/internal/core/state"
	"github.com/samirrijal/begiramap/internal/core/usecases"
)

func newVisibilityFixture() (*usecases.VisibilityService, *usecases.TerrainService, *fakeEngine, *state.Store) {
	engine := newFakeEngine()
	store := state.New()
	terrain := usecases.NewTerrainService(engine, store, bizkaiaFence(),
		usecases.DEMSourceID, domain.DEMSourceSpec{URL: "https://tiles.example/dem.json"})
	svc := usecases.NewVisibilityService(engine, store, terrain, usecases.ModelLayerID)
	return svc, terrain, engine, store
}

func TestSetEnabledFlipsBothFlags(t *testing.T) {
	svc, _, _, store := newVisibilityFixture()
	ctx := context.Background()

	svc.SetEnabled(ctx, false)
	if store.TerrainToggle() || store.ModelsToggle() {
		t.Error("both 3D flags should be off")
	}
	if svc.Enabled() {
		t.Error("Enabled() should report off")
	}

	svc.SetEnabled(ctx, true)
	if !store.TerrainToggle() || !store.ModelsToggle() {
		t.Error("both 3D flags should be on")
	}
}

func TestSetEnabledUpdatesModelLayerVisibility(t *testing.T) {
	svc, _, engine, _ := newVisibilityFixture()
	ctx := context.Background()

	// No layer installed yet: no layout call.
	svc.SetEnabled(ctx, false)
	if engine.layoutCalls != 0 {
		t.Errorf("layout calls before layer exists = %d, want 0", engine.layoutCalls)
	}

	engine.layers[usecases.ModelLayerID] = true
	svc.SetEnabled(ctx, true)
	if engine.layoutCalls != 1 {
		t.Errorf("layout calls = %d, want 1", engine.layoutCalls)
	}
}

func TestSetEnabledTearsDownTerrain(t *testing.T) {
	svc, terrain, engine, store := newVisibilityFixture()
	ctx := context.Background()

	store.SetViewport(inBizkaia())
	terrain.MarkSourceReady()
	terrain.Evaluate(ctx)
	if !terrain.Active() {
		t.Fatal("precondition: terrain should be active")
	}

	svc.SetEnabled(ctx, false)

	if terrain.Active() {
		t.Error("terrain should detach when 3D features are switched off")
	}
	if engine.clearCalls != 1 {
		t.Errorf("clear calls = %d, want 1", engine.clearCalls)
	}
}
