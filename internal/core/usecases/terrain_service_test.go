package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/begiramap/internal/core/domain"
	"github.com/samirrijal/begiramap/internal/core/state"
	"github.com/samirrijal/begiramap/internal/core/usecases"
)

func newTerrainFixture() (*usecases.TerrainService, *fakeEngine, *state.Store) {
	engine := newFakeEngine()
	store := state.New()
	svc := usecases.NewTerrainService(engine, store, bizkaiaFence(),
		usecases.DEMSourceID, domain.DEMSourceSpec{URL: "https://tiles.example/dem.json", TileSize: 512})
	return svc, engine, store
}

func inBizkaia() domain.Viewport {
	return domain.Viewport{Center: domain.GeoPoint{Lat: 43.263, Lon: -2.935}, Zoom: 12}
}

func outsideBizkaia() domain.Viewport {
	return domain.Viewport{Center: domain.GeoPoint{Lat: 40.416, Lon: -3.703}, Zoom: 12}
}

func TestTerrainEnablesWhenAllConditionsHold(t *testing.T) {
	svc, engine, store := newTerrainFixture()
	ctx := context.Background()

	store.SetViewport(inBizkaia())
	svc.MarkSourceReady()
	svc.Evaluate(ctx)

	if svc.Status() != domain.TerrainEnabled {
		t.Fatalf("status = %v, want enabled", svc.Status())
	}
	if engine.attachCalls != 1 {
		t.Errorf("attach calls = %d, want 1", engine.attachCalls)
	}
}

func TestTerrainStaysDisabledWithoutSourceReady(t *testing.T) {
	svc, engine, store := newTerrainFixture()
	ctx := context.Background()

	store.SetViewport(inBizkaia())
	svc.Evaluate(ctx)

	if svc.Status() != domain.TerrainDisabled {
		t.Fatalf("status = %v, want disabled", svc.Status())
	}
	if engine.attachCalls != 0 {
		t.Errorf("attach calls = %d, want 0", engine.attachCalls)
	}
}

func TestTerrainStaysDisabledOutsideRegion(t *testing.T) {
	svc, engine, store := newTerrainFixture()
	ctx := context.Background()

	store.SetViewport(outsideBizkaia())
	svc.MarkSourceReady()
	svc.Evaluate(ctx)

	if svc.Status() != domain.TerrainDisabled {
		t.Fatalf("status = %v, want disabled", svc.Status())
	}
	if engine.attachCalls != 0 {
		t.Errorf("attach calls = %d, want 0", engine.attachCalls)
	}
}

func TestTerrainEvaluateIsIdempotent(t *testing.T) {
	svc, engine, store := newTerrainFixture()
	ctx := context.Background()

	store.SetViewport(inBizkaia())
	svc.MarkSourceReady()

	// Same inputs, repeated evaluation: exactly one engine mutation.
	for i := 0; i < 5; i++ {
		svc.Evaluate(ctx)
	}
	if engine.attachCalls != 1 {
		t.Errorf("attach calls after repeated evaluation = %d, want 1", engine.attachCalls)
	}

	store.SetFeatures(false)
	for i := 0; i < 5; i++ {
		svc.Evaluate(ctx)
	}
	if engine.clearCalls != 1 {
		t.Errorf("clear calls after repeated evaluation = %d, want 1", engine.clearCalls)
	}
}

func TestTerrainDisablesWhenViewportLeavesRegion(t *testing.T) {
	svc, engine, store := newTerrainFixture()
	ctx := context.Background()

	store.SetViewport(inBizkaia())
	svc.MarkSourceReady()
	svc.Evaluate(ctx)
	if svc.Status() != domain.TerrainEnabled {
		t.Fatal("precondition: terrain should be enabled inside the region")
	}

	store.SetViewport(outsideBizkaia())
	svc.Evaluate(ctx)

	if svc.Status() != domain.TerrainDisabled {
		t.Fatalf("status = %v, want disabled after leaving region", svc.Status())
	}
	if engine.clearCalls != 1 {
		t.Errorf("clear calls = %d, want 1", engine.clearCalls)
	}
}

func TestTerrainAttachRejectionIsRetriedSilently(t *testing.T) {
	svc, engine, store := newTerrainFixture()
	ctx := context.Background()

	store.SetViewport(inBizkaia())
	svc.MarkSourceReady()

	// Engine rejects the attach while the source warms up.
	engine.attachErr = errors.New("source not loaded")
	svc.Evaluate(ctx)

	if svc.Status() != domain.TerrainDisabled {
		t.Fatalf("status after rejected attach = %v, want disabled", svc.Status())
	}

	// Next qualifying event succeeds.
	engine.attachErr = nil
	svc.Evaluate(ctx)

	if svc.Status() != domain.TerrainEnabled {
		t.Fatalf("status after retry = %v, want enabled", svc.Status())
	}
	if engine.attachCalls != 2 {
		t.Errorf("attach calls = %d, want 2", engine.attachCalls)
	}
}

func TestTerrainEnsureSourceRegistersOnce(t *testing.T) {
	svc, engine, _ := newTerrainFixture()
	ctx := context.Background()

	if err := svc.EnsureSource(ctx); err != nil {
		t.Fatalf("EnsureSource: %v", err)
	}
	if err := svc.EnsureSource(ctx); err != nil {
		t.Fatalf("EnsureSource (second): %v", err)
	}
	if !engine.HasSource(usecases.DEMSourceID) {
		t.Error("dem source should be registered")
	}
}
