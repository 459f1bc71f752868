package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/samirrijal/begiramap/internal/core/domain"
	"github.com/samirrijal/begiramap/internal/core/ports"
)

var errCacheMiss = errors.New("cache miss")

// --- Recording fake MapEngine ---

// fakeEngine mirrors the adapter contract: existence checks answer from
// recorded state, and every mutation is counted so tests can assert how
// many engine calls a state machine actually issued.
type fakeEngine struct {
	mu sync.Mutex

	sources map[string]bool
	layers  map[string]bool

	terrainActive bool
	attachErr     error
	attachCalls   int
	clearCalls    int

	filters     map[string][]any
	filterCalls int
	paintCalls  int
	layoutCalls int

	cursor  string
	flights []domain.CameraMove
	resizes int
	resets  int
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		sources: make(map[string]bool),
		layers:  make(map[string]bool),
		filters: make(map[string][]any),
	}
}

func (e *fakeEngine) HasSource(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sources[id]
}

func (e *fakeEngine) AddRasterDEMSource(id string, spec domain.DEMSourceSpec) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sources[id] = true
	return nil
}

func (e *fakeEngine) AddGeoJSONSource(id string, data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sources[id] = true
	return nil
}

func (e *fakeEngine) HasLayer(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.layers[id]
}

func (e *fakeEngine) AddLayer(spec domain.LayerSpec) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.layers[spec.ID] = true
	return nil
}

func (e *fakeEngine) SetTerrain(sourceID string, exaggeration float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.attachCalls++
	if e.attachErr != nil {
		return e.attachErr
	}
	e.terrainActive = true
	return nil
}

func (e *fakeEngine) ClearTerrain() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clearCalls++
	e.terrainActive = false
	return nil
}

func (e *fakeEngine) TerrainActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.terrainActive
}

func (e *fakeEngine) SetFilter(layerID string, filter []any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filterCalls++
	e.filters[layerID] = filter
	return nil
}

func (e *fakeEngine) SetPaintProperty(layerID, prop string, value any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paintCalls++
	return nil
}

func (e *fakeEngine) SetLayoutProperty(layerID, prop string, value any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.layoutCalls++
	return nil
}

func (e *fakeEngine) FlyTo(move domain.CameraMove) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.flights = append(e.flights, move)
	return nil
}

func (e *fakeEngine) SetCursor(cursor string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursor = cursor
	return nil
}

func (e *fakeEngine) Resize() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resizes++
	return nil
}

func (e *fakeEngine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resets++
	e.sources = make(map[string]bool)
	e.layers = make(map[string]bool)
	e.terrainActive = false
	e.filters = make(map[string][]any)
	e.cursor = ""
}

func (e *fakeEngine) lastFlight() (domain.CameraMove, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.flights) == 0 {
		return domain.CameraMove{}, false
	}
	return e.flights[len(e.flights)-1], true
}

// --- Mock LandmarkCatalog ---

type mockCatalog struct {
	landmarks []domain.Landmark
}

func (m *mockCatalog) All() []domain.Landmark { return m.landmarks }

func (m *mockCatalog) GetByID(id string) (*domain.Landmark, bool) {
	for i := range m.landmarks {
		if m.landmarks[i].ID == id {
			return &m.landmarks[i], true
		}
	}
	return nil, false
}

// --- Mock BoundaryIndex ---

type mockIndex struct {
	findAtFn func(p domain.GeoPoint) (string, bool)
}

func (m *mockIndex) FindAt(p domain.GeoPoint) (string, bool) {
	if m.findAtFn != nil {
		return m.findAtFn(p)
	}
	return "", false
}

func (m *mockIndex) Regions() []domain.BoundaryRegion { return nil }

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu         sync.Mutex
	selections []string
	viewports  []domain.Viewport
	notices    []domain.Notice
	commands   []domain.EngineCommand
}

func (m *mockPublisher) PublishEngineCommand(ctx context.Context, cmd domain.EngineCommand) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands = append(m.commands, cmd)
	return nil
}

func (m *mockPublisher) PublishSelection(ctx context.Context, landmarkID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selections = append(m.selections, landmarkID)
	return nil
}

func (m *mockPublisher) PublishViewport(ctx context.Context, vp domain.Viewport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.viewports = append(m.viewports, vp)
	return nil
}

func (m *mockPublisher) PublishNotice(ctx context.Context, n domain.Notice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices = append(m.notices, n)
	return nil
}

// --- Mock CacheService ---

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMockCache() *mockCache { return &mockCache{data: make(map[string][]byte)} }

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock AssistantClient ---

type mockAssistant struct {
	askFn func(ctx context.Context, prompt string) (*ports.AssistantReply, error)
	calls int
}

func (m *mockAssistant) Ask(ctx context.Context, prompt string) (*ports.AssistantReply, error) {
	m.calls++
	if m.askFn != nil {
		return m.askFn(ctx, prompt)
	}
	return &ports.AssistantReply{}, nil
}
