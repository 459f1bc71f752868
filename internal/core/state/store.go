package state

import (
	"sync"

	"github.com/samirrijal/begiramap/internal/core/domain"
)

// Change identifies which part of the shared state was written.
type Change string

const (
	ChangeViewport  Change = "viewport"
	ChangeSelection Change = "selection"
	ChangeFeatures  Change = "features"
	ChangeLoading   Change = "loading"
)

// Snapshot is a copy of the whole shared state at one instant.
type Snapshot struct {
	Viewport      domain.Viewport `json:"viewport"`
	SelectedID    string          `json:"selected_id,omitempty"`
	TerrainToggle bool            `json:"terrain_toggle"`
	ModelsToggle  bool            `json:"models_toggle"`
	Loading       bool            `json:"loading"`
}

// Store is the shared mutable application state: the current viewport
// snapshot, the 3D-feature toggles, the selected landmark, and the loading
// flag. Readers get copies; writers notify subscribers after the lock is
// released so callbacks can read back without deadlocking.
type Store struct {
	mu       sync.RWMutex
	viewport domain.Viewport
	selected string
	terrain  bool
	models   bool
	loading  bool

	subMu sync.Mutex
	subs  []func(Change)
}

// New creates a Store with 3D features on and the loading flag set, which
// matches a fresh session waiting for the engine style to load.
func New() *Store {
	return &Store{terrain: true, models: true, loading: true}
}

// Subscribe registers a callback invoked after every state change.
func (s *Store) Subscribe(fn func(Change)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) notify(c Change) {
	s.subMu.Lock()
	subs := make([]func(Change), len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()
	for _, fn := range subs {
		fn(c)
	}
}

// SetViewport replaces the viewport snapshot. The previous snapshot is
// superseded; no history is kept.
func (s *Store) SetViewport(vp domain.Viewport) {
	s.mu.Lock()
	s.viewport = vp
	s.mu.Unlock()
	s.notify(ChangeViewport)
}

// Viewport returns the most recent viewport snapshot.
func (s *Store) Viewport() domain.Viewport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewport
}

// SetSelection records the selected landmark id. At most one landmark is
// selected at a time; an empty id means no selection.
func (s *Store) SetSelection(id string) {
	s.mu.Lock()
	changed := s.selected != id
	s.selected = id
	s.mu.Unlock()
	if changed {
		s.notify(ChangeSelection)
	}
}

// Selection returns the selected landmark id, or "".
func (s *Store) Selection() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// SetFeatures sets the terrain and model toggles together. The UI exposes
// them as one "3D features" switch, so they always carry the same value.
func (s *Store) SetFeatures(on bool) {
	s.mu.Lock()
	changed := s.terrain != on || s.models != on
	s.terrain = on
	s.models = on
	s.mu.Unlock()
	if changed {
		s.notify(ChangeFeatures)
	}
}

// TerrainToggle returns the user's terrain preference.
func (s *Store) TerrainToggle() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.terrain
}

// ModelsToggle returns the user's 3D model preference.
func (s *Store) ModelsToggle() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.models
}

// FeaturesEnabled reports the combined "3D features" switch state. Either
// flag being on reports as enabled.
func (s *Store) FeaturesEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.terrain || s.models
}

// SetLoading sets the loading-indicator flag.
func (s *Store) SetLoading(on bool) {
	s.mu.Lock()
	changed := s.loading != on
	s.loading = on
	s.mu.Unlock()
	if changed {
		s.notify(ChangeLoading)
	}
}

// Loading reports whether the loading indicator is showing.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Snapshot returns a copy of the full state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Viewport:      s.viewport,
		SelectedID:    s.selected,
		TerrainToggle: s.terrain,
		ModelsToggle:  s.models,
		Loading:       s.loading,
	}
}
