package http

import (
	"github.com/nats-io/nats.go"
	"github.com/samirrijal/begiramap/internal/adapters/valkey"
	"github.com/samirrijal/begiramap/internal/core/ports"
	"github.com/samirrijal/begiramap/internal/core/state"
	"github.com/samirrijal/begiramap/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	State      *state.Store
	Sync       *usecases.SyncService
	Selection  *usecases.SelectionService
	Hover      *usecases.HoverService
	Visibility *usecases.VisibilityService
	Assistant  *usecases.AssistantService
	Landmarks  ports.LandmarkCatalog
	Boundaries ports.BoundaryIndex

	// RegionGeoJSON is the merged boundary FeatureCollection served to map
	// clients; empty when boundary data failed to load.
	RegionGeoJSON []byte

	NATS  *nats.Conn
	Cache *valkey.Cache
}
