package ports

import (
	"context"

	"github.com/samirrijal/begiramap/internal/core/domain"
)

// LandmarkCatalog exposes the static landmark configuration. The catalog
// is ordered; hit-test ties are broken by iteration order.
type LandmarkCatalog interface {
	All() []domain.Landmark
	GetByID(id string) (*domain.Landmark, bool)
}

// BoundaryIndex answers which administrative boundary, if any, contains a
// point. Implementations pre-merge fragmented multi-polygon regions so a
// region code identifies exactly one entity.
type BoundaryIndex interface {
	// FindAt returns the region code under the point, or ok=false.
	FindAt(p domain.GeoPoint) (code string, ok bool)
	// Regions lists the merged regions.
	Regions() []domain.BoundaryRegion
}

// EventPublisher fans map-state events out to collaborators (the WebSocket
// relay, the assistant panel, anything else listening on the bus).
type EventPublisher interface {
	PublishEngineCommand(ctx context.Context, cmd domain.EngineCommand) error
	PublishSelection(ctx context.Context, landmarkID string) error
	PublishViewport(ctx context.Context, vp domain.Viewport) error
	PublishNotice(ctx context.Context, n domain.Notice) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// AssistantReply is what the chat collaborator returns for a prompt. Only
// the places array drives map behaviour; the reply text passes through.
type AssistantReply struct {
	Reply  string         `json:"reply"`
	Places []domain.Place `json:"places"`
}

// AssistantClient talks to the retrieval-augmented chat backend.
type AssistantClient interface {
	Ask(ctx context.Context, prompt string) (*AssistantReply, error)
}
