package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/samirrijal/begiramap/internal/core/domain"
	"github.com/samirrijal/begiramap/internal/core/ports"
	"github.com/samirrijal/begiramap/internal/pkg/metrics"
)

// AssistantService forwards a free-text prompt to the chat collaborator and
// drives landmark selection from the places it references. Only the places
// array matters to the map; the reply text passes through untouched.
type AssistantService struct {
	client    ports.AssistantClient
	cache     ports.CacheService
	selection *SelectionService
}

// NewAssistantService creates an AssistantService.
func NewAssistantService(client ports.AssistantClient, cache ports.CacheService, selection *SelectionService) *AssistantService {
	return &AssistantService{client: client, cache: cache, selection: selection}
}

// Ask forwards the prompt and, when the reply references a mappable place,
// selects the matching landmark. Places that match no landmark are dropped
// by the selection matcher; the reply still returns normally.
func (s *AssistantService) Ask(ctx context.Context, prompt string) (*ports.AssistantReply, *domain.Landmark, error) {
	if prompt == "" {
		return nil, nil, fmt.Errorf("prompt must not be empty")
	}

	reply, err := s.cachedAsk(ctx, prompt)
	if err != nil {
		metrics.AssistantRequests.WithLabelValues("error").Inc()
		return nil, nil, fmt.Errorf("assistant: %w", err)
	}
	metrics.AssistantRequests.WithLabelValues("ok").Inc()

	var selected *domain.Landmark
	for _, place := range reply.Places {
		lm, err := s.selection.SelectPlace(ctx, place)
		if err != nil {
			return reply, nil, err
		}
		if lm != nil {
			selected = lm
			break
		}
	}

	return reply, selected, nil
}

func (s *AssistantService) cachedAsk(ctx context.Context, prompt string) (*ports.AssistantReply, error) {
	cacheKey := "assistant:" + hashPrompt(prompt)

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var reply ports.AssistantReply
			if err := json.Unmarshal(data, &reply); err == nil {
				metrics.CacheHits.WithLabelValues("assistant").Inc()
				return &reply, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("assistant").Inc()
	}

	reply, err := s.client.Ask(ctx, prompt)
	if err != nil {
		return nil, err
	}

	// Cache for 10 minutes; the retrieval corpus behind the assistant
	// changes rarely.
	if s.cache != nil {
		if data, err := json.Marshal(reply); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}

	return reply, nil
}

func hashPrompt(prompt string) string {
	h := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(h[:8])
}
