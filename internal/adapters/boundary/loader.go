package boundary

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/samirrijal/begiramap/internal/core/ports"
	"github.com/samirrijal/begiramap/internal/pkg/metrics"
)

const (
	cacheKey      = "boundary:geojson"
	cacheTTL      = 6 * 60 * 60 // seconds
	fetchTimeout  = 20 * time.Second
	maxPayloadLen = 32 << 20
)

// Loader fetches the boundary file from an HTTP URL or a local path, with
// a cache in front of the download. A load failure is survivable: the map
// comes up without hover highlighting.
type Loader struct {
	cache  ports.CacheService
	client *http.Client
}

// NewLoader creates a Loader. The cache may be nil.
func NewLoader(cache ports.CacheService) *Loader {
	return &Loader{
		cache:  cache,
		client: &http.Client{Timeout: fetchTimeout},
	}
}

// Load fetches, parses and merges the boundary file. Returns the index or
// an error; the caller decides whether to degrade or fail.
func (l *Loader) Load(ctx context.Context, location string) (*Index, error) {
	data, err := l.fetch(ctx, location)
	if err != nil {
		metrics.BoundaryLoadErrors.Inc()
		return nil, err
	}

	idx, err := NewIndex(data)
	if err != nil {
		metrics.BoundaryLoadErrors.Inc()
		return nil, err
	}

	slog.Info("boundary file loaded", "regions", len(idx.regions), "bytes", len(data))
	return idx, nil
}

func (l *Loader) fetch(ctx context.Context, location string) ([]byte, error) {
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("read boundary file: %w", err)
		}
		return data, nil
	}

	if l.cache != nil {
		if data, err := l.cache.Get(ctx, cacheKey); err == nil && len(data) > 0 {
			metrics.CacheHits.WithLabelValues("boundary").Inc()
			return data, nil
		}
		metrics.CacheMisses.WithLabelValues("boundary").Inc()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch boundary file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch boundary file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadLen))
	if err != nil {
		return nil, fmt.Errorf("read boundary response: %w", err)
	}

	if l.cache != nil {
		_ = l.cache.Set(ctx, cacheKey, data, cacheTTL)
	}
	return data, nil
}
