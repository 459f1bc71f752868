package landmarks

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/samirrijal/begiramap/internal/core/domain"
)

// Catalog implements ports.LandmarkCatalog from a static JSON manifest.
// The manifest order is load order, and load order is hit-test priority:
// when a click is within threshold of two landmarks, the earlier entry
// wins. Curate the file accordingly.
type Catalog struct {
	landmarks []domain.Landmark
	byID      map[string]int
}

// Load reads and validates the landmark manifest.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read landmark manifest: %w", err)
	}
	return Parse(data)
}

// Parse builds a Catalog from manifest bytes.
func Parse(data []byte) (*Catalog, error) {
	var landmarks []domain.Landmark
	if err := json.Unmarshal(data, &landmarks); err != nil {
		return nil, fmt.Errorf("parse landmark manifest: %w", err)
	}
	if len(landmarks) == 0 {
		return nil, fmt.Errorf("landmark manifest is empty")
	}

	byID := make(map[string]int, len(landmarks))
	for i, lm := range landmarks {
		if lm.ID == "" {
			return nil, fmt.Errorf("landmark %d: missing id", i)
		}
		if lm.Name == "" {
			return nil, fmt.Errorf("landmark %s: missing name", lm.ID)
		}
		if lm.Location.Lat < -90 || lm.Location.Lat > 90 || lm.Location.Lon < -180 || lm.Location.Lon > 180 {
			return nil, fmt.Errorf("landmark %s: coordinates out of range", lm.ID)
		}
		if _, dup := byID[lm.ID]; dup {
			return nil, fmt.Errorf("landmark %s: duplicate id", lm.ID)
		}
		byID[lm.ID] = i
	}

	return &Catalog{landmarks: landmarks, byID: byID}, nil
}

// All returns the landmarks in manifest order.
func (c *Catalog) All() []domain.Landmark {
	return c.landmarks
}

// GetByID looks a landmark up by its id.
func (c *Catalog) GetByID(id string) (*domain.Landmark, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &c.landmarks[i], true
}
