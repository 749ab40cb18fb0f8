package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tarana-ai/taranad/internal/vectorstore"
)

// Catalog is a validated set of activities.
type Catalog struct {
	Activities []Activity `json:"activities"`
}

// Load reads a catalog from a JSON file. Every activity is validated
// and duplicate ids are rejected outright rather than last-one-wins.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates catalog JSON.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	seen := make(map[string]bool, len(c.Activities))
	for _, a := range c.Activities {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if seen[a.ID] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, a.ID)
		}
		seen[a.ID] = true
	}
	return &c, nil
}

// Records converts the whole catalog to vector store records, in
// catalog order.
func (c *Catalog) Records() []vectorstore.ActivityRecord {
	records := make([]vectorstore.ActivityRecord, len(c.Activities))
	for i, a := range c.Activities {
		records[i] = a.Record()
	}
	return records
}

// Len reports the number of activities.
func (c *Catalog) Len() int {
	return len(c.Activities)
}
