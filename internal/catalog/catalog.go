// Package catalog loads the bundled default plans shipped with the
// binary. The catalog is read-only: plans are loaded once at startup
// and served as-is when the database has nothing to offer.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"slateai/health-planner/internal/domain"
)

// Catalog holds the default plans keyed by plan identifier.
type Catalog struct {
	plans map[string]domain.PlanDocument
}

// Load reads the catalog file. A missing or malformed file is an error;
// the caller decides whether to run without a fallback catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	plans := make(map[string]domain.PlanDocument)
	if err := json.Unmarshal(data, &plans); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	return &Catalog{plans: plans}, nil
}

// Empty returns a catalog with no plans, used when no catalog file is
// configured.
func Empty() *Catalog {
	return &Catalog{plans: map[string]domain.PlanDocument{}}
}

// Get returns the plan for the identifier, if present.
func (c *Catalog) Get(planID string) (domain.PlanDocument, bool) {
	plan, ok := c.plans[planID]
	return plan, ok
}

// All returns a copy of the plan map so callers cannot mutate the
// catalog.
func (c *Catalog) All() map[string]domain.PlanDocument {
	out := make(map[string]domain.PlanDocument, len(c.plans))
	for id, plan := range c.plans {
		out[id] = plan
	}
	return out
}

// Len reports the number of bundled plans.
func (c *Catalog) Len() int {
	return len(c.plans)
}
