// Package selection curates a bounded, diverse subset of members from a
// run's day summaries. Two cooperating layers operate over the same
// candidate model: a greedy per-day/slot selector and a staged constraint
// pipeline. Their overlapping spacing semantics evolved separately and both
// are preserved.
package selection

import (
	"fmt"

	"github.com/photoatlas/memories-engine-go/internal/models"
)

// Select runs the greedy selector and then the staged filter pipeline over
// the enriched day summaries. The result is always non-nil; an empty member
// list with populated telemetry is a valid outcome.
func Select(days map[string]*models.DaySummary, home models.HomeDescriptor, opts Options) (*models.SelectionResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid selection options: %w", err)
	}
	if err := home.Validate(); err != nil {
		return nil, fmt.Errorf("invalid home descriptor: %w", err)
	}

	telemetry := make(Telemetry)
	cache := newPairCache()

	picked := newSelector(&opts, cache, telemetry).run(days)
	curated := newFilterPipeline(cache).apply(picked, &opts, telemetry)

	members := make([]string, len(curated))
	for i := range curated {
		members[i] = curated[i].ID()
	}
	return &models.SelectionResult{Members: members, Telemetry: telemetry}, nil
}
