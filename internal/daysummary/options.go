package daysummary

import (
	"fmt"
	"strings"
)

// Options holds every threshold the enrichment pipeline uses. Zero values are
// replaced by DefaultOptions; invalid values are configuration errors and
// fail fast at pipeline construction.
type Options struct {
	// MinItemsPerDay is the photo count below which a day is treated as a
	// low-evidence gap day.
	MinItemsPerDay int

	// GPS outlier filter: points whose density cluster holds fewer than
	// OutlierMinSamples neighbors within OutlierEpsKm are dropped.
	OutlierEpsKm      float64
	OutlierMinSamples int

	// Spot clustering for exploration metrics.
	SpotEpsKm      float64
	SpotMinSamples int

	// Transport speed legs shorter than these bounds are ignored as GPS noise.
	MinLegSeconds int64
	MinLegKm      float64

	// High-speed transit flags.
	HighSpeedKmh float64
	HighTravelKm float64

	// Away-by-distance threshold used by the run detector candidate rule.
	MaxDistanceAwayKm float64

	// Cohort configuration: explicit person ids plus display names that are
	// mapped to name-derived fallback ids.
	ImportantPersons []string
	ImportantNames   []string

	// DominantStaypoints caps how many ranked staypoints a day keeps.
	DominantStaypoints int
}

// DefaultOptions returns the pipeline defaults.
func DefaultOptions() Options {
	return Options{
		MinItemsPerDay:     3,
		OutlierEpsKm:       5.0,
		OutlierMinSamples:  2,
		SpotEpsKm:          0.25,
		SpotMinSamples:     3,
		MinLegSeconds:      60,
		MinLegKm:           1.0,
		HighSpeedKmh:       100.0,
		HighTravelKm:       300.0,
		MaxDistanceAwayKm:  100.0,
		DominantStaypoints: 3,
	}
}

// Validate checks the options for configuration errors.
func (o *Options) Validate() error {
	if o.MinItemsPerDay < 1 {
		return fmt.Errorf("min items per day must be at least 1, got %d", o.MinItemsPerDay)
	}
	if o.OutlierEpsKm <= 0 || o.SpotEpsKm <= 0 {
		return fmt.Errorf("cluster radii must be positive, got outlier=%f spot=%f", o.OutlierEpsKm, o.SpotEpsKm)
	}
	if o.OutlierMinSamples < 1 || o.SpotMinSamples < 1 {
		return fmt.Errorf("cluster min samples must be at least 1, got outlier=%d spot=%d", o.OutlierMinSamples, o.SpotMinSamples)
	}
	if o.MinLegSeconds < 0 || o.MinLegKm < 0 {
		return fmt.Errorf("leg bounds must not be negative, got seconds=%d km=%f", o.MinLegSeconds, o.MinLegKm)
	}
	if o.HighSpeedKmh <= 0 || o.HighTravelKm <= 0 {
		return fmt.Errorf("transit thresholds must be positive, got speed=%f travel=%f", o.HighSpeedKmh, o.HighTravelKm)
	}
	if o.MaxDistanceAwayKm <= 0 {
		return fmt.Errorf("away distance threshold must be positive, got %f", o.MaxDistanceAwayKm)
	}
	if o.DominantStaypoints < 1 {
		return fmt.Errorf("dominant staypoint cap must be at least 1, got %d", o.DominantStaypoints)
	}
	return nil
}

// CohortIDs returns the configured person ids plus name-derived fallback ids.
func (o *Options) CohortIDs() map[string]bool {
	ids := make(map[string]bool, len(o.ImportantPersons)+len(o.ImportantNames))
	for _, id := range o.ImportantPersons {
		if id != "" {
			ids[id] = true
		}
	}
	for _, name := range o.ImportantNames {
		name = strings.TrimSpace(strings.ToLower(name))
		if name != "" {
			ids["name:"+name] = true
		}
	}
	return ids
}
