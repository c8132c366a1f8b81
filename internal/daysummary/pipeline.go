// Package daysummary derives per-day feature summaries from enriched media
// records. The pipeline is an ordered sequence of pure stages; each stage
// reads fields written by its predecessors, so the order is fixed.
package daysummary

import (
	"fmt"
	"sort"
	"time"

	"github.com/photoatlas/memories-engine-go/internal/models"
	"github.com/photoatlas/memories-engine-go/internal/resolve"
)

// Stage is one enrichment step over the day summary map.
type Stage interface {
	Name() string
	Process(days map[string]*models.DaySummary, home models.HomeDescriptor) error
}

// Pipeline runs the enrichment stages in dependency order:
// Initialization, GPS Metrics, Density, Staypoint Aggregation,
// Transport Speed, Cohort Presence, Away Flag.
type Pipeline struct {
	opts Options
	tz   resolve.TimezoneResolver
	poi  resolve.PoiClassifier
}

// NewPipeline validates the options and builds a pipeline. Nil resolvers fall
// back to the no-op defaults.
func NewPipeline(opts Options, tz resolve.TimezoneResolver, poi resolve.PoiClassifier) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline options: %w", err)
	}
	if poi == nil {
		poi = resolve.NoopPoiClassifier{}
	}
	return &Pipeline{opts: opts, tz: tz, poi: poi}, nil
}

// Run executes every stage over the given media set and returns the completed
// summary map, keyed by every date between the first and last observed local
// date inclusive.
func (p *Pipeline) Run(media []models.MediaAsset, home models.HomeDescriptor) (map[string]*models.DaySummary, error) {
	if err := home.Validate(); err != nil {
		return nil, fmt.Errorf("invalid home descriptor: %w", err)
	}

	days := make(map[string]*models.DaySummary)
	stages := []Stage{
		&initStage{media: media, opts: p.opts, tz: p.tz, poi: p.poi},
		&gpsMetricsStage{opts: p.opts},
		&densityStage{},
		&staypointAggregationStage{opts: p.opts},
		&transportSpeedStage{opts: p.opts},
		&cohortPresenceStage{opts: p.opts},
		&awayFlagStage{opts: p.opts},
	}
	for _, stage := range stages {
		if err := stage.Process(days, home); err != nil {
			return nil, fmt.Errorf("stage %s failed: %w", stage.Name(), err)
		}
	}
	return days, nil
}

// RunDaySummaryPipeline is the package-level convenience entry point.
func RunDaySummaryPipeline(media []models.MediaAsset, home models.HomeDescriptor, opts Options, tz resolve.TimezoneResolver, poi resolve.PoiClassifier) (map[string]*models.DaySummary, error) {
	pipeline, err := NewPipeline(opts, tz, poi)
	if err != nil {
		return nil, err
	}
	return pipeline.Run(media, home)
}

// SortedDateKeys returns the summary dates in ascending order.
func SortedDateKeys(days map[string]*models.DaySummary) []string {
	keys := make([]string, 0, len(days))
	for key := range days {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// NextDateKey returns the calendar day following the given date key.
func NextDateKey(key string) string {
	t, err := time.Parse(models.DateKeyLayout, key)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, 1).Format(models.DateKeyLayout)
}

// DateKeysSequential reports whether b is the calendar day right after a.
func DateKeysSequential(a, b string) bool {
	next := NextDateKey(a)
	return next != "" && next == b
}
