package selection

import (
	"fmt"
	"strings"

	"github.com/photoatlas/memories-engine-go/internal/resolve"
)

// Options is the selection policy shared by the greedy selector and the
// staged filter pipeline. Invalid values fail fast at Select time; they are
// configuration errors, not data conditions.
type Options struct {
	TargetTotal     int
	MaxPerDay       int
	MaxPerStaypoint int

	// Minimum spacing in seconds between any two selected items.
	MinSpacingSeconds int64

	// QualityFloor drops candidates below this quality during prefilter.
	QualityFloor float64

	// PhashMinHamming: two items sharing a device fingerprint with a
	// perceptual-hash distance at or below this bound are near-duplicates.
	PhashMinHamming int

	// DiversityMinHamming is the global phash diversity bound of the staged
	// pipeline. Evolved separately from PhashMinHamming; both are kept.
	DiversityMinHamming int

	// SlotMinutes is the width of a within-day time slot.
	SlotMinutes int

	// OrientationShareCap bounds portrait and landscape shares of the
	// running selection.
	OrientationShareCap float64

	// People balance: cohort members always pass, other person shots are
	// capped at PeopleShareCap of the running selection.
	PeopleShareCap      float64
	ImportantPersons    []string
	ImportantNames      []string
	FallbackPersons     []string
	GroupShotMinPersons int

	// Scene buckets are S2 cells at SceneCellLevel, capped per bucket.
	SceneBucketCap int
	SceneCellLevel int

	// Fixed time-gap stage.
	FixedGapSeconds int64
	PerSlotCap      int

	// Quality is consulted per candidate; nil falls back to the stored score.
	Quality resolve.MediaQualityAggregator
}

// DefaultOptions returns the selection defaults.
func DefaultOptions() Options {
	return Options{
		TargetTotal:         30,
		MaxPerDay:           5,
		MaxPerStaypoint:     3,
		MinSpacingSeconds:   600,
		QualityFloor:        0.3,
		PhashMinHamming:     10,
		DiversityMinHamming: 6,
		SlotMinutes:         120,
		OrientationShareCap: 0.6,
		PeopleShareCap:      0.45,
		GroupShotMinPersons: 3,
		SceneBucketCap:      6,
		SceneCellLevel:      15,
		FixedGapSeconds:     900,
		PerSlotCap:          2,
	}
}

// Validate checks the options for configuration errors.
func (o *Options) Validate() error {
	if o.TargetTotal < 1 {
		return fmt.Errorf("target total must be at least 1, got %d", o.TargetTotal)
	}
	if o.MaxPerDay < 1 || o.MaxPerStaypoint < 1 {
		return fmt.Errorf("per-day and per-staypoint caps must be at least 1, got day=%d staypoint=%d", o.MaxPerDay, o.MaxPerStaypoint)
	}
	if o.MinSpacingSeconds < 0 || o.FixedGapSeconds < 0 {
		return fmt.Errorf("spacing bounds must not be negative, got min=%d gap=%d", o.MinSpacingSeconds, o.FixedGapSeconds)
	}
	if o.QualityFloor < 0 || o.QualityFloor > 1 {
		return fmt.Errorf("quality floor must be in [0, 1], got %f", o.QualityFloor)
	}
	if o.PhashMinHamming < 0 || o.PhashMinHamming > 64 || o.DiversityMinHamming < 0 || o.DiversityMinHamming > 64 {
		return fmt.Errorf("hamming bounds must be in [0, 64], got duplicate=%d diversity=%d", o.PhashMinHamming, o.DiversityMinHamming)
	}
	if o.SlotMinutes < 1 || o.SlotMinutes > 24*60 {
		return fmt.Errorf("slot width must be between 1 minute and one day, got %d", o.SlotMinutes)
	}
	if o.OrientationShareCap <= 0 || o.OrientationShareCap > 1 {
		return fmt.Errorf("orientation share cap must be in (0, 1], got %f", o.OrientationShareCap)
	}
	if o.PeopleShareCap <= 0 || o.PeopleShareCap > 1 {
		return fmt.Errorf("people share cap must be in (0, 1], got %f", o.PeopleShareCap)
	}
	if o.GroupShotMinPersons < 2 {
		return fmt.Errorf("group shot minimum must be at least 2, got %d", o.GroupShotMinPersons)
	}
	if o.SceneBucketCap < 1 {
		return fmt.Errorf("scene bucket cap must be at least 1, got %d", o.SceneBucketCap)
	}
	if o.SceneCellLevel < 0 || o.SceneCellLevel > 30 {
		return fmt.Errorf("scene cell level must be in [0, 30], got %d", o.SceneCellLevel)
	}
	if o.PerSlotCap < 1 {
		return fmt.Errorf("per-slot cap must be at least 1, got %d", o.PerSlotCap)
	}
	return nil
}

// CohortIDs returns the important person ids plus name-derived fallback ids.
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

// FallbackIDs returns the fallback-person escape hatch set.
func (o *Options) FallbackIDs() map[string]bool {
	ids := make(map[string]bool, len(o.FallbackPersons))
	for _, id := range o.FallbackPersons {
		if id != "" {
			ids[id] = true
		}
	}
	return ids
}

func (o *Options) quality() resolve.MediaQualityAggregator {
	if o.Quality != nil {
		return o.Quality
	}
	return resolve.StoredQuality{}
}
