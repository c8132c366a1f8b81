package selection

import (
	"math"

	"github.com/photoatlas/memories-engine-go/internal/spatial"
)

// FilterStage is one step of the staged constraint pipeline. Stages are
// independent and order-preserving: each receives the current candidate list
// and returns the kept subset in the same order, recording drops in the
// shared telemetry sink.
type FilterStage interface {
	Name() string
	Apply(candidates []Candidate, opts *Options, t Telemetry) []Candidate
}

// filterPipeline is the ordered stage list applied after the greedy pass.
// The spacing logic here evolved separately from the greedy selector's and
// uses its own constants; both behaviors are preserved.
type filterPipeline struct {
	stages []FilterStage
}

func newFilterPipeline(cache *pairCache) *filterPipeline {
	return &filterPipeline{stages: []FilterStage{
		dayQuotaStage{},
		orientationShareStage{},
		peopleBalanceStage{},
		phashDiversityStage{cache: cache},
		sceneBucketStage{},
		staypointQuotaStage{},
		timeGapStage{},
		adaptiveSlotStage{},
	}}
}

func (p *filterPipeline) apply(candidates []Candidate, opts *Options, t Telemetry) []Candidate {
	for _, stage := range p.stages {
		candidates = stage.Apply(candidates, opts, t)
	}
	return candidates
}

// dayQuotaStage enforces the per-day cap independently of the greedy layer.
type dayQuotaStage struct{}

func (dayQuotaStage) Name() string { return "day_quota" }

func (dayQuotaStage) Apply(candidates []Candidate, opts *Options, t Telemetry) []Candidate {
	kept := candidates[:0:0]
	perDay := make(map[string]int)
	for _, c := range candidates {
		if perDay[c.DayKey] >= opts.MaxPerDay {
			t.Inc(CounterStageDayQuota)
			continue
		}
		perDay[c.DayKey]++
		kept = append(kept, c)
	}
	return kept
}

// orientationShareStage caps the portrait and landscape shares of the
// running selection. Items without a known orientation pass freely.
type orientationShareStage struct{}

func (orientationShareStage) Name() string { return "orientation_share" }

func (orientationShareStage) Apply(candidates []Candidate, opts *Options, t Telemetry) []Candidate {
	kept := candidates[:0:0]
	counts := make(map[string]int)
	total := 0
	for _, c := range candidates {
		orient := c.Media.Orientation
		if orient == "" {
			kept = append(kept, c)
			total++
			continue
		}
		limit := int(math.Ceil(opts.OrientationShareCap * float64(total+1)))
		if counts[orient]+1 > limit {
			t.Inc(CounterStageOrientation)
			continue
		}
		counts[orient]++
		total++
		kept = append(kept, c)
	}
	return kept
}

// peopleBalanceStage caps non-cohort person shots at a share of the running
// selection. Cohort members always pass, as do fallback persons and group
// shots.
type peopleBalanceStage struct{}

func (peopleBalanceStage) Name() string { return "people_balance" }

func (peopleBalanceStage) Apply(candidates []Candidate, opts *Options, t Telemetry) []Candidate {
	cohort := opts.CohortIDs()
	fallback := opts.FallbackIDs()

	kept := candidates[:0:0]
	otherPersons := 0
	total := 0
	for _, c := range candidates {
		persons := c.Media.PersonIDs
		pass := len(persons) == 0 ||
			c.Media.DepictsAny(cohort) ||
			c.Media.DepictsAny(fallback) ||
			len(persons) >= opts.GroupShotMinPersons
		if !pass {
			limit := int(math.Ceil(opts.PeopleShareCap * float64(total+1)))
			if otherPersons+1 > limit {
				t.Inc(CounterStagePeople)
				continue
			}
			otherPersons++
		}
		total++
		kept = append(kept, c)
	}
	return kept
}

// phashDiversityStage drops candidates too close in perceptual-hash space to
// any already-kept item, regardless of device.
type phashDiversityStage struct {
	cache *pairCache
}

func (phashDiversityStage) Name() string { return "phash_diversity" }

func (s phashDiversityStage) Apply(candidates []Candidate, opts *Options, t Telemetry) []Candidate {
	kept := candidates[:0:0]
	for i := range candidates {
		c := candidates[i]
		tooClose := false
		for j := range kept {
			if s.cache.stats(&c, &kept[j]).phashDistance < opts.DiversityMinHamming {
				tooClose = true
				break
			}
		}
		if tooClose {
			t.Inc(CounterStagePhash)
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// sceneBucketStage caps how many items a single S2 scene cell contributes.
// Items without GPS are exempt.
type sceneBucketStage struct{}

func (sceneBucketStage) Name() string { return "scene_bucket" }

func (sceneBucketStage) Apply(candidates []Candidate, opts *Options, t Telemetry) []Candidate {
	kept := candidates[:0:0]
	perBucket := make(map[string]int)
	for _, c := range candidates {
		if !c.Media.HasGPS() {
			kept = append(kept, c)
			continue
		}
		bucket := spatial.CellKey(*c.Media.Lat, *c.Media.Lon, opts.SceneCellLevel)
		if perBucket[bucket] >= opts.SceneBucketCap {
			t.Inc(CounterStageScene)
			continue
		}
		perBucket[bucket]++
		kept = append(kept, c)
	}
	return kept
}

// staypointQuotaStage enforces the per-staypoint cap.
type staypointQuotaStage struct{}

func (staypointQuotaStage) Name() string { return "staypoint_quota" }

func (staypointQuotaStage) Apply(candidates []Candidate, opts *Options, t Telemetry) []Candidate {
	kept := candidates[:0:0]
	perStay := make(map[string]int)
	for _, c := range candidates {
		if c.StaypointKey == "" {
			kept = append(kept, c)
			continue
		}
		if perStay[c.StaypointKey] >= opts.MaxPerStaypoint {
			t.Inc(CounterStageStaypoint)
			continue
		}
		perStay[c.StaypointKey]++
		kept = append(kept, c)
	}
	return kept
}

// timeGapStage enforces a fixed same-day spacing and a per-slot cap of two.
type timeGapStage struct{}

func (timeGapStage) Name() string { return "time_gap" }

func (timeGapStage) Apply(candidates []Candidate, opts *Options, t Telemetry) []Candidate {
	type slotKey struct {
		day  string
		slot int
	}
	kept := candidates[:0:0]
	perSlot := make(map[slotKey]int)
	for _, c := range candidates {
		key := slotKey{day: c.DayKey, slot: c.Slot}
		if perSlot[key] >= opts.PerSlotCap {
			t.Inc(CounterStageTimeGap)
			continue
		}
		tooClose := false
		for j := range kept {
			if kept[j].DayKey != c.DayKey {
				continue
			}
			if absInt64(kept[j].Timestamp-c.Timestamp) < opts.FixedGapSeconds {
				tooClose = true
				break
			}
		}
		if tooClose {
			t.Inc(CounterStageTimeGap)
			continue
		}
		perSlot[key]++
		kept = append(kept, c)
	}
	return kept
}

// adaptiveSlotStage widens the required same-day spacing as the running
// selection approaches the target and a day's quota fills up.
type adaptiveSlotStage struct{}

func (adaptiveSlotStage) Name() string { return "adaptive_slot" }

func (adaptiveSlotStage) Apply(candidates []Candidate, opts *Options, t Telemetry) []Candidate {
	kept := candidates[:0:0]
	perDay := make(map[string]int)
	for _, c := range candidates {
		progress := float64(len(kept)) / float64(opts.TargetTotal)
		dayFill := float64(perDay[c.DayKey]) / float64(opts.MaxPerDay)
		required := int64(float64(opts.FixedGapSeconds) * (1 + progress + dayFill))

		tooClose := false
		for j := range kept {
			if kept[j].DayKey != c.DayKey {
				continue
			}
			if absInt64(kept[j].Timestamp-c.Timestamp) < required {
				tooClose = true
				break
			}
		}
		if tooClose {
			t.Inc(CounterStageAdaptive)
			continue
		}
		perDay[c.DayKey]++
		kept = append(kept, c)
	}
	return kept
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
