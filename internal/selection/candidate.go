package selection

import (
	"math/bits"
	"sort"
	"time"

	"github.com/photoatlas/memories-engine-go/internal/models"
)

// Candidate origin tags.
const (
	OriginPrimary  = "primary"
	OriginFallback = "fallback"
)

// Candidate is the ephemeral per-call record both selection layers operate
// on. Built fresh for every Select call.
type Candidate struct {
	Media        models.MediaAsset
	DayKey       string
	Timestamp    int64
	Slot         int
	Score        float64
	Quality      float64
	StaypointKey string
	BurstID      string
	Origin       string
}

// ID returns the candidate's media id.
func (c *Candidate) ID() string { return c.Media.ID }

// buildDayCandidates converts one enriched day summary into candidates.
// No-show and low-quality media and anything below the quality floor are
// dropped here, with telemetry.
func buildDayCandidates(day *models.DaySummary, opts *Options, cohort map[string]bool, t Telemetry) []Candidate {
	quality := opts.quality()
	candidates := make([]Candidate, 0, len(day.Members))
	for i := range day.Members {
		m := day.Members[i]
		if m.NoShow {
			t.Inc(CounterDroppedNoShow)
			continue
		}
		if m.LowQuality {
			t.Inc(CounterDroppedLowQuality)
			continue
		}
		q := quality.Quality(&m)
		if q < opts.QualityFloor {
			t.Inc(CounterDroppedFloor)
			continue
		}

		c := Candidate{
			Media:     m,
			DayKey:    day.Date,
			Timestamp: m.CapturedAt,
			Slot:      slotIndex(day, m.CapturedAt, opts.SlotMinutes),
			Quality:   q,
			BurstID:   m.BurstID,
			Origin:    OriginPrimary,
		}
		c.StaypointKey = staypointKeyFor(day, m.CapturedAt)
		c.Score = candidateScore(&m, q, cohort)
		candidates = append(candidates, c)
	}
	return candidates
}

// candidateScore combines quality with light content bonuses. The score only
// orders candidates; quotas and caps do the real curation work.
func candidateScore(m *models.MediaAsset, quality float64, cohort map[string]bool) float64 {
	score := quality
	if m.DepictsAny(cohort) {
		score += 0.25
	}
	if m.BurstRepresentative {
		score += 0.1
	}
	if len(m.PersonIDs) >= 2 {
		score += 0.05
	}
	return score
}

// slotIndex maps a capture timestamp to its within-day time slot using the
// day's resolved local offset.
func slotIndex(day *models.DaySummary, ts int64, slotMinutes int) int {
	loc := time.FixedZone("local", day.LocalOffsetMinutes*60)
	local := time.Unix(ts, 0).In(loc)
	minutes := local.Hour()*60 + local.Minute()
	return minutes / slotMinutes
}

// staypointKeyFor returns the key of the staypoint containing the timestamp,
// or "" when the capture happened in transit.
func staypointKeyFor(day *models.DaySummary, ts int64) string {
	for i := range day.Staypoints {
		sp := &day.Staypoints[i]
		if ts >= sp.Start && ts <= sp.End {
			return sp.Key(day.Date)
		}
	}
	return ""
}

// phashDistance is the Hamming distance between two perceptual hashes.
func phashDistance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// sortPrimary orders a day's primary pool by slot, then score descending,
// then timestamp, then id for determinism.
func sortPrimary(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Slot != candidates[j].Slot {
			return candidates[i].Slot < candidates[j].Slot
		}
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if candidates[i].Timestamp != candidates[j].Timestamp {
			return candidates[i].Timestamp < candidates[j].Timestamp
		}
		return candidates[i].ID() < candidates[j].ID()
	})
}

// sortFallback orders the fallback pool by score descending, then timestamp,
// then id.
func sortFallback(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if candidates[i].Timestamp != candidates[j].Timestamp {
			return candidates[i].Timestamp < candidates[j].Timestamp
		}
		return candidates[i].ID() < candidates[j].ID()
	})
}
