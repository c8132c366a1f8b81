package daysummary

import (
	"github.com/photoatlas/memories-engine-go/internal/models"
)

// awayFlagStage resolves each day's base location, derives the two away flag
// series, smooths them with a morphological closing pass, and merges them
// into the final per-day away flag.
type awayFlagStage struct {
	opts Options
}

func (s *awayFlagStage) Name() string { return "away_flag" }

func (s *awayFlagStage) Process(days map[string]*models.DaySummary, home models.HomeDescriptor) error {
	keys := SortedDateKeys(days)
	n := len(keys)
	if n == 0 {
		return nil
	}

	baseSeries := make([]bool, n)
	distSeries := make([]bool, n)
	for i, key := range keys {
		day := days[key]
		var next *models.DaySummary
		if i+1 < n {
			next = days[keys[i+1]]
		}

		day.Base = resolveBaseLocation(day, next, home)
		if day.Base != nil && outsideAllCenters(home, day.Base.Lat, day.Base.Lon) {
			baseSeries[i] = true
		}
		if day.HasGPSAnchors() && day.AvgDistanceKm > home.RadiusKm {
			distSeries[i] = true
		}
	}

	baseSeries = CloseFlagSeries(baseSeries)
	distSeries = CloseFlagSeries(distSeries)
	distSeries = fillLongestRun(distSeries)

	merged := make([]bool, n)
	for i := range merged {
		merged[i] = baseSeries[i] || distSeries[i]
	}
	merged = CloseFlagSeries(merged)

	// Synthetic days inherit the flag from an away neighbor; two sweeps so
	// chains of synthetic days pick it up from either side.
	for i := 0; i < n; i++ {
		if days[keys[i]].IsSynthetic && awayNeighbor(merged, i) {
			merged[i] = true
		}
	}
	for i := n - 1; i >= 0; i-- {
		if days[keys[i]].IsSynthetic && awayNeighbor(merged, i) {
			merged[i] = true
		}
	}

	for i, key := range keys {
		day := days[key]
		day.BaseAway = baseSeries[i]
		day.AwayByDistance = distSeries[i]
		day.Away = merged[i]
	}
	return nil
}

// CloseFlagSeries applies one morphological closing pass: a lone false value
// with true neighbors on both sides flips to true. Applying the pass twice
// yields the same series as applying it once.
func CloseFlagSeries(flags []bool) []bool {
	out := make([]bool, len(flags))
	copy(out, flags)
	for i := 1; i < len(flags)-1; i++ {
		if !flags[i] && flags[i-1] && flags[i+1] {
			out[i] = true
		}
	}
	return out
}

// fillLongestRun welds true runs separated by gaps of at most two days into
// sequences, finds the longest such sequence, and sets its whole span to
// true. This keeps one multi-day trip from splitting over a quiet day or two.
func fillLongestRun(flags []bool) []bool {
	type span struct{ start, end int }
	var spans []span
	for i := 0; i < len(flags); i++ {
		if !flags[i] {
			continue
		}
		j := i
		for j+1 < len(flags) && flags[j+1] {
			j++
		}
		spans = append(spans, span{start: i, end: j})
		i = j
	}
	if len(spans) == 0 {
		return flags
	}

	// Merge spans separated by short gaps.
	merged := []span{spans[0]}
	for _, sp := range spans[1:] {
		last := &merged[len(merged)-1]
		if sp.start-last.end-1 <= 2 {
			last.end = sp.end
		} else {
			merged = append(merged, sp)
		}
	}

	longest := merged[0]
	for _, sp := range merged[1:] {
		if sp.end-sp.start > longest.end-longest.start {
			longest = sp
		}
	}

	out := make([]bool, len(flags))
	copy(out, flags)
	for i := longest.start; i <= longest.end; i++ {
		out[i] = true
	}
	return out
}

func awayNeighbor(flags []bool, i int) bool {
	if i > 0 && flags[i-1] {
		return true
	}
	if i+1 < len(flags) && flags[i+1] {
		return true
	}
	return false
}
