package daysummary

import (
	"sort"

	"github.com/photoatlas/memories-engine-go/internal/models"
)

// staypointAggregationStage counts members per staypoint, ranks the dominant
// staypoints, and derives the transit ratio and POI density of each day.
type staypointAggregationStage struct {
	opts Options
}

func (s *staypointAggregationStage) Name() string { return "staypoint_aggregation" }

func (s *staypointAggregationStage) Process(days map[string]*models.DaySummary, home models.HomeDescriptor) error {
	for _, day := range days {
		for i := range day.Staypoints {
			sp := &day.Staypoints[i]
			count := 0
			for _, m := range day.Members {
				if m.CapturedAt >= sp.Start && m.CapturedAt <= sp.End {
					count++
				}
			}
			sp.MemberCount = count
		}

		day.DominantStaypoints = rankStaypoints(day.Date, day.Staypoints, s.opts.DominantStaypoints)

		var dwell int64
		for i := range day.Staypoints {
			dwell += day.Staypoints[i].DwellSeconds()
		}
		day.StaypointDwellSeconds = dwell
		day.TransitRatio = transitRatio(day.DaySpanSeconds(), dwell, len(day.Staypoints))
		day.PoiDensity = poiDensity(day.PoiSamples, len(day.Staypoints), day.PhotoCount)
	}
	return nil
}

// rankStaypoints orders staypoints by dwell seconds, then member count, then
// key, and returns the top limit entries. The key comparison keeps the rank
// deterministic.
func rankStaypoints(dateKey string, stays []models.Staypoint, limit int) []models.Staypoint {
	if len(stays) == 0 {
		return nil
	}
	ranked := make([]models.Staypoint, len(stays))
	copy(ranked, stays)
	sort.SliceStable(ranked, func(i, j int) bool {
		di, dj := ranked[i].DwellSeconds(), ranked[j].DwellSeconds()
		if di != dj {
			return di > dj
		}
		if ranked[i].MemberCount != ranked[j].MemberCount {
			return ranked[i].MemberCount > ranked[j].MemberCount
		}
		return ranked[i].Key(dateKey) < ranked[j].Key(dateKey)
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// transitRatio is the fraction of the day span spent outside staypoints,
// clamped to [0, 1]. A day without staypoints but with a valid span counts as
// fully in transit; dwell covering the span counts as not in transit at all.
func transitRatio(spanSeconds, dwellSeconds int64, staypointCount int) float64 {
	if spanSeconds <= 0 {
		return 0.0
	}
	if staypointCount == 0 {
		return 1.0
	}
	if dwellSeconds >= spanSeconds {
		return 0.0
	}
	ratio := float64(spanSeconds-dwellSeconds) / float64(spanSeconds)
	return clamp01(ratio)
}

// poiDensity relates POI samples to staypoint count, falling back to the
// photo count on staypoint-free days. Clamped to [0, 1].
func poiDensity(poiSamples, staypointCount, photoCount int) float64 {
	denom := staypointCount
	if denom == 0 {
		denom = photoCount
	}
	if denom == 0 {
		return 0.0
	}
	return clamp01(float64(poiSamples) / float64(denom))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
