// Package rundetect turns per-day away and transit evidence into contiguous
// runs of day keys, the raw material for vacation scoring.
package rundetect

import (
	"fmt"

	"github.com/photoatlas/memories-engine-go/internal/daysummary"
	"github.com/photoatlas/memories-engine-go/internal/models"
	"github.com/photoatlas/memories-engine-go/internal/spatial"
)

// Options holds the run detector thresholds.
type Options struct {
	// MinItemsPerDay mirrors the pipeline's low-evidence day bound and
	// qualifies bridgeable gap days.
	MinItemsPerDay int

	// MaxDistanceAwayKm marks a day as away when its farthest GPS point
	// exceeds this distance from the nearest home center.
	MaxDistanceAwayKm float64

	// Transit-heavy day thresholds.
	HighAvgSpeedKmh       float64
	TransitRatioThreshold float64

	// MinTransitStreakDays is the streak length promoted to away.
	MinTransitStreakDays int
}

// DefaultOptions returns the detector defaults.
func DefaultOptions() Options {
	return Options{
		MinItemsPerDay:        3,
		MaxDistanceAwayKm:     100.0,
		HighAvgSpeedKmh:       60.0,
		TransitRatioThreshold: 0.6,
		MinTransitStreakDays:  2,
	}
}

// Validate checks the options for configuration errors.
func (o *Options) Validate() error {
	if o.MinItemsPerDay < 1 {
		return fmt.Errorf("min items per day must be at least 1, got %d", o.MinItemsPerDay)
	}
	if o.MaxDistanceAwayKm <= 0 {
		return fmt.Errorf("away distance threshold must be positive, got %f", o.MaxDistanceAwayKm)
	}
	if o.HighAvgSpeedKmh <= 0 {
		return fmt.Errorf("average speed threshold must be positive, got %f", o.HighAvgSpeedKmh)
	}
	if o.TransitRatioThreshold <= 0 || o.TransitRatioThreshold > 1 {
		return fmt.Errorf("transit ratio threshold must be in (0, 1], got %f", o.TransitRatioThreshold)
	}
	if o.MinTransitStreakDays < 2 {
		return fmt.Errorf("transit streak length must be at least 2, got %d", o.MinTransitStreakDays)
	}
	return nil
}

// DetectVacationRuns groups away days into maximal contiguous runs of day
// keys, extended at both ends by adjacent airport/transport days. The summary
// map must be fully enriched.
func DetectVacationRuns(days map[string]*models.DaySummary, home models.HomeDescriptor, opts Options) ([][]string, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run detector options: %w", err)
	}
	if err := home.Validate(); err != nil {
		return nil, fmt.Errorf("invalid home descriptor: %w", err)
	}

	keys := daysummary.SortedDateKeys(days)
	n := len(keys)
	if n == 0 {
		return nil, nil
	}

	away := make([]bool, n)
	for i, key := range keys {
		away[i] = awayCandidate(days[key], home, opts)
	}

	promoteTransitStreaks(days, keys, away, opts)
	bridgeGaps(days, keys, away, opts)
	absorbAdjacentTransit(days, keys, away, opts)
	demoteHomeAnchored(days, keys, away, home, opts)

	var runs [][]string
	for i := 0; i < n; i++ {
		if !away[i] {
			continue
		}
		j := i
		for j+1 < n && away[j+1] {
			j++
		}
		run := extendRun(days, keys, i, j)
		runs = append(runs, run)
		i = j
	}
	return runs, nil
}

// awayCandidate evaluates the per-day away evidence: an away base location,
// a dominant staypoint outside home, or GPS anchors placing the day beyond
// the nearest home center.
func awayCandidate(day *models.DaySummary, home models.HomeDescriptor, opts Options) bool {
	if day.Away || day.BaseAway {
		return true
	}
	if dominantStaypointOutsideHome(day, home) {
		return true
	}
	if day.HasGPSAnchors() {
		if day.HasCentroid && centroidBeyondNearestCenter(day, home) {
			return true
		}
		if day.MaxDistanceKm > opts.MaxDistanceAwayKm {
			return true
		}
	}
	return false
}

func dominantStaypointOutsideHome(day *models.DaySummary, home models.HomeDescriptor) bool {
	for _, sp := range day.DominantStaypoints {
		if outsideAllCenters(home, sp.Lat, sp.Lon) {
			return true
		}
	}
	return false
}

func dominantStaypointInsideHome(day *models.DaySummary, home models.HomeDescriptor) bool {
	if len(day.DominantStaypoints) == 0 {
		return false
	}
	return !outsideAllCenters(home, day.DominantStaypoints[0].Lat, day.DominantStaypoints[0].Lon)
}

func centroidBeyondNearestCenter(day *models.DaySummary, home models.HomeDescriptor) bool {
	best := -1.0
	beyond := false
	for _, c := range home.Centers() {
		d := spatial.HaversineDistanceKm(day.CentroidLat, day.CentroidLon, c.Lat, c.Lon)
		if best < 0 || d < best {
			best = d
			beyond = d > c.RadiusKm
		}
	}
	return beyond
}

func outsideAllCenters(home models.HomeDescriptor, lat, lon float64) bool {
	for _, c := range home.Centers() {
		if spatial.HaversineDistanceKm(lat, lon, c.Lat, c.Lon) <= c.RadiusKm {
			return false
		}
	}
	return true
}

// transitHeavy reports whether a day carries strong movement evidence.
func transitHeavy(day *models.DaySummary, opts Options) bool {
	if day.HasHighSpeedTransit {
		return true
	}
	if day.AvgLegSpeedKmh >= opts.HighAvgSpeedKmh {
		return true
	}
	return day.TransitRatio >= opts.TransitRatioThreshold && day.HasGPSAnchors()
}

// promoteTransitStreaks marks streaks of consecutive transit-heavy days of
// the configured length as away.
func promoteTransitStreaks(days map[string]*models.DaySummary, keys []string, away []bool, opts Options) {
	n := len(keys)
	for i := 0; i < n; i++ {
		if !transitHeavy(days[keys[i]], opts) {
			continue
		}
		j := i
		for j+1 < n && transitHeavy(days[keys[j+1]], opts) {
			j++
		}
		if j-i+1 >= opts.MinTransitStreakDays {
			for k := i; k <= j; k++ {
				away[k] = true
			}
		}
		i = j
	}
}

// bridgeGaps flips low-evidence gap runs that sit strictly between two away
// days. Every gap day must have fewer than MinItemsPerDay photos and either
// GPS or transit evidence (synthetic days qualify by construction).
func bridgeGaps(days map[string]*models.DaySummary, keys []string, away []bool, opts Options) {
	n := len(keys)
	for i := 1; i < n-1; i++ {
		if away[i] {
			continue
		}
		j := i
		for j < n && !away[j] {
			j++
		}
		// Gap [i, j): bridge only when bounded by away days on both sides.
		if j >= n || !away[i-1] {
			i = j
			continue
		}
		bridgeable := true
		for k := i; k < j; k++ {
			day := days[keys[k]]
			if day.PhotoCount >= opts.MinItemsPerDay {
				bridgeable = false
				break
			}
			if !day.IsSynthetic && !day.HasGPSAnchors() && !transitHeavy(day, opts) {
				bridgeable = false
				break
			}
		}
		if bridgeable {
			for k := i; k < j; k++ {
				away[k] = true
			}
		}
		i = j
	}
}

// absorbAdjacentTransit absorbs standalone transit-heavy days that touch an
// away day on either side.
func absorbAdjacentTransit(days map[string]*models.DaySummary, keys []string, away []bool, opts Options) {
	n := len(keys)
	changed := true
	for changed {
		changed = false
		for i := 0; i < n; i++ {
			if away[i] || !transitHeavy(days[keys[i]], opts) {
				continue
			}
			if (i > 0 && away[i-1]) || (i+1 < n && away[i+1]) {
				away[i] = true
				changed = true
			}
		}
	}
}

// demoteHomeAnchored clears days whose dominant staypoint sits inside home
// and that carry neither distance-away nor transit evidence.
func demoteHomeAnchored(days map[string]*models.DaySummary, keys []string, away []bool, home models.HomeDescriptor, opts Options) {
	for i, key := range keys {
		if !away[i] {
			continue
		}
		day := days[key]
		if !dominantStaypointInsideHome(day, home) {
			continue
		}
		if transitHeavy(day, opts) {
			continue
		}
		if day.HasCentroid && centroidBeyondNearestCenter(day, home) {
			continue
		}
		if day.MaxDistanceKm > opts.MaxDistanceAwayKm {
			continue
		}
		away[i] = false
	}
}

// extendRun widens the run [i, j] by one day on each side when that day has
// airport/transport POI evidence. Date sequentiality is inherent because the
// summary map covers every calendar day, synthetic gap days included.
func extendRun(days map[string]*models.DaySummary, keys []string, i, j int) []string {
	start, end := i, j
	if i > 0 && days[keys[i-1]].AirportSamples > 0 && daysummary.DateKeysSequential(keys[i-1], keys[i]) {
		start = i - 1
	}
	if j+1 < len(keys) && days[keys[j+1]].AirportSamples > 0 && daysummary.DateKeysSequential(keys[j], keys[j+1]) {
		end = j + 1
	}

	run := make([]string, 0, end-start+1)
	for k := start; k <= end; k++ {
		run = append(run, keys[k])
	}
	return run
}
