package daysummary

import (
	"math"

	"github.com/photoatlas/memories-engine-go/internal/models"
	"github.com/photoatlas/memories-engine-go/internal/spatial"
)

// gpsMetricsStage filters GPS outliers, computes travel and home-distance
// aggregates, runs spot clustering, and detects staypoints per day.
type gpsMetricsStage struct {
	opts Options
}

func (s *gpsMetricsStage) Name() string { return "gps_metrics" }

func (s *gpsMetricsStage) Process(days map[string]*models.DaySummary, home models.HomeDescriptor) error {
	for _, day := range days {
		day.SufficientSamples = day.PhotoCount >= s.opts.MinItemsPerDay
		if len(day.GPSMembers) == 0 {
			continue
		}

		day.GPSMembers = s.dropOutliers(day.GPSMembers)
		if len(day.GPSMembers) == 0 {
			continue
		}

		points := make([]spatial.Point, len(day.GPSMembers))
		timed := make([]spatial.TimedPoint, len(day.GPSMembers))
		for i, m := range day.GPSMembers {
			points[i] = spatial.Point{Lat: *m.Lat, Lon: *m.Lon}
			timed[i] = spatial.TimedPoint{Lat: *m.Lat, Lon: *m.Lon, TS: m.CapturedAt}
		}

		center := spatial.Centroid(points)
		day.HasCentroid = true
		day.CentroidLat = center.Lat
		day.CentroidLon = center.Lon

		day.TravelKm = spatial.PathLength(points) / 1000.0

		var sum, max float64
		for _, p := range points {
			d := nearestCenterDistanceKm(home, p.Lat, p.Lon)
			sum += d
			if d > max {
				max = d
			}
		}
		day.MaxDistanceKm = max
		day.AvgDistanceKm = sum / float64(len(points))

		spots := spatial.ClusterMedia(points, s.opts.SpotEpsKm, s.opts.SpotMinSamples)
		day.SpotClusterCount = len(spots.Clusters)
		day.SpotNoiseCount = len(spots.Noise)

		day.Staypoints = spatial.DetectStaypoints(timed)
	}
	return nil
}

// dropOutliers removes GPS points that do not belong to any density cluster
// of at least OutlierMinSamples neighbors within OutlierEpsKm. A day with a
// single GPS point keeps it: one sample is evidence, not noise.
func (s *gpsMetricsStage) dropOutliers(members []models.MediaAsset) []models.MediaAsset {
	if len(members) <= 1 {
		return members
	}
	points := make([]spatial.Point, len(members))
	for i, m := range members {
		points[i] = spatial.Point{Lat: *m.Lat, Lon: *m.Lon}
	}
	result := spatial.ClusterMedia(points, s.opts.OutlierEpsKm, s.opts.OutlierMinSamples)
	if len(result.Noise) == 0 {
		return members
	}
	if len(result.Clusters) == 0 {
		// Everything is noise; keep the set rather than erase the day.
		return members
	}

	noise := make(map[int]bool, len(result.Noise))
	for _, idx := range result.Noise {
		noise[idx] = true
	}
	kept := members[:0:0]
	for i, m := range members {
		if !noise[i] {
			kept = append(kept, m)
		}
	}
	return kept
}

// nearestCenterDistanceKm returns the distance from the point to the nearest
// home center.
func nearestCenterDistanceKm(home models.HomeDescriptor, lat, lon float64) float64 {
	best := math.MaxFloat64
	for _, c := range home.Centers() {
		d := spatial.HaversineDistanceKm(lat, lon, c.Lat, c.Lon)
		if d < best {
			best = d
		}
	}
	return best
}

// outsideAllCenters reports whether the point lies outside every home center
// radius.
func outsideAllCenters(home models.HomeDescriptor, lat, lon float64) bool {
	for _, c := range home.Centers() {
		if spatial.HaversineDistanceKm(lat, lon, c.Lat, c.Lon) <= c.RadiusKm {
			return false
		}
	}
	return true
}
