package spatial

import (
	"github.com/photoatlas/memories-engine-go/internal/models"
)

// Staypoint detection thresholds
const (
	StaypointRadiusMeters    = 200.0
	StaypointMinDwellSeconds = 3600
)

// DetectStaypoints segments a time-ordered GPS track into dwell intervals.
// Starting from an anchor point, the window extends while every subsequent
// point stays within StaypointRadiusMeters of the anchor; a window spanning
// at least StaypointMinDwellSeconds becomes a staypoint with the segment
// centroid and the first/last timestamps. Windows of fewer than two points
// never qualify.
func DetectStaypoints(points []TimedPoint) []models.Staypoint {
	var stays []models.Staypoint

	i := 0
	for i < len(points) {
		j := i + 1
		for j < len(points) {
			d := HaversineDistance(points[i].Lat, points[i].Lon, points[j].Lat, points[j].Lon)
			if d > StaypointRadiusMeters {
				break
			}
			j++
		}

		segment := points[i:j]
		if len(segment) >= 2 && segment[len(segment)-1].TS-segment[0].TS >= StaypointMinDwellSeconds {
			coords := make([]Point, len(segment))
			for k, p := range segment {
				coords[k] = Point{Lat: p.Lat, Lon: p.Lon}
			}
			center := Centroid(coords)
			stays = append(stays, models.Staypoint{
				Lat:   center.Lat,
				Lon:   center.Lon,
				Start: segment[0].TS,
				End:   segment[len(segment)-1].TS,
			})
			i = j
			continue
		}
		i++
	}

	return stays
}
