package daysummary

import (
	"time"

	"github.com/photoatlas/memories-engine-go/internal/models"
	"github.com/photoatlas/memories-engine-go/internal/spatial"
)

// Base location heuristics
const (
	sleepWindowStartHour = 18 // current day 18:00 local
	sleepWindowEndHour   = 10 // next day 10:00 local
	sleepProxyPairKm     = 2.0
)

// resolveBaseLocation infers where the night between day and the following
// day was spent. Preference order: a staypoint overlapping the overnight
// window, a sleep proxy built from the day's last and the next day's first
// GPS point, the day's largest staypoint, the day's GPS centroid.
func resolveBaseLocation(day, next *models.DaySummary, home models.HomeDescriptor) *models.BaseLocation {
	if sp := overnightStaypoint(day, next); sp != nil {
		return &models.BaseLocation{Lat: sp.Lat, Lon: sp.Lon, Source: models.BaseSourceOvernightStay}
	}
	if proxy := sleepProxy(day, next, home); proxy != nil {
		return proxy
	}
	if len(day.Staypoints) > 0 {
		largest := rankStaypoints(day.Date, day.Staypoints, 1)[0]
		return &models.BaseLocation{Lat: largest.Lat, Lon: largest.Lon, Source: models.BaseSourceLargestStay}
	}
	if day.HasCentroid {
		return &models.BaseLocation{Lat: day.CentroidLat, Lon: day.CentroidLon, Source: models.BaseSourceCentroid}
	}
	return nil
}

// overnightStaypoint returns the staypoint overlapping the 18:00-10:00 local
// window, preferring the most recent start and then the longest dwell.
func overnightStaypoint(day, next *models.DaySummary) *models.Staypoint {
	start, end, ok := overnightWindow(day)
	if !ok {
		return nil
	}

	candidates := make([]models.Staypoint, 0, len(day.Staypoints))
	for _, sp := range day.Staypoints {
		if sp.Overlaps(start, end) {
			candidates = append(candidates, sp)
		}
	}
	if next != nil {
		for _, sp := range next.Staypoints {
			if sp.Overlaps(start, end) {
				candidates = append(candidates, sp)
			}
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	best := candidates[0]
	for _, sp := range candidates[1:] {
		if sp.Start > best.Start || (sp.Start == best.Start && sp.DwellSeconds() > best.DwellSeconds()) {
			best = sp
		}
	}
	return &best
}

// overnightWindow returns the epoch bounds of the sleep window for the day,
// using the day's resolved local offset.
func overnightWindow(day *models.DaySummary) (int64, int64, bool) {
	loc := time.FixedZone("local", day.LocalOffsetMinutes*60)
	d, err := time.ParseInLocation(models.DateKeyLayout, day.Date, loc)
	if err != nil {
		return 0, 0, false
	}
	start := d.Add(sleepWindowStartHour * time.Hour).Unix()
	end := d.AddDate(0, 0, 1).Add(sleepWindowEndHour * time.Hour).Unix()
	return start, end, true
}

// sleepProxy pairs the last GPS point of the day with the first GPS point of
// the next day. The proxy only applies when both points lie outside every
// home center; a home-side endpoint means the night is better explained by
// the staypoint and centroid fallbacks. When the pair is within
// sleepProxyPairKm the points are averaged, otherwise the point farther from
// home wins.
func sleepProxy(day, next *models.DaySummary, home models.HomeDescriptor) *models.BaseLocation {
	if len(day.GPSMembers) == 0 || next == nil || len(next.GPSMembers) == 0 {
		return nil
	}
	last := day.GPSMembers[len(day.GPSMembers)-1]
	first := next.GPSMembers[0]

	lastLat, lastLon := *last.Lat, *last.Lon
	firstLat, firstLon := *first.Lat, *first.Lon

	if !outsideAllCenters(home, lastLat, lastLon) || !outsideAllCenters(home, firstLat, firstLon) {
		return nil
	}

	pairKm := spatial.HaversineDistanceKm(lastLat, lastLon, firstLat, firstLon)
	if pairKm <= sleepProxyPairKm {
		return &models.BaseLocation{
			Lat:    (lastLat + firstLat) / 2,
			Lon:    (lastLon + firstLon) / 2,
			Source: models.BaseSourceSleepProxy,
		}
	}

	if nearestCenterDistanceKm(home, firstLat, firstLon) > nearestCenterDistanceKm(home, lastLat, lastLon) {
		return &models.BaseLocation{Lat: firstLat, Lon: firstLon, Source: models.BaseSourceSleepProxy}
	}
	return &models.BaseLocation{Lat: lastLat, Lon: lastLon, Source: models.BaseSourceSleepProxy}
}
