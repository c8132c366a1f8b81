package daysummary

import (
	"time"

	"github.com/photoatlas/memories-engine-go/internal/models"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

// Berlin with a 12 km radius, UTC+2.
func testHome() models.HomeDescriptor {
	return models.HomeDescriptor{
		Lat:              52.5200,
		Lon:              13.4050,
		RadiusKm:         12,
		CountryCode:      "DE",
		UTCOffsetMinutes: iptr(120),
	}
}

func gpsAsset(id string, ts time.Time, lat, lon float64) models.MediaAsset {
	return models.MediaAsset{
		ID:         id,
		CapturedAt: ts.Unix(),
		Lat:        fptr(lat),
		Lon:        fptr(lon),
		Quality:    0.8,
	}
}

func plainAsset(id string, ts time.Time) models.MediaAsset {
	return models.MediaAsset{ID: id, CapturedAt: ts.Unix(), Quality: 0.8}
}

// localTime builds a timestamp at the given local wall-clock time in the
// test home timezone (UTC+2).
func localTime(year int, month time.Month, day, hour, minute int) time.Time {
	loc := time.FixedZone("home", 120*60)
	return time.Date(year, month, day, hour, minute, 0, 0, loc)
}
