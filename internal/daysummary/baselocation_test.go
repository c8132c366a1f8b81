package daysummary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photoatlas/memories-engine-go/internal/models"
)

func epoch(year int, month time.Month, day, hour int) int64 {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC).Unix()
}

func TestBaseLocationOvernightStaypointWins(t *testing.T) {
	day := &models.DaySummary{
		Date:               "2024-07-01",
		LocalOffsetMinutes: 0,
		Staypoints: []models.Staypoint{
			// Daytime staypoint, outside the sleep window.
			{Lat: 48.0, Lon: 11.0, Start: epoch(2024, time.July, 1, 10), End: epoch(2024, time.July, 1, 14)},
			// Evening staypoint covering 20:00 to 23:00.
			{Lat: 48.5, Lon: 11.5, Start: epoch(2024, time.July, 1, 20), End: epoch(2024, time.July, 1, 23)},
		},
	}

	base := resolveBaseLocation(day, nil, testHome())
	require.NotNil(t, base)
	assert.Equal(t, models.BaseSourceOvernightStay, base.Source)
	assert.Equal(t, 48.5, base.Lat)
	assert.Equal(t, 11.5, base.Lon)
}

func TestBaseLocationOvernightConsidersNextDayMorning(t *testing.T) {
	day := &models.DaySummary{Date: "2024-07-01", LocalOffsetMinutes: 0}
	next := &models.DaySummary{
		Date:               "2024-07-02",
		LocalOffsetMinutes: 0,
		Staypoints: []models.Staypoint{
			// Hotel breakfast, 07:00 to 09:00 the next morning.
			{Lat: 41.9, Lon: 12.5, Start: epoch(2024, time.July, 2, 7), End: epoch(2024, time.July, 2, 9)},
		},
	}

	base := resolveBaseLocation(day, next, testHome())
	require.NotNil(t, base)
	assert.Equal(t, models.BaseSourceOvernightStay, base.Source)
	assert.Equal(t, 41.9, base.Lat)
}

func TestBaseLocationSleepProxyAveragesClosePair(t *testing.T) {
	day := &models.DaySummary{
		Date: "2024-07-01",
		GPSMembers: []models.MediaAsset{
			gpsAsset("last", localTime(2024, time.July, 1, 22, 0), 41.9000, 12.5000),
		},
	}
	next := &models.DaySummary{
		Date: "2024-07-02",
		GPSMembers: []models.MediaAsset{
			gpsAsset("first", localTime(2024, time.July, 2, 8, 0), 41.9010, 12.5010),
		},
	}

	base := resolveBaseLocation(day, next, testHome())
	require.NotNil(t, base)
	assert.Equal(t, models.BaseSourceSleepProxy, base.Source)
	assert.InDelta(t, 41.9005, base.Lat, 1e-6)
	assert.InDelta(t, 12.5005, base.Lon, 1e-6)
}

func TestBaseLocationSleepProxyPicksFartherPoint(t *testing.T) {
	day := &models.DaySummary{
		Date: "2024-07-01",
		GPSMembers: []models.MediaAsset{
			// Roughly 180 km from home.
			gpsAsset("last", localTime(2024, time.July, 1, 20, 0), 54.09, 12.14),
		},
	}
	next := &models.DaySummary{
		Date: "2024-07-02",
		GPSMembers: []models.MediaAsset{
			// Roughly 280 km from home.
			gpsAsset("first", localTime(2024, time.July, 2, 9, 0), 50.0755, 14.4378),
		},
	}

	base := resolveBaseLocation(day, next, testHome())
	require.NotNil(t, base)
	assert.Equal(t, models.BaseSourceSleepProxy, base.Source)
	assert.Equal(t, 50.0755, base.Lat)
}

func TestBaseLocationProxySkippedWhenEndpointAtHome(t *testing.T) {
	// Last shot of the day is at home; the trip starts tomorrow. The night
	// must not be attributed to the destination.
	day := &models.DaySummary{
		Date: "2024-07-01",
		GPSMembers: []models.MediaAsset{
			gpsAsset("last", localTime(2024, time.July, 1, 19, 0), 52.5201, 13.4051),
		},
		HasCentroid: true,
		CentroidLat: 52.5201,
		CentroidLon: 13.4051,
	}
	next := &models.DaySummary{
		Date: "2024-07-02",
		GPSMembers: []models.MediaAsset{
			gpsAsset("first", localTime(2024, time.July, 2, 11, 0), 50.0755, 14.4378),
		},
	}

	base := resolveBaseLocation(day, next, testHome())
	require.NotNil(t, base)
	assert.Equal(t, models.BaseSourceCentroid, base.Source)
	assert.InDelta(t, 52.5201, base.Lat, 1e-6)
}

func TestBaseLocationLargestStaypointFallback(t *testing.T) {
	day := &models.DaySummary{
		Date:               "2024-07-01",
		LocalOffsetMinutes: 0,
		Staypoints: []models.Staypoint{
			{Lat: 48.0, Lon: 11.0, Start: epoch(2024, time.July, 1, 10), End: epoch(2024, time.July, 1, 12)},
			{Lat: 48.2, Lon: 11.2, Start: epoch(2024, time.July, 1, 13), End: epoch(2024, time.July, 1, 17)},
		},
	}

	base := resolveBaseLocation(day, nil, testHome())
	require.NotNil(t, base)
	assert.Equal(t, models.BaseSourceLargestStay, base.Source)
	assert.Equal(t, 48.2, base.Lat)
}

func TestBaseLocationNilWithoutEvidence(t *testing.T) {
	day := &models.DaySummary{Date: "2024-07-01"}
	assert.Nil(t, resolveBaseLocation(day, nil, testHome()))
}
