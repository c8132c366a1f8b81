package daysummary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photoatlas/memories-engine-go/internal/models"
)

func TestTransitRatio(t *testing.T) {
	assert.Equal(t, 0.0, transitRatio(0, 0, 0), "empty day has no span")
	assert.Equal(t, 1.0, transitRatio(7200, 0, 0), "span without staypoints is all transit")
	assert.Equal(t, 0.0, transitRatio(7200, 7200, 1), "dwell covering the span")
	assert.Equal(t, 0.0, transitRatio(7200, 9000, 1), "overlapping staypoints can exceed the span")
	assert.InDelta(t, 0.5, transitRatio(7200, 3600, 1), 1e-9)
}

func TestPoiDensity(t *testing.T) {
	assert.Equal(t, 0.0, poiDensity(0, 0, 0))
	assert.InDelta(t, 0.5, poiDensity(1, 2, 10), 1e-9, "staypoint count wins as denominator")
	assert.InDelta(t, 0.2, poiDensity(2, 0, 10), 1e-9, "photo count fallback")
	assert.Equal(t, 1.0, poiDensity(9, 2, 0), "clamped to one")
}

func TestRankStaypointsOrderAndLimit(t *testing.T) {
	stays := []models.Staypoint{
		{Lat: 1, Lon: 1, Start: 0, End: 3600, MemberCount: 2},
		{Lat: 2, Lon: 2, Start: 0, End: 7200, MemberCount: 1},
		{Lat: 3, Lon: 3, Start: 100, End: 3700, MemberCount: 5},
	}

	ranked := rankStaypoints("2024-07-01", stays, 2)
	require.Len(t, ranked, 2)
	// Longest dwell first, member count breaks the tie.
	assert.Equal(t, 2.0, ranked[0].Lat)
	assert.Equal(t, 3.0, ranked[1].Lat)

	assert.Nil(t, rankStaypoints("2024-07-01", nil, 3))
}
