package daysummary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photoatlas/memories-engine-go/internal/models"
)

func TestTransportSpeedFlagsFastLeg(t *testing.T) {
	home := testHome()
	// Berlin to Hamburg (~255 km) in 75 minutes, train or plane territory.
	media := []models.MediaAsset{
		gpsAsset("dep", localTime(2024, time.July, 1, 9, 0), 52.5200, 13.4050),
		gpsAsset("arr", localTime(2024, time.July, 1, 10, 15), 53.5511, 9.9937),
	}

	days, err := RunDaySummaryPipeline(media, home, DefaultOptions(), nil, nil)
	require.NoError(t, err)

	day := days["2024-07-01"]
	assert.Greater(t, day.MaxLegSpeedKmh, 100.0)
	assert.True(t, day.HasHighSpeedTransit)
}

func TestTransportSpeedIgnoresJitterLegs(t *testing.T) {
	home := testHome()
	// Two shots seconds apart a few meters from each other must not produce
	// an absurd speed reading.
	ts := localTime(2024, time.July, 1, 9, 0)
	media := []models.MediaAsset{
		gpsAsset("a", ts, 52.5200, 13.4050),
		gpsAsset("b", ts.Add(5*time.Second), 52.52005, 13.40505),
	}

	days, err := RunDaySummaryPipeline(media, home, DefaultOptions(), nil, nil)
	require.NoError(t, err)

	day := days["2024-07-01"]
	assert.Equal(t, 0.0, day.MaxLegSpeedKmh)
	assert.False(t, day.HasHighSpeedTransit)
}

func TestCohortPresenceRatio(t *testing.T) {
	home := testHome()
	opts := DefaultOptions()
	opts.ImportantPersons = []string{"p-kid"}
	opts.ImportantNames = []string{" Grandma "}

	withKid := gpsAsset("m1", localTime(2024, time.July, 1, 10, 0), 52.5201, 13.4051)
	withKid.PersonIDs = []string{"p-kid", "p-stranger"}
	withGrandma := gpsAsset("m2", localTime(2024, time.July, 1, 11, 0), 52.5202, 13.4052)
	withGrandma.PersonIDs = []string{"name:grandma"}
	without := gpsAsset("m3", localTime(2024, time.July, 1, 12, 0), 52.5203, 13.4053)
	fourth := gpsAsset("m4", localTime(2024, time.July, 1, 13, 0), 52.5204, 13.4054)

	days, err := RunDaySummaryPipeline([]models.MediaAsset{withKid, withGrandma, without, fourth}, home, opts, nil, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, days["2024-07-01"].CohortRatio, 1e-9)
}
