package daysummary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photoatlas/memories-engine-go/internal/models"
	"github.com/photoatlas/memories-engine-go/internal/resolve"
)

func TestPipelineDateCoverageAndSyntheticDays(t *testing.T) {
	home := testHome()
	media := []models.MediaAsset{
		gpsAsset("a1", localTime(2024, time.July, 1, 10, 0), 52.5201, 13.4051),
		gpsAsset("a2", localTime(2024, time.July, 1, 12, 0), 52.5202, 13.4052),
		gpsAsset("a3", localTime(2024, time.July, 1, 14, 0), 52.5203, 13.4053),
		gpsAsset("a4", localTime(2024, time.July, 4, 11, 0), 52.5201, 13.4051),
		gpsAsset("a5", localTime(2024, time.July, 4, 13, 0), 52.5202, 13.4052),
	}

	days, err := RunDaySummaryPipeline(media, home, DefaultOptions(), nil, nil)
	require.NoError(t, err)

	keys := SortedDateKeys(days)
	require.Equal(t, []string{"2024-07-01", "2024-07-02", "2024-07-03", "2024-07-04"}, keys)

	assert.False(t, days["2024-07-01"].IsSynthetic)
	assert.False(t, days["2024-07-04"].IsSynthetic)
	for _, key := range []string{"2024-07-02", "2024-07-03"} {
		day := days[key]
		assert.True(t, day.IsSynthetic, key)
		assert.Zero(t, day.PhotoCount, key)
		assert.False(t, day.SufficientSamples, key)
		assert.False(t, day.HasCentroid, key)
	}

	assert.Equal(t, 3, days["2024-07-01"].PhotoCount)
	assert.True(t, days["2024-07-01"].SufficientSamples)
	assert.False(t, days["2024-07-04"].SufficientSamples)

	// Photo-rich days sit above the density mean, empty days below.
	assert.Greater(t, days["2024-07-01"].DensityZ, 0.0)
	assert.Less(t, days["2024-07-02"].DensityZ, 0.0)
}

func TestPipelineBucketsByResolverLocalDate(t *testing.T) {
	home := testHome()
	tz := resolve.FixedOffsetResolver{OffsetMinutes: 540, ZoneID: "Asia/Tokyo"}

	// 20:00 UTC on July 1st is already July 2nd in Tokyo.
	ts := time.Date(2024, time.July, 1, 20, 0, 0, 0, time.UTC)
	media := []models.MediaAsset{
		gpsAsset("t1", ts, 35.6762, 139.6503),
		gpsAsset("t2", ts.Add(30*time.Minute), 35.6763, 139.6504),
	}

	days, err := RunDaySummaryPipeline(media, home, DefaultOptions(), tz, nil)
	require.NoError(t, err)

	day, ok := days["2024-07-02"]
	require.True(t, ok, "assets must bucket under the Tokyo local date")
	assert.Equal(t, "Asia/Tokyo", day.LocalTimezoneID)
	assert.Equal(t, 540, day.LocalOffsetMinutes)
}

func TestPipelineFallsBackToHomeOffset(t *testing.T) {
	home := testHome()
	media := []models.MediaAsset{
		plainAsset("p1", localTime(2024, time.July, 1, 9, 0)),
	}

	days, err := RunDaySummaryPipeline(media, home, DefaultOptions(), nil, nil)
	require.NoError(t, err)

	day, ok := days["2024-07-01"]
	require.True(t, ok)
	assert.Equal(t, 120, day.LocalOffsetMinutes)
	assert.Empty(t, day.LocalTimezoneID)
}

func TestPipelineSortsMembersDeterministically(t *testing.T) {
	home := testHome()
	media := []models.MediaAsset{
		gpsAsset("late", localTime(2024, time.July, 1, 18, 0), 52.5201, 13.4051),
		gpsAsset("early", localTime(2024, time.July, 1, 8, 0), 52.5202, 13.4052),
		gpsAsset("noon", localTime(2024, time.July, 1, 12, 0), 52.5203, 13.4053),
	}

	days, err := RunDaySummaryPipeline(media, home, DefaultOptions(), nil, nil)
	require.NoError(t, err)

	day := days["2024-07-01"]
	require.Len(t, day.Members, 3)
	assert.Equal(t, "early", day.Members[0].ID)
	assert.Equal(t, "noon", day.Members[1].ID)
	assert.Equal(t, "late", day.Members[2].ID)
}

func TestPipelineSkipsAssetsWithoutTimestamp(t *testing.T) {
	home := testHome()
	media := []models.MediaAsset{
		{ID: "no-ts"},
		gpsAsset("ok", localTime(2024, time.July, 1, 10, 0), 52.52, 13.405),
	}

	days, err := RunDaySummaryPipeline(media, home, DefaultOptions(), nil, nil)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, 1, days["2024-07-01"].PhotoCount)
}

func TestNewPipelineRejectsInvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.MinItemsPerDay = 0
	_, err := NewPipeline(opts, nil, nil)
	assert.Error(t, err)
}

func TestPipelineRejectsInvalidHome(t *testing.T) {
	home := testHome()
	home.RadiusKm = 0
	_, err := RunDaySummaryPipeline(nil, home, DefaultOptions(), nil, nil)
	assert.Error(t, err)
}

func TestDateKeyHelpers(t *testing.T) {
	assert.Equal(t, "2024-07-02", NextDateKey("2024-07-01"))
	assert.Equal(t, "", NextDateKey("not-a-date"))
	assert.True(t, DateKeysSequential("2024-02-28", "2024-02-29"))
	assert.False(t, DateKeysSequential("2024-07-01", "2024-07-03"))
}
