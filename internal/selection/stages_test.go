package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photoatlas/memories-engine-go/internal/models"
)

func fptr(v float64) *float64 { return &v }

func cand(id string, ts int64, phash uint64) Candidate {
	return Candidate{
		Media:     models.MediaAsset{ID: id, CapturedAt: ts, Quality: 0.8, PHash: phash},
		DayKey:    "2024-07-01",
		Timestamp: ts,
		Quality:   0.8,
	}
}

func ids(candidates []Candidate) []string {
	out := make([]string, len(candidates))
	for i := range candidates {
		out[i] = candidates[i].ID()
	}
	return out
}

func TestOrientationShareStage(t *testing.T) {
	opts := DefaultOptions()
	in := []Candidate{
		cand("l1", 1000, hashFor(0)),
		cand("l2", 2000, hashFor(1)),
		cand("l3", 3000, hashFor(2)),
		cand("l4", 4000, hashFor(3)),
		cand("free", 5000, hashFor(4)),
	}
	for i := 0; i < 4; i++ {
		in[i].Media.Orientation = models.OrientationLandscape
	}

	out := orientationShareStage{}.Apply(in, &opts, make(Telemetry))
	// With a 0.6 share cap only two of four landscape shots survive; the
	// orientation-free item always passes.
	assert.Equal(t, []string{"l1", "l2", "free"}, ids(out))
}

func TestPeopleBalanceStage(t *testing.T) {
	opts := DefaultOptions()
	opts.ImportantPersons = []string{"p-kid"}

	kid := cand("kid", 1000, hashFor(0))
	kid.Media.PersonIDs = []string{"p-kid"}
	stranger1 := cand("stranger1", 2000, hashFor(1))
	stranger1.Media.PersonIDs = []string{"p-x"}
	stranger2 := cand("stranger2", 3000, hashFor(2))
	stranger2.Media.PersonIDs = []string{"p-y"}
	stranger3 := cand("stranger3", 3500, hashFor(5))
	stranger3.Media.PersonIDs = []string{"p-z"}
	group := cand("group", 4000, hashFor(3))
	group.Media.PersonIDs = []string{"p-x", "p-y", "p-z"}
	scenery := cand("scenery", 5000, hashFor(4))

	telemetry := make(Telemetry)
	out := peopleBalanceStage{}.Apply(
		[]Candidate{kid, stranger1, stranger2, stranger3, group, scenery}, &opts, telemetry)

	// The third solo stranger shot breaks the share cap; cohort, group and
	// person-free shots always pass.
	assert.Equal(t, []string{"kid", "stranger1", "stranger2", "group", "scenery"}, ids(out))
	assert.Equal(t, 1, telemetry[CounterStagePeople])
}

func TestPhashDiversityStage(t *testing.T) {
	opts := DefaultOptions()
	near := cand("near", 2000, 0x03) // distance 2 from first
	distinct := cand("distinct", 3000, hashFor(3))
	in := []Candidate{cand("first", 1000, 0x01), near, distinct}

	telemetry := make(Telemetry)
	out := phashDiversityStage{cache: newPairCache()}.Apply(in, &opts, telemetry)
	assert.Equal(t, []string{"first", "distinct"}, ids(out))
	assert.Equal(t, 1, telemetry[CounterStagePhash])
}

func TestSceneBucketStage(t *testing.T) {
	opts := DefaultOptions()
	opts.SceneBucketCap = 2

	var in []Candidate
	for i := 0; i < 3; i++ {
		c := cand("scene"+string(rune('a'+i)), int64(1000*(i+1)), hashFor(i))
		c.Media.Lat = fptr(48.8584)
		c.Media.Lon = fptr(2.2945)
		in = append(in, c)
	}
	noGPS := cand("no-gps", 5000, hashFor(5))
	in = append(in, noGPS)

	telemetry := make(Telemetry)
	out := sceneBucketStage{}.Apply(in, &opts, telemetry)
	assert.Equal(t, []string{"scenea", "sceneb", "no-gps"}, ids(out))
	assert.Equal(t, 1, telemetry[CounterStageScene])
}

func TestStaypointQuotaStage(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxPerStaypoint = 1

	a := cand("a", 1000, hashFor(0))
	a.StaypointKey = "2024-07-01:0:7200"
	b := cand("b", 2000, hashFor(1))
	b.StaypointKey = "2024-07-01:0:7200"
	transit := cand("transit", 3000, hashFor(2))

	out := staypointQuotaStage{}.Apply([]Candidate{a, b, transit}, &opts, make(Telemetry))
	assert.Equal(t, []string{"a", "transit"}, ids(out))
}

func TestTimeGapStagePerSlotCap(t *testing.T) {
	opts := DefaultOptions()
	// Three shots in the same two-hour slot, each 20 minutes apart.
	a := cand("a", 36000, hashFor(0)) // 10:00
	b := cand("b", 37200, hashFor(1)) // 10:20
	c := cand("c", 38400, hashFor(2)) // 10:40
	a.Slot, b.Slot, c.Slot = 5, 5, 5

	telemetry := make(Telemetry)
	out := timeGapStage{}.Apply([]Candidate{a, b, c}, &opts, telemetry)
	assert.Equal(t, []string{"a", "b"}, ids(out))
	assert.Equal(t, 1, telemetry[CounterStageTimeGap])
}

func TestTimeGapStageFixedSpacing(t *testing.T) {
	opts := DefaultOptions()
	a := cand("a", 36000, hashFor(0))
	tight := cand("tight", 36300, hashFor(1)) // 5 minutes later
	a.Slot, tight.Slot = 5, 5

	out := timeGapStage{}.Apply([]Candidate{a, tight}, &opts, make(Telemetry))
	assert.Equal(t, []string{"a"}, ids(out))
}

func TestAdaptiveSlotStageWidensSpacing(t *testing.T) {
	opts := DefaultOptions()
	// 1000 seconds apart: clears the fixed 900s gap but not the widened
	// requirement once the day starts filling up.
	a := cand("a", 36000, hashFor(0))
	b := cand("b", 37000, hashFor(1))

	telemetry := make(Telemetry)
	out := adaptiveSlotStage{}.Apply([]Candidate{a, b}, &opts, telemetry)
	assert.Equal(t, []string{"a"}, ids(out))
	assert.Equal(t, 1, telemetry[CounterStageAdaptive])
}

func TestAdaptiveSlotStageKeepsWideSpacing(t *testing.T) {
	opts := DefaultOptions()
	a := cand("a", 36000, hashFor(0))
	b := cand("b", 36000+7200, hashFor(1))

	out := adaptiveSlotStage{}.Apply([]Candidate{a, b}, &opts, make(Telemetry))
	assert.Len(t, out, 2)
}

func TestDayQuotaStage(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxPerDay = 2

	in := []Candidate{
		cand("a", 1000, hashFor(0)),
		cand("b", 2000, hashFor(1)),
		cand("c", 3000, hashFor(2)),
	}
	other := cand("other-day", 4000, hashFor(3))
	other.DayKey = "2024-07-02"
	in = append(in, other)

	out := dayQuotaStage{}.Apply(in, &opts, make(Telemetry))
	assert.Equal(t, []string{"a", "b", "other-day"}, ids(out))
}

func TestPairCacheSymmetricAndMemoized(t *testing.T) {
	cache := newPairCache()
	a := cand("a", 1000, 0x0F)
	a.Media.Lat = fptr(52.52)
	a.Media.Lon = fptr(13.405)
	a.Media.PersonIDs = []string{"p1", "p2"}
	b := cand("b", 4000, 0x00)
	b.Media.Lat = fptr(52.53)
	b.Media.Lon = fptr(13.405)
	b.Media.PersonIDs = []string{"p2", "p3"}

	ab := cache.stats(&a, &b)
	ba := cache.stats(&b, &a)
	assert.Equal(t, ab, ba)
	assert.Equal(t, int64(3000), ab.timeDelta)
	assert.Equal(t, 4, ab.phashDistance)
	assert.Equal(t, 1, ab.personOverlap)
	require.True(t, ab.hasGeo)
	assert.InDelta(t, 1110, ab.geoDistanceM, 30)
	assert.Len(t, cache.entries, 1)
}
