package selection

import (
	"github.com/photoatlas/memories-engine-go/internal/spatial"
)

// pairStats memoizes the similarity measures of one candidate pair.
type pairStats struct {
	timeDelta     int64
	geoDistanceM  float64
	hasGeo        bool
	phashDistance int
	personOverlap int
}

// pairCache memoizes pairwise similarity per selection call. The key is
// order-independent, so (a, b) and (b, a) hit the same entry. The cache is
// owned by a single Select call and must not be shared across concurrent
// calls.
type pairCache struct {
	entries map[string]pairStats
}

func newPairCache() *pairCache {
	return &pairCache{entries: make(map[string]pairStats)}
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}

// stats returns the memoized similarity measures for a candidate pair,
// computing them on first access.
func (pc *pairCache) stats(a, b *Candidate) pairStats {
	key := pairKey(a.ID(), b.ID())
	if s, ok := pc.entries[key]; ok {
		return s
	}

	s := pairStats{
		phashDistance: phashDistance(a.Media.PHash, b.Media.PHash),
		personOverlap: personOverlap(a.Media.PersonIDs, b.Media.PersonIDs),
	}
	s.timeDelta = a.Timestamp - b.Timestamp
	if s.timeDelta < 0 {
		s.timeDelta = -s.timeDelta
	}
	if a.Media.HasGPS() && b.Media.HasGPS() {
		s.hasGeo = true
		s.geoDistanceM = spatial.HaversineDistance(*a.Media.Lat, *a.Media.Lon, *b.Media.Lat, *b.Media.Lon)
	}

	pc.entries[key] = s
	return s
}

func personOverlap(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, id := range a {
		set[id] = true
	}
	overlap := 0
	for _, id := range b {
		if set[id] {
			overlap++
		}
	}
	return overlap
}
