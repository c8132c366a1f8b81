package selection

import (
	"sort"

	"github.com/photoatlas/memories-engine-go/internal/models"
)

// selector is the greedy layer: it builds per-day candidate pools, resolves
// burst and slot collisions, interleaves days round-robin, and accepts
// candidates under the day, staypoint, spacing and duplicate constraints.
// One selector serves one Select call.
type selector struct {
	opts   *Options
	cache  *pairCache
	t      Telemetry
	cohort map[string]bool

	selected  []Candidate
	dayCount  map[string]int
	stayCount map[string]int
}

func newSelector(opts *Options, cache *pairCache, t Telemetry) *selector {
	return &selector{
		opts:      opts,
		cache:     cache,
		t:         t,
		cohort:    opts.CohortIDs(),
		dayCount:  make(map[string]int),
		stayCount: make(map[string]int),
	}
}

// run executes the greedy pass over the summary map and returns the accepted
// candidates in acceptance order.
func (s *selector) run(days map[string]*models.DaySummary) []Candidate {
	keys := make([]string, 0, len(days))
	for key := range days {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	perDay := make([][]Candidate, 0, len(keys))
	var fallback []Candidate
	for _, key := range keys {
		day := days[key]
		candidates := buildDayCandidates(day, s.opts, s.cohort, s.t)
		primary, demoted := collapseBursts(candidates, s.t)
		primary, collided := resolveSlotCollisions(primary, s.t)
		fallback = append(fallback, demoted...)
		fallback = append(fallback, collided...)
		sortPrimary(primary)
		perDay = append(perDay, primary)
	}
	sortFallback(fallback)

	s.acceptPool(interleaveDays(perDay), CounterAcceptedPrimary)
	s.acceptPool(fallback, CounterAcceptedFallback)
	return s.selected
}

// collapseBursts keeps one representative per burst group: the flagged
// representative, else the highest quality. The rest joins the fallback pool.
func collapseBursts(candidates []Candidate, t Telemetry) (primary, fallback []Candidate) {
	byBurst := make(map[string]int) // burst id -> index into primary
	for _, c := range candidates {
		if c.BurstID == "" {
			primary = append(primary, c)
			continue
		}
		at, ok := byBurst[c.BurstID]
		if !ok {
			byBurst[c.BurstID] = len(primary)
			primary = append(primary, c)
			continue
		}
		kept := primary[at]
		if burstPreferred(&c, &kept) {
			primary[at] = c
			c = kept
		}
		c.Origin = OriginFallback
		fallback = append(fallback, c)
		t.Inc(CounterBurstCollapsed)
	}
	return primary, fallback
}

func burstPreferred(challenger, kept *Candidate) bool {
	if challenger.Media.BurstRepresentative != kept.Media.BurstRepresentative {
		return challenger.Media.BurstRepresentative
	}
	if challenger.Quality != kept.Quality {
		return challenger.Quality > kept.Quality
	}
	return challenger.ID() < kept.ID()
}

// resolveSlotCollisions keeps the higher-scoring candidate per time slot and
// demotes the loser to the fallback pool.
func resolveSlotCollisions(candidates []Candidate, t Telemetry) (primary, fallback []Candidate) {
	bySlot := make(map[int]int) // slot -> index into primary
	for _, c := range candidates {
		at, ok := bySlot[c.Slot]
		if !ok {
			bySlot[c.Slot] = len(primary)
			primary = append(primary, c)
			continue
		}
		kept := primary[at]
		if c.Score > kept.Score || (c.Score == kept.Score && c.Timestamp < kept.Timestamp) {
			primary[at] = c
			c = kept
		}
		c.Origin = OriginFallback
		fallback = append(fallback, c)
		t.Inc(CounterSlotCollision)
	}
	return primary, fallback
}

// interleaveDays merges the per-day pools round-robin by position, so every
// day contributes early picks before any day contributes its depth.
func interleaveDays(perDay [][]Candidate) []Candidate {
	var merged []Candidate
	for pos := 0; ; pos++ {
		found := false
		for _, pool := range perDay {
			if pos < len(pool) {
				merged = append(merged, pool[pos])
				found = true
			}
		}
		if !found {
			return merged
		}
	}
}

// acceptPool feeds one ordered pool through the greedy constraints.
func (s *selector) acceptPool(pool []Candidate, acceptCounter string) {
	for i := range pool {
		if len(s.selected) >= s.opts.TargetTotal {
			// Everything left in the pool is over target.
			s.t[CounterTargetReached] += len(pool) - i
			return
		}
		s.accept(pool[i], acceptCounter)
	}
}

func (s *selector) accept(c Candidate, acceptCounter string) {
	if dupAt, replace := s.findDuplicate(&c); dupAt >= 0 {
		if replace {
			s.replaceAt(dupAt, c)
			s.t.Inc(CounterDuplicateReplaced)
		} else {
			s.t.Inc(CounterDuplicateRejected)
		}
		return
	}

	if s.dayCount[c.DayKey] >= s.opts.MaxPerDay {
		s.t.Inc(CounterDayCapReached)
		return
	}
	if c.StaypointKey != "" && s.stayCount[c.StaypointKey] >= s.opts.MaxPerStaypoint {
		s.t.Inc(CounterStaypointCap)
		return
	}
	for i := range s.selected {
		if s.cache.stats(&c, &s.selected[i]).timeDelta < s.opts.MinSpacingSeconds {
			s.t.Inc(CounterSpacingRejected)
			return
		}
	}

	s.selected = append(s.selected, c)
	s.dayCount[c.DayKey]++
	if c.StaypointKey != "" {
		s.stayCount[c.StaypointKey]++
	}
	s.t.Inc(acceptCounter)
}

// findDuplicate locates a selected near-duplicate of the candidate. Two items
// are duplicates when they share a burst id, share a device fingerprint with
// a close perceptual hash, or share a device within a tight time window.
// For same-burst pairs the representative preference decides the replacement;
// otherwise the higher quality wins.
func (s *selector) findDuplicate(c *Candidate) (at int, replace bool) {
	window := s.opts.MinSpacingSeconds
	if window < 300 {
		window = 300
	}
	for i := range s.selected {
		sel := &s.selected[i]
		if c.BurstID != "" && c.BurstID == sel.BurstID {
			return i, burstPreferred(c, sel)
		}
		if !s.isDuplicate(c, sel, window) {
			continue
		}
		return i, c.Quality > sel.Quality
	}
	return -1, false
}

func (s *selector) isDuplicate(a, b *Candidate, window int64) bool {
	deviceA, deviceB := a.Media.DeviceFingerprint(), b.Media.DeviceFingerprint()
	if deviceA == "" || deviceA != deviceB {
		return false
	}
	stats := s.cache.stats(a, b)
	if stats.phashDistance <= s.opts.PhashMinHamming {
		return true
	}
	return stats.timeDelta <= window
}

// replaceAt swaps a selected item for a higher-quality duplicate, keeping the
// selection position and fixing the quota counters.
func (s *selector) replaceAt(at int, c Candidate) {
	old := s.selected[at]
	s.dayCount[old.DayKey]--
	if old.StaypointKey != "" {
		s.stayCount[old.StaypointKey]--
	}
	s.selected[at] = c
	s.dayCount[c.DayKey]++
	if c.StaypointKey != "" {
		s.stayCount[c.StaypointKey]++
	}
}
