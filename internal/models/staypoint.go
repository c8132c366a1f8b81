package models

import "fmt"

// Staypoint represents a GPS dwell segment: at least one hour spent within
// a 200 m radius. Derived per day, never persisted by the engine.
type Staypoint struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Start int64   `json:"start"` // Unix timestamp (seconds)
	End   int64   `json:"end"`   // Unix timestamp (seconds)

	// MemberCount is filled by the staypoint aggregation stage.
	MemberCount int `json:"member_count,omitempty"`
}

// DwellSeconds returns the dwell duration of the staypoint.
func (s *Staypoint) DwellSeconds() int64 {
	return s.End - s.Start
}

// Key returns the aggregation index key for the staypoint within a day.
func (s *Staypoint) Key(dateKey string) string {
	return fmt.Sprintf("%s:%d:%d", dateKey, s.Start, s.End)
}

// Overlaps reports whether the staypoint interval intersects [start, end).
func (s *Staypoint) Overlaps(start, end int64) bool {
	return s.Start < end && s.End > start
}
