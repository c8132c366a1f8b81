package models

import "time"

// BaseLocation is the inferred sleeping/base position for one day.
type BaseLocation struct {
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Source string  `json:"source"` // which resolution rule produced it
}

// BaseLocation source constants
const (
	BaseSourceOvernightStay = "OVERNIGHT_STAYPOINT"
	BaseSourceSleepProxy    = "SLEEP_PROXY"
	BaseSourceLargestStay   = "LARGEST_STAYPOINT"
	BaseSourceCentroid      = "DAY_CENTROID"
)

// DaySummary aggregates every feature the enrichment pipeline derives for a
// single local calendar day. The initialization stage creates one summary per
// date between the first and last observed date inclusive; dates with no raw
// media are synthesized with IsSynthetic=true and zeroed metrics. Each later
// stage mutates the summary in place; after the pipeline completes the map is
// read-only.
type DaySummary struct {
	Date    string       `json:"date"` // ISO date key, e.g. "2024-07-15"
	Weekday time.Weekday `json:"weekday"`

	// Membership
	Members    []MediaAsset `json:"-"`
	GPSMembers []MediaAsset `json:"-"`
	PhotoCount int          `json:"photo_count"`

	// Location context
	CountryCodes map[string]bool `json:"country_codes,omitempty"`

	// Timezone resolution (initialization stage)
	TimezoneOffsetVotes map[int]int    `json:"-"`
	TimezoneIDVotes     map[string]int `json:"-"`
	TimezoneIDOrder     []string       `json:"-"` // first-seen order, tie break
	LocalOffsetMinutes  int            `json:"local_offset_minutes"`
	LocalTimezoneID     string         `json:"local_timezone_id,omitempty"`

	// POI counters (initialization stage)
	PoiSamples     int `json:"poi_samples"`
	TourismSamples int `json:"tourism_samples"`
	AirportSamples int `json:"airport_samples"`

	// GPS metrics stage
	HasCentroid       bool    `json:"has_centroid"`
	CentroidLat       float64 `json:"centroid_lat,omitempty"`
	CentroidLon       float64 `json:"centroid_lon,omitempty"`
	MaxDistanceKm     float64 `json:"max_distance_km"` // centroid-relative
	AvgDistanceKm     float64 `json:"avg_distance_km"` // centroid-relative
	TravelKm          float64 `json:"travel_km"`       // sum of consecutive legs
	SpotClusterCount  int     `json:"spot_cluster_count"`
	SpotNoiseCount    int     `json:"spot_noise_count"`
	SufficientSamples bool    `json:"sufficient_samples"`

	// Staypoints
	Staypoints            []Staypoint `json:"staypoints,omitempty"`
	DominantStaypoints    []Staypoint `json:"dominant_staypoints,omitempty"`
	StaypointDwellSeconds int64       `json:"staypoint_dwell_seconds"`
	TransitRatio          float64     `json:"transit_ratio"`
	PoiDensity            float64     `json:"poi_density"`

	// Density stage
	DensityZ float64 `json:"density_z"`

	// Transport speed stage
	MaxLegSpeedKmh      float64 `json:"max_leg_speed_kmh"`
	AvgLegSpeedKmh      float64 `json:"avg_leg_speed_kmh"`
	HasHighSpeedTransit bool    `json:"has_high_speed_transit"`

	// Cohort presence stage
	CohortRatio float64 `json:"cohort_ratio"`

	// Away flags
	Base           *BaseLocation `json:"base,omitempty"`
	BaseAway       bool          `json:"base_away"`
	AwayByDistance bool          `json:"away_by_distance"`
	Away           bool          `json:"away"` // merged flag, set by the away stage

	IsSynthetic bool `json:"is_synthetic"`
}

// DateKeyLayout is the time layout for DaySummary date keys.
const DateKeyLayout = "2006-01-02"

// HasGPSAnchors reports whether the day has any usable GPS evidence.
func (d *DaySummary) HasGPSAnchors() bool {
	return len(d.GPSMembers) > 0
}

// DaySpanSeconds returns the elapsed time between the first and last member
// capture, or 0 when the day has fewer than two members.
func (d *DaySummary) DaySpanSeconds() int64 {
	if len(d.Members) < 2 {
		return 0
	}
	first, last := d.Members[0].CapturedAt, d.Members[0].CapturedAt
	for _, m := range d.Members[1:] {
		if m.CapturedAt < first {
			first = m.CapturedAt
		}
		if m.CapturedAt > last {
			last = m.CapturedAt
		}
	}
	return last - first
}
