package models

// Classification constants for vacation scoring.
const (
	ClassificationVacation  = "vacation"
	ClassificationShortTrip = "short_trip"
	ClassificationDayTrip   = "day_trip"
)

// AlgorithmVacation tags drafts produced by the vacation run detector.
const AlgorithmVacation = "vacation"

// ClusterParams holds the scored attributes of a memory cluster.
type ClusterParams struct {
	Score          float64 `json:"score"`
	Classification string  `json:"classification"`
	Nights         int     `json:"nights"`
	AwayDays       int     `json:"away_days"`
	MoveDays       int     `json:"move_days"`
	CountryChange  bool    `json:"country_change"`
	TimezoneChange bool    `json:"timezone_change"`
	TourismRatio   float64 `json:"tourism_ratio"`
	DistanceKm     float64 `json:"distance_km"` // centroid distance from home

	// Majority place label resolved by the location helper.
	PlaceLabel      string   `json:"place_label,omitempty"`
	PlaceComponents []string `json:"place_components,omitempty"`
	CountryCodes    []string `json:"country_codes,omitempty"`
}

// ClusterDraft is the immutable record emitted for one qualifying run.
type ClusterDraft struct {
	ID        string        `json:"id"`
	Algorithm string        `json:"algorithm"`
	Params    ClusterParams `json:"params"`

	CentroidLat float64 `json:"centroid_lat"`
	CentroidLon float64 `json:"centroid_lon"`

	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	// MemberIDs lists every member of the run in capture order.
	MemberIDs []string `json:"member_ids"`
}
