// Package score aggregates a detected run of away days into a weighted
// vacation score and, when the score qualifies, a cluster draft record.
package score

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/photoatlas/memories-engine-go/internal/models"
	"github.com/photoatlas/memories-engine-go/internal/resolve"
	"github.com/photoatlas/memories-engine-go/internal/spatial"
)

// Classification thresholds.
const (
	VacationThreshold  = 8.0
	ShortTripThreshold = 6.0
	DayTripThreshold   = 4.0
)

// Weights control the scored contribution of each run feature.
type Weights struct {
	AwayDay        float64
	AwayDayCap     int
	Distance       float64
	CountryChange  float64
	TimezoneChange float64
	Tourism        float64
	MoveDay        float64
	MoveDayCap     int
	AirportBonus   float64
	Density        float64
	Exploration    float64
	DwellHour      float64
	WeekendHoliday float64
	WorkdayPenalty float64
}

// DefaultWeights returns the scoring defaults.
func DefaultWeights() Weights {
	return Weights{
		AwayDay:        1.2,
		AwayDayCap:     10,
		Distance:       0.8,
		CountryChange:  1.5,
		TimezoneChange: 1.0,
		Tourism:        1.5,
		MoveDay:        0.5,
		MoveDayCap:     5,
		AirportBonus:   1.0,
		Density:        0.5,
		Exploration:    0.3,
		DwellHour:      0.05,
		WeekendHoliday: 0.4,
		WorkdayPenalty: 0.3,
	}
}

// Options configures the scorer.
type Options struct {
	Weights Weights

	// MoveDayTravelKm is the per-day travel distance marking a move day.
	MoveDayTravelKm float64

	// ExplorationDwellCapHours bounds the dwell-hour bonus per run.
	ExplorationDwellCapHours float64
}

// DefaultOptions returns the scorer defaults.
func DefaultOptions() Options {
	return Options{
		Weights:                  DefaultWeights(),
		MoveDayTravelKm:          100.0,
		ExplorationDwellCapHours: 40.0,
	}
}

// Validate checks the options for configuration errors.
func (o *Options) Validate() error {
	if o.MoveDayTravelKm <= 0 {
		return fmt.Errorf("move day travel threshold must be positive, got %f", o.MoveDayTravelKm)
	}
	if o.Weights.AwayDayCap < 1 || o.Weights.MoveDayCap < 1 {
		return fmt.Errorf("score caps must be at least 1, got away=%d move=%d", o.Weights.AwayDayCap, o.Weights.MoveDayCap)
	}
	if o.ExplorationDwellCapHours <= 0 {
		return fmt.Errorf("exploration dwell cap must be positive, got %f", o.ExplorationDwellCapHours)
	}
	return nil
}

// Scorer turns runs of day keys into cluster drafts.
type Scorer struct {
	opts     Options
	holidays resolve.HolidayResolver
	location resolve.LocationHelper
}

// NewScorer validates the options and builds a scorer. Nil collaborators fall
// back to the no-op defaults.
func NewScorer(opts Options, holidays resolve.HolidayResolver, location resolve.LocationHelper) (*Scorer, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scorer options: %w", err)
	}
	if holidays == nil {
		holidays = resolve.NoHolidays{}
	}
	if location == nil {
		location = resolve.NoopLocationHelper{}
	}
	return &Scorer{opts: opts, holidays: holidays, location: location}, nil
}

// BuildDraft scores the run and emits a cluster draft, or nil when the run
// does not qualify. A nil draft is a first-class outcome, not an error.
func (s *Scorer) BuildDraft(dayKeys []string, days map[string]*models.DaySummary, home models.HomeDescriptor) *models.ClusterDraft {
	if len(dayKeys) == 0 {
		return nil
	}

	agg := s.aggregate(dayKeys, days, home)
	if agg == nil {
		return nil
	}

	w := s.opts.Weights
	score := w.AwayDay*float64(minInt(agg.awayDays, w.AwayDayCap)) +
		w.Distance*math.Log1p(agg.distanceKm) +
		w.Tourism*agg.tourismRatio +
		w.MoveDay*float64(minInt(agg.moveDays, w.MoveDayCap)) +
		w.Density*agg.densityAvg +
		w.Exploration*float64(agg.multiSpotDays) +
		w.DwellHour*agg.dwellBonusHours +
		w.WeekendHoliday*float64(agg.weekendHolidayDays) -
		w.WorkdayPenalty*float64(agg.workdays)
	if agg.countryChange {
		score += w.CountryChange
	}
	if agg.timezoneChange {
		score += w.TimezoneChange
	}
	if agg.airportSamples > 0 {
		score += w.AirportBonus
	}

	classification := classify(score)
	if classification == "" {
		return nil
	}

	countries := make([]string, 0, len(agg.countries))
	for code := range agg.countries {
		countries = append(countries, code)
	}
	sort.Strings(countries)

	place := s.location.MajorityPlace(agg.lats, agg.lons)

	return &models.ClusterDraft{
		ID:        uuid.NewString(),
		Algorithm: models.AlgorithmVacation,
		Params: models.ClusterParams{
			Score:           score,
			Classification:  classification,
			Nights:          maxInt(len(dayKeys)-1, 0),
			AwayDays:        agg.awayDays,
			MoveDays:        agg.moveDays,
			CountryChange:   agg.countryChange,
			TimezoneChange:  agg.timezoneChange,
			TourismRatio:    agg.tourismRatio,
			DistanceKm:      agg.distanceKm,
			PlaceLabel:      place.Label,
			PlaceComponents: place.Components,
			CountryCodes:    countries,
		},
		CentroidLat: agg.centroid.Lat,
		CentroidLon: agg.centroid.Lon,
		StartDate:   dayKeys[0],
		EndDate:     dayKeys[len(dayKeys)-1],
		MemberIDs:   agg.memberIDs,
	}
}

// runAggregate collects every feature the weighted sum consumes.
type runAggregate struct {
	awayDays           int
	moveDays           int
	workdays           int
	weekendHolidayDays int
	multiSpotDays      int
	airportSamples     int
	dwellBonusHours    float64
	densityAvg         float64
	tourismRatio       float64
	distanceKm         float64
	countryChange      bool
	timezoneChange     bool
	countries          map[string]bool
	centroid           spatial.Point
	lats, lons         []float64
	memberIDs          []string
}

func (s *Scorer) aggregate(dayKeys []string, days map[string]*models.DaySummary, home models.HomeDescriptor) *runAggregate {
	agg := &runAggregate{countries: make(map[string]bool)}

	homeOffset := 0
	if home.UTCOffsetMinutes != nil {
		homeOffset = *home.UTCOffsetMinutes
	}

	var points []spatial.Point
	var densitySum float64
	tourismDays := 0

	type memberRef struct {
		id string
		ts int64
	}
	var members []memberRef

	for _, key := range dayKeys {
		day, ok := days[key]
		if !ok {
			continue
		}
		if day.Away || day.BaseAway || day.AwayByDistance {
			agg.awayDays++
		}
		if day.TravelKm > s.opts.MoveDayTravelKm {
			agg.moveDays++
		}
		if day.SpotClusterCount >= 2 {
			agg.multiSpotDays++
		}
		agg.dwellBonusHours += float64(day.StaypointDwellSeconds) / 3600.0
		agg.airportSamples += day.AirportSamples
		densitySum += day.DensityZ

		tourismDay := day.TourismSamples > 0
		if tourismDay {
			tourismDays++
		}

		weekend := day.Weekday == time.Saturday || day.Weekday == time.Sunday
		holiday := s.isHoliday(key, day, home)
		if weekend || holiday {
			agg.weekendHolidayDays++
		} else if !tourismDay && !day.IsSynthetic {
			agg.workdays++
		}

		for code := range day.CountryCodes {
			agg.countries[code] = true
			if home.CountryCode != "" && code != home.CountryCode {
				agg.countryChange = true
			}
		}
		if !day.IsSynthetic && day.LocalOffsetMinutes != homeOffset {
			agg.timezoneChange = true
		}

		for _, m := range day.Members {
			members = append(members, memberRef{id: m.ID, ts: m.CapturedAt})
		}
		for _, m := range day.GPSMembers {
			points = append(points, spatial.Point{Lat: *m.Lat, Lon: *m.Lon})
			agg.lats = append(agg.lats, *m.Lat)
			agg.lons = append(agg.lons, *m.Lon)
		}
	}

	if len(points) == 0 {
		// A run without any GPS evidence cannot be scored.
		return nil
	}

	if home.CountryCode == "" && len(agg.countries) > 1 {
		agg.countryChange = true
	}

	agg.centroid = spatial.Centroid(points)
	agg.distanceKm = nearestCenterDistanceKm(home, agg.centroid.Lat, agg.centroid.Lon)
	agg.densityAvg = densitySum / float64(len(dayKeys))
	agg.tourismRatio = float64(tourismDays) / float64(len(dayKeys))
	if agg.dwellBonusHours > s.opts.ExplorationDwellCapHours {
		agg.dwellBonusHours = s.opts.ExplorationDwellCapHours
	}

	sort.SliceStable(members, func(i, j int) bool {
		if members[i].ts != members[j].ts {
			return members[i].ts < members[j].ts
		}
		return members[i].id < members[j].id
	})
	agg.memberIDs = make([]string, len(members))
	for i, m := range members {
		agg.memberIDs[i] = m.id
	}
	return agg
}

func (s *Scorer) isHoliday(key string, day *models.DaySummary, home models.HomeDescriptor) bool {
	date, err := time.Parse(models.DateKeyLayout, key)
	if err != nil {
		return false
	}
	country := home.CountryCode
	// A single-country day overrides the home country for holiday lookup.
	if len(day.CountryCodes) == 1 {
		for code := range day.CountryCodes {
			country = code
		}
	}
	return s.holidays.IsHoliday(date, country)
}

func classify(score float64) string {
	switch {
	case score >= VacationThreshold:
		return models.ClassificationVacation
	case score >= ShortTripThreshold:
		return models.ClassificationShortTrip
	case score >= DayTripThreshold:
		return models.ClassificationDayTrip
	default:
		return ""
	}
}

func nearestCenterDistanceKm(home models.HomeDescriptor, lat, lon float64) float64 {
	best := math.MaxFloat64
	for _, c := range home.Centers() {
		d := spatial.HaversineDistanceKm(lat, lon, c.Lat, c.Lon)
		if d < best {
			best = d
		}
	}
	return best
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// BuildVacationDraft is the package-level convenience entry point with
// default options and no-op collaborators.
func BuildVacationDraft(dayKeys []string, days map[string]*models.DaySummary, home models.HomeDescriptor) (*models.ClusterDraft, error) {
	scorer, err := NewScorer(DefaultOptions(), nil, nil)
	if err != nil {
		return nil, err
	}
	if err := home.Validate(); err != nil {
		return nil, fmt.Errorf("invalid home descriptor: %w", err)
	}
	return scorer.BuildDraft(dayKeys, days, home), nil
}
