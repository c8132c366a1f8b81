// Package resolve defines the collaborator interfaces the engine consumes.
// Real implementations (timezone databases, POI lookups, reverse geocoders)
// live outside the engine; the defaults here are deliberately minimal so the
// core stays free of I/O.
package resolve

import (
	"time"

	"github.com/photoatlas/memories-engine-go/internal/models"
)

// PlaceClass is the POI classification of a location.
type PlaceClass struct {
	IsPOI       bool
	IsTourism   bool
	IsAirport   bool   // airports and major transport hubs
	CountryCode string // ISO country code, "" when unknown
}

// TimezoneResolver resolves the local timezone for a timestamp and location.
// ok=false means the resolver has no opinion and the caller falls back to the
// home descriptor offset.
type TimezoneResolver interface {
	Resolve(ts int64, lat, lon float64) (offsetMinutes int, zoneID string, ok bool)
}

// PoiClassifier classifies a location against known points of interest.
type PoiClassifier interface {
	Classify(lat, lon float64) PlaceClass
}

// HolidayResolver reports whether a date is a public holiday in a country.
type HolidayResolver interface {
	IsHoliday(date time.Time, countryCode string) bool
}

// MediaQualityAggregator computes a quality score for an asset on demand.
type MediaQualityAggregator interface {
	Quality(asset *models.MediaAsset) float64
}

// Place is a resolved place label with its admin components.
type Place struct {
	Label      string
	Components []string
}

// LocationHelper resolves a majority place label for a set of coordinates.
type LocationHelper interface {
	MajorityPlace(lats, lons []float64) Place
}

// NoopPoiClassifier classifies every location as unremarkable.
type NoopPoiClassifier struct{}

// Classify implements PoiClassifier.
func (NoopPoiClassifier) Classify(lat, lon float64) PlaceClass { return PlaceClass{} }

// NoHolidays treats no date as a holiday; weekend handling stays with the scorer.
type NoHolidays struct{}

// IsHoliday implements HolidayResolver.
func (NoHolidays) IsHoliday(date time.Time, countryCode string) bool { return false }

// StoredQuality returns the quality score already present on the asset.
type StoredQuality struct{}

// Quality implements MediaQualityAggregator.
func (StoredQuality) Quality(asset *models.MediaAsset) float64 { return asset.Quality }

// NoopLocationHelper resolves every point set to an empty place.
type NoopLocationHelper struct{}

// MajorityPlace implements LocationHelper.
func (NoopLocationHelper) MajorityPlace(lats, lons []float64) Place { return Place{} }
