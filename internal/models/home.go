package models

import "fmt"

// Center is a single home coordinate with its own radius.
type Center struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	RadiusKm float64 `json:"radius_km"`
}

// HomeDescriptor describes the home region used as the away/home reference.
// Secondary centers support multi-residence setups; every distance-vs-home
// comparison uses the nearest center.
type HomeDescriptor struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	RadiusKm float64 `json:"radius_km"`

	CountryCode      string `json:"country_code,omitempty"`
	UTCOffsetMinutes *int   `json:"utc_offset_minutes,omitempty"`

	SecondaryCenters []Center `json:"secondary_centers,omitempty"`
}

// Validate checks the descriptor for configuration errors. These are
// fatal to the configuration, not data conditions.
func (h *HomeDescriptor) Validate() error {
	if h.RadiusKm <= 0 {
		return fmt.Errorf("home radius must be positive, got %f", h.RadiusKm)
	}
	if h.Lat < -90 || h.Lat > 90 || h.Lon < -180 || h.Lon > 180 {
		return fmt.Errorf("home coordinate out of range: (%f, %f)", h.Lat, h.Lon)
	}
	for i, c := range h.SecondaryCenters {
		if c.RadiusKm <= 0 {
			return fmt.Errorf("secondary center %d: radius must be positive, got %f", i, c.RadiusKm)
		}
		if c.Lat < -90 || c.Lat > 90 || c.Lon < -180 || c.Lon > 180 {
			return fmt.Errorf("secondary center %d: coordinate out of range: (%f, %f)", i, c.Lat, c.Lon)
		}
	}
	return nil
}

// Centers returns the primary center followed by all secondary centers.
func (h *HomeDescriptor) Centers() []Center {
	centers := make([]Center, 0, 1+len(h.SecondaryCenters))
	centers = append(centers, Center{Lat: h.Lat, Lon: h.Lon, RadiusKm: h.RadiusKm})
	centers = append(centers, h.SecondaryCenters...)
	return centers
}
