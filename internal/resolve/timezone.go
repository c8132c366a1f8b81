package resolve

import (
	"time"

	"github.com/photoatlas/memories-engine-go/internal/models"
)

// DefaultUTCOffsetMinutes is the last-resort offset when neither the
// resolver nor the home descriptor knows the local timezone.
const DefaultUTCOffsetMinutes = 0

// LocalTime holds a resolved local capture time for one asset.
type LocalTime struct {
	Time          time.Time
	OffsetMinutes int
	ZoneID        string
	FromResolver  bool
}

// ResolveLocalTime resolves the local capture time of an asset. The shared
// fallback chain is: resolver (when the asset has GPS), home descriptor
// offset, DefaultUTCOffsetMinutes. Every resolver type in the engine routes
// through this helper so the chain stays in one place.
func ResolveLocalTime(asset *models.MediaAsset, home models.HomeDescriptor, tz TimezoneResolver) LocalTime {
	if tz != nil && asset.HasGPS() {
		if offset, zoneID, ok := tz.Resolve(asset.CapturedAt, *asset.Lat, *asset.Lon); ok {
			return LocalTime{
				Time:          localize(asset.CapturedAt, offset, zoneID),
				OffsetMinutes: offset,
				ZoneID:        zoneID,
				FromResolver:  true,
			}
		}
	}
	return HomeLocalTime(asset.CapturedAt, home)
}

// HomeLocalTime localizes a timestamp with the home descriptor offset,
// falling back to the configured default.
func HomeLocalTime(ts int64, home models.HomeDescriptor) LocalTime {
	offset := DefaultUTCOffsetMinutes
	if home.UTCOffsetMinutes != nil {
		offset = *home.UTCOffsetMinutes
	}
	return LocalTime{
		Time:          localize(ts, offset, ""),
		OffsetMinutes: offset,
	}
}

// FixedOffsetResolver resolves every location to one fixed offset. Useful as
// a test double and for libraries confined to a single timezone.
type FixedOffsetResolver struct {
	OffsetMinutes int
	ZoneID        string
}

// Resolve implements TimezoneResolver.
func (r FixedOffsetResolver) Resolve(ts int64, lat, lon float64) (int, string, bool) {
	return r.OffsetMinutes, r.ZoneID, true
}

func localize(ts int64, offsetMinutes int, zoneID string) time.Time {
	name := zoneID
	if name == "" {
		name = "fixed"
	}
	loc := time.FixedZone(name, offsetMinutes*60)
	return time.Unix(ts, 0).In(loc)
}
