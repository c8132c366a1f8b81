package models

// MediaAsset represents one enriched photo or video record from the media store.
// All metadata (GPS, quality, perceptual hash, persons) is extracted upstream;
// the engine treats assets as read-only input.
type MediaAsset struct {
	ID         string `json:"id"`
	CapturedAt int64  `json:"captured_at"` // Unix timestamp (seconds, UTC)

	// GPS position (optional)
	Lat *float64 `json:"lat,omitempty"`
	Lon *float64 `json:"lon,omitempty"`

	// Quality and similarity
	Quality float64 `json:"quality"` // 0~1
	PHash   uint64  `json:"phash"`   // 64-bit perceptual hash

	// Device fingerprint
	CameraMake   string `json:"camera_make,omitempty"`
	CameraModel  string `json:"camera_model,omitempty"`
	CameraSerial string `json:"camera_serial,omitempty"`

	// Burst grouping
	BurstID             string `json:"burst_id,omitempty"`
	BurstRepresentative bool   `json:"burst_representative,omitempty"`

	// Depicted persons
	PersonIDs []string `json:"person_ids,omitempty"`

	// Flags
	IsVideo    bool `json:"is_video,omitempty"`
	NoShow     bool `json:"no_show,omitempty"`
	LowQuality bool `json:"low_quality,omitempty"`

	Orientation string `json:"orientation,omitempty"`
}

// Orientation constants
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
	OrientationUnknown   = ""
)

// HasGPS reports whether the asset carries a usable GPS position.
func (m *MediaAsset) HasGPS() bool {
	return m.Lat != nil && m.Lon != nil
}

// DeviceFingerprint returns a stable camera identity key, or "" when the
// asset carries no device metadata.
func (m *MediaAsset) DeviceFingerprint() string {
	if m.CameraMake == "" && m.CameraModel == "" && m.CameraSerial == "" {
		return ""
	}
	return m.CameraMake + "|" + m.CameraModel + "|" + m.CameraSerial
}

// DepictsAny reports whether the asset depicts at least one of the given person ids.
func (m *MediaAsset) DepictsAny(persons map[string]bool) bool {
	for _, id := range m.PersonIDs {
		if persons[id] {
			return true
		}
	}
	return false
}
