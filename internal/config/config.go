package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the CLI driver configuration. Algorithm thresholds live in
// the per-component option structs; this covers only the input and home
// descriptor wiring.
type Config struct {
	MediaPath        string
	HomeLat          float64
	HomeLon          float64
	HomeRadiusKm     float64
	HomeCountry      string
	HomeUTCOffsetMin *int
}

// Load reads the configuration from the environment with defaults.
func Load() (*Config, error) {
	cfg := &Config{
		MediaPath:    envOr("MEDIA_PATH", "./data/media.json"),
		HomeCountry:  os.Getenv("HOME_COUNTRY"),
		HomeRadiusKm: 25.0,
	}

	var err error
	if cfg.HomeLat, err = envFloat("HOME_LAT", 0); err != nil {
		return nil, err
	}
	if cfg.HomeLon, err = envFloat("HOME_LON", 0); err != nil {
		return nil, err
	}
	if cfg.HomeRadiusKm, err = envFloat("HOME_RADIUS_KM", cfg.HomeRadiusKm); err != nil {
		return nil, err
	}

	if raw := os.Getenv("HOME_UTC_OFFSET_MIN"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid HOME_UTC_OFFSET_MIN %q: %w", raw, err)
		}
		cfg.HomeUTCOffsetMin = &offset
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
