package daysummary

import (
	"github.com/photoatlas/memories-engine-go/internal/models"
	"github.com/photoatlas/memories-engine-go/internal/spatial"
)

// transportSpeedStage computes consecutive-leg speeds and flags days with
// high-speed transit evidence. Legs shorter than the configured duration or
// distance bounds are skipped as GPS noise.
type transportSpeedStage struct {
	opts Options
}

func (s *transportSpeedStage) Name() string { return "transport_speed" }

func (s *transportSpeedStage) Process(days map[string]*models.DaySummary, home models.HomeDescriptor) error {
	for _, day := range days {
		if len(day.GPSMembers) >= 2 {
			var max, sum float64
			legs := 0
			for i := 1; i < len(day.GPSMembers); i++ {
				prev, cur := day.GPSMembers[i-1], day.GPSMembers[i]
				elapsed := cur.CapturedAt - prev.CapturedAt
				if elapsed < s.opts.MinLegSeconds {
					continue
				}
				distKm := spatial.HaversineDistanceKm(*prev.Lat, *prev.Lon, *cur.Lat, *cur.Lon)
				if distKm < s.opts.MinLegKm {
					continue
				}
				speed := distKm / (float64(elapsed) / 3600.0)
				sum += speed
				legs++
				if speed > max {
					max = speed
				}
			}
			day.MaxLegSpeedKmh = max
			if legs > 0 {
				day.AvgLegSpeedKmh = sum / float64(legs)
			}
		}

		day.HasHighSpeedTransit = day.MaxLegSpeedKmh >= s.opts.HighSpeedKmh ||
			day.TravelKm >= s.opts.HighTravelKm
	}
	return nil
}
