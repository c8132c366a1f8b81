package daysummary

import (
	"sort"
	"time"

	"github.com/photoatlas/memories-engine-go/internal/models"
	"github.com/photoatlas/memories-engine-go/internal/resolve"
)

// initStage buckets raw media by local calendar date, collects timezone and
// POI evidence, fills calendar gaps with synthetic summaries, and resolves
// each day's winning local timezone.
type initStage struct {
	media []models.MediaAsset
	opts  Options
	tz    resolve.TimezoneResolver
	poi   resolve.PoiClassifier
}

func (s *initStage) Name() string { return "initialization" }

func (s *initStage) Process(days map[string]*models.DaySummary, home models.HomeDescriptor) error {
	idOffsets := make(map[string]map[string]int) // date -> zone id -> offset

	for i := range s.media {
		asset := s.media[i]
		if asset.CapturedAt == 0 {
			// Items without a timestamp cannot be bucketed; tolerated, skipped.
			continue
		}
		lt := resolve.ResolveLocalTime(&asset, home, s.tz)
		key := lt.Time.Format(models.DateKeyLayout)

		day, ok := days[key]
		if !ok {
			day = newDaySummary(key, lt.Time.Weekday(), home)
			days[key] = day
		}

		day.Members = append(day.Members, asset)
		day.PhotoCount++

		day.TimezoneOffsetVotes[lt.OffsetMinutes]++
		if lt.ZoneID != "" {
			if day.TimezoneIDVotes[lt.ZoneID] == 0 {
				day.TimezoneIDOrder = append(day.TimezoneIDOrder, lt.ZoneID)
			}
			day.TimezoneIDVotes[lt.ZoneID]++
			if idOffsets[key] == nil {
				idOffsets[key] = make(map[string]int)
			}
			idOffsets[key][lt.ZoneID] = lt.OffsetMinutes
		}

		if asset.HasGPS() {
			day.GPSMembers = append(day.GPSMembers, asset)
			class := s.poi.Classify(*asset.Lat, *asset.Lon)
			if class.IsPOI || class.IsTourism || class.IsAirport {
				day.PoiSamples++
			}
			if class.IsTourism {
				day.TourismSamples++
			}
			if class.IsAirport {
				day.AirportSamples++
			}
			if class.CountryCode != "" {
				day.CountryCodes[class.CountryCode] = true
			}
		}
	}

	// Deterministic member order within each day.
	for _, day := range days {
		sortAssets(day.Members)
		sortAssets(day.GPSMembers)
	}

	fillCalendarGaps(days, home)
	resolveWinningTimezones(days, idOffsets, home)
	return nil
}

func newDaySummary(key string, weekday time.Weekday, home models.HomeDescriptor) *models.DaySummary {
	lt := resolve.HomeLocalTime(0, home)
	return &models.DaySummary{
		Date:                key,
		Weekday:             weekday,
		CountryCodes:        make(map[string]bool),
		TimezoneOffsetVotes: make(map[int]int),
		TimezoneIDVotes:     make(map[string]int),
		LocalOffsetMinutes:  lt.OffsetMinutes,
	}
}

func sortAssets(assets []models.MediaAsset) {
	sort.SliceStable(assets, func(i, j int) bool {
		if assets[i].CapturedAt != assets[j].CapturedAt {
			return assets[i].CapturedAt < assets[j].CapturedAt
		}
		return assets[i].ID < assets[j].ID
	})
}

// fillCalendarGaps synthesizes a zeroed summary for every date between the
// first and last observed date that has no raw media.
func fillCalendarGaps(days map[string]*models.DaySummary, home models.HomeDescriptor) {
	if len(days) == 0 {
		return
	}
	keys := SortedDateKeys(days)
	first, err := time.Parse(models.DateKeyLayout, keys[0])
	if err != nil {
		return
	}
	last, err := time.Parse(models.DateKeyLayout, keys[len(keys)-1])
	if err != nil {
		return
	}

	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		key := d.Format(models.DateKeyLayout)
		if _, ok := days[key]; ok {
			continue
		}
		day := newDaySummary(key, d.Weekday(), home)
		day.IsSynthetic = true
		days[key] = day
	}
}

// resolveWinningTimezones picks each day's local timezone by majority vote
// over identifier votes (first-seen order breaks ties), falling back to the
// home offset and finally the configured default.
func resolveWinningTimezones(days map[string]*models.DaySummary, idOffsets map[string]map[string]int, home models.HomeDescriptor) {
	for key, day := range days {
		if len(day.TimezoneIDVotes) > 0 {
			winner := ""
			best := 0
			for _, id := range day.TimezoneIDOrder {
				if day.TimezoneIDVotes[id] > best {
					winner = id
					best = day.TimezoneIDVotes[id]
				}
			}
			day.LocalTimezoneID = winner
			if offsets, ok := idOffsets[key]; ok {
				day.LocalOffsetMinutes = offsets[winner]
			}
			continue
		}
		if len(day.TimezoneOffsetVotes) > 0 {
			best, winner := 0, 0
			offsets := make([]int, 0, len(day.TimezoneOffsetVotes))
			for offset := range day.TimezoneOffsetVotes {
				offsets = append(offsets, offset)
			}
			sort.Ints(offsets)
			for _, offset := range offsets {
				if day.TimezoneOffsetVotes[offset] > best {
					winner = offset
					best = day.TimezoneOffsetVotes[offset]
				}
			}
			day.LocalOffsetMinutes = winner
			continue
		}
		day.LocalOffsetMinutes = resolve.HomeLocalTime(0, home).OffsetMinutes
	}
}
