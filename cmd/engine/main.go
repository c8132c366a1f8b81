package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/photoatlas/memories-engine-go/internal/config"
	"github.com/photoatlas/memories-engine-go/internal/models"
	"github.com/photoatlas/memories-engine-go/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	media, err := loadMedia(cfg.MediaPath)
	if err != nil {
		log.Fatal("Failed to load media records:", err)
	}

	home := models.HomeDescriptor{
		Lat:              cfg.HomeLat,
		Lon:              cfg.HomeLon,
		RadiusKm:         cfg.HomeRadiusKm,
		CountryCode:      cfg.HomeCountry,
		UTCOffsetMinutes: cfg.HomeUTCOffsetMin,
	}

	svc, err := service.NewMemoryService(service.DefaultConfig())
	if err != nil {
		log.Fatal("Failed to build memory service:", err)
	}

	memories, err := svc.DetectMemories(context.Background(), media, home)
	if err != nil {
		log.Fatal("Detection failed:", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(memories); err != nil {
		log.Fatal("Failed to write output:", err)
	}
}

// loadMedia reads pre-enriched media asset records from a JSON file. The
// records carry GPS, quality, phash and person metadata extracted upstream.
func loadMedia(path string) ([]models.MediaAsset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var media []models.MediaAsset
	if err := json.Unmarshal(data, &media); err != nil {
		return nil, err
	}
	return media, nil
}
