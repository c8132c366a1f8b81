package service

import (
	"context"
	"fmt"
	"log"

	"github.com/photoatlas/memories-engine-go/internal/daysummary"
	"github.com/photoatlas/memories-engine-go/internal/models"
	"github.com/photoatlas/memories-engine-go/internal/resolve"
	"github.com/photoatlas/memories-engine-go/internal/rundetect"
	"github.com/photoatlas/memories-engine-go/internal/score"
	"github.com/photoatlas/memories-engine-go/internal/selection"
)

// Memory is one detected cluster with its curated member subset.
type Memory struct {
	Draft   *models.ClusterDraft    `json:"draft"`
	Curated *models.SelectionResult `json:"curated"`
	DayKeys []string                `json:"day_keys"`
}

// Config wires the engine components and their collaborators together.
// Nil collaborators fall back to the no-op defaults.
type Config struct {
	Pipeline  daysummary.Options
	Run       rundetect.Options
	Score     score.Options
	Selection selection.Options

	Timezone resolve.TimezoneResolver
	Poi      resolve.PoiClassifier
	Holidays resolve.HolidayResolver
	Location resolve.LocationHelper
}

// DefaultConfig returns a config with every component at its defaults.
func DefaultConfig() Config {
	return Config{
		Pipeline:  daysummary.DefaultOptions(),
		Run:       rundetect.DefaultOptions(),
		Score:     score.DefaultOptions(),
		Selection: selection.DefaultOptions(),
	}
}

// MemoryService orchestrates the full analysis for one media library:
// day-summary enrichment, run detection, scoring, and member curation.
type MemoryService struct {
	cfg      Config
	pipeline *daysummary.Pipeline
	scorer   *score.Scorer
}

// NewMemoryService validates the configuration and builds the service.
func NewMemoryService(cfg Config) (*MemoryService, error) {
	pipeline, err := daysummary.NewPipeline(cfg.Pipeline, cfg.Timezone, cfg.Poi)
	if err != nil {
		return nil, fmt.Errorf("failed to build day summary pipeline: %w", err)
	}
	if err := cfg.Run.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run detector options: %w", err)
	}
	scorer, err := score.NewScorer(cfg.Score, cfg.Holidays, cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to build scorer: %w", err)
	}
	if err := cfg.Selection.Validate(); err != nil {
		return nil, fmt.Errorf("invalid selection options: %w", err)
	}
	return &MemoryService{cfg: cfg, pipeline: pipeline, scorer: scorer}, nil
}

// DetectMemories mines the media set into memory clusters. Cancellation is
// honored between cluster evaluations, never mid-stage.
func (s *MemoryService) DetectMemories(ctx context.Context, media []models.MediaAsset, home models.HomeDescriptor) ([]Memory, error) {
	log.Printf("[MemoryService] Starting detection over %d media items", len(media))

	days, err := s.pipeline.Run(media, home)
	if err != nil {
		return nil, fmt.Errorf("failed to run day summary pipeline: %w", err)
	}
	log.Printf("[MemoryService] Enriched %d day summaries", len(days))

	runs, err := rundetect.DetectVacationRuns(days, home, s.cfg.Run)
	if err != nil {
		return nil, fmt.Errorf("failed to detect runs: %w", err)
	}
	log.Printf("[MemoryService] Detected %d candidate runs", len(runs))

	var memories []Memory
	for _, run := range runs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("detection canceled: %w", err)
		}

		draft := s.scorer.BuildDraft(run, days, home)
		if draft == nil {
			log.Printf("[MemoryService] Run %s..%s below threshold, skipped", run[0], run[len(run)-1])
			continue
		}

		runDays := make(map[string]*models.DaySummary, len(run))
		for _, key := range run {
			if day, ok := days[key]; ok {
				runDays[key] = day
			}
		}
		curated, err := selection.Select(runDays, home, s.cfg.Selection)
		if err != nil {
			return nil, fmt.Errorf("failed to curate run %s..%s: %w", run[0], run[len(run)-1], err)
		}

		log.Printf("[MemoryService] Run %s..%s classified as %s (score=%.2f, curated=%d/%d)",
			run[0], run[len(run)-1], draft.Params.Classification, draft.Params.Score,
			len(curated.Members), len(draft.MemberIDs))
		memories = append(memories, Memory{Draft: draft, Curated: curated, DayKeys: run})
	}

	log.Printf("[MemoryService] Detection completed: %d memories", len(memories))
	return memories, nil
}
