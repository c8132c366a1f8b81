package daysummary

import (
	"github.com/photoatlas/memories-engine-go/internal/models"
	"github.com/photoatlas/memories-engine-go/internal/stats"
)

// densityStage assigns each day the z-score of its photo count across the
// whole summary set. Synthetic zero days participate in the distribution.
type densityStage struct{}

func (s *densityStage) Name() string { return "density" }

func (s *densityStage) Process(days map[string]*models.DaySummary, home models.HomeDescriptor) error {
	keys := SortedDateKeys(days)
	counts := make([]float64, len(keys))
	for i, key := range keys {
		counts[i] = float64(days[key].PhotoCount)
	}
	scores := stats.ZScore(counts)
	for i, key := range keys {
		days[key].DensityZ = scores[i]
	}
	return nil
}
