package daysummary

import (
	"github.com/photoatlas/memories-engine-go/internal/models"
)

// cohortPresenceStage computes, per day, the fraction of members depicting at
// least one configured important person.
type cohortPresenceStage struct {
	opts Options
}

func (s *cohortPresenceStage) Name() string { return "cohort_presence" }

func (s *cohortPresenceStage) Process(days map[string]*models.DaySummary, home models.HomeDescriptor) error {
	cohort := s.opts.CohortIDs()
	if len(cohort) == 0 {
		return nil
	}
	for _, day := range days {
		if len(day.Members) == 0 {
			continue
		}
		present := 0
		for _, m := range day.Members {
			if m.DepictsAny(cohort) {
				present++
			}
		}
		day.CohortRatio = float64(present) / float64(len(day.Members))
	}
	return nil
}
