package selection

// Telemetry counts why candidates were accepted or rejected. Every decision
// path in both selection layers increments exactly one counter, so the sum of
// all counters explains the whole candidate population.
type Telemetry map[string]int

// Inc increments a named counter.
func (t Telemetry) Inc(name string) { t[name]++ }

// Counter names for the greedy selector.
const (
	CounterAcceptedPrimary   = "accepted_primary"
	CounterAcceptedFallback  = "accepted_fallback"
	CounterDroppedNoShow     = "dropped_no_show"
	CounterDroppedLowQuality = "dropped_low_quality"
	CounterDroppedFloor      = "dropped_quality_floor"
	CounterBurstCollapsed    = "burst_collapsed"
	CounterSlotCollision     = "slot_collision"
	CounterDayCapReached     = "rejected_day_cap"
	CounterStaypointCap      = "rejected_staypoint_cap"
	CounterSpacingRejected   = "rejected_min_spacing"
	CounterDuplicateReplaced = "duplicate_replaced"
	CounterDuplicateRejected = "rejected_duplicate"
	CounterTargetReached     = "rejected_target_reached"
)

// Counter names for the staged filter pipeline.
const (
	CounterStageDayQuota    = "stage_day_quota_drop"
	CounterStageOrientation = "stage_orientation_drop"
	CounterStagePeople      = "stage_people_balance_drop"
	CounterStagePhash       = "stage_phash_diversity_drop"
	CounterStageScene       = "stage_scene_bucket_drop"
	CounterStageStaypoint   = "stage_staypoint_quota_drop"
	CounterStageTimeGap     = "stage_time_gap_drop"
	CounterStageAdaptive    = "stage_adaptive_slot_drop"
)
