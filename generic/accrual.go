package generic

// =============================================================================
// ACCRUAL SCHEDULE - Interface for how resources accumulate
// =============================================================================

// AccrualSchedule generates accrual events for a time range.
// Implementations define the business logic (monthly, upfront, capped, ...).
type AccrualSchedule interface {
	// GenerateAccruals returns accrual events in [from, to].
	GenerateAccruals(from, to TimePoint) []AccrualEvent

	// IsDeterministic returns true if future accruals can be predicted.
	// Deterministic schedules let TotalEntitlement include future accruals.
	IsDeterministic() bool
}

// AccrualEvent represents a single accrual occurrence.
type AccrualEvent struct {
	At     TimePoint
	Amount Amount
	Reason string
}
