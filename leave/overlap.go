package leave

import (
	"github.com/eigen04/hr-mgmt-v2-sub000/generic"
)

// =============================================================================
// OVERLAP DETECTOR
// =============================================================================

// OverlapDetector finds live applications whose dates intersect a
// candidate range. Half-day and fixed-length applications are compared on
// their normalized ranges; rejected and cancelled ones never conflict, and
// stored rows with unreadable dates are skipped.
type OverlapDetector struct {
	Durations Durations
}

// Overlaps reports whether any application in existing conflicts.
func (o OverlapDetector) Overlaps(candidate generic.Period, existing []Application) bool {
	for _, app := range existing {
		if o.conflicts(candidate, app) {
			return true
		}
	}
	return false
}

// Conflicts returns every conflicting application, in input order.
func (o OverlapDetector) Conflicts(candidate generic.Period, existing []Application) []Application {
	var out []Application
	for _, app := range existing {
		if o.conflicts(candidate, app) {
			out = append(out, app)
		}
	}
	return out
}

func (o OverlapDetector) conflicts(candidate generic.Period, app Application) bool {
	if !app.Status.Live() {
		return false
	}
	occupied, err := o.Durations.NormalizeRange(app.Type, app.StartDate, app.EndDate)
	if err != nil {
		return false
	}
	return candidate.Overlaps(occupied)
}
