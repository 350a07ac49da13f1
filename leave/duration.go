/*
duration.go - Chargeable-day pricing

PURPOSE:
  Turns (leave type, start, end) into the number of days charged against
  a bucket, and into the normalized date range the leave occupies.

PRICING:
  Fixed types (ML, PL):  the fixed count; end = start + (n - 1)
  Half-day types:        0.5, or 0 when the date is non-working; end = start
  Ranged types:          every day start..end inclusive when the type
                         charges non-working days (EL); otherwise only
                         working days (CL, LWP)

DEGENERATE INPUT:
  Unparseable dates, a missing end for a ranged type, or an end before the
  start price at 0. Compute reports why; ChargeableDays just returns 0.

EXAMPLE:
  d := leave.NewDurations(leave.DefaultCatalog(), cal)
  d.ChargeableDays(leave.TypeCasual, "2025-06-02", "2025-06-06") // 5
  d.ChargeableDays(leave.TypeMaternity, "2025-03-01", "")         // 182

SEE ALSO:
  - calendar.go: Working-day rules
  - overlap.go: Uses NormalizeRange
*/
package leave

import (
	"github.com/eigen04/hr-mgmt-v2-sub000/generic"
	"github.com/shopspring/decimal"
)

// Duration is a priced leave range.
type Duration struct {
	Type    LeaveType
	Bucket  Bucket
	Period  generic.Period
	Days    decimal.Decimal
	HalfDay bool
}

// Durations prices leave ranges. The zero value is not usable; build it
// with NewDurations.
type Durations struct {
	Catalog  *Catalog
	Calendar *Calendar
}

func NewDurations(catalog *Catalog, calendar *Calendar) Durations {
	if catalog == nil {
		catalog = standardCatalog
	}
	return Durations{Catalog: catalog, Calendar: calendar}
}

// NormalizeRange returns the dates a leave of type t occupies. Fixed and
// half-day types ignore end. The range is returned even when it prices
// at zero (a half day on a Sunday still occupies that Sunday).
func (d Durations) NormalizeRange(t LeaveType, start, end string) (generic.Period, error) {
	spec, ok := d.Catalog.Lookup(t)
	if !ok {
		return generic.Period{}, ErrUnknownLeaveType
	}
	return normalize(spec, start, end)
}

func normalize(spec TypeSpec, start, end string) (generic.Period, error) {
	from, err := generic.ParseDate(start)
	if err != nil {
		return generic.Period{}, err
	}

	switch {
	case spec.HalfDay:
		return generic.SingleDay(from), nil
	case spec.FixedDays > 0:
		return generic.Period{Start: from, End: from.AddDays(spec.FixedDays - 1)}, nil
	}

	if end == "" {
		return generic.Period{}, ErrMissingEndDate
	}
	to, err := generic.ParseDate(end)
	if err != nil {
		return generic.Period{}, err
	}
	return generic.NewPeriod(from, to)
}

// Compute prices a leave of type t.
func (d Durations) Compute(t LeaveType, start, end string) (Duration, error) {
	spec, ok := d.Catalog.Lookup(t)
	if !ok {
		return Duration{}, ErrUnknownLeaveType
	}
	period, err := normalize(spec, start, end)
	if err != nil {
		return Duration{}, err
	}

	out := Duration{Type: t, Bucket: spec.Bucket, Period: period, HalfDay: spec.HalfDay}
	switch {
	case spec.FixedDays > 0:
		out.Days = decimal.NewFromInt(int64(spec.FixedDays))
	case spec.HalfDay:
		out.Days = halfDay
		if d.Calendar.IsNonWorkingDay(period.Start) {
			out.Days = decimal.Zero
		}
	case spec.CountsNonWorkingDays:
		out.Days = decimal.NewFromInt(int64(period.Len()))
	default:
		out.Days = decimal.NewFromInt(int64(d.Calendar.WorkingDays(period)))
	}
	return out, nil
}

// ChargeableDays is Compute reduced to its day count; degenerate input
// prices at zero.
func (d Durations) ChargeableDays(t LeaveType, start, end string) decimal.Decimal {
	dur, err := d.Compute(t, start, end)
	if err != nil {
		return decimal.Zero
	}
	return dur.Days
}

// DaysOf returns what an existing application charges: the figure stored
// at submission when present, otherwise a fresh price.
func (d Durations) DaysOf(app Application) decimal.Decimal {
	if app.ChargeableDays.IsPositive() {
		return app.ChargeableDays
	}
	return d.ChargeableDays(app.Type, app.StartDate, app.EndDate)
}
