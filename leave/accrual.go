/*
accrual.go - Casual leave accrual

PURPOSE:
  Casual leave is earned one day per calendar month, starting with the
  month the employee joined, never more than 12 in a year. Implements
  generic.AccrualSchedule so the generic balance math can use it.

ACCRUED-TO-DATE (as of a date in year Y):
  joined in Y:        month(asOf) - month(join) + 1   (floored at 0)
  joined before Y:    month(asOf)
  joined after Y:     0
  always capped at 12

EXAMPLE:
  join := generic.NewTimePoint(2025, time.March, 10)
  leave.AccruedCasualLeave(join, generic.NewTimePoint(2025, time.August, 1)) // 6
*/
package leave

import (
	"github.com/eigen04/hr-mgmt-v2-sub000/generic"
	"github.com/shopspring/decimal"
)

// CasualAccrual credits PerMonth on the first of each month from the join
// month onward, at most MaxPerYear per calendar year.
type CasualAccrual struct {
	JoinDate   generic.TimePoint
	PerMonth   decimal.Decimal
	MaxPerYear decimal.Decimal
}

var _ generic.AccrualSchedule = (*CasualAccrual)(nil)

// NewCasualAccrual returns the standard one-day-a-month schedule.
func NewCasualAccrual(join generic.TimePoint) *CasualAccrual {
	return &CasualAccrual{
		JoinDate:   join,
		PerMonth:   decimal.NewFromInt(1),
		MaxPerYear: CasualAnnualCap,
	}
}

func (a *CasualAccrual) GenerateAccruals(from, to generic.TimePoint) []generic.AccrualEvent {
	first := generic.StartOfMonth(a.JoinDate.Year(), a.JoinDate.Month())
	if from.After(first) {
		first = generic.StartOfMonth(from.Year(), from.Month())
		if first.Before(from) {
			first = first.AddDays(32)
			first = generic.StartOfMonth(first.Year(), first.Month())
		}
	}

	var (
		events   []generic.AccrualEvent
		year     int
		credited decimal.Decimal
	)
	for at := first; at.BeforeOrEqual(to); {
		if at.Year() != year {
			year, credited = at.Year(), decimal.Zero
		}
		if credited.Add(a.PerMonth).LessThanOrEqual(a.MaxPerYear) {
			events = append(events, generic.AccrualEvent{
				At:     at,
				Amount: generic.Days(a.PerMonth),
				Reason: "casual leave monthly accrual",
			})
			credited = credited.Add(a.PerMonth)
		}
		next := at.AddDays(32)
		at = generic.StartOfMonth(next.Year(), next.Month())
	}
	return events
}

func (a *CasualAccrual) IsDeterministic() bool { return true }

// AccruedCasualLeave is the casual leave earned in asOf's year up to asOf.
func AccruedCasualLeave(join, asOf generic.TimePoint) decimal.Decimal {
	return generic.SumAccruals(NewCasualAccrual(join), generic.StartOfYear(asOf.Year()), asOf, generic.UnitDays).Value
}

// CasualEntitlement is everything the employee will have accrued by the
// end of year: 12 for anyone who joined before that year.
func CasualEntitlement(join generic.TimePoint, year int) decimal.Decimal {
	return AccruedCasualLeave(join, generic.EndOfYear(year))
}
