/*
rules.go - Type-specific balance and timing checks

PURPOSE:
  Gate 7 of the validator. Decides whether the priced application fits
  the employee's balance, and whether it is being requested at an allowed
  time relative to "now".

COMMITTED USAGE:
  committed = debited usage in the ledger entry (approved applications)
            + chargeable days of PENDING applications in the same bucket
              (and year / half-year window, by start date)

  Pending applications are never debited, so the two never double count.

CASUAL (CL, HALF_DAY_CL):
  start in a later year                       -> ADVANCE_LIMIT_EXCEEDED
  start month before the join month (join yr) -> INVALID_TIMING
  start month after the current month:
      committed + r <= year-end entitlement    else ADVANCE_LIMIT_EXCEEDED
  otherwise:
      committed + r <= accrued-to-date         else INSUFFICIENT_BALANCE

EARNED (EL, HALF_DAY_EL), x = H1 committed, y = H2 committed, c = carryover:
  start in a later year                       -> ADVANCE_LIMIT_EXCEEDED
  start in H1, now in H2                      -> INVALID_TIMING
  start in H1:        x + r <= 10 - y          else INSUFFICIENT_BALANCE
  start in H2, now H1: x + y + r <= 20         else ADVANCE_LIMIT_EXCEEDED
  start in H2, now H2: y + r <= 10 + c and x + y + r <= 20
                                               else INSUFFICIENT_BALANCE

MATERNITY / PATERNITY / LWP:
  remaining - pending >= r                     else INSUFFICIENT_BALANCE
  (LWP may be downgraded to a warning via Options.LWPWarnOnly)
*/
package leave

import (
	"fmt"

	"github.com/eigen04/hr-mgmt-v2-sub000/generic"
	"github.com/shopspring/decimal"
)

// verdict is the outcome of a balance rule. An empty reason passes.
type verdict struct {
	reason ReasonCode
	detail string
}

var pass = verdict{}

func reject(reason ReasonCode, format string, args ...any) verdict {
	return verdict{reason: reason, detail: fmt.Sprintf(format, args...)}
}

// balanceRules evaluates gate 7 for one employee at one instant.
type balanceRules struct {
	ctx       EmployeeContext
	now       generic.TimePoint
	durations Durations
}

func (r balanceRules) check(dur Duration) verdict {
	switch dur.Bucket {
	case BucketCasual:
		return r.casual(dur)
	case BucketEarned:
		return r.earned(dur)
	default:
		return r.simple(dur)
	}
}

// entryFor returns the context's ledger entry when it covers year, or a
// fresh unused entry otherwise.
func (r balanceRules) entryFor(year int) Entry {
	if r.ctx.Balance.Year == year {
		return r.ctx.Balance
	}
	emp := r.ctx.Employee
	return NewEntry(emp.ID, year, emp.JoinDate, r.now)
}

// pending sums PENDING applications charging b whose start falls in window.
func (r balanceRules) pending(b Bucket, window generic.Period) decimal.Decimal {
	total := decimal.Zero
	for _, app := range r.ctx.Applications {
		if app.Status != StatusPending {
			continue
		}
		spec, ok := r.durations.Catalog.Lookup(app.Type)
		if !ok || spec.Bucket != b {
			continue
		}
		start, err := generic.ParseDate(app.StartDate)
		if err != nil || !window.Contains(start) {
			continue
		}
		total = total.Add(r.durations.DaysOf(app))
	}
	return total
}

func (r balanceRules) casual(dur Duration) verdict {
	start := dur.Period.Start
	if start.Year() > r.now.Year() {
		return reject(ReasonAdvanceLimitExceeded, "casual leave can only be applied within the current year")
	}
	join := r.ctx.Employee.JoinDate
	if !join.IsZero() && start.Year() == join.Year() && start.Month() < join.Month() {
		return reject(ReasonInvalidTiming, "casual leave cannot start before the joining month (%s)", join.Month())
	}

	year := start.Year()
	entry := r.entryFor(year)
	bal := generic.Balance{
		EntityID:         r.ctx.Employee.ID,
		PolicyID:         BucketCasual.PolicyID(),
		Period:           generic.CalendarYear(year),
		AccruedToDate:    generic.Days(entry.Casual.Total),
		TotalEntitlement: generic.Days(entry.Casual.YearEnd),
		TotalConsumed:    generic.Days(entry.Casual.Used),
		Pending:          generic.Days(r.pending(BucketCasual, generic.CalendarYear(year))),
		Adjustments:      generic.NewAmount(0, generic.UnitDays),
	}

	requested := generic.Days(dur.Days)
	if start.MonthsAfter(r.now) > 0 {
		if !bal.CanConsumeWithMode(requested, generic.ConsumeAhead) {
			return reject(ReasonAdvanceLimitExceeded,
				"annual casual leave limit %s: committed %s, requested %s",
				entry.Casual.YearEnd, bal.Committed().Value, dur.Days)
		}
		// An advance request is still bounded by what accrues up to the
		// month it starts in. Granted days count in full.
		granted := entry.Casual.YearEnd.Sub(CasualEntitlement(join, year))
		through := bal
		through.AccruedToDate = generic.Days(AccruedCasualLeave(join, generic.EndOfMonth(year, start.Month())).Add(granted))
		if short := through.Shortfall(requested, generic.ConsumeUpToAccrued); short.IsPositive() {
			return reject(ReasonInsufficientBalance,
				"casual leave accrued through %s %d is %s: committed %s, requested %s, short by %s",
				start.Month(), year, through.AccruedToDate.Value, bal.Committed().Value, dur.Days, short.Value)
		}
		return pass
	}
	if short := bal.Shortfall(requested, generic.ConsumeUpToAccrued); short.IsPositive() {
		return reject(ReasonInsufficientBalance,
			"casual leave accrued %s: committed %s, requested %s, short by %s",
			entry.Casual.Total, bal.Committed().Value, dur.Days, short.Value)
	}
	return pass
}

func (r balanceRules) earned(dur Duration) verdict {
	start := dur.Period.Start
	if start.Year() > r.now.Year() {
		return reject(ReasonAdvanceLimitExceeded, "earned leave can only be applied within the current year")
	}

	year := start.Year()
	entry := r.entryFor(year)
	x := entry.Earned.UsedFirstHalf.Add(r.pending(BucketEarned, generic.HalfYear(year, generic.FirstHalf)))
	y := entry.Earned.UsedSecondHalf.Add(r.pending(BucketEarned, generic.HalfYear(year, generic.SecondHalf)))
	c := entry.Earned.Carryover
	req := dur.Days
	annual := entry.Earned.Total

	// Only applications in the current year are compared against the
	// current half; an older year's (backdated) window is treated as closed.
	nowHalf := generic.HalfOf(r.now)
	if year < r.now.Year() {
		nowHalf = generic.SecondHalf
	}

	switch startHalf := generic.HalfOf(start); {
	case startHalf == generic.FirstHalf && nowHalf == generic.SecondHalf:
		return reject(ReasonInvalidTiming, "first-half earned leave cannot be applied in the second half of the year")

	case startHalf == generic.FirstHalf:
		if x.Add(req).GreaterThan(EarnedHalfYearCap.Sub(y)) {
			return reject(ReasonInsufficientBalance,
				"first-half earned leave: used %s, second half committed %s, requested %s", x, y, req)
		}

	case nowHalf == generic.FirstHalf:
		if x.Add(y).Add(req).GreaterThan(annual) {
			return reject(ReasonAdvanceLimitExceeded,
				"advance earned leave exceeds annual limit %s: committed %s, requested %s", annual, x.Add(y), req)
		}

	default:
		if y.Add(req).GreaterThan(EarnedHalfYearCap.Add(c)) || x.Add(y).Add(req).GreaterThan(annual) {
			return reject(ReasonInsufficientBalance,
				"second-half earned leave: committed %s, carryover %s, requested %s", y, c, req)
		}
	}
	return pass
}

func (r balanceRules) simple(dur Duration) verdict {
	year := dur.Period.Start.Year()
	entry := r.entryFor(year)
	available := entry.Remaining(dur.Bucket).Sub(r.pending(dur.Bucket, generic.CalendarYear(year)))
	if dur.Days.GreaterThan(available) {
		return reject(ReasonInsufficientBalance, "%s available %s, requested %s", dur.Bucket, available, dur.Days)
	}
	return pass
}
