/*
validator.go - Application validator

PURPOSE:
  Validates and prices a draft leave application. Pure: everything it
  needs arrives in the EmployeeContext and the Validator's calendar, and
  nothing is written anywhere.

GATES (first failure wins):
  1. start present and not before today            PAST_START_DATE
  2. reason present, end present for ranged types  MISSING_FIELD
     leave type known                              UNKNOWN_LEAVE_TYPE
  3. end, when given, not before start             END_BEFORE_START
  4. half day not on a non-working day             HALF_DAY_ON_NON_WORKING_DAY
  5. chargeable days > 0                           ZERO_CHARGEABLE_DAYS
  6. no overlap with live applications             OVERLAPPING_APPLICATION
  7. balance and timing (rules.go)                 INSUFFICIENT_BALANCE
                                                   ADVANCE_LIMIT_EXCEEDED
                                                   INVALID_TIMING
  8. ACCEPTED with derived end date and chargeable days

OPTIONS:
  CasualBackdateDays  lets CL / HALF_DAY_CL start up to N days in the past
  LWPWarnOnly         accepts an LWP shortfall with a warning instead of
                      rejecting it

EXAMPLE:
  v := leave.NewValidator(leave.DefaultCatalog(), cal, leave.Options{})
  v.Now = func() generic.TimePoint { return generic.NewTimePoint(2025, time.May, 20) }
  res := v.Validate(ctx, leave.Draft{Type: leave.TypeCasual, StartDate: "2025-06-02",
      EndDate: "2025-06-06", Reason: "family function"})
  res.Accepted()       // true
  res.ChargeableDays   // 5

SEE ALSO:
  - rules.go: Gate 7
  - service.go: Loads the context and persists accepted drafts
*/
package leave

import (
	"fmt"
	"strings"

	"github.com/eigen04/hr-mgmt-v2-sub000/generic"
	"github.com/shopspring/decimal"
)

// =============================================================================
// INPUT / OUTPUT
// =============================================================================

// EmployeeContext is everything the validator knows about the applicant.
// Balance is the ledger entry for the current year; Applications are all
// of the employee's applications in any status.
type EmployeeContext struct {
	Employee     Employee
	Balance      Entry
	Applications []Application
}

type Decision string

const (
	DecisionAccepted Decision = "ACCEPTED"
	DecisionRejected Decision = "REJECTED"
)

// ValidationResult is the validator's verdict. For accepted drafts the
// dates are normalized (derived end for fixed and half-day types) and
// ChargeableDays is what approval will debit.
type ValidationResult struct {
	Decision       Decision
	Reason         ReasonCode
	Message        string
	Type           LeaveType
	Bucket         Bucket
	StartDate      string
	EndDate        string
	ChargeableDays decimal.Decimal
	HalfDay        bool
	Warnings       []string
	Conflicts      []string
}

func (r ValidationResult) Accepted() bool { return r.Decision == DecisionAccepted }

// =============================================================================
// VALIDATOR
// =============================================================================

type Options struct {
	// CasualBackdateDays allows casual leave to start this many days before today.
	CasualBackdateDays int

	// LWPWarnOnly turns an LWP balance shortfall into an accepted result
	// carrying a warning.
	LWPWarnOnly bool
}

// Validator runs the gates. It is safe for concurrent use once built.
type Validator struct {
	Catalog  *Catalog
	Calendar *Calendar
	Options  Options

	// Now returns today's date; defaults to generic.Today.
	Now func() generic.TimePoint
}

func NewValidator(catalog *Catalog, calendar *Calendar, opts Options) *Validator {
	if catalog == nil {
		catalog = standardCatalog
	}
	return &Validator{Catalog: catalog, Calendar: calendar, Options: opts, Now: generic.Today}
}

func (v *Validator) durations() Durations {
	return NewDurations(v.Catalog, v.Calendar)
}

func (v *Validator) today() generic.TimePoint {
	if v.Now == nil {
		return generic.Today()
	}
	return v.Now()
}

// Validate runs every gate against draft and prices it.
func (v *Validator) Validate(ec EmployeeContext, draft Draft) ValidationResult {
	now := v.today()
	durations := v.durations()

	res := ValidationResult{Type: draft.Type, StartDate: draft.StartDate, EndDate: draft.EndDate}
	if draft.HalfDay {
		if t, ok := v.Catalog.HalfDayVariant(draft.Type); ok {
			res.Type = t
		}
	}
	spec, known := v.Catalog.Lookup(res.Type)

	// 1. start date present and not in the past
	start, startErr := generic.ParseDate(draft.StartDate)
	if strings.TrimSpace(draft.StartDate) == "" {
		return rejected(res, ReasonPastStartDate, "start date is required")
	}
	if startErr == nil && start.Before(v.earliestStart(spec, now)) {
		return rejected(res, ReasonPastStartDate, "")
	}

	// 2. required fields
	if strings.TrimSpace(draft.Reason) == "" {
		return rejected(res, ReasonMissingField, "reason is required")
	}
	if !known {
		return rejected(res, ReasonUnknownLeaveType, "")
	}
	if spec.Ranged() && strings.TrimSpace(draft.EndDate) == "" {
		return rejected(res, ReasonMissingField, "end date is required")
	}

	// 3. end not before start, and not absurdly far after it
	if end, err := generic.ParseDate(draft.EndDate); err == nil && startErr == nil {
		if end.Before(start) {
			return rejected(res, ReasonEndBeforeStart, "")
		}
		if span := generic.DaysBetween(start, end) + 1; spec.Ranged() && span > MaxApplicationSpanDays {
			return rejected(res, ReasonInvalidTiming,
				fmt.Sprintf("a leave application cannot span more than %d days (got %d)", MaxApplicationSpanDays, span))
		}
	}

	// 4. half day on a working day
	if spec.HalfDay && v.Calendar.IsNonWorkingDate(draft.StartDate) {
		return rejected(res, ReasonHalfDayOnNonWorkingDay, "")
	}

	// 5. something to charge
	dur, err := durations.Compute(res.Type, draft.StartDate, draft.EndDate)
	if err != nil || !dur.Days.IsPositive() {
		return rejected(res, ReasonZeroChargeableDays, "")
	}
	res.Bucket = dur.Bucket
	res.HalfDay = dur.HalfDay
	res.StartDate = dur.Period.Start.String()
	res.EndDate = dur.Period.End.String()
	res.ChargeableDays = dur.Days

	// 6. overlap
	detector := OverlapDetector{Durations: durations}
	if conflicts := detector.Conflicts(dur.Period, ec.Applications); len(conflicts) > 0 {
		for _, c := range conflicts {
			res.Conflicts = append(res.Conflicts, c.ID)
		}
		return rejected(res, ReasonOverlapping, "")
	}

	// 7. balance and timing
	rules := balanceRules{ctx: ec, now: now, durations: durations}
	if verdict := rules.check(dur); verdict.reason != ReasonNone {
		if verdict.reason == ReasonInsufficientBalance && dur.Bucket == BucketWithoutPay && v.Options.LWPWarnOnly {
			res.Warnings = append(res.Warnings, verdict.detail)
		} else {
			return rejected(res, verdict.reason, verdict.detail)
		}
	}

	// 8. accepted
	res.Decision = DecisionAccepted
	return res
}

// earliestStart is the first start date gate 1 lets through.
func (v *Validator) earliestStart(spec TypeSpec, now generic.TimePoint) generic.TimePoint {
	if spec.Bucket == BucketCasual && v.Options.CasualBackdateDays > 0 {
		return now.AddDays(-v.Options.CasualBackdateDays)
	}
	return now
}

func rejected(res ValidationResult, reason ReasonCode, detail string) ValidationResult {
	res.Decision = DecisionRejected
	res.Reason = reason
	res.Message = reason.Message()
	if detail != "" {
		res.Message += " " + detail
	}
	return res
}

// ValidateAndPriceApplication runs the standard catalog's validator as of
// today.
func ValidateAndPriceApplication(ec EmployeeContext, draft Draft, cal *Calendar, opts Options) ValidationResult {
	return NewValidator(standardCatalog, cal, opts).Validate(ec, draft)
}
