package leave_test

import (
	"testing"
	"time"

	"github.com/eigen04/hr-mgmt-v2-sub000/generic"
	"github.com/eigen04/hr-mgmt-v2-sub000/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// GATES 1-6
// =============================================================================

func TestValidator_Gates(t *testing.T) {
	now := date(2025, time.May, 20)
	emp := employeeJoined(date(2024, time.January, 15), leave.GenderFemale)
	approved := leave.Application{
		ID: "existing", EmployeeID: emp.ID, Type: leave.TypeCasual,
		StartDate: "2025-06-12", EndDate: "2025-06-14", Status: leave.StatusApproved, ChargeableDays: dec(2),
	}

	tests := []struct {
		name  string
		draft leave.Draft
		want  leave.ReasonCode
	}{
		{"missing start", leave.Draft{Type: leave.TypeCasual, EndDate: "2025-06-06", Reason: "x"}, leave.ReasonPastStartDate},
		{"start yesterday", leave.Draft{Type: leave.TypeCasual, StartDate: "2025-05-19", EndDate: "2025-05-19", Reason: "x"}, leave.ReasonPastStartDate},
		{"missing reason", leave.Draft{Type: leave.TypeCasual, StartDate: "2025-06-02", EndDate: "2025-06-06", Reason: "  "}, leave.ReasonMissingField},
		{"unknown type", leave.Draft{Type: "XL", StartDate: "2025-06-02", EndDate: "2025-06-06", Reason: "x"}, leave.ReasonUnknownLeaveType},
		{"ranged without end", leave.Draft{Type: leave.TypeEarned, StartDate: "2025-06-02", Reason: "x"}, leave.ReasonMissingField},
		{"end before start", leave.Draft{Type: leave.TypeCasual, StartDate: "2025-06-06", EndDate: "2025-06-02", Reason: "x"}, leave.ReasonEndBeforeStart},
		{"half day on 2nd saturday", leave.Draft{Type: leave.TypeHalfDayCasual, StartDate: "2025-06-14", Reason: "x"}, leave.ReasonHalfDayOnNonWorkingDay},
		{"half day flag on sunday", leave.Draft{Type: leave.TypeEarned, StartDate: "2025-06-08", Reason: "x", HalfDay: true}, leave.ReasonHalfDayOnNonWorkingDay},
		{"only a sunday", leave.Draft{Type: leave.TypeCasual, StartDate: "2025-06-08", EndDate: "2025-06-08", Reason: "x"}, leave.ReasonZeroChargeableDays},
		{"unparseable start", leave.Draft{Type: leave.TypeCasual, StartDate: "02/06/2025", EndDate: "2025-06-06", Reason: "x"}, leave.ReasonZeroChargeableDays},
		{"overlaps approved", leave.Draft{Type: leave.TypeCasual, StartDate: "2025-06-10", EndDate: "2025-06-12", Reason: "x"}, leave.ReasonOverlapping},
		{"end in year 9999", leave.Draft{Type: leave.TypeEarned, StartDate: "2025-06-02", EndDate: "9999-12-31", Reason: "x"}, leave.ReasonInvalidTiming},
		{"unpaid span under the cap is priced", leave.Draft{Type: leave.TypeWithoutPay, StartDate: "2025-06-16", EndDate: "2027-04-30", Reason: "x"}, leave.ReasonInsufficientBalance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validatorAt(now, leave.Options{})
			res := v.Validate(contextAt(emp, now, approved), tt.draft)

			assert.Equal(t, leave.DecisionRejected, res.Decision)
			assert.Equal(t, tt.want, res.Reason)
			assert.NotEmpty(t, res.Message)
		})
	}
}

func TestValidator_AcceptsAndPrices(t *testing.T) {
	// GIVEN: An employee with a full casual year ahead, evaluated on 20 May
	// WHEN: Applying for the first week of June
	// THEN: The draft is accepted and priced at five working days

	now := date(2025, time.May, 20)
	emp := employeeJoined(date(2024, time.January, 15), leave.GenderFemale)
	v := validatorAt(now, leave.Options{})

	res := v.Validate(contextAt(emp, now), leave.Draft{
		Type: leave.TypeCasual, StartDate: "2025-06-02", EndDate: "2025-06-06", Reason: "family function",
	})

	require.True(t, res.Accepted(), res.Message)
	assert.Equal(t, leave.ReasonNone, res.Reason)
	assert.Equal(t, leave.BucketCasual, res.Bucket)
	assertDays(t, 5, res.ChargeableDays)
}

func TestValidator_AcceptedDaysRoundTrip(t *testing.T) {
	// GIVEN: Accepted results for every kind of leave
	// WHEN: Their normalized type and dates are priced again
	// THEN: The calculator returns the figure the validator charged

	now := date(2025, time.May, 20)
	emp := employeeJoined(date(2024, time.January, 15), leave.GenderFemale)
	v := validatorAt(now, leave.Options{}, leave.Holiday{
		Date: date(2025, time.June, 4), Name: "Founders Day", Kind: leave.HolidayCustom,
	})
	durations := leave.NewDurations(v.Catalog, v.Calendar)

	tests := []struct {
		name  string
		draft leave.Draft
		want  float64
	}{
		{"maternity", leave.Draft{Type: leave.TypeMaternity, StartDate: "2025-06-02", Reason: "birth"}, 182},
		{"paternity", leave.Draft{Type: leave.TypePaternity, StartDate: "2025-06-02", EndDate: "2025-06-03", Reason: "birth"}, 15},
		{"half day casual", leave.Draft{Type: leave.TypeHalfDayCasual, StartDate: "2025-06-03", Reason: "x"}, 0.5},
		{"half day earned", leave.Draft{Type: leave.TypeHalfDayEarned, StartDate: "2025-06-05", Reason: "x"}, 0.5},
		{"casual over a holiday", leave.Draft{Type: leave.TypeCasual, StartDate: "2025-06-02", EndDate: "2025-06-06", Reason: "x"}, 4},
		{"earned over a sunday", leave.Draft{Type: leave.TypeEarned, StartDate: "2025-06-02", EndDate: "2025-06-10", Reason: "x"}, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.Validate(contextAt(emp, now), tt.draft)
			require.True(t, res.Accepted(), res.Message)
			assertDays(t, tt.want, res.ChargeableDays)

			again := durations.ChargeableDays(res.Type, res.StartDate, res.EndDate)
			assert.True(t, again.Equal(res.ChargeableDays), "repriced %s, charged %s", again, res.ChargeableDays)
		})
	}
}

func TestValidator_NormalizesDates(t *testing.T) {
	now := date(2025, time.May, 20)
	emp := employeeJoined(date(2024, time.January, 15), leave.GenderFemale)
	v := validatorAt(now, leave.Options{})

	t.Run("maternity end is derived", func(t *testing.T) {
		res := v.Validate(contextAt(emp, now), leave.Draft{
			Type: leave.TypeMaternity, StartDate: "2025-06-02", EndDate: "2025-06-03", Reason: "birth",
		})
		require.True(t, res.Accepted(), res.Message)
		assert.Equal(t, "2025-11-30", res.EndDate)
		assertDays(t, 182, res.ChargeableDays)
	})

	t.Run("half day flag picks the half-day type", func(t *testing.T) {
		res := v.Validate(contextAt(emp, now), leave.Draft{
			Type: leave.TypeCasual, StartDate: "2025-06-03", EndDate: "2025-06-05", Reason: "dentist", HalfDay: true,
		})
		require.True(t, res.Accepted(), res.Message)
		assert.Equal(t, leave.TypeHalfDayCasual, res.Type)
		assert.True(t, res.HalfDay)
		assert.Equal(t, "2025-06-03", res.EndDate)
		assertDays(t, 0.5, res.ChargeableDays)
	})
}

func TestValidator_IgnoresReleasedApplications(t *testing.T) {
	now := date(2025, time.May, 20)
	emp := employeeJoined(date(2024, time.January, 15), leave.GenderFemale)
	rejected := leave.Application{
		ID: "old", Type: leave.TypeCasual, StartDate: "2025-06-12", EndDate: "2025-06-14", Status: leave.StatusRejected,
	}

	res := validatorAt(now, leave.Options{}).Validate(contextAt(emp, now, rejected), leave.Draft{
		Type: leave.TypeCasual, StartDate: "2025-06-10", EndDate: "2025-06-12", Reason: "trip",
	})
	assert.True(t, res.Accepted(), res.Message)
}

func TestValidator_ReportsConflicts(t *testing.T) {
	now := date(2025, time.May, 20)
	emp := employeeJoined(date(2024, time.January, 15), leave.GenderFemale)
	apps := []leave.Application{
		{ID: "p1", Type: leave.TypeHalfDayCasual, StartDate: "2025-06-03", Status: leave.StatusPending},
		{ID: "a1", Type: leave.TypeEarned, StartDate: "2025-06-05", EndDate: "2025-06-09", Status: leave.StatusApproved},
	}

	res := validatorAt(now, leave.Options{}).Validate(contextAt(emp, now, apps...), leave.Draft{
		Type: leave.TypeCasual, StartDate: "2025-06-02", EndDate: "2025-06-06", Reason: "trip",
	})
	assert.Equal(t, leave.ReasonOverlapping, res.Reason)
	assert.Equal(t, []string{"p1", "a1"}, res.Conflicts)
}

func TestValidator_CasualBackdate(t *testing.T) {
	now := date(2025, time.May, 20)
	emp := employeeJoined(date(2024, time.January, 15), leave.GenderFemale)
	v := validatorAt(now, leave.Options{CasualBackdateDays: 6})

	res := v.Validate(contextAt(emp, now), leave.Draft{
		Type: leave.TypeCasual, StartDate: "2025-05-15", EndDate: "2025-05-16", Reason: "fever",
	})
	assert.True(t, res.Accepted(), res.Message)

	res = v.Validate(contextAt(emp, now), leave.Draft{
		Type: leave.TypeEarned, StartDate: "2025-05-15", EndDate: "2025-05-16", Reason: "fever",
	})
	assert.Equal(t, leave.ReasonPastStartDate, res.Reason)

	res = v.Validate(contextAt(emp, now), leave.Draft{
		Type: leave.TypeCasual, StartDate: "2025-05-13", EndDate: "2025-05-13", Reason: "fever",
	})
	assert.Equal(t, leave.ReasonPastStartDate, res.Reason)
}

// =============================================================================
// GATE 7 - CASUAL
// =============================================================================

func TestValidator_Casual(t *testing.T) {
	now := date(2025, time.May, 20)
	veteran := employeeJoined(date(2024, time.January, 15), leave.GenderMale)

	t.Run("insufficient accrued balance this month", func(t *testing.T) {
		// accrued by May: 5, used 1, request 5 working days
		ec := contextAt(veteran, now)
		ec.Balance.Casual.Used = dec(1)

		res := validatorAt(now, leave.Options{}).Validate(ec, leave.Draft{
			Type: leave.TypeCasual, StartDate: "2025-05-26", EndDate: "2025-05-30", Reason: "x",
		})
		assert.Equal(t, leave.ReasonInsufficientBalance, res.Reason)
	})

	t.Run("pending applications count as committed", func(t *testing.T) {
		pending := leave.Application{
			ID: "p1", Type: leave.TypeCasual, StartDate: "2025-05-21", EndDate: "2025-05-23",
			Status: leave.StatusPending, ChargeableDays: dec(3),
		}
		res := validatorAt(now, leave.Options{}).Validate(contextAt(veteran, now, pending), leave.Draft{
			Type: leave.TypeCasual, StartDate: "2025-05-26", EndDate: "2025-05-28", Reason: "x",
		})
		assert.Equal(t, leave.ReasonInsufficientBalance, res.Reason)
	})

	t.Run("advance booking within what accrues by that month", func(t *testing.T) {
		// accrued through June: 6, used 1, request 5
		ec := contextAt(veteran, now)
		ec.Balance.Casual.Used = dec(1)

		res := validatorAt(now, leave.Options{}).Validate(ec, leave.Draft{
			Type: leave.TypeCasual, StartDate: "2025-06-02", EndDate: "2025-06-06", Reason: "x",
		})
		assert.True(t, res.Accepted(), res.Message)
	})

	t.Run("advance booking beyond what accrues by that month", func(t *testing.T) {
		// fits the year end 12 but June only brings the total to 6
		ec := contextAt(veteran, now)
		ec.Balance.Casual.Used = dec(6)

		res := validatorAt(now, leave.Options{}).Validate(ec, leave.Draft{
			Type: leave.TypeCasual, StartDate: "2025-06-02", EndDate: "2025-06-06", Reason: "x",
		})
		assert.Equal(t, leave.ReasonInsufficientBalance, res.Reason)
		assert.Contains(t, res.Message, "June")
	})

	t.Run("long advance booking with nothing used", func(t *testing.T) {
		// GIVEN: A clean balance in March
		// WHEN: Applying for 11 working days in June
		// THEN: Only 6 days will have accrued by then
		march := date(2025, time.March, 10)
		emp := employeeJoined(date(2024, time.January, 1), leave.GenderFemale)

		res := validatorAt(march, leave.Options{}).Validate(contextAt(emp, march), leave.Draft{
			Type: leave.TypeCasual, StartDate: "2025-06-02", EndDate: "2025-06-13", Reason: "wedding",
		})
		assert.Equal(t, leave.ReasonInsufficientBalance, res.Reason)
		assertDays(t, 11, res.ChargeableDays)
	})

	t.Run("granted days count toward an advance booking", func(t *testing.T) {
		ec := contextAt(veteran, now)
		ec.Balance.Casual.Used = dec(6)
		ec.Balance.Casual.Total = ec.Balance.Casual.Total.Add(dec(5))
		ec.Balance.Casual.YearEnd = ec.Balance.Casual.YearEnd.Add(dec(5))

		res := validatorAt(now, leave.Options{}).Validate(ec, leave.Draft{
			Type: leave.TypeCasual, StartDate: "2025-06-02", EndDate: "2025-06-06", Reason: "x",
		})
		assert.True(t, res.Accepted(), res.Message)
	})

	t.Run("advance booking beyond the year end entitlement", func(t *testing.T) {
		ec := contextAt(veteran, now)
		ec.Balance.Casual.Used = dec(8)

		res := validatorAt(now, leave.Options{}).Validate(ec, leave.Draft{
			Type: leave.TypeCasual, StartDate: "2025-06-02", EndDate: "2025-06-06", Reason: "x",
		})
		assert.Equal(t, leave.ReasonAdvanceLimitExceeded, res.Reason)
	})

	t.Run("next year", func(t *testing.T) {
		res := validatorAt(now, leave.Options{}).Validate(contextAt(veteran, now), leave.Draft{
			Type: leave.TypeCasual, StartDate: "2026-01-05", EndDate: "2026-01-06", Reason: "x",
		})
		assert.Equal(t, leave.ReasonAdvanceLimitExceeded, res.Reason)
	})

	t.Run("before the joining month", func(t *testing.T) {
		newcomer := employeeJoined(date(2025, time.August, 1), leave.GenderMale)

		res := validatorAt(now, leave.Options{}).Validate(contextAt(newcomer, now), leave.Draft{
			Type: leave.TypeCasual, StartDate: "2025-06-02", EndDate: "2025-06-03", Reason: "x",
		})
		assert.Equal(t, leave.ReasonInvalidTiming, res.Reason)
	})

	t.Run("half day shares the casual bucket", func(t *testing.T) {
		ec := contextAt(veteran, now)
		ec.Balance.Casual.Used = dec(5)

		res := validatorAt(now, leave.Options{}).Validate(ec, leave.Draft{
			Type: leave.TypeHalfDayCasual, StartDate: "2025-05-21", Reason: "x",
		})
		assert.Equal(t, leave.ReasonInsufficientBalance, res.Reason)
	})
}

// =============================================================================
// GATE 7 - EARNED
// =============================================================================

func TestValidator_Earned_AdvanceIntoSecondHalf(t *testing.T) {
	// GIVEN: 10 first-half days used, evaluated in March
	// WHEN: Applying for 5 days in July, then 6 more in July
	// THEN: The first fits the annual 20; the second would make 21

	now := date(2025, time.March, 10)
	emp := employeeJoined(date(2020, time.January, 1), leave.GenderFemale)
	v := validatorAt(now, leave.Options{})

	ec := contextAt(emp, now)
	ec.Balance.Earned.UsedFirstHalf = dec(10)

	first := v.Validate(ec, leave.Draft{Type: leave.TypeEarned, StartDate: "2025-07-01", EndDate: "2025-07-05", Reason: "trip"})
	require.True(t, first.Accepted(), first.Message)
	assertDays(t, 5, first.ChargeableDays)

	ec.Applications = append(ec.Applications, leave.Application{
		ID: "p1", EmployeeID: emp.ID, Type: leave.TypeEarned, StartDate: first.StartDate, EndDate: first.EndDate,
		Status: leave.StatusPending, ChargeableDays: first.ChargeableDays,
	})

	second := v.Validate(ec, leave.Draft{Type: leave.TypeEarned, StartDate: "2025-07-14", EndDate: "2025-07-19", Reason: "trip"})
	assert.Equal(t, leave.ReasonAdvanceLimitExceeded, second.Reason)
}

func TestValidator_Earned(t *testing.T) {
	emp := employeeJoined(date(2020, time.January, 1), leave.GenderFemale)

	t.Run("first half cap", func(t *testing.T) {
		now := date(2025, time.March, 10)
		ec := contextAt(emp, now)
		ec.Balance.Earned.UsedFirstHalf = dec(8)

		res := validatorAt(now, leave.Options{}).Validate(ec, leave.Draft{
			Type: leave.TypeEarned, StartDate: "2025-03-17", EndDate: "2025-03-19", Reason: "x",
		})
		assert.Equal(t, leave.ReasonInsufficientBalance, res.Reason)

		res = validatorAt(now, leave.Options{}).Validate(ec, leave.Draft{
			Type: leave.TypeEarned, StartDate: "2025-03-17", EndDate: "2025-03-18", Reason: "x",
		})
		assert.True(t, res.Accepted(), res.Message)
	})

	t.Run("second half cap with carryover", func(t *testing.T) {
		now := date(2025, time.August, 4)
		ec := contextAt(emp, now)
		ec.Balance.Earned.UsedSecondHalf = dec(8)
		draft := leave.Draft{Type: leave.TypeEarned, StartDate: "2025-08-11", EndDate: "2025-08-13", Reason: "x"}

		res := validatorAt(now, leave.Options{}).Validate(ec, draft)
		assert.Equal(t, leave.ReasonInsufficientBalance, res.Reason)

		ec.Balance.Earned.Carryover = dec(2)
		res = validatorAt(now, leave.Options{}).Validate(ec, draft)
		assert.True(t, res.Accepted(), res.Message)
	})

	t.Run("next year", func(t *testing.T) {
		now := date(2025, time.August, 4)
		res := validatorAt(now, leave.Options{}).Validate(contextAt(emp, now), leave.Draft{
			Type: leave.TypeEarned, StartDate: "2026-01-05", EndDate: "2026-01-06", Reason: "x",
		})
		assert.Equal(t, leave.ReasonAdvanceLimitExceeded, res.Reason)
	})

	t.Run("range is charged to the half of its start", func(t *testing.T) {
		now := date(2025, time.June, 2)
		ec := contextAt(emp, now)
		ec.Balance.Earned.UsedFirstHalf = dec(5)

		// Jun 28 - Jul 4: 7 days, all attributed to the first half
		res := validatorAt(now, leave.Options{}).Validate(ec, leave.Draft{
			Type: leave.TypeEarned, StartDate: "2025-06-28", EndDate: "2025-07-04", Reason: "x",
		})
		assert.Equal(t, leave.ReasonInsufficientBalance, res.Reason)
	})
}

// =============================================================================
// GATE 7 - FIXED AND LWP
// =============================================================================

func TestValidator_Simple(t *testing.T) {
	now := date(2025, time.May, 20)
	emp := employeeJoined(date(2020, time.January, 1), leave.GenderMale)

	t.Run("paternity used up", func(t *testing.T) {
		ec := contextAt(emp, now)
		ec.Balance.Paternity.Used = dec(15)

		res := validatorAt(now, leave.Options{}).Validate(ec, leave.Draft{
			Type: leave.TypePaternity, StartDate: "2025-06-02", Reason: "newborn",
		})
		assert.Equal(t, leave.ReasonInsufficientBalance, res.Reason)
	})

	t.Run("lwp shortfall rejects", func(t *testing.T) {
		ec := contextAt(emp, now)
		ec.Balance.WithoutPay.Used = dec(298)

		res := validatorAt(now, leave.Options{}).Validate(ec, leave.Draft{
			Type: leave.TypeWithoutPay, StartDate: "2025-06-02", EndDate: "2025-06-06", Reason: "x",
		})
		assert.Equal(t, leave.ReasonInsufficientBalance, res.Reason)
	})

	t.Run("lwp shortfall warns when configured", func(t *testing.T) {
		ec := contextAt(emp, now)
		ec.Balance.WithoutPay.Used = dec(298)

		res := validatorAt(now, leave.Options{LWPWarnOnly: true}).Validate(ec, leave.Draft{
			Type: leave.TypeWithoutPay, StartDate: "2025-06-02", EndDate: "2025-06-06", Reason: "x",
		})
		require.True(t, res.Accepted(), res.Message)
		assert.Len(t, res.Warnings, 1)
	})

	t.Run("warn only does not cover other buckets", func(t *testing.T) {
		ec := contextAt(emp, now)
		ec.Balance.Paternity.Used = dec(15)

		res := validatorAt(now, leave.Options{LWPWarnOnly: true}).Validate(ec, leave.Draft{
			Type: leave.TypePaternity, StartDate: "2025-06-02", Reason: "x",
		})
		assert.Equal(t, leave.ReasonInsufficientBalance, res.Reason)
	})
}

func TestValidateAndPriceApplication(t *testing.T) {
	today := generic.Today()
	emp := employeeJoined(today.AddYears(-3), leave.GenderFemale)

	ec := contextAt(emp, today)
	res := leave.ValidateAndPriceApplication(ec, leave.Draft{
		Type: leave.TypeMaternity, StartDate: today.AddDays(30).String(), Reason: "birth",
	}, leave.NewCalendar(nil), leave.Options{})

	require.True(t, res.Accepted(), res.Message)
	assertDays(t, 182, res.ChargeableDays)
}
