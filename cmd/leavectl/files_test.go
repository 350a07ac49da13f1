package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eigen04/hr-mgmt-v2-sub000/generic"
	"github.com/eigen04/hr-mgmt-v2-sub000/leave"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

var evalDate = generic.NewTimePoint(2025, time.May, 20)

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

const baseScenario = `
employee:
  id: emp-1
  name: Asha Rao
  gender: FEMALE
  join_date: 2024-01-15
draft:
  leave_type: CL
  start_date: 2025-06-02
  end_date: 2025-06-06
  reason: family function
`

func TestLoadCalendar(t *testing.T) {
	t.Run("weekly offs only", func(t *testing.T) {
		cal, err := loadCalendar("")
		require.NoError(t, err)
		june := generic.Period{Start: generic.StartOfMonth(2025, time.June), End: generic.EndOfMonth(2025, time.June)}
		assert.Equal(t, 23, cal.WorkingDays(june))
	})

	t.Run("holidays file", func(t *testing.T) {
		path := writeFile(t, "holidays.yaml", `
holidays:
  - date: 2025-08-15
    name: Independence Day
  - date: 2025-10-02
    name: Gandhi Jayanti
    kind: custom
`)
		cal, err := loadCalendar(path)
		require.NoError(t, err)
		assert.True(t, cal.IsNonWorkingDay(generic.NewTimePoint(2025, time.August, 15)))
		assert.False(t, cal.IsNonWorkingDay(generic.NewTimePoint(2025, time.August, 14)))
	})

	t.Run("bad rows", func(t *testing.T) {
		path := writeFile(t, "holidays.yaml", "holidays:\n  - date: 15/08/2025\n    name: x\n")
		_, err := loadCalendar(path)
		assert.ErrorIs(t, err, generic.ErrInvalidDate)

		path = writeFile(t, "holidays.yaml", "holidays:\n  - date: 2025-08-15\n    kind: festival\n")
		_, err = loadCalendar(path)
		assert.Error(t, err)

		_, err = loadCalendar(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestScenario_Evaluate(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		sc, err := loadScenario(writeFile(t, "scenario.yaml", baseScenario))
		require.NoError(t, err)

		res, err := sc.evaluate(evalDate)
		require.NoError(t, err)
		require.True(t, res.Accepted(), res.Message)
		assert.True(t, res.ChargeableDays.Equal(dec(5)))
	})

	t.Run("scenario holidays are not charged", func(t *testing.T) {
		sc, err := loadScenario(writeFile(t, "scenario.yaml", baseScenario+`
holidays:
  - date: 2025-06-04
    name: Founders Day
`))
		require.NoError(t, err)

		res, err := sc.evaluate(evalDate)
		require.NoError(t, err)
		assert.True(t, res.ChargeableDays.Equal(dec(4)))
	})

	t.Run("existing application overlaps", func(t *testing.T) {
		sc, err := loadScenario(writeFile(t, "scenario.yaml", baseScenario+`
applications:
  - id: a1
    leave_type: CL
    start_date: 2025-06-03
    end_date: 2025-06-04
    chargeable_days: 2
`))
		require.NoError(t, err)

		res, err := sc.evaluate(evalDate)
		require.NoError(t, err)
		assert.Equal(t, leave.ReasonOverlapping, res.Reason)
		assert.Equal(t, []string{"a1"}, res.Conflicts)
	})

	t.Run("lwp shortfall", func(t *testing.T) {
		lwp := `
employee:
  id: emp-1
  gender: FEMALE
  join_date: 2024-01-15
balance:
  lwp_used: 299
draft:
  leave_type: LWP
  start_date: 2025-06-02
  end_date: 2025-06-03
  reason: personal
`
		sc, err := loadScenario(writeFile(t, "scenario.yaml", lwp))
		require.NoError(t, err)
		res, err := sc.evaluate(evalDate)
		require.NoError(t, err)
		assert.Equal(t, leave.ReasonInsufficientBalance, res.Reason)

		sc.Options.LWPWarnOnly = true
		res, err = sc.evaluate(evalDate)
		require.NoError(t, err)
		assert.True(t, res.Accepted())
		assert.Len(t, res.Warnings, 1)
	})

	t.Run("invalid input", func(t *testing.T) {
		sc, err := loadScenario(writeFile(t, "scenario.yaml", baseScenario))
		require.NoError(t, err)

		bad := sc
		bad.Employee.JoinDate = "last year"
		_, err = bad.evaluate(evalDate)
		assert.ErrorIs(t, err, generic.ErrInvalidDate)

		bad = sc
		bad.Balance.CasualUsed = -1
		_, err = bad.evaluate(evalDate)
		assert.Error(t, err)
	})
}
