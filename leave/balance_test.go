package leave_test

import (
	"testing"
	"time"

	"github.com/eigen04/hr-mgmt-v2-sub000/generic"
	"github.com/eigen04/hr-mgmt-v2-sub000/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	join := date(2025, time.March, 10)

	e := leave.NewEntry("emp-1", 2025, join, date(2025, time.August, 1))
	assertDays(t, 6, e.Casual.Total)
	assertDays(t, 10, e.Casual.YearEnd)
	assertDays(t, 20, e.Earned.Total)
	assertDays(t, 182, e.Maternity.Total)
	assertDays(t, 15, e.Paternity.Total)
	assertDays(t, 300, e.WithoutPay.Total)

	past := leave.NewEntry("emp-1", 2025, join, date(2026, time.February, 1))
	assertDays(t, 10, past.Casual.Total, "a past year has fully accrued")

	future := leave.NewEntry("emp-1", 2026, join, date(2025, time.August, 1))
	assertDays(t, 0, future.Casual.Total)
	assertDays(t, 12, future.Casual.YearEnd)
}

func TestEntry_Debit(t *testing.T) {
	t.Run("earned is split by half of the charge date", func(t *testing.T) {
		e := leave.NewEntry("emp-1", 2025, date(2020, time.January, 1), date(2025, time.March, 1))

		require.NoError(t, e.Debit(leave.BucketEarned, dec(3), date(2025, time.March, 3)))
		require.NoError(t, e.Debit(leave.BucketEarned, dec(2), date(2025, time.July, 1)))

		assertDays(t, 3, e.Earned.UsedFirstHalf)
		assertDays(t, 2, e.Earned.UsedSecondHalf)
		assertDays(t, 15, e.Remaining(leave.BucketEarned))
	})

	t.Run("cannot exceed the annual ceiling", func(t *testing.T) {
		e := leave.NewEntry("emp-1", 2025, date(2020, time.January, 1), date(2025, time.March, 1))
		require.NoError(t, e.Debit(leave.BucketPaternity, dec(15), date(2025, time.March, 3)))

		err := e.Debit(leave.BucketPaternity, dec(1), date(2025, time.March, 20))
		assert.ErrorIs(t, err, generic.ErrInsufficientBalance)
		assertDays(t, 15, e.Paternity.Used)
	})

	t.Run("casual may run ahead of accrual up to year end", func(t *testing.T) {
		e := leave.NewEntry("emp-1", 2025, date(2020, time.January, 1), date(2025, time.March, 1))
		assertDays(t, 3, e.Casual.Total)

		require.NoError(t, e.Debit(leave.BucketCasual, dec(5), date(2025, time.June, 2)))
		assertDays(t, -2, e.Casual.Remaining())
	})

	t.Run("rejects bad input", func(t *testing.T) {
		e := leave.NewEntry("emp-1", 2025, date(2020, time.January, 1), date(2025, time.March, 1))

		assert.ErrorIs(t, e.Debit(leave.BucketCasual, dec(0), date(2025, time.June, 2)), generic.ErrInvalidAmount)
		assert.ErrorIs(t, e.Debit(leave.BucketCasual, dec(1), date(2026, time.January, 2)), leave.ErrYearMismatch)
	})
}

func TestEntry_Credit(t *testing.T) {
	e := leave.NewEntry("emp-1", 2025, date(2020, time.January, 1), date(2025, time.March, 1))
	require.NoError(t, e.Debit(leave.BucketEarned, dec(4), date(2025, time.August, 4)))

	// GIVEN: Four earned days used in the second half
	// WHEN: Crediting against a first-half date
	// THEN: Nothing was used there, so the credit is refused

	assert.ErrorIs(t, e.Credit(leave.BucketEarned, dec(1), date(2025, time.February, 3)), generic.ErrInvalidAmount)

	require.NoError(t, e.Credit(leave.BucketEarned, dec(4), date(2025, time.August, 4)))
	assertDays(t, 0, e.Earned.Used())
	assert.NoError(t, e.Validate())
}

func TestEntry_Validate(t *testing.T) {
	e := leave.NewEntry("emp-1", 2025, date(2020, time.January, 1), date(2025, time.March, 1))
	require.NoError(t, e.Validate())

	e.Casual.Used = dec(-1)
	assert.ErrorIs(t, e.Validate(), generic.ErrInvalidAmount)

	e.Casual.Used = dec(0)
	e.Earned.UsedFirstHalf = dec(12)
	e.Earned.UsedSecondHalf = dec(10)
	assert.ErrorIs(t, e.Validate(), generic.ErrInsufficientBalance)

	e.Earned.Carryover = dec(2)
	assert.NoError(t, e.Validate())
}

func TestReplay(t *testing.T) {
	join := date(2020, time.January, 1)
	base := leave.NewEntry("emp-1", 2025, join, date(2025, time.September, 1))

	approved := leave.Application{ID: "a1", EmployeeID: "emp-1", Type: leave.TypeEarned}
	cancelled := leave.Application{ID: "a2", EmployeeID: "emp-1", Type: leave.TypeCasual}
	lastYear := leave.Application{ID: "a3", EmployeeID: "emp-1", Type: leave.TypeCasual}

	txs := []generic.Transaction{
		leave.CarryoverTx("emp-1", 2025, dec(3), "hr"),
		leave.ConsumptionTx(approved, leave.BucketEarned, dec(7), date(2025, time.August, 4), "mgr"),
		leave.ConsumptionTx(cancelled, leave.BucketCasual, dec(2), date(2025, time.June, 2), "mgr"),
		leave.ReversalTx(cancelled, leave.BucketCasual, dec(2), date(2025, time.June, 2), "emp-1"),
		leave.ConsumptionTx(lastYear, leave.BucketCasual, dec(4), date(2024, time.December, 2), "mgr"),
	}

	got := leave.Replay(base, txs)

	assertDays(t, 7, got.Earned.UsedSecondHalf)
	assertDays(t, 0, got.Earned.UsedFirstHalf)
	assertDays(t, 3, got.Earned.Carryover)
	assertDays(t, 0, got.Casual.Used)
	assert.NoError(t, got.Validate())

	// base is untouched
	assertDays(t, 0, base.Earned.UsedSecondHalf)
}

func TestTransactionBuilders(t *testing.T) {
	app := leave.Application{ID: "a1", EmployeeID: "emp-1", Type: leave.TypeCasual, Reason: "wedding"}

	debit := leave.ConsumptionTx(app, leave.BucketCasual, dec(2), date(2025, time.June, 2), "mgr")
	assert.Equal(t, "approve-a1", debit.IdempotencyKey)
	assert.Equal(t, generic.TxConsumption, debit.Type)
	assert.True(t, debit.Delta.IsNegative())
	assert.Equal(t, generic.PolicyID("casual"), debit.PolicyID)

	credit := leave.ReversalTx(app, leave.BucketCasual, dec(2), date(2025, time.June, 2), "emp-1")
	assert.Equal(t, "cancel-a1", credit.IdempotencyKey)
	assert.True(t, credit.Delta.IsPositive())

	carry := leave.CarryoverTx("emp-1", 2025, dec(4), "hr")
	assert.Equal(t, "carryover-emp-1-2025", carry.IdempotencyKey)
	assert.Equal(t, generic.TxGrant, carry.Type)
	assert.Equal(t, "2025-01-01", carry.EffectiveAt.String())
}
