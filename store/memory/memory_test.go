package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eigen04/hr-mgmt-v2-sub000/generic"
	"github.com/eigen04/hr-mgmt-v2-sub000/leave"
	"github.com/eigen04/hr-mgmt-v2-sub000/store/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Lookups(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	_, err := repo.Employee(ctx, "ghost")
	assert.ErrorIs(t, err, leave.ErrEmployeeNotFound)
	_, err = repo.Application(ctx, "missing")
	assert.ErrorIs(t, err, leave.ErrApplicationNotFound)
	assert.ErrorIs(t, repo.DeleteHoliday(ctx, "missing"), leave.ErrHolidayNotFound)

	require.NoError(t, repo.SaveEmployee(ctx, leave.Employee{ID: "b", Name: "Bela"}))
	require.NoError(t, repo.SaveEmployee(ctx, leave.Employee{ID: "a", Name: "Arun"}))
	emps, err := repo.Employees(ctx)
	require.NoError(t, err)
	require.Len(t, emps, 2)
	assert.Equal(t, "Arun", emps[0].Name)
}

func TestRepository_SortedListings(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	require.NoError(t, repo.SaveHoliday(ctx, leave.Holiday{ID: "h2", Date: generic.NewTimePoint(2025, time.October, 2), Name: "Gandhi Jayanti"}))
	require.NoError(t, repo.SaveHoliday(ctx, leave.Holiday{ID: "h1", Date: generic.NewTimePoint(2025, time.August, 15), Name: "Independence Day"}))
	require.NoError(t, repo.SaveHoliday(ctx, leave.Holiday{ID: "h3", Date: generic.NewTimePoint(2024, time.December, 25), Name: "Christmas"}))

	hs, err := repo.Holidays(ctx, generic.CalendarYear(2025))
	require.NoError(t, err)
	require.Len(t, hs, 2)
	assert.Equal(t, "h1", hs[0].ID)

	for _, app := range []leave.Application{
		{ID: "late", EmployeeID: "emp-1", StartDate: "2025-09-01"},
		{ID: "early", EmployeeID: "emp-1", StartDate: "2025-02-01"},
		{ID: "other", EmployeeID: "emp-2", StartDate: "2025-01-01"},
	} {
		require.NoError(t, repo.SaveApplication(ctx, app))
	}
	apps, err := repo.Applications(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "early", apps[0].ID)
}

func TestRepository_WithinEmployee_RollsBack(t *testing.T) {
	// GIVEN: An employee and an empty ledger
	// WHEN: A scope saves an application, appends to the ledger and fails
	// THEN: Both writes are undone

	ctx := context.Background()
	repo := memory.New()
	require.NoError(t, repo.SaveEmployee(ctx, leave.Employee{ID: "emp-1", Name: "Asha"}))
	boom := errors.New("boom")

	err := repo.WithinEmployee(ctx, "emp-1", func(r leave.Repository) error {
		app := leave.Application{ID: "a1", EmployeeID: "emp-1", Type: leave.TypeCasual, StartDate: "2025-06-02", EndDate: "2025-06-06"}
		require.NoError(t, r.SaveApplication(ctx, app))
		require.NoError(t, r.Ledger().Append(ctx,
			leave.ConsumptionTx(app, leave.BucketCasual, decimal.NewFromInt(5), generic.NewTimePoint(2025, time.June, 2), "mgr")))

		// visible inside the scope
		_, err := r.Application(ctx, "a1")
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.Application(ctx, "a1")
	assert.ErrorIs(t, err, leave.ErrApplicationNotFound)

	txs, err := repo.Ledger().Transactions(ctx, "emp-1", leave.BucketCasual.PolicyID())
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestRepository_WithinEmployee_Commits(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	err := repo.WithinEmployee(ctx, "emp-1", func(r leave.Repository) error {
		return r.SaveEmployee(ctx, leave.Employee{ID: "emp-1", Name: "Asha"})
	})
	require.NoError(t, err)

	emp, err := repo.Employee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", emp.Name)
}
