package leave_test

import (
	"testing"
	"time"

	"github.com/eigen04/hr-mgmt-v2-sub000/generic"
	"github.com/eigen04/hr-mgmt-v2-sub000/leave"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(year int, month time.Month, day int) generic.TimePoint {
	return generic.NewTimePoint(year, month, day)
}

func dec(n float64) decimal.Decimal {
	return decimal.NewFromFloat(n)
}

func assertDays(t *testing.T, want float64, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %v days, got %s %v", want, got, msgAndArgs)
}

func fixedClock(d generic.TimePoint) func() generic.TimePoint {
	return func() generic.TimePoint { return d }
}

// employeeJoined returns an employee who joined on join.
func employeeJoined(join generic.TimePoint, g leave.Gender) leave.Employee {
	return leave.Employee{ID: "emp-1", Name: "Asha Rao", Gender: g, JoinDate: join}
}

// contextAt builds a validator context with an unused entry for now's year.
func contextAt(emp leave.Employee, now generic.TimePoint, apps ...leave.Application) leave.EmployeeContext {
	return leave.EmployeeContext{
		Employee:     emp,
		Balance:      leave.NewEntry(emp.ID, now.Year(), emp.JoinDate, now),
		Applications: apps,
	}
}

func validatorAt(now generic.TimePoint, opts leave.Options, holidays ...leave.Holiday) *leave.Validator {
	v := leave.NewValidator(leave.DefaultCatalog(), leave.NewCalendar(holidays), opts)
	v.Now = fixedClock(now)
	return v
}
