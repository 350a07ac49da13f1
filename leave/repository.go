package leave

import (
	"context"

	"github.com/eigen04/hr-mgmt-v2-sub000/generic"
)

// Repository is the persistence the Service needs. Implementations live in
// store/sqlite and store/memory.
//
// Lookups of missing rows return ErrEmployeeNotFound, ErrApplicationNotFound
// or ErrHolidayNotFound (possibly wrapped).
type Repository interface {
	Employee(ctx context.Context, id generic.EntityID) (Employee, error)
	Employees(ctx context.Context) ([]Employee, error)
	SaveEmployee(ctx context.Context, emp Employee) error

	// Holidays returns the holiday rows dated inside p, ordered by date.
	Holidays(ctx context.Context, p generic.Period) ([]Holiday, error)
	SaveHoliday(ctx context.Context, h Holiday) error
	DeleteHoliday(ctx context.Context, id string) error

	Application(ctx context.Context, id string) (Application, error)
	Applications(ctx context.Context, employeeID generic.EntityID) ([]Application, error)
	SaveApplication(ctx context.Context, app Application) error

	// Ledger is the append-only balance ledger bound to this repository
	// (and to its transaction, inside WithinEmployee).
	Ledger() generic.Ledger

	// WithinEmployee runs fn with a Repository whose reads and writes are
	// atomic and serialized against every other WithinEmployee call for the
	// same employee. An error from fn rolls everything back.
	WithinEmployee(ctx context.Context, employeeID generic.EntityID, fn func(Repository) error) error
}

// Observer receives engine events, typically to update metrics.
type Observer interface {
	ObserveDecision(res ValidationResult)
	ObserveLedger(op generic.TransactionType, bucket Bucket, days float64)
}

type nopObserver struct{}

func (nopObserver) ObserveDecision(ValidationResult)                      {}
func (nopObserver) ObserveLedger(generic.TransactionType, Bucket, float64) {}
