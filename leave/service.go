/*
service.go - Application lifecycle over a Repository

PURPOSE:
  Connects the pure engine to persistence. Loads an employee's context,
  runs the validator, stores accepted drafts as PENDING, and moves
  applications through approval, rejection and cancellation while keeping
  the balance ledger in step.

LIFECYCLE:
  Submit   draft    -> PENDING    (validator must accept)
  Approve  PENDING  -> APPROVED   appends TxConsumption
  Reject   PENDING  -> REJECTED
  Cancel   APPROVED -> CANCELLED  appends TxReversal; only until 15 days
                                  after the leave's end date

CONCURRENCY:
  Every write runs inside Repository.WithinEmployee, so two submissions
  for the same employee cannot both pass the overlap and balance gates
  against the same snapshot. Ledger writes carry idempotency keys
  (approve-<id>, cancel-<id>), so a retried approval cannot debit twice.

SEE ALSO:
  - validator.go: The gates Submit runs
  - balance.go: Entry, Replay and the transaction builders
  - store/sqlite/sqlite.go: Repository implementation
*/
package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/eigen04/hr-mgmt-v2-sub000/generic"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCancelWindowDays is how long after its end date an approved
// application may still be cancelled.
const DefaultCancelWindowDays = 15

type Service struct {
	Repo     Repository
	Catalog  *Catalog
	Options  Options
	Logger   *slog.Logger
	Observer Observer

	CancelWindowDays int

	// Now returns today's date; defaults to generic.Today.
	Now func() generic.TimePoint
}

func NewService(repo Repository, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Repo:             repo,
		Catalog:          DefaultCatalog(),
		Options:          opts,
		Logger:           logger,
		Observer:         nopObserver{},
		CancelWindowDays: DefaultCancelWindowDays,
		Now:              generic.Today,
	}
}

func (s *Service) today() generic.TimePoint {
	if s.Now == nil {
		return generic.Today()
	}
	return s.Now()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *Service) observer() Observer {
	if s.Observer == nil {
		return nopObserver{}
	}
	return s.Observer
}

// =============================================================================
// CONTEXT LOADING
// =============================================================================

// calendarFrom loads the holidays of the previous, current and next year.
func (s *Service) calendarFrom(ctx context.Context, repo Repository) (*Calendar, error) {
	year := s.today().Year()
	holidays, err := repo.Holidays(ctx, generic.Period{
		Start: generic.StartOfYear(year - 1),
		End:   generic.EndOfYear(year + 1),
	})
	if err != nil {
		return nil, fmt.Errorf("load holidays: %w", err)
	}
	return NewCalendar(holidays), nil
}

// entryFrom replays the employee's ledger for year onto a fresh entry.
func (s *Service) entryFrom(ctx context.Context, repo Repository, emp Employee, year int) (Entry, error) {
	base := NewEntry(emp.ID, year, emp.JoinDate, s.today())
	var txs []generic.Transaction
	for _, b := range Buckets {
		bucketTxs, err := repo.Ledger().TransactionsInRange(ctx, emp.ID, b.PolicyID(),
			generic.StartOfYear(year), generic.EndOfYear(year))
		if err != nil {
			return Entry{}, fmt.Errorf("load %s ledger: %w", b, err)
		}
		txs = append(txs, bucketTxs...)
	}
	return Replay(base, txs), nil
}

func (s *Service) contextFrom(ctx context.Context, repo Repository, employeeID generic.EntityID) (EmployeeContext, error) {
	emp, err := repo.Employee(ctx, employeeID)
	if err != nil {
		return EmployeeContext{}, err
	}
	apps, err := repo.Applications(ctx, employeeID)
	if err != nil {
		return EmployeeContext{}, fmt.Errorf("load applications: %w", err)
	}
	entry, err := s.entryFrom(ctx, repo, emp, s.today().Year())
	if err != nil {
		return EmployeeContext{}, err
	}
	return EmployeeContext{Employee: emp, Balance: entry, Applications: apps}, nil
}

// Context returns the validator input for an employee as of today.
func (s *Service) Context(ctx context.Context, employeeID generic.EntityID) (EmployeeContext, error) {
	return s.contextFrom(ctx, s.Repo, employeeID)
}

// Balance returns the employee's ledger entry for year.
func (s *Service) Balance(ctx context.Context, employeeID generic.EntityID, year int) (Entry, error) {
	emp, err := s.Repo.Employee(ctx, employeeID)
	if err != nil {
		return Entry{}, err
	}
	return s.entryFrom(ctx, s.Repo, emp, year)
}

// Calendar returns the working-day calendar of the holidays stored in p.
func (s *Service) Calendar(ctx context.Context, p generic.Period) (*Calendar, error) {
	holidays, err := s.Repo.Holidays(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("load holidays: %w", err)
	}
	return NewCalendar(holidays), nil
}

func (s *Service) validator(cal *Calendar) *Validator {
	v := NewValidator(s.Catalog, cal, s.Options)
	v.Now = s.today
	return v
}

// =============================================================================
// VALIDATE / SUBMIT
// =============================================================================

// Validate is a dry run of Submit: nothing is stored.
func (s *Service) Validate(ctx context.Context, employeeID generic.EntityID, draft Draft) (ValidationResult, error) {
	ec, err := s.contextFrom(ctx, s.Repo, employeeID)
	if err != nil {
		return ValidationResult{}, err
	}
	cal, err := s.calendarFrom(ctx, s.Repo)
	if err != nil {
		return ValidationResult{}, err
	}
	res := s.validator(cal).Validate(ec, draft)
	s.observer().ObserveDecision(res)
	return res, nil
}

// Submit validates draft and stores it as a PENDING application. A
// rejected draft returns a *RejectedError carrying the result.
func (s *Service) Submit(ctx context.Context, employeeID generic.EntityID, draft Draft) (Application, ValidationResult, error) {
	var (
		app Application
		res ValidationResult
	)
	err := s.Repo.WithinEmployee(ctx, employeeID, func(repo Repository) error {
		ec, err := s.contextFrom(ctx, repo, employeeID)
		if err != nil {
			return err
		}
		cal, err := s.calendarFrom(ctx, repo)
		if err != nil {
			return err
		}

		res = s.validator(cal).Validate(ec, draft)
		s.observer().ObserveDecision(res)
		if !res.Accepted() {
			return &RejectedError{Result: res}
		}

		app = Application{
			ID:             uuid.NewString(),
			EmployeeID:     employeeID,
			Type:           res.Type,
			StartDate:      res.StartDate,
			EndDate:        res.EndDate,
			Reason:         draft.Reason,
			Status:         StatusPending,
			HalfDay:        res.HalfDay,
			ChargeableDays: res.ChargeableDays,
			AppliedOn:      s.today(),
		}
		return repo.SaveApplication(ctx, app)
	})
	if err != nil {
		var rejected *RejectedError
		if errors.As(err, &rejected) {
			s.logger().Info("leave application rejected",
				"employee", employeeID, "type", draft.Type, "reason", res.Reason)
		}
		return Application{}, res, err
	}

	s.logger().Info("leave application submitted",
		"employee", employeeID, "application", app.ID, "type", app.Type,
		"start", app.StartDate, "end", app.EndDate, "days", app.ChargeableDays.String())
	return app, res, nil
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// transition loads application id inside its employee's serialized scope,
// applies fn and saves the result.
func (s *Service) transition(ctx context.Context, id string, fn func(repo Repository, app *Application) error) (Application, error) {
	probe, err := s.Repo.Application(ctx, id)
	if err != nil {
		return Application{}, err
	}

	var app Application
	err = s.Repo.WithinEmployee(ctx, probe.EmployeeID, func(repo Repository) error {
		current, err := repo.Application(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(repo, &current); err != nil {
			return err
		}
		app = current
		return repo.SaveApplication(ctx, current)
	})
	if err != nil {
		return Application{}, err
	}
	return app, nil
}

// chargeOf returns the bucket, charge date and days of a stored application.
func (s *Service) chargeOf(ctx context.Context, repo Repository, app Application) (Bucket, generic.Period, decimal.Decimal, error) {
	cal, err := s.calendarFrom(ctx, repo)
	if err != nil {
		return "", generic.Period{}, decimal.Zero, err
	}
	dur, err := NewDurations(s.Catalog, cal).Compute(app.Type, app.StartDate, app.EndDate)
	if err != nil {
		return "", generic.Period{}, decimal.Zero, fmt.Errorf("application %s: %w", app.ID, err)
	}
	days := dur.Days
	if app.ChargeableDays.IsPositive() {
		days = app.ChargeableDays
	}
	return dur.Bucket, dur.Period, days, nil
}

// Approve debits the balance and marks a PENDING application APPROVED.
func (s *Service) Approve(ctx context.Context, id, approverID string) (Application, error) {
	var (
		bucket Bucket
		days   decimal.Decimal
	)
	app, err := s.transition(ctx, id, func(repo Repository, app *Application) error {
		if app.Status != StatusPending {
			return &TransitionError{ApplicationID: app.ID, From: app.Status, To: StatusApproved}
		}
		var (
			period generic.Period
			err    error
		)
		bucket, period, days, err = s.chargeOf(ctx, repo, *app)
		if err != nil {
			return err
		}
		emp, err := repo.Employee(ctx, app.EmployeeID)
		if err != nil {
			return err
		}
		entry, err := s.entryFrom(ctx, repo, emp, period.Start.Year())
		if err != nil {
			return err
		}
		if err := entry.Debit(bucket, days, period.Start); err != nil && !s.overdraftAllowed(bucket, err) {
			return fmt.Errorf("approve %s: %w", app.ID, err)
		}
		if err := repo.Ledger().Append(ctx, ConsumptionTx(*app, bucket, days, period.Start, approverID)); err != nil {
			return fmt.Errorf("approve %s: %w", app.ID, err)
		}

		app.Status = StatusApproved
		app.ApproverID = approverID
		app.DecidedOn = s.today()
		return nil
	})
	if err != nil {
		return Application{}, err
	}
	s.observer().ObserveLedger(generic.TxConsumption, bucket, days.InexactFloat64())
	s.logger().Info("leave application approved", "application", app.ID, "employee", app.EmployeeID, "approver", approverID)
	return app, nil
}

func (s *Service) overdraftAllowed(bucket Bucket, err error) bool {
	return s.Options.LWPWarnOnly && bucket == BucketWithoutPay && errors.Is(err, generic.ErrInsufficientBalance)
}

// Reject marks a PENDING application REJECTED. The balance is untouched.
func (s *Service) Reject(ctx context.Context, id, approverID string) (Application, error) {
	app, err := s.transition(ctx, id, func(_ Repository, app *Application) error {
		if app.Status != StatusPending {
			return &TransitionError{ApplicationID: app.ID, From: app.Status, To: StatusRejected}
		}
		app.Status = StatusRejected
		app.ApproverID = approverID
		app.DecidedOn = s.today()
		return nil
	})
	if err != nil {
		return Application{}, err
	}
	s.logger().Info("leave application rejected by approver", "application", app.ID, "employee", app.EmployeeID, "approver", approverID)
	return app, nil
}

// Cancel credits the balance back and marks an APPROVED application
// CANCELLED, as long as today is within the cancellation window.
func (s *Service) Cancel(ctx context.Context, id, actorID string) (Application, error) {
	var (
		bucket Bucket
		days   decimal.Decimal
	)
	app, err := s.transition(ctx, id, func(repo Repository, app *Application) error {
		if app.Status != StatusApproved {
			return &TransitionError{ApplicationID: app.ID, From: app.Status, To: StatusCancelled}
		}
		var (
			period generic.Period
			err    error
		)
		bucket, period, days, err = s.chargeOf(ctx, repo, *app)
		if err != nil {
			return err
		}
		if deadline := period.End.AddDays(s.CancelWindowDays); s.today().After(deadline) {
			return fmt.Errorf("application %s could be cancelled until %s: %w", app.ID, deadline, ErrCancellationWindowClosed)
		}

		emp, err := repo.Employee(ctx, app.EmployeeID)
		if err != nil {
			return err
		}
		entry, err := s.entryFrom(ctx, repo, emp, period.Start.Year())
		if err != nil {
			return err
		}
		if err := entry.Credit(bucket, days, period.Start); err != nil {
			return fmt.Errorf("cancel %s: %w", app.ID, err)
		}
		if err := repo.Ledger().Append(ctx, ReversalTx(*app, bucket, days, period.Start, actorID)); err != nil {
			return fmt.Errorf("cancel %s: %w", app.ID, err)
		}

		app.Status = StatusCancelled
		app.DecidedOn = s.today()
		return nil
	})
	if err != nil {
		return Application{}, err
	}
	s.observer().ObserveLedger(generic.TxReversal, bucket, days.InexactFloat64())
	s.logger().Info("leave application cancelled", "application", app.ID, "employee", app.EmployeeID, "actor", actorID)
	return app, nil
}

// SetCarryover records the earned-leave carryover for year. It can be set
// once per employee and year.
func (s *Service) SetCarryover(ctx context.Context, employeeID generic.EntityID, year int, days decimal.Decimal, actorID string) error {
	if days.IsNegative() {
		return fmt.Errorf("carryover %s: %w", days, generic.ErrInvalidAmount)
	}
	err := s.Repo.WithinEmployee(ctx, employeeID, func(repo Repository) error {
		if _, err := repo.Employee(ctx, employeeID); err != nil {
			return err
		}
		if err := repo.Ledger().Append(ctx, CarryoverTx(employeeID, year, days, actorID)); err != nil {
			return fmt.Errorf("carryover for %s in %d: %w", employeeID, year, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.observer().ObserveLedger(generic.TxGrant, BucketEarned, days.InexactFloat64())
	return nil
}

// =============================================================================
// EMPLOYEES AND HOLIDAYS
// =============================================================================

// RegisterEmployee stores emp, assigning an ID when it has none.
func (s *Service) RegisterEmployee(ctx context.Context, emp Employee) (Employee, error) {
	if emp.ID == "" {
		emp.ID = generic.EntityID(uuid.NewString())
	}
	if err := s.Repo.SaveEmployee(ctx, emp); err != nil {
		return Employee{}, fmt.Errorf("save employee: %w", err)
	}
	return emp, nil
}

// Holidays lists stored holidays dated in year.
func (s *Service) Holidays(ctx context.Context, year int) ([]Holiday, error) {
	return s.Repo.Holidays(ctx, generic.CalendarYear(year))
}

// AddHoliday stores h, assigning an ID and the CUSTOM kind when missing.
func (s *Service) AddHoliday(ctx context.Context, h Holiday) (Holiday, error) {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.Kind == "" {
		h.Kind = HolidayCustom
	}
	if err := s.Repo.SaveHoliday(ctx, h); err != nil {
		return Holiday{}, fmt.Errorf("save holiday: %w", err)
	}
	s.logger().Info("holiday added", "date", h.Date.String(), "name", h.Name, "kind", h.Kind)
	return h, nil
}

func (s *Service) DeleteHoliday(ctx context.Context, id string) error {
	return s.Repo.DeleteHoliday(ctx, id)
}

// SeedWeeklyOffs stores the Sunday and 2nd/4th Saturday records of year
// that are not already present. It returns how many were added.
func (s *Service) SeedWeeklyOffs(ctx context.Context, year int) (int, error) {
	existing, err := s.Repo.Holidays(ctx, generic.CalendarYear(year))
	if err != nil {
		return 0, err
	}
	cal := NewCalendar(existing)

	added := 0
	for _, h := range WeeklyOffHolidays(year) {
		if cal.IsHoliday(h.Date) {
			continue
		}
		if _, err := s.AddHoliday(ctx, h); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
