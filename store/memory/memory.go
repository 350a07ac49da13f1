// Package memory is an in-process leave.Repository for tests, the CLI and
// throwaway dev servers. The ledger is a generic/store.TxMemory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/eigen04/hr-mgmt-v2-sub000/generic"
	"github.com/eigen04/hr-mgmt-v2-sub000/generic/store"
	"github.com/eigen04/hr-mgmt-v2-sub000/leave"
)

// Repository keeps everything in maps guarded by one mutex. WithinEmployee
// serializes all callers, not just those of one employee.
type Repository struct {
	mu     sync.RWMutex
	tables tables
	ledger *store.TxMemory
}

var _ leave.Repository = (*Repository)(nil)

type tables struct {
	employees    map[generic.EntityID]leave.Employee
	holidays     map[string]leave.Holiday
	applications map[string]leave.Application
}

func (t tables) clone() tables {
	c := tables{
		employees:    make(map[generic.EntityID]leave.Employee, len(t.employees)),
		holidays:     make(map[string]leave.Holiday, len(t.holidays)),
		applications: make(map[string]leave.Application, len(t.applications)),
	}
	for k, v := range t.employees {
		c.employees[k] = v
	}
	for k, v := range t.holidays {
		c.holidays[k] = v
	}
	for k, v := range t.applications {
		c.applications[k] = v
	}
	return c
}

func New() *Repository {
	return &Repository{
		tables: tables{
			employees:    make(map[generic.EntityID]leave.Employee),
			holidays:     make(map[string]leave.Holiday),
			applications: make(map[string]leave.Application),
		},
		ledger: store.NewTxMemory(),
	}
}

// WithinEmployee runs fn holding the ledger and table locks. Table writes
// and ledger appends made by fn are rolled back if it fails.
func (m *Repository) WithinEmployee(ctx context.Context, _ generic.EntityID, fn func(leave.Repository) error) error {
	return m.ledger.WithTx(ctx, func(ls generic.Store) error {
		m.mu.Lock()
		defer m.mu.Unlock()

		snap := m.tables.clone()
		if err := fn(&view{t: &m.tables, ledger: ls}); err != nil {
			m.tables = snap
			return err
		}
		return nil
	})
}

func (m *Repository) Ledger() generic.Ledger { return generic.NewLedger(m.ledger) }

func (m *Repository) Employee(ctx context.Context, id generic.EntityID) (leave.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tables.employee(id)
}

func (m *Repository) Employees(ctx context.Context) ([]leave.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tables.employeeList(), nil
}

func (m *Repository) SaveEmployee(ctx context.Context, emp leave.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables.employees[emp.ID] = emp
	return nil
}

func (m *Repository) Holidays(ctx context.Context, p generic.Period) ([]leave.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tables.holidayList(p), nil
}

func (m *Repository) SaveHoliday(ctx context.Context, h leave.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables.holidays[h.ID] = h
	return nil
}

func (m *Repository) DeleteHoliday(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tables.deleteHoliday(id)
}

func (m *Repository) Application(ctx context.Context, id string) (leave.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tables.application(id)
}

func (m *Repository) Applications(ctx context.Context, employeeID generic.EntityID) ([]leave.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tables.applicationList(employeeID), nil
}

func (m *Repository) SaveApplication(ctx context.Context, app leave.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables.applications[app.ID] = app
	return nil
}

// =============================================================================
// TRANSACTIONAL VIEW
// =============================================================================

// view is the Repository handed to WithinEmployee callbacks. Both locks are
// already held.
type view struct {
	t      *tables
	ledger generic.Store
}

func (v *view) WithinEmployee(_ context.Context, _ generic.EntityID, fn func(leave.Repository) error) error {
	return fn(v)
}

func (v *view) Ledger() generic.Ledger { return generic.NewLedger(v.ledger) }

func (v *view) Employee(_ context.Context, id generic.EntityID) (leave.Employee, error) {
	return v.t.employee(id)
}

func (v *view) Employees(context.Context) ([]leave.Employee, error) {
	return v.t.employeeList(), nil
}

func (v *view) SaveEmployee(_ context.Context, emp leave.Employee) error {
	v.t.employees[emp.ID] = emp
	return nil
}

func (v *view) Holidays(_ context.Context, p generic.Period) ([]leave.Holiday, error) {
	return v.t.holidayList(p), nil
}

func (v *view) SaveHoliday(_ context.Context, h leave.Holiday) error {
	v.t.holidays[h.ID] = h
	return nil
}

func (v *view) DeleteHoliday(_ context.Context, id string) error {
	return v.t.deleteHoliday(id)
}

func (v *view) Application(_ context.Context, id string) (leave.Application, error) {
	return v.t.application(id)
}

func (v *view) Applications(_ context.Context, employeeID generic.EntityID) ([]leave.Application, error) {
	return v.t.applicationList(employeeID), nil
}

func (v *view) SaveApplication(_ context.Context, app leave.Application) error {
	v.t.applications[app.ID] = app
	return nil
}

// =============================================================================
// TABLE HELPERS (caller holds the lock)
// =============================================================================

func (t *tables) employee(id generic.EntityID) (leave.Employee, error) {
	emp, ok := t.employees[id]
	if !ok {
		return leave.Employee{}, fmt.Errorf("employee %s: %w", id, leave.ErrEmployeeNotFound)
	}
	return emp, nil
}

func (t *tables) employeeList() []leave.Employee {
	out := make([]leave.Employee, 0, len(t.employees))
	for _, emp := range t.employees {
		out = append(out, emp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (t *tables) holidayList(p generic.Period) []leave.Holiday {
	var out []leave.Holiday
	for _, h := range t.holidays {
		if p.Contains(h.Date) {
			out = append(out, h)
		}
	}
	leave.SortHolidays(out)
	return out
}

func (t *tables) deleteHoliday(id string) error {
	if _, ok := t.holidays[id]; !ok {
		return fmt.Errorf("holiday %s: %w", id, leave.ErrHolidayNotFound)
	}
	delete(t.holidays, id)
	return nil
}

func (t *tables) application(id string) (leave.Application, error) {
	app, ok := t.applications[id]
	if !ok {
		return leave.Application{}, fmt.Errorf("application %s: %w", id, leave.ErrApplicationNotFound)
	}
	return app, nil
}

func (t *tables) applicationList(employeeID generic.EntityID) []leave.Application {
	var out []leave.Application
	for _, app := range t.applications {
		if app.EmployeeID == employeeID {
			out = append(out, app)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate != out[j].StartDate {
			return out[i].StartDate < out[j].StartDate
		}
		return out[i].ID < out[j].ID
	})
	return out
}
