/*
Package sqlite provides the SQLite-backed leave.Repository.

PURPOSE:
  Persists employees, holidays, leave applications and the balance ledger
  in one database file. The same Store satisfies generic.Store and
  generic.TxStore so the ledger can run on it directly.

INTERFACES IMPLEMENTED:
  leave.Repository:  Employees, holidays, applications, ledger
  generic.Store:     Ledger transaction persistence
  generic.TxStore:   Atomic ledger writes

APPEND-ONLY ENFORCEMENT:
  - No UPDATE or DELETE statements touch the transactions table
  - Corrections are reversal transactions
  - idempotency_key is UNIQUE; a duplicate maps to
    generic.ErrDuplicateIdempotencyKey

KEY TABLES:
  transactions:  Immutable balance ledger (consumption, reversal, grant)
  employees:     Applicants, with gender and joining date
  holidays:      Organization holiday table (CUSTOM / SUNDAY / SATURDAY_2_4)
  applications:  Leave applications and their status

CONCURRENCY:
  WithinEmployee takes a per-employee lock and runs inside one SQL
  transaction. The pool is limited to a single connection: SQLite allows
  one writer at a time, and ":memory:" databases are per connection.

USAGE:
  store, err := sqlite.New("./data/leave.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := leave.NewService(store, leave.Options{}, logger)

SEE ALSO:
  - leave/repository.go: Repository contract
  - generic/store.go: Store / TxStore contracts
  - store/memory: In-memory Repository for tests and the CLI
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/eigen04/hr-mgmt-v2-sub000/generic"
	"github.com/eigen04/hr-mgmt-v2-sub000/leave"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// querier is what *sql.DB and *sql.Tx have in common.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements leave.Repository and generic.TxStore on SQLite.
type Store struct {
	*repo
	db    *sql.DB
	locks generic.KeyedMutex
}

var (
	_ leave.Repository = (*Store)(nil)
	_ generic.TxStore  = (*Store)(nil)
)

// New opens (and migrates) the database at dbPath.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	s.repo = &repo{q: db, parent: s}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Transactions (append-only ledger)
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		entity_id TEXT NOT NULL,
		policy_id TEXT NOT NULL,
		resource_type TEXT NOT NULL,
		effective_at TEXT NOT NULL,
		delta_value TEXT NOT NULL,
		delta_unit TEXT NOT NULL,
		tx_type TEXT NOT NULL,
		reference_id TEXT,
		reason TEXT,
		idempotency_key TEXT UNIQUE,
		metadata_json TEXT,
		created_by TEXT,
		created_at TEXT NOT NULL
	);

	-- Balance replay (hot path)
	CREATE INDEX IF NOT EXISTS idx_transactions_entity_policy_date
		ON transactions(entity_id, policy_id, effective_at);
	CREATE INDEX IF NOT EXISTS idx_transactions_reference
		ON transactions(reference_id) WHERE reference_id IS NOT NULL;

	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		gender TEXT NOT NULL,
		join_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		kind TEXT NOT NULL DEFAULT 'CUSTOM',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_date ON holidays(date);

	CREATE TABLE IF NOT EXISTS applications (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		leave_type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT,
		reason TEXT,
		status TEXT NOT NULL DEFAULT 'PENDING',
		half_day BOOLEAN NOT NULL DEFAULT FALSE,
		chargeable_days TEXT NOT NULL DEFAULT '0',
		applied_on TEXT,
		approver_id TEXT,
		decided_on TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_applications_employee
		ON applications(employee_id, start_date);
	CREATE INDEX IF NOT EXISTS idx_applications_status
		ON applications(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SCOPES
// =============================================================================

// WithinEmployee runs fn in one SQL transaction while holding the
// employee's lock. fn's error rolls the transaction back.
func (s *Store) WithinEmployee(ctx context.Context, employeeID generic.EntityID, fn func(leave.Repository) error) error {
	unlock := s.locks.Lock(string(employeeID))
	defer unlock()

	return s.inTx(ctx, func(r *repo) error { return fn(r) })
}

// WithTx implements generic.TxStore.
func (s *Store) WithTx(ctx context.Context, fn func(generic.Store) error) error {
	return s.inTx(ctx, func(r *repo) error { return fn(r) })
}

func (s *Store) inTx(ctx context.Context, fn func(*repo) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&repo{q: sqlTx, parent: s, inTx: true}); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// repo runs every query through q, which is either the database or an
// open transaction.
type repo struct {
	q      querier
	parent *Store
	inTx   bool
}

// WithinEmployee on a transactional view runs fn on the same view; the
// employee's lock and transaction are already held.
func (r *repo) WithinEmployee(ctx context.Context, employeeID generic.EntityID, fn func(leave.Repository) error) error {
	if r.inTx {
		return fn(r)
	}
	return r.parent.WithinEmployee(ctx, employeeID, fn)
}

// Ledger returns a ledger writing through this view.
func (r *repo) Ledger() generic.Ledger {
	return generic.NewLedger(r)
}

// =============================================================================
// TRANSACTION STORE (generic.Store interface)
// =============================================================================

// Append adds a transaction to the ledger.
func (r *repo) Append(ctx context.Context, tx generic.Transaction) error {
	return appendTx(ctx, r.q, tx)
}

// AppendBatch adds multiple transactions atomically.
func (r *repo) AppendBatch(ctx context.Context, txs []generic.Transaction) error {
	seen := make(map[string]bool, len(txs))
	for _, tx := range txs {
		if tx.IdempotencyKey == "" {
			continue
		}
		if seen[tx.IdempotencyKey] {
			return generic.ErrDuplicateIdempotencyKey
		}
		seen[tx.IdempotencyKey] = true
	}

	if r.inTx {
		for _, tx := range txs {
			if err := appendTx(ctx, r.q, tx); err != nil {
				return err
			}
		}
		return nil
	}
	return r.parent.inTx(ctx, func(tr *repo) error { return tr.AppendBatch(ctx, txs) })
}

func appendTx(ctx context.Context, q querier, tx generic.Transaction) error {
	metadataJSON, _ := json.Marshal(tx.Metadata)

	query := `
		INSERT INTO transactions
		(id, entity_id, policy_id, resource_type, effective_at, delta_value, delta_unit,
		 tx_type, reference_id, reason, idempotency_key, metadata_json, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	resourceID := ""
	if tx.ResourceType != nil {
		resourceID = tx.ResourceType.ResourceID()
	}

	_, err := q.ExecContext(ctx, query,
		tx.ID,
		tx.EntityID,
		tx.PolicyID,
		resourceID,
		tx.EffectiveAt.String(),
		tx.Delta.Value.String(),
		tx.Delta.Unit,
		tx.Type,
		nullString(tx.ReferenceID),
		nullString(tx.Reason),
		nullString(tx.IdempotencyKey),
		string(metadataJSON),
		nullString(tx.CreatedBy),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return generic.ErrDuplicateIdempotencyKey
		}
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

const transactionColumns = `id, entity_id, policy_id, resource_type, effective_at, delta_value, delta_unit,
	tx_type, reference_id, reason, idempotency_key, metadata_json, created_by, created_at`

// Load returns all transactions for an entity+policy, ordered by date.
func (r *repo) Load(ctx context.Context, entityID generic.EntityID, policyID generic.PolicyID) ([]generic.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE entity_id = ? AND policy_id = ?
		ORDER BY effective_at ASC, created_at ASC`
	return r.queryTransactions(ctx, query, entityID, policyID)
}

// LoadRange returns transactions effective in [from, to].
func (r *repo) LoadRange(ctx context.Context, entityID generic.EntityID, policyID generic.PolicyID, from, to generic.TimePoint) ([]generic.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE entity_id = ? AND policy_id = ?
		  AND effective_at >= ? AND effective_at <= ?
		ORDER BY effective_at ASC, created_at ASC`
	return r.queryTransactions(ctx, query, entityID, policyID, from.String(), to.String())
}

// Exists checks if an idempotency key exists.
func (r *repo) Exists(ctx context.Context, idempotencyKey string) (bool, error) {
	var count int
	err := r.q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM transactions WHERE idempotency_key = ?",
		idempotencyKey,
	).Scan(&count)
	return count > 0, err
}

func (r *repo) queryTransactions(ctx context.Context, query string, args ...any) ([]generic.Transaction, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []generic.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

func scanTransaction(rows *sql.Rows) (generic.Transaction, error) {
	var (
		tx             generic.Transaction
		resourceTypeID string
		effectiveAt    string
		deltaValue     string
		deltaUnit      string
		referenceID    sql.NullString
		reason         sql.NullString
		idempotencyKey sql.NullString
		metadataJSON   sql.NullString
		createdBy      sql.NullString
		createdAt      string
	)

	err := rows.Scan(
		&tx.ID, &tx.EntityID, &tx.PolicyID, &resourceTypeID,
		&effectiveAt, &deltaValue, &deltaUnit, &tx.Type,
		&referenceID, &reason, &idempotencyKey, &metadataJSON, &createdBy, &createdAt,
	)
	if err != nil {
		return tx, fmt.Errorf("failed to scan transaction: %w", err)
	}

	tx.ResourceType = generic.StoredResource(resourceTypeID)
	tx.EffectiveAt = parseDate(effectiveAt)
	tx.Delta = parseAmount(deltaValue, deltaUnit)
	tx.ReferenceID = referenceID.String
	tx.Reason = reason.String
	tx.IdempotencyKey = idempotencyKey.String
	tx.CreatedBy = createdBy.String
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		tx.CreatedAt = generic.FromTime(t)
	}

	if metadataJSON.Valid && metadataJSON.String != "" && metadataJSON.String != "null" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &tx.Metadata); err != nil {
			return tx, fmt.Errorf("transaction %s metadata: %w", tx.ID, err)
		}
	}
	return tx, nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// SaveEmployee inserts or updates an employee.
func (r *repo) SaveEmployee(ctx context.Context, emp leave.Employee) error {
	query := `
		INSERT INTO employees (id, name, email, gender, join_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			gender = excluded.gender,
			join_date = excluded.join_date
	`
	_, err := r.q.ExecContext(ctx, query,
		emp.ID, emp.Name, nullString(emp.Email), emp.Gender, emp.JoinDate.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Employee returns an employee by ID.
func (r *repo) Employee(ctx context.Context, id generic.EntityID) (leave.Employee, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, name, email, gender, join_date FROM employees WHERE id = ?`, id)
	if err != nil {
		return leave.Employee{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return leave.Employee{}, err
		}
		return leave.Employee{}, fmt.Errorf("employee %s: %w", id, leave.ErrEmployeeNotFound)
	}
	return scanEmployee(rows)
}

// Employees returns every employee ordered by name.
func (r *repo) Employees(ctx context.Context) ([]leave.Employee, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, name, email, gender, join_date FROM employees ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []leave.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func scanEmployee(rows *sql.Rows) (leave.Employee, error) {
	var (
		emp      leave.Employee
		email    sql.NullString
		joinDate string
	)
	if err := rows.Scan(&emp.ID, &emp.Name, &email, &emp.Gender, &joinDate); err != nil {
		return emp, fmt.Errorf("failed to scan employee: %w", err)
	}
	emp.Email = email.String
	emp.JoinDate = parseDate(joinDate)
	return emp, nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// SaveHoliday inserts or updates a holiday.
func (r *repo) SaveHoliday(ctx context.Context, h leave.Holiday) error {
	query := `
		INSERT INTO holidays (id, date, name, kind, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			name = excluded.name,
			kind = excluded.kind
	`
	_, err := r.q.ExecContext(ctx, query,
		h.ID, h.Date.String(), h.Name, h.Kind, time.Now().UTC().Format(time.RFC3339))
	return err
}

// DeleteHoliday removes a holiday.
func (r *repo) DeleteHoliday(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("holiday %s: %w", id, leave.ErrHolidayNotFound)
	}
	return nil
}

// Holidays returns the holidays dated inside p, ordered by date.
func (r *repo) Holidays(ctx context.Context, p generic.Period) ([]leave.Holiday, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, date, name, kind FROM holidays
		WHERE date >= ? AND date <= ?
		ORDER BY date, created_at, name`,
		p.Start.String(), p.End.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	var holidays []leave.Holiday
	for rows.Next() {
		var (
			h    leave.Holiday
			date string
		)
		if err := rows.Scan(&h.ID, &date, &h.Name, &h.Kind); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		h.Date = parseDate(date)
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// =============================================================================
// APPLICATIONS
// =============================================================================

const applicationColumns = `id, employee_id, leave_type, start_date, end_date, reason, status,
	half_day, chargeable_days, applied_on, approver_id, decided_on`

// SaveApplication inserts an application or updates its decision fields.
func (r *repo) SaveApplication(ctx context.Context, app leave.Application) error {
	query := `
		INSERT INTO applications (` + applicationColumns + `, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			approver_id = excluded.approver_id,
			decided_on = excluded.decided_on,
			updated_at = excluded.updated_at
	`
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := r.q.ExecContext(ctx, query,
		app.ID, app.EmployeeID, app.Type, app.StartDate, nullString(app.EndDate),
		nullString(app.Reason), app.Status, app.HalfDay, app.ChargeableDays.String(),
		nullDate(app.AppliedOn), nullString(app.ApproverID), nullDate(app.DecidedOn),
		now, now,
	)
	return err
}

// Application returns an application by ID.
func (r *repo) Application(ctx context.Context, id string) (leave.Application, error) {
	apps, err := r.queryApplications(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = ?`, id)
	if err != nil {
		return leave.Application{}, err
	}
	if len(apps) == 0 {
		return leave.Application{}, fmt.Errorf("application %s: %w", id, leave.ErrApplicationNotFound)
	}
	return apps[0], nil
}

// Applications returns every application of an employee, oldest start first.
func (r *repo) Applications(ctx context.Context, employeeID generic.EntityID) ([]leave.Application, error) {
	return r.queryApplications(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE employee_id = ? ORDER BY start_date, created_at`, employeeID)
}

func (r *repo) queryApplications(ctx context.Context, query string, args ...any) ([]leave.Application, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	defer rows.Close()

	var apps []leave.Application
	for rows.Next() {
		var (
			app                         leave.Application
			endDate, reason, approverID sql.NullString
			appliedOn, decidedOn        sql.NullString
			chargeable                  string
		)
		err := rows.Scan(
			&app.ID, &app.EmployeeID, &app.Type, &app.StartDate, &endDate, &reason,
			&app.Status, &app.HalfDay, &chargeable, &appliedOn, &approverID, &decidedOn,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		app.EndDate = endDate.String
		app.Reason = reason.String
		app.ApproverID = approverID.String
		app.ChargeableDays, _ = decimal.NewFromString(chargeable)
		app.AppliedOn = parseDate(appliedOn.String)
		app.DecidedOn = parseDate(decidedOn.String)
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullDate(t generic.TimePoint) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.String(), Valid: true}
}

// parseDate reads a stored date; empty or malformed values give the zero
// TimePoint.
func parseDate(s string) generic.TimePoint {
	t, err := generic.ParseDate(s)
	if err != nil {
		return generic.TimePoint{}
	}
	return t
}

func parseAmount(value, unit string) generic.Amount {
	d, err := decimal.NewFromString(value)
	if err != nil {
		d = decimal.Zero
	}
	return generic.Amount{Value: d, Unit: generic.Unit(unit)}
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

