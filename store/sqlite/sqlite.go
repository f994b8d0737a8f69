/*
Package sqlite provides a SQLite-backed implementation of attendance.Store.

PURPOSE:
  Persists the roster, attendance records, transactions and settings in a
  single SQLite file. The schema is versioned with golang-migrate; the
  migrations are embedded in the binary and applied on New().

KEY TABLES:
  employees:    Roster entries (soft delete via is_active)
  attendance:   One row per (employee_id, date), enforced by UNIQUE
  transactions: Bonuses and deductions
  settings:     A single row (id = 1)

CONCURRENCY:
  Uses sync.RWMutex around the *sql.DB, plus database constraints:
  - UNIQUE(employee_id, date) maps to attendance.ErrDuplicateRecord
  - CloseRecord updates only while check_out IS NULL, otherwise
    attendance.ErrRecordClosed

ENCODING:
  Timestamps are RFC3339Nano TEXT, calendar dates are YYYY-MM-DD TEXT and
  decimals are stored as their exact string form.

USAGE:
  store, err := sqlite.New("./data/nizami.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := attendance.NewService(store)
*/
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	sqlite3migrate "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/nizami/attendance"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store implements attendance.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens the database at dbPath and applies pending migrations.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" is its own database.
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// runMigrations applies the embedded migrations. The migrator is not
// closed: closing it would close db as well.
func runMigrations(db *sql.DB) error {
	driver, err := sqlite3migrate.WithInstance(db, &sqlite3migrate.Config{})
	if err != nil {
		return err
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// =============================================================================
// ROSTER
// =============================================================================

// SaveEmployee inserts or updates an employee. Updates keep the row (and
// so its roster position) in place.
func (s *Store) SaveEmployee(ctx context.Context, e attendance.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveEmployee(ctx, s.db, e)
}

func saveEmployee(ctx context.Context, db execer, e attendance.Employee) error {
	query := `
		INSERT INTO employees (id, name, role, hourly_rate, start_date, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			role = excluded.role,
			hourly_rate = excluded.hourly_rate,
			start_date = excluded.start_date,
			is_active = excluded.is_active
	`
	_, err := db.ExecContext(ctx, query,
		e.ID,
		e.Name,
		e.Role,
		e.HourlyRate.String(),
		e.StartDate.String(),
		e.Active,
		formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

func (s *Store) GetEmployee(ctx context.Context, id attendance.EmployeeID) (*attendance.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, selectEmployees+` WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	employees, err := scanEmployees(rows)
	if err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return nil, nil
	}
	return &employees[0], nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]attendance.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, selectEmployees+` ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return scanEmployees(rows)
}

func (s *Store) DeleteEmployee(ctx context.Context, id attendance.EmployeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}

const selectEmployees = `
	SELECT id, name, role, hourly_rate, start_date, is_active, created_at
	FROM employees`

func scanEmployees(rows *sql.Rows) ([]attendance.Employee, error) {
	defer rows.Close()

	employees := []attendance.Employee{}
	for rows.Next() {
		var (
			e                          attendance.Employee
			rate, startDate, createdAt string
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Role, &rate, &startDate, &e.Active, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		var err error
		if e.HourlyRate, err = decimal.NewFromString(rate); err != nil {
			return nil, fmt.Errorf("employee %s: bad hourly_rate: %w", e.ID, err)
		}
		if startDate != "" {
			if e.StartDate, err = attendance.ParseDate(startDate); err != nil {
				return nil, fmt.Errorf("employee %s: bad start_date: %w", e.ID, err)
			}
		}
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("employee %s: bad created_at: %w", e.ID, err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func (s *Store) FindRecord(ctx context.Context, employeeID attendance.EmployeeID, date attendance.Date) (*attendance.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, selectRecords+` WHERE employee_id = ? AND date = ?`,
		employeeID, date.String())
	if err != nil {
		return nil, fmt.Errorf("failed to find record: %w", err)
	}
	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func (s *Store) InsertRecord(ctx context.Context, r attendance.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insertRecord(ctx, s.db, r)
}

func insertRecord(ctx context.Context, db execer, r attendance.AttendanceRecord) error {
	query := `
		INSERT INTO attendance (id, employee_id, date, check_in, check_out, status, total_hours)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.ExecContext(ctx, query,
		r.ID,
		r.EmployeeID,
		r.Date.String(),
		nullTime(r.CheckIn),
		nullTime(r.CheckOut),
		r.Status,
		r.TotalHours.String(),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return attendance.ErrDuplicateRecord
		}
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// CloseRecord writes the check-out of an open record. The WHERE clause is
// the compare-and-swap: a record closed in the meantime matches no row.
func (s *Store) CloseRecord(ctx context.Context, r attendance.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		UPDATE attendance
		SET check_out = ?, status = ?, total_hours = ?
		WHERE id = ? AND check_in IS NOT NULL AND check_out IS NULL
	`
	result, err := s.db.ExecContext(ctx, query,
		nullTime(r.CheckOut),
		r.Status,
		r.TotalHours.String(),
		r.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to close record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to close record: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var exists int
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM attendance WHERE id = ?`, r.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to close record: %w", err)
	}
	if exists == 0 {
		return attendance.ErrRecordNotFound
	}
	return attendance.ErrRecordClosed
}

// ListRecords returns records whose calendar date is within [from, to].
func (s *Store) ListRecords(ctx context.Context, from, to attendance.Date) ([]attendance.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		selectRecords+` WHERE date >= ? AND date <= ? ORDER BY rowid ASC`,
		from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return scanRecords(rows)
}

const selectRecords = `
	SELECT id, employee_id, date, check_in, check_out, status, total_hours
	FROM attendance`

func scanRecords(rows *sql.Rows) ([]attendance.AttendanceRecord, error) {
	defer rows.Close()

	records := []attendance.AttendanceRecord{}
	for rows.Next() {
		var (
			r                 attendance.AttendanceRecord
			date, hours       string
			checkIn, checkOut sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.EmployeeID, &date, &checkIn, &checkOut, &r.Status, &hours); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		var err error
		if r.Date, err = attendance.ParseDate(date); err != nil {
			return nil, fmt.Errorf("record %s: bad date: %w", r.ID, err)
		}
		if r.TotalHours, err = decimal.NewFromString(hours); err != nil {
			return nil, fmt.Errorf("record %s: bad total_hours: %w", r.ID, err)
		}
		if r.CheckIn, err = parseNullTime(checkIn); err != nil {
			return nil, fmt.Errorf("record %s: bad check_in: %w", r.ID, err)
		}
		if r.CheckOut, err = parseNullTime(checkOut); err != nil {
			return nil, fmt.Errorf("record %s: bad check_out: %w", r.ID, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func (s *Store) AppendTransaction(ctx context.Context, tx attendance.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return appendTransaction(ctx, s.db, tx)
}

func appendTransaction(ctx context.Context, db execer, tx attendance.Transaction) error {
	query := `
		INSERT INTO transactions (id, employee_id, at, type, amount, reason)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := db.ExecContext(ctx, query,
		tx.ID,
		tx.EmployeeID,
		formatTime(tx.At),
		tx.Type,
		tx.Amount.String(),
		tx.Reason,
	)
	if err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

func (s *Store) ListTransactions(ctx context.Context, employeeID attendance.EmployeeID) ([]attendance.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		selectTransactions+` WHERE employee_id = ? ORDER BY rowid ASC`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return scanTransactions(rows)
}

const selectTransactions = `
	SELECT id, employee_id, at, type, amount, reason
	FROM transactions`

func scanTransactions(rows *sql.Rows) ([]attendance.Transaction, error) {
	defer rows.Close()

	txs := []attendance.Transaction{}
	for rows.Next() {
		var (
			tx         attendance.Transaction
			at, amount string
		)
		if err := rows.Scan(&tx.ID, &tx.EmployeeID, &at, &tx.Type, &amount, &tx.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		var err error
		if tx.At, err = parseTime(at); err != nil {
			return nil, fmt.Errorf("transaction %s: bad at: %w", tx.ID, err)
		}
		if tx.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("transaction %s: bad amount: %w", tx.ID, err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// =============================================================================
// SETTINGS
// =============================================================================

func (s *Store) LoadSettings(ctx context.Context) (attendance.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var settings attendance.Settings
	err := s.db.QueryRowContext(ctx, `
		SELECT payroll_day, owner_passcode, shift_duration, language
		FROM settings WHERE id = 1
	`).Scan(&settings.PayrollDay, &settings.OwnerPasscode, &settings.ShiftDuration, &settings.Language)
	if errors.Is(err, sql.ErrNoRows) {
		return attendance.Settings{}, attendance.ErrSettingsNotFound
	}
	if err != nil {
		return attendance.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

func (s *Store) SaveSettings(ctx context.Context, settings attendance.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveSettings(ctx, s.db, settings)
}

func saveSettings(ctx context.Context, db execer, settings attendance.Settings) error {
	query := `
		INSERT INTO settings (id, payroll_day, owner_passcode, shift_duration, language)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			payroll_day = excluded.payroll_day,
			owner_passcode = excluded.owner_passcode,
			shift_duration = excluded.shift_duration,
			language = excluded.language
	`
	_, err := db.ExecContext(ctx, query,
		settings.PayrollDay,
		settings.OwnerPasscode,
		settings.ShiftDuration,
		settings.Language,
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// =============================================================================
// SNAPSHOT / RESTORE
// =============================================================================

// Snapshot reads the whole state. Settings default when none were saved.
func (s *Store) Snapshot(ctx context.Context) (attendance.Snapshot, error) {
	employees, err := s.ListEmployees(ctx)
	if err != nil {
		return attendance.Snapshot{}, err
	}

	s.mu.RLock()
	rows, err := s.db.QueryContext(ctx, selectRecords+` ORDER BY rowid ASC`)
	if err != nil {
		s.mu.RUnlock()
		return attendance.Snapshot{}, fmt.Errorf("failed to list records: %w", err)
	}
	records, err := scanRecords(rows)
	if err != nil {
		s.mu.RUnlock()
		return attendance.Snapshot{}, err
	}
	rows, err = s.db.QueryContext(ctx, selectTransactions+` ORDER BY rowid ASC`)
	if err != nil {
		s.mu.RUnlock()
		return attendance.Snapshot{}, fmt.Errorf("failed to list transactions: %w", err)
	}
	txs, err := scanTransactions(rows)
	s.mu.RUnlock()
	if err != nil {
		return attendance.Snapshot{}, err
	}

	settings, err := s.LoadSettings(ctx)
	if errors.Is(err, attendance.ErrSettingsNotFound) {
		settings, err = attendance.DefaultSettings(), nil
	}
	if err != nil {
		return attendance.Snapshot{}, err
	}

	return attendance.Snapshot{
		Employees:    employees,
		Attendance:   records,
		Transactions: txs,
		Settings:     settings,
	}, nil
}

// Restore replaces every table with snap in one transaction.
func (s *Store) Restore(ctx context.Context, snap attendance.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	for _, table := range []string{"employees", "attendance", "transactions", "settings"} {
		if _, err := sqlTx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, e := range snap.Employees {
		if err := saveEmployee(ctx, sqlTx, e); err != nil {
			return err
		}
	}
	for _, r := range snap.Attendance {
		err := insertRecord(ctx, sqlTx, r)
		if errors.Is(err, attendance.ErrDuplicateRecord) {
			// First record per (employee, date) wins.
			continue
		}
		if err != nil {
			return err
		}
	}
	for _, tx := range snap.Transactions {
		if err := appendTransaction(ctx, sqlTx, tx); err != nil {
			return err
		}
	}
	if err := saveSettings(ctx, sqlTx, snap.Settings); err != nil {
		return err
	}

	return sqlTx.Commit()
}

// =============================================================================
// HELPERS
// =============================================================================

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Compile-time check
var _ attendance.Store = (*Store)(nil)
