/*
store.go - Persistence interface for the roster, attendance and settings

PURPOSE:
  The Store is the explicit state object every service operation goes
  through. There is no package-level state: callers build a Store, wrap it
  in a Service, and pass that around.

CONCURRENCY CONTRACT:
  The "one record per employee per day" invariant must hold even when the
  store is shared (e.g. behind the HTTP API). Implementations guarantee it:
  - InsertRecord fails with ErrDuplicateRecord when (employee, date) exists
  - CloseRecord is a compare-and-swap: it only succeeds while the stored
    record is still open, otherwise ErrRecordClosed

PERSISTENCE HOOK:
  The in-memory store accepts a PersistFunc that runs after every mutation
  inside the same critical section (see store/memory.go). A failing hook
  rolls the mutation back.

IMPLEMENTATIONS:
  - attendance/store/memory.go: in-memory, optional JSON-file hook
  - store/sqlite/sqlite.go: SQLite with embedded migrations
*/
package attendance

import (
	"context"

	"github.com/google/uuid"
)

// =============================================================================
// STORE
// =============================================================================

// Store persists the roster, attendance records, transactions and settings.
// List methods return rows in insertion order.
type Store interface {
	// Roster
	SaveEmployee(ctx context.Context, e Employee) error
	GetEmployee(ctx context.Context, id EmployeeID) (*Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	DeleteEmployee(ctx context.Context, id EmployeeID) error

	// Attendance
	FindRecord(ctx context.Context, employeeID EmployeeID, date Date) (*AttendanceRecord, error)
	InsertRecord(ctx context.Context, r AttendanceRecord) error
	CloseRecord(ctx context.Context, r AttendanceRecord) error
	ListRecords(ctx context.Context, from, to Date) ([]AttendanceRecord, error)

	// Transactions
	AppendTransaction(ctx context.Context, tx Transaction) error
	ListTransactions(ctx context.Context, employeeID EmployeeID) ([]Transaction, error)

	// Settings. LoadSettings returns ErrSettingsNotFound until the first save.
	LoadSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, s Settings) error

	// Whole-state export/import
	Snapshot(ctx context.Context) (Snapshot, error)
	Restore(ctx context.Context, snap Snapshot) error
}

// PersistFunc is invoked with the full state after each mutation.
type PersistFunc func(ctx context.Context, snap Snapshot) error

// =============================================================================
// SERVICE
// =============================================================================

// Service exposes the engine operations over a Store.
type Service struct {
	store Store
	ids   func() string
}

// NewService creates a service backed by store.
func NewService(store Store) *Service {
	return &Service{store: store, ids: newID}
}

// WithIDGenerator replaces the id generator (tests use deterministic ids).
func (s *Service) WithIDGenerator(fn func() string) *Service {
	s.ids = fn
	return s
}

// Store returns the underlying store.
func (s *Service) Store() Store {
	return s.store
}

func newID() string {
	return uuid.NewString()
}
