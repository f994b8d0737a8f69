// Package store provides in-memory Store implementations.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/warp/nizami/attendance"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for tests, the kiosk and JSON files)
// =============================================================================

type Memory struct {
	mu sync.RWMutex

	employees    []attendance.Employee
	records      []attendance.AttendanceRecord
	transactions []attendance.Transaction
	settings     *attendance.Settings

	byEmployeeDay map[dayKey]int // index into records

	persist attendance.PersistFunc
}

type dayKey struct {
	EmployeeID attendance.EmployeeID
	Date       string
}

func NewMemory() *Memory {
	return &Memory{byEmployeeDay: make(map[dayKey]int)}
}

// NewMemoryFrom creates a store holding snap. The persistence hook is not
// invoked for the initial state.
func NewMemoryFrom(snap attendance.Snapshot) *Memory {
	m := NewMemory()
	m.restoreLocked(snap, true)
	return m
}

// WithPersist installs a hook run after every mutation, inside the write
// lock. If the hook fails, the mutation is rolled back and the error returned.
func (m *Memory) WithPersist(fn attendance.PersistFunc) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persist = fn
	return m
}

// mutate runs fn under the write lock and commits it through the hook.
func (m *Memory) mutate(ctx context.Context, fn func() error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	before, hadSettings := m.snapshotLocked(), m.settings != nil
	if err := fn(); err != nil {
		return err
	}
	if m.persist == nil {
		return nil
	}
	if err := m.persist(ctx, m.snapshotLocked()); err != nil {
		m.restoreLocked(before, hadSettings)
		return fmt.Errorf("failed to persist state: %w", err)
	}
	return nil
}

// =============================================================================
// ROSTER
// =============================================================================

func (m *Memory) SaveEmployee(ctx context.Context, e attendance.Employee) error {
	return m.mutate(ctx, func() error {
		for i := range m.employees {
			if m.employees[i].ID == e.ID {
				// Updates keep the original insertion slot.
				e.CreatedAt = m.employees[i].CreatedAt
				m.employees[i] = e
				return nil
			}
		}
		m.employees = append(m.employees, e)
		return nil
	})
}

func (m *Memory) GetEmployee(_ context.Context, id attendance.EmployeeID) (*attendance.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, e := range m.employees {
		if e.ID == id {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]attendance.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]attendance.Employee, len(m.employees))
	copy(result, m.employees)
	return result, nil
}

func (m *Memory) DeleteEmployee(ctx context.Context, id attendance.EmployeeID) error {
	return m.mutate(ctx, func() error {
		kept := m.employees[:0:0]
		for _, e := range m.employees {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		m.employees = kept
		return nil
	})
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func (m *Memory) FindRecord(_ context.Context, employeeID attendance.EmployeeID, date attendance.Date) (*attendance.AttendanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.byEmployeeDay[dayKey{EmployeeID: employeeID, Date: date.String()}]
	if !ok {
		return nil, nil
	}
	found := copyRecord(m.records[i])
	return &found, nil
}

func (m *Memory) InsertRecord(ctx context.Context, r attendance.AttendanceRecord) error {
	return m.mutate(ctx, func() error {
		k := dayKey{EmployeeID: r.EmployeeID, Date: r.Date.String()}
		if _, exists := m.byEmployeeDay[k]; exists {
			return attendance.ErrDuplicateRecord
		}
		m.records = append(m.records, copyRecord(r))
		m.byEmployeeDay[k] = len(m.records) - 1
		return nil
	})
}

func (m *Memory) CloseRecord(ctx context.Context, r attendance.AttendanceRecord) error {
	return m.mutate(ctx, func() error {
		i, ok := m.byEmployeeDay[dayKey{EmployeeID: r.EmployeeID, Date: r.Date.String()}]
		if !ok || m.records[i].ID != r.ID {
			return attendance.ErrRecordNotFound
		}
		if !m.records[i].IsOpen() {
			return attendance.ErrRecordClosed
		}
		m.records[i] = copyRecord(r)
		return nil
	})
}

func (m *Memory) ListRecords(_ context.Context, from, to attendance.Date) ([]attendance.AttendanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []attendance.AttendanceRecord{}
	for _, r := range m.records {
		if from.BeforeOrEqual(r.Date) && r.Date.BeforeOrEqual(to) {
			result = append(result, copyRecord(r))
		}
	}
	return result, nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func (m *Memory) AppendTransaction(ctx context.Context, tx attendance.Transaction) error {
	return m.mutate(ctx, func() error {
		m.transactions = append(m.transactions, tx)
		return nil
	})
}

func (m *Memory) ListTransactions(_ context.Context, employeeID attendance.EmployeeID) ([]attendance.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []attendance.Transaction{}
	for _, tx := range m.transactions {
		if tx.EmployeeID == employeeID {
			result = append(result, tx)
		}
	}
	return result, nil
}

// =============================================================================
// SETTINGS
// =============================================================================

func (m *Memory) LoadSettings(_ context.Context) (attendance.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.settings == nil {
		return attendance.Settings{}, attendance.ErrSettingsNotFound
	}
	return *m.settings, nil
}

func (m *Memory) SaveSettings(ctx context.Context, s attendance.Settings) error {
	return m.mutate(ctx, func() error {
		m.settings = &s
		return nil
	})
}

// =============================================================================
// SNAPSHOT / RESTORE
// =============================================================================

func (m *Memory) Snapshot(_ context.Context) (attendance.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked(), nil
}

// Restore replaces the whole state with snap.
func (m *Memory) Restore(ctx context.Context, snap attendance.Snapshot) error {
	return m.mutate(ctx, func() error {
		m.restoreLocked(snap, true)
		return nil
	})
}

func (m *Memory) snapshotLocked() attendance.Snapshot {
	snap := attendance.Snapshot{
		Employees:    append([]attendance.Employee{}, m.employees...),
		Attendance:   make([]attendance.AttendanceRecord, len(m.records)),
		Transactions: append([]attendance.Transaction{}, m.transactions...),
		Settings:     attendance.DefaultSettings(),
	}
	for i, r := range m.records {
		snap.Attendance[i] = copyRecord(r)
	}
	if m.settings != nil {
		snap.Settings = *m.settings
	}
	return snap
}

func (m *Memory) restoreLocked(snap attendance.Snapshot, withSettings bool) {
	m.employees = append([]attendance.Employee{}, snap.Employees...)
	m.transactions = append([]attendance.Transaction{}, snap.Transactions...)
	m.records = make([]attendance.AttendanceRecord, 0, len(snap.Attendance))
	m.byEmployeeDay = make(map[dayKey]int, len(snap.Attendance))
	for _, r := range snap.Attendance {
		k := dayKey{EmployeeID: r.EmployeeID, Date: r.Date.String()}
		if _, dup := m.byEmployeeDay[k]; dup {
			continue
		}
		m.records = append(m.records, copyRecord(r))
		m.byEmployeeDay[k] = len(m.records) - 1
	}
	if withSettings {
		s := snap.Settings
		m.settings = &s
	} else {
		m.settings = nil
	}
}

// copyRecord detaches the timestamp pointers from the stored value.
func copyRecord(r attendance.AttendanceRecord) attendance.AttendanceRecord {
	if r.CheckIn != nil {
		t := *r.CheckIn
		r.CheckIn = &t
	}
	if r.CheckOut != nil {
		t := *r.CheckOut
		r.CheckOut = &t
	}
	return r
}

// Compile-time check
var _ attendance.Store = (*Memory)(nil)
