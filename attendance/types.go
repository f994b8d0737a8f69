/*
Package attendance provides the attendance-to-payroll computation engine.

PURPOSE:
  Turns raw check-in/check-out events into per-employee hour totals, a status
  label per shift, and a periodic payroll cycle aggregation. Everything outside
  this package (HTTP, TUI, CLI, persistence) calls in with plain data and a
  caller-supplied "now". The engine never reads the wall clock itself.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee: a roster entry with an hourly rate and a soft-delete flag
  - AttendanceRecord: one shift per employee per calendar date
  - Status: pending until check-out, then present or late
  - Transaction: a recorded bonus or deduction (not applied to payroll yet)

DESIGN PRINCIPLES:
  1. Pure core: Classify, ResolvePeriod and ComputeReport have no side effects
  2. Precision: hours, rates and pay use decimal.Decimal
  3. Idempotent events: duplicate clock actions are no-ops, never errors
  4. Explicit store: all state lives behind the Store interface

SEE ALSO:
  - clock.go: ClockIn / ClockOut
  - classify.go: shift status rules
  - period.go: pay cycle boundaries
  - payroll.go: payroll aggregation
*/
package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type RecordID string
type TransactionID string

// =============================================================================
// EMPLOYEE
// =============================================================================

type Role string

const (
	RoleOwner    Role = "owner"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleEmployee
}

// Employee is a roster entry. Active=false marks a soft-deleted employee:
// it stays in storage but is hidden from the roster view and payroll.
type Employee struct {
	ID         EmployeeID
	Name       string
	Role       Role
	HourlyRate decimal.Decimal
	StartDate  Date
	Active     bool
	CreatedAt  time.Time
}

// =============================================================================
// ATTENDANCE RECORD
// =============================================================================

type Status string

const (
	StatusPending Status = "pending"
	StatusPresent Status = "present"
	StatusLate    Status = "late"

	// StatusAbsent is reserved for a day without any record. It is never
	// stored; views render the missing record instead.
	StatusAbsent Status = "absent"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPresent, StatusLate, StatusAbsent:
		return true
	}
	return false
}

// AttendanceRecord is a single shift. At most one exists per (EmployeeID, Date).
// CheckOut is nil while the shift is open and must be nil when CheckIn is nil.
type AttendanceRecord struct {
	ID         RecordID
	EmployeeID EmployeeID
	Date       Date
	CheckIn    *time.Time
	CheckOut   *time.Time
	Status     Status
	TotalHours decimal.Decimal
}

// IsOpen reports whether the shift has a check-in and no check-out yet.
func (r AttendanceRecord) IsOpen() bool {
	return r.CheckIn != nil && r.CheckOut == nil
}

// IsCompleted reports whether the shift has been checked out.
func (r AttendanceRecord) IsCompleted() bool {
	return r.CheckIn != nil && r.CheckOut != nil
}

// =============================================================================
// TRANSACTIONS - bonuses and deductions
// =============================================================================

type TransactionType string

const (
	TxBonus     TransactionType = "bonus"
	TxDeduction TransactionType = "deduction"
)

// Transaction records a pay adjustment for an employee. Payroll does not
// apply transactions yet; PayrollLine carries zero Bonuses and Deductions.
type Transaction struct {
	ID         TransactionID
	EmployeeID EmployeeID
	At         time.Time
	Type       TransactionType
	Amount     decimal.Decimal
	Reason     string
}

// =============================================================================
// SNAPSHOT - the full persisted state
// =============================================================================

// Snapshot is the whole state held by a Store, in insertion order.
type Snapshot struct {
	Employees    []Employee
	Attendance   []AttendanceRecord
	Transactions []Transaction
	Settings     Settings
}
