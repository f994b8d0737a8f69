/*
Package document defines the persisted-state JSON document.

PURPOSE:
  The whole application state serializes to one JSON object:

    {
      "employees":    [{id, name, role, hourlyRate, startDate, isActive}],
      "attendance":   [{id, employeeId, date, checkIn, checkOut, status, totalHours}],
      "transactions": [{id, employeeId, date, type, amount, reason}],
      "settings":     {payrollDay, ownerPasscode, shiftDuration, language}
    }

  This is the import/export format and the on-disk format of the "json"
  storage driver. Decode also accepts the browser-storage envelope
  {"state": {...}, "version": n} written by the browser client.

NUMBERS:
  Rates, hours and amounts are JSON numbers. They go through json.Number so
  no precision is lost on the way to decimal.Decimal.

SEE ALSO:
  - file.go: atomic file writes and the memory store hook
  - attendance/types.go: the domain model
*/
package document

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/nizami/attendance"
)

// =============================================================================
// DOCUMENT TYPES
// =============================================================================

type Document struct {
	Employees    []Employee    `json:"employees"`
	Attendance   []Record      `json:"attendance"`
	Transactions []Transaction `json:"transactions"`
	Settings     Settings      `json:"settings"`
}

type Employee struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Role       string          `json:"role"`
	HourlyRate json.Number     `json:"hourlyRate"`
	StartDate  attendance.Date `json:"startDate"`
	IsActive   bool            `json:"isActive"`
	CreatedAt  *time.Time      `json:"createdAt,omitempty"`
}

type Record struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employeeId"`
	Date       attendance.Date `json:"date"`
	CheckIn    *time.Time      `json:"checkIn"`
	CheckOut   *time.Time      `json:"checkOut"`
	Status     string          `json:"status"`
	TotalHours json.Number     `json:"totalHours"`
}

type Transaction struct {
	ID         string      `json:"id"`
	EmployeeID string      `json:"employeeId"`
	Date       time.Time   `json:"date"`
	Type       string      `json:"type"`
	Amount     json.Number `json:"amount"`
	Reason     string      `json:"reason"`
}

type Settings struct {
	PayrollDay    int    `json:"payrollDay"`
	OwnerPasscode string `json:"ownerPasscode"`
	ShiftDuration int    `json:"shiftDuration"`
	Language      string `json:"language"`
}

// =============================================================================
// CODEC
// =============================================================================

// envelope is the browser-storage wrapper around a document.
type envelope struct {
	State   json.RawMessage `json:"state"`
	Version *int            `json:"version"`
}

// Decode reads a document, bare or wrapped in a {"state": ...} envelope.
// Missing settings fields take their default values.
func Decode(r io.Reader) (Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read document: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Document{}, fmt.Errorf("failed to parse document: %w", err)
	}
	if len(env.State) > 0 && string(env.State) != "null" {
		raw = env.State
	}

	doc := Document{Settings: settingsDTO(attendance.DefaultSettings())}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("failed to parse document: %w", err)
	}
	return doc, nil
}

// Encode writes doc as indented JSON.
func Encode(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// =============================================================================
// CONVERSION
// =============================================================================

// FromSnapshot converts a store snapshot into a document.
func FromSnapshot(snap attendance.Snapshot) Document {
	doc := Document{
		Employees:    make([]Employee, 0, len(snap.Employees)),
		Attendance:   make([]Record, 0, len(snap.Attendance)),
		Transactions: make([]Transaction, 0, len(snap.Transactions)),
		Settings:     settingsDTO(snap.Settings),
	}

	for _, e := range snap.Employees {
		emp := Employee{
			ID:         string(e.ID),
			Name:       e.Name,
			Role:       string(e.Role),
			HourlyRate: number(e.HourlyRate),
			StartDate:  e.StartDate,
			IsActive:   e.Active,
		}
		if !e.CreatedAt.IsZero() {
			created := e.CreatedAt
			emp.CreatedAt = &created
		}
		doc.Employees = append(doc.Employees, emp)
	}

	for _, r := range snap.Attendance {
		doc.Attendance = append(doc.Attendance, Record{
			ID:         string(r.ID),
			EmployeeID: string(r.EmployeeID),
			Date:       r.Date,
			CheckIn:    r.CheckIn,
			CheckOut:   r.CheckOut,
			Status:     string(r.Status),
			TotalHours: number(r.TotalHours),
		})
	}

	for _, tx := range snap.Transactions {
		doc.Transactions = append(doc.Transactions, Transaction{
			ID:         string(tx.ID),
			EmployeeID: string(tx.EmployeeID),
			Date:       tx.At,
			Type:       string(tx.Type),
			Amount:     number(tx.Amount),
			Reason:     tx.Reason,
		})
	}

	return doc
}

// Snapshot validates the document and converts it into a store snapshot.
func (d Document) Snapshot() (attendance.Snapshot, error) {
	snap := attendance.Snapshot{
		Employees:    make([]attendance.Employee, 0, len(d.Employees)),
		Attendance:   make([]attendance.AttendanceRecord, 0, len(d.Attendance)),
		Transactions: make([]attendance.Transaction, 0, len(d.Transactions)),
	}

	for i, e := range d.Employees {
		if e.ID == "" {
			return attendance.Snapshot{}, fmt.Errorf("employee %d: missing id", i)
		}
		role := attendance.Role(e.Role)
		if role == "" {
			role = attendance.RoleEmployee
		}
		if !role.Valid() {
			return attendance.Snapshot{}, fmt.Errorf("employee %s: unknown role %q", e.ID, e.Role)
		}
		rate, err := parseNumber(e.HourlyRate)
		if err != nil {
			return attendance.Snapshot{}, fmt.Errorf("employee %s: bad hourlyRate: %w", e.ID, err)
		}
		emp := attendance.Employee{
			ID:         attendance.EmployeeID(e.ID),
			Name:       e.Name,
			Role:       role,
			HourlyRate: rate,
			StartDate:  e.StartDate,
			Active:     e.IsActive,
		}
		if e.CreatedAt != nil {
			emp.CreatedAt = *e.CreatedAt
		}
		snap.Employees = append(snap.Employees, emp)
	}

	for i, r := range d.Attendance {
		if r.ID == "" || r.EmployeeID == "" {
			return attendance.Snapshot{}, fmt.Errorf("attendance %d: missing id or employeeId", i)
		}
		status := attendance.Status(r.Status)
		if status == "" {
			status = attendance.StatusPending
		}
		if !status.Valid() {
			return attendance.Snapshot{}, fmt.Errorf("attendance %s: unknown status %q", r.ID, r.Status)
		}
		if r.CheckIn == nil && r.CheckOut != nil {
			return attendance.Snapshot{}, fmt.Errorf("attendance %s: checkOut without checkIn", r.ID)
		}
		hours, err := parseNumber(r.TotalHours)
		if err != nil {
			return attendance.Snapshot{}, fmt.Errorf("attendance %s: bad totalHours: %w", r.ID, err)
		}
		date := r.Date
		if date.IsZero() && r.CheckIn != nil {
			date = attendance.DateOf(*r.CheckIn)
		}
		snap.Attendance = append(snap.Attendance, attendance.AttendanceRecord{
			ID:         attendance.RecordID(r.ID),
			EmployeeID: attendance.EmployeeID(r.EmployeeID),
			Date:       date,
			CheckIn:    r.CheckIn,
			CheckOut:   r.CheckOut,
			Status:     status,
			TotalHours: hours,
		})
	}

	for i, tx := range d.Transactions {
		if tx.ID == "" || tx.EmployeeID == "" {
			return attendance.Snapshot{}, fmt.Errorf("transaction %d: missing id or employeeId", i)
		}
		typ := attendance.TransactionType(tx.Type)
		if typ != attendance.TxBonus && typ != attendance.TxDeduction {
			return attendance.Snapshot{}, fmt.Errorf("transaction %s: unknown type %q", tx.ID, tx.Type)
		}
		amount, err := parseNumber(tx.Amount)
		if err != nil {
			return attendance.Snapshot{}, fmt.Errorf("transaction %s: bad amount: %w", tx.ID, err)
		}
		snap.Transactions = append(snap.Transactions, attendance.Transaction{
			ID:         attendance.TransactionID(tx.ID),
			EmployeeID: attendance.EmployeeID(tx.EmployeeID),
			At:         tx.Date,
			Type:       typ,
			Amount:     amount,
			Reason:     tx.Reason,
		})
	}

	snap.Settings = attendance.Settings{
		PayrollDay:    d.Settings.PayrollDay,
		OwnerPasscode: d.Settings.OwnerPasscode,
		ShiftDuration: d.Settings.ShiftDuration,
		Language:      attendance.Language(d.Settings.Language),
	}
	if err := snap.Settings.Validate(); err != nil {
		return attendance.Snapshot{}, fmt.Errorf("settings: %w", err)
	}

	return snap, nil
}

// =============================================================================
// STORE TRANSFER
// =============================================================================

// Export reads the whole state of store as a document.
func Export(ctx context.Context, store attendance.Store) (Document, error) {
	snap, err := store.Snapshot(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("failed to export state: %w", err)
	}
	return FromSnapshot(snap), nil
}

// Import replaces the whole state of store with doc.
func Import(ctx context.Context, store attendance.Store, doc Document) error {
	snap, err := doc.Snapshot()
	if err != nil {
		return fmt.Errorf("invalid document: %w", err)
	}
	if err := store.Restore(ctx, snap); err != nil {
		return fmt.Errorf("failed to import state: %w", err)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func settingsDTO(s attendance.Settings) Settings {
	return Settings{
		PayrollDay:    s.PayrollDay,
		OwnerPasscode: s.OwnerPasscode,
		ShiftDuration: s.ShiftDuration,
		Language:      string(s.Language),
	}
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// parseNumber treats an absent number as zero.
func parseNumber(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(n.String())
}
