/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the attendance domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

NUMBERS:
  Money and hours are rendered as JSON numbers (float64). The engine keeps
  decimals internally; conversion happens only here.

VALIDATION:
  DTOs are pure data carriers. Handlers convert them into attendance inputs,
  whose Validate methods do the checking.

SEE ALSO:
  - handlers.go: Uses these types
  - attendance/types.go: Domain model
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/nizami/attendance"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	HourlyRate float64 `json:"hourlyRate"`
	StartDate  string  `json:"startDate"`
	IsActive   bool    `json:"isActive"`
}

// CreateEmployeeRequest is the request to add an employee.
type CreateEmployeeRequest struct {
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	HourlyRate float64 `json:"hourlyRate"`
	StartDate  string  `json:"startDate"`
}

// UpdateEmployeeRequest is a partial employee change.
type UpdateEmployeeRequest struct {
	Name       *string  `json:"name"`
	Role       *string  `json:"role"`
	HourlyRate *float64 `json:"hourlyRate"`
	StartDate  *string  `json:"startDate"`
	IsActive   *bool    `json:"isActive"`
}

// RecordDTO represents an attendance record.
type RecordDTO struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	Date       string     `json:"date"`
	CheckIn    *time.Time `json:"checkIn"`
	CheckOut   *time.Time `json:"checkOut"`
	Status     string     `json:"status"`
	TotalHours float64    `json:"totalHours"`
}

// ClockResponse is returned by the clock-in and clock-out endpoints.
// Applied is false when the event was a no-op.
type ClockResponse struct {
	Applied bool       `json:"applied"`
	Record  *RecordDTO `json:"record"`
}

// LogEntryDTO is one row of the daily attendance log.
type LogEntryDTO struct {
	Employee EmployeeDTO `json:"employee"`
	Status   string      `json:"status"`
	Record   *RecordDTO  `json:"record"`
}

// DayStatsDTO is the owner dashboard summary.
type DayStatsDTO struct {
	Date           string `json:"date"`
	TotalEmployees int    `json:"totalEmployees"`
	Staff          int    `json:"staff"`
	Present        int    `json:"present"`
	Completed      int    `json:"completed"`
	ActiveNow      int    `json:"activeNow"`
	AttendanceRate int    `json:"attendanceRate"`
	Late           int    `json:"late"`
}

// PayrollLineDTO is one employee's pay for the period.
type PayrollLineDTO struct {
	EmployeeID string  `json:"employeeId"`
	Name       string  `json:"name"`
	HourlyRate float64 `json:"hourlyRate"`
	TotalHours float64 `json:"totalHours"`
	BasePay    float64 `json:"basePay"`
	Bonuses    float64 `json:"bonuses"`
	Deductions float64 `json:"deductions"`
	NetPay     float64 `json:"netPay"`
	ShiftCount int     `json:"shiftCount"`
}

// PayrollReportDTO is the payroll report for one period.
type PayrollReportDTO struct {
	PeriodStart string           `json:"periodStart"`
	PeriodEnd   string           `json:"periodEnd"`
	Lines       []PayrollLineDTO `json:"lines"`
	Total       float64          `json:"total"`
}

// TransactionDTO represents a bonus or deduction.
type TransactionDTO struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Date       time.Time `json:"date"`
	Type       string    `json:"type"`
	Amount     float64   `json:"amount"`
	Reason     string    `json:"reason"`
}

// CreateTransactionRequest records a bonus or deduction.
type CreateTransactionRequest struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
}

// SettingsDTO is the settings payload. The passcode is never returned.
type SettingsDTO struct {
	PayrollDay    int    `json:"payrollDay"`
	ShiftDuration int    `json:"shiftDuration"`
	Language      string `json:"language"`
}

// UpdateSettingsRequest is a partial settings change.
type UpdateSettingsRequest struct {
	PayrollDay    *int    `json:"payrollDay"`
	OwnerPasscode *string `json:"ownerPasscode"`
	ShiftDuration *int    `json:"shiftDuration"`
	Language      *string `json:"language"`
}

// LoginRequest carries the owner passcode.
type LoginRequest struct {
	Passcode string `json:"passcode"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toEmployeeDTO(e attendance.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:         string(e.ID),
		Name:       e.Name,
		Role:       string(e.Role),
		HourlyRate: toFloat(e.HourlyRate),
		StartDate:  e.StartDate.String(),
		IsActive:   e.Active,
	}
}

func toEmployeeDTOs(employees []attendance.Employee) []EmployeeDTO {
	result := make([]EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		result = append(result, toEmployeeDTO(e))
	}
	return result
}

func toRecordDTO(r *attendance.AttendanceRecord) *RecordDTO {
	if r == nil {
		return nil
	}
	return &RecordDTO{
		ID:         string(r.ID),
		EmployeeID: string(r.EmployeeID),
		Date:       r.Date.String(),
		CheckIn:    r.CheckIn,
		CheckOut:   r.CheckOut,
		Status:     string(r.Status),
		TotalHours: toFloat(r.TotalHours),
	}
}

func toClockResponse(res attendance.ClockResult) ClockResponse {
	return ClockResponse{Applied: res.Applied, Record: toRecordDTO(res.Record)}
}

func toLogDTOs(entries []attendance.LogEntry) []LogEntryDTO {
	result := make([]LogEntryDTO, 0, len(entries))
	for _, e := range entries {
		result = append(result, LogEntryDTO{
			Employee: toEmployeeDTO(e.Employee),
			Status:   string(e.Status()),
			Record:   toRecordDTO(e.Record),
		})
	}
	return result
}

func toDayStatsDTO(s attendance.DayStats) DayStatsDTO {
	return DayStatsDTO{
		Date:           s.Date.String(),
		TotalEmployees: s.TotalEmployees,
		Staff:          s.Staff,
		Present:        s.Present,
		Completed:      s.Completed,
		ActiveNow:      s.ActiveNow,
		AttendanceRate: s.AttendanceRate,
		Late:           s.Late,
	}
}

func toPayrollDTO(r attendance.PayrollReport) PayrollReportDTO {
	dto := PayrollReportDTO{
		PeriodStart: r.Period.StartDate().String(),
		PeriodEnd:   r.Period.EndDate().String(),
		Lines:       make([]PayrollLineDTO, 0, len(r.Lines)),
		Total:       toFloat(r.Total),
	}
	for _, l := range r.Lines {
		dto.Lines = append(dto.Lines, PayrollLineDTO{
			EmployeeID: string(l.EmployeeID),
			Name:       l.Name,
			HourlyRate: toFloat(l.HourlyRate),
			TotalHours: toFloat(l.TotalHours),
			BasePay:    toFloat(l.BasePay),
			Bonuses:    toFloat(l.Bonuses),
			Deductions: toFloat(l.Deductions),
			NetPay:     toFloat(l.NetPay),
			ShiftCount: l.ShiftCount,
		})
	}
	return dto
}

func toTransactionDTOs(txs []attendance.Transaction) []TransactionDTO {
	result := make([]TransactionDTO, 0, len(txs))
	for _, tx := range txs {
		result = append(result, toTransactionDTO(tx))
	}
	return result
}

func toTransactionDTO(tx attendance.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:         string(tx.ID),
		EmployeeID: string(tx.EmployeeID),
		Date:       tx.At,
		Type:       string(tx.Type),
		Amount:     toFloat(tx.Amount),
		Reason:     tx.Reason,
	}
}

func toSettingsDTO(s attendance.Settings) SettingsDTO {
	return SettingsDTO{
		PayrollDay:    s.PayrollDay,
		ShiftDuration: s.ShiftDuration,
		Language:      string(s.Language),
	}
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// PortalEmployeeDTO is an employee as listed on the kiosk. OnShift is true
// while the employee has an open shift today.
type PortalEmployeeDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OnShift bool   `json:"onShift"`
}
