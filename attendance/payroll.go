package attendance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PAYROLL AGGREGATOR
// =============================================================================

// PayrollLine is one employee's pay for a period. Derived, never stored.
type PayrollLine struct {
	EmployeeID EmployeeID
	Name       string
	HourlyRate decimal.Decimal
	TotalHours decimal.Decimal
	BasePay    decimal.Decimal
	Bonuses    decimal.Decimal
	Deductions decimal.Decimal
	NetPay     decimal.Decimal
	ShiftCount int
}

// PayrollReport is the payroll of every active employee for one period.
type PayrollReport struct {
	Period PayPeriod
	Lines  []PayrollLine
	Total  decimal.Decimal
}

// BasePay is hours × rate rounded to a whole currency unit.
func BasePay(hours, rate decimal.Decimal) decimal.Decimal {
	return hours.Mul(rate).Round(0)
}

// ComputeReport aggregates attendance into payroll lines. Only active
// employees are included, in roster order. A record counts when its
// calendar Date falls in [period.StartDate(), period.EndDate()].
func ComputeReport(roster []Employee, records []AttendanceRecord, period PayPeriod) PayrollReport {
	byEmployee := make(map[EmployeeID][]AttendanceRecord)
	for _, r := range records {
		if period.ContainsDate(r.Date) {
			byEmployee[r.EmployeeID] = append(byEmployee[r.EmployeeID], r)
		}
	}

	report := PayrollReport{
		Period: period,
		Lines:  []PayrollLine{},
		Total:  decimal.Zero,
	}

	for _, emp := range roster {
		if !emp.Active {
			continue
		}

		hours := decimal.Zero
		shifts := byEmployee[emp.ID]
		for _, r := range shifts {
			hours = hours.Add(r.TotalHours)
		}

		base := BasePay(hours, emp.HourlyRate)
		bonuses, deductions := decimal.Zero, decimal.Zero

		line := PayrollLine{
			EmployeeID: emp.ID,
			Name:       emp.Name,
			HourlyRate: emp.HourlyRate,
			TotalHours: hours,
			BasePay:    base,
			Bonuses:    bonuses,
			Deductions: deductions,
			NetPay:     base.Add(bonuses).Sub(deductions),
			ShiftCount: len(shifts),
		}
		report.Lines = append(report.Lines, line)
		report.Total = report.Total.Add(line.NetPay)
	}

	return report
}

// Payroll resolves the period enclosing ref using the stored payroll day
// and computes the report from the store's roster and attendance.
func (s *Service) Payroll(ctx context.Context, ref time.Time) (PayrollReport, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return PayrollReport{}, err
	}
	return s.PayrollFor(ctx, ResolvePeriod(ref, settings.PayrollDay))
}

// PayrollFor computes the report for an already resolved period.
func (s *Service) PayrollFor(ctx context.Context, period PayPeriod) (PayrollReport, error) {
	roster, err := s.store.ListEmployees(ctx)
	if err != nil {
		return PayrollReport{}, err
	}
	records, err := s.store.ListRecords(ctx, period.StartDate(), period.EndDate())
	if err != nil {
		return PayrollReport{}, err
	}
	return ComputeReport(roster, records, period), nil
}
