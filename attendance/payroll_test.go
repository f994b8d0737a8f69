package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/nizami/attendance"
)

func shift(t *testing.T, svc *attendance.Service, id attendance.EmployeeID, day, fromHour, toHour int) {
	t.Helper()
	ctx := context.Background()
	_, err := svc.ClockIn(ctx, id, at(day, fromHour, 0))
	require.NoError(t, err)
	_, err = svc.ClockOut(ctx, id, at(day, toHour, 0))
	require.NoError(t, err)
}

func TestBasePay_RoundsToWholeUnit(t *testing.T) {
	tests := []struct {
		hours string
		rate  string
		want  string
	}{
		{"10", "50", "500"},
		{"8.5", "45", "383"},  // 382.5 rounds half away from zero
		{"5.98", "40", "239"}, // 239.2
		{"0", "50", "0"},
		{"7.25", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.hours+"x"+tt.rate, func(t *testing.T) {
			got := attendance.BasePay(decimal.RequireFromString(tt.hours), decimal.RequireFromString(tt.rate))
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestPayroll_SingleEmployee(t *testing.T) {
	// GIVEN: rate 50 and two 5-hour shifts inside the cycle
	svc, _ := newTestService(t)
	ctx := context.Background()
	emp := addEmployee(t, svc, "Omar", 50)

	shift(t, svc, emp.ID, 11, 9, 14)
	shift(t, svc, emp.ID, 12, 9, 14)

	// WHEN: computing payroll for March 15 with the default cycle day 10
	report, err := svc.Payroll(ctx, at(15, 12, 0))
	require.NoError(t, err)

	// THEN: base and net pay are 500
	assert.Equal(t, "2024-03-10", report.Period.StartDate().String())
	assert.Equal(t, "2024-04-09", report.Period.EndDate().String())
	require.Len(t, report.Lines, 1)

	line := report.Lines[0]
	assert.Equal(t, emp.ID, line.EmployeeID)
	assert.Equal(t, "10", line.TotalHours.String())
	assert.Equal(t, "500", line.BasePay.String())
	assert.True(t, line.Bonuses.IsZero())
	assert.True(t, line.Deductions.IsZero())
	assert.Equal(t, "500", line.NetPay.String())
	assert.Equal(t, 2, line.ShiftCount)
	assert.Equal(t, "500", report.Total.String())
}

func TestPayroll_IgnoresRecordsOutsidePeriod(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	emp := addEmployee(t, svc, "Omar", 50)

	shift(t, svc, emp.ID, 9, 9, 17)  // previous cycle ends March 9
	shift(t, svc, emp.ID, 10, 9, 17) // first day of the cycle

	report, err := svc.Payroll(ctx, at(20, 12, 0))
	require.NoError(t, err)
	require.Len(t, report.Lines, 1)
	assert.Equal(t, "8", report.Lines[0].TotalHours.String())
	assert.Equal(t, 1, report.Lines[0].ShiftCount)
}

func TestPayroll_EmployeeWithoutShifts_HasZeroLine(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	addEmployee(t, svc, "Omar", 50)

	report, err := svc.Payroll(ctx, at(15, 12, 0))
	require.NoError(t, err)
	require.Len(t, report.Lines, 1)
	assert.True(t, report.Lines[0].NetPay.IsZero())
	assert.Equal(t, 0, report.Lines[0].ShiftCount)
	assert.True(t, report.Total.IsZero())
}

func TestPayroll_OpenShiftCountsZeroHours(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	emp := addEmployee(t, svc, "Omar", 50)

	_, err := svc.ClockIn(ctx, emp.ID, at(15, 9, 0))
	require.NoError(t, err)

	report, err := svc.Payroll(ctx, at(15, 12, 0))
	require.NoError(t, err)
	require.Len(t, report.Lines, 1)
	assert.True(t, report.Lines[0].TotalHours.IsZero())
	assert.Equal(t, 1, report.Lines[0].ShiftCount)
}

func TestPayroll_InactiveExcluded_RosterOrderKept(t *testing.T) {
	// GIVEN: three employees, the middle one deactivated
	svc, _ := newTestService(t)
	ctx := context.Background()
	a := addEmployee(t, svc, "Al-Hassan", 40)
	b := addEmployee(t, svc, "Omar", 50)
	c := addEmployee(t, svc, "Khaled", 45)

	shift(t, svc, a.ID, 15, 9, 17)
	shift(t, svc, b.ID, 15, 9, 17)
	shift(t, svc, c.ID, 15, 9, 17)

	_, err := svc.DeactivateEmployee(ctx, b.ID)
	require.NoError(t, err)

	// WHEN
	report, err := svc.Payroll(ctx, at(15, 20, 0))
	require.NoError(t, err)

	// THEN: only active employees, in roster order
	require.Len(t, report.Lines, 2)
	assert.Equal(t, a.ID, report.Lines[0].EmployeeID)
	assert.Equal(t, c.ID, report.Lines[1].EmployeeID)
	assert.Equal(t, "320", report.Lines[0].NetPay.String())
	assert.Equal(t, "360", report.Lines[1].NetPay.String())
	assert.Equal(t, "680", report.Total.String())
}

func TestPayroll_UsesStoredPayrollDay(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	day := 25
	_, err := svc.UpdateSettings(ctx, attendance.SettingsUpdate{PayrollDay: &day})
	require.NoError(t, err)

	report, err := svc.Payroll(ctx, at(15, 12, 0))
	require.NoError(t, err)
	assert.Equal(t, "2024-02-25", report.Period.StartDate().String())
	assert.Equal(t, "2024-03-24", report.Period.EndDate().String())
}

func TestComputeReport_TransactionsNotApplied(t *testing.T) {
	// Bonuses and deductions are recorded but payroll ignores them.
	svc, _ := newTestService(t)
	ctx := context.Background()
	emp := addEmployee(t, svc, "Omar", 50)
	shift(t, svc, emp.ID, 15, 9, 17)

	_, err := svc.AddTransaction(ctx, attendance.NewTransaction{
		EmployeeID: emp.ID,
		Type:       attendance.TxBonus,
		Amount:     decimal.NewFromInt(100),
		Reason:     "Eid",
	}, at(15, 18, 0))
	require.NoError(t, err)

	report, err := svc.Payroll(ctx, at(15, 20, 0))
	require.NoError(t, err)
	assert.Equal(t, "400", report.Lines[0].NetPay.String())
}

func TestComputeReport_Pure(t *testing.T) {
	period := attendance.ResolvePeriod(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC), 10)
	roster := []attendance.Employee{
		{ID: "e1", Name: "Omar", HourlyRate: decimal.NewFromInt(50), Active: true},
	}
	records := []attendance.AttendanceRecord{
		{ID: "r1", EmployeeID: "e1", Date: attendance.NewDate(2024, 3, 10), TotalHours: decimal.RequireFromString("7.5")},
		{ID: "r2", EmployeeID: "e1", Date: attendance.NewDate(2024, 4, 9), TotalHours: decimal.RequireFromString("2.5")},
		{ID: "r3", EmployeeID: "e1", Date: attendance.NewDate(2024, 4, 10), TotalHours: decimal.NewFromInt(8)},
		{ID: "r4", EmployeeID: "ghost", Date: attendance.NewDate(2024, 3, 11), TotalHours: decimal.NewFromInt(8)},
	}

	report := attendance.ComputeReport(roster, records, period)

	require.Len(t, report.Lines, 1)
	assert.Equal(t, "10", report.Lines[0].TotalHours.String())
	assert.Equal(t, "500", report.Total.String())
}
