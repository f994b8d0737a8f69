package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/nizami/attendance"
	"github.com/warp/nizami/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func openRecord(id attendance.RecordID, emp attendance.EmployeeID, day attendance.Date) attendance.AttendanceRecord {
	in := day.In(time.UTC).Add(9 * time.Hour)
	return attendance.AttendanceRecord{
		ID:         id,
		EmployeeID: emp,
		Date:       day,
		CheckIn:    &in,
		Status:     attendance.StatusPending,
		TotalHours: decimal.Zero,
	}
}

func TestStore_EmployeeRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	emp := attendance.Employee{
		ID:         "e1",
		Name:       "Omar",
		Role:       attendance.RoleEmployee,
		HourlyRate: decimal.RequireFromString("47.50"),
		StartDate:  attendance.NewDate(2023, 6, 1),
		Active:     true,
		CreatedAt:  created,
	}
	require.NoError(t, s.SaveEmployee(ctx, emp))

	got, err := s.GetEmployee(ctx, "e1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Omar", got.Name)
	assert.Equal(t, attendance.RoleEmployee, got.Role)
	assert.True(t, got.HourlyRate.Equal(emp.HourlyRate))
	assert.Equal(t, "2023-06-01", got.StartDate.String())
	assert.True(t, got.Active)
	assert.True(t, got.CreatedAt.Equal(created))

	missing, err := s.GetEmployee(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_SaveEmployee_UpdateKeepsOrder(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveEmployee(ctx, attendance.Employee{ID: "e1", Name: "Omar", Role: attendance.RoleEmployee, Active: true}))
	require.NoError(t, s.SaveEmployee(ctx, attendance.Employee{ID: "e2", Name: "Khaled", Role: attendance.RoleEmployee, Active: true}))
	require.NoError(t, s.SaveEmployee(ctx, attendance.Employee{ID: "e1", Name: "Omar A.", Role: attendance.RoleEmployee, Active: false}))

	all, err := s.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, attendance.EmployeeID("e1"), all[0].ID)
	assert.Equal(t, "Omar A.", all[0].Name)
	assert.False(t, all[0].Active)
	assert.Equal(t, attendance.EmployeeID("e2"), all[1].ID)

	require.NoError(t, s.DeleteEmployee(ctx, "e1"))
	all, err = s.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_InsertRecord_Duplicate(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	day := attendance.NewDate(2024, 3, 15)

	require.NoError(t, s.InsertRecord(ctx, openRecord("r1", "e1", day)))
	err := s.InsertRecord(ctx, openRecord("r2", "e1", day))
	assert.ErrorIs(t, err, attendance.ErrDuplicateRecord)

	got, err := s.FindRecord(ctx, "e1", day)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, attendance.RecordID("r1"), got.ID)
	assert.Equal(t, attendance.StatusPending, got.Status)
	assert.Nil(t, got.CheckOut)
	assert.True(t, got.CheckIn.Equal(day.In(time.UTC).Add(9*time.Hour)))
}

func TestStore_CloseRecord(t *testing.T) {
	// GIVEN: an open record
	s := newStore(t)
	ctx := context.Background()
	day := attendance.NewDate(2024, 3, 15)
	rec := openRecord("r1", "e1", day)
	require.NoError(t, s.InsertRecord(ctx, rec))

	out := rec.CheckIn.Add(8*time.Hour + 30*time.Minute)
	done := rec
	done.CheckOut = &out
	done.Status = attendance.StatusPresent
	done.TotalHours = decimal.RequireFromString("8.5")

	// WHEN: closing it twice
	require.NoError(t, s.CloseRecord(ctx, done))
	later := out.Add(time.Hour)
	again := done
	again.CheckOut = &later
	err := s.CloseRecord(ctx, again)

	// THEN: the second close is rejected and the first check-out stays
	assert.ErrorIs(t, err, attendance.ErrRecordClosed)

	got, err := s.FindRecord(ctx, "e1", day)
	require.NoError(t, err)
	require.NotNil(t, got.CheckOut)
	assert.True(t, got.CheckOut.Equal(out))
	assert.Equal(t, attendance.StatusPresent, got.Status)
	assert.Equal(t, "8.5", got.TotalHours.String())

	unknown := done
	unknown.ID = "r9"
	assert.ErrorIs(t, s.CloseRecord(ctx, unknown), attendance.ErrRecordNotFound)
}

func TestStore_ListRecords_InclusiveRange(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	start := attendance.NewDate(2024, 3, 10)

	require.NoError(t, s.InsertRecord(ctx, openRecord("r0", "e1", start.AddDays(-1))))
	require.NoError(t, s.InsertRecord(ctx, openRecord("r1", "e1", start)))
	require.NoError(t, s.InsertRecord(ctx, openRecord("r2", "e1", start.AddDays(30))))
	require.NoError(t, s.InsertRecord(ctx, openRecord("r3", "e1", start.AddDays(31))))

	records, err := s.ListRecords(ctx, start, start.AddDays(30))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, attendance.RecordID("r1"), records[0].ID)
	assert.Equal(t, attendance.RecordID("r2"), records[1].ID)
}

func TestStore_Transactions(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	when := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)

	require.NoError(t, s.AppendTransaction(ctx, attendance.Transaction{
		ID: "t1", EmployeeID: "e1", At: when, Type: attendance.TxBonus, Amount: decimal.RequireFromString("12.75"), Reason: "Eid",
	}))
	require.NoError(t, s.AppendTransaction(ctx, attendance.Transaction{
		ID: "t2", EmployeeID: "e2", At: when, Type: attendance.TxDeduction, Amount: decimal.NewFromInt(5),
	}))

	txs, err := s.ListTransactions(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "12.75", txs[0].Amount.String())
	assert.Equal(t, "Eid", txs[0].Reason)
	assert.True(t, txs[0].At.Equal(when))
}

func TestStore_Settings(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.LoadSettings(ctx)
	assert.ErrorIs(t, err, attendance.ErrSettingsNotFound)

	settings := attendance.DefaultSettings()
	settings.PayrollDay = 25
	settings.Language = attendance.LanguageEnglish
	require.NoError(t, s.SaveSettings(ctx, settings))

	settings.OwnerPasscode = "1234"
	require.NoError(t, s.SaveSettings(ctx, settings))

	got, err := s.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings, got)
}

func TestStore_SnapshotRestore(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	day := attendance.NewDate(2024, 3, 15)

	require.NoError(t, s.SaveEmployee(ctx, attendance.Employee{ID: "old", Name: "Gone", Role: attendance.RoleEmployee, Active: true}))

	snap := attendance.Snapshot{
		Employees: []attendance.Employee{
			{ID: "e1", Name: "Omar", Role: attendance.RoleEmployee, HourlyRate: decimal.NewFromInt(50), Active: true},
		},
		Attendance: []attendance.AttendanceRecord{
			openRecord("r1", "e1", day),
			openRecord("r2", "e1", day), // duplicate day, dropped
		},
		Transactions: []attendance.Transaction{
			{ID: "t1", EmployeeID: "e1", At: day.In(time.UTC), Type: attendance.TxBonus, Amount: decimal.NewFromInt(10)},
		},
		Settings: attendance.DefaultSettings(),
	}

	require.NoError(t, s.Restore(ctx, snap))

	got, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, got.Employees, 1)
	assert.Equal(t, attendance.EmployeeID("e1"), got.Employees[0].ID)
	require.Len(t, got.Attendance, 1)
	assert.Equal(t, attendance.RecordID("r1"), got.Attendance[0].ID)
	assert.Len(t, got.Transactions, 1)
	assert.Equal(t, attendance.DefaultSettings(), got.Settings)
}

func TestStore_Service_OneRecordPerDay(t *testing.T) {
	// The clock recorder against the real database.
	s := newStore(t)
	ctx := context.Background()
	svc := attendance.NewService(s)

	emp, err := svc.AddEmployee(ctx, attendance.NewEmployee{
		Name: "Omar", Role: attendance.RoleEmployee, HourlyRate: decimal.NewFromInt(50),
	}, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	first, err := svc.ClockIn(ctx, emp.ID, time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, first.Applied)

	second, err := svc.ClockIn(ctx, emp.ID, time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, second.Applied)

	out, err := svc.ClockOut(ctx, emp.ID, time.Date(2024, 3, 15, 19, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.Equal(t, "10", out.Record.TotalHours.String())

	report, err := svc.Payroll(ctx, time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, report.Lines, 1)
	assert.Equal(t, "500", report.Lines[0].NetPay.String())
}

func TestNew_FileDatabase_Reopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nizami.sqlite")
	ctx := context.Background()

	s, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveEmployee(ctx, attendance.Employee{ID: "e1", Name: "Omar", Role: attendance.RoleEmployee, Active: true}))
	require.NoError(t, s.Close())

	// Migrations are already applied; reopening must not fail.
	s, err = sqlite.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	got, err := s.GetEmployee(ctx, "e1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Omar", got.Name)
}
