package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/nizami/attendance"
	"github.com/warp/nizami/attendance/store"
)

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

func closed(r attendance.AttendanceRecord, hours int) attendance.AttendanceRecord {
	out := r.CheckIn.Add(time.Duration(hours) * time.Hour)
	r.CheckOut = &out
	r.Status = attendance.StatusPresent
	r.TotalHours = decimal.NewFromInt(int64(hours))
	return r
}

func TestMemory_InsertRecord_Duplicate(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	day := attendance.NewDate(2024, 3, 15)

	require.NoError(t, m.InsertRecord(ctx, openRecord("r1", "e1", day)))

	err := m.InsertRecord(ctx, openRecord("r2", "e1", day))
	assert.ErrorIs(t, err, attendance.ErrDuplicateRecord)

	// Another employee or another day is fine.
	require.NoError(t, m.InsertRecord(ctx, openRecord("r3", "e2", day)))
	require.NoError(t, m.InsertRecord(ctx, openRecord("r4", "e1", day.AddDays(1))))

	records, err := m.ListRecords(ctx, day, day.AddDays(1))
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestMemory_CloseRecord_CompareAndSwap(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	day := attendance.NewDate(2024, 3, 15)
	rec := openRecord("r1", "e1", day)
	require.NoError(t, m.InsertRecord(ctx, rec))

	// WHEN: closing twice
	require.NoError(t, m.CloseRecord(ctx, closed(rec, 8)))
	err := m.CloseRecord(ctx, closed(rec, 9))

	// THEN: the second close loses and the first check-out stays
	assert.ErrorIs(t, err, attendance.ErrRecordClosed)

	got, err := m.FindRecord(ctx, "e1", day)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "8", got.TotalHours.String())
}

func TestMemory_CloseRecord_Unknown(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	day := attendance.NewDate(2024, 3, 15)

	err := m.CloseRecord(ctx, closed(openRecord("r1", "e1", day), 8))
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)

	require.NoError(t, m.InsertRecord(ctx, openRecord("r1", "e1", day)))
	err = m.CloseRecord(ctx, closed(openRecord("other", "e1", day), 8))
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)
}

func TestMemory_FindRecord_ReturnsCopy(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	day := attendance.NewDate(2024, 3, 15)
	require.NoError(t, m.InsertRecord(ctx, openRecord("r1", "e1", day)))

	got, err := m.FindRecord(ctx, "e1", day)
	require.NoError(t, err)
	*got.CheckIn = got.CheckIn.Add(time.Hour)

	again, err := m.FindRecord(ctx, "e1", day)
	require.NoError(t, err)
	assert.Equal(t, 9, again.CheckIn.Hour())
}

func TestMemory_SaveEmployee_Upsert(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, m.SaveEmployee(ctx, attendance.Employee{ID: "e1", Name: "Omar", Active: true, CreatedAt: created}))
	require.NoError(t, m.SaveEmployee(ctx, attendance.Employee{ID: "e2", Name: "Khaled", Active: true}))
	require.NoError(t, m.SaveEmployee(ctx, attendance.Employee{ID: "e1", Name: "Omar A.", Active: false}))

	all, err := m.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Omar A.", all[0].Name)
	assert.Equal(t, created, all[0].CreatedAt)
	assert.False(t, all[0].Active)

	require.NoError(t, m.DeleteEmployee(ctx, "e1"))
	got, err := m.GetEmployee(ctx, "e1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemory_Settings(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	_, err := m.LoadSettings(ctx)
	assert.ErrorIs(t, err, attendance.ErrSettingsNotFound)

	s := attendance.DefaultSettings()
	s.PayrollDay = 5
	require.NoError(t, m.SaveSettings(ctx, s))

	got, err := m.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestMemory_PersistHook(t *testing.T) {
	// GIVEN: a store whose hook records every snapshot
	var snaps []attendance.Snapshot
	m := store.NewMemory().WithPersist(func(_ context.Context, snap attendance.Snapshot) error {
		snaps = append(snaps, snap)
		return nil
	})
	ctx := context.Background()

	// WHEN
	require.NoError(t, m.SaveEmployee(ctx, attendance.Employee{ID: "e1", Name: "Omar", Active: true}))
	require.NoError(t, m.InsertRecord(ctx, openRecord("r1", "e1", attendance.NewDate(2024, 3, 15))))

	// THEN: the hook saw the state after each mutation
	require.Len(t, snaps, 2)
	assert.Len(t, snaps[0].Employees, 1)
	assert.Empty(t, snaps[0].Attendance)
	assert.Len(t, snaps[1].Attendance, 1)
}

func TestMemory_PersistHook_FailureRollsBack(t *testing.T) {
	boom := errors.New("disk full")
	fail := false
	m := store.NewMemory().WithPersist(func(context.Context, attendance.Snapshot) error {
		if fail {
			return boom
		}
		return nil
	})
	ctx := context.Background()
	day := attendance.NewDate(2024, 3, 15)

	require.NoError(t, m.SaveEmployee(ctx, attendance.Employee{ID: "e1", Name: "Omar", Active: true}))

	fail = true
	err := m.InsertRecord(ctx, openRecord("r1", "e1", day))
	assert.ErrorIs(t, err, boom)

	err = m.SaveSettings(ctx, attendance.DefaultSettings())
	assert.ErrorIs(t, err, boom)

	// Nothing from the failed mutations is visible.
	got, err := m.FindRecord(ctx, "e1", day)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = m.LoadSettings(ctx)
	assert.ErrorIs(t, err, attendance.ErrSettingsNotFound)

	// Once the hook recovers the same insert succeeds.
	fail = false
	require.NoError(t, m.InsertRecord(ctx, openRecord("r1", "e1", day)))
}

func TestMemory_SnapshotRestore(t *testing.T) {
	src := store.NewMemory()
	ctx := context.Background()
	day := attendance.NewDate(2024, 3, 15)

	require.NoError(t, src.SaveEmployee(ctx, attendance.Employee{ID: "e1", Name: "Omar", Active: true}))
	require.NoError(t, src.InsertRecord(ctx, openRecord("r1", "e1", day)))
	require.NoError(t, src.AppendTransaction(ctx, attendance.Transaction{
		ID: "t1", EmployeeID: "e1", Type: attendance.TxBonus, Amount: decimal.NewFromInt(10),
	}))

	snap, err := src.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, attendance.DefaultSettings(), snap.Settings)

	// Duplicate (employee, date) rows in an imported state keep the first.
	snap.Attendance = append(snap.Attendance, openRecord("r2", "e1", day))

	dst := store.NewMemoryFrom(snap)
	records, err := dst.ListRecords(ctx, day, day)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, attendance.RecordID("r1"), records[0].ID)

	txs, err := dst.ListTransactions(ctx, "e1")
	require.NoError(t, err)
	assert.Len(t, txs, 1)

	settings, err := dst.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, attendance.DefaultSettings(), settings)

	require.NoError(t, dst.Restore(ctx, attendance.Snapshot{Settings: attendance.DefaultSettings()}))
	all, err := dst.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
