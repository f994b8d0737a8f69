package attendance_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/nizami/attendance"
)

func TestDailyStats(t *testing.T) {
	// GIVEN: three active employees: one finished, one on shift, one absent
	svc, _ := newTestService(t)
	ctx := context.Background()
	a := addEmployee(t, svc, "Al-Hassan", 40)
	b := addEmployee(t, svc, "Omar", 50)
	addEmployee(t, svc, "Khaled", 45)

	shift(t, svc, a.ID, 15, 9, 12) // 3h, late
	_, err := svc.ClockIn(ctx, b.ID, at(15, 9, 0))
	require.NoError(t, err)

	// WHEN
	stats, err := svc.DailyStats(ctx, attendance.NewDate(2024, 3, 15))
	require.NoError(t, err)

	// THEN
	assert.Equal(t, 3, stats.TotalEmployees)
	assert.Equal(t, 3, stats.Staff)
	assert.Equal(t, 2, stats.Present)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.ActiveNow)
	assert.Equal(t, 1, stats.Late)
	assert.Equal(t, 67, stats.AttendanceRate)
}

func TestDailyStats_IgnoresInactive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	a := addEmployee(t, svc, "Omar", 50)
	b := addEmployee(t, svc, "Khaled", 45)

	shift(t, svc, a.ID, 15, 9, 17)
	shift(t, svc, b.ID, 15, 9, 17)
	_, err := svc.DeactivateEmployee(ctx, b.ID)
	require.NoError(t, err)

	stats, err := svc.DailyStats(ctx, attendance.NewDate(2024, 3, 15))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalEmployees)
	assert.Equal(t, 1, stats.Present)
	assert.Equal(t, 100, stats.AttendanceRate)
}

func TestDailyStats_EmptyRoster(t *testing.T) {
	svc, _ := newTestService(t)

	stats, err := svc.DailyStats(context.Background(), attendance.NewDate(2024, 3, 15))
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalEmployees)
	assert.Equal(t, 0, stats.AttendanceRate)
}

func TestDailyLog(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	a := addEmployee(t, svc, "Omar", 50)
	b := addEmployee(t, svc, "Khaled", 45)
	shift(t, svc, a.ID, 15, 9, 17)
	shift(t, svc, a.ID, 16, 9, 17)

	log, err := svc.DailyLog(ctx, attendance.NewDate(2024, 3, 15))
	require.NoError(t, err)
	require.Len(t, log, 2)

	assert.Equal(t, a.ID, log[0].Employee.ID)
	require.NotNil(t, log[0].Record)
	assert.Equal(t, "2024-03-15", log[0].Record.Date.String())
	assert.Equal(t, attendance.StatusPresent, log[0].Status())

	assert.Equal(t, b.ID, log[1].Employee.ID)
	assert.Nil(t, log[1].Record)
	assert.Equal(t, attendance.StatusAbsent, log[1].Status())
}
