package attendance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/warp/nizami/attendance"
)

var shiftStart = time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		status   attendance.Status
		hours    string
	}{
		{"equal instants are a zero-hour late shift", 0, attendance.StatusLate, "0"},
		{"exactly six hours is present", 6 * time.Hour, attendance.StatusPresent, "6"},
		{"five hours fifty-nine is late", 5*time.Hour + 59*time.Minute, attendance.StatusLate, "5.98"},
		{"long shift is present", 8*time.Hour + 30*time.Minute, attendance.StatusPresent, "8.5"},
		{"one second short stays late even though hours round to six", 6*time.Hour - time.Second, attendance.StatusLate, "6"},
		{"clock skew is pending with zero hours", -time.Minute, attendance.StatusPending, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, hours := attendance.Classify(shiftStart, shiftStart.Add(tt.duration))
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.hours, hours.String())
		})
	}
}

func TestClassify_NeverAbsent(t *testing.T) {
	for d := -2 * time.Hour; d <= 12*time.Hour; d += 17 * time.Minute {
		status, hours := attendance.Classify(shiftStart, shiftStart.Add(d))
		assert.NotEqual(t, attendance.StatusAbsent, status)
		assert.False(t, hours.IsNegative(), "hours must never be negative (d=%s)", d)
	}
}
