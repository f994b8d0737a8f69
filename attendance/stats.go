package attendance

import (
	"context"
	"math"
)

// =============================================================================
// DAILY DASHBOARD
// =============================================================================

// DayStats summarizes one calendar day for the owner dashboard.
type DayStats struct {
	Date           Date
	TotalEmployees int // active employees
	Staff          int // active employees with the employee role
	Present        int // records with a check-in
	Completed      int // records with a check-out
	ActiveNow      int // present but not yet checked out
	AttendanceRate int // percent of active employees present, rounded
	Late           int
}

// LogEntry pairs an active employee with its record for a day. Record is
// nil when the employee has no record ("No Record").
type LogEntry struct {
	Employee Employee
	Record   *AttendanceRecord
}

// Status returns the record status, or StatusAbsent without a record.
func (e LogEntry) Status() Status {
	if e.Record == nil {
		return StatusAbsent
	}
	return e.Record.Status
}

// ComputeDayStats derives dashboard counters. Records of employees that are
// not active are ignored.
func ComputeDayStats(roster []Employee, records []AttendanceRecord, day Date) DayStats {
	stats := DayStats{Date: day}

	active := make(map[EmployeeID]bool)
	for _, e := range roster {
		if !e.Active {
			continue
		}
		active[e.ID] = true
		stats.TotalEmployees++
		if e.Role == RoleEmployee {
			stats.Staff++
		}
	}

	for _, r := range records {
		if !r.Date.Equal(day) || !active[r.EmployeeID] {
			continue
		}
		if r.CheckIn != nil {
			stats.Present++
		}
		if r.CheckOut != nil {
			stats.Completed++
		}
		if r.Status == StatusLate {
			stats.Late++
		}
	}

	stats.ActiveNow = stats.Present - stats.Completed
	if stats.TotalEmployees > 0 {
		stats.AttendanceRate = int(math.Round(float64(stats.Present) / float64(stats.TotalEmployees) * 100))
	}
	return stats
}

// BuildDailyLog lists every active employee with its record for day.
func BuildDailyLog(roster []Employee, records []AttendanceRecord, day Date) []LogEntry {
	byEmployee := make(map[EmployeeID]AttendanceRecord)
	for _, r := range records {
		if r.Date.Equal(day) {
			byEmployee[r.EmployeeID] = r
		}
	}

	entries := []LogEntry{}
	for _, e := range ActiveEmployees(roster) {
		entry := LogEntry{Employee: e}
		if r, ok := byEmployee[e.ID]; ok {
			rec := r
			entry.Record = &rec
		}
		entries = append(entries, entry)
	}
	return entries
}

// DailyStats returns the dashboard counters for day.
func (s *Service) DailyStats(ctx context.Context, day Date) (DayStats, error) {
	roster, records, err := s.dayData(ctx, day)
	if err != nil {
		return DayStats{}, err
	}
	return ComputeDayStats(roster, records, day), nil
}

// DailyLog returns the attendance log for day.
func (s *Service) DailyLog(ctx context.Context, day Date) ([]LogEntry, error) {
	roster, records, err := s.dayData(ctx, day)
	if err != nil {
		return nil, err
	}
	return BuildDailyLog(roster, records, day), nil
}

func (s *Service) dayData(ctx context.Context, day Date) ([]Employee, []AttendanceRecord, error) {
	roster, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.store.ListRecords(ctx, day, day)
	if err != nil {
		return nil, nil, err
	}
	return roster, records, nil
}
