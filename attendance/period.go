package attendance

import "time"

// =============================================================================
// PAY PERIOD - the cycle over which hours are aggregated
// =============================================================================

// DefaultCycleStartDay is the day of month on which a pay cycle starts.
const DefaultCycleStartDay = 10

// Cycle start days are kept within 1..28 so every month has the boundary day.
const (
	MinCycleStartDay = 1
	MaxCycleStartDay = 28
)

// PayPeriod is the closed interval [Start, End]. Start is midnight of the
// cycle start day, End is 23:59:59 on the day before the next cycle starts.
//
// Examples (cycle start day 10):
//   - reference 2024-03-15: [2024-03-10 00:00:00, 2024-04-09 23:59:59]
//   - reference 2024-03-05: [2024-02-10 00:00:00, 2024-03-09 23:59:59]
type PayPeriod struct {
	Start         time.Time
	End           time.Time
	CycleStartDay int
}

// ResolvePeriod returns the pay period enclosing ref. Boundaries are built
// with calendar arithmetic in ref's location, so month lengths and year
// rollover come from time.Date normalization.
func ResolvePeriod(ref time.Time, cycleStartDay int) PayPeriod {
	day := ClampCycleStartDay(cycleStartDay)
	loc := ref.Location()

	year, month := ref.Year(), ref.Month()
	if ref.Day() < day {
		// Still inside the cycle that started last month
		month--
	}

	return PayPeriod{
		Start:         time.Date(year, month, day, 0, 0, 0, 0, loc),
		End:           time.Date(year, month+1, day-1, 23, 59, 59, 0, loc),
		CycleStartDay: day,
	}
}

// ClampCycleStartDay forces day into [MinCycleStartDay, MaxCycleStartDay].
func ClampCycleStartDay(day int) int {
	if day < MinCycleStartDay {
		return MinCycleStartDay
	}
	if day > MaxCycleStartDay {
		return MaxCycleStartDay
	}
	return day
}

// StartDate is the first calendar day of the period.
func (p PayPeriod) StartDate() Date { return DateOf(p.Start) }

// EndDate is the last calendar day of the period.
func (p PayPeriod) EndDate() Date { return DateOf(p.End) }

// ContainsDate compares at calendar-day granularity, inclusive on both ends.
func (p PayPeriod) ContainsDate(d Date) bool {
	return d.AfterOrEqual(p.StartDate()) && d.BeforeOrEqual(p.EndDate())
}

// Contains reports whether the instant t lies within [Start, End].
func (p PayPeriod) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Days returns the number of calendar days in the period.
func (p PayPeriod) Days() int {
	n := 0
	for d := p.StartDate(); d.BeforeOrEqual(p.EndDate()); d = d.AddDays(1) {
		n++
	}
	return n
}

// NextPeriod returns the cycle following p.
func (p PayPeriod) NextPeriod() PayPeriod {
	return ResolvePeriod(p.End.Add(time.Second), p.CycleStartDay)
}

// PreviousPeriod returns the cycle before p.
func (p PayPeriod) PreviousPeriod() PayPeriod {
	return ResolvePeriod(p.Start.Add(-time.Second), p.CycleStartDay)
}

func (p PayPeriod) String() string {
	return "[" + p.StartDate().String() + ", " + p.EndDate().String() + "]"
}
