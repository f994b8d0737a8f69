package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CLOCK EVENT RECORDER
// =============================================================================

// ClockResult is the outcome of a clock event. Applied is false when the
// event was absorbed as a no-op (double check-in, check-out without an open
// shift); Record then holds the current record for the day, if any.
type ClockResult struct {
	Record  *AttendanceRecord
	Applied bool
}

// ClockIn opens a shift for employeeID on the calendar day of now.
// If a record for that day already exists the call is a no-op and the
// first check-in time is kept.
func (s *Service) ClockIn(ctx context.Context, employeeID EmployeeID, now time.Time) (ClockResult, error) {
	day := DateOf(now)

	existing, err := s.store.FindRecord(ctx, employeeID, day)
	if err != nil {
		return ClockResult{}, err
	}
	if existing != nil {
		return ClockResult{Record: existing}, nil
	}

	checkIn := now
	rec := AttendanceRecord{
		ID:         RecordID(s.ids()),
		EmployeeID: employeeID,
		Date:       day,
		CheckIn:    &checkIn,
		Status:     StatusPending,
		TotalHours: decimal.Zero,
	}

	if err := s.store.InsertRecord(ctx, rec); err != nil {
		if errors.Is(err, ErrDuplicateRecord) {
			// A concurrent clock-in won.
			return s.currentRecord(ctx, employeeID, day)
		}
		return ClockResult{}, err
	}
	return ClockResult{Record: &rec, Applied: true}, nil
}

// ClockOut closes the open shift of employeeID on the calendar day of now,
// classifying it. Without an open shift the call is a no-op.
func (s *Service) ClockOut(ctx context.Context, employeeID EmployeeID, now time.Time) (ClockResult, error) {
	day := DateOf(now)

	rec, err := s.store.FindRecord(ctx, employeeID, day)
	if err != nil {
		return ClockResult{}, err
	}
	if rec == nil || !rec.IsOpen() {
		return ClockResult{Record: rec}, nil
	}

	status, hours := Classify(*rec.CheckIn, now)
	checkOut := now
	closed := *rec
	closed.CheckOut = &checkOut
	closed.Status = status
	closed.TotalHours = hours

	if err := s.store.CloseRecord(ctx, closed); err != nil {
		if errors.Is(err, ErrRecordClosed) {
			return s.currentRecord(ctx, employeeID, day)
		}
		return ClockResult{}, err
	}
	return ClockResult{Record: &closed, Applied: true}, nil
}

// RecordFor returns the record of employeeID on day, or nil.
func (s *Service) RecordFor(ctx context.Context, employeeID EmployeeID, day Date) (*AttendanceRecord, error) {
	return s.store.FindRecord(ctx, employeeID, day)
}

func (s *Service) currentRecord(ctx context.Context, employeeID EmployeeID, day Date) (ClockResult, error) {
	rec, err := s.store.FindRecord(ctx, employeeID, day)
	if err != nil {
		return ClockResult{}, err
	}
	return ClockResult{Record: rec}, nil
}
