/*
errors.go - Error types for the attendance engine

ERROR CATEGORIES:
  1. Sequencing (duplicate clock-in, clock-out without clock-in): NOT errors.
     ClockIn/ClockOut absorb them and report Applied=false.
  2. Store conflicts: ErrDuplicateRecord / ErrRecordClosed are returned by
     Store implementations and turned into no-ops by the recorder.
  3. Validation: ValidationError, raised at the input boundary only.
  4. Lookup: ErrEmployeeNotFound, ErrRecordNotFound.

USAGE:
  if attendance.IsNotFound(err) {
      // 404
  }
*/
package attendance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrRecordNotFound is returned when a referenced attendance record doesn't exist.
	ErrRecordNotFound = errors.New("attendance record not found")

	// ErrDuplicateRecord is returned by a Store when a record for the same
	// (employee, date) already exists.
	ErrDuplicateRecord = errors.New("attendance record already exists for employee and date")

	// ErrRecordClosed is returned by a Store when closing a record that is
	// no longer open (already checked out by a concurrent caller).
	ErrRecordClosed = errors.New("attendance record already closed")

	// ErrSettingsNotFound is returned by a Store that has never saved settings.
	ErrSettingsNotFound = errors.New("settings not found")

	// ErrInvalidPasscode is returned when the owner passcode does not match.
	ErrInvalidPasscode = errors.New("invalid passcode")

	// ErrInvalidInput is the parent of every ValidationError.
	ErrInvalidInput = errors.New("invalid input")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) || errors.Is(err, ErrRecordNotFound)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConflict returns true for store-level uniqueness or CAS conflicts.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateRecord) || errors.Is(err, ErrRecordClosed)
}
