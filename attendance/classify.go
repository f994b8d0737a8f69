package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// MinimumShiftHours is the single late threshold: a shift shorter than this
// is late, anything at or above it is present.
const MinimumShiftHours = 6

var (
	hourNanos     = decimal.NewFromInt(int64(time.Hour))
	minimumShift  = decimal.NewFromInt(MinimumShiftHours)
	hoursDecimals = int32(2)
)

// Classify computes the status and worked hours of a completed shift.
//
// Hours are rounded to 2 decimals; the status is decided on the unrounded
// elapsed time. A check-out before the check-in (clock skew) yields
// (StatusPending, 0) rather than negative hours. Classify never returns
// StatusAbsent.
func Classify(checkIn, checkOut time.Time) (Status, decimal.Decimal) {
	if checkOut.Before(checkIn) {
		return StatusPending, decimal.Zero
	}

	elapsed := decimal.NewFromInt(int64(checkOut.Sub(checkIn))).Div(hourNanos)
	hours := elapsed.Round(hoursDecimals)

	if elapsed.GreaterThanOrEqual(minimumShift) {
		return StatusPresent, hours
	}
	return StatusLate, hours
}
