package utils

import "time"

// DateOnly strips the time component, keeping the calendar date in UTC.
// Trade dates are keyed on the day only, so everything that touches the
// (instrument, trade_date) unique index goes through this first.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
