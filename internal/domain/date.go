package domain

import "time"

// Day truncates t to midnight UTC on the calendar date t carries in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
