package utils

import "time"

// DateOf truncates a timestamp to midnight in its own location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// RangeWindow resolves a coarse dashboard range ("today", "week", "month",
// "year") into a [start, end] window anchored at now. Unknown ranges fall
// back to the last week.
func RangeWindow(rangeName string, now time.Time) (time.Time, time.Time) {
	switch rangeName {
	case "today":
		return DateOf(now), now
	case "week":
		return now.AddDate(0, 0, -7), now
	case "month":
		return now.AddDate(0, -1, 0), now
	case "year":
		return now.AddDate(-1, 0, 0), now
	default:
		return now.AddDate(0, 0, -7), now
	}
}
