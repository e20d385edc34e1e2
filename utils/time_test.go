package utils

import (
	"testing"
	"time"
)

func TestDateOf(t *testing.T) {
	ts := time.Date(2025, 3, 14, 15, 9, 26, 535, time.UTC)
	got := DateOf(ts)
	want := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DateOf = %v, want %v", got, want)
	}
}

func TestRangeWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		start time.Time
	}{
		{"today", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"week", now.AddDate(0, 0, -7)},
		{"month", now.AddDate(0, -1, 0)},
		{"year", now.AddDate(-1, 0, 0)},
		{"bogus", now.AddDate(0, 0, -7)},
	}
	for _, tc := range cases {
		start, end := RangeWindow(tc.name, now)
		if !start.Equal(tc.start) {
			t.Errorf("RangeWindow(%q) start = %v, want %v", tc.name, start, tc.start)
		}
		if !end.Equal(now) {
			t.Errorf("RangeWindow(%q) end = %v, want %v", tc.name, end, now)
		}
	}
}
