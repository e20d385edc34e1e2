package models

import (
	"fmt"
	"time"
)

type DayOfWeek int

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var dayCodes = [7]string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}

var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Code returns the three-letter day code used in slot numbers (e.g. "MON-003").
func (d DayOfWeek) Code() string {
	if d < Sunday || d > Saturday {
		return "???"
	}
	return dayCodes[d]
}

func (d DayOfWeek) String() string {
	if d < Sunday || d > Saturday {
		return fmt.Sprintf("DayOfWeek(%d)", int(d))
	}
	return dayNames[d]
}

// DayOf maps a calendar date to its weekday.
func DayOf(t time.Time) DayOfWeek {
	return DayOfWeek(t.Weekday())
}

// FormatClock renders a fractional-hour value as "HH:MM" (9.5 -> "09:30").
func FormatClock(floatTime float64) string {
	hours := int(floatTime)
	minutes := int((floatTime-float64(hours))*60 + 0.5)
	if minutes == 60 {
		hours++
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}

// AvailabilityDay is one weekday on which a doctor takes appointments.
type AvailabilityDay struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	DoctorID uint      `json:"doctor_id" gorm:"index"`
	Day      DayOfWeek `json:"day"`
}
