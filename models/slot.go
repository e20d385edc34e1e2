package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
	SlotBlocked   SlotStatus = "blocked"
	SlotCancelled SlotStatus = "cancelled"
	SlotExpired   SlotStatus = "expired"
)

// Slot is a fixed time bucket of one doctor on one weekday, bookable by at
// most MaxPatients appointments.
type Slot struct {
	gorm.Model
	DoctorID    uint       `json:"doctor_id" gorm:"uniqueIndex:idx_slot_number_doctor;not null"`
	Doctor      Doctor     `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	Day         DayOfWeek  `json:"day" gorm:"index"`
	StartTime   float64    `json:"start_time"` // fractional hours, 9.5 = 09:30
	EndTime     float64    `json:"end_time"`
	Duration    float64    `json:"duration"` // minutes
	SlotNumber  string     `json:"slot_number" gorm:"uniqueIndex:idx_slot_number_doctor"`
	MaxPatients int        `json:"max_patients" gorm:"default:1"`
	Status      SlotStatus `json:"status" gorm:"default:available;index"`

	Appointments []Appointment `json:"appointments,omitempty" gorm:"foreignKey:SlotID"`
}

func (s *Slot) BeforeCreate(tx *gorm.DB) error {
	if s.EndTime <= s.StartTime {
		return fmt.Errorf("slot end time must be greater than start time")
	}
	return nil
}

// Label renders the slot as "09:00 - 09:30 (Monday)".
func (s *Slot) Label() string {
	return fmt.Sprintf("%s - %s (%s)", FormatClock(s.StartTime), FormatClock(s.EndTime), s.Day)
}

// CurrentPatients counts appointments occupying the slot. Cancelled and
// no-show appointments do not hold capacity.
func (s *Slot) CurrentPatients(tx *gorm.DB) (int64, error) {
	var count int64
	err := tx.Model(&Appointment{}).
		Where("slot_id = ? AND state NOT IN ?", s.ID,
			[]AppointmentState{StateCancelled, StateNoShow}).
		Count(&count).Error
	return count, err
}

// Cancel marks the slot cancelled and cancels every appointment in it that
// has not already reached a final state.
func (s *Slot) Cancel(tx *gorm.DB) error {
	err := tx.Model(&Appointment{}).
		Where("slot_id = ? AND state NOT IN ?", s.ID,
			[]AppointmentState{StateCompleted, StateCancelled}).
		Updates(map[string]interface{}{
			"state":               StateCancelled,
			"cancellation_reason": "Slot cancelled by clinic",
		}).Error
	if err != nil {
		return err
	}
	return tx.Model(s).Update("status", SlotCancelled).Error
}

// ExpirePastSlots marks today's slots whose end time has passed as expired
// and flips confirmed appointments in them to no-show. Idempotent, runs from
// the cron sweep.
func ExpirePastSlots(tx *gorm.DB, now time.Time) error {
	day := DayOf(now)
	clock := float64(now.Hour()) + float64(now.Minute())/60.0

	var slots []Slot
	if err := tx.Where("day = ? AND end_time < ? AND status IN ?",
		day, clock, []SlotStatus{SlotAvailable, SlotBooked}).
		Find(&slots).Error; err != nil {
		return err
	}

	for i := range slots {
		slot := &slots[i]
		if err := tx.Model(slot).Update("status", SlotExpired).Error; err != nil {
			return err
		}
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if err := tx.Model(&Appointment{}).
			Where("slot_id = ? AND state = ? AND appointment_date <= ?",
				slot.ID, StateConfirmed, today).
			Update("state", StateNoShow).Error; err != nil {
			return err
		}
	}
	return nil
}
