package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type HolidayState string

const (
	HolidayDraft     HolidayState = "draft"
	HolidayApproved  HolidayState = "approved"
	HolidayCancelled HolidayState = "cancelled"
)

const leaveCancellationReason = "Doctor unavailable due to leave"

// Holiday is a doctor leave interval. Approving it suppresses the doctor's
// open slots and cancels pending appointments in the window.
type Holiday struct {
	gorm.Model
	DoctorID  uint         `json:"doctor_id" gorm:"index;not null"`
	Doctor    Doctor       `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	LeaveType string       `json:"leave_type" gorm:"default:full_day"`
	FromDate  time.Time    `json:"from_date" gorm:"not null"`
	ToDate    time.Time    `json:"to_date" gorm:"not null"`
	Reason    string       `json:"reason"`
	State     HolidayState `json:"state" gorm:"default:draft;index"`
}

func (h *Holiday) BeforeSave(tx *gorm.DB) error {
	if h.ToDate.Before(h.FromDate) {
		return fmt.Errorf("end date cannot be before start date")
	}
	return nil
}

// Approve marks the leave approved, blocks the doctor's available slots on
// every weekday covered by the interval and cancels draft/confirmed
// appointments dated inside it.
func (h *Holiday) Approve(tx *gorm.DB) error {
	if err := tx.Model(h).Update("state", HolidayApproved).Error; err != nil {
		return err
	}
	h.State = HolidayApproved

	for date := h.FromDate; !date.After(h.ToDate); date = date.AddDate(0, 0, 1) {
		day := DayOf(date)
		if err := tx.Model(&Slot{}).
			Where("doctor_id = ? AND day = ? AND status = ?", h.DoctorID, day, SlotAvailable).
			Update("status", SlotBlocked).Error; err != nil {
			return err
		}
		if err := tx.Model(&Appointment{}).
			Where("doctor_id = ? AND appointment_date = ? AND state IN ?",
				h.DoctorID, date, []AppointmentState{StateDraft, StateConfirmed}).
			Updates(map[string]interface{}{
				"state":               StateCancelled,
				"cancellation_reason": leaveCancellationReason,
			}).Error; err != nil {
			return err
		}
	}
	return nil
}

// CancelLeave reverses an approval: blocked slots of the covered weekdays go
// back to available. Appointments cancelled by the approval stay cancelled.
func (h *Holiday) CancelLeave(tx *gorm.DB) error {
	if err := tx.Model(h).Update("state", HolidayCancelled).Error; err != nil {
		return err
	}
	h.State = HolidayCancelled

	for date := h.FromDate; !date.After(h.ToDate); date = date.AddDate(0, 0, 1) {
		day := DayOf(date)
		if err := tx.Model(&Slot{}).
			Where("doctor_id = ? AND day = ? AND status = ?", h.DoctorID, day, SlotBlocked).
			Update("status", SlotAvailable).Error; err != nil {
			return err
		}
	}
	return nil
}

// UnblockExpiredLeaves reopens blocked slots of doctors whose approved leave
// has ended without being cancelled. Compensating sweep, safe to re-run.
func UnblockExpiredLeaves(tx *gorm.DB, today time.Time) error {
	var leaves []Holiday
	if err := tx.Where("to_date < ? AND state = ?", today, HolidayApproved).
		Find(&leaves).Error; err != nil {
		return err
	}
	for i := range leaves {
		if err := tx.Model(&Slot{}).
			Where("doctor_id = ? AND status = ?", leaves[i].DoctorID, SlotBlocked).
			Update("status", SlotAvailable).Error; err != nil {
			return err
		}
	}
	return nil
}
