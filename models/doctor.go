package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Doctor struct {
	gorm.Model
	Name            string    `json:"name" gorm:"index;not null"`
	Qualification   string    `json:"qualification"`
	LicenseNo       string    `json:"license_no" gorm:"uniqueIndex"`
	Mobile          string    `json:"mobile"`
	Email           string    `json:"email"`
	Gender          string    `json:"gender"`
	Bio             string    `json:"bio"`
	ExperienceYears int       `json:"experience_years"`
	ConsultationFee float64   `json:"consultation_fee"`
	Active          bool      `json:"active" gorm:"default:true"`
	UserID          *uint     `json:"user_id"`
	Specializations []Service `json:"specializations,omitempty" gorm:"many2many:doctor_specializations;"`

	// Availability configuration. Changing any of these invalidates the
	// open slot inventory, see RegenerateSlots.
	AvailableDays      []AvailabilityDay `json:"available_days,omitempty" gorm:"foreignKey:DoctorID"`
	WorkingStartTime   float64           `json:"working_start_time"`
	WorkingEndTime     float64           `json:"working_end_time"`
	SlotDuration       int               `json:"slot_duration" gorm:"default:30"` // minutes
	MaxPatientsPerSlot int               `json:"max_patients_per_slot" gorm:"default:1"`

	Slots        []Slot        `json:"slots,omitempty" gorm:"foreignKey:DoctorID"`
	Appointments []Appointment `json:"appointments,omitempty" gorm:"foreignKey:DoctorID"`
	Holidays     []Holiday     `json:"holidays,omitempty" gorm:"foreignKey:DoctorID"`
}

func (d *Doctor) BeforeSave(tx *gorm.DB) error {
	if d.WorkingEndTime <= d.WorkingStartTime {
		return fmt.Errorf("working end time must be greater than working start time")
	}
	if d.MaxPatientsPerSlot <= 0 {
		return fmt.Errorf("max patients per slot must be greater than 0")
	}
	if d.SlotDuration <= 0 {
		return fmt.Errorf("slot duration must be greater than 0")
	}
	return nil
}

// SameAvailableDays reports whether the given days cover exactly the
// doctor's current weekday set. AvailableDays must be loaded.
func (d *Doctor) SameAvailableDays(days []AvailabilityDay) bool {
	if len(days) != len(d.AvailableDays) {
		return false
	}
	have := make(map[DayOfWeek]bool, len(d.AvailableDays))
	for _, ad := range d.AvailableDays {
		have[ad.Day] = true
	}
	for _, ad := range days {
		if !have[ad.Day] {
			return false
		}
	}
	return true
}

// WorksOn reports whether the doctor takes appointments on the given weekday.
// AvailableDays must be loaded.
func (d *Doctor) WorksOn(day DayOfWeek) bool {
	for _, ad := range d.AvailableDays {
		if ad.Day == day {
			return true
		}
	}
	return false
}

// RegenerateSlots rebuilds the doctor's open slot inventory from the current
// availability configuration. Only slots still in "available" status are
// deleted; booked, blocked, cancelled and expired slots are kept so history
// and existing bookings survive schedule edits.
func (d *Doctor) RegenerateSlots(tx *gorm.DB) error {
	// Open slots are removed for real, not soft deleted. Slot numbers are
	// unique per doctor and a soft-deleted row would keep its number taken.
	if err := tx.Unscoped().Where("doctor_id = ? AND status = ?", d.ID, SlotAvailable).
		Delete(&Slot{}).Error; err != nil {
		return fmt.Errorf("failed to clear open slots: %w", err)
	}

	var kept []Slot
	if err := tx.Where("doctor_id = ?", d.ID).Find(&kept).Error; err != nil {
		return fmt.Errorf("failed to load kept slots: %w", err)
	}
	taken := make(map[string]bool, len(kept))
	for i := range kept {
		taken[kept[i].SlotNumber] = true
	}

	var days []AvailabilityDay
	if err := tx.Where("doctor_id = ?", d.ID).Find(&days).Error; err != nil {
		return fmt.Errorf("failed to load available days: %w", err)
	}

	// Bucket boundaries are computed from the start each time rather than
	// accumulated, so they tile the working interval without float drift.
	step := float64(d.SlotDuration) / 60.0
	count := int((d.WorkingEndTime-d.WorkingStartTime)*60.0/float64(d.SlotDuration) + 1e-9)
	for _, day := range days {
		number := 0
		for i := 0; i < count; i++ {
			// Booked and blocked slots survive regeneration and hold on
			// to their numbers, so new slots skip past those.
			number++
			for taken[fmt.Sprintf("%s-%03d", day.Day.Code(), number)] {
				number++
			}
			slot := Slot{
				DoctorID:    d.ID,
				Day:         day.Day,
				StartTime:   d.WorkingStartTime + float64(i)*step,
				EndTime:     d.WorkingStartTime + float64(i+1)*step,
				Duration:    float64(d.SlotDuration),
				MaxPatients: d.MaxPatientsPerSlot,
				SlotNumber:  fmt.Sprintf("%s-%03d", day.Day.Code(), number),
				Status:      SlotAvailable,
			}
			if err := tx.Create(&slot).Error; err != nil {
				return fmt.Errorf("failed to create slot %s: %w", slot.SlotNumber, err)
			}
		}
	}
	return nil
}

// OnApprovedLeave reports whether the doctor has an approved leave covering
// the given date.
func (d *Doctor) OnApprovedLeave(tx *gorm.DB, date time.Time) (bool, error) {
	var count int64
	err := tx.Model(&Holiday{}).
		Where("doctor_id = ? AND state = ? AND from_date <= ? AND to_date >= ?",
			d.ID, HolidayApproved, date, date).
		Count(&count).Error
	return count > 0, err
}
