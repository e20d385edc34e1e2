package models

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

type AppointmentState string

const (
	StateDraft          AppointmentState = "draft"
	StateConfirmed      AppointmentState = "confirmed"
	StateCheckedIn      AppointmentState = "checked_in"
	StateInConsultation AppointmentState = "in_consultation"
	StateCompleted      AppointmentState = "completed"
	StateNoShow         AppointmentState = "no_show"
	StateCancelled      AppointmentState = "cancelled"
	StateRescheduled    AppointmentState = "rescheduled"
)

type Appointment struct {
	gorm.Model
	Reference string `json:"reference" gorm:"uniqueIndex"`

	PatientID uint    `json:"patient_id" gorm:"index;not null"`
	Patient   Patient `json:"patient,omitempty" gorm:"foreignKey:PatientID"`
	DoctorID  uint    `json:"doctor_id" gorm:"index;not null"`
	Doctor    Doctor  `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	SlotID    uint    `json:"slot_id" gorm:"index"`
	Slot      Slot    `json:"slot,omitempty" gorm:"foreignKey:SlotID"`
	ServiceID *uint   `json:"service_id"`
	Service   Service `json:"service,omitempty" gorm:"foreignKey:ServiceID"`

	AppointmentDate   time.Time        `json:"appointment_date" gorm:"index;not null"`
	ConsultingFee     float64          `json:"consulting_fee"`
	Symptom           string           `json:"symptom"`
	NextVisitDays     int              `json:"next_visit_days"`
	IsLabTestRequired bool             `json:"is_lab_test_required"`
	State             AppointmentState `json:"state" gorm:"default:draft;index"`

	CancellationReason    string     `json:"cancellation_reason"`
	CheckedInTime         *time.Time `json:"checked_in_time"`
	ConsultationStartTime *time.Time `json:"consultation_start_time"`
	ConsultationEndTime   *time.Time `json:"consultation_end_time"`

	OriginalAppointmentID *uint `json:"original_appointment_id"`
	RescheduledToID       *uint `json:"rescheduled_to_id"`
	InvoiceID             *uint `json:"invoice_id"`

	Prescriptions []Prescription `json:"prescriptions,omitempty" gorm:"foreignKey:AppointmentID"`
	LabTests      []LabTest      `json:"lab_tests,omitempty" gorm:"foreignKey:AppointmentID"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.State == "" {
		a.State = StateDraft
	}
	if a.Reference == "" {
		a.Reference = NewReference("APT")
	}
	return nil
}

// NextVisitDate is the computed follow-up date, zero when no next visit is
// requested.
func (a *Appointment) NextVisitDate() time.Time {
	if a.NextVisitDays <= 0 || a.AppointmentDate.IsZero() {
		return time.Time{}
	}
	return a.AppointmentDate.AddDate(0, 0, a.NextVisitDays)
}

// Confirm books the slot and moves the appointment to confirmed. A draft
// appointment whose slot is no longer available fails without side effects.
func (a *Appointment) Confirm(tx *gorm.DB) error {
	var slot Slot
	if err := tx.First(&slot, a.SlotID).Error; err != nil {
		return fmt.Errorf("slot not found: %w", err)
	}
	if slot.Status != SlotAvailable && a.State == StateDraft {
		return fmt.Errorf("the selected slot is no longer available")
	}

	// The slot flips to booked once its capacity is filled. The count
	// includes this appointment, which was created before confirmation.
	// With the default MaxPatients of 1 that is immediately.
	occupied, err := slot.CurrentPatients(tx)
	if err != nil {
		return err
	}
	if occupied >= int64(slot.MaxPatients) {
		if err := tx.Model(&slot).Update("status", SlotBooked).Error; err != nil {
			return err
		}
	}

	if a.ConsultingFee == 0 {
		var doctor Doctor
		if err := tx.First(&doctor, a.DoctorID).Error; err == nil {
			a.ConsultingFee = doctor.ConsultationFee
		}
	}
	a.State = StateConfirmed
	return tx.Save(a).Error
}

// CheckIn marks the patient as arrived.
func (a *Appointment) CheckIn(tx *gorm.DB) error {
	if a.State != StateConfirmed {
		return fmt.Errorf("only confirmed appointments can be checked in, current state is %s", a.State)
	}
	now := time.Now()
	a.State = StateCheckedIn
	a.CheckedInTime = &now
	return tx.Save(a).Error
}

// StartConsultation moves a checked-in appointment into consultation.
func (a *Appointment) StartConsultation(tx *gorm.DB) error {
	if a.State != StateCheckedIn {
		return fmt.Errorf("patient must be checked in before consultation, current state is %s", a.State)
	}
	now := time.Now()
	a.State = StateInConsultation
	a.ConsultationStartTime = &now
	return tx.Save(a).Error
}

// Complete finishes the consultation, refreshes the patient's symptom
// history and, when a next visit is requested, tries to create a follow-up
// appointment. Follow-up creation is best effort: the completion itself never
// fails because no follow-up slot could be found.
func (a *Appointment) Complete(tx *gorm.DB) error {
	if a.State != StateInConsultation && a.State != StateCheckedIn {
		return fmt.Errorf("appointment cannot be completed from state %s", a.State)
	}
	now := time.Now()
	a.State = StateCompleted
	a.ConsultationEndTime = &now
	if err := tx.Save(a).Error; err != nil {
		return err
	}

	if a.Symptom != "" {
		var patient Patient
		if err := tx.First(&patient, a.PatientID).Error; err == nil {
			if err := patient.RefreshSymptomHistory(tx); err != nil {
				log.Printf("failed to refresh symptom history for patient %d: %v", patient.ID, err)
			}
		}
	}

	if a.NextVisitDays > 0 {
		if _, err := a.createFollowUp(tx); err != nil {
			log.Printf("skipping follow-up for appointment %s: %v", a.Reference, err)
		}
	}
	return nil
}

// Cancel cancels the appointment and frees its slot. Completed appointments
// cannot be cancelled.
func (a *Appointment) Cancel(tx *gorm.DB, reason string) error {
	if a.State == StateCompleted {
		return fmt.Errorf("cannot cancel a completed appointment")
	}
	a.State = StateCancelled
	a.CancellationReason = reason
	if err := tx.Save(a).Error; err != nil {
		return err
	}
	return a.freeSlot(tx)
}

// MarkNoShow flags the patient as a no-show and frees the slot.
func (a *Appointment) MarkNoShow(tx *gorm.DB) error {
	a.State = StateNoShow
	if err := tx.Save(a).Error; err != nil {
		return err
	}
	return a.freeSlot(tx)
}

// Reschedule creates a replacement appointment on the new date and slot,
// frees the old slot and links both records. The replacement is confirmed
// immediately.
func (a *Appointment) Reschedule(tx *gorm.DB, newDate time.Time, newSlotID uint, reason string) (*Appointment, error) {
	if a.State == StateCompleted || a.State == StateCancelled {
		return nil, fmt.Errorf("cannot reschedule an appointment in state %s", a.State)
	}

	var newSlot Slot
	if err := tx.First(&newSlot, newSlotID).Error; err != nil {
		return nil, fmt.Errorf("slot not found: %w", err)
	}
	if newSlot.DoctorID != a.DoctorID {
		return nil, fmt.Errorf("slot belongs to a different doctor")
	}
	if newSlot.Status != SlotAvailable {
		return nil, fmt.Errorf("the selected slot is no longer available")
	}
	if newSlot.Day != DayOf(newDate) {
		return nil, fmt.Errorf("slot %s does not fall on %s", newSlot.SlotNumber, DayOf(newDate))
	}

	replacement := Appointment{
		PatientID:             a.PatientID,
		DoctorID:              a.DoctorID,
		SlotID:                newSlot.ID,
		ServiceID:             a.ServiceID,
		AppointmentDate:       newDate,
		ConsultingFee:         a.ConsultingFee,
		Symptom:               a.Symptom,
		State:                 StateDraft,
		OriginalAppointmentID: &a.ID,
	}
	if err := tx.Create(&replacement).Error; err != nil {
		return nil, err
	}
	if err := replacement.Confirm(tx); err != nil {
		return nil, err
	}

	a.State = StateRescheduled
	a.CancellationReason = reason
	a.RescheduledToID = &replacement.ID
	if err := tx.Save(a).Error; err != nil {
		return nil, err
	}
	return &replacement, a.freeSlot(tx)
}

func (a *Appointment) freeSlot(tx *gorm.DB) error {
	if a.SlotID == 0 {
		return nil
	}
	var slot Slot
	if err := tx.First(&slot, a.SlotID).Error; err != nil {
		return nil
	}
	if slot.Status == SlotBooked {
		return tx.Model(&slot).Update("status", SlotAvailable).Error
	}
	return nil
}

// createFollowUp books the next visit with the same doctor. It errors (and
// the caller logs and moves on) when the doctor does not work that weekday,
// is on approved leave, or has no open slot.
func (a *Appointment) createFollowUp(tx *gorm.DB) (*Appointment, error) {
	nextDate := a.NextVisitDate()
	if nextDate.IsZero() {
		return nil, fmt.Errorf("no next visit date")
	}

	var doctor Doctor
	if err := tx.Preload("AvailableDays").First(&doctor, a.DoctorID).Error; err != nil {
		return nil, err
	}

	day := DayOf(nextDate)
	if !doctor.WorksOn(day) {
		return nil, fmt.Errorf("doctor %s does not work on %s", doctor.Name, day)
	}

	onLeave, err := doctor.OnApprovedLeave(tx, nextDate)
	if err != nil {
		return nil, err
	}
	if onLeave {
		return nil, fmt.Errorf("doctor %s is on leave on %s", doctor.Name, nextDate.Format("2006-01-02"))
	}

	var slot Slot
	if err := tx.Where("doctor_id = ? AND day = ? AND status = ?",
		doctor.ID, day, SlotAvailable).
		Order("start_time").First(&slot).Error; err != nil {
		return nil, fmt.Errorf("no open slot on %s", day)
	}

	followUp := Appointment{
		PatientID:             a.PatientID,
		DoctorID:              a.DoctorID,
		SlotID:                slot.ID,
		ServiceID:             a.ServiceID,
		AppointmentDate:       nextDate,
		ConsultingFee:         doctor.ConsultationFee,
		Symptom:               a.Symptom,
		State:                 StateDraft,
		OriginalAppointmentID: &a.ID,
	}
	if err := tx.Create(&followUp).Error; err != nil {
		return nil, err
	}
	if err := followUp.Confirm(tx); err != nil {
		return nil, err
	}

	a.RescheduledToID = &followUp.ID
	if err := tx.Save(a).Error; err != nil {
		return nil, err
	}
	return &followUp, nil
}
