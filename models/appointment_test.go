package models

import (
	"testing"
	"time"

	"gorm.io/gorm"
)

func bookedAppointment(t *testing.T, db *gorm.DB, doctor *Doctor, patient *Patient, date time.Time) (*Appointment, *Slot) {
	t.Helper()
	var slot Slot
	if err := db.Where("doctor_id = ? AND status = ?", doctor.ID, SlotAvailable).
		Order("start_time").First(&slot).Error; err != nil {
		t.Fatalf("no open slot: %v", err)
	}
	appointment := &Appointment{
		PatientID:       patient.ID,
		DoctorID:        doctor.ID,
		SlotID:          slot.ID,
		AppointmentDate: date,
	}
	if err := db.Create(appointment).Error; err != nil {
		t.Fatalf("failed to create appointment: %v", err)
	}
	if err := appointment.Confirm(db); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	return appointment, &slot
}

func TestConfirmBooksSlotAndDefaultsFee(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, Monday)
	if err := doctor.RegenerateSlots(db); err != nil {
		t.Fatalf("RegenerateSlots failed: %v", err)
	}
	patient := createTestPatient(t, db)

	appointment, slot := bookedAppointment(t, db, doctor, patient, nextWeekday(time.Monday))

	if appointment.State != StateConfirmed {
		t.Errorf("state = %s, want %s", appointment.State, StateConfirmed)
	}
	if appointment.ConsultingFee != doctor.ConsultationFee {
		t.Errorf("fee = %v, want %v", appointment.ConsultingFee, doctor.ConsultationFee)
	}

	var reloaded Slot
	db.First(&reloaded, slot.ID)
	if reloaded.Status != SlotBooked {
		t.Errorf("slot status = %s, want %s", reloaded.Status, SlotBooked)
	}
	if appointment.Reference == "" {
		t.Error("expected a generated reference")
	}
}

func TestConfirmFailsOnTakenSlot(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, Monday)
	if err := doctor.RegenerateSlots(db); err != nil {
		t.Fatalf("RegenerateSlots failed: %v", err)
	}
	patient := createTestPatient(t, db)
	date := nextWeekday(time.Monday)

	first, slot := bookedAppointment(t, db, doctor, patient, date)

	second := &Appointment{
		PatientID:       patient.ID,
		DoctorID:        doctor.ID,
		SlotID:          slot.ID,
		AppointmentDate: date,
	}
	if err := db.Create(second).Error; err != nil {
		t.Fatalf("failed to create appointment: %v", err)
	}
	if err := second.Confirm(db); err == nil {
		t.Fatal("expected Confirm to fail on a booked slot")
	}

	// The loser stays in draft and the winner is untouched. Each lookup
	// uses its own destination, a reused one would pin the old primary key.
	var loser Appointment
	db.First(&loser, second.ID)
	if loser.State != StateDraft {
		t.Errorf("losing appointment state = %s, want %s", loser.State, StateDraft)
	}
	var winner Appointment
	db.First(&winner, first.ID)
	if winner.State != StateConfirmed {
		t.Errorf("winning appointment state = %s, want %s", winner.State, StateConfirmed)
	}
}

func TestCancelFreesSlotAndRejectsCompleted(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, Monday)
	if err := doctor.RegenerateSlots(db); err != nil {
		t.Fatalf("RegenerateSlots failed: %v", err)
	}
	patient := createTestPatient(t, db)

	appointment, slot := bookedAppointment(t, db, doctor, patient, nextWeekday(time.Monday))

	if err := appointment.Cancel(db, "patient request"); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if appointment.CancellationReason != "patient request" {
		t.Errorf("reason = %q", appointment.CancellationReason)
	}

	var freed Slot
	db.First(&freed, slot.ID)
	if freed.Status != SlotAvailable {
		t.Errorf("slot status = %s, want %s after cancel", freed.Status, SlotAvailable)
	}

	// A completed appointment refuses cancellation
	done, _ := bookedAppointment(t, db, doctor, patient, nextWeekday(time.Monday))
	if err := done.CheckIn(db); err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}
	if err := done.StartConsultation(db); err != nil {
		t.Fatalf("StartConsultation failed: %v", err)
	}
	if err := done.Complete(db); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if err := done.Cancel(db, "too late"); err == nil {
		t.Fatal("expected Cancel to fail on a completed appointment")
	}
}

func TestLifecycleGuards(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, Monday)
	if err := doctor.RegenerateSlots(db); err != nil {
		t.Fatalf("RegenerateSlots failed: %v", err)
	}
	patient := createTestPatient(t, db)

	appointment, _ := bookedAppointment(t, db, doctor, patient, nextWeekday(time.Monday))

	// Consultation cannot start before check-in
	if err := appointment.StartConsultation(db); err == nil {
		t.Fatal("expected StartConsultation to fail before check-in")
	}
	if err := appointment.CheckIn(db); err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}
	if appointment.CheckedInTime == nil {
		t.Error("expected check-in timestamp")
	}
	// A checked-in patient cannot be checked in again
	if err := appointment.CheckIn(db); err == nil {
		t.Fatal("expected second CheckIn to fail")
	}
	if err := appointment.StartConsultation(db); err != nil {
		t.Fatalf("StartConsultation failed: %v", err)
	}
	if err := appointment.Complete(db); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if appointment.ConsultationEndTime == nil {
		t.Error("expected consultation end timestamp")
	}
}

func TestCompleteCreatesFollowUp(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday)
	if err := doctor.RegenerateSlots(db); err != nil {
		t.Fatalf("RegenerateSlots failed: %v", err)
	}
	patient := createTestPatient(t, db)

	appointment, _ := bookedAppointment(t, db, doctor, patient, nextWeekday(time.Monday))
	appointment.NextVisitDays = 7
	appointment.Symptom = "persistent cough"
	if err := db.Save(appointment).Error; err != nil {
		t.Fatalf("failed to save appointment: %v", err)
	}

	if err := appointment.CheckIn(db); err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}
	if err := appointment.StartConsultation(db); err != nil {
		t.Fatalf("StartConsultation failed: %v", err)
	}
	if err := appointment.Complete(db); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	var followUp Appointment
	if err := db.Where("original_appointment_id = ?", appointment.ID).
		First(&followUp).Error; err != nil {
		t.Fatalf("expected a follow-up appointment: %v", err)
	}
	if followUp.State != StateConfirmed {
		t.Errorf("follow-up state = %s, want %s", followUp.State, StateConfirmed)
	}
	want := appointment.AppointmentDate.AddDate(0, 0, 7)
	if !followUp.AppointmentDate.Equal(want) {
		t.Errorf("follow-up date = %v, want %v", followUp.AppointmentDate, want)
	}

	// The symptom history landed on the patient record
	var reloaded Patient
	db.First(&reloaded, patient.ID)
	if reloaded.Symptom == "" {
		t.Error("expected patient symptom history to be refreshed")
	}
}

func TestCompleteSkipsFollowUpOnLeave(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday)
	if err := doctor.RegenerateSlots(db); err != nil {
		t.Fatalf("RegenerateSlots failed: %v", err)
	}
	patient := createTestPatient(t, db)

	appointment, _ := bookedAppointment(t, db, doctor, patient, nextWeekday(time.Monday))
	appointment.NextVisitDays = 7
	if err := db.Save(appointment).Error; err != nil {
		t.Fatalf("failed to save appointment: %v", err)
	}

	nextDate := appointment.NextVisitDate()
	leave := &Holiday{
		DoctorID: doctor.ID,
		FromDate: nextDate,
		ToDate:   nextDate,
		State:    HolidayApproved,
	}
	if err := db.Create(leave).Error; err != nil {
		t.Fatalf("failed to create leave: %v", err)
	}

	if err := appointment.CheckIn(db); err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}
	if err := appointment.StartConsultation(db); err != nil {
		t.Fatalf("StartConsultation failed: %v", err)
	}
	// Completion succeeds even though no follow-up can be booked
	if err := appointment.Complete(db); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	var count int64
	db.Model(&Appointment{}).Where("original_appointment_id = ?", appointment.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected no follow-up while the doctor is on leave, found %d", count)
	}
}

func TestReschedule(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, Monday, Tuesday)
	if err := doctor.RegenerateSlots(db); err != nil {
		t.Fatalf("RegenerateSlots failed: %v", err)
	}
	patient := createTestPatient(t, db)

	appointment, oldSlot := bookedAppointment(t, db, doctor, patient, nextWeekday(time.Monday))

	var newSlot Slot
	if err := db.Where("doctor_id = ? AND day = ? AND status = ?",
		doctor.ID, Tuesday, SlotAvailable).First(&newSlot).Error; err != nil {
		t.Fatalf("no open Tuesday slot: %v", err)
	}
	newDate := nextWeekday(time.Tuesday)

	replacement, err := appointment.Reschedule(db, newDate, newSlot.ID, "patient asked")
	if err != nil {
		t.Fatalf("Reschedule failed: %v", err)
	}

	if appointment.State != StateRescheduled {
		t.Errorf("original state = %s, want %s", appointment.State, StateRescheduled)
	}
	if appointment.RescheduledToID == nil || *appointment.RescheduledToID != replacement.ID {
		t.Error("original not linked to replacement")
	}
	if replacement.OriginalAppointmentID == nil || *replacement.OriginalAppointmentID != appointment.ID {
		t.Error("replacement not linked to original")
	}
	if replacement.State != StateConfirmed {
		t.Errorf("replacement state = %s, want %s", replacement.State, StateConfirmed)
	}

	var freed Slot
	db.First(&freed, oldSlot.ID)
	if freed.Status != SlotAvailable {
		t.Errorf("old slot status = %s, want %s", freed.Status, SlotAvailable)
	}
	var taken Slot
	db.First(&taken, newSlot.ID)
	if taken.Status != SlotBooked {
		t.Errorf("new slot status = %s, want %s", taken.Status, SlotBooked)
	}

	// Wrong weekday is rejected
	other, _ := bookedAppointment(t, db, doctor, patient, nextWeekday(time.Monday))
	var mondaySlot Slot
	if err := db.Where("doctor_id = ? AND day = ? AND status = ?",
		doctor.ID, Monday, SlotAvailable).First(&mondaySlot).Error; err != nil {
		t.Fatalf("no open Monday slot: %v", err)
	}
	if _, err := other.Reschedule(db, nextWeekday(time.Tuesday), mondaySlot.ID, ""); err == nil {
		t.Fatal("expected Reschedule to reject a slot on the wrong weekday")
	}
}
