package models

import (
	"math"
	"testing"
	"time"
)

func TestRegenerateSlotsCountAndTiling(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, Monday, Wednesday)

	if err := doctor.RegenerateSlots(db); err != nil {
		t.Fatalf("RegenerateSlots failed: %v", err)
	}

	// 09:00 to 11:00 at 30 minutes is 4 buckets per day
	var slots []Slot
	if err := db.Where("doctor_id = ? AND day = ?", doctor.ID, Monday).
		Order("start_time").Find(&slots).Error; err != nil {
		t.Fatalf("failed to load slots: %v", err)
	}
	if len(slots) != 4 {
		t.Fatalf("expected 4 slots on Monday, got %d", len(slots))
	}

	var total int64
	db.Model(&Slot{}).Where("doctor_id = ?", doctor.ID).Count(&total)
	if total != 8 {
		t.Fatalf("expected 8 slots across both days, got %d", total)
	}

	// Buckets tile the working window without gaps
	for i, slot := range slots {
		wantStart := 9.0 + float64(i)*0.5
		if math.Abs(slot.StartTime-wantStart) > 1e-9 {
			t.Errorf("slot %d start = %v, want %v", i, slot.StartTime, wantStart)
		}
		if math.Abs(slot.EndTime-slot.StartTime-0.5) > 1e-9 {
			t.Errorf("slot %d does not span 30 minutes: %v - %v", i, slot.StartTime, slot.EndTime)
		}
	}
	if slots[0].SlotNumber != "MON-001" || slots[3].SlotNumber != "MON-004" {
		t.Errorf("unexpected slot numbers %q and %q", slots[0].SlotNumber, slots[3].SlotNumber)
	}
}

func TestRegenerateSlotsKeepsBookedSlots(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, Monday)
	if err := doctor.RegenerateSlots(db); err != nil {
		t.Fatalf("RegenerateSlots failed: %v", err)
	}

	var booked Slot
	if err := db.Where("doctor_id = ?", doctor.ID).First(&booked).Error; err != nil {
		t.Fatalf("failed to load slot: %v", err)
	}
	if err := db.Model(&booked).Update("status", SlotBooked).Error; err != nil {
		t.Fatalf("failed to book slot: %v", err)
	}

	// Shrink the working window and rebuild
	doctor.WorkingEndTime = 10
	if err := db.Save(doctor).Error; err != nil {
		t.Fatalf("failed to save doctor: %v", err)
	}
	if err := doctor.RegenerateSlots(db); err != nil {
		t.Fatalf("RegenerateSlots failed: %v", err)
	}

	var kept Slot
	if err := db.First(&kept, booked.ID).Error; err != nil {
		t.Fatalf("booked slot was deleted by regeneration: %v", err)
	}
	if kept.Status != SlotBooked {
		t.Errorf("booked slot status = %s, want %s", kept.Status, SlotBooked)
	}

	var open int64
	db.Model(&Slot{}).Where("doctor_id = ? AND status = ?", doctor.ID, SlotAvailable).Count(&open)
	if open != 2 {
		t.Errorf("expected 2 open slots after shrinking to one hour, got %d", open)
	}

	// The kept slot holds on to its number, new slots are numbered around it
	var dup int64
	db.Model(&Slot{}).
		Where("doctor_id = ? AND slot_number = ?", doctor.ID, kept.SlotNumber).
		Count(&dup)
	if dup != 1 {
		t.Errorf("slot number %s held by %d slots, want 1", kept.SlotNumber, dup)
	}
}

func TestRegenerateSlotsTwoDoctorsShareNumbers(t *testing.T) {
	db := newTestDB(t)
	first := createTestDoctor(t, db, Monday)
	second := createTestDoctor(t, db, Monday)

	if err := first.RegenerateSlots(db); err != nil {
		t.Fatalf("RegenerateSlots for first doctor failed: %v", err)
	}
	if err := second.RegenerateSlots(db); err != nil {
		t.Fatalf("RegenerateSlots for second doctor failed: %v", err)
	}

	// Slot numbers are only unique per doctor, both get a MON-001
	for _, doctor := range []*Doctor{first, second} {
		var count int64
		db.Model(&Slot{}).
			Where("doctor_id = ? AND slot_number = ?", doctor.ID, "MON-001").
			Count(&count)
		if count != 1 {
			t.Errorf("doctor %d has %d MON-001 slots, want 1", doctor.ID, count)
		}
	}
}

func TestRegenerateSlotsRepeatable(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, Monday)

	for i := 0; i < 3; i++ {
		if err := doctor.RegenerateSlots(db); err != nil {
			t.Fatalf("regeneration %d failed: %v", i+1, err)
		}
	}

	var count int64
	db.Model(&Slot{}).Where("doctor_id = ?", doctor.ID).Count(&count)
	if count != 4 {
		t.Errorf("expected 4 slots after repeated regeneration, got %d", count)
	}

	// Cleared slots are gone for real, their numbers are free again
	var residue int64
	db.Unscoped().Model(&Slot{}).Where("doctor_id = ?", doctor.ID).Count(&residue)
	if residue != 4 {
		t.Errorf("expected no soft-deleted slot rows, found %d total", residue)
	}
}

func TestSlotCancelCancelsAppointments(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, Monday)
	if err := doctor.RegenerateSlots(db); err != nil {
		t.Fatalf("RegenerateSlots failed: %v", err)
	}
	patient := createTestPatient(t, db)

	var slot Slot
	if err := db.Where("doctor_id = ?", doctor.ID).First(&slot).Error; err != nil {
		t.Fatalf("failed to load slot: %v", err)
	}

	appointment := &Appointment{
		PatientID:       patient.ID,
		DoctorID:        doctor.ID,
		SlotID:          slot.ID,
		AppointmentDate: nextWeekday(time.Monday),
	}
	if err := db.Create(appointment).Error; err != nil {
		t.Fatalf("failed to create appointment: %v", err)
	}
	if err := appointment.Confirm(db); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	if err := slot.Cancel(db); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	var reloaded Appointment
	db.First(&reloaded, appointment.ID)
	if reloaded.State != StateCancelled {
		t.Errorf("appointment state = %s, want %s", reloaded.State, StateCancelled)
	}
	if reloaded.CancellationReason != "Slot cancelled by clinic" {
		t.Errorf("unexpected cancellation reason %q", reloaded.CancellationReason)
	}

	var cancelledSlot Slot
	db.First(&cancelledSlot, slot.ID)
	if cancelledSlot.Status != SlotCancelled {
		t.Errorf("slot status = %s, want %s", cancelledSlot.Status, SlotCancelled)
	}
}

func TestExpirePastSlots(t *testing.T) {
	db := newTestDB(t)

	now := time.Now()
	doctor := createTestDoctor(t, db, DayOf(now))
	if err := doctor.RegenerateSlots(db); err != nil {
		t.Fatalf("RegenerateSlots failed: %v", err)
	}
	patient := createTestPatient(t, db)

	var slot Slot
	if err := db.Where("doctor_id = ?", doctor.ID).Order("start_time").First(&slot).Error; err != nil {
		t.Fatalf("failed to load slot: %v", err)
	}
	appointment := &Appointment{
		PatientID:       patient.ID,
		DoctorID:        doctor.ID,
		SlotID:          slot.ID,
		AppointmentDate: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
	}
	if err := db.Create(appointment).Error; err != nil {
		t.Fatalf("failed to create appointment: %v", err)
	}
	if err := appointment.Confirm(db); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	// Pretend it is past the end of the working day
	late := time.Date(now.Year(), now.Month(), now.Day(), 23, 0, 0, 0, now.Location())
	if err := ExpirePastSlots(db, late); err != nil {
		t.Fatalf("ExpirePastSlots failed: %v", err)
	}

	var expiredSlot Slot
	db.First(&expiredSlot, slot.ID)
	if expiredSlot.Status != SlotExpired {
		t.Errorf("slot status = %s, want %s", expiredSlot.Status, SlotExpired)
	}

	var noShow Appointment
	db.First(&noShow, appointment.ID)
	if noShow.State != StateNoShow {
		t.Errorf("appointment state = %s, want %s", noShow.State, StateNoShow)
	}

	// Running the sweep again changes nothing
	if err := ExpirePastSlots(db, late); err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
}

func TestFormatClock(t *testing.T) {
	cases := map[float64]string{
		9:     "09:00",
		9.5:   "09:30",
		13.25: "13:15",
		0:     "00:00",
	}
	for in, want := range cases {
		if got := FormatClock(in); got != want {
			t.Errorf("FormatClock(%v) = %q, want %q", in, got, want)
		}
	}
}

// nextWeekday returns the next calendar date falling on the given weekday.
func nextWeekday(day time.Weekday) time.Time {
	d := time.Now().AddDate(0, 0, 1)
	for d.Weekday() != day {
		d = d.AddDate(0, 0, 1)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}
