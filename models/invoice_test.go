package models

import (
	"testing"
	"time"
)

func TestMedicationSubtotal(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, Monday)
	if err := doctor.RegenerateSlots(db); err != nil {
		t.Fatalf("RegenerateSlots failed: %v", err)
	}
	patient := createTestPatient(t, db)
	appointment, _ := bookedAppointment(t, db, doctor, patient, nextWeekday(time.Monday))

	prescription := Prescription{
		AppointmentID: appointment.ID,
		PatientID:     patient.ID,
		DoctorID:      doctor.ID,
		Medications: []MedicationLine{
			{MedicineName: "Paracetamol", Quantity: 10, UnitPrice: 2.5},
			{MedicineName: "Azithromycin", Quantity: 3, UnitPrice: 18},
		},
	}
	if err := db.Create(&prescription).Error; err != nil {
		t.Fatalf("failed to create prescription: %v", err)
	}

	var reloaded Prescription
	if err := db.Preload("Medications").First(&reloaded, prescription.ID).Error; err != nil {
		t.Fatalf("failed to reload prescription: %v", err)
	}
	if got := reloaded.Medications[0].Subtotal; got != 25 {
		t.Errorf("subtotal = %v, want 25", got)
	}
	if got := reloaded.Total(); got != 79 {
		t.Errorf("total = %v, want 79", got)
	}
}

func TestBuildInvoice(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, Monday)
	if err := doctor.RegenerateSlots(db); err != nil {
		t.Fatalf("RegenerateSlots failed: %v", err)
	}
	patient := createTestPatient(t, db)
	appointment, _ := bookedAppointment(t, db, doctor, patient, nextWeekday(time.Monday))

	prescription := Prescription{
		AppointmentID: appointment.ID,
		PatientID:     patient.ID,
		DoctorID:      doctor.ID,
		Medications: []MedicationLine{
			{MedicineName: "Paracetamol", Quantity: 10, UnitPrice: 2.5},
		},
	}
	if err := db.Create(&prescription).Error; err != nil {
		t.Fatalf("failed to create prescription: %v", err)
	}

	invoice, err := BuildInvoice(db, appointment)
	if err != nil {
		t.Fatalf("BuildInvoice failed: %v", err)
	}

	// One consultation line plus one medication line
	if len(invoice.Lines) != 2 {
		t.Fatalf("expected 2 invoice lines, got %d", len(invoice.Lines))
	}
	want := doctor.ConsultationFee + 25
	if invoice.Total != want {
		t.Errorf("total = %v, want %v", invoice.Total, want)
	}
	if invoice.Status != InvoiceDraft {
		t.Errorf("status = %s, want %s", invoice.Status, InvoiceDraft)
	}
	if invoice.Reference == "" {
		t.Error("expected a generated reference")
	}

	var reloaded Appointment
	db.First(&reloaded, appointment.ID)
	if reloaded.InvoiceID == nil || *reloaded.InvoiceID != invoice.ID {
		t.Error("appointment not linked to its invoice")
	}

	// Building again returns the same invoice
	again, err := BuildInvoice(db, &reloaded)
	if err != nil {
		t.Fatalf("second BuildInvoice failed: %v", err)
	}
	if again.ID != invoice.ID {
		t.Errorf("expected the existing invoice %d, got %d", invoice.ID, again.ID)
	}
	var count int64
	db.Model(&Invoice{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 invoice, got %d", count)
	}
}

func TestBuildInvoiceRequiresItems(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, Monday)
	if err := doctor.RegenerateSlots(db); err != nil {
		t.Fatalf("RegenerateSlots failed: %v", err)
	}
	doctor.ConsultationFee = 0
	if err := db.Save(doctor).Error; err != nil {
		t.Fatalf("failed to save doctor: %v", err)
	}
	patient := createTestPatient(t, db)
	appointment, _ := bookedAppointment(t, db, doctor, patient, nextWeekday(time.Monday))

	if _, err := BuildInvoice(db, appointment); err == nil {
		t.Fatal("expected BuildInvoice to fail with nothing to bill")
	}
}
