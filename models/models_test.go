package models

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&Service{},
		&Doctor{},
		&AvailabilityDay{},
		&Slot{},
		&Patient{},
		&Appointment{},
		&Holiday{},
		&Prescription{},
		&MedicationLine{},
		&LabTest{},
		&Invoice{},
		&InvoiceLine{},
		&Testimonial{},
		&WebsiteSettings{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createTestDoctor(t *testing.T, db *gorm.DB, days ...DayOfWeek) *Doctor {
	t.Helper()
	doctor := &Doctor{
		Name:               "Dr. Asha Rao",
		LicenseNo:          NewReference("LIC"),
		ConsultationFee:    500,
		Active:             true,
		WorkingStartTime:   9,
		WorkingEndTime:     11,
		SlotDuration:       30,
		MaxPatientsPerSlot: 1,
	}
	for _, d := range days {
		doctor.AvailableDays = append(doctor.AvailableDays, AvailabilityDay{Day: d})
	}
	if err := db.Create(doctor).Error; err != nil {
		t.Fatalf("failed to create doctor: %v", err)
	}
	return doctor
}

func createTestPatient(t *testing.T, db *gorm.DB) *Patient {
	t.Helper()
	patient := &Patient{
		Name:   "Ravi Kumar",
		Phone:  NewReference("98"),
		Email:  "ravi@example.com",
		Active: true,
	}
	if err := db.Create(patient).Error; err != nil {
		t.Fatalf("failed to create patient: %v", err)
	}
	return patient
}
