package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/meinhoongagan/clinic-management/controllers"
	"github.com/meinhoongagan/clinic-management/db"
	"github.com/meinhoongagan/clinic-management/models"
)

func setupDoctorApp(t *testing.T) *fiber.App {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = gdb.AutoMigrate(
		&models.Service{},
		&models.Doctor{},
		&models.AvailabilityDay{},
		&models.Slot{},
		&models.Appointment{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	db.DB = gdb

	app := fiber.New()
	app.Patch("/doctors/:id", controllers.UpdateDoctor)
	return app
}

func seedScheduledDoctor(t *testing.T, days ...models.DayOfWeek) *models.Doctor {
	t.Helper()
	doctor := &models.Doctor{
		Name:               "Dr. Asha Rao",
		LicenseNo:          models.NewReference("LIC"),
		ConsultationFee:    500,
		Active:             true,
		WorkingStartTime:   9,
		WorkingEndTime:     11,
		SlotDuration:       30,
		MaxPatientsPerSlot: 1,
	}
	for _, d := range days {
		doctor.AvailableDays = append(doctor.AvailableDays, models.AvailabilityDay{Day: d})
	}
	if err := db.DB.Create(doctor).Error; err != nil {
		t.Fatalf("failed to create doctor: %v", err)
	}
	if err := doctor.RegenerateSlots(db.DB); err != nil {
		t.Fatalf("RegenerateSlots failed: %v", err)
	}
	return doctor
}

func patchJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req, _ := http.NewRequest(http.MethodPatch, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func countSlots(t *testing.T, doctorID uint) int64 {
	t.Helper()
	var count int64
	db.DB.Model(&models.Slot{}).Where("doctor_id = ?", doctorID).Count(&count)
	return count
}

func TestUpdateDoctorPartialBodyKeepsSchedule(t *testing.T) {
	app := setupDoctorApp(t)
	doctor := seedScheduledDoctor(t, models.Monday, models.Wednesday)

	// A body touching nothing availability-related leaves the slot
	// inventory and the day set alone
	resp := patchJSON(t, app, "/doctors/1", fiber.Map{"bio": "Senior consultant"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var reloaded models.Doctor
	if err := db.DB.Preload("AvailableDays").First(&reloaded, doctor.ID).Error; err != nil {
		t.Fatalf("failed to reload doctor: %v", err)
	}
	if reloaded.Bio != "Senior consultant" {
		t.Errorf("bio = %q, want the updated value", reloaded.Bio)
	}
	if reloaded.WorkingEndTime != 11 {
		t.Errorf("working end time = %v, want 11", reloaded.WorkingEndTime)
	}
	if len(reloaded.AvailableDays) != 2 {
		t.Errorf("available days = %d, want 2", len(reloaded.AvailableDays))
	}
	if got := countSlots(t, doctor.ID); got != 8 {
		t.Errorf("slot count = %d, want 8", got)
	}
}

func TestUpdateDoctorRegeneratesWithoutDaysArray(t *testing.T) {
	app := setupDoctorApp(t)
	doctor := seedScheduledDoctor(t, models.Monday, models.Wednesday)

	// Shrinking the window without resending the days regenerates slots
	// for the existing day set instead of wiping it
	resp := patchJSON(t, app, "/doctors/1", fiber.Map{"working_end_time": 10})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var reloaded models.Doctor
	if err := db.DB.Preload("AvailableDays").First(&reloaded, doctor.ID).Error; err != nil {
		t.Fatalf("failed to reload doctor: %v", err)
	}
	if len(reloaded.AvailableDays) != 2 {
		t.Errorf("available days = %d, want 2", len(reloaded.AvailableDays))
	}
	if got := countSlots(t, doctor.ID); got != 4 {
		t.Errorf("slot count = %d, want 4 after shrinking to one hour", got)
	}
}

func TestUpdateDoctorReplacesDays(t *testing.T) {
	app := setupDoctorApp(t)
	doctor := seedScheduledDoctor(t, models.Monday, models.Wednesday)

	resp := patchJSON(t, app, "/doctors/1", fiber.Map{
		"available_days": []fiber.Map{{"day": models.Friday}},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var reloaded models.Doctor
	if err := db.DB.Preload("AvailableDays").First(&reloaded, doctor.ID).Error; err != nil {
		t.Fatalf("failed to reload doctor: %v", err)
	}
	if len(reloaded.AvailableDays) != 1 || reloaded.AvailableDays[0].Day != models.Friday {
		t.Fatalf("unexpected day set %+v", reloaded.AvailableDays)
	}

	var friday int64
	db.DB.Model(&models.Slot{}).
		Where("doctor_id = ? AND day = ?", doctor.ID, models.Friday).
		Count(&friday)
	if friday != 4 {
		t.Errorf("friday slot count = %d, want 4", friday)
	}
	if got := countSlots(t, doctor.ID); got != 4 {
		t.Errorf("slot count = %d, want 4 after replacing the days", got)
	}
}
