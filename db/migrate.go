package db

import (
	"fmt"
	"log"

	"github.com/meinhoongagan/clinic-management/models"
)

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.Service{},
		&models.Doctor{},
		&models.AvailabilityDay{},
		&models.Slot{},
		&models.Patient{},
		&models.Appointment{},
		&models.Holiday{},
		&models.Prescription{},
		&models.MedicationLine{},
		&models.LabTest{},
		&models.Invoice{},
		&models.InvoiceLine{},
		&models.Testimonial{},
		&models.WebsiteSettings{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	fmt.Println("✅ Migrations applied successfully!")
}
