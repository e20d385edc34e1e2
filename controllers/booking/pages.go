package booking

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/clinic-management/db"
	"github.com/meinhoongagan/clinic-management/models"
)

// GetHomePage returns everything the public landing page needs in one call
func GetHomePage(c *fiber.Ctx) error {
	settings, err := models.GetSettings(db.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load site content",
		})
	}

	var services []models.Service
	db.DB.Where("active = ?", true).Order("name").Find(&services)

	var doctors []models.Doctor
	db.DB.Preload("Specializations").
		Where("active = ?", true).Order("name").Find(&doctors)

	testimonials, _ := models.PublishedTestimonials(db.DB)

	return c.JSON(fiber.Map{
		"settings":     settings,
		"services":     services,
		"doctors":      doctors,
		"testimonials": testimonials,
	})
}

// ListDoctors returns active doctors for the public site
func ListDoctors(c *fiber.Ctx) error {
	query := db.DB.Preload("Specializations").Preload("AvailableDays").
		Where("active = ?", true)
	if c.Query("service_id") != "" {
		query = query.Joins("JOIN doctor_specializations ON doctor_specializations.doctor_id = doctors.id").
			Where("doctor_specializations.service_id = ?", c.QueryInt("service_id"))
	}

	var doctors []models.Doctor
	if err := query.Order("doctors.name").Find(&doctors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch doctors",
		})
	}
	return c.JSON(doctors)
}

// GetDoctorProfile returns one doctor's public profile
func GetDoctorProfile(c *fiber.Ctx) error {
	id := c.Params("id")
	var doctor models.Doctor
	if err := db.DB.Preload("Specializations").Preload("AvailableDays").
		Where("active = ?", true).First(&doctor, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Doctor not found",
		})
	}
	return c.JSON(doctor)
}

// ListServices returns active services for the public site
func ListServices(c *fiber.Ctx) error {
	var services []models.Service
	if err := db.DB.Where("active = ?", true).Order("name").Find(&services).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch services",
		})
	}
	return c.JSON(services)
}

// GetServiceDetail returns one service with the doctors who offer it
func GetServiceDetail(c *fiber.Ctx) error {
	id := c.Params("id")
	var service models.Service
	if err := db.DB.Preload("Doctors", "active = ?", true).
		Where("active = ?", true).First(&service, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Service not found",
		})
	}
	return c.JSON(service)
}

// NotFound is the catch-all for unknown public routes
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Page not found",
	})
}
