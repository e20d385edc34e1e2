package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/clinic-management/db"
	"github.com/meinhoongagan/clinic-management/models"
	"github.com/meinhoongagan/clinic-management/utils"
)

// GetAllTestimonials returns testimonials for moderation, optionally filtered
// by state
func GetAllTestimonials(c *fiber.Ctx) error {
	query := db.DB.Order("created_at desc")
	if state := c.Query("state"); state != "" {
		query = query.Where("state = ?", state)
	}

	var testimonials []models.Testimonial
	if err := query.Find(&testimonials).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch testimonials",
			Error:   err.Error(),
		})
	}
	return c.JSON(testimonials)
}

// PublishTestimonial makes a testimonial visible on the public site
func PublishTestimonial(c *fiber.Ctx) error {
	return moderateTestimonial(c, models.TestimonialPublished)
}

// RejectTestimonial hides a testimonial from the public site
func RejectTestimonial(c *fiber.Ctx) error {
	return moderateTestimonial(c, models.TestimonialRejected)
}

// DeleteTestimonial removes a testimonial
func DeleteTestimonial(c *fiber.Ctx) error {
	id := c.Params("id")
	var testimonial models.Testimonial
	if err := db.DB.First(&testimonial, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Testimonial not found",
		})
	}
	if err := db.DB.Delete(&testimonial).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete testimonial",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Testimonial deleted successfully",
	})
}

func moderateTestimonial(c *fiber.Ctx, state models.TestimonialState) error {
	id := c.Params("id")
	var testimonial models.Testimonial
	if err := db.DB.First(&testimonial, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Testimonial not found",
		})
	}
	if err := db.DB.Model(&testimonial).Update("state", state).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update testimonial",
		})
	}
	return c.JSON(testimonial)
}
