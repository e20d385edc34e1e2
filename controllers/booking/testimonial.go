package booking

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/clinic-management/db"
	"github.com/meinhoongagan/clinic-management/models"
	"github.com/meinhoongagan/clinic-management/utils"
)

// ListTestimonials returns published reviews for the public site
func ListTestimonials(c *fiber.Ctx) error {
	testimonials, err := models.PublishedTestimonials(db.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch testimonials",
		})
	}
	return c.JSON(testimonials)
}

// SubmitTestimonial accepts a visitor review. Submissions land in draft state
// and only show on the site after staff publish them. The form is multipart so
// an optional photo can come along
func SubmitTestimonial(c *fiber.Ctx) error {
	name := c.FormValue("name")
	comment := c.FormValue("comment")
	if name == "" || comment == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name and comment are required",
		})
	}

	rating, err := strconv.Atoi(c.FormValue("rating", "5"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "rating must be a number between 1 and 5",
		})
	}

	testimonial := models.Testimonial{
		Name:    name,
		Rating:  rating,
		Comment: comment,
		State:   models.TestimonialDraft,
	}
	if serviceID, err := strconv.Atoi(c.FormValue("service_id", "0")); err == nil && serviceID > 0 {
		id := uint(serviceID)
		testimonial.ServiceID = &id
	}
	if doctorID, err := strconv.Atoi(c.FormValue("doctor_id", "0")); err == nil && doctorID > 0 {
		id := uint(doctorID)
		testimonial.DoctorID = &id
	}

	// Photo is optional and its upload failure never blocks the review
	if fileHeader, err := c.FormFile("image"); err == nil {
		file, err := fileHeader.Open()
		if err == nil {
			defer file.Close()
			publicID := fmt.Sprintf("testimonial_%d", time.Now().UnixNano())
			url, err := utils.UploadToCloudinary(file, publicID, "testimonials")
			if err != nil {
				log.Printf("testimonial image upload failed: %v", err)
			} else {
				testimonial.ImageURL = url
			}
		}
	}

	if err := db.DB.Create(&testimonial).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to submit testimonial",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Thank you! Your review will appear once approved.",
	})
}
