package booking

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/clinic-management/utils"
)

// SubmitContact relays a contact form message to the clinic inbox. Messages
// are not persisted
func SubmitContact(c *fiber.Ctx) error {
	var input struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}
	if input.Name == "" || input.Email == "" || input.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name, email and message are required",
		})
	}

	inbox := os.Getenv("CLINIC_CONTACT_EMAIL")
	if inbox == "" {
		inbox = os.Getenv("EMAIL_USER")
	}

	subject := input.Subject
	if subject == "" {
		subject = "New contact form message"
	}
	body := fmt.Sprintf(`
		<p><strong>From:</strong> %s (%s)</p>
		<p><strong>Phone:</strong> %s</p>
		<p>%s</p>
	`, input.Name, input.Email, input.Phone, input.Message)

	utils.SendEmailBestEffort(inbox, subject, body)

	return c.JSON(fiber.Map{
		"message": "Thank you for reaching out. We will get back to you shortly.",
	})
}
