package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/clinic-management/controllers/booking"
)

// SetupPublicRoutes configures the unauthenticated clinic website routes
func SetupPublicRoutes(app *fiber.App) {
	clinic := app.Group("/clinic")

	clinic.Get("/", booking.GetHomePage)
	clinic.Get("/doctors", booking.ListDoctors)
	clinic.Get("/doctors/:id", booking.GetDoctorProfile)
	clinic.Get("/services", booking.ListServices)
	clinic.Get("/services/:id", booking.GetServiceDetail)

	// Booking flow
	clinic.Get("/booking/doctors", booking.GetBookingDoctors)
	clinic.Get("/booking/slots", booking.GetBookingSlots)
	clinic.Post("/booking", booking.CreateBooking)
	clinic.Get("/booking/:reference", booking.GetBookingStatus)

	clinic.Get("/testimonials", booking.ListTestimonials)
	clinic.Post("/testimonials", booking.SubmitTestimonial)
	clinic.Post("/contact", booking.SubmitContact)

	clinic.All("/*", booking.NotFound)
}
