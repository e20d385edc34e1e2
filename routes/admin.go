package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/clinic-management/controllers"
	"github.com/meinhoongagan/clinic-management/middleware"
)

// SetupAdminRoutes configures dashboard, testimonial moderation and website
// settings routes
func SetupAdminRoutes(app *fiber.App) {
	dashboard := app.Group("/dashboard", middleware.Protected(), middleware.RequirePermission("dashboard", "read"))
	dashboard.Get("/overview", controllers.GetDashboardOverview)
	dashboard.Get("/revenue", controllers.GetRevenueSummary)
	dashboard.Get("/utilization", controllers.GetDoctorUtilization)
	dashboard.Get("/leaves", controllers.GetUpcomingLeaves)
	dashboard.Get("/services", controllers.GetServicePopularity)

	testimonial := app.Group("/testimonials", middleware.Protected())
	testimonial.Get("/", middleware.RequirePermission("testimonials", "read"), controllers.GetAllTestimonials)
	testimonial.Post("/:id/publish", middleware.RequirePermission("testimonials", "update"), controllers.PublishTestimonial)
	testimonial.Post("/:id/reject", middleware.RequirePermission("testimonials", "update"), controllers.RejectTestimonial)
	testimonial.Delete("/:id", middleware.RequirePermission("testimonials", "delete"), controllers.DeleteTestimonial)

	settings := app.Group("/settings", middleware.Protected())
	settings.Get("/", middleware.RequirePermission("settings", "read"), controllers.GetSettings)
	settings.Put("/", middleware.RequirePermission("settings", "update"), controllers.UpdateSettings)
}
