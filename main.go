package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/meinhoongagan/clinic-management/cron"
	"github.com/meinhoongagan/clinic-management/db"
	"github.com/meinhoongagan/clinic-management/redis"
	"github.com/meinhoongagan/clinic-management/routes"
)

func main() {
	app := fiber.New()
	db.Init()
	db.Migrate()
	db.Seed()
	redis.InitRedis()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Clinic management API")
	})

	routes.SetupAuthRoutes(app)
	routes.SetupRBACRoutes(app)
	routes.SetupServiceRoutes(app)
	routes.SetupDoctorRoutes(app)
	routes.SetupPatientRoutes(app)
	routes.SetupAppointmentRoutes(app)
	routes.SetupHolidayRoutes(app)
	routes.SetupClinicalRoutes(app)
	routes.SetupAdminRoutes(app)
	routes.SetupPublicRoutes(app)

	cron.StartCronJobs()

	if err := app.Listen(":8000"); err != nil {
		log.Fatal(err)
	}
}
