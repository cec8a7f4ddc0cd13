package main

import (
	"log"
	"strings"
	"time"

	"voyage-backend/internal/admin"
	"voyage-backend/internal/auth"
	"voyage-backend/internal/booking"
	"voyage-backend/internal/client"
	"voyage-backend/internal/config"
	"voyage-backend/internal/consent"
	"voyage-backend/internal/dashboard"
	"voyage-backend/internal/database"
	"voyage-backend/internal/models"
	"voyage-backend/internal/payment"
	"voyage-backend/internal/policy"
	"voyage-backend/internal/report"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("unknown timezone %q: %v", cfg.Timezone, err)
	}
	az := policy.NewAuthorizer(database.DB, loc, time.Now)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Bookings; the temporal guard runs before any RBAC check
	bookings := protected.Group("/bookings")
	bookings.Use(auth.TemporalGuard(az, models.ResourceBookings))
	bookings.Get("/", booking.ListHandler())
	bookings.Post("/", booking.CreateHandler(az))
	bookings.Get("/:id", booking.DetailHandler(az))
	bookings.Put("/:id", booking.UpdateHandler(az))
	bookings.Post("/:id/cancel", booking.CancelHandler(az))
	bookings.Delete("/:id", booking.DeleteHandler(az))

	// Clients
	clients := protected.Group("/clients")
	clients.Use(auth.TemporalGuard(az, models.ResourceClients))
	clients.Get("/", client.ListHandler())
	clients.Post("/", client.CreateHandler(az))
	clients.Get("/:id", client.DetailHandler())
	clients.Put("/:id", client.UpdateHandler())
	clients.Post("/:id/anonymize", client.AnonymizeHandler(az))

	// Payments
	payments := protected.Group("/payments")
	payments.Use(auth.TemporalGuard(az, models.ResourcePayments))
	payments.Get("/", payment.ListHandler())
	payments.Post("/", payment.CreateHandler(az))
	payments.Get("/:id", payment.DetailHandler())
	payments.Post("/:id/refund", payment.RefundHandler())

	// Role-scoped dashboard
	protected.Get("/dashboard", dashboard.Handler(az))

	// Compliance trail
	protected.Get("/consent-logs",
		auth.RequireRole(models.RoleDPO, models.RoleGeneralDirector, models.RoleAdminIT),
		consent.ListLogsHandler())

	// Monthly export
	protected.Get("/reports/monthly.xlsx",
		auth.RequireRole(models.RoleDirectorSite, models.RoleGeneralDirector, models.RoleAdminIT),
		report.MonthlyExportHandler(az))

	// Reference-data administration
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdminIT, models.RoleGeneralDirector))

	adminRoutes.Post("/sites", admin.CreateSiteHandler())
	adminRoutes.Get("/sites", admin.ListSitesHandler())
	adminRoutes.Put("/sites/:id", admin.UpdateSiteHandler())

	adminRoutes.Post("/departments", admin.CreateDepartmentHandler())
	adminRoutes.Get("/departments", admin.ListDepartmentsHandler())
	adminRoutes.Put("/departments/:id", admin.UpdateDepartmentHandler())

	adminRoutes.Post("/users", admin.CreateUserHandler())
	adminRoutes.Get("/users", admin.ListUsersHandler())
	adminRoutes.Post("/users/:id/roles", admin.AssignRoleHandler())
	adminRoutes.Delete("/users/:id/roles/:code", admin.RevokeRoleHandler())
	adminRoutes.Delete("/users/:id", admin.DeactivateUserHandler())

	adminRoutes.Post("/temporal-constraints", admin.CreateTemporalConstraintHandler())
	adminRoutes.Get("/temporal-constraints", admin.ListTemporalConstraintsHandler())
	adminRoutes.Delete("/temporal-constraints/:id", admin.DeactivateTemporalConstraintHandler())

	log.Printf("server listening on :%s", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
