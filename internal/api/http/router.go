package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-log/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Dashboard *handlers.DashboardHandler
	Tickets   *handlers.TicketsHandler
	Metrics   *handlers.MetricsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Snapshot)

	app.Get("/", cfg.Dashboard.Show)
	app.Post("/tickets", cfg.Dashboard.Create)
	app.Post("/tickets/:id/status", cfg.Dashboard.ChangeStatus)
	app.Post("/tickets/:id/delete", cfg.Dashboard.Delete)

	api := app.Group("/api")
	api.Get("/tickets", cfg.Tickets.ListTickets)
	api.Post("/tickets", cfg.Tickets.CreateTicket)
	api.Post("/tickets/refresh", cfg.Tickets.Refresh)
	api.Patch("/tickets/:id/status", cfg.Tickets.UpdateStatus)
	api.Delete("/tickets/:id", cfg.Tickets.DeleteTicket)
	api.Get("/dashboard", cfg.Tickets.Dashboard)
	api.Get("/notifications", cfg.Tickets.Notifications)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
}
