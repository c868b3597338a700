package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-log/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-log/internal/app"
	"github.com/spec-kit/helpdesk-log/internal/view"
)

// dashboardTitle heads the HTML page.
const dashboardTitle = "IT Helpdesk Log"

// NewServer builds the fiber app around a wired core.
func NewServer(a *app.App) (*fiber.App, error) {
	renderer, err := view.NewHTMLRenderer()
	if err != nil {
		return nil, err
	}

	server := fiber.New(fiber.Config{
		AppName:               a.Config.App.Name,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(server, a.Logger, a.Metrics, a.Config.App.RequestTimeout())

	deps := make(map[string]handlers.Pinger, len(a.Pingers))
	for name, p := range a.Pingers {
		deps[name] = p
	}

	RegisterRoutes(server, RouteConfig{
		Health:    handlers.NewHealthHandler(a.Config.App.Name, a.Config.App.Version, a.Config.Store.Backend, deps),
		Dashboard: handlers.NewDashboardHandler(dashboardTitle, a.Tickets, a.Board, a.Feed, renderer),
		Tickets:   handlers.NewTicketsHandler(a.Tickets, a.Board, a.Feed),
		Metrics:   handlers.NewMetricsHandler(a.Metrics),
	})
	return server, nil
}
