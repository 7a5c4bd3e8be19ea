package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/parts-assistant/internal/api/http/handlers"
	"github.com/spec-kit/parts-assistant/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Chat    *handlers.ChatHandler
	Tickets *handlers.TicketsHandler
	Parts   *handlers.PartsHandler
	Metrics *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics.Handler())
	}

	api := app.Group("/api")
	api.Post("/chat", cfg.Chat.Chat)

	api.Post("/tickets", cfg.Tickets.CreateTicket)
	api.Get("/tickets", cfg.Tickets.ListTickets)
	api.Get("/tickets/:number", cfg.Tickets.GetTicket)

	api.Get("/parts", cfg.Parts.SearchParts)
	api.Get("/parts/:partNumber", cfg.Parts.GetPart)
	api.Post("/catalog/reload", cfg.Parts.ReloadCatalog)
}
