package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ghostflow/agency-service/internal/api/http/handlers"
	"github.com/ghostflow/agency-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	StaffTickets   *handlers.StaffTicketsHandler
	Subscriptions  *handlers.SubscriptionsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Everything past login/register
// sits behind the auth middleware; role gates attach to their own
// routes or prefixed groups so a gate never matches a sibling path.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/login", cfg.Auth.Login)
	api.Post("/register", cfg.Auth.Register)

	authed := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	authed.Post("/logout", cfg.Auth.Logout)
	authed.Get("/user", cfg.Auth.CurrentUser)
	authed.Post("/attachments/validate", cfg.Tickets.ValidateAttachment)

	authed.Get("/tickets", cfg.Tickets.ListTickets)
	authed.Get("/tickets/:id", cfg.Tickets.GetTicket)
	authed.Patch("/tickets/:id/status", cfg.Tickets.ChangeStatus)
	authed.Get("/tickets/:id/comments", cfg.Tickets.ListComments)
	authed.Post("/tickets/:id/comments", cfg.Tickets.AddComment)

	authed.Post("/tickets", auth.RequireClient(), cfg.Tickets.CreateTicket)
	authed.Get("/subscription", auth.RequireClient(), cfg.Subscriptions.GetSubscription)
	authed.Post("/subscriptions/pause", auth.RequireClient(), cfg.Subscriptions.PauseSubscription)
	authed.Post("/subscriptions/resume", auth.RequireClient(), cfg.Subscriptions.ResumeSubscription)

	staff := authed.Group("/admin", auth.RequireStaff())
	staff.Get("/tickets", cfg.StaffTickets.ListTickets)
	staff.Get("/employees", cfg.Auth.ListEmployees)
	staff.Patch("/tickets/:id", cfg.StaffTickets.UpdateTicket)

	staff.Patch("/tickets/:id/assign", auth.RequireAdmin(), cfg.StaffTickets.AssignTicket)
	staff.Post("/users", auth.RequireAdmin(), cfg.Auth.ProvisionUser)
}
