package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ceduni/cafe-sans-fil-sub001/internal/api/http/handlers"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Cafes          *handlers.CafesHandler
	Orders         *handlers.OrdersHandler
	Events         *handlers.EventsHandler
	Search         *handlers.SearchHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Café-scoped mutations run behind a
// role gate that re-reads the roster per request.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Users.Me)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, cfg.Users.ChangePassword)

	cafes := app.Group("/cafes")
	cafes.Get("/", cfg.Cafes.List)
	cafes.Post("/", cfg.AuthMiddleware.Handle, cfg.Cafes.Create)
	cafes.Get("/:slug", cfg.Cafes.Get)
	cafes.Put("/:slug", cfg.AuthMiddleware.Handle, cfg.AuthMiddleware.RequireCafeAdmin(), cfg.Cafes.Update)

	cafes.Get("/:slug/staff", cfg.AuthMiddleware.Handle, cfg.AuthMiddleware.RequireCafeStaff(), cfg.Cafes.ListStaff)
	cafes.Post("/:slug/staff", cfg.AuthMiddleware.Handle, cfg.AuthMiddleware.RequireCafeAdmin(), cfg.Cafes.AddStaff)
	cafes.Patch("/:slug/staff/:username", cfg.AuthMiddleware.Handle, cfg.AuthMiddleware.RequireCafeAdmin(), cfg.Cafes.ChangeStaffRole)
	cafes.Delete("/:slug/staff/:username", cfg.AuthMiddleware.Handle, cfg.AuthMiddleware.RequireCafeAdmin(), cfg.Cafes.RemoveStaff)

	cafes.Get("/:slug/menu", cfg.Cafes.ListMenu)
	cafes.Post("/:slug/menu", cfg.AuthMiddleware.Handle, cfg.AuthMiddleware.RequireCafeAdmin(), cfg.Cafes.AddMenuItem)
	cafes.Put("/:slug/menu/:itemID", cfg.AuthMiddleware.Handle, cfg.AuthMiddleware.RequireCafeAdmin(), cfg.Cafes.UpdateMenuItem)
	cafes.Patch("/:slug/menu/:itemID/stock", cfg.AuthMiddleware.Handle, cfg.AuthMiddleware.RequireCafeStaff(), cfg.Cafes.SetMenuItemStock)
	cafes.Delete("/:slug/menu/:itemID", cfg.AuthMiddleware.Handle, cfg.AuthMiddleware.RequireCafeAdmin(), cfg.Cafes.RemoveMenuItem)

	cafes.Get("/:slug/orders", cfg.AuthMiddleware.Handle, cfg.Orders.ListForCafe)
	cafes.Get("/:slug/events", cfg.Events.List)
	cafes.Post("/:slug/events", cfg.AuthMiddleware.Handle, cfg.AuthMiddleware.RequireCafeAdmin(), cfg.Events.Create)

	orders := app.Group("/orders", cfg.AuthMiddleware.Handle)
	orders.Post("/", cfg.Orders.Place)
	orders.Get("/", cfg.Orders.ListMine)
	orders.Get("/:id", cfg.Orders.Get)
	orders.Post("/:id/cancel", cfg.Orders.Cancel)
	orders.Put("/:id/status", cfg.Orders.UpdateStatus)

	app.Get("/events", cfg.Events.List)
	app.Get("/events/:id", cfg.Events.Get)
	app.Put("/events/:id/interactions/:kind", cfg.AuthMiddleware.Handle, cfg.Events.ToggleInteraction)

	app.Get("/search", cfg.Search.Search)
}
