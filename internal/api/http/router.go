package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/service-request-manager/internal/api/http/handlers"
	"github.com/spec-kit/service-request-manager/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Auth            *handlers.AuthHandler
	ServiceRequests *handlers.ServiceRequestsHandler
	AuthMiddleware  *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Every route under /api/servicerequests
// sits behind the authentication gate; login and health probes do not.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/auth/login", cfg.Auth.Login)

	protected := api.Group("/servicerequests", cfg.AuthMiddleware.Handle)
	protected.Get("/", cfg.ServiceRequests.List)
	protected.Post("/", cfg.ServiceRequests.Create)
	protected.Get("/:id", cfg.ServiceRequests.Get)
	protected.Put("/:id", cfg.ServiceRequests.Replace)
	protected.Delete("/:id", cfg.ServiceRequests.Delete)
}
