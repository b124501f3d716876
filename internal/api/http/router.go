package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/timeoff-service/internal/api/http/handlers"
	"github.com/spec-kit/timeoff-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Requests       *handlers.RequestsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Login, registration and the health
// probes are the only unauthenticated endpoints.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, cfg.Auth.ChangePassword)

	requests := app.Group("/time_off_requests", cfg.AuthMiddleware.Handle)
	requests.Get("", auth.RequireAdmin(), cfg.Requests.ListAll)
	requests.Post("", cfg.Requests.Create)
	requests.Patch("/:id/status", auth.RequireAdmin(), cfg.Requests.UpdateStatus)

	app.Get("/my_requests", cfg.AuthMiddleware.Handle, cfg.Requests.ListMine)
}
