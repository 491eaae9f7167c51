package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/inquiry-service/internal/api/http/handlers"
	"github.com/spec-kit/inquiry-service/internal/auth"
	"github.com/spec-kit/inquiry-service/internal/domain"
	"github.com/spec-kit/inquiry-service/internal/ratelimit"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Public         *handlers.PublicHandler
	Auth           *handlers.AuthHandler
	Inquiries      *handlers.InquiriesHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
	RateLimiter    *ratelimit.Limiter
	UploadDir      string
	UploadPath     string
}

// RegisterRoutes wires HTTP routes. Each protected group lists the roles it
// accepts explicitly.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	if cfg.UploadDir != "" {
		app.Static(cfg.UploadPath, cfg.UploadDir)
	}

	api := app.Group("/api")

	api.Post("/public/inquiries", cfg.RateLimiter.Handle, cfg.Public.SubmitInquiry)

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireRole(), cfg.Auth.ChangePassword)

	employee := api.Group("/employee",
		cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleEmployee, domain.RoleAdmin),
	)
	employee.Get("/inquiries", cfg.Inquiries.ListClaimable)
	employee.Get("/inquiries/:id", cfg.Inquiries.GetInquiry)
	employee.Patch("/inquiries/:id/claim", cfg.Inquiries.Claim)
	employee.Post("/inquiries/:id/release", cfg.Inquiries.Release)

	admin := api.Group("/admin",
		cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleAdmin),
	)
	admin.Post("/employees", cfg.Admin.CreateEmployee)
	admin.Patch("/employees/:id", cfg.Admin.UpdateEmployee)
	admin.Get("/dashboard", cfg.Admin.Dashboard)
	admin.Get("/inquiries", cfg.Admin.ListInquiries)
	admin.Get("/inquiries/:id/history", cfg.Admin.ListInquiryHistory)
}
