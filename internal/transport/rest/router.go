package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/frahmantamala/legal-practice/internal/access"
	"github.com/frahmantamala/legal-practice/internal/auth"
	"github.com/frahmantamala/legal-practice/internal/client"
	"github.com/frahmantamala/legal-practice/internal/invoice"
	"github.com/frahmantamala/legal-practice/internal/legalcase"
	"github.com/frahmantamala/legal-practice/internal/role"
	"github.com/frahmantamala/legal-practice/internal/transport/middleware"
	"github.com/frahmantamala/legal-practice/internal/transport/swagger"
	"github.com/frahmantamala/legal-practice/internal/user"
)

type Handlers struct {
	Health   *HealthHandler
	Auth     *auth.Handler
	Users    *user.Handler
	Roles    *role.Handler
	Cases    *legalcase.Handler
	Clients  *client.Handler
	Invoices *invoice.Handler
}

type Options struct {
	Logger      *slog.Logger
	SpecPath    string
	MetricsPath string
	// Validator checks requests against the OpenAPI document when set.
	Validator *middleware.OpenAPIValidator
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options) {
	perm := middleware.RequirePermissions

	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(opts.Logger))
	router.Use(middleware.LoggingMiddleware(opts.Logger))
	router.Use(middleware.Metrics)

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, opts.SpecPath)
	})
	router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))
	if opts.MetricsPath != "" {
		router.Handle(opts.MetricsPath, promhttp.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		if opts.Validator != nil {
			r.Use(opts.Validator.Middleware)
		}

		r.Get("/health", h.Health.healthCheckHandler)
		r.Get("/ping", h.Health.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/users/me", h.Users.GetCurrentUser)
			pr.Route("/users", func(ur chi.Router) {
				ur.With(perm(access.ViewUsers)).Get("/", h.Users.List)
				ur.With(perm(access.CreateUsers), middleware.RequireTenant).Post("/", h.Users.Create)
				ur.With(perm(access.ViewUsers)).Get("/{id}", h.Users.Get)
				ur.With(perm(access.EditUsers)).Put("/{id}", h.Users.Update)
				ur.With(perm(access.EditRoles)).Post("/{id}/roles", h.Roles.Assign)
			})

			pr.Route("/roles", func(rr chi.Router) {
				rr.With(perm(access.ViewRoles)).Get("/", h.Roles.List)
				rr.With(perm(access.CreateRoles)).Post("/", h.Roles.Create)
				rr.With(perm(access.EditRoles)).Put("/{id}/permissions", h.Roles.SyncPermissions)
				rr.With(perm(access.DeleteRoles)).Delete("/{id}", h.Roles.Delete)
			})

			pr.Route("/cases", func(cr chi.Router) {
				cr.With(perm(access.ViewCases)).Get("/", h.Cases.List)
				cr.With(perm(access.CreateCases), middleware.RequireTenant).Post("/", h.Cases.Create)
				cr.With(perm(access.ViewCases)).Get("/{id}", h.Cases.Get)
				cr.With(perm(access.EditCases)).Put("/{id}", h.Cases.Update)
				cr.With(perm(access.DeleteCases)).Delete("/{id}", h.Cases.Delete)
				cr.With(perm(access.EditCases)).Put("/{id}/team", h.Cases.SyncTeam)
			})

			pr.Route("/clients", func(cr chi.Router) {
				cr.With(perm(access.ViewClients)).Get("/", h.Clients.List)
				cr.With(perm(access.CreateClients), middleware.RequireTenant).Post("/", h.Clients.Create)
				cr.With(perm(access.ViewClients)).Get("/{id}", h.Clients.Get)
				cr.With(perm(access.EditClients)).Put("/{id}", h.Clients.Update)
				cr.With(perm(access.DeleteClients)).Delete("/{id}", h.Clients.Delete)
			})

			pr.Route("/invoices", func(ir chi.Router) {
				ir.With(perm(access.ViewInvoices)).Get("/", h.Invoices.List)
				ir.With(perm(access.CreateInvoices), middleware.RequireTenant).Post("/", h.Invoices.Create)
				ir.With(perm(access.ViewInvoices)).Get("/{id}", h.Invoices.Get)
				ir.With(perm(access.EditInvoices)).Put("/{id}", h.Invoices.Update)
				ir.With(perm(access.DeleteInvoices)).Delete("/{id}", h.Invoices.Delete)
			})
		})
	})
}
