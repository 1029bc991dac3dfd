// Package router sets up all HTTP routes and middleware chains for the
// designhub API. Routes are grouped into public reads, session routes and
// admin-only writes.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"designhub/internal/handlers"
	"designhub/internal/middleware"
	"designhub/internal/session"
)

// Handlers bundles the handler groups mounted by New.
type Handlers struct {
	Auth     *handlers.Auth
	Catalog  *handlers.Catalog
	Settings *handlers.Settings
	Versions *handlers.Versions
	Figma    *handlers.Figma
}

// Options configures the middleware chain.
type Options struct {
	// SecureCookies sets the Secure flag on the CSRF cookie.
	SecureCookies bool

	// AuthLimiter throttles login and 2FA verification. Nil disables it.
	AuthLimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, admins middleware.AdminChecker, h Handlers, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health and metrics: no auth, no CSRF.
	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	throttle := func(next http.Handler) http.Handler {
		if opts.AuthLimiter == nil {
			return next
		}
		return opts.AuthLimiter.Middleware(next)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NewCSRF(opts.SecureCookies))

		r.Route("/auth", func(r chi.Router) {
			r.With(throttle).Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)

			// Requires a session but NOT completed 2FA.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/me", h.Auth.Me)
				r.With(throttle).Post("/2fa/verify", h.Auth.TwoFAVerify)
			})

			// Fully authenticated.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Use(middleware.Require2FA)
				r.Post("/2fa/setup", h.Auth.TwoFASetup)
				r.Post("/2fa/enable", h.Auth.TwoFAEnable)
			})
		})

		// Public catalog and settings reads.
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/categories", h.Catalog.Categories)
			r.Get("/components", h.Catalog.Components)
			r.Get("/components/{slug}", h.Catalog.Component)
			r.Get("/tokens", h.Catalog.Tokens)
		})
		r.Get("/settings", h.Settings.Get)

		// Admin only. The role is checked on every request.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)
			r.Use(middleware.RequireAdmin(admins))

			// Flat paths: mounting /settings would shadow the public GET.
			r.Put("/settings/palette", h.Settings.UpdatePalette)
			r.Put("/settings/typography", h.Settings.UpdateTypography)
			r.Post("/settings/typography/{role}/weights/{weight}", h.Settings.ToggleWeight)
			r.Put("/settings/branding", h.Settings.UpdateBranding)
			r.Post("/settings/reset", h.Settings.Reset)
			r.Post("/settings/logo", h.Settings.UploadLogo)
			r.Get("/settings/export", h.Settings.Export)
			r.Post("/settings/import", h.Settings.Import)

			r.Route("/versions", func(r chi.Router) {
				r.Get("/", h.Versions.List)
				r.Post("/", h.Versions.Create)
				r.Get("/active", h.Versions.Active)
				r.Post("/{id}/load", h.Versions.Load)
				r.Put("/{id}/figma-credentials", h.Versions.SetFigmaCredentials)
			})

			r.Post("/export/figma", h.Figma.Export)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
