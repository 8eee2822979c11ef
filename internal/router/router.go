// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// Cruisy portal. Routes are grouped into the ambassador portal, public
// cards, the JSON API, and the back office.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"cruisy/internal/handlers"
	"cruisy/internal/middleware"
	"cruisy/internal/session"
	"cruisy/web"
)

// Options carries the settings the router needs beyond handlers.
type Options struct {
	// SecureCookies marks device and CSRF cookies HTTPS-only.
	SecureCookies bool

	// CORSOrigins may call the JSON API from a browser.
	CORSOrigins []string

	// Limiter throttles login, signup and submission posts. Nil disables
	// throttling.
	Limiter *middleware.RateLimiter
}

// Handlers bundles the handler groups mounted by New.
type Handlers struct {
	Portal *handlers.Portal
	Public *handlers.Public
	API    *handlers.API
	Admin  *handlers.Admin
	Auth   *handlers.Auth
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(portalSessions, adminSessions *session.Store, h Handlers, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.NewSecureHeaders(opts.SecureCookies))

	r.Get("/health", healthHandler)

	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	throttle := func(next http.Handler) http.Handler { return next }
	if opts.Limiter != nil {
		throttle = opts.Limiter.Middleware
	}

	// Read-only JSON API for the marketing site. No cookies, no CSRF.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodHead},
			MaxAge:         600,
		}).Handler)
		r.Get("/itineraries", h.API.Itineraries)
		r.Get("/ambassadors/{slug}", h.API.Ambassador)
	})

	// Ambassador portal and public cards.
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewDevice(opts.SecureCookies))
		r.Use(middleware.NewCSRF(opts.SecureCookies))
		r.Use(middleware.LoadSession(portalSessions, middleware.PortalKey))

		r.Get("/", h.Portal.Landing)
		r.With(throttle).Post("/login", h.Portal.Login)
		r.With(throttle).Post("/signup", h.Portal.Signup)
		r.Post("/logout", h.Portal.Logout)

		r.Get("/a/{slug}", h.Public.Card)

		r.Route("/portal", func(r chi.Router) {
			r.Use(middleware.RequireAmbassador)

			r.Get("/", h.Portal.Home)
			r.Get("/setup", h.Portal.SetupPage)
			r.Post("/setup", h.Portal.SetupSubmit)
			r.Get("/experiences", h.Portal.ExperiencesPage)
			r.Post("/experiences/{id}/toggle", h.Portal.ToggleExperience)
			r.Get("/preview", h.Portal.PreviewPage)
			r.Get("/disclosure", h.Portal.DisclosurePage)
			r.Post("/disclosure", h.Portal.DisclosureSubmit)
			r.Get("/submit", h.Portal.SubmitPage)
			r.With(throttle).Post("/submit", h.Portal.SubmitSend)
			r.Get("/submitted", h.Portal.SubmittedPage)
			r.Post("/submitted/dismiss", h.Portal.DismissSubmitted)
		})
	})

	// Back office: reviewers sign in with password + TOTP.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NewCSRF(opts.SecureCookies))
		r.Use(middleware.LoadSession(adminSessions, middleware.SessionKey))

		r.Get("/login", h.Auth.LoginPage)
		r.With(throttle).Post("/login", h.Auth.LoginSubmit)
		r.Post("/logout", h.Auth.Logout)

		// 2FA: requires auth but NOT completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/2fa/setup", h.Auth.TwoFASetupPage)
			r.Get("/2fa/verify", h.Auth.TwoFAVerifyPage)
			r.With(throttle).Post("/2fa/verify", h.Auth.TwoFAVerifySubmit)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/", redirectTo("/admin/submissions"))
			r.Route("/submissions", func(r chi.Router) {
				r.Get("/", h.Admin.SubmissionsList)
				r.Get("/{id}", h.Admin.SubmissionDetail)
				r.Post("/{id}/approve", h.Admin.SubmissionApprove)
				r.Post("/{id}/reject", h.Admin.SubmissionReject)
			})
			r.Post("/catalog/refresh", h.Admin.CatalogRefresh)
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

func redirectTo(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}
