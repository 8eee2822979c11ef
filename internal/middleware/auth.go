// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"cruisy/internal/session"
)

type contextKey string

const (
	// SessionKey holds the back-office reviewer session.
	SessionKey contextKey = "session"
	// PortalKey holds the ambassador portal session.
	PortalKey contextKey = "portal"
)

// LoadSession places the session read from store into the request context
// under key. A missing or unreadable session leaves the context untouched.
func LoadSession(store *session.Store, key contextKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			switch {
			case err != nil:
				slog.Warn("session load failed", "cookie", store.CookieName(), "error", err)
			case data != nil:
				r = r.WithContext(context.WithValue(r.Context(), key, data))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// guard builds middleware that redirects to the location returned by
// check, or passes the request on when check returns "".
func guard(check func(ctx context.Context) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if to := check(r.Context()); to != "" {
				http.Redirect(w, r, to, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth sends visitors without a back-office session to the login
// page.
var RequireAuth = guard(func(ctx context.Context) string {
	if SessionFromCtx(ctx) == nil {
		return "/admin/login"
	}
	return ""
})

// Require2FA sends reviewers who have not passed the TOTP check to 2FA
// setup. It runs after RequireAuth.
var Require2FA = guard(func(ctx context.Context) string {
	if s := SessionFromCtx(ctx); s != nil && !s.TwoFADone {
		return "/admin/2fa/setup"
	}
	return ""
})

// RequireAmbassador sends visitors without a portal profile back to the
// landing page.
var RequireAmbassador = guard(func(ctx context.Context) string {
	if s := PortalFromCtx(ctx); s == nil || s.Slug == "" {
		return "/"
	}
	return ""
})

// SessionFromCtx returns the back-office session, or nil.
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}

// PortalFromCtx returns the ambassador portal session, or nil.
func PortalFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(PortalKey).(*session.Data)
	return data
}
