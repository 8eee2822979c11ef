// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"strings"
)

// ContentSecurityPolicy allows the Tailwind CDN, Google Fonts and remote
// itinerary images. Cards may be framed by the marketing site.
const ContentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline' https://cdn.tailwindcss.com; " +
	"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com; " +
	"font-src 'self' https://fonts.gstatic.com; " +
	"img-src 'self' https: data:; " +
	"form-action 'self' mailto:; " +
	"frame-ancestors 'self' https://cruisytravel.com"

const hstsValue = "max-age=31536000; includeSubDomains"

// NewSecureHeaders returns middleware setting browser hardening headers.
// Portal and back-office pages carry personal data and are never cached or
// framed. hsts adds Strict-Transport-Security for HTTPS deployments.
func NewSecureHeaders(hsts bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			h.Set("Content-Security-Policy", ContentSecurityPolicy)
			if hsts {
				h.Set("Strict-Transport-Security", hstsValue)
			}

			if private(r.URL.Path) {
				h.Set("X-Frame-Options", "DENY")
				h.Set("Cache-Control", "no-store")
			} else {
				h.Set("X-Frame-Options", "SAMEORIGIN")
			}

			next.ServeHTTP(w, r)
		})
	}
}

func private(path string) bool {
	return strings.HasPrefix(path, "/portal") || strings.HasPrefix(path, "/admin")
}
