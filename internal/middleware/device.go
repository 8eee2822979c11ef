// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	// DeviceCookieName identifies a browser across portal sessions so the
	// last active ambassador can be restored on the next visit.
	DeviceCookieName = "cr_device"

	deviceMaxAge = 365 * 24 * time.Hour

	deviceKey contextKey = "device"
)

// NewDevice ensures every request carries a device id cookie and exposes
// it through DeviceFromCtx.
func NewDevice(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(DeviceCookieName); err == nil {
				if parsed, err := uuid.Parse(c.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     DeviceCookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
					MaxAge:   int(deviceMaxAge.Seconds()),
				})
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), deviceKey, id)))
		})
	}
}

// DeviceFromCtx returns the device id set by NewDevice, or "".
func DeviceFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(deviceKey).(string)
	return id
}
