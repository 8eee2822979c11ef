// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

// captureLogs routes the default logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		handler   http.HandlerFunc
		wantCode  float64
		wantBytes float64
		wantLevel string
		wantCache string
	}{
		{
			name:      "implicit 200",
			path:      "/portal/setup",
			handler:   func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("hello")) },
			wantCode:  200,
			wantBytes: 5,
			wantLevel: "INFO",
		},
		{
			name:      "not found",
			path:      "/a/nobody",
			handler:   func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) },
			wantCode:  404,
			wantLevel: "INFO",
		},
		{
			name:      "server error",
			path:      "/portal/submit",
			handler:   func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) },
			wantCode:  502,
			wantLevel: "WARN",
		},
		{
			name:      "static asset",
			path:      "/static/js/portal.js",
			handler:   func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("js")) },
			wantCode:  200,
			wantBytes: 2,
			wantLevel: "DEBUG",
		},
		{
			name: "cached card",
			path: "/a/jane",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Cache", "HIT")
				w.Write([]byte("<html>"))
			},
			wantCode:  200,
			wantBytes: 6,
			wantLevel: "INFO",
			wantCache: "HIT",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)

			Logger(tt.handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("decode log line %q: %v", buf.String(), err)
			}
			if entry["status"] != tt.wantCode {
				t.Errorf("status: got %v, want %v", entry["status"], tt.wantCode)
			}
			if entry["bytes"] != tt.wantBytes {
				t.Errorf("bytes: got %v, want %v", entry["bytes"], tt.wantBytes)
			}
			if entry["level"] != tt.wantLevel {
				t.Errorf("level: got %v, want %v", entry["level"], tt.wantLevel)
			}
			if entry["path"] != tt.path {
				t.Errorf("path: got %v, want %v", entry["path"], tt.path)
			}
			if got, _ := entry["cache"].(string); got != tt.wantCache {
				t.Errorf("cache: got %q, want %q", got, tt.wantCache)
			}
		})
	}
}
