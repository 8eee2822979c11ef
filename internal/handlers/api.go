// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cruisy/internal/catalog"
	"cruisy/internal/models"
	"cruisy/internal/profile"
	"cruisy/internal/slug"
	"cruisy/internal/store"
	"cruisy/internal/wordpress"
)

// API serves the read-only JSON endpoints used by the marketing site.
type API struct {
	catalog     *catalog.Service
	profiles    *profile.Store
	submissions *store.SubmissionStore
	publicBase  string
}

// NewAPI creates a new API handler group. submissions may be nil, in which
// case every ambassador reads as not approved.
func NewAPI(cat *catalog.Service, profiles *profile.Store, submissions *store.SubmissionStore, publicBase string) *API {
	return &API{
		catalog:     cat,
		profiles:    profiles,
		submissions: submissions,
		publicBase:  publicBase,
	}
}

type itineraryList struct {
	Destination string             `json:"destination,omitempty"`
	Count       int                `json:"count"`
	Items       []models.Itinerary `json:"items"`
}

// Itineraries lists catalog itineraries, optionally filtered with
// ?destination=. A failed upstream fetch is a 502.
func (a *API) Itineraries(w http.ResponseWriter, r *http.Request) {
	list, err := a.catalog.List(r.Context())
	if err != nil {
		slog.Warn("itinerary fetch failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "itineraries are temporarily unavailable"})
		return
	}

	dest := r.URL.Query().Get("destination")
	items := wordpress.Filter(list, dest)
	writeJSON(w, http.StatusOK, itineraryList{
		Destination: dest,
		Count:       len(items),
		Items:       items,
	})
}

// Ambassador returns the public card of one ambassador. A failed upstream
// fetch yields a card without experiences.
func (a *API) Ambassador(w http.ResponseWriter, r *http.Request) {
	norm := slug.Normalize(chi.URLParam(r, "slug"))
	if !slug.Valid(norm) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "ambassador not found"})
		return
	}

	rec, err := a.profiles.Load(r.Context(), norm)
	if err != nil {
		slog.Error("profile load failed", "error", err, "slug", norm)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if rec == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "ambassador not found"})
		return
	}

	list, err := a.catalog.List(r.Context())
	if err != nil {
		slog.Warn("itinerary fetch failed", "error", err, "slug", norm)
	}

	approved := false
	if a.submissions != nil {
		if approved, err = a.submissions.IsApproved(norm); err != nil {
			slog.Warn("approval lookup failed", "error", err, "slug", norm)
		}
	}

	writeJSON(w, http.StatusOK, newAmbassadorCard(rec.Profile, rec.SelectedIDs, list, a.publicBase, approved))
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
