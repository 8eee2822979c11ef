// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cruisy/internal/cache"
	"cruisy/internal/catalog"
	"cruisy/internal/profile"
	"cruisy/internal/render"
	"cruisy/internal/slug"
	"cruisy/internal/store"
	"cruisy/internal/theme"
)

// Public serves ambassador digital cards to travellers. Rendered cards are
// kept in the Valkey card cache until the profile changes or a reviewer
// acts on a submission.
type Public struct {
	renderer    *render.Renderer
	profiles    *profile.Store
	catalog     *catalog.Service
	submissions *store.SubmissionStore
	cardCache   *cache.CardCache
	publicBase  string
}

// NewPublic creates a new Public handler group. submissions and cardCache
// may be nil.
func NewPublic(renderer *render.Renderer, profiles *profile.Store, cat *catalog.Service,
	submissions *store.SubmissionStore, cardCache *cache.CardCache, publicBase string) *Public {
	return &Public{
		renderer:    renderer,
		profiles:    profiles,
		catalog:     cat,
		submissions: submissions,
		cardCache:   cardCache,
		publicBase:  publicBase,
	}
}

// Card renders the public card for a slug.
func (p *Public) Card(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	norm := slug.Normalize(chi.URLParam(r, "slug"))
	if !slug.Valid(norm) {
		http.NotFound(w, r)
		return
	}

	if p.cardCache != nil {
		if cached, ok := p.cardCache.Get(ctx, norm); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Set("X-Cache", "HIT")
			w.Write(cached)
			return
		}
	}

	rec, err := p.profiles.Load(ctx, norm)
	if err != nil {
		slog.Error("profile load failed", "error", err, "slug", norm)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if rec == nil {
		http.NotFound(w, r)
		return
	}

	list, fetchErr := p.catalog.List(ctx)
	if fetchErr != nil {
		slog.Warn("itinerary fetch failed", "error", fetchErr, "slug", norm)
	}

	var buf bytes.Buffer
	err = p.renderer.Render(&buf, "portal/card", &render.PageData{
		Title: rec.Profile.FullName,
		Data: map[string]any{
			"Profile":   rec.Profile,
			"Theme":     theme.Lookup(rec.Profile.Theme),
			"Items":     catalog.Lookup(list, rec.SelectedIDs),
			"Approved":  p.approved(norm),
			"PublicURL": slug.PublicURL(p.publicBase, norm),
		},
	})
	if err != nil {
		slog.Error("render card failed", "error", err, "slug", norm)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// A card rendered from a failed fetch is missing its experiences.
	if p.cardCache != nil && fetchErr == nil {
		p.cardCache.Set(ctx, norm, buf.Bytes())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Cache", "MISS")
	w.Write(buf.Bytes())
}

// approved reports whether a reviewer approved the slug. Lookup failures
// read as not approved.
func (p *Public) approved(norm string) bool {
	if p.submissions == nil {
		return false
	}
	ok, err := p.submissions.IsApproved(norm)
	if err != nil {
		slog.Warn("approval lookup failed", "error", err, "slug", norm)
		return false
	}
	return ok
}
