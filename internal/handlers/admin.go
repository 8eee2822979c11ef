// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"cruisy/internal/cache"
	"cruisy/internal/catalog"
	"cruisy/internal/middleware"
	"cruisy/internal/models"
	"cruisy/internal/profile"
	"cruisy/internal/render"
	"cruisy/internal/session"
	"cruisy/internal/storage"
	"cruisy/internal/store"
)

// statuses is the order of the status filter tabs.
var statuses = []models.SubmissionStatus{
	models.SubmissionPending,
	models.SubmissionApproved,
	models.SubmissionRejected,
}

// Admin groups the back-office submission review handlers.
type Admin struct {
	renderer      *render.Renderer
	sessions      *session.Store
	submissions   *store.SubmissionStore
	profiles      *profile.Store
	catalog       *catalog.Service
	storageClient *storage.Client
	cardCache     *cache.CardCache
	publicBase    string
}

// NewAdmin creates a new Admin handler group. storageClient and cardCache
// may be nil.
func NewAdmin(renderer *render.Renderer, sessions *session.Store, submissions *store.SubmissionStore,
	profiles *profile.Store, cat *catalog.Service, storageClient *storage.Client,
	cardCache *cache.CardCache, publicBase string) *Admin {
	return &Admin{
		renderer:      renderer,
		sessions:      sessions,
		submissions:   submissions,
		profiles:      profiles,
		catalog:       cat,
		storageClient: storageClient,
		cardCache:     cardCache,
		publicBase:    publicBase,
	}
}

// SubmissionsList shows submissions, newest first, optionally filtered by
// ?status=.
func (a *Admin) SubmissionsList(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !models.ValidStatus(status) {
		status = ""
	}

	subs, err := a.submissions.List(models.SubmissionStatus(status), 0)
	if err != nil {
		slog.Error("list submissions failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	counts, err := a.submissions.CountByStatus()
	if err != nil {
		slog.Error("count submissions failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.page(w, r, "admin/submissions", "Submissions", map[string]any{
		"Status":      status,
		"Statuses":    statuses,
		"Counts":      counts,
		"Submissions": subs,
	})
}

// SubmissionDetail shows one submission with a short-lived link to its
// archived copy.
func (a *Admin) SubmissionDetail(w http.ResponseWriter, r *http.Request) {
	sub, ok := a.find(w, r)
	if !ok {
		return
	}

	archiveURL := ""
	if a.storageClient != nil && sub.ArchiveKey != nil {
		u, err := a.storageClient.ArchiveURL(r.Context(), *sub.ArchiveKey, storage.DefaultLinkExpiry)
		if err != nil {
			slog.Warn("presign archive failed", "error", err, "id", sub.ID)
		} else {
			archiveURL = u
		}
	}

	a.page(w, r, "admin/submission", sub.FullName, map[string]any{
		"Submission": sub,
		"ArchiveURL": archiveURL,
	})
}

// SubmissionApprove approves a pending submission, drops the cached card
// and publishes the card JSON when object storage is configured.
func (a *Admin) SubmissionApprove(w http.ResponseWriter, r *http.Request) {
	sub, ok := a.review(w, r, models.SubmissionApproved)
	if !ok {
		return
	}

	ctx := r.Context()
	if a.cardCache != nil {
		a.cardCache.Invalidate(ctx, sub.Slug)
	}
	if a.storageClient != nil {
		if err := a.publish(r, sub.Slug); err != nil {
			slog.Warn("publish card failed", "error", err, "slug", sub.Slug)
			a.redirect(w, r, sub.ID, session.FlashWarning, "Approved, but the public card could not be published.")
			return
		}
	}

	slog.Info("submission approved", "id", sub.ID, "slug", sub.Slug)
	a.redirect(w, r, sub.ID, session.FlashSuccess, "Submission approved.")
}

// SubmissionReject rejects a pending submission and withdraws any
// published card.
func (a *Admin) SubmissionReject(w http.ResponseWriter, r *http.Request) {
	sub, ok := a.review(w, r, models.SubmissionRejected)
	if !ok {
		return
	}

	ctx := r.Context()
	if a.cardCache != nil {
		a.cardCache.Invalidate(ctx, sub.Slug)
	}
	if a.storageClient != nil {
		approved, err := a.submissions.IsApproved(sub.Slug)
		if err != nil {
			slog.Warn("approval lookup failed", "error", err, "slug", sub.Slug)
		} else if !approved {
			if err := a.storageClient.UnpublishCard(ctx, sub.Slug); err != nil {
				slog.Warn("unpublish card failed", "error", err, "slug", sub.Slug)
			}
		}
	}

	slog.Info("submission rejected", "id", sub.ID, "slug", sub.Slug)
	a.redirect(w, r, sub.ID, session.FlashSuccess, "Submission rejected.")
}

// CatalogRefresh drops the cached itinerary catalog and every cached card
// so the next visits show the current WordPress data.
func (a *Admin) CatalogRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	a.catalog.Refresh(ctx)
	if a.cardCache != nil {
		a.cardCache.InvalidateAll(ctx)
	}

	if sess := middleware.SessionFromCtx(ctx); sess != nil {
		slog.Info("catalog refreshed", "by", sess.Email)
		sess.SetFlash(session.FlashSuccess, "Itineraries will be reloaded from the website.")
		if err := a.sessions.Update(ctx, r, sess); err != nil {
			slog.Error("session update failed", "error", err)
		}
	}
	http.Redirect(w, r, "/admin/submissions", http.StatusSeeOther)
}

// review moves the submission in the URL out of pending. It writes the
// response and returns false when that is not possible.
func (a *Admin) review(w http.ResponseWriter, r *http.Request, status models.SubmissionStatus) (*models.Submission, bool) {
	sub, ok := a.find(w, r)
	if !ok {
		return nil, false
	}

	note := strings.TrimSpace(r.FormValue("note"))
	if msg := validateNote(note); msg != "" {
		a.redirect(w, r, sub.ID, session.FlashError, msg)
		return nil, false
	}

	sess := middleware.SessionFromCtx(r.Context())
	changed, err := a.submissions.Review(sub.ID, status, sess.UserID, note)
	if err != nil {
		slog.Error("review submission failed", "error", err, "id", sub.ID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	if !changed {
		a.redirect(w, r, sub.ID, session.FlashWarning, "This submission has already been reviewed.")
		return nil, false
	}
	return sub, true
}

// publish uploads the current card JSON of slug to the public bucket.
func (a *Admin) publish(r *http.Request, slugValue string) error {
	rec, err := a.profiles.Load(r.Context(), slugValue)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("profile %q not found", slugValue)
	}
	list, err := a.catalog.List(r.Context())
	if err != nil {
		return err
	}

	body, err := json.Marshal(newAmbassadorCard(rec.Profile, rec.SelectedIDs, list, a.publicBase, true))
	if err != nil {
		return err
	}
	url, err := a.storageClient.PublishCard(r.Context(), slugValue, body)
	if err != nil {
		return err
	}
	slog.Info("card published", "slug", slugValue, "url", url)
	return nil
}

// find loads the submission named by the {id} URL parameter.
func (a *Admin) find(w http.ResponseWriter, r *http.Request) (*models.Submission, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid submission ID", http.StatusBadRequest)
		return nil, false
	}

	sub, err := a.submissions.FindByID(id)
	if err != nil {
		slog.Error("find submission failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	if sub == nil {
		http.NotFound(w, r)
		return nil, false
	}
	return sub, true
}

// redirect queues a flash on the back-office session and returns to the
// submission detail page.
func (a *Admin) redirect(w http.ResponseWriter, r *http.Request, id uuid.UUID, kind, msg string) {
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		sess.SetFlash(kind, msg)
		if err := a.sessions.Update(r.Context(), r, sess); err != nil {
			slog.Error("session update failed", "error", err)
		}
	}
	http.Redirect(w, r, "/admin/submissions/"+id.String(), http.StatusSeeOther)
}

// page renders a back-office page and delivers any pending flash.
func (a *Admin) page(w http.ResponseWriter, r *http.Request, name, title string, data map[string]any) {
	var flashes []render.Flash
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		if kind, msg := sess.TakeFlash(); msg != "" {
			flashes = append(flashes, render.Flash{Type: kind, Message: msg})
			if err := a.sessions.Update(r.Context(), r, sess); err != nil {
				slog.Error("session update failed", "error", err)
			}
		}
	}

	a.renderer.Page(w, r, name, &render.PageData{
		Title:   title,
		Section: "submissions",
		Data:    data,
		Flashes: flashes,
	})
}
