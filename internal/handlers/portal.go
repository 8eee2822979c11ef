// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"cruisy/internal/affiliate"
	"cruisy/internal/cache"
	"cruisy/internal/catalog"
	"cruisy/internal/middleware"
	"cruisy/internal/models"
	"cruisy/internal/profile"
	"cruisy/internal/render"
	"cruisy/internal/session"
	"cruisy/internal/slug"
	"cruisy/internal/storage"
	"cruisy/internal/store"
	"cruisy/internal/submission"
	"cruisy/internal/theme"
	"cruisy/internal/view"
	"cruisy/internal/wordpress"
)

// fieldLabels turns submission field names into form labels.
var fieldLabels = map[string]string{
	submission.FieldFullName:    "Full name",
	submission.FieldSlug:        "Slug",
	submission.FieldEmail:       "Email",
	submission.FieldBio:         "Bio",
	submission.FieldExperiences: "At least one experience",
}

// Portal groups the ambassador-facing handlers: login/signup, the five
// portal views and the submission flow.
type Portal struct {
	renderer      *render.Renderer
	sessions      *session.Store
	profiles      *profile.Store
	catalog       *catalog.Service
	dispatcher    *submission.Dispatcher
	submissions   *store.SubmissionStore
	storageClient *storage.Client
	cardCache     *cache.CardCache
	publicBase    string
}

// NewPortal creates a new Portal handler group. storageClient and cardCache
// may be nil.
func NewPortal(renderer *render.Renderer, sessions *session.Store, profiles *profile.Store, cat *catalog.Service,
	dispatcher *submission.Dispatcher, submissions *store.SubmissionStore, storageClient *storage.Client,
	cardCache *cache.CardCache, publicBase string) *Portal {
	return &Portal{
		renderer:      renderer,
		sessions:      sessions,
		profiles:      profiles,
		catalog:       cat,
		dispatcher:    dispatcher,
		submissions:   submissions,
		storageClient: storageClient,
		cardCache:     cardCache,
		publicBase:    publicBase,
	}
}

// deviceProfiles returns the profile store scoped to the requesting browser.
func (p *Portal) deviceProfiles(r *http.Request) *profile.Store {
	return p.profiles.Scoped(middleware.DeviceFromCtx(r.Context()))
}

// Landing renders the login/signup page. A browser with a live portal
// session, or whose device still points at a stored profile, goes
// straight to the portal.
func (p *Portal) Landing(w http.ResponseWriter, r *http.Request) {
	if sess := middleware.PortalFromCtx(r.Context()); sess != nil && sess.Slug != "" {
		http.Redirect(w, r, "/portal", http.StatusSeeOther)
		return
	}

	rec, err := p.deviceProfiles(r).Restore(r.Context())
	if err != nil {
		slog.Warn("restore device session failed", "error", err)
	}
	if rec != nil {
		if err := p.start(w, r, rec.Profile.Slug); err != nil {
			slog.Error("session create failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/portal", http.StatusSeeOther)
		return
	}

	mode := "login"
	if r.URL.Query().Get("mode") == "signup" {
		mode = "signup"
	}
	p.landing(w, r, http.StatusOK, mode, "", "", "", "")
}

// Login restores a stored profile by slug. The password is not checked.
func (p *Portal) Login(w http.ResponseWriter, r *http.Request) {
	rawSlug := r.FormValue("slug")
	norm := slug.Normalize(rawSlug)
	if norm == "" {
		p.landing(w, r, http.StatusUnprocessableEntity, "login", "Enter your ambassador slug.", "", rawSlug, "")
		return
	}

	profiles := p.deviceProfiles(r)
	rec, err := profiles.Load(r.Context(), norm)
	if err != nil {
		slog.Error("profile load failed", "error", err, "slug", norm)
		p.landing(w, r, http.StatusInternalServerError, "login", "An unexpected error occurred.", "", rawSlug, "")
		return
	}
	if rec == nil {
		p.landing(w, r, http.StatusNotFound, "login", "No ambassador profile found for that slug.", "", rawSlug, "")
		return
	}

	if err := profiles.Activate(r.Context(), norm); err != nil {
		slog.Error("profile activate failed", "error", err, "slug", norm)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := p.start(w, r, norm); err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("ambassador logged in", "slug", norm)
	http.Redirect(w, r, "/portal", http.StatusSeeOther)
}

// Signup registers a new profile with the default bio, destination and
// theme, then starts a portal session for it.
func (p *Portal) Signup(w http.ResponseWriter, r *http.Request) {
	fullName := strings.TrimSpace(r.FormValue("full_name"))
	rawSlug := r.FormValue("slug")
	email := strings.TrimSpace(r.FormValue("email"))
	norm := slug.Normalize(rawSlug)

	if msg := validateSignup(fullName, norm, email); msg != "" {
		p.landing(w, r, http.StatusUnprocessableEntity, "signup", msg, fullName, rawSlug, email)
		return
	}

	profiles := p.deviceProfiles(r)
	existing, err := profiles.Load(r.Context(), norm)
	if err != nil {
		slog.Error("profile load failed", "error", err, "slug", norm)
		p.landing(w, r, http.StatusInternalServerError, "signup", "An unexpected error occurred.", fullName, rawSlug, email)
		return
	}
	if existing != nil {
		p.landing(w, r, http.StatusConflict, "signup", "That slug is already registered. Log in instead.", fullName, rawSlug, email)
		return
	}

	prof := profile.New(fullName, norm, email)
	if err := prof.SetPassword(r.FormValue("password")); err != nil {
		slog.Error("password hash failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := profiles.Save(r.Context(), norm, prof, profile.Selection{}); err != nil {
		slog.Error("profile save failed", "error", err, "slug", norm)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := p.start(w, r, norm); err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("ambassador signed up", "slug", norm)
	http.Redirect(w, r, view.Setup.Path(), http.StatusSeeOther)
}

// Logout forgets the device's current profile and ends the portal session.
// The stored profile is kept.
func (p *Portal) Logout(w http.ResponseWriter, r *http.Request) {
	if err := p.deviceProfiles(r).Clear(r.Context()); err != nil {
		slog.Warn("profile clear failed", "error", err)
	}
	if err := p.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Home redirects to the active view.
func (p *Portal) Home(w http.ResponseWriter, r *http.Request) {
	sess := middleware.PortalFromCtx(r.Context())
	http.Redirect(w, r, sess.View.Current().Path(), http.StatusSeeOther)
}

// SetupPage renders the profile form.
func (p *Portal) SetupPage(w http.ResponseWriter, r *http.Request) {
	sess, rec, ok := p.enter(w, r, view.Setup)
	if !ok {
		return
	}
	p.page(w, r, sess, rec, view.Setup, http.StatusOK, map[string]any{})
}

// SetupSubmit saves the profile form.
func (p *Portal) SetupSubmit(w http.ResponseWriter, r *http.Request) {
	sess, rec, ok := p.enter(w, r, view.Setup)
	if !ok {
		return
	}

	prof := rec.Profile
	prof.FullName = strings.TrimSpace(r.FormValue("full_name"))
	prof.Email = strings.TrimSpace(r.FormValue("email"))
	prof.Bio = strings.TrimSpace(r.FormValue("bio"))
	prof.Destination = r.FormValue("destination")
	prof.Theme = r.FormValue("theme")

	if msg := validateProfile(prof.FullName, prof.Email, prof.Bio, prof.Destination, prof.Theme); msg != "" {
		rec.Profile = prof
		p.page(w, r, sess, rec, view.Setup, http.StatusUnprocessableEntity, map[string]any{"Error": msg})
		return
	}

	if !p.save(w, r, prof, rec.SelectedIDs) {
		return
	}
	p.redirect(w, r, sess, view.Setup.Path(), session.FlashSuccess, "Profile saved.")
}

// ExperiencesPage lists itineraries matching the ambassador's home market.
// A failed fetch renders an empty list with a warning banner.
func (p *Portal) ExperiencesPage(w http.ResponseWriter, r *http.Request) {
	sess, rec, ok := p.enter(w, r, view.Experiences)
	if !ok {
		return
	}

	list, err := p.catalog.List(r.Context())
	if err != nil {
		slog.Warn("itinerary fetch failed", "error", err)
	}

	p.page(w, r, sess, rec, view.Experiences, http.StatusOK, map[string]any{
		"Items":       wordpress.Filter(list, rec.Profile.Destination),
		"FetchError":  err != nil,
		"Destination": rec.Profile.Destination,
	})
}

// ToggleExperience adds or removes one itinerary id from the selection.
func (p *Portal) ToggleExperience(w http.ResponseWriter, r *http.Request) {
	sess, rec, ok := p.enter(w, r, view.Experiences)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid itinerary ID", http.StatusBadRequest)
		return
	}

	sel := rec.SelectedIDs.Toggle(id)
	if !p.save(w, r, rec.Profile, sel) {
		return
	}
	p.redirect(w, r, sess, view.Experiences.Path(), "", "")
}

// PreviewPage renders the digital card as travellers will see it.
func (p *Portal) PreviewPage(w http.ResponseWriter, r *http.Request) {
	sess, rec, ok := p.enter(w, r, view.Preview)
	if !ok {
		return
	}

	list, err := p.catalog.List(r.Context())
	if err != nil {
		slog.Warn("itinerary fetch failed", "error", err)
		sess.SetFlash(session.FlashWarning, "Experiences could not be loaded right now; the card may be incomplete.")
	}

	p.page(w, r, sess, rec, view.Preview, http.StatusOK, map[string]any{
		"Items":           catalog.Lookup(list, rec.SelectedIDs),
		"Theme":           theme.Lookup(rec.Profile.Theme),
		"AffiliateFormat": affiliate.Format(rec.Profile.Slug),
	})
}

// DisclosurePage renders the affiliate disclosure.
func (p *Portal) DisclosurePage(w http.ResponseWriter, r *http.Request) {
	sess, rec, ok := p.enter(w, r, view.Disclosure)
	if !ok {
		return
	}
	p.page(w, r, sess, rec, view.Disclosure, http.StatusOK, map[string]any{
		"Accepted": sess.View.DisclosureAccepted,
	})
}

// DisclosureSubmit records the disclosure checkbox and moves on to submit.
func (p *Portal) DisclosureSubmit(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := p.enter(w, r, view.Disclosure)
	if !ok {
		return
	}

	if r.FormValue("accept") != "yes" {
		p.redirect(w, r, sess, view.Disclosure.Path(), session.FlashWarning, "Please accept the disclosure to continue.")
		return
	}

	sess.View.Accept()
	if err := sess.View.Navigate(view.Submit); err != nil {
		slog.Error("navigate to submit failed", "error", err)
	}
	p.redirect(w, r, sess, view.Submit.Path(), "", "")
}

// SubmitPage shows the composed submission text before sending.
func (p *Portal) SubmitPage(w http.ResponseWriter, r *http.Request) {
	sess, rec, ok := p.enter(w, r, view.Submit)
	if !ok {
		return
	}

	list, err := p.catalog.List(r.Context())
	if err != nil {
		slog.Warn("itinerary fetch failed", "error", err)
		sess.SetFlash(session.FlashWarning, "Experiences could not be loaded right now; try again before submitting.")
	}

	draft := submission.New(rec.Profile, rec.SelectedIDs, list, p.publicBase)
	p.page(w, r, sess, rec, view.Submit, http.StatusOK, map[string]any{
		"Text":     draft.Text,
		"Missing":  missingLabels(submission.Validate(rec.Profile, rec.SelectedIDs)),
		"Channels": p.dispatcher.Channels(),
	})
}

// SubmitSend validates, delivers and records the submission.
func (p *Portal) SubmitSend(w http.ResponseWriter, r *http.Request) {
	sess, rec, ok := p.enter(w, r, view.Submit)
	if !ok {
		return
	}
	ctx := r.Context()

	list, fetchErr := p.catalog.List(ctx)
	if err := submission.Validate(rec.Profile, rec.SelectedIDs); err != nil {
		draft := submission.New(rec.Profile, rec.SelectedIDs, list, p.publicBase)
		p.page(w, r, sess, rec, view.Submit, http.StatusUnprocessableEntity, map[string]any{
			"Text":     draft.Text,
			"Missing":  missingLabels(err),
			"Channels": p.dispatcher.Channels(),
		})
		return
	}
	if fetchErr != nil {
		slog.Warn("itinerary fetch failed", "error", fetchErr)
		p.redirect(w, r, sess, view.Submit.Path(), session.FlashError, "Experiences could not be loaded right now. Please try again in a few minutes.")
		return
	}

	draft := submission.New(rec.Profile, rec.SelectedIDs, list, p.publicBase)
	if len(draft.Items) == 0 {
		p.redirect(w, r, sess, view.Experiences.Path(), session.FlashWarning, "Your selected experiences are no longer available. Please pick again.")
		return
	}

	res, sendErr := p.dispatcher.Submit(ctx, draft)
	if sendErr != nil {
		res = submission.Result{Channel: submission.ChannelUndelivered, Text: draft.Text}
	}

	sub := &models.Submission{
		Slug:        rec.Profile.Slug,
		FullName:    rec.Profile.FullName,
		Email:       rec.Profile.Email,
		Destination: rec.Profile.Destination,
		SelectedIDs: draft.SelectedIDs(),
		Channel:     res.Channel,
		Payload:     draft.Text,
	}
	ref := ""
	if err := p.submissions.Create(sub); err != nil {
		slog.Error("record submission failed", "error", err, "slug", sub.Slug)
		if sendErr != nil {
			p.redirect(w, r, sess, view.Submit.Path(), session.FlashError, "We could not send your submission. Please try again.")
			return
		}
	} else {
		ref = sub.ID.String()
		p.archive(r, sub)
	}

	kind, flash := "", ""
	if sendErr != nil {
		kind, flash = session.FlashWarning, "We saved your submission but could not notify the team. They will still review it."
	}

	sess.LastSubmissionID = ref
	sess.LastChannel = res.Channel
	sess.MailtoURL = res.MailtoURL
	sess.ClipboardText = res.Text
	sess.View.MarkSubmitted()
	slog.Info("submission received", "slug", sub.Slug, "id", ref, "channel", res.Channel)
	p.redirect(w, r, sess, view.Submitted.Path(), kind, flash)
}

// SubmittedPage shows the confirmation for the last submission.
func (p *Portal) SubmittedPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.PortalFromCtx(r.Context())
	if sess.View.Current() != view.Submitted {
		http.Redirect(w, r, sess.View.Current().Path(), http.StatusSeeOther)
		return
	}
	rec, ok := p.record(w, r, sess)
	if !ok {
		return
	}

	p.page(w, r, sess, rec, view.Submitted, http.StatusOK, map[string]any{
		"SubmissionID":  sess.LastSubmissionID,
		"Channel":       sess.LastChannel,
		"MailtoURL":     sess.MailtoURL,
		"ClipboardText": sess.ClipboardText,
	})
}

// DismissSubmitted closes the confirmation and returns to setup.
func (p *Portal) DismissSubmitted(w http.ResponseWriter, r *http.Request) {
	sess := middleware.PortalFromCtx(r.Context())
	sess.View.Dismiss()
	sess.LastChannel = ""
	sess.MailtoURL = ""
	sess.ClipboardText = ""
	p.redirect(w, r, sess, view.Setup.Path(), "", "")
}

// start creates a fresh portal session for slug on the initial view.
func (p *Portal) start(w http.ResponseWriter, r *http.Request, norm string) error {
	_, err := p.sessions.Create(r.Context(), w, &session.Data{
		Slug: norm,
		View: view.Initial(),
	})
	return err
}

// enter moves the session to v and loads the ambassador's record. It
// writes a redirect and returns false when the view is not reachable.
func (p *Portal) enter(w http.ResponseWriter, r *http.Request, v view.View) (*session.Data, *profile.Record, bool) {
	sess := middleware.PortalFromCtx(r.Context())

	if sess.View.Current() == view.Submitted {
		http.Redirect(w, r, view.Submitted.Path(), http.StatusSeeOther)
		return nil, nil, false
	}

	if err := sess.View.Navigate(v); err != nil {
		if errors.Is(err, view.ErrDisclosureRequired) {
			p.redirect(w, r, sess, view.Disclosure.Path(), session.FlashWarning, "Please accept the disclosure before submitting.")
			return nil, nil, false
		}
		http.NotFound(w, r)
		return nil, nil, false
	}

	rec, ok := p.record(w, r, sess)
	if !ok {
		return nil, nil, false
	}
	return sess, rec, true
}

// record loads the stored profile of the session. A profile that vanished
// ends the session.
func (p *Portal) record(w http.ResponseWriter, r *http.Request, sess *session.Data) (*profile.Record, bool) {
	rec, err := p.profiles.Load(r.Context(), sess.Slug)
	if err != nil {
		slog.Error("profile load failed", "error", err, "slug", sess.Slug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	if rec == nil {
		p.sessions.Destroy(r.Context(), w, r)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil, false
	}
	return rec, true
}

// save persists the profile and selection and drops the cached public card.
func (p *Portal) save(w http.ResponseWriter, r *http.Request, prof profile.Profile, sel profile.Selection) bool {
	if err := p.deviceProfiles(r).Save(r.Context(), prof.Slug, prof, sel); err != nil {
		slog.Error("profile save failed", "error", err, "slug", prof.Slug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return false
	}
	if p.cardCache != nil {
		p.cardCache.Invalidate(r.Context(), prof.Slug)
	}
	return true
}

// archive copies the submission text to the private bucket when storage
// is configured. Failures are logged; the database row stays authoritative.
func (p *Portal) archive(r *http.Request, sub *models.Submission) {
	if p.storageClient == nil {
		return
	}
	key, err := p.storageClient.Archive(r.Context(), sub.Slug, sub.ID.String(), sub.Payload)
	if err != nil {
		slog.Warn("archive submission failed", "error", err, "id", sub.ID)
		return
	}
	if err := p.submissions.SetArchiveKey(sub.ID, key); err != nil {
		slog.Warn("save archive key failed", "error", err, "id", sub.ID)
	}
}

// redirect persists the session and redirects. A non-empty msg is queued
// as a flash of the given kind.
func (p *Portal) redirect(w http.ResponseWriter, r *http.Request, sess *session.Data, target, kind, msg string) {
	if msg != "" {
		sess.SetFlash(kind, msg)
	}
	if err := p.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// page renders a portal view with the profile data every view shares and
// persists the navigation state.
func (p *Portal) page(w http.ResponseWriter, r *http.Request, sess *session.Data, rec *profile.Record, v view.View, status int, data map[string]any) {
	var flashes []render.Flash
	if kind, msg := sess.TakeFlash(); msg != "" {
		flashes = append(flashes, render.Flash{Type: kind, Message: msg})
	}
	if err := p.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
	}

	data["Profile"] = rec.Profile
	data["Selection"] = rec.SelectedIDs
	data["PublicURL"] = slug.PublicURL(p.publicBase, rec.Profile.Slug)

	p.renderer.Page(w, r, "portal/"+string(v), &render.PageData{
		Title:   v.Label(),
		Section: string(v),
		Portal:  sess,
		Status:  status,
		Data:    data,
		Flashes: flashes,
	})
}

// landing renders the login/signup page with the submitted values.
func (p *Portal) landing(w http.ResponseWriter, r *http.Request, status int, mode, msg, fullName, rawSlug, email string) {
	title := "Log in"
	if mode == "signup" {
		title = "Become an Ambassador"
	}
	p.renderer.Page(w, r, "portal/landing", &render.PageData{
		Title:  title,
		Status: status,
		Data: map[string]any{
			"Mode":     mode,
			"Error":    msg,
			"FullName": fullName,
			"Slug":     rawSlug,
			"Email":    email,
		},
	})
}

// missingLabels lists the form labels of a *submission.ValidationError.
func missingLabels(err error) []string {
	var verr *submission.ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	labels := make([]string, len(verr.Fields))
	for i, f := range verr.Fields {
		labels[i] = fieldLabels[f]
	}
	return labels
}
