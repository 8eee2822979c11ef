// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"cruisy/internal/middleware"
	"cruisy/internal/models"
	"cruisy/internal/render"
	"cruisy/internal/session"
	"cruisy/internal/store"
)

const (
	totpIssuer  = "Cruisy"
	badCodeMsg  = "Invalid code. Please try again."
	reviewHome  = "/admin/submissions"
	setupPath   = "/admin/2fa/setup"
	verifyPath  = "/admin/2fa/verify"
	setupTitle  = "Set Up Two-Factor Authentication"
	verifyTitle = "Two-Factor Authentication"
)

// Auth signs reviewers into the back office: password first, then a TOTP
// code from an authenticator app.
type Auth struct {
	renderer  *render.Renderer
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth returns the sign-in handlers. sessions is the back-office store.
func NewAuth(renderer *render.Renderer, sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{renderer: renderer, sessions: sessions, userStore: userStore}
}

// LoginPage shows the password form. Reviewers who are fully signed in go
// straight to the queue.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	if s := middleware.SessionFromCtx(r.Context()); s != nil && s.TwoFADone {
		http.Redirect(w, r, reviewHome, http.StatusSeeOther)
		return
	}
	a.form(w, r, "admin/login", "Sign In", http.StatusOK, "")
}

// LoginSubmit checks email and password and opens a session that still
// needs its second factor.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))

	user, err := a.userStore.FindByEmail(email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		a.form(w, r, "admin/login", "Sign In", http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if user == nil || !user.Role.CanReview() || !a.userStore.CheckPassword(user, r.FormValue("password")) {
		slog.Warn("admin login failed", "email", email)
		a.form(w, r, "admin/login", "Sign In", http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	sess := &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.Name(),
		Role:        string(user.Role),
	}
	if _, err := a.sessions.Create(r.Context(), w, sess); err != nil {
		serverError(w, "session create failed", err)
		return
	}

	next := verifyPath
	if user.Needs2FASetup() {
		next = setupPath
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// TwoFASetupPage issues a new TOTP secret to a reviewer who has not
// enrolled yet and shows it as a QR code.
func (a *Auth) TwoFASetupPage(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	if !user.Needs2FASetup() {
		http.Redirect(w, r, verifyPath, http.StatusSeeOther)
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{Issuer: totpIssuer, AccountName: user.Email})
	if err != nil {
		serverError(w, "totp generate failed", err)
		return
	}
	if err := a.userStore.SetTOTPSecret(user.ID, key.Secret()); err != nil {
		serverError(w, "save totp secret failed", err)
		return
	}
	a.enrollPage(w, r, key, "")
}

// TwoFAVerifyPage shows the code form.
func (a *Auth) TwoFAVerifyPage(w http.ResponseWriter, r *http.Request) {
	a.form(w, r, "admin/2fa_verify", verifyTitle, http.StatusOK, "")
}

// TwoFAVerifySubmit checks a TOTP code. The first good code after setup
// turns 2FA on for the account; every good code completes the sign-in.
func (a *Auth) TwoFAVerifySubmit(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	if user.TOTPSecret == nil {
		http.Redirect(w, r, setupPath, http.StatusSeeOther)
		return
	}
	secret := *user.TOTPSecret

	if !totp.Validate(strings.TrimSpace(r.FormValue("code")), secret) {
		if user.TOTPEnabled {
			a.form(w, r, "admin/2fa_verify", verifyTitle, http.StatusUnauthorized, badCodeMsg)
			return
		}
		// Still enrolling: show the same secret again.
		key, err := otp.NewKeyFromURL(keyURL(user.Email, secret))
		if err != nil {
			serverError(w, "rebuild totp key failed", err)
			return
		}
		a.enrollPage(w, r, key, badCodeMsg)
		return
	}

	if !user.TOTPEnabled {
		if err := a.userStore.EnableTOTP(user.ID); err != nil {
			serverError(w, "enable totp failed", err)
			return
		}
	}

	sess := middleware.SessionFromCtx(r.Context())
	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		serverError(w, "session update failed", err)
		return
	}
	if err := a.userStore.RecordLogin(user.ID); err != nil {
		slog.Warn("record login failed", "error", err, "email", user.Email)
	}

	slog.Info("reviewer signed in", "email", user.Email)
	http.Redirect(w, r, reviewHome, http.StatusSeeOther)
}

// Logout ends the back-office session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

// currentUser loads the reviewer behind the session. On failure it has
// already written a 500.
func (a *Auth) currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	sess := middleware.SessionFromCtx(r.Context())
	user, err := a.userStore.FindByID(sess.UserID)
	if err == nil && user == nil {
		err = store.ErrUserNotFound
	}
	if err != nil {
		serverError(w, "reviewer lookup failed", err)
		return nil, false
	}
	return user, true
}

// form renders a single-form sign-in page with an optional error.
func (a *Auth) form(w http.ResponseWriter, r *http.Request, name, title string, status int, errMsg string) {
	data := map[string]any{}
	if errMsg != "" {
		data["Error"] = errMsg
	}
	a.renderer.Page(w, r, name, &render.PageData{Title: title, Status: status, Data: data})
}

// enrollPage renders the setup page with key as a PNG QR code.
func (a *Auth) enrollPage(w http.ResponseWriter, r *http.Request, key *otp.Key, errMsg string) {
	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		serverError(w, "qr code generation failed", err)
		return
	}

	status := http.StatusOK
	data := map[string]any{
		"QRCode": base64.StdEncoding.EncodeToString(png),
		"Secret": key.Secret(),
	}
	if errMsg != "" {
		status = http.StatusUnauthorized
		data["Error"] = errMsg
	}
	a.renderer.Page(w, r, "admin/2fa_setup", &render.PageData{Title: setupTitle, Status: status, Data: data})
}

// keyURL rebuilds the otpauth URL of an existing secret.
func keyURL(email, secret string) string {
	u := url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + totpIssuer + ":" + email,
		RawQuery: url.Values{"secret": {secret}, "issuer": {totpIssuer}}.Encode(),
	}
	return u.String()
}

// serverError logs err and writes a bare 500.
func serverError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
