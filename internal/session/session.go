// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session keeps HTTP sessions as JSON documents in Valkey behind
// an opaque cookie. The ambassador portal and the back office each get a
// Store with its own cookie name, so signing into one never touches the
// other.
package session

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"cruisy/internal/view"
)

const (
	// PortalCookie names the ambassador portal session cookie.
	PortalCookie = "cr_portal"
	// AdminCookie names the back-office session cookie.
	AdminCookie = "cr_admin"

	// DefaultTTL is the idle lifetime of a session. Every write renews it.
	DefaultTTL = 24 * time.Hour
)

// ErrNoSession is returned by Update when the request carries no session
// cookie.
var ErrNoSession = errors.New("session: no session cookie")

// Flash types understood by the page layout.
const (
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashError   = "error"
)

// Data is the session document. Portal sessions fill the ambassador
// fields; back-office sessions fill the reviewer fields.
type Data struct {
	Slug             string     `json:"slug,omitempty"`
	View             view.State `json:"view"`
	LastSubmissionID string     `json:"last_submission_id,omitempty"`
	LastChannel      string     `json:"last_channel,omitempty"`
	MailtoURL        string     `json:"mailto_url,omitempty"`
	ClipboardText    string     `json:"clipboard_text,omitempty"`

	UserID      uuid.UUID `json:"user_id,omitempty"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	Role        string    `json:"role,omitempty"`
	TwoFADone   bool      `json:"two_fa_done,omitempty"`

	Flash     string    `json:"flash,omitempty"`
	FlashType string    `json:"flash_type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SetFlash queues a one-time message for the next rendered page.
func (d *Data) SetFlash(kind, msg string) {
	d.FlashType, d.Flash = kind, msg
}

// TakeFlash returns and clears the pending flash. An untyped flash reads
// as FlashSuccess.
func (d *Data) TakeFlash() (kind, msg string) {
	kind, msg = d.FlashType, d.Flash
	d.FlashType, d.Flash = "", ""
	if kind == "" {
		kind = FlashSuccess
	}
	return kind, msg
}

// Store reads and writes sessions for one cookie name.
type Store struct {
	client *redis.Client
	cookie string
	ttl    time.Duration
	secure bool
}

// NewStore returns a Store for cookie. secure marks the cookie HTTPS-only.
func NewStore(client *redis.Client, cookie string, secure bool) *Store {
	return &Store{client: client, cookie: cookie, ttl: DefaultTTL, secure: secure}
}

// CookieName returns the cookie this store manages.
func (s *Store) CookieName() string { return s.cookie }

func (s *Store) key(id string) string {
	return "session:" + s.cookie + ":" + id
}

// id returns the session id carried by r, or "".
func (s *Store) id(r *http.Request) string {
	c, err := r.Cookie(s.cookie)
	if err != nil {
		return ""
	}
	return c.Value
}

func (s *Store) save(ctx context.Context, id string, data *Data) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.client.Set(ctx, s.key(id), payload, s.ttl).Err()
}

func (s *Store) setCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// Create stores data under a fresh random id and sets the cookie on w.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	id := rand.Text()
	data.CreatedAt = time.Now().UTC()
	if err := s.save(ctx, id, data); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	s.setCookie(w, id, int(s.ttl.Seconds()))
	return id, nil
}

// Get loads the session named by the request cookie. It returns nil, nil
// when there is no cookie or the session has expired.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	id := s.id(r)
	if id == "" {
		return nil, nil
	}

	payload, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &data, nil
}

// Update overwrites the session named by the request cookie and renews
// its TTL.
func (s *Store) Update(ctx context.Context, r *http.Request, data *Data) error {
	id := s.id(r)
	if id == "" {
		return ErrNoSession
	}
	if err := s.save(ctx, id, data); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// Destroy deletes the session and expires the cookie. A request without a
// cookie is a no-op.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id := s.id(r)
	if id == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	s.setCookie(w, "", -1)
	return nil
}
