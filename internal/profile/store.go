// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cruisy/internal/kv"
	"cruisy/internal/slug"
)

const (
	// userKeyPrefix prefixes the normalized slug to form a profile key.
	userKeyPrefix = "cruisy_user_"

	// currentKey holds the slug of the profile last active on a device.
	currentKey = "cruisy_current_session_slug"
)

// ErrEmptySlug is returned by Save when the slug normalizes to nothing.
var ErrEmptySlug = errors.New("profile: slug is empty")

// Record is the JSON blob persisted per slug.
type Record struct {
	Profile     Profile   `json:"profile"`
	SelectedIDs Selection `json:"selectedIds"`
	SavedAt     time.Time `json:"savedAt,omitempty"`
}

// Store persists profiles keyed by slug and tracks which slug is the
// current session. There is no versioning: the last write wins.
type Store struct {
	kv     kv.Storage
	device string
}

// NewStore creates a profile store on top of the given storage adapter.
func NewStore(storage kv.Storage) *Store {
	return &Store{kv: storage}
}

// Scoped returns a store sharing the same storage whose current-session
// pointer belongs to the given device. Profiles stay shared.
func (s *Store) Scoped(device string) *Store {
	return &Store{kv: s.kv, device: device}
}

// Key returns the storage key for a slug (normalized first).
func Key(rawSlug string) string {
	return userKeyPrefix + slug.Normalize(rawSlug)
}

func (s *Store) currentKey() string {
	if s.device == "" {
		return currentKey
	}
	return currentKey + ":" + s.device
}

// Load returns the stored record for slug, or nil when nothing usable is
// stored. A corrupt blob is logged and treated as absent.
func (s *Store) Load(ctx context.Context, rawSlug string) (*Record, error) {
	norm := slug.Normalize(rawSlug)
	if norm == "" {
		return nil, nil
	}

	raw, err := s.kv.Get(ctx, Key(norm))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("profile load %s: %w", norm, err)
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		slog.Warn("discarding corrupt profile record", "slug", norm, "error", err)
		return nil, nil
	}

	rec.Profile.Slug = norm
	rec.SelectedIDs = rec.SelectedIDs.Dedupe()
	return &rec, nil
}

// Save writes the profile and selection under slug and makes slug the
// current session.
func (s *Store) Save(ctx context.Context, rawSlug string, p Profile, sel Selection) error {
	norm := slug.Normalize(rawSlug)
	if norm == "" {
		return ErrEmptySlug
	}
	p.Slug = norm

	payload, err := json.Marshal(Record{
		Profile:     p,
		SelectedIDs: sel.Dedupe(),
		SavedAt:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("profile marshal: %w", err)
	}

	if err := s.kv.Set(ctx, Key(norm), payload); err != nil {
		return fmt.Errorf("profile save %s: %w", norm, err)
	}
	return s.Activate(ctx, norm)
}

// Activate marks slug as the current session without touching its record.
func (s *Store) Activate(ctx context.Context, rawSlug string) error {
	norm := slug.Normalize(rawSlug)
	if norm == "" {
		return ErrEmptySlug
	}
	if err := s.kv.Set(ctx, s.currentKey(), []byte(norm)); err != nil {
		return fmt.Errorf("profile activate %s: %w", norm, err)
	}
	return nil
}

// Current returns the current session slug, or "" when there is none.
func (s *Store) Current(ctx context.Context) (string, error) {
	raw, err := s.kv.Get(ctx, s.currentKey())
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("profile current: %w", err)
	}
	return slug.Normalize(string(raw)), nil
}

// Restore loads the record of the current session, or nil when there is
// no current session or its record is gone.
func (s *Store) Restore(ctx context.Context) (*Record, error) {
	current, err := s.Current(ctx)
	if err != nil || current == "" {
		return nil, err
	}
	return s.Load(ctx, current)
}

// Clear forgets the current session. Stored profiles are kept so the
// ambassador can log back in.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Remove(ctx, s.currentKey()); err != nil {
		return fmt.Errorf("profile clear: %w", err)
	}
	return nil
}

// Reset deletes the stored profile for slug and clears the current
// session when it points at that slug.
func (s *Store) Reset(ctx context.Context, rawSlug string) error {
	norm := slug.Normalize(rawSlug)
	if err := s.kv.Remove(ctx, Key(norm)); err != nil {
		return fmt.Errorf("profile reset %s: %w", norm, err)
	}

	current, err := s.Current(ctx)
	if err != nil {
		return err
	}
	if current == norm {
		return s.Clear(ctx)
	}
	return nil
}
