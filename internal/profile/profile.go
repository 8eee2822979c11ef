// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package profile holds the ambassador profile record and the store that
// persists it, together with the selected itinerary ids, through a kv.Storage.
package profile

import (
	"fmt"
	"slices"

	"golang.org/x/crypto/bcrypt"

	"cruisy/internal/models"
	"cruisy/internal/slug"
	"cruisy/internal/theme"
)

// DefaultBio is the bio given to a freshly registered ambassador.
const DefaultBio = "Travel Enthusiast & Cruisy Ambassador"

// Profile is the flat ambassador record edited on the setup view.
type Profile struct {
	FullName     string `json:"fullName"`
	Slug         string `json:"slug"`
	Email        string `json:"email"`
	Bio          string `json:"bio"`
	Destination  string `json:"destination"`
	PasswordHash string `json:"passwordHash,omitempty"` // opaque; never checked
	Theme        string `json:"theme"`
}

// New returns a profile with the signup defaults applied. The slug is
// normalized.
func New(fullName, rawSlug, email string) Profile {
	return Profile{
		FullName:    fullName,
		Slug:        slug.Normalize(rawSlug),
		Email:       email,
		Bio:         DefaultBio,
		Destination: models.DefaultDestination,
		Theme:       theme.Default,
	}
}

// SetPassword stores a bcrypt hash of pw. An empty pw clears the hash.
func (p *Profile) SetPassword(pw string) error {
	if pw == "" {
		p.PasswordHash = ""
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	p.PasswordHash = string(hash)
	return nil
}

// Initial returns the first letter of the display name for the card
// avatar, or "C" when the name is empty.
func (p Profile) Initial() string {
	for _, r := range p.FullName {
		return string(r)
	}
	return "C"
}

// Selection is the ordered set of itinerary ids an ambassador picked.
type Selection []int64

// Contains reports whether id is selected.
func (s Selection) Contains(id int64) bool {
	return slices.Contains(s, id)
}

// Toggle returns a new selection with id removed when present, or
// appended when absent.
func (s Selection) Toggle(id int64) Selection {
	if i := slices.Index(s, id); i >= 0 {
		return slices.Delete(slices.Clone(s), i, i+1)
	}
	return append(slices.Clone(s), id)
}

// Dedupe returns the selection with repeated ids dropped, keeping the
// first occurrence of each.
func (s Selection) Dedupe() Selection {
	out := make(Selection, 0, len(s))
	for _, id := range s {
		if !out.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}
