// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"cruisy/internal/models"
	"cruisy/internal/slug"
	"cruisy/internal/theme"
)

// Validation limits for ambassador form fields.
const (
	maxNameLen  = 120
	maxEmailLen = 254
	maxBioLen   = 2_000
	maxNoteLen  = 1_000
)

// validateSignup checks the signup form and returns the first error found.
// The slug must already be normalized.
func validateSignup(fullName, normSlug, email string) string {
	if msg := validateName(fullName); msg != "" {
		return msg
	}
	if normSlug == "" {
		return "Slug is required."
	}
	if !slug.Valid(normSlug) {
		return "Slug may only contain letters, numbers, dashes and underscores (max 64)."
	}
	return validateEmail(email)
}

// validateProfile checks the setup form and returns the first error found.
func validateProfile(fullName, email, bio, destination, themeKey string) string {
	if msg := validateName(fullName); msg != "" {
		return msg
	}
	if msg := validateEmail(email); msg != "" {
		return msg
	}
	if utf8.RuneCountInString(bio) > maxBioLen {
		return "Bio is too long (max 2,000 characters)."
	}
	if !models.IsDestination(destination) {
		return "Please pick a home market from the list."
	}
	if !theme.Valid(themeKey) {
		return "Please pick a card theme from the list."
	}
	return ""
}

// validateNote checks the optional review note.
func validateNote(note string) string {
	if utf8.RuneCountInString(note) > maxNoteLen {
		return "Review note is too long (max 1,000 characters)."
	}
	return ""
}

func validateName(fullName string) string {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return "Full name is required."
	}
	if utf8.RuneCountInString(fullName) > maxNameLen {
		return "Full name is too long (max 120 characters)."
	}
	return ""
}

func validateEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "Email is required."
	}
	if len(email) > maxEmailLen {
		return "Email is too long."
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return "Email address is not valid."
	}
	return ""
}
