// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures shared across the portal:
// itineraries projected from WordPress, the fixed destination list,
// submissions awaiting review, and back-office users.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a back-office permission level.
type Role string

const (
	// RoleAdmin reviews submissions and manages reviewer accounts.
	RoleAdmin Role = "admin"
	// RoleReviewer approves or rejects ambassador submissions.
	RoleReviewer Role = "reviewer"
)

// CanReview reports whether the role may act on submissions.
func (r Role) CanReview() bool {
	return r == RoleAdmin || r == RoleReviewer
}

// User is a back-office account. Ambassadors are not users; their
// profiles live in the key-value profile store.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	DisplayName  string     `json:"display_name"`
	Role         Role       `json:"role"`
	TOTPSecret   *string    `json:"-"`
	TOTPEnabled  bool       `json:"totp_enabled"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Needs2FASetup reports whether the user still has to enroll an
// authenticator. A stored secret is not enough until a code confirms it.
func (u *User) Needs2FASetup() bool {
	return !u.TOTPEnabled
}

// Name is what the back office shows for the user.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}
