// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store holds the PostgreSQL queries for back-office reviewers
// and ambassador submissions.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"cruisy/internal/models"
)

// ErrEmailTaken is returned by Create when another reviewer already uses
// the email address.
var ErrEmailTaken = errors.New("email already registered")

// ErrUserNotFound reports an update aimed at a missing account.
var ErrUserNotFound = errors.New("user not found")

const selectUser = `SELECT id, email, password_hash, display_name, role, totp_secret, totp_enabled,
	last_login_at, created_at, updated_at FROM users`

type rowScanner interface {
	Scan(dest ...any) error
}

// UserStore reads and writes reviewer accounts.
type UserStore struct {
	db *sql.DB
}

// NewUserStore returns a UserStore over db.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// normalizeEmail lowercases and trims an address so lookups ignore case.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// one scans a single user row, mapping no rows to nil.
func (s *UserStore) one(query string, args ...any) (*models.User, error) {
	u := &models.User{}
	err := s.db.QueryRow(query, args...).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Role, &u.TOTPSecret, &u.TOTPEnabled,
		&u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// FindByEmail returns the reviewer with email, or nil.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	u, err := s.one(selectUser+` WHERE email = $1`, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("find user %q: %w", email, err)
	}
	return u, nil
}

// FindByID returns the reviewer with id, or nil.
func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	u, err := s.one(selectUser+` WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	return u, nil
}

// Create adds a reviewer account with a bcrypt hash of password.
func (s *UserStore) Create(email, password, displayName string, role models.Role) (*models.User, error) {
	if !role.CanReview() {
		return nil, fmt.Errorf("create user: unknown role %q", role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var id uuid.UUID
	err = s.db.QueryRow(
		`INSERT INTO users (email, password_hash, display_name, role) VALUES ($1, $2, $3, $4) RETURNING id`,
		normalizeEmail(email), string(hash), strings.TrimSpace(displayName), role,
	).Scan(&id)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.FindByID(id)
}

// exec runs a single-row update and reports a missing row as an error.
func (s *UserStore) exec(op string, query string, args ...any) error {
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// SetTOTPSecret stores a freshly generated secret. 2FA stays disabled
// until EnableTOTP.
func (s *UserStore) SetTOTPSecret(id uuid.UUID, secret string) error {
	return s.exec("set totp secret",
		`UPDATE users SET totp_secret = $1, totp_enabled = FALSE, updated_at = NOW() WHERE id = $2`, secret, id)
}

// EnableTOTP turns on 2FA once the user has confirmed a code.
func (s *UserStore) EnableTOTP(id uuid.UUID) error {
	return s.exec("enable totp",
		`UPDATE users SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1 AND totp_secret IS NOT NULL`, id)
}

// RecordLogin stamps a completed sign-in.
func (s *UserStore) RecordLogin(id uuid.UUID) error {
	return s.exec("record login", `UPDATE users SET last_login_at = NOW() WHERE id = $1`, id)
}

// CheckPassword reports whether password matches the user's hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
