// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// SeedAccount is the first back-office account created in an empty
// database.
type SeedAccount struct {
	Email       string
	Password    string
	DisplayName string
}

// Seed creates acct as an admin reviewer when the users table is empty.
// The account enrolls in 2FA on its first sign-in.
func Seed(db *sql.DB, acct SeedAccount) error {
	var exists bool
	if err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM users)`).Scan(&exists); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if exists {
		slog.Debug("seed skipped, reviewers already exist")
		return nil
	}
	if acct.Email == "" || acct.Password == "" {
		return fmt.Errorf("seed: email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(acct.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	email := strings.ToLower(strings.TrimSpace(acct.Email))
	_, err = db.Exec(
		`INSERT INTO users (email, password_hash, display_name, role) VALUES ($1, $2, $3, 'admin')
		ON CONFLICT (email) DO NOTHING`,
		email, string(hash), acct.DisplayName,
	)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	slog.Info("seeded admin reviewer", "email", email)
	return nil
}
