// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"cruisy/internal/models"
)

func TestUserStoreAccount(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	const email = "reviewer-account@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	if u, err := s.FindByEmail(email); err != nil || u != nil {
		t.Fatalf("FindByEmail before create = %v, %v", u, err)
	}
	if u, err := s.FindByID(uuid.New()); err != nil || u != nil {
		t.Fatalf("FindByID unknown = %v, %v", u, err)
	}

	created, err := s.Create("  Reviewer-Account@Store-Test.local ", "s3cret-pass", " Dana ", models.RoleReviewer)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil || created.Email != email || created.DisplayName != "Dana" {
		t.Errorf("created = %+v", created)
	}
	if created.TOTPEnabled || created.TOTPSecret != nil || created.LastLoginAt != nil {
		t.Errorf("new account has 2FA or login state: %+v", created)
	}
	if created.PasswordHash == "s3cret-pass" {
		t.Error("password stored in clear")
	}

	byEmail, err := s.FindByEmail("REVIEWER-ACCOUNT@store-test.local")
	if err != nil || byEmail == nil || byEmail.ID != created.ID {
		t.Fatalf("FindByEmail ignores case: %v, %v", byEmail, err)
	}

	tests := []struct {
		password string
		want     bool
	}{
		{"s3cret-pass", true},
		{"S3CRET-PASS", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := s.CheckPassword(byEmail, tt.password); got != tt.want {
			t.Errorf("CheckPassword(%q) = %v, want %v", tt.password, got, tt.want)
		}
	}
}

func TestUserStoreCreateRejects(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	const email = "reviewer-dupe@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	if _, err := s.Create(email, "pass", "First", models.RoleAdmin); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := s.Create("Reviewer-Dupe@store-test.local", "pass", "Second", models.RoleReviewer); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate Create err = %v, want ErrEmailTaken", err)
	}
	if _, err := s.Create("other@store-test.local", "pass", "Bad", models.Role("ambassador")); err == nil {
		t.Error("Create accepted an unknown role")
	}
}

func TestUserStoreTOTPAndLogin(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	const email = "reviewer-totp@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	u, err := s.Create(email, "pass", "TOTP", models.RoleReviewer)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.EnableTOTP(u.ID); err == nil {
		t.Error("EnableTOTP succeeded without a secret")
	}
	if err := s.SetTOTPSecret(u.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("SetTOTPSecret: %v", err)
	}
	if err := s.EnableTOTP(u.ID); err != nil {
		t.Fatalf("EnableTOTP: %v", err)
	}
	if err := s.RecordLogin(u.ID); err != nil {
		t.Fatalf("RecordLogin: %v", err)
	}

	got, _ := s.FindByID(u.ID)
	if got.TOTPSecret == nil || *got.TOTPSecret != "JBSWY3DPEHPK3PXP" || !got.TOTPEnabled {
		t.Errorf("2FA state = %v, %v", got.TOTPSecret, got.TOTPEnabled)
	}
	if got.LastLoginAt == nil {
		t.Error("LastLoginAt not set")
	}

	// A new secret disables 2FA until it is confirmed again.
	if err := s.SetTOTPSecret(u.ID, "KRSXG5CTMVRXEZLU"); err != nil {
		t.Fatalf("SetTOTPSecret again: %v", err)
	}
	if got, _ := s.FindByID(u.ID); got.TOTPEnabled {
		t.Error("replacing the secret left 2FA enabled")
	}

	if err := s.RecordLogin(uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("RecordLogin unknown user err = %v, want ErrUserNotFound", err)
	}
}
