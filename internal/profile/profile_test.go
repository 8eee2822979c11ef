// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package profile

import (
	"reflect"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestNewAppliesDefaults(t *testing.T) {
	p := New("Nubia", " Capt Nubia ", "n@example.com")
	if p.Slug != "captnubia" {
		t.Errorf("Slug: got %q", p.Slug)
	}
	if p.Bio != DefaultBio {
		t.Errorf("Bio: got %q", p.Bio)
	}
	if p.Destination != "Key West" {
		t.Errorf("Destination: got %q", p.Destination)
	}
	if p.Theme != "buoy" {
		t.Errorf("Theme: got %q", p.Theme)
	}
}

func TestSetPasswordHashes(t *testing.T) {
	var p Profile
	if err := p.SetPassword("hunter2"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if p.PasswordHash == "" || p.PasswordHash == "hunter2" {
		t.Fatalf("password not hashed: %q", p.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte("hunter2")); err != nil {
		t.Errorf("hash does not match password: %v", err)
	}

	p.SetPassword("")
	if p.PasswordHash != "" {
		t.Error("empty password should clear the hash")
	}
}

func TestInitial(t *testing.T) {
	if got := (Profile{FullName: "Émile"}).Initial(); got != "É" {
		t.Errorf("Initial: got %q", got)
	}
	if got := (Profile{}).Initial(); got != "C" {
		t.Errorf("Initial of empty name: got %q", got)
	}
}

func TestSelectionToggle(t *testing.T) {
	var sel Selection
	sel = sel.Toggle(1)
	sel = sel.Toggle(2)
	sel = sel.Toggle(3)
	if !reflect.DeepEqual(sel, Selection{1, 2, 3}) {
		t.Fatalf("after adds: %v", sel)
	}

	removed := sel.Toggle(2)
	if !reflect.DeepEqual(removed, Selection{1, 3}) {
		t.Errorf("after remove: %v", removed)
	}
	if !reflect.DeepEqual(sel, Selection{1, 2, 3}) {
		t.Errorf("Toggle mutated the receiver: %v", sel)
	}
	if removed.Contains(2) || !removed.Contains(3) {
		t.Error("Contains disagrees with Toggle")
	}
}

func TestSelectionDedupe(t *testing.T) {
	got := Selection{5, 1, 5, 2, 1}.Dedupe()
	if !reflect.DeepEqual(got, Selection{5, 1, 2}) {
		t.Errorf("Dedupe: got %v", got)
	}
	if got := Selection(nil).Dedupe(); len(got) != 0 {
		t.Errorf("Dedupe(nil): got %v", got)
	}
}
