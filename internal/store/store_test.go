// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"os"
	"slices"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"

	"cruisy/internal/database"
)

// testDB connects to the PostgreSQL instance from docker-compose and
// migrates it. Tests skip when it is not running.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	get := func(key, def string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return def
	}
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		get("POSTGRES_USER", "cruisy"), get("POSTGRES_PASSWORD", "changeme"),
		get("POSTGRES_HOST", "localhost"), get("POSTGRES_PORT", "5432"), get("POSTGRES_DB", "cruisy"))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("postgres unavailable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, e := range emails {
		if _, err := db.Exec(`DELETE FROM users WHERE email = $1`, e); err != nil {
			t.Logf("clean user %s: %v", e, err)
		}
	}
}

func cleanSubmissions(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		if _, err := db.Exec(`DELETE FROM submissions WHERE slug = $1`, s); err != nil {
			t.Logf("clean submissions %s: %v", s, err)
		}
	}
}

func TestIDList(t *testing.T) {
	tests := []struct {
		name    string
		ids     []int64
		encoded string
	}{
		{"empty", nil, ""},
		{"single", []int64{42}, "42"},
		{"keeps order", []int64{77, 42, 43}, "77,42,43"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatIDs(tt.ids); got != tt.encoded {
				t.Errorf("formatIDs = %q, want %q", got, tt.encoded)
			}
			if got := parseIDs(tt.encoded); !slices.Equal(got, tt.ids) && len(got)+len(tt.ids) > 0 {
				t.Errorf("parseIDs = %v, want %v", got, tt.ids)
			}
		})
	}

	if got := parseIDs("1, x ,2,"); !slices.Equal(got, []int64{1, 2}) {
		t.Errorf("parseIDs skips junk: got %v", got)
	}
}
