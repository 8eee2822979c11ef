// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		contains []string
		excludes []string
	}{
		{
			name:     "emphasis",
			in:       "Loves **snorkeling** and *sunsets*",
			contains: []string{"<strong>snorkeling</strong>", "<em>sunsets</em>"},
		},
		{
			name:     "hard wraps",
			in:       "Line one\nLine two",
			contains: []string{"Line one<br>"},
		},
		{
			name:     "linkify",
			in:       "See https://cruisytravel.com today",
			contains: []string{`<a href="https://cruisytravel.com">`},
		},
		{
			name:     "raw html is not passed through",
			in:       "Hi <script>alert(1)</script>",
			excludes: []string{"<script>"},
		},
		{
			name:     "javascript links are dropped",
			in:       "[click](javascript:alert(1))",
			excludes: []string{"javascript:"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ToHTML(tt.in)
			if err != nil {
				t.Fatalf("ToHTML: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output %q missing %q", out, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(out, bad) {
					t.Errorf("output %q must not contain %q", out, bad)
				}
			}
		})
	}
}

func TestBio(t *testing.T) {
	got := string(Bio("Travel Enthusiast & Cruisy Ambassador"))
	if !strings.Contains(got, "Travel Enthusiast &amp; Cruisy Ambassador") {
		t.Errorf("Bio = %q", got)
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"strips markup", "Loves **snorkeling** and *sunsets*", 0, "Loves snorkeling and sunsets"},
		{"joins paragraphs", "First line\n\nSecond paragraph", 0, "First line Second paragraph"},
		{"keeps link text", "Book [here](https://cruisytravel.com) now", 0, "Book here now"},
		{"decodes typography", `She's "ready"`, 0, "She’s “ready”"},
		{"drops raw html", "Hi <b>there</b>", 0, "Hi there"},
		{"truncates", "Island hopping across the Keys", 10, "Island ho…"},
		{"short enough", "Key West", 10, "Key West"},
		{"empty", "", 20, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summary(tt.in, tt.limit); got != tt.want {
				t.Errorf("Summary(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
			}
		})
	}
}
