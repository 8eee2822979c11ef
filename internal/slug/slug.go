// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug normalizes ambassador handles. A slug doubles as the storage
// key for a profile and as the trailing path segment of the public URL.
package slug

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxLen is the longest slug accepted for a profile.
const MaxLen = 64

// allowed matches a slug made only of URL-safe characters.
var allowed = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Normalize lower-cases s and strips every whitespace rune.
// Example: "Jane Doe " → "janedoe"
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToLower(s))
}

// Valid reports whether s is a usable slug once normalized.
func Valid(s string) bool {
	if s == "" || utf8.RuneCountInString(s) > MaxLen {
		return false
	}
	return allowed.MatchString(s)
}

// PublicURL joins the public site base and a slug into the ambassador's
// shareable profile link.
func PublicURL(base, s string) string {
	return strings.TrimRight(base, "/") + "/" + s
}
