// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package affiliate tags booking links with the ambassador's referral code.
package affiliate

import "strings"

const (
	// Network is the fixed affiliate network id.
	Network = "cruisyconcierge"

	// FallbackRef is used when no slug is known.
	FallbackRef = "ambassador"
)

// Link appends asn=cruisyconcierge&asn-ref={slug} to url, joining with "?"
// or "&" depending on whether url already has a query. An empty url stays
// empty. The slug is expected to be normalized already.
func Link(url, slug string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}
	if slug == "" {
		slug = FallbackRef
	}

	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "asn=" + Network + "&asn-ref=" + slug
}

// Format shows the tagging pattern for display, e.g. on the preview page.
func Format(slug string) string {
	return Link("https://…/booking", slug)
}
