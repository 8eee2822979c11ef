// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package wordpress

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"cruisy/internal/models"
)

// Defaults applied when a post lacks the corresponding field.
const (
	DefaultName        = "Untitled Activity"
	DefaultCategory    = "General"
	DefaultDestination = models.DefaultDestination
	DefaultPrice       = "View Pricing"
	DefaultDuration    = "Varies"
)

// post is the subset of a WordPress REST content object the portal reads.
// Every field is optional.
type post struct {
	ID       int64    `json:"id"`
	Link     string   `json:"link"`
	Title    rendered `json:"title"`
	Excerpt  rendered `json:"excerpt"`
	ACF      acf      `json:"acf"`
	Embedded embedded `json:"_embedded"`
}

type rendered struct {
	Rendered string `json:"rendered"`
}

// acf is the Advanced Custom Fields bag. WordPress sends `false` or `[]`
// instead of an object when a post has no custom fields.
type acf struct {
	Category       flexString `json:"category"`
	DestinationTag flexString `json:"destination_tag"`
	Price          flexString `json:"price"`
	Duration       flexString `json:"duration"`
	BookingURL     flexString `json:"booking_url"`
}

func (a *acf) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		*a = acf{}
		return nil
	}
	type plain acf
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = acf(p)
	return nil
}

type embedded struct {
	FeaturedMedia []media `json:"wp:featuredmedia"`
}

type media struct {
	SourceURL string `json:"source_url"`
}

// flexString accepts a JSON string, number, boolean, or null. ACF fields
// switch between these depending on how the field group is configured.
type flexString struct {
	Value string
	zero  bool // a numeric or boolean value that JavaScript would treat as falsy
}

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*f = flexString{}
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	switch data[0] {
	case '"':
		return json.Unmarshal(data, &f.Value)
	case 't':
		f.Value = "true"
	case 'f':
		f.zero = true
	case '{', '[':
		// Nested structures are not meaningful for display fields.
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			f.Value = string(data)
			return nil
		}
		f.Value = strconv.FormatFloat(n, 'f', -1, 64)
		f.zero = n == 0
	}
	return nil
}

// text returns the trimmed value, or "" when the value is falsy.
func (f flexString) text() string {
	if f.zero {
		return ""
	}
	return strings.TrimSpace(f.Value)
}

// Map projects a raw post into an Itinerary. It never fails: missing or
// malformed fields fall back to the package defaults.
func Map(p post) models.Itinerary {
	it := models.Itinerary{
		ID:             p.ID,
		Name:           orDefault(plainText(p.Title.Rendered), DefaultName),
		Category:       orDefault(p.ACF.Category.text(), DefaultCategory),
		DestinationTag: orDefault(p.ACF.DestinationTag.text(), DefaultDestination),
		Description:    plainText(p.Excerpt.Rendered),
		Price:          priceLabel(p.ACF.Price),
		Duration:       orDefault(p.ACF.Duration.text(), DefaultDuration),
		BookingURL:     orDefault(p.ACF.BookingURL.text(), strings.TrimSpace(p.Link)),
	}
	if len(p.Embedded.FeaturedMedia) > 0 {
		it.Img = strings.TrimSpace(p.Embedded.FeaturedMedia[0].SourceURL)
	}
	return it
}

// priceLabel renders the ACF price as "$<price>", or DefaultPrice when it
// is missing or zero. A dollar sign already present is not doubled.
func priceLabel(f flexString) string {
	v := strings.TrimPrefix(f.text(), "$")
	if v == "" {
		return DefaultPrice
	}
	return "$" + v
}

// plainText strips markup from a rendered WordPress field, decodes
// entities, and collapses runs of whitespace.
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
