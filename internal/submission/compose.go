// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package submission turns an ambassador's profile and selected
// itineraries into a go-live request and delivers it over one of several
// channels (webhook, mailto draft, clipboard).
package submission

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"cruisy/internal/affiliate"
	"cruisy/internal/catalog"
	"cruisy/internal/models"
	"cruisy/internal/profile"
	"cruisy/internal/slug"
)

// Subject is the fixed subject line of every submission.
const Subject = "New Ambassador Submission"

// Required field names reported by ValidationError.
const (
	FieldFullName    = "fullName"
	FieldSlug        = "slug"
	FieldEmail       = "email"
	FieldBio         = "bio"
	FieldExperiences = "experiences"
)

// ValidationError lists the required fields that are missing.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "submission incomplete: missing " + strings.Join(e.Fields, ", ")
}

// Has reports whether field is among the missing fields.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// Validate checks that the profile carries every required field and at
// least one experience is selected. It returns a *ValidationError or nil.
func Validate(p profile.Profile, sel profile.Selection) error {
	var missing []string
	if strings.TrimSpace(p.FullName) == "" {
		missing = append(missing, FieldFullName)
	}
	if strings.TrimSpace(p.Slug) == "" {
		missing = append(missing, FieldSlug)
	}
	if strings.TrimSpace(p.Email) == "" {
		missing = append(missing, FieldEmail)
	}
	if strings.TrimSpace(p.Bio) == "" {
		missing = append(missing, FieldBio)
	}
	if len(sel) == 0 {
		missing = append(missing, FieldExperiences)
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// Draft is a composed submission ready to be sent.
type Draft struct {
	Profile   profile.Profile
	Selection profile.Selection
	Items     []models.Itinerary // selected itineraries still in the catalog, in selection order
	PublicURL string
	Text      string
}

// New composes a draft. Selected ids missing from list are skipped.
func New(p profile.Profile, sel profile.Selection, list []models.Itinerary, publicBase string) Draft {
	d := Draft{
		Profile:   p,
		Selection: sel,
		Items:     catalog.Lookup(list, sel),
		PublicURL: slug.PublicURL(publicBase, p.Slug),
	}
	d.Text = d.compose()
	return d
}

// Compose renders the fixed plain-text block for a submission. The same
// inputs always yield the same text.
func Compose(p profile.Profile, sel profile.Selection, list []models.Itinerary, publicBase string) string {
	return New(p, sel, list, publicBase).Text
}

func (d Draft) compose() string {
	var b strings.Builder
	p := d.Profile

	b.WriteString("NEW AMBASSADOR SUBMISSION\n")
	fmt.Fprintf(&b, "Name: %s\n", p.FullName)
	fmt.Fprintf(&b, "Slug: %s\n", p.Slug)
	fmt.Fprintf(&b, "Email: %s\n", p.Email)
	fmt.Fprintf(&b, "Home Market: %s\n", p.Destination)
	fmt.Fprintf(&b, "Public URL: %s\n", d.PublicURL)
	fmt.Fprintf(&b, "Bio: %s\n", p.Bio)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Selected Experiences (%d):\n", len(d.Items))
	for _, it := range d.Items {
		fmt.Fprintf(&b, "- %s (%s) [#%d]\n", it.Name, it.Price, it.ID)
		if link := affiliate.Link(it.BookingURL, p.Slug); link != "" {
			fmt.Fprintf(&b, "  %s\n", link)
		}
	}
	return b.String()
}

// SelectedIDs returns the ids of the itineraries included in the draft.
func (d Draft) SelectedIDs() []int64 {
	ids := make([]int64, len(d.Items))
	for i, it := range d.Items {
		ids[i] = it.ID
	}
	return ids
}

// payload is the JSON body sent to webhooks.
type payload struct {
	FullName    string  `json:"fullName"`
	Slug        string  `json:"slug"`
	Email       string  `json:"email"`
	Bio         string  `json:"bio"`
	Destination string  `json:"destination"`
	Theme       string  `json:"theme"`
	PublicURL   string  `json:"publicUrl"`
	SelectedIDs []int64 `json:"selectedIds"`
	SelectedCSV string  `json:"selectedCsv"`
	Text        string  `json:"text"`
}

// Payload returns the JSON webhook body. When expr is non-empty it is
// evaluated as a JMESPath expression against the default body and the
// result is sent instead.
func (d Draft) Payload(expr string) ([]byte, error) {
	ids := d.SelectedIDs()
	csv := make([]string, len(ids))
	for i, id := range ids {
		csv[i] = strconv.FormatInt(id, 10)
	}

	body, err := json.Marshal(payload{
		FullName:    d.Profile.FullName,
		Slug:        d.Profile.Slug,
		Email:       d.Profile.Email,
		Bio:         d.Profile.Bio,
		Destination: d.Profile.Destination,
		Theme:       d.Profile.Theme,
		PublicURL:   d.PublicURL,
		SelectedIDs: ids,
		SelectedCSV: strings.Join(csv, ","),
		Text:        d.Text,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	expr = strings.TrimSpace(expr)
	if expr == "" {
		return body, nil
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	shaped, err := jmespath.Search(expr, doc)
	if err != nil {
		return nil, fmt.Errorf("evaluate payload expression: %w", err)
	}
	out, err := json.Marshal(shaped)
	if err != nil {
		return nil, fmt.Errorf("marshal shaped payload: %w", err)
	}
	return out, nil
}

// ValidateExpr reports whether expr is a valid JMESPath expression. An
// empty expression is valid.
func ValidateExpr(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return fmt.Errorf("invalid payload expression: %w", err)
	}
	return nil
}
