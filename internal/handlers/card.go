// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"cruisy/internal/affiliate"
	"cruisy/internal/catalog"
	"cruisy/internal/models"
	"cruisy/internal/profile"
	"cruisy/internal/slug"
)

// ambassadorCard is the public JSON form of a digital card. It is served
// by the API and published to object storage on approval. Email and the
// password hash are never included.
type ambassadorCard struct {
	Slug        string           `json:"slug"`
	FullName    string           `json:"fullName"`
	Bio         string           `json:"bio"`
	Destination string           `json:"destination"`
	Theme       string           `json:"theme"`
	PublicURL   string           `json:"publicUrl"`
	Approved    bool             `json:"approved"`
	Experiences []cardExperience `json:"experiences"`
}

type cardExperience struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Price      string `json:"price"`
	Duration   string `json:"duration"`
	BookingURL string `json:"bookingUrl,omitempty"`
	Img        string `json:"img,omitempty"`
}

// newAmbassadorCard builds the card for a stored profile. Selected ids no
// longer in list are skipped; booking links carry the affiliate tag.
func newAmbassadorCard(p profile.Profile, sel profile.Selection, list []models.Itinerary, publicBase string, approved bool) ambassadorCard {
	items := catalog.Lookup(list, sel)
	card := ambassadorCard{
		Slug:        p.Slug,
		FullName:    p.FullName,
		Bio:         p.Bio,
		Destination: p.Destination,
		Theme:       p.Theme,
		PublicURL:   slug.PublicURL(publicBase, p.Slug),
		Approved:    approved,
		Experiences: make([]cardExperience, 0, len(items)),
	}
	for _, it := range items {
		card.Experiences = append(card.Experiences, cardExperience{
			ID:         it.ID,
			Name:       it.Name,
			Category:   it.Category,
			Price:      it.Price,
			Duration:   it.Duration,
			BookingURL: affiliate.Link(it.BookingURL, p.Slug),
			Img:        it.Img,
		})
	}
	return card
}
