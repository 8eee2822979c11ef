// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Itinerary is the simplified, read-only projection of a WordPress
// itinerary post. It is rebuilt from the remote API on every fetch and is
// never mutated by the portal.
type Itinerary struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	DestinationTag string `json:"destinationTag"`
	Description    string `json:"description,omitempty"`
	Price          string `json:"price"`    // display string, e.g. "$49"
	Duration       string `json:"duration"` // display string, e.g. "3 hours"
	BookingURL     string `json:"bookingUrl"`
	Img            string `json:"img"` // featured image URL or empty
}

// HasImage reports whether the itinerary carries a usable image URL.
func (i Itinerary) HasImage() bool {
	return len(i.Img) > 5
}
