// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// DefaultDestination is the home market assigned to new profiles and to
// itineraries that carry no destination tag.
const DefaultDestination = "Key West"

// Destinations is the fixed list of home markets an ambassador can pick.
var Destinations = []string{
	"Key West", "Miami", "St Thomas", "Cozumel", "Nassau", "Orlando", "Honolulu",
}

// IsDestination reports whether s is one of the known destinations.
func IsDestination(s string) bool {
	for _, d := range Destinations {
		if d == s {
			return true
		}
	}
	return false
}
