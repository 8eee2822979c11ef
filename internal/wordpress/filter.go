// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package wordpress

import (
	"strings"

	"golang.org/x/text/cases"

	"cruisy/internal/models"
)

// Filter returns the itineraries whose destination tag, name, or
// description contains dest, compared with Unicode case folding. An empty
// dest returns every itinerary. Order is preserved and the input is not
// modified.
func Filter(list []models.Itinerary, dest string) []models.Itinerary {
	dest = strings.TrimSpace(dest)
	out := make([]models.Itinerary, 0, len(list))
	if dest == "" {
		return append(out, list...)
	}

	fold := cases.Fold()
	needle := fold.String(dest)
	for _, it := range list {
		if strings.Contains(fold.String(it.DestinationTag), needle) ||
			strings.Contains(fold.String(it.Name), needle) ||
			strings.Contains(fold.String(it.Description), needle) {
			out = append(out, it)
		}
	}
	return out
}
