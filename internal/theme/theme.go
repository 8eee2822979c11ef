// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package theme is the static style table used to paint an ambassador's
// digital card. Themes are looked up by key; there is no theming engine.
package theme

// Default is the theme applied when none (or an unknown one) is chosen.
const Default = "buoy"

// Theme holds the Tailwind classes and accent colour of one card style.
type Theme struct {
	Key     string
	Label   string
	Accent  string // hex colour used for borders and buttons
	Header  string // classes for the card header block
	Badge   string // classes for the "<destination> Expert" badge
	Stripes []string
}

// table is ordered for display on the setup view.
var table = []Theme{
	{
		Key:     "buoy",
		Label:   "Southernmost Buoy",
		Accent:  "#34a4b8",
		Header:  "bg-[#0c0c0c] text-white",
		Badge:   "bg-yellow-400 text-black",
		Stripes: []string{"bg-red-600", "bg-yellow-400"},
	},
	{
		Key:     "teal",
		Label:   "Cruisy Teal",
		Accent:  "#34a4b8",
		Header:  "bg-[#34a4b8] text-white",
		Badge:   "bg-white text-[#34a4b8]",
		Stripes: []string{"bg-white", "bg-[#34a4b8]"},
	},
	{
		Key:     "sunset",
		Label:   "Mallory Sunset",
		Accent:  "#f97316",
		Header:  "bg-gradient-to-b from-orange-500 to-pink-600 text-white",
		Badge:   "bg-black text-orange-300",
		Stripes: []string{"bg-orange-500", "bg-pink-600"},
	},
	{
		Key:     "midnight",
		Label:   "Midnight Harbor",
		Accent:  "#facc15",
		Header:  "bg-slate-950 text-slate-100",
		Badge:   "bg-[#34a4b8] text-white",
		Stripes: []string{"bg-slate-800", "bg-yellow-400"},
	},
}

// All returns every theme in display order.
func All() []Theme {
	out := make([]Theme, len(table))
	copy(out, table)
	return out
}

// Lookup returns the theme for key, falling back to Default.
func Lookup(key string) Theme {
	for _, t := range table {
		if t.Key == key {
			return t
		}
	}
	return table[0]
}

// Valid reports whether key names a theme.
func Valid(key string) bool {
	for _, t := range table {
		if t.Key == key {
			return true
		}
	}
	return false
}
