// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package web provides embedded static assets (CSS, JS) for the portal and
// the back office. In development, templates load TailwindCSS from the CDN;
// in production, the compiled stylesheet is embedded here and served at
// /static/.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree. Release builds add the
// compiled cruisy.css next to the input.css source by running the
// Tailwind CLI before go build.
//
//go:embed all:static
var StaticFS embed.FS
