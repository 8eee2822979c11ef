// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the ambassador portal
// and the back office. Templates are embedded and grouped by area; every
// page of an area is paired with that area's base layout unless it is
// listed as standalone.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"cruisy/internal/affiliate"
	"cruisy/internal/markdown"
	"cruisy/internal/middleware"
	"cruisy/internal/models"
	"cruisy/internal/session"
	"cruisy/internal/theme"
	"cruisy/internal/view"
)

//go:embed templates/admin/*.html templates/portal/*.html
var templateFS embed.FS

// areas are the template directories, each with its own base.html.
var areas = []string{"admin", "portal"}

// PageData holds all data passed to templates.
type PageData struct {
	Title     string         // Page title for <title> tag
	Section   string         // Active navigation entry
	Session   *session.Data  // Back-office session (nil if unauthenticated)
	Portal    *session.Data  // Ambassador portal session (nil outside the portal)
	CSRFToken string         // CSRF token for forms
	Status    int            // HTTP status; zero means 200
	Data      map[string]any // Page-specific data
	Flashes   []Flash        // One-time notification messages
}

// Flash represents a one-time notification message displayed to the user.
type Flash struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// standaloneTemplates render as full HTML pages without the base layout.
var standaloneTemplates = map[string]bool{
	"portal/landing":   true,
	"portal/card":      true,
	"admin/login":      true,
	"admin/2fa_setup":  true,
	"admin/2fa_verify": true,
}

// New parses every embedded template. Pages are addressed as
// "<area>/<file without .html>", e.g. "portal/setup".
// When devMode is true, layouts load TailwindCSS from the CDN; otherwise
// they reference the compiled stylesheet under /static/.
func New(devMode bool) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap:   funcMap(devMode),
	}

	for _, area := range areas {
		pages, err := fs.Glob(templateFS, "templates/"+area+"/*.html")
		if err != nil {
			return nil, fmt.Errorf("glob %s templates: %w", area, err)
		}

		for _, page := range pages {
			file := path.Base(page)
			if file == "base.html" {
				continue
			}
			name := area + "/" + strings.TrimSuffix(file, ".html")

			var tmpl *template.Template
			var parseErr error
			if standaloneTemplates[name] {
				tmpl, parseErr = template.New(file).Funcs(r.funcMap).ParseFS(templateFS, page)
			} else {
				tmpl, parseErr = template.New("base.html").Funcs(r.funcMap).ParseFS(
					templateFS, "templates/"+area+"/base.html", page,
				)
			}
			if parseErr != nil {
				return nil, fmt.Errorf("parse template %s: %w", name, parseErr)
			}

			r.templates[name] = tmpl
		}
	}

	return r, nil
}

// Has reports whether a template with the given name was parsed.
func (rn *Renderer) Has(name string) bool {
	_, ok := rn.templates[name]
	return ok
}

// Page renders a full page. CSRF token and sessions are taken from the
// request context unless already set. Output is buffered so a template
// failure still yields a clean 500.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	if data == nil {
		data = &PageData{}
	}

	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}
	if data.Portal == nil {
		data.Portal = middleware.PortalFromCtx(r.Context())
	}

	var buf bytes.Buffer
	if err := rn.Render(&buf, name, data); err != nil {
		slog.Error("render failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	status := data.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// Render executes the named template into w. It is used directly when the
// output is cached rather than streamed to a client.
func (rn *Renderer) Render(w io.Writer, name string, data *PageData) error {
	tmpl, ok := rn.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	execName := "base.html"
	if standaloneTemplates[name] {
		execName = path.Base(name) + ".html"
	}
	return tmpl.ExecuteTemplate(w, execName, data)
}

func funcMap(devMode bool) template.FuncMap {
	return template.FuncMap{
		// isDev selects CDN assets over the compiled stylesheet.
		"isDev": func() bool {
			return devMode
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"theme":        theme.Lookup,
		"themes":       theme.All,
		"destinations": func() []string { return models.Destinations },
		"affiliate":    affiliate.Link,
		"bio":          markdown.Bio,
		"summary":      markdown.Summary,
		"navViews":     func() []view.View { return view.Nav },
		"navClass": func(current string, target view.View) string {
			if current == string(target) {
				return "bg-[#34a4b8] text-white"
			}
			return "text-gray-600 hover:bg-gray-100"
		},
		"statusClass": func(s models.SubmissionStatus) string {
			switch s {
			case models.SubmissionApproved:
				return "bg-green-100 text-green-800"
			case models.SubmissionRejected:
				return "bg-red-100 text-red-800"
			}
			return "bg-yellow-100 text-yellow-800"
		},
		"shortID": func(id uuid.UUID) string {
			return id.String()[:8]
		},
		"fmtTime": fmtTime,
		"ids": func(ids []int64) string {
			parts := make([]string, len(ids))
			for i, id := range ids {
				parts[i] = strconv.FormatInt(id, 10)
			}
			return strings.Join(parts, ", ")
		},
	}
}

// fmtTime formats a time or time pointer; nil and zero times render empty.
func fmtTime(v any) string {
	var t time.Time
	switch tv := v.(type) {
	case time.Time:
		t = tv
	case *time.Time:
		if tv == nil {
			return ""
		}
		t = *tv
	default:
		return ""
	}
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("Jan 2, 2006 15:04")
}
