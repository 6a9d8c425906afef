// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render executes the public views of the site. Every view is
// paired with the shared base layout, which draws the header, navigation
// and footer from the theme.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"vibrato/internal/theme"
)

//go:embed templates/public/*.html
var publicFS embed.FS

// FallbackView renders any view that has no template of its own.
const FallbackView = theme.ViewPage

// Entry is one item of a listing view such as home or archive.
type Entry struct {
	Title       string
	URL         string
	PublishedAt *time.Time
}

// ViewData holds all data passed to public views.
type ViewData struct {
	View    string        // resolved view name, also used as a body class
	Title   string        // heading and <title>
	Body    template.HTML // rendered page builder content
	Entries []Entry       // listing views only
}

// Renderer handles template parsing and execution for public views.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// New parses every view in the embedded filesystem, each paired with the
// base layout. Theme helpers are available to templates as functions.
func New(th *theme.Theme) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			"siteName": th.SiteName,
			"asset":    th.AssetPath,
			"logo":     th.Logo,
			"hasNav":   th.HasNavigation,
			"nav":      th.Navigation,
			"year":     func() int { return time.Now().Year() },
			"date": func(t *time.Time) string {
				if t == nil {
					return ""
				}
				return t.Format("January 2, 2006")
			},
		},
	}

	entries, err := publicFS.ReadDir("templates/public")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" || !strings.HasSuffix(name, ".html") {
			continue
		}
		tmpl, err := template.New("base.html").Funcs(r.funcMap).ParseFS(
			publicFS, "templates/public/base.html", "templates/public/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[strings.TrimSuffix(name, ".html")] = tmpl
	}

	if _, ok := r.templates[FallbackView]; !ok {
		return nil, fmt.Errorf("missing %s view", FallbackView)
	}
	return r, nil
}

// Has reports whether view has a template of its own.
func (rn *Renderer) Has(view string) bool {
	_, ok := rn.templates[view]
	return ok
}

// Execute renders view inside the base layout. Views without a template
// fall back to FallbackView.
func (rn *Renderer) Execute(w io.Writer, view string, data *ViewData) error {
	tmpl, ok := rn.templates[view]
	if !ok {
		tmpl = rn.templates[FallbackView]
	}
	if data.View == "" {
		data.View = view
	}
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		return fmt.Errorf("execute view %s: %w", view, err)
	}
	return nil
}

// Page renders a full view with the given status code.
func (rn *Renderer) Page(w http.ResponseWriter, status int, view string, data *ViewData) {
	var buf strings.Builder
	if err := rn.Execute(&buf, view, data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, buf.String())
}
