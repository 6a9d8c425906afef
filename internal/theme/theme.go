// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package theme holds the presentation glue around the page builder. A
// Theme is built once at startup from its Config and passed explicitly to
// whatever renders pages; it resolves which view serves a request, builds
// page titles and asset URLs, and renders the site logo and navigation
// menus.
package theme

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLogo is the bundled logo shown when no custom logo is configured.
// It is relative to the public asset directory.
const DefaultLogo = "images/wp-logo.png"

// DefaultMenuClass is the class given to a menu's <ul> when the caller
// does not ask for another one.
const DefaultMenuClass = "menu"

// MenuItem is one navigation link. Children render as a nested sub-menu.
type MenuItem struct {
	Label    string     `yaml:"label"`
	URL      string     `yaml:"url"`
	Children []MenuItem `yaml:"children,omitempty"`
}

// Config is the theme configuration, usually read from a YAML file.
type Config struct {
	SiteName     string                `yaml:"site_name"`
	AssetBaseURL string                `yaml:"asset_base_url"`
	LogoURL      string                `yaml:"logo_url"`
	Menus        map[string][]MenuItem `yaml:"menus"`
}

// LoadConfig reads a theme configuration file.
func LoadConfig(filename string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(filename)
	if err != nil {
		return cfg, fmt.Errorf("read theme config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse theme config %s: %w", filename, err)
	}
	return cfg, nil
}

// Theme is an immutable, ready-to-use theme. It is safe for concurrent use.
type Theme struct {
	cfg Config
}

// New validates cfg and returns the theme built from it.
func New(cfg Config) (*Theme, error) {
	cfg.AssetBaseURL = strings.TrimRight(cfg.AssetBaseURL, "/")
	if cfg.SiteName == "" {
		cfg.SiteName = "Vibrato"
	}
	for location, items := range cfg.Menus {
		if location == "" {
			return nil, fmt.Errorf("theme: menu location must not be empty")
		}
		if err := checkMenu(location, items); err != nil {
			return nil, err
		}
	}
	return &Theme{cfg: cfg}, nil
}

func checkMenu(location string, items []MenuItem) error {
	for i, it := range items {
		if strings.TrimSpace(it.Label) == "" {
			return fmt.Errorf("theme: menu %q item %d has no label", location, i)
		}
		if strings.TrimSpace(it.URL) == "" {
			return fmt.Errorf("theme: menu %q item %q has no url", location, it.Label)
		}
		if err := checkMenu(location, it.Children); err != nil {
			return err
		}
	}
	return nil
}

// SiteName returns the configured site name.
func (t *Theme) SiteName() string {
	return t.cfg.SiteName
}

// AssetPath returns the public URL of a bundled asset, e.g.
// "css/theme.css" becomes "{AssetBaseURL}/public/css/theme.css".
func (t *Theme) AssetPath(file string) string {
	file = strings.TrimLeft(file, "/")
	dir, base := path.Dir(file), path.Base(file)
	if dir == "." {
		return t.cfg.AssetBaseURL + "/public/" + base
	}
	return t.cfg.AssetBaseURL + "/public/" + dir + "/" + base
}

var logoTmpl = template.Must(template.New("logo").Parse(
	`<img class="{{.Class}}" src="{{.Src}}" alt="{{.Alt}}">`))

// Logo renders the site logo: the configured logo when there is one,
// otherwise the bundled default.
func (t *Theme) Logo() template.HTML {
	data := struct{ Class, Src, Alt string }{
		Class: "h-8 w-auto",
		Src:   t.cfg.LogoURL,
		Alt:   t.cfg.SiteName,
	}
	if data.Src == "" {
		data.Class = "h-16 w-auto"
		data.Src = t.AssetPath(DefaultLogo)
	}
	var buf bytes.Buffer
	if err := logoTmpl.Execute(&buf, data); err != nil {
		slog.Warn("logo render failed", "error", err)
		return ""
	}
	return template.HTML(buf.String())
}

var menuTmpl = template.Must(template.New("menu").Parse(
	`{{define "items"}}{{range .}}<li class="menu-item{{if .Children}} menu-item-has-children{{end}}">` +
		`<a href="{{.URL}}">{{.Label}}</a>` +
		`{{if .Children}}<ul class="sub-menu">{{template "items" .Children}}</ul>{{end}}</li>{{end}}{{end}}` +
		`<ul id="menu-{{.Location}}" class="{{.Class}}">{{template "items" .Items}}</ul>`))

// HasNavigation reports whether a menu is assigned to location.
func (t *Theme) HasNavigation(location string) bool {
	return len(t.cfg.Menus[location]) > 0
}

// Navigation renders the menu assigned to location as a nested list. An
// optional class replaces DefaultMenuClass on the outer <ul>. Locations
// without a menu render nothing.
func (t *Theme) Navigation(location string, class ...string) template.HTML {
	items := t.cfg.Menus[location]
	if len(items) == 0 {
		return ""
	}
	data := struct {
		Location string
		Class    string
		Items    []MenuItem
	}{Location: location, Class: DefaultMenuClass, Items: items}
	if len(class) > 0 && class[0] != "" {
		data.Class = class[0]
	}

	var buf bytes.Buffer
	if err := menuTmpl.Execute(&buf, data); err != nil {
		slog.Warn("navigation render failed", "location", location, "error", err)
		return ""
	}
	return template.HTML(buf.String())
}
