// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustNew(t *testing.T, cfg Config) *Theme {
	t.Helper()
	th, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return th
}

func TestAssetPath(t *testing.T) {
	tests := []struct {
		base string
		file string
		want string
	}{
		{"", "images/wp-logo.png", "/public/images/wp-logo.png"},
		{"https://cdn.example.com/", "css/theme.css", "https://cdn.example.com/public/css/theme.css"},
		{"https://cdn.example.com", "/js/app.js", "https://cdn.example.com/public/js/app.js"},
		{"", "favicon.ico", "/public/favicon.ico"},
		{"", "images/icons/menu.svg", "/public/images/icons/menu.svg"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			th := mustNew(t, Config{AssetBaseURL: tt.base})
			if got := th.AssetPath(tt.file); got != tt.want {
				t.Errorf("AssetPath(%q) = %q, want %q", tt.file, got, tt.want)
			}
		})
	}
}

func TestLogo(t *testing.T) {
	th := mustNew(t, Config{SiteName: "Acme"})
	want := `<img class="h-16 w-auto" src="/public/images/wp-logo.png" alt="Acme">`
	if got := string(th.Logo()); got != want {
		t.Errorf("default Logo() = %s, want %s", got, want)
	}

	th = mustNew(t, Config{SiteName: "Acme", LogoURL: "https://cdn.example.com/logo.svg"})
	want = `<img class="h-8 w-auto" src="https://cdn.example.com/logo.svg" alt="Acme">`
	if got := string(th.Logo()); got != want {
		t.Errorf("custom Logo() = %s, want %s", got, want)
	}
}

func TestNavigation(t *testing.T) {
	th := mustNew(t, Config{Menus: map[string][]MenuItem{
		"primary": {
			{Label: "Home", URL: "/"},
			{Label: "Services", URL: "/services", Children: []MenuItem{
				{Label: "Design", URL: "/services/design"},
			}},
		},
	}})

	want := `<ul id="menu-primary" class="navbar-nav">` +
		`<li class="menu-item"><a href="/">Home</a></li>` +
		`<li class="menu-item menu-item-has-children"><a href="/services">Services</a>` +
		`<ul class="sub-menu"><li class="menu-item"><a href="/services/design">Design</a></li></ul></li>` +
		`</ul>`
	if diff := cmp.Diff(want, string(th.Navigation("primary", "navbar-nav"))); diff != "" {
		t.Errorf("Navigation mismatch (-want +got):\n%s", diff)
	}

	if got := string(th.Navigation("primary")); !strings.HasPrefix(got, `<ul id="menu-primary" class="menu">`) {
		t.Errorf("default class not applied: %s", got)
	}
	if th.Navigation("footer") != "" {
		t.Error("unassigned location should render nothing")
	}
	if !th.HasNavigation("primary") || th.HasNavigation("footer") {
		t.Error("HasNavigation mismatch")
	}
}

func TestNavigationEscapesLinks(t *testing.T) {
	th := mustNew(t, Config{Menus: map[string][]MenuItem{
		"primary": {{Label: "<b>Bad</b>", URL: "javascript:alert(1)"}},
	}})
	got := string(th.Navigation("primary"))
	if strings.Contains(got, "javascript:") || strings.Contains(got, "<b>") {
		t.Errorf("menu output not escaped: %s", got)
	}
}

func TestNewRejectsInvalidMenus(t *testing.T) {
	tests := []struct {
		name  string
		menus map[string][]MenuItem
	}{
		{"empty location", map[string][]MenuItem{"": {{Label: "a", URL: "/"}}}},
		{"missing label", map[string][]MenuItem{"primary": {{URL: "/"}}}},
		{"missing url", map[string][]MenuItem{"primary": {{Label: "Home"}}}},
		{"bad child", map[string][]MenuItem{"primary": {{Label: "a", URL: "/", Children: []MenuItem{{Label: "b"}}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(Config{Menus: tt.menus}); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestNewDefaults(t *testing.T) {
	th := mustNew(t, Config{})
	if th.SiteName() != "Vibrato" {
		t.Errorf("SiteName = %q, want Vibrato", th.SiteName())
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "theme.yaml")
	data := `site_name: Acme
asset_base_url: https://cdn.example.com
menus:
  primary:
    - {label: Home, url: /}
    - label: About
      url: /about
      children:
        - {label: Team, url: /about/team}
`
	if err := os.WriteFile(file, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := LoadConfig(file)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := Config{
		SiteName:     "Acme",
		AssetBaseURL: "https://cdn.example.com",
		Menus: map[string][]MenuItem{
			"primary": {
				{Label: "Home", URL: "/"},
				{Label: "About", URL: "/about", Children: []MenuItem{{Label: "Team", URL: "/about/team"}}},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadConfig mismatch (-want +got):\n%s", diff)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
