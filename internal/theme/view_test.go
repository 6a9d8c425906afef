// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package theme

import "testing"

func TestResolveView(t *testing.T) {
	tests := []struct {
		name string
		rc   RequestContext
		want string
	}{
		{"front page", RequestContext{Kind: KindFrontPage, PostType: "page"}, "front-page"},
		{"home", RequestContext{Kind: KindHome}, "home"},
		{"not found", RequestContext{Kind: KindNotFound}, "404"},
		{"single", RequestContext{Kind: KindSingle, PostType: "post"}, "single"},
		{"archive", RequestContext{Kind: KindArchive}, "archive"},
		{"other page", RequestContext{Kind: KindOther, PostType: "page"}, "page"},
		{"other custom type", RequestContext{Kind: KindOther, PostType: "landing"}, "landing"},
		{"search uses post type", RequestContext{Kind: KindSearch, PostType: "post"}, "post"},
		{"nothing known", RequestContext{}, "page"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveView(tt.rc); got != tt.want {
				t.Errorf("ResolveView() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name string
		rc   RequestContext
		want string
	}{
		{"home with posts page", RequestContext{Kind: KindHome, PostsPageTitle: "Blog"}, "Blog"},
		{"home without posts page", RequestContext{Kind: KindHome}, "Latest Posts"},
		{"archive", RequestContext{Kind: KindArchive, ArchiveTitle: "Category: News"}, "Category: News"},
		{"search", RequestContext{Kind: KindSearch, SearchQuery: "pricing"}, "Search Results for pricing"},
		{"not found", RequestContext{Kind: KindNotFound, PageTitle: "ignored"}, "Not Found"},
		{"static front page", RequestContext{Kind: KindFrontPage, PageTitle: "Welcome"}, "Welcome"},
		{"posts front page", RequestContext{Kind: KindFrontPage}, "Latest Posts"},
		{"page", RequestContext{Kind: KindOther, PageTitle: "About"}, "About"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Title(tt.rc); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}
