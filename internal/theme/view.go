// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package theme

import "fmt"

// Kind is the category of a public request.
type Kind int

const (
	// KindOther is any request not covered below; its view is the post type.
	KindOther Kind = iota
	KindFrontPage
	KindHome // the posts index
	KindNotFound
	KindSingle
	KindArchive
	KindSearch
)

// View identifiers.
const (
	ViewFrontPage = "front-page"
	ViewHome      = "home"
	ViewNotFound  = "404"
	ViewSingle    = "single"
	ViewArchive   = "archive"
	ViewPage      = "page"
)

// RequestContext describes what a request is asking for.
type RequestContext struct {
	Kind     Kind
	PostType string // e.g. "page"; used for KindOther and KindSearch

	PageTitle      string // title of the page being shown, if any
	PostsPageTitle string // title of the page assigned to the posts index
	ArchiveTitle   string
	SearchQuery    string
}

// ResolveView maps a request to the name of the view that renders it.
// Requests outside the named categories use their post type, and "page"
// when none is known.
func ResolveView(rc RequestContext) string {
	switch rc.Kind {
	case KindFrontPage:
		return ViewFrontPage
	case KindHome:
		return ViewHome
	case KindNotFound:
		return ViewNotFound
	case KindSingle:
		return ViewSingle
	case KindArchive:
		return ViewArchive
	}
	if rc.PostType != "" {
		return rc.PostType
	}
	return ViewPage
}

// Title returns the heading shown for a request.
func Title(rc RequestContext) string {
	switch rc.Kind {
	case KindHome:
		if rc.PostsPageTitle != "" {
			return rc.PostsPageTitle
		}
		return "Latest Posts"
	case KindArchive:
		return rc.ArchiveTitle
	case KindSearch:
		return fmt.Sprintf("Search Results for %s", rc.SearchQuery)
	case KindNotFound:
		return "Not Found"
	case KindFrontPage:
		// A front page without a static page lists the latest posts.
		if rc.PageTitle == "" {
			return "Latest Posts"
		}
	}
	return rc.PageTitle
}
