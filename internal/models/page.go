// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostType names the kind of entry a page row holds. It also names the
// view used for entries that have no more specific one.
type PostType string

const (
	PostTypePage PostType = "page"
	PostTypePost PostType = "post"
)

// PageStatus represents the publishing state of a page.
type PageStatus string

const (
	PageStatusDraft     PageStatus = "draft"
	PageStatusPublished PageStatus = "published"
)

// Page is a routable entry. Its body is the page builder tree, stored
// separately in page_builder and keyed by the page ID.
type Page struct {
	ID          uuid.UUID  `json:"id"`
	PostType    PostType   `json:"post_type"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Status      PageStatus `json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsPublished returns true if the page is in published status.
func (p *Page) IsPublished() bool {
	return p.Status == PageStatusPublished
}

// Version identifies the current revision of the page and its builder
// tree. Saving either bumps updated_at, so rendered output keyed by
// Version never goes stale.
func (p *Page) Version() int64 {
	return p.UpdatedAt.UnixNano()
}
