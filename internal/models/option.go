// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/google/uuid"

// Site option keys.
const (
	// OptionPageOnFront holds the ID of the page shown at "/". When unset
	// the front page lists the latest posts.
	OptionPageOnFront = "page_on_front"
	// OptionPageForPosts holds the ID of the page titled as the posts index.
	OptionPageForPosts = "page_for_posts"
	// OptionSiteName overrides the configured site name.
	OptionSiteName = "site_name"
)

// SiteOptions is a convenience map for accessing options by key.
type SiteOptions map[string]string

// Get returns the value for a key, or the fallback if the key doesn't exist.
func (o SiteOptions) Get(key, fallback string) string {
	if v, ok := o[key]; ok && v != "" {
		return v
	}
	return fallback
}

// PageID returns the page referenced by an option such as
// OptionPageOnFront. ok is false when the option is unset or not an ID.
func (o SiteOptions) PageID(key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(o[key])
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
