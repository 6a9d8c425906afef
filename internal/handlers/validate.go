package handlers

import (
	"strings"
	"unicode/utf8"

	"vibrato/internal/models"
)

// Request limits for the builder API.
const (
	maxTitleLen = 300
	maxSlugLen  = 300

	// maxPageBody bounds a page creation request.
	maxPageBody = 16 << 10
	// maxTreeBody bounds a raw page builder tree.
	maxTreeBody = 2 << 20
)

// validatePage checks page creation inputs and returns the first error found.
func validatePage(title, slug string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(slug) > maxSlugLen {
		return "Slug is too long (max 300 characters)."
	}
	return ""
}

// validatePageKind checks the optional post type and status of a new page.
func validatePageKind(postType models.PostType, status models.PageStatus) string {
	switch postType {
	case "", models.PostTypePage, models.PostTypePost:
	default:
		return "Post type must be page or post."
	}
	switch status {
	case "", models.PageStatusDraft, models.PageStatusPublished:
	default:
		return "Status must be draft or published."
	}
	return ""
}
