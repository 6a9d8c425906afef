// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives the public path of a page from its title and keeps
// it unique among pages and clear of the site's own top-level routes.
package slug

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength caps a generated slug. Longer slugs are cut at a word boundary.
const MaxLength = 120

// maxAttempts bounds the numeric suffixes Unique tries.
const maxAttempts = 1000

// ErrExhausted is returned by Unique when every suffix up to maxAttempts
// is taken.
var ErrExhausted = errors.New("slug: no free suffix")

// reserved are first path segments routed to something other than a page.
var reserved = map[string]bool{
	"api":    true,
	"health": true,
	"public": true,
	"search": true,
	"type":   true,
}

// IsReserved reports whether s collides with a built-in route.
func IsReserved(s string) bool {
	return reserved[s]
}

// Generate turns a title into a lowercase ASCII slug: accents are folded
// ("Café" becomes "cafe"), runs of spaces, hyphens, underscores and slashes
// become a single hyphen, and any other punctuation is dropped.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	// A chained transformer keeps state, so each call builds its own.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	gap := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if gap && b.Len() > 0 {
				b.WriteByte('-')
			}
			gap = false
			b.WriteRune(r)
		case r == '-', r == '_', r == '/', unicode.IsSpace(r):
			gap = true
		}
	}
	return truncate(b.String())
}

func truncate(s string) string {
	if len(s) <= MaxLength {
		return s
	}
	cut := s[:MaxLength]
	if i := strings.LastIndexByte(cut, '-'); i > MaxLength/2 {
		cut = cut[:i]
	}
	return strings.Trim(cut, "-")
}

// ExistsFunc reports whether a slug is already used by a page.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Unique returns base, or base with the first free suffix "-2", "-3", ...
// when base is reserved or exists reports it taken.
func Unique(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	candidate := base
	for n := 2; n <= maxAttempts; n++ {
		if !IsReserved(candidate) {
			taken, err := exists(ctx, candidate)
			if err != nil {
				return "", fmt.Errorf("check slug %q: %w", candidate, err)
			}
			if !taken {
				return candidate, nil
			}
		}
		candidate = base + "-" + strconv.Itoa(n)
	}
	return "", fmt.Errorf("%w for %q", ErrExhausted, base)
}
