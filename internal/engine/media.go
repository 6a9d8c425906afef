// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"vibrato/internal/models"
	"vibrato/internal/pagebuilder"
)

// imageVariants maps image block sizes to stored variant names. The full
// size has no entry and always uses the original file.
var imageVariants = map[pagebuilder.ImageSize]string{
	pagebuilder.ImageThumbnail: models.VariantThumb,
	pagebuilder.ImageMedium:    models.VariantMedium,
	pagebuilder.ImageLarge:     models.VariantLarge,
}

// mediaSet holds the media a page refers to, fetched in one batch before
// rendering. The zero value resolves nothing.
type mediaSet struct {
	byID     map[uuid.UUID]models.Media
	byKey    map[string]models.Media
	variants map[uuid.UUID][]models.MediaVariant
}

// resolveMedia batch-fetches every media item referenced by image blocks,
// <img> tags in text blocks, and the gallery. Lookup failures are logged
// and leave the set partially filled.
func (e *Engine) resolveMedia(ctx context.Context, tree *pagebuilder.Tree) *mediaSet {
	set := &mediaSet{}
	if e.urls == nil || e.mediaStore == nil || e.variantStore == nil {
		return set
	}

	keySet := make(map[string]bool)
	var keys []string
	addURL := func(raw string) {
		if key, ok := e.urls.ExtractS3Key(raw); ok && !keySet[key] {
			keySet[key] = true
			keys = append(keys, key)
		}
	}
	for _, s := range tree.Sections {
		for _, c := range s.Columns {
			for _, b := range c.Blocks {
				switch b := b.(type) {
				case pagebuilder.ImageBlock:
					addURL(b.URL)
				case pagebuilder.TextBlock:
					for _, m := range imgSrcRe.FindAllStringSubmatch(b.HTML, -1) {
						addURL(m[2])
					}
				}
			}
		}
	}

	var ids []uuid.UUID
	if tree.Gallery != nil {
		for _, ref := range tree.Gallery.Items {
			ids = append(ids, ref.ID)
		}
	}

	var err error
	if set.byKey, err = e.mediaStore.FindByS3Keys(ctx, keys); err != nil {
		slog.Warn("media lookup by key failed", "error", err)
	}
	if set.byID, err = e.mediaStore.FindByIDs(ctx, ids); err != nil {
		slog.Warn("media lookup by id failed", "error", err)
	}

	seen := make(map[uuid.UUID]bool)
	var mediaIDs []uuid.UUID
	for _, m := range set.byKey {
		if !seen[m.ID] {
			seen[m.ID] = true
			mediaIDs = append(mediaIDs, m.ID)
		}
	}
	if set.variants, err = e.variantStore.FindByMediaIDs(ctx, mediaIDs); err != nil {
		slog.Warn("media variant lookup failed", "error", err)
	}
	return set
}

// image returns the source, srcset, and alt text of an image block. URLs
// outside this site's storage, or without a stored record, are used as
// authored.
func (m *mediaSet) image(urls URLResolver, raw string, size pagebuilder.ImageSize) (src, srcset, alt string) {
	src = raw
	if urls == nil {
		return src, "", ""
	}
	key, ok := urls.ExtractS3Key(raw)
	if !ok {
		return src, "", ""
	}
	media, ok := m.byKey[key]
	if !ok {
		return src, "", ""
	}
	alt = media.Alt()
	variants := m.variants[media.ID]

	name, sized := imageVariants[size]
	if !sized {
		return src, buildSrcset(urls, variants), alt
	}
	if v, ok := models.FindVariant(variants, name); ok {
		src = urls.FileURL(v.S3Key)
	}
	return src, "", alt
}

// galleryItem resolves a gallery reference to its file URL.
func (m *mediaSet) galleryItem(urls URLResolver, ref pagebuilder.MediaRef) (url, alt string, ok bool) {
	media, found := m.byID[ref.ID]
	if !found || urls == nil {
		return "", "", false
	}
	return urls.FileURL(media.S3Key), media.Alt(), true
}

// imgSrcRe matches <img ... src="..." ...> tags and captures the
// attributes before src, the src URL, and the attributes after it.
var imgSrcRe = regexp.MustCompile(`<img\s([^>]*?)src=["']([^"']+)["']([^>]*)>`)

// rewriteBodyImages injects srcset attributes into <img> tags whose src
// points at a stored image with variants. Tags that already have a srcset
// are left untouched, and so is everything when media is not configured.
func (e *Engine) rewriteBodyImages(m *mediaSet, html string) string {
	if e.urls == nil || len(m.byKey) == 0 {
		return html
	}

	return imgSrcRe.ReplaceAllStringFunc(html, func(tag string) string {
		if strings.Contains(tag, "srcset") {
			return tag
		}
		parts := imgSrcRe.FindStringSubmatch(tag)
		key, ok := e.urls.ExtractS3Key(parts[2])
		if !ok {
			return tag
		}
		media, ok := m.byKey[key]
		if !ok {
			return tag
		}
		srcset := buildSrcset(e.urls, m.variants[media.ID])
		if srcset == "" {
			return tag
		}

		var b strings.Builder
		b.WriteString(`<img `)
		b.WriteString(parts[1])
		b.WriteString(`src="`)
		b.WriteString(parts[2])
		b.WriteString(`" srcset="`)
		b.WriteString(srcset)
		b.WriteString(`" sizes="(max-width: 640px) 640px, (max-width: 1024px) 1024px, 1920px"`)
		b.WriteString(parts[3])
		b.WriteString(`>`)
		return b.String()
	})
}

// buildSrcset constructs an HTML srcset string from variants, excluding
// thumb (too small for content images).
func buildSrcset(urls URLResolver, variants []models.MediaVariant) string {
	var parts []string
	for _, v := range variants {
		if v.Name == models.VariantThumb {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %dw", urls.FileURL(v.S3Key), v.Width))
	}
	return strings.Join(parts, ", ")
}
