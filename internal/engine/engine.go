// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine renders page builder trees to HTML. Each content block is
// rendered by a rule chosen on its variant, and the layout composer wraps
// blocks into columns, columns into sections, and appends the media
// gallery.
package engine

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"vibrato/internal/models"
	"vibrato/internal/pagebuilder"
	"vibrato/internal/shortcode"
)

// MediaSource resolves media records in batches.
type MediaSource interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Media, error)
	FindByS3Keys(ctx context.Context, keys []string) (map[string]models.Media, error)
}

// VariantSource resolves the resized variants of media items in batches.
type VariantSource interface {
	FindByMediaIDs(ctx context.Context, mediaIDs []uuid.UUID) (map[uuid.UUID][]models.MediaVariant, error)
}

// URLResolver maps object storage keys to public URLs and back.
type URLResolver interface {
	FileURL(key string) string
	ExtractS3Key(rawURL string) (string, bool)
}

// Engine renders page builder content. It is safe for concurrent use.
//
// When media dependencies are configured (via SetMediaDeps), image blocks
// use the stored variant for their selected size, gallery items resolve to
// their stored files, and <img> tags inside text blocks get a srcset.
// Without them image URLs are used as authored and gallery items, which
// cannot be resolved, are omitted.
type Engine struct {
	shortcodes *shortcode.Registry
	policy     *bluemonday.Policy
	cache      *bodyCache
	now        func() time.Time

	// Optional media dependencies. Nil when S3 storage is not configured.
	mediaStore   MediaSource
	variantStore VariantSource
	urls         URLResolver
}

// New creates a rendering engine with an empty L1 cache. A nil registry
// uses the built-in shortcodes.
func New(shortcodes *shortcode.Registry) *Engine {
	if shortcodes == nil {
		shortcodes = shortcode.Default()
	}
	return &Engine{
		shortcodes: shortcodes,
		policy:     bluemonday.UGCPolicy(),
		cache:      newBodyCache(),
		now:        time.Now,
	}
}

// SetMediaDeps configures the optional media dependencies. Call after
// New() when S3 storage is available.
func (e *Engine) SetMediaDeps(mediaStore MediaSource, variantStore VariantSource, urls URLResolver) {
	e.mediaStore = mediaStore
	e.variantStore = variantStore
	e.urls = urls
	e.cache.invalidateAll()
}

// Invalidate drops the cached body of a page. Called after its tree is
// saved or the page is deleted.
func (e *Engine) Invalidate(pageID uuid.UUID) {
	e.cache.invalidate(pageID.String())
}

// InvalidateAll drops every cached body.
func (e *Engine) InvalidateAll() {
	e.cache.invalidateAll()
}

// RenderPage renders the tree of page, reusing the cached body for the
// page's current version when there is one.
func (e *Engine) RenderPage(ctx context.Context, page *models.Page, tree *pagebuilder.Tree) template.HTML {
	id := page.ID.String()
	if body, ok := e.cache.get(id, page.Version()); ok {
		return body
	}
	body := e.RenderTree(ctx, page.Title, tree)
	e.cache.put(id, page.Version(), body)
	return body
}

// RenderTree renders every section of tree in order, followed by its media
// gallery. Blocks that fail to render are logged and left out; the rest of
// the tree still renders.
func (e *Engine) RenderTree(ctx context.Context, title string, tree *pagebuilder.Tree) template.HTML {
	if tree.Empty() {
		return ""
	}

	rc := &renderContext{media: e.resolveMedia(ctx, tree)}
	gallery := e.renderGallery(rc, tree.Gallery)
	rc.env = shortcode.Env{PageTitle: title, Gallery: gallery, Now: e.now()}

	var out strings.Builder
	for i, s := range tree.Sections {
		out.WriteString(string(e.composeSection(rc, i, s)))
	}
	out.WriteString(string(gallery))
	return template.HTML(out.String())
}

// RenderBlock renders a single block outside of any page.
func (e *Engine) RenderBlock(b pagebuilder.Block) (template.HTML, error) {
	return e.renderBlock(e.standalone(), b)
}

// ComposeSection renders a single section outside of any page.
func (e *Engine) ComposeSection(s pagebuilder.Section) template.HTML {
	return e.composeSection(e.standalone(), 0, s)
}

// renderContext is the per-render state shared by every block of a page.
type renderContext struct {
	env   shortcode.Env
	media *mediaSet
}

func (e *Engine) standalone() *renderContext {
	return &renderContext{
		env:   shortcode.Env{Now: e.now()},
		media: &mediaSet{},
	}
}

// sanitize cleans author-supplied HTML.
func (e *Engine) sanitize(html string) template.HTML {
	return template.HTML(e.policy.Sanitize(html))
}

func logBlockError(section, column, block int, b pagebuilder.Block, err error) {
	slog.Warn("block render failed",
		"location", pagebuilder.BlockLocation(section, column, block).String(),
		"type", fmt.Sprintf("%T", b),
		"error", err,
	)
}
