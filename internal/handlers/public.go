// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"vibrato/internal/cache"
	"vibrato/internal/models"
	"vibrato/internal/pagebuilder"
	"vibrato/internal/render"
	"vibrato/internal/theme"
)

// searchLimit caps the results of a site search; maxSearchQuery bounds the
// query itself.
const (
	searchLimit    = 50
	maxSearchQuery = 200
)

// archiveTitles names the listing of each post type.
var archiveTitles = map[models.PostType]string{
	models.PostTypePost: "Posts",
	models.PostTypePage: "Pages",
}

// BodyRenderer turns a page and its builder tree into HTML.
type BodyRenderer interface {
	RenderPage(ctx context.Context, page *models.Page, tree *pagebuilder.Tree) template.HTML
}

// Public groups handlers for the public-facing site. It checks the L2
// Valkey page cache before rendering, and stores rendered results on miss.
type Public struct {
	pages     PageRepository
	options   OptionReader
	trees     pagebuilder.Storage
	bodies    BodyRenderer
	renderer  *render.Renderer
	pageCache PageCache
}

// NewPublic creates a new Public handler group.
func NewPublic(pages PageRepository, options OptionReader, trees pagebuilder.Storage, bodies BodyRenderer, renderer *render.Renderer, pageCache PageCache) *Public {
	return &Public{
		pages:     pages,
		options:   options,
		trees:     trees,
		bodies:    bodies,
		renderer:  renderer,
		pageCache: pageCache,
	}
}

// Homepage serves "/". A published page assigned by the page_on_front
// option renders with the front-page view; otherwise the latest posts are
// listed with the home view.
func (p *Public) Homepage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, ok := p.pageCache.Get(ctx, cache.FrontPageKey()); ok {
		writeHTML(w, http.StatusOK, cached)
		return
	}

	opts, err := p.options.All(ctx)
	if err != nil {
		// Serve with default options rather than failing the whole site.
		slog.Error("load site options failed", "error", err)
	}

	if id, ok := opts.PageID(models.OptionPageOnFront); ok {
		page, err := p.pages.FindByID(ctx, id)
		if err != nil {
			p.serverError(w, "find front page failed", err)
			return
		}
		if page != nil && page.IsPublished() {
			rc := theme.RequestContext{Kind: theme.KindFrontPage, PageTitle: page.Title}
			p.servePage(w, r, cache.FrontPageKey(), rc, page)
			return
		}
		slog.Warn("front page option points to an unpublished page", "id", id)
	}

	posts, err := p.pages.ListPublishedByType(ctx, models.PostTypePost)
	if err != nil {
		p.serverError(w, "list published posts failed", err)
		return
	}

	rc := theme.RequestContext{Kind: theme.KindHome, PostsPageTitle: p.postsPageTitle(ctx, opts)}
	p.serveView(w, r, cache.FrontPageKey(), theme.ResolveView(rc), &render.ViewData{
		Title:   theme.Title(rc),
		Entries: entriesOf(posts),
	})
}

// Archive lists the published entries of one post type with the archive
// view. Listings change with every page write, so they are not cached.
func (p *Public) Archive(w http.ResponseWriter, r *http.Request) {
	postType := models.PostType(chi.URLParam(r, "postType"))
	title, ok := archiveTitles[postType]
	if !ok {
		p.NotFound(w, r)
		return
	}

	pages, err := p.pages.ListPublishedByType(r.Context(), postType)
	if err != nil {
		p.serverError(w, "list archive failed", err, "post_type", postType)
		return
	}

	rc := theme.RequestContext{Kind: theme.KindArchive, ArchiveTitle: title}
	p.renderer.Page(w, http.StatusOK, theme.ResolveView(rc), &render.ViewData{
		Title:   theme.Title(rc),
		Entries: entriesOf(pages),
	})
}

// Search lists published entries whose title contains the q parameter.
// The view follows the post type of the first result, falling back to the
// page view, and is never cached.
func (p *Public) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if utf8.RuneCountInString(query) > maxSearchQuery {
		query = string([]rune(query)[:maxSearchQuery])
	}

	var results []models.Page
	if query != "" {
		var err error
		results, err = p.pages.Search(r.Context(), query, searchLimit)
		if err != nil {
			p.serverError(w, "search pages failed", err)
			return
		}
	}

	rc := theme.RequestContext{Kind: theme.KindSearch, SearchQuery: query}
	if len(results) > 0 {
		rc.PostType = string(results[0].PostType)
	}
	p.renderer.Page(w, http.StatusOK, theme.ResolveView(rc), &render.ViewData{
		Title:   theme.Title(rc),
		Entries: entriesOf(results),
	})
}

// Page renders a published page or post by its slug.
func (p *Public) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "slug")
	key := cache.SlugKey(slugParam)

	if cached, ok := p.pageCache.Get(ctx, key); ok {
		writeHTML(w, http.StatusOK, cached)
		return
	}

	page, err := p.pages.FindBySlug(ctx, slugParam)
	if err != nil {
		p.serverError(w, "find page by slug failed", err, "slug", slugParam)
		return
	}
	if page == nil {
		p.NotFound(w, r)
		return
	}

	rc := theme.RequestContext{Kind: theme.KindOther, PostType: string(page.PostType), PageTitle: page.Title}
	if page.PostType == models.PostTypePost {
		rc.Kind = theme.KindSingle
	}
	p.servePage(w, r, key, rc, page)
}

// NotFound renders the 404 view. Not-found responses are never cached.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	rc := theme.RequestContext{Kind: theme.KindNotFound}
	p.renderer.Page(w, http.StatusNotFound, theme.ResolveView(rc), &render.ViewData{
		Title: theme.Title(rc),
	})
}

// entriesOf turns pages into listing entries linked by slug.
func entriesOf(pages []models.Page) []render.Entry {
	entries := make([]render.Entry, 0, len(pages))
	for _, pg := range pages {
		entries = append(entries, render.Entry{
			Title:       pg.Title,
			URL:         "/" + pg.Slug,
			PublishedAt: pg.PublishedAt,
		})
	}
	return entries
}

// servePage renders the builder tree of page into the view chosen for rc.
func (p *Public) servePage(w http.ResponseWriter, r *http.Request, key string, rc theme.RequestContext, page *models.Page) {
	ctx := r.Context()

	tree, verrs, err := pagebuilder.LoadTree(ctx, p.trees, page.ID)
	if err != nil {
		p.serverError(w, "load page builder tree failed", err, "page", page.ID)
		return
	}
	if len(verrs) > 0 {
		slog.Warn("page builder tree has invalid content",
			"page", page.ID,
			"violations", len(verrs),
			"first", verrs[0].Error(),
		)
	}

	p.serveView(w, r, key, theme.ResolveView(rc), &render.ViewData{
		Title: theme.Title(rc),
		Body:  p.bodies.RenderPage(ctx, page, tree),
	})
}

// serveView executes a view, caches the result under key and writes it.
func (p *Public) serveView(w http.ResponseWriter, r *http.Request, key, view string, data *render.ViewData) {
	var buf bytes.Buffer
	if err := p.renderer.Execute(&buf, view, data); err != nil {
		p.serverError(w, "render view failed", err, "view", view)
		return
	}
	p.pageCache.Set(r.Context(), key, buf.Bytes())
	writeHTML(w, http.StatusOK, buf.Bytes())
}

// postsPageTitle returns the title of the page assigned as the posts
// index, or "" when none is set.
func (p *Public) postsPageTitle(ctx context.Context, opts models.SiteOptions) string {
	id, ok := opts.PageID(models.OptionPageForPosts)
	if !ok {
		return ""
	}
	page, err := p.pages.FindByID(ctx, id)
	if err != nil {
		slog.Warn("find posts page failed", "id", id, "error", err)
		return ""
	}
	if page == nil {
		return ""
	}
	return page.Title
}

func (p *Public) serverError(w http.ResponseWriter, msg string, err error, args ...any) {
	slog.Error(msg, append([]any{"error", err}, args...)...)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
