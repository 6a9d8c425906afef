// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"vibrato/internal/cache"
	"vibrato/internal/models"
	"vibrato/internal/pagebuilder"
	"vibrato/internal/slug"
)

// TreeStore persists builder trees. It extends pagebuilder.Storage with
// removal of a page's content.
type TreeStore interface {
	pagebuilder.Storage
	Delete(ctx context.Context, pageID uuid.UUID) error
}

// Builder serves the page builder API: the schema, page creation, and
// loading, validating and saving builder trees.
type Builder struct {
	schema    *pagebuilder.Schema
	pages     PageRepository
	trees     TreeStore
	bodies    BodyInvalidator
	pageCache PageCache
}

// NewBuilder creates the builder API handler group.
func NewBuilder(schema *pagebuilder.Schema, pages PageRepository, trees TreeStore, bodies BodyInvalidator, pageCache PageCache) *Builder {
	if schema == nil {
		schema = pagebuilder.DefaultSchema()
	}
	return &Builder{
		schema:    schema,
		pages:     pages,
		trees:     trees,
		bodies:    bodies,
		pageCache: pageCache,
	}
}

// Schema returns the page builder schema so editors can build their forms.
func (b *Builder) Schema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, b.schema)
}

// createPageRequest is the body of POST /api/pages.
type createPageRequest struct {
	Title    string            `json:"title"`
	Slug     string            `json:"slug"`
	PostType models.PostType   `json:"post_type"`
	Status   models.PageStatus `json:"status"`
}

// CreatePage creates a page. A missing slug is generated from the title and
// made unique with a numeric suffix.
func (b *Builder) CreatePage(w http.ResponseWriter, r *http.Request) {
	var req createPageRequest
	if !decodeJSON(w, r, maxPageBody, &req) {
		return
	}
	if msg := validatePage(req.Title, req.Slug); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if msg := validatePageKind(req.PostType, req.Status); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	ctx := r.Context()
	pageSlug := slug.Generate(req.Slug)
	if pageSlug == "" {
		pageSlug = slug.Generate(req.Title)
	}
	if pageSlug == "" {
		writeError(w, http.StatusUnprocessableEntity, "Slug must contain letters or digits.")
		return
	}

	pageSlug, err := slug.Unique(ctx, pageSlug, b.pages.SlugExists)
	if err != nil {
		slog.Error("slug lookup failed", "error", err, "slug", pageSlug)
		writeError(w, http.StatusInternalServerError, "Failed to create page.")
		return
	}

	created, err := b.pages.Create(ctx, &models.Page{
		Title:    strings.TrimSpace(req.Title),
		Slug:     pageSlug,
		PostType: req.PostType,
		Status:   req.Status,
	})
	if err != nil {
		slog.Error("create page failed", "error", err, "slug", pageSlug)
		writeError(w, http.StatusInternalServerError, "Failed to create page.")
		return
	}

	// A new post changes the latest posts listing.
	if created.IsPublished() {
		b.pageCache.Invalidate(ctx, cache.FrontPageKey())
	}

	slog.Info("page created", "id", created.ID, "slug", created.Slug)
	writeJSON(w, http.StatusCreated, created)
}

// DeletePage removes a page and, through the foreign key, its tree.
func (b *Builder) DeletePage(w http.ResponseWriter, r *http.Request) {
	page, ok := b.findPage(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	if err := b.pages.Delete(ctx, page.ID); err != nil {
		slog.Error("delete page failed", "error", err, "id", page.ID)
		writeError(w, http.StatusInternalServerError, "Failed to delete page.")
		return
	}
	b.invalidate(ctx, page)
	slog.Info("page deleted", "id", page.ID, "slug", page.Slug)
	w.WriteHeader(http.StatusNoContent)
}

// GetTree returns the stored tree of a page as-is, or 204 when the page
// has no content yet.
func (b *Builder) GetTree(w http.ResponseWriter, r *http.Request) {
	page, ok := b.findPage(w, r)
	if !ok {
		return
	}
	raw, err := b.trees.Load(r.Context(), page.ID)
	if errors.Is(err, pagebuilder.ErrNotFound) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		slog.Error("load tree failed", "error", err, "page", page.ID)
		writeError(w, http.StatusInternalServerError, "Failed to load page content.")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

// SaveTree validates a tree and replaces the page's content with its
// canonical encoding. Any violation rejects the whole tree with 422 and
// the complete list of violations.
func (b *Builder) SaveTree(w http.ResponseWriter, r *http.Request) {
	page, ok := b.findPage(w, r)
	if !ok {
		return
	}
	raw, ok := readTree(w, r)
	if !ok {
		return
	}

	tree, verrs := b.schema.Decode(raw)
	if len(verrs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Valid: false, Errors: verrs})
		return
	}

	canonical, err := pagebuilder.Encode(tree)
	if err != nil {
		slog.Error("encode tree failed", "error", err, "page", page.ID)
		writeError(w, http.StatusInternalServerError, "Failed to save page content.")
		return
	}

	ctx := r.Context()
	if err := b.trees.Save(ctx, page.ID, canonical); err != nil {
		slog.Error("save tree failed", "error", err, "page", page.ID)
		writeError(w, http.StatusInternalServerError, "Failed to save page content.")
		return
	}
	b.invalidate(ctx, page)

	slog.Info("page builder saved", "page", page.ID, "sections", len(tree.Sections))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(canonical)
}

// ClearTree removes a page's builder content.
func (b *Builder) ClearTree(w http.ResponseWriter, r *http.Request) {
	page, ok := b.findPage(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	if err := b.trees.Delete(ctx, page.ID); err != nil {
		slog.Error("delete tree failed", "error", err, "page", page.ID)
		writeError(w, http.StatusInternalServerError, "Failed to clear page content.")
		return
	}
	b.invalidate(ctx, page)
	w.WriteHeader(http.StatusNoContent)
}

// validationResponse reports the outcome of validating a tree.
type validationResponse struct {
	Valid  bool                          `json:"valid"`
	Errors pagebuilder.ValidationErrors `json:"errors"`
}

// ValidateTree checks a tree without saving it. It always answers 200;
// the body says whether the tree is valid.
func (b *Builder) ValidateTree(w http.ResponseWriter, r *http.Request) {
	if _, ok := b.findPage(w, r); !ok {
		return
	}
	raw, ok := readTree(w, r)
	if !ok {
		return
	}
	_, verrs := b.schema.Decode(raw)
	if verrs == nil {
		verrs = pagebuilder.ValidationErrors{}
	}
	writeJSON(w, http.StatusOK, validationResponse{Valid: len(verrs) == 0, Errors: verrs})
}

// findPage resolves the {id} parameter to an existing page, writing the
// error response when it cannot.
func (b *Builder) findPage(w http.ResponseWriter, r *http.Request) (*models.Page, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return nil, false
	}
	page, err := b.pages.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find page failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "Failed to load page.")
		return nil, false
	}
	if page == nil {
		writeError(w, http.StatusNotFound, "Page not found.")
		return nil, false
	}
	return page, true
}

// invalidate drops every cached rendering a change to page can affect.
// The front page is always dropped since it may show this page.
func (b *Builder) invalidate(ctx context.Context, page *models.Page) {
	b.bodies.Invalidate(page.ID)
	b.pageCache.Invalidate(ctx, cache.SlugKey(page.Slug))
	b.pageCache.Invalidate(ctx, cache.FrontPageKey())
}

// readTree reads a size-limited raw tree from the request body.
func readTree(w http.ResponseWriter, r *http.Request) (pagebuilder.RawTree, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxTreeBody))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Page content is too large (max 2 MB).")
		return nil, false
	}
	return pagebuilder.RawTree(raw), true
}
