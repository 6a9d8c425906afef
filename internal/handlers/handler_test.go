// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides in-memory collaborators for handler tests so
// they run without PostgreSQL, Valkey or S3.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"vibrato/internal/engine"
	"vibrato/internal/models"
	"vibrato/internal/pagebuilder"
	"vibrato/internal/render"
	"vibrato/internal/theme"
)

var errBoom = errors.New("boom")

// fakePages is an in-memory PageRepository.
type fakePages struct {
	mu    sync.Mutex
	pages map[uuid.UUID]*models.Page
	err   error
}

func newFakePages(pages ...*models.Page) *fakePages {
	f := &fakePages{pages: make(map[uuid.UUID]*models.Page)}
	for _, p := range pages {
		f.pages[p.ID] = p
	}
	return f
}

func (f *fakePages) FindByID(_ context.Context, id uuid.UUID) (*models.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[id], nil
}

func (f *fakePages) FindBySlug(_ context.Context, slug string) (*models.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.pages {
		if p.Slug == slug && p.IsPublished() {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePages) SlugExists(_ context.Context, slug string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.pages {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, f.err
}

func (f *fakePages) Create(_ context.Context, p *models.Page) (*models.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	created := *p
	created.ID = uuid.New()
	if created.PostType == "" {
		created.PostType = models.PostTypePage
	}
	if created.Status == "" {
		created.Status = models.PageStatusDraft
	}
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.pages[created.ID] = &created
	return &created, nil
}

func (f *fakePages) ListPublishedByType(_ context.Context, postType models.PostType) ([]models.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Page
	for _, p := range f.pages {
		if p.PostType == postType && p.IsPublished() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePages) Search(_ context.Context, query string, limit int) ([]models.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Page
	for _, p := range f.pages {
		if p.IsPublished() && strings.Contains(strings.ToLower(p.Title), strings.ToLower(query)) {
			out = append(out, *p)
		}
	}
	slices.SortFunc(out, func(a, b models.Page) int { return strings.Compare(a.Slug, b.Slug) })
	return out[:min(len(out), limit)], nil
}

func (f *fakePages) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.pages, id)
	return f.err
}

// fakeOptions is a fixed OptionReader.
type fakeOptions struct {
	opts models.SiteOptions
	err  error
}

func (f fakeOptions) All(context.Context) (models.SiteOptions, error) {
	return f.opts, f.err
}

// fakeTrees is an in-memory TreeStore.
type fakeTrees struct {
	mu    sync.Mutex
	trees map[uuid.UUID]pagebuilder.RawTree
	err   error
}

func newFakeTrees() *fakeTrees {
	return &fakeTrees{trees: make(map[uuid.UUID]pagebuilder.RawTree)}
}

func (f *fakeTrees) Load(_ context.Context, id uuid.UUID) (pagebuilder.RawTree, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	raw, ok := f.trees[id]
	if !ok {
		return nil, pagebuilder.ErrNotFound
	}
	return raw, nil
}

func (f *fakeTrees) Save(_ context.Context, id uuid.UUID, raw pagebuilder.RawTree) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.trees[id] = raw
	return nil
}

func (f *fakeTrees) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.trees, id)
	return f.err
}

// fakeCache is an in-memory PageCache.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *fakeCache) Set(_ context.Context, key string, html []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = append([]byte(nil), html...)
}

func (c *fakeCache) Invalidate(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *fakeCache) InvalidateAll(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

func (c *fakeCache) has(key string) bool {
	_, ok := c.Get(context.Background(), key)
	return ok
}

// recordingBodies counts body cache invalidations.
type recordingBodies struct {
	invalidated []uuid.UUID
	all         int
}

func (r *recordingBodies) Invalidate(id uuid.UUID) { r.invalidated = append(r.invalidated, id) }
func (r *recordingBodies) InvalidateAll()          { r.all++ }

func testRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	th, err := theme.New(theme.Config{SiteName: "Test Site"})
	if err != nil {
		t.Fatalf("theme.New: %v", err)
	}
	rn, err := render.New(th)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	return rn
}

func testEngine() *engine.Engine {
	return engine.New(nil)
}

func publishedPage(title, slug string, postType models.PostType) *models.Page {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	return &models.Page{
		ID:          uuid.New(),
		PostType:    postType,
		Title:       title,
		Slug:        slug,
		Status:      models.PageStatusPublished,
		PublishedAt: &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// serve runs a request through a chi router so URL parameters resolve.
func serve(t *testing.T, routes func(r chi.Router), method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	routes(r)
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}
