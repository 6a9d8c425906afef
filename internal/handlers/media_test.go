// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"vibrato/internal/cache"
	"vibrato/internal/models"
)

// fakeMediaRepo is an in-memory MediaRepository.
type fakeMediaRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Media
	err   error
}

func (f *fakeMediaRepo) Create(_ context.Context, m *models.Media) (*models.Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	created := *m
	created.ID = uuid.New()
	f.items[created.ID] = &created
	return &created, nil
}

func (f *fakeMediaRepo) List(_ context.Context, limit, offset int) ([]models.Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Media
	for _, m := range f.items {
		out = append(out, *m)
	}
	slices.SortFunc(out, func(a, b models.Media) int { return strings.Compare(a.S3Key, b.S3Key) })
	if offset >= len(out) {
		return nil, nil
	}
	return out[offset:min(len(out), offset+limit)], nil
}

func (f *fakeMediaRepo) Delete(_ context.Context, id uuid.UUID) (*models.Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	delete(f.items, id)
	return m, nil
}

// fakeVariantRepo is an in-memory VariantRepository.
type fakeVariantRepo struct {
	mu       sync.Mutex
	variants map[uuid.UUID][]models.MediaVariant
}

func (f *fakeVariantRepo) CreateBatch(_ context.Context, variants []models.MediaVariant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range variants {
		f.variants[v.MediaID] = append(f.variants[v.MediaID], v)
	}
	return nil
}

func (f *fakeVariantRepo) FindByMediaIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID][]models.MediaVariant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[uuid.UUID][]models.MediaVariant)
	for _, id := range ids {
		if vs, ok := f.variants[id]; ok {
			out[id] = vs
		}
	}
	return out, nil
}

// fakeBucket records uploaded objects.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string]string // key -> content type
}

func (b *fakeBucket) Bucket() string { return "media" }

func (b *fakeBucket) Upload(_ context.Context, key, contentType string, body io.Reader, size int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return io.ErrShortWrite
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = contentType
	return nil
}

func (b *fakeBucket) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	return nil
}

func (b *fakeBucket) FileURL(key string) string {
	return "https://cdn.example.com/" + key
}

func (b *fakeBucket) keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var keys []string
	for k := range b.objects {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

type mediaFixture struct {
	repo     *fakeMediaRepo
	variants *fakeVariantRepo
	bucket   *fakeBucket
	bodies   *recordingBodies
	cache    *fakeCache
	handler  *Media
}

func newMediaFixture(withStorage bool) *mediaFixture {
	f := &mediaFixture{
		repo:     &fakeMediaRepo{items: make(map[uuid.UUID]*models.Media)},
		variants: &fakeVariantRepo{variants: make(map[uuid.UUID][]models.MediaVariant)},
		bucket:   &fakeBucket{objects: make(map[string]string)},
		bodies:   &recordingBodies{},
		cache:    newFakeCache(),
	}
	var storage ObjectStorage
	if withStorage {
		storage = f.bucket
	}
	f.handler = NewMedia(f.repo, f.variants, storage, f.bodies, f.cache)
	f.handler.now = func() time.Time { return time.Date(2026, 5, 14, 8, 0, 0, 0, time.UTC) }
	return f
}

func (f *mediaFixture) routes(r chi.Router) {
	r.Get("/api/media", f.handler.List)
	r.Post("/api/media", f.handler.Upload)
	r.Delete("/api/media/{id}", f.handler.Delete)
}

func (f *mediaFixture) upload(t *testing.T, filename string, data []byte, alt string) *httptest.ResponseRecorder {
	t.Helper()
	fields := map[string]string{}
	if alt != "" {
		fields["alt"] = alt
	}
	return f.uploadForm(t, filename, data, fields)
}

// uploadForm posts a multipart upload of data with extra form fields.
func (f *mediaFixture) uploadForm(t *testing.T, filename string, data []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	fw.Write(data)
	for name, value := range fields {
		mw.WriteField(name, value)
	}
	mw.Close()

	r := chi.NewRouter()
	f.routes(r)
	req := httptest.NewRequest(http.MethodPost, "/api/media", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestMediaUploadImageWithVariants(t *testing.T) {
	f := newMediaFixture(true)

	rr := f.upload(t, "Hero.PNG", testPNG(t, 800, 400), "A hero image")

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201 (%s)", rr.Code, rr.Body.String())
	}
	var got mediaResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	base := "media/2026/05/" + strings.TrimSuffix(f.repo.items[got.ID].Filename, ".png")
	want := mediaResponse{
		ID:          got.ID,
		URL:         "https://cdn.example.com/" + base + ".png",
		Kind:        "image",
		Filename:    "Hero.PNG",
		ContentType: "image/png",
		Size:        got.Size,
		Alt:         "A hero image",
		Variants: map[string]string{
			models.VariantThumb: "https://cdn.example.com/" + base + "_thumb.png",
			models.VariantSmall: "https://cdn.example.com/" + base + "_sm.png",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}

	wantKeys := []string{base + ".png", base + "_sm.png", base + "_thumb.png"}
	if diff := cmp.Diff(wantKeys, f.bucket.keys()); diff != "" {
		t.Errorf("bucket keys (-want +got):\n%s", diff)
	}
	if n := len(f.variants.variants[got.ID]); n != 2 {
		t.Errorf("recorded variants: got %d, want 2", n)
	}
}

func TestMediaUploadVideoSkipsVariants(t *testing.T) {
	f := newMediaFixture(true)
	// Minimal ftyp box; enough for content sniffing.
	mp4 := []byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom")

	rr := f.upload(t, "clip.mp4", mp4, "")

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201 (%s)", rr.Code, rr.Body.String())
	}
	var got mediaResponse
	json.Unmarshal(rr.Body.Bytes(), &got)
	if got.Kind != "video" || got.ContentType != "video/mp4" || got.Alt != "clip.mp4" {
		t.Errorf("unexpected response: %+v", got)
	}
	if len(got.Variants) != 0 || len(f.bucket.keys()) != 1 {
		t.Errorf("videos get no variants: %+v, keys %v", got.Variants, f.bucket.keys())
	}
}

func TestMediaUploadRejects(t *testing.T) {
	tests := []struct {
		name       string
		storage    bool
		filename   string
		data       []byte
		wantStatus int
	}{
		{"no storage", false, "a.png", []byte("x"), http.StatusServiceUnavailable},
		{"disallowed type", true, "notes.txt", []byte("plain text notes"), http.StatusBadRequest},
		{"html disguised as image", true, "evil.png", []byte("<html><script>alert(1)</script></html>"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newMediaFixture(tt.storage)
			rr := f.upload(t, tt.filename, tt.data, "")
			if rr.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
			if len(f.bucket.keys()) != 0 || len(f.repo.items) != 0 {
				t.Error("rejected uploads must not store anything")
			}
		})
	}
}

func TestMediaUploadDBFailureCleansBucket(t *testing.T) {
	f := newMediaFixture(true)
	f.repo.err = errBoom

	rr := f.upload(t, "a.png", testPNG(t, 10, 10), "")

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rr.Code)
	}
	if keys := f.bucket.keys(); len(keys) != 0 {
		t.Errorf("orphaned objects left in bucket: %v", keys)
	}
}

func TestMediaDelete(t *testing.T) {
	f := newMediaFixture(true)
	rr := f.upload(t, "hero.png", testPNG(t, 800, 400), "")
	var created mediaResponse
	json.Unmarshal(rr.Body.Bytes(), &created)
	f.cache.entries[cache.SlugKey("gallery")] = []byte("cached")

	rr = serve(t, f.routes, http.MethodDelete, "/api/media/"+created.ID.String(), nil)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", rr.Code)
	}
	if keys := f.bucket.keys(); len(keys) != 0 {
		t.Errorf("original and variants should be deleted, left %v", keys)
	}
	if f.bodies.all != 1 || f.cache.has(cache.SlugKey("gallery")) {
		t.Error("deleting media should drop every rendered page")
	}

	rr = serve(t, f.routes, http.MethodDelete, "/api/media/"+created.ID.String(), nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("second delete: got %d, want 404", rr.Code)
	}
}

func TestMediaList(t *testing.T) {
	f := newMediaFixture(true)
	f.upload(t, "hero.png", testPNG(t, 800, 400), "")
	f.upload(t, "icon.png", testPNG(t, 16, 16), "")

	rr := serve(t, f.routes, http.MethodGet, "/api/media", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var got []mediaResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("items: got %d, want 2", len(got))
	}
	withVariants := 0
	for _, m := range got {
		if len(m.Variants) > 0 {
			withVariants++
		}
	}
	if withVariants != 1 {
		t.Errorf("only the large image has variants, got %d with variants", withVariants)
	}
}

func TestMediaUploadAltText(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]string
		wantAlt string
	}{
		{"alt field", map[string]string{"alt": "Documented alt"}, "Documented alt"},
		{"alt_text alias", map[string]string{"alt_text": "Legacy alt"}, "Legacy alt"},
		{"alt wins over alias", map[string]string{"alt": "New", "alt_text": "Old"}, "New"},
		{"blank alt falls back to filename", map[string]string{"alt": "   "}, "a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newMediaFixture(true)
			rr := f.uploadForm(t, "a.png", testPNG(t, 16, 16), tt.fields)

			if rr.Code != http.StatusCreated {
				t.Fatalf("status: got %d, want 201 (%s)", rr.Code, rr.Body.String())
			}
			var got mediaResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if got.Alt != tt.wantAlt {
				t.Errorf("alt: got %q, want %q", got.Alt, tt.wantAlt)
			}
		})
	}
}

func TestMediaListLimit(t *testing.T) {
	f := newMediaFixture(true)
	for _, name := range []string{"a.png", "b.png", "c.png", "d.png"} {
		if rr := f.upload(t, name, testPNG(t, 16, 16), ""); rr.Code != http.StatusCreated {
			t.Fatalf("upload %s: status %d", name, rr.Code)
		}
	}

	tests := []struct {
		query string
		want  int
	}{
		{"", 4},
		{"?limit=2", 2},
		{"?limit=2&offset=3", 1},
		{"?limit=0", 1},
		{"?limit=-5", 1},
		{"?limit=1000", 4},
		{"?limit=abc", 4},
		{"?offset=10", 0},
	}

	for _, tt := range tests {
		t.Run("query"+tt.query, func(t *testing.T) {
			rr := serve(t, f.routes, http.MethodGet, "/api/media"+tt.query, nil)
			if rr.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200", rr.Code)
			}
			var got []mediaResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("items: got %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestListParams(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", defaultMediaPage, 0},
		{"limit=25&offset=50", 25, 50},
		{"limit=0", 1, 0},
		{"limit=101", maxMediaPage, 0},
		{"limit=x&offset=-4", defaultMediaPage, 0},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/api/media?"+tt.query, nil)
		limit, offset := listParams(r)
		if limit != tt.wantLimit || offset != tt.wantOffset {
			t.Errorf("listParams(%q) = %d, %d; want %d, %d", tt.query, limit, offset, tt.wantLimit, tt.wantOffset)
		}
	}
}

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		filename string
		data     string
		want     string
	}{
		{"logo.svg", `<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"></svg>`, "image/svg+xml"},
		{"notes.txt", "hello", "text/plain"},
		{"anim.gif", "GIF89a......", "image/gif"},
	}
	for _, tt := range tests {
		if got := detectContentType(tt.filename, []byte(tt.data)); got != tt.want {
			t.Errorf("detectContentType(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
