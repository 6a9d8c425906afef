// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"vibrato/internal/imaging"
	"vibrato/internal/models"
)

const (
	// maxUploadSize is the maximum allowed file upload size (50 MB).
	maxUploadSize = 50 << 20

	// defaultMediaPage and maxMediaPage bound the limit of the media listing.
	defaultMediaPage = 50
	maxMediaPage     = 100
)

// allowedMediaTypes defines MIME types accepted for upload: the images
// image blocks and galleries show, and the videos galleries play.
var allowedMediaTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
	"video/mp4":     true,
	"video/webm":    true,
}

// MediaRepository reads and writes media rows.
type MediaRepository interface {
	Create(ctx context.Context, m *models.Media) (*models.Media, error)
	List(ctx context.Context, limit, offset int) ([]models.Media, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.Media, error)
}

// VariantRepository reads and writes resized image variants.
type VariantRepository interface {
	CreateBatch(ctx context.Context, variants []models.MediaVariant) error
	FindByMediaIDs(ctx context.Context, mediaIDs []uuid.UUID) (map[uuid.UUID][]models.MediaVariant, error)
}

// ObjectStorage is the bucket media files live in.
type ObjectStorage interface {
	Bucket() string
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	FileURL(key string) string
}

// Media serves the media API used to fill image blocks and galleries.
type Media struct {
	media    MediaRepository
	variants VariantRepository
	storage  ObjectStorage
	bodies   BodyInvalidator
	cache    PageCache
	now      func() time.Time
}

// NewMedia creates the media API handler group. storage may be nil, in
// which case uploads answer 503.
func NewMedia(media MediaRepository, variants VariantRepository, storage ObjectStorage, bodies BodyInvalidator, pageCache PageCache) *Media {
	return &Media{
		media:    media,
		variants: variants,
		storage:  storage,
		bodies:   bodies,
		cache:    pageCache,
		now:      time.Now,
	}
}

// mediaResponse describes a media item to API clients.
type mediaResponse struct {
	ID          uuid.UUID         `json:"id"`
	URL         string            `json:"url"`
	Kind        string            `json:"kind"`
	Filename    string            `json:"filename"`
	ContentType string            `json:"content_type"`
	Size        string            `json:"size"`
	Alt         string            `json:"alt"`
	Variants    map[string]string `json:"variants,omitempty"`
}

func (h *Media) describe(m *models.Media, variants []models.MediaVariant) mediaResponse {
	resp := mediaResponse{
		ID:          m.ID,
		URL:         h.storage.FileURL(m.S3Key),
		Kind:        "image",
		Filename:    m.OriginalName,
		ContentType: m.ContentType,
		Size:        m.HumanSize(),
		Alt:         m.Alt(),
	}
	if m.IsVideo() {
		resp.Kind = "video"
	}
	if len(variants) > 0 {
		resp.Variants = make(map[string]string, len(variants))
		for _, v := range variants {
			resp.Variants[v.Name] = h.storage.FileURL(v.S3Key)
		}
	}
	return resp
}

// List returns a page of media items, newest first.
func (h *Media) List(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "Object storage is not configured.")
		return
	}
	limit, offset := listParams(r)

	ctx := r.Context()
	items, err := h.media.List(ctx, limit, offset)
	if err != nil {
		slog.Error("list media failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list media.")
		return
	}

	ids := make([]uuid.UUID, len(items))
	for i, m := range items {
		ids[i] = m.ID
	}
	variants, err := h.variants.FindByMediaIDs(ctx, ids)
	if err != nil {
		// The listing is still usable without variant URLs.
		slog.Warn("list media variants failed", "error", err)
	}

	out := make([]mediaResponse, 0, len(items))
	for i := range items {
		out = append(out, h.describe(&items[i], variants[items[i].ID]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Upload stores a multipart file in the bucket and records it. Resizable
// images also get the responsive variants image blocks select from;
// variant failures are logged and leave the original usable.
func (h *Media) Upload(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "Object storage is not configured.")
		return
	}

	// Limit request body to maxUploadSize + some overhead for form fields.
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 50 MB.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided.")
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read file.")
		return
	}

	contentType := detectContentType(header.Filename, fileBytes)
	if !allowedMediaTypes[contentType] {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("File type %q is not allowed.", contentType))
		return
	}

	now := h.now()
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = extensionFromType(contentType)
	}
	fileID := uuid.New().String()
	dir := fmt.Sprintf("media/%d/%02d", now.Year(), now.Month())
	s3Key := path.Join(dir, fileID+ext)

	ctx := r.Context()
	if err := h.storage.Upload(ctx, s3Key, contentType, bytes.NewReader(fileBytes), int64(len(fileBytes))); err != nil {
		slog.Error("s3 upload failed", "error", err, "key", s3Key)
		writeError(w, http.StatusInternalServerError, "Failed to upload file.")
		return
	}

	media := &models.Media{
		Filename:     fileID + ext,
		OriginalName: header.Filename,
		ContentType:  contentType,
		SizeBytes:    int64(len(fileBytes)),
		Bucket:       h.storage.Bucket(),
		S3Key:        s3Key,
	}
	if alt := altText(r); alt != "" {
		media.AltText = &alt
	}

	created, err := h.media.Create(ctx, media)
	if err != nil {
		slog.Error("media db insert failed", "error", err, "key", s3Key)
		if err := h.storage.Delete(ctx, s3Key); err != nil {
			slog.Warn("s3 cleanup after failed insert failed", "error", err, "key", s3Key)
		}
		writeError(w, http.StatusInternalServerError, "Failed to save file metadata.")
		return
	}

	var variants []models.MediaVariant
	if imaging.CanResize(contentType) {
		variants = h.storeVariants(ctx, created.ID, path.Join(dir, fileID), fileBytes)
	}

	slog.Info("media uploaded", "id", created.ID, "key", s3Key, "variants", len(variants))
	writeJSON(w, http.StatusCreated, h.describe(created, variants))
}

// storeVariants generates, uploads and records the resized copies of an
// image. It returns the variants that were recorded.
func (h *Media) storeVariants(ctx context.Context, mediaID uuid.UUID, keyBase string, original []byte) []models.MediaVariant {
	processed, err := imaging.GenerateVariants(original, imaging.DefaultVariants)
	if err != nil {
		slog.Warn("variant generation failed", "error", err, "media", mediaID)
		return nil
	}

	var variants []models.MediaVariant
	for _, p := range processed {
		key := keyBase + "_" + p.Name + imaging.Extension(p.ContentType)
		if err := h.storage.Upload(ctx, key, p.ContentType, bytes.NewReader(p.Data), int64(len(p.Data))); err != nil {
			slog.Warn("variant upload failed", "error", err, "key", key)
			continue
		}
		variants = append(variants, models.MediaVariant{
			MediaID:     mediaID,
			Name:        p.Name,
			Width:       p.Width,
			Height:      p.Height,
			S3Key:       key,
			ContentType: p.ContentType,
			SizeBytes:   int64(len(p.Data)),
		})
	}
	if len(variants) == 0 {
		return nil
	}

	if err := h.variants.CreateBatch(ctx, variants); err != nil {
		slog.Warn("variant db insert failed", "error", err, "media", mediaID)
		for _, v := range variants {
			if err := h.storage.Delete(ctx, v.S3Key); err != nil {
				slog.Warn("s3 variant cleanup failed", "error", err, "key", v.S3Key)
			}
		}
		return nil
	}
	return variants
}

// Delete removes a media item and its variants from both the bucket and
// the database. Pages referencing it stop showing it, so every rendered
// page is dropped from the caches.
func (h *Media) Delete(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "Object storage is not configured.")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	// Variant rows go with the media row, so collect their keys first.
	variants, err := h.variants.FindByMediaIDs(ctx, []uuid.UUID{id})
	if err != nil {
		slog.Error("media variant lookup failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete media.")
		return
	}

	deleted, err := h.media.Delete(ctx, id)
	if err != nil {
		slog.Error("media db delete failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete media.")
		return
	}
	if deleted == nil {
		writeError(w, http.StatusNotFound, "Media not found.")
		return
	}

	// Bucket cleanup is best-effort; the rows are already gone.
	keys := []string{deleted.S3Key}
	for _, v := range variants[id] {
		keys = append(keys, v.S3Key)
	}
	for _, key := range keys {
		if err := h.storage.Delete(ctx, key); err != nil {
			slog.Warn("s3 delete failed", "error", err, "key", key)
		}
	}

	h.bodies.InvalidateAll()
	h.cache.InvalidateAll(ctx)

	slog.Info("media deleted", "id", id, "objects", len(keys))
	w.WriteHeader(http.StatusNoContent)
}

// listParams reads limit and offset from the query. A missing or malformed
// limit uses defaultMediaPage; valid ones are clamped to 1..maxMediaPage.
func listParams(r *http.Request) (limit, offset int) {
	q := r.URL.Query()
	limit = defaultMediaPage
	if n, err := strconv.Atoi(q.Get("limit")); err == nil {
		limit = min(max(n, 1), maxMediaPage)
	}
	offset, _ = strconv.Atoi(q.Get("offset"))
	return limit, max(offset, 0)
}

// altText reads the alt form field, accepting alt_text as an older alias.
func altText(r *http.Request) string {
	if alt := strings.TrimSpace(r.FormValue("alt")); alt != "" {
		return alt
	}
	return strings.TrimSpace(r.FormValue("alt_text"))
}

// detectContentType sniffs the file contents. SVG sniffs as XML or text,
// so the file name decides for those.
func detectContentType(filename string, data []byte) string {
	contentType := http.DetectContentType(data)
	if strings.HasSuffix(strings.ToLower(filename), ".svg") &&
		(strings.Contains(contentType, "xml") || strings.Contains(contentType, "text/plain")) {
		return "image/svg+xml"
	}
	// Drop parameters such as "; charset=utf-8".
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	return contentType
}

// extensionFromType returns a file extension for known MIME types.
func extensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	default:
		return ""
	}
}
