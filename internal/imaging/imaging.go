// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging generates the resized variants image blocks choose from.
// Variants wider than the source image are skipped to avoid upscaling.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	"vibrato/internal/models"
)

// MaxPixels caps the decoded size of a source image to prevent memory
// bombs. 10000x10000 is ~400 MB in RGBA.
const MaxPixels = 100_000_000

// Variant describes a single responsive image size.
type Variant struct {
	Name    string // one of the models.Variant* names
	Width   int    // target width in pixels
	Quality int    // JPEG quality 1-100
}

// DefaultVariants defines the standard breakpoints for responsive web images.
var DefaultVariants = []Variant{
	{Name: models.VariantThumb, Width: 320, Quality: 75},
	{Name: models.VariantSmall, Width: 640, Quality: 80},
	{Name: models.VariantMedium, Width: 1024, Quality: 80},
	{Name: models.VariantLarge, Width: 1920, Quality: 80},
}

// resizable lists the source types variants are generated for. GIF is
// excluded to preserve animation; SVG is vector.
var resizable = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// CanResize reports whether variants can be generated for contentType.
func CanResize(contentType string) bool {
	return resizable[contentType]
}

// ProcessedImage holds one generated variant ready for upload.
type ProcessedImage struct {
	Name        string
	Width       int
	Height      int
	Data        []byte
	ContentType string
}

// GenerateVariants resizes the source image for each variant narrower than
// it. PNG sources stay PNG to keep transparency; everything else becomes
// JPEG. A source narrower than every variant yields no variants.
func GenerateVariants(original []byte, variants []Variant) ([]ProcessedImage, error) {
	if len(variants) == 0 {
		variants = DefaultVariants
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(original))
	if err != nil {
		return nil, fmt.Errorf("imaging: probe failed: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("imaging: image too large: %dx%d exceeds %d pixels", cfg.Width, cfg.Height, MaxPixels)
	}

	src, _, err := image.Decode(bytes.NewReader(original))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode failed: %w", err)
	}
	bounds := src.Bounds()

	var results []ProcessedImage
	for _, v := range variants {
		if v.Width >= bounds.Dx() {
			continue
		}
		height := max(1, bounds.Dy()*v.Width/bounds.Dx())
		dst := image.NewRGBA(image.Rect(0, 0, v.Width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

		var buf bytes.Buffer
		contentType := "image/jpeg"
		if format == "png" {
			contentType = "image/png"
			err = png.Encode(&buf, dst)
		} else {
			err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: v.Quality})
		}
		if err != nil {
			return nil, fmt.Errorf("imaging: encode %s: %w", v.Name, err)
		}

		results = append(results, ProcessedImage{
			Name:        v.Name,
			Width:       v.Width,
			Height:      height,
			Data:        buf.Bytes(),
			ContentType: contentType,
		})
	}
	return results, nil
}

// Extension returns the file extension for a variant content type.
func Extension(contentType string) string {
	if contentType == "image/png" {
		return ".png"
	}
	return ".jpg"
}
