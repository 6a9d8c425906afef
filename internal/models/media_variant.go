// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Variant names. Image blocks map their selected size onto one of these;
// the "full" size always uses the original file.
const (
	VariantThumb  = "thumb"
	VariantSmall  = "sm"
	VariantMedium = "md"
	VariantLarge  = "lg"
)

// MediaVariant is a resized copy of an image stored next to the original.
type MediaVariant struct {
	ID          uuid.UUID `json:"id"`
	MediaID     uuid.UUID `json:"media_id"`
	Name        string    `json:"name"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	S3Key       string    `json:"s3_key"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// FindVariant returns the variant with the given name.
func FindVariant(variants []MediaVariant, name string) (MediaVariant, bool) {
	for _, v := range variants {
		if v.Name == name {
			return v, true
		}
	}
	return MediaVariant{}, false
}
