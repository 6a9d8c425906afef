// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"vibrato/internal/models"
)

// VariantStore handles database operations for responsive image variants.
type VariantStore struct {
	db *sql.DB
}

// NewVariantStore creates a new VariantStore with the given database connection.
func NewVariantStore(db *sql.DB) *VariantStore {
	return &VariantStore{db: db}
}

const variantColumns = `id, media_id, name, width, height, s3_key, content_type, size_bytes, created_at`

func scanVariant(scanner interface{ Scan(...any) error }) (*models.MediaVariant, error) {
	var v models.MediaVariant
	err := scanner.Scan(
		&v.ID, &v.MediaID, &v.Name, &v.Width, &v.Height,
		&v.S3Key, &v.ContentType, &v.SizeBytes, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// CreateBatch inserts multiple variants in a single transaction. A variant
// whose name already exists for the media item replaces the old one.
func (s *VariantStore) CreateBatch(ctx context.Context, variants []models.MediaVariant) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin variant batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO media_variants (media_id, name, width, height, s3_key, content_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (media_id, name) DO UPDATE SET
			width = EXCLUDED.width, height = EXCLUDED.height, s3_key = EXCLUDED.s3_key,
			content_type = EXCLUDED.content_type, size_bytes = EXCLUDED.size_bytes
	`)
	if err != nil {
		return fmt.Errorf("prepare variant insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range variants {
		if _, err := stmt.ExecContext(ctx, v.MediaID, v.Name, v.Width, v.Height, v.S3Key, v.ContentType, v.SizeBytes); err != nil {
			return fmt.Errorf("insert variant %s: %w", v.Name, err)
		}
	}

	return tx.Commit()
}

// FindByMediaIDs returns variants for multiple media items at once, keyed by
// media ID and ordered by width. Used for batch resolution while rendering.
func (s *VariantStore) FindByMediaIDs(ctx context.Context, mediaIDs []uuid.UUID) (map[uuid.UUID][]models.MediaVariant, error) {
	if len(mediaIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inList(len(mediaIDs), func(i int) any { return mediaIDs[i] })

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+variantColumns+`
		FROM media_variants
		WHERE media_id IN (`+placeholders+`)
		ORDER BY media_id, width ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("find variants by media ids: %w", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]models.MediaVariant)
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		result[v.MediaID] = append(result[v.MediaID], *v)
	}
	return result, rows.Err()
}
