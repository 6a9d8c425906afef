// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"vibrato/internal/pagebuilder"
)

// BuilderStore persists page builder trees in the page_builder table. It
// implements pagebuilder.Storage.
type BuilderStore struct {
	db *sql.DB
}

var _ pagebuilder.Storage = (*BuilderStore)(nil)

// NewBuilderStore creates a new BuilderStore with the given database connection.
func NewBuilderStore(db *sql.DB) *BuilderStore {
	return &BuilderStore{db: db}
}

// Load returns the stored tree of a page, or pagebuilder.ErrNotFound.
func (s *BuilderStore) Load(ctx context.Context, pageID uuid.UUID) (pagebuilder.RawTree, error) {
	var tree []byte
	err := s.db.QueryRowContext(ctx, `SELECT tree FROM page_builder WHERE page_id = $1`, pageID).Scan(&tree)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pagebuilder.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load page builder tree: %w", err)
	}
	return pagebuilder.RawTree(tree), nil
}

// Save replaces the tree of a page and bumps the page's updated_at so
// cached renders keyed by the page version are superseded.
func (s *BuilderStore) Save(ctx context.Context, pageID uuid.UUID, tree pagebuilder.RawTree) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin page builder save: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO page_builder (page_id, tree, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (page_id)
		DO UPDATE SET tree = EXCLUDED.tree, updated_at = EXCLUDED.updated_at
	`, pageID, string(tree))
	if err != nil {
		return fmt.Errorf("save page builder tree: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE pages SET updated_at = NOW() WHERE id = $1`, pageID); err != nil {
		return fmt.Errorf("touch page: %w", err)
	}

	return tx.Commit()
}

// Delete removes the tree of a page. Deleting a missing tree is not an error.
func (s *BuilderStore) Delete(ctx context.Context, pageID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM page_builder WHERE page_id = $1`, pageID); err != nil {
		return fmt.Errorf("delete page builder tree: %w", err)
	}
	return nil
}
