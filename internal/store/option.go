// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vibrato/internal/models"
)

// OptionStore manages site options such as the static front page.
type OptionStore struct {
	db *sql.DB
}

// NewOptionStore returns a new OptionStore backed by the given database.
func NewOptionStore(db *sql.DB) *OptionStore {
	return &OptionStore{db: db}
}

// All returns every option as a convenience map.
func (s *OptionStore) All(ctx context.Context) (models.SiteOptions, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM site_options ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list site options: %w", err)
	}
	defer rows.Close()

	opts := make(models.SiteOptions)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan site option: %w", err)
		}
		opts[k] = v
	}
	return opts, rows.Err()
}

// Get returns a single option by key, or the fallback if unset or empty.
func (s *OptionStore) Get(ctx context.Context, key, fallback string) (string, error) {
	var val string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM site_options WHERE key = $1`, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("get site option %s: %w", key, err)
	}
	if val == "" {
		return fallback, nil
	}
	return val, nil
}

// Set upserts a single option.
func (s *OptionStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO site_options (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("set site option %s: %w", key, err)
	}
	return nil
}
