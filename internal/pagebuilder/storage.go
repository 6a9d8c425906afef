// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pagebuilder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// RawTree is a page builder tree as persisted: untyped JSON that must pass
// through Decode or Validate before use.
type RawTree = json.RawMessage

// ErrNotFound is returned by a Storage that holds no tree for a page.
// Callers treat it as "no content".
var ErrNotFound = errors.New("pagebuilder: no content for page")

// Storage persists whole trees keyed by page ID. Saves replace the
// previous tree.
type Storage interface {
	Load(ctx context.Context, pageID uuid.UUID) (RawTree, error)
	Save(ctx context.Context, pageID uuid.UUID, tree RawTree) error
}

// LoadTree loads and decodes the tree of a page. A page without content
// yields an empty tree. Validation problems are returned alongside the
// tree (which holds every valid block); err is reserved for storage
// failures.
func LoadTree(ctx context.Context, st Storage, pageID uuid.UUID) (*Tree, ValidationErrors, error) {
	raw, err := st.Load(ctx, pageID)
	if errors.Is(err, ErrNotFound) {
		return &Tree{}, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load page builder tree %s: %w", pageID, err)
	}
	t, errs := Decode(raw)
	return t, errs, nil
}
