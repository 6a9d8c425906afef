// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pagebuilder

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type memStorage struct {
	trees map[uuid.UUID]RawTree
	err   error
}

func (m *memStorage) Load(_ context.Context, id uuid.UUID) (RawTree, error) {
	if m.err != nil {
		return nil, m.err
	}
	raw, ok := m.trees[id]
	if !ok {
		return nil, ErrNotFound
	}
	return raw, nil
}

func (m *memStorage) Save(_ context.Context, id uuid.UUID, raw RawTree) error {
	if m.err != nil {
		return m.err
	}
	m.trees[id] = raw
	return nil
}

func TestLoadTree(t *testing.T) {
	ctx := context.Background()
	st := &memStorage{trees: map[uuid.UUID]RawTree{}}
	page := uuid.New()

	tree, errs, err := LoadTree(ctx, st, page)
	if err != nil || len(errs) != 0 {
		t.Fatalf("missing page: errs=%v err=%v", errs, err)
	}
	if !tree.Empty() {
		t.Error("missing page should load as an empty tree")
	}

	raw, err := Encode(sampleTree())
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Save(ctx, page, raw); err != nil {
		t.Fatal(err)
	}
	tree, errs, err = LoadTree(ctx, st, page)
	if err != nil || len(errs) != 0 {
		t.Fatalf("stored page: errs=%v err=%v", errs, err)
	}
	if len(tree.Sections) != 2 {
		t.Errorf("got %d sections, want 2", len(tree.Sections))
	}
}

func TestLoadTreeStorageError(t *testing.T) {
	boom := errors.New("connection reset")
	st := &memStorage{err: boom}
	_, _, err := LoadTree(context.Background(), st, uuid.New())
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}
