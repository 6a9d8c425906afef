package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"vibrato/internal/pagebuilder"
)

// Seed populates an empty database with a published home page built with
// the page builder and assigns it as the front page. It does nothing when
// any page already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM pages").Scan(&count); err != nil {
		return fmt.Errorf("seed check pages: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tree, err := pagebuilder.Encode(homeTree())
	if err != nil {
		return fmt.Errorf("seed encode home tree: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var homeID uuid.UUID
	err = tx.QueryRow(`
		INSERT INTO pages (post_type, title, slug, status, published_at)
		VALUES ('page', 'Home', 'home', 'published', NOW())
		RETURNING id
	`).Scan(&homeID)
	if err != nil {
		return fmt.Errorf("seed insert home page: %w", err)
	}

	if _, err := tx.Exec(`INSERT INTO page_builder (page_id, tree) VALUES ($1, $2)`, homeID, string(tree)); err != nil {
		return fmt.Errorf("seed insert home tree: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO site_options (key, value) VALUES ('page_on_front', $1)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, homeID.String()); err != nil {
		return fmt.Errorf("seed front page option: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with home page", "page_id", homeID)
	return nil
}

// homeTree is the starter layout: a centred hero section followed by three
// equal feature columns.
func homeTree() *pagebuilder.Tree {
	hero := pagebuilder.DefaultSection()
	hero.FullWidth = true
	hero.VerticalAlign = true
	hero.MobileCenterText = true
	hero.PaddingTop = 5
	hero.PaddingBottom = 5
	hero.ExtraClass = "hero"
	hero.Columns = []pagebuilder.Column{{Blocks: []pagebuilder.Block{
		pagebuilder.HeadingBlock{Tag: pagebuilder.HeadingH2, Text: "Welcome to Vibrato"},
		pagebuilder.TextBlock{HTML: "<p>This page was assembled from sections, columns and content blocks.</p>"},
		pagebuilder.SpaceBlock{Height: 16},
		pagebuilder.ButtonBlock{Text: "Get in touch", Link: "/contact", Size: pagebuilder.ButtonLarge},
	}}}

	features := pagebuilder.DefaultSection()
	features.ContentContained = true
	for _, f := range []struct{ title, body string }{
		{"Sections", "Stack full-width or contained sections with their own spacing."},
		{"Columns", "Split a section into up to six columns."},
		{"Blocks", "Fill columns with text, headings, images, buttons and more."},
	} {
		features.Columns = append(features.Columns, pagebuilder.Column{Blocks: []pagebuilder.Block{
			pagebuilder.HeadingBlock{Tag: pagebuilder.HeadingH3, Text: f.title},
			pagebuilder.TextareaBlock{Text: f.body},
		}})
	}

	footer := pagebuilder.DefaultSection()
	footer.PaddingTop = 2
	footer.PaddingBottom = 2
	footer.Columns = []pagebuilder.Column{{Blocks: []pagebuilder.Block{
		pagebuilder.ShortcodeBlock{Code: "© [year] [page_title]"},
	}}}

	return &pagebuilder.Tree{Sections: []pagebuilder.Section{hero, features, footer}}
}
