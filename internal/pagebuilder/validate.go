// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pagebuilder

import (
	"slices"
	"strings"
)

// ValidateTree checks a typed tree, e.g. one assembled in code rather than
// decoded from storage, against the default schema.
func ValidateTree(t *Tree) ValidationErrors {
	return DefaultSchema().ValidateTree(t)
}

// ValidateTree reports every violation in t: spacing levels out of range,
// too many columns, enum values outside their option sets, missing
// required fields, and invalid gallery entries.
func (s *Schema) ValidateTree(t *Tree) ValidationErrors {
	var c collector
	if t == nil {
		return nil
	}

	for i, sec := range t.Sections {
		loc := SectionLocation(i)
		spacings := []struct {
			field string
			level Spacing
		}{
			{FieldPaddingTop, sec.PaddingTop},
			{FieldPaddingBottom, sec.PaddingBottom},
			{FieldMarginTop, sec.MarginTop},
			{FieldMarginBottom, sec.MarginBottom},
		}
		for _, sp := range spacings {
			if !sp.level.Valid() {
				c.violation(loc, sp.field, RuleInvalidOption, "level %d is outside 0-%d", int(sp.level), MaxSpacing)
			}
		}
		if len(sec.Columns) > s.Column.Max {
			c.violation(loc, FieldColumns, RuleMaxColumns,
				"section has %d columns, at most %d are allowed", len(sec.Columns), s.Column.Max)
		}
		for j, col := range sec.Columns {
			for k, b := range col.Blocks {
				s.checkBlock(&c, BlockLocation(i, j, k), b)
			}
		}
	}

	if t.Gallery != nil {
		seen := make(map[string]bool, len(t.Gallery.Items))
		for i, it := range t.Gallery.Items {
			loc := GalleryLocation(i)
			if !slices.Contains(s.Gallery.Kinds, string(it.Kind)) {
				c.violation(loc, FieldMediaKind, RuleInvalidMediaKind, "%q is not one of %s", it.Kind, strings.Join(s.Gallery.Kinds, ", "))
				continue
			}
			id := it.ID.String()
			if seen[id] && !s.Gallery.DuplicatesAllowed {
				c.violation(loc, FieldMediaID, RuleDuplicateMedia, "media %s already appears in the gallery", id)
				continue
			}
			seen[id] = true
		}
	}

	return c.result()
}

func (s *Schema) checkBlock(c *collector, loc Location, b Block) {
	required := func(field, v string) {
		if strings.TrimSpace(v) == "" {
			f, _ := s.BlockField(field)
			c.violation(loc, field, RuleRequired, "%s is required for %s blocks", f.Label, b.Type())
		}
	}
	option := func(field, v string) {
		f, _ := s.BlockField(field)
		if _, ok := f.Normalize(v); !ok {
			c.violation(loc, field, RuleInvalidOption, "%q is not one of %s", v, strings.Join(f.Options, ", "))
		}
	}

	switch b := b.(type) {
	case TextBlock:
		required(FieldContentText, b.HTML)
	case TextareaBlock:
		required(FieldContentTextareaText, b.Text)
	case ShortcodeBlock:
		required(FieldContentShortcode, b.Code)
	case HeadingBlock:
		option(FieldContentHeadingTag, string(b.Tag))
		required(FieldContentHeadingText, b.Text)
	case ImageBlock:
		required(FieldContentImage, b.URL)
		option(FieldContentImageSize, string(b.Size))
	case ButtonBlock:
		option(FieldContentButtonColor, string(b.Color))
		option(FieldContentButtonSize, string(b.Size))
		required(FieldContentButtonText, b.Text)
		required(FieldContentButtonLink, b.Link)
		if b.Color == ButtonColorCustom {
			required(FieldContentButtonBackground, b.Background)
			if b.Background != "" && !ValidColor(b.Background) {
				c.violation(loc, FieldContentButtonBackground, RuleInvalidColor, "%q is not a hex colour", b.Background)
			}
		}
	case SpaceBlock:
		if b.Height < 0 {
			c.violation(loc, FieldContentSpace, RuleInvalidNumber, "%d is not a non-negative pixel size", b.Height)
		}
	default:
		c.add(KindUnknownVariant, loc, FieldContentType, RuleUnknownVariant, "unsupported block %T", b)
	}
}
