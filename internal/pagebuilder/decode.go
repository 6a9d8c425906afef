// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pagebuilder

import (
	"bytes"
	"encoding/json"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Validate decodes and validates a stored tree against the default schema.
// The returned tree holds every block that passed validation, so it can be
// rendered even when err is non-nil. err is a ValidationErrors listing all
// violations in tree order.
func Validate(raw RawTree) (*Tree, error) {
	t, errs := DefaultSchema().Decode(raw)
	if len(errs) > 0 {
		return t, errs
	}
	return t, nil
}

// Decode is Validate with the violations returned as a typed slice.
func Decode(raw RawTree) (*Tree, ValidationErrors) {
	return DefaultSchema().Decode(raw)
}

// Decode turns an untyped stored tree into a typed Tree. It never stops at
// the first problem: each section, column and block is checked on its own
// and failing blocks are left out of the result. Section attributes with
// invalid values fall back to their defaults.
func (s *Schema) Decode(raw RawTree) (*Tree, ValidationErrors) {
	d := &decoder{s: s}
	tree := &Tree{}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return tree, nil
	}

	var doc map[string]any
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		d.c.violation(PageLocation(), "", RuleMalformed, "tree is not a JSON object: %v", err)
		return tree, d.c.result()
	}

	entries, ok := list(doc[FieldRoot])
	if !ok {
		d.c.violation(PageLocation(), FieldRoot, RuleMalformed, "%s must be a list", FieldRoot)
		return tree, d.c.result()
	}

	sections, galleries := 0, 0
	for i, e := range entries {
		m, ok := e.(map[string]any)
		if !ok {
			d.c.violation(PageLocation(), FieldRoot, RuleMalformed, "entry %d is not an object", i)
			continue
		}
		layout := scalarString(m[FieldLayoutType])
		if layout == "" {
			layout = s.Section.Layout
		}
		switch layout {
		case s.Section.Layout:
			tree.Sections = append(tree.Sections, d.section(sections, m))
			sections++
		case s.Gallery.Layout:
			galleries++
			if s.Gallery.Max > 0 && galleries > s.Gallery.Max {
				d.c.violation(GalleryLocation(-1), FieldMediaGallery, RuleMaxGalleries,
					"a page may hold at most %d media gallery", s.Gallery.Max)
				continue
			}
			tree.Gallery = d.gallery(m)
		default:
			d.c.violation(PageLocation(), FieldLayoutType, RuleUnknownLayout, "entry %d has unknown layout %q", i, layout)
		}
	}

	return tree, d.c.result()
}

type decoder struct {
	s *Schema
	c collector
}

func (d *decoder) section(idx int, m map[string]any) Section {
	loc := SectionLocation(idx)
	sec := DefaultSection()

	sec.FullWidth = d.checkbox(d.s.Section.Fields, FieldFullWidth, m)
	sec.ContentContained = d.checkbox(d.s.Section.Fields, FieldContentContained, m)
	sec.VerticalAlign = d.checkbox(d.s.Section.Fields, FieldVerticalAlign, m)
	sec.MobileCenterText = d.checkbox(d.s.Section.Fields, FieldMobileCenterText, m)
	sec.MobileReverseColumns = d.checkbox(d.s.Section.Fields, FieldMobileReverseColumns, m)

	sec.PaddingTop = d.spacing(loc, FieldPaddingTop, m)
	sec.PaddingBottom = d.spacing(loc, FieldPaddingBottom, m)
	sec.MarginTop = d.spacing(loc, FieldMarginTop, m)
	sec.MarginBottom = d.spacing(loc, FieldMarginBottom, m)
	sec.ExtraClass = scalarString(m[FieldSectionClass])

	cols, ok := list(m[FieldColumns])
	if !ok {
		d.c.violation(loc, FieldColumns, RuleMalformed, "%s must be a list", FieldColumns)
		return sec
	}
	if len(cols) > d.s.Column.Max {
		d.c.violation(loc, FieldColumns, RuleMaxColumns,
			"section has %d columns, at most %d are allowed", len(cols), d.s.Column.Max)
	}
	for j, cv := range cols {
		col := d.column(idx, j, cv)
		if j < d.s.Column.Max {
			sec.Columns = append(sec.Columns, col)
		}
	}
	return sec
}

func (d *decoder) checkbox(fields []Field, name string, m map[string]any) bool {
	f, ok := findField(fields, name)
	if !ok {
		return truthy(m[name], "")
	}
	return truthy(m[name], f.OptionValue)
}

// spacing reads a padding or margin select. Invalid values are reported
// and replaced by the field default.
func (d *decoder) spacing(loc Location, name string, m map[string]any) Spacing {
	f, _ := d.s.SectionField(name)
	fallback, _ := parseSpacing(f.Default)

	v := scalarString(m[name])
	key, ok := f.Normalize(v)
	if !ok {
		d.c.violation(loc, name, RuleInvalidOption, "%q is not one of %s", v, strings.Join(f.Options, ", "))
		return fallback
	}
	level, ok := parseSpacing(key)
	if !ok {
		return fallback
	}
	return level
}

func (d *decoder) column(s, c int, v any) Column {
	loc := ColumnLocation(s, c)
	m, ok := v.(map[string]any)
	if !ok {
		d.c.violation(loc, "", RuleMalformed, "column is not an object")
		return Column{}
	}

	col := Column{
		ClassOverride: d.checkbox(d.s.Column.Fields, FieldColumnClassOverride, m),
		Class:         scalarString(m[FieldColumnClass]),
	}

	blocks, ok := list(m[FieldColumnContent])
	if !ok {
		d.c.violation(loc, FieldColumnContent, RuleMalformed, "%s must be a list", FieldColumnContent)
		return col
	}
	for k, bv := range blocks {
		if b, ok := d.block(BlockLocation(s, c, k), bv); ok {
			col.Blocks = append(col.Blocks, b)
		}
	}
	return col
}

// block decodes one content block. Only fields active for the block's
// variant are read; stale values left over from another variant are
// ignored. ok is false when the block produced any error.
func (d *decoder) block(loc Location, v any) (Block, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		d.c.violation(loc, "", RuleMalformed, "block is not an object")
		return nil, false
	}
	raw := RawBlock(m)
	disc := &d.s.Block.Discriminator

	ct := raw.String(disc.Name)
	if ct == "" {
		d.c.violation(loc, disc.Name, RuleRequired, "content type is required")
		return nil, false
	}
	if !d.s.IsVariant(ct) {
		d.c.add(KindUnknownVariant, loc, disc.Name, RuleUnknownVariant, "unknown content type %q", ct)
		return nil, false
	}

	before := d.c.count()
	active := d.s.ActiveFields(raw)
	vals := make(map[string]string, len(active))
	for i := range d.s.Block.Fields {
		f := &d.s.Block.Fields[i]
		if !active.Has(f.Name) {
			continue
		}
		stored := raw.String(f.Name)
		v, ok := f.Normalize(stored)
		if !ok {
			d.c.violation(loc, f.Name, RuleInvalidOption, "%q is not one of %s", stored, strings.Join(f.Options, ", "))
			continue
		}
		if f.Required && v == "" {
			d.c.violation(loc, f.Name, RuleRequired, "%s is required for %s blocks", f.Label, ct)
			continue
		}
		vals[f.Name] = v
	}

	b := d.build(loc, BlockType(ct), vals)
	return b, d.c.count() == before
}

func (d *decoder) build(loc Location, t BlockType, vals map[string]string) Block {
	switch t {
	case BlockText:
		return TextBlock{HTML: vals[FieldContentText]}
	case BlockTextarea:
		return TextareaBlock{Text: vals[FieldContentTextareaText]}
	case BlockShortcode:
		return ShortcodeBlock{Code: vals[FieldContentShortcode]}
	case BlockHeading:
		return HeadingBlock{
			Tag:  HeadingTag(vals[FieldContentHeadingTag]),
			Text: vals[FieldContentHeadingText],
		}
	case BlockImage:
		return ImageBlock{
			URL:  vals[FieldContentImage],
			Size: ImageSize(vals[FieldContentImageSize]),
		}
	case BlockButton:
		b := ButtonBlock{
			Class: vals[FieldContentButtonClass],
			Color: ButtonColor(vals[FieldContentButtonColor]),
			Text:  vals[FieldContentButtonText],
			Link:  vals[FieldContentButtonLink],
			Size:  ButtonSize(vals[FieldContentButtonSize]),
		}
		if bg, ok := vals[FieldContentButtonBackground]; ok {
			if !ValidColor(bg) {
				d.c.violation(loc, FieldContentButtonBackground, RuleInvalidColor, "%q is not a hex colour", bg)
			}
			b.Background = bg
		}
		return b
	case BlockSpace:
		h, ok := ParsePixels(vals[FieldContentSpace])
		if !ok {
			d.c.violation(loc, FieldContentSpace, RuleInvalidNumber, "%q is not a non-negative pixel size", vals[FieldContentSpace])
		}
		return SpaceBlock{Height: h}
	}
	return nil
}

func (d *decoder) gallery(m map[string]any) *Gallery {
	g := &Gallery{}
	items, ok := list(m[FieldMediaGallery])
	if !ok {
		d.c.violation(GalleryLocation(-1), FieldMediaGallery, RuleMalformed, "%s must be a list", FieldMediaGallery)
		return g
	}

	seen := make(map[uuid.UUID]bool, len(items))
	for i, it := range items {
		loc := GalleryLocation(i)
		im, ok := it.(map[string]any)
		if !ok {
			d.c.violation(loc, "", RuleMalformed, "gallery item is not an object")
			continue
		}

		ref := scalarString(im[FieldMediaID])
		id, err := uuid.Parse(ref)
		if err != nil {
			d.c.violation(loc, FieldMediaID, RuleInvalidReference, "%q is not a media identifier", ref)
			continue
		}
		kind := scalarString(im[FieldMediaKind])
		if !slices.Contains(d.s.Gallery.Kinds, kind) {
			d.c.violation(loc, FieldMediaKind, RuleInvalidMediaKind, "%q is not one of %s", kind, strings.Join(d.s.Gallery.Kinds, ", "))
			continue
		}
		// Only accepted items count as a first occurrence.
		if seen[id] && !d.s.Gallery.DuplicatesAllowed {
			d.c.violation(loc, FieldMediaID, RuleDuplicateMedia, "media %s already appears in the gallery", id)
			continue
		}
		seen[id] = true
		g.Items = append(g.Items, MediaRef{ID: id, Kind: MediaKind(kind)})
	}
	return g
}

// list reads an optional JSON array. A missing value is an empty list.
func list(v any) ([]any, bool) {
	if v == nil {
		return nil, true
	}
	l, ok := v.([]any)
	return l, ok
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ValidColor reports whether s is a CSS hex colour as stored by the colour
// picker, e.g. "#1e40af".
func ValidColor(s string) bool {
	return hexColor.MatchString(s)
}

// ParsePixels reads a space size such as "40" or "40px".
func ParsePixels(s string) (int, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
