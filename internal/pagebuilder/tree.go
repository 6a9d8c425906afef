// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pagebuilder

import (
	"errors"

	"github.com/google/uuid"
)

// MaxColumns is the hard cap on columns per section.
const MaxColumns = 6

var (
	// ErrTooManyColumns is returned when a section already holds MaxColumns.
	ErrTooManyColumns = errors.New("pagebuilder: section already has the maximum number of columns")

	// ErrDuplicateMedia is returned when a media item is already in the gallery.
	ErrDuplicateMedia = errors.New("pagebuilder: media item already in gallery")
)

// Tree is the typed page builder content of one page.
type Tree struct {
	Sections []Section
	Gallery  *Gallery
}

// Empty reports whether the tree has nothing to render.
func (t *Tree) Empty() bool {
	return t == nil || (len(t.Sections) == 0 && (t.Gallery == nil || len(t.Gallery.Items) == 0))
}

// Section is a horizontal content region.
type Section struct {
	FullWidth            bool
	ContentContained     bool
	VerticalAlign        bool
	MobileCenterText     bool
	MobileReverseColumns bool
	PaddingTop           Spacing
	PaddingBottom        Spacing
	MarginTop            Spacing
	MarginBottom         Spacing
	ExtraClass           string
	Columns              []Column
}

// DefaultSection returns the baseline a new section starts from.
func DefaultSection() Section {
	return Section{
		PaddingTop:    4,
		PaddingBottom: 4,
		MarginTop:     0,
		MarginBottom:  0,
	}
}

// AddColumn appends a column, refusing to exceed MaxColumns.
func (s *Section) AddColumn(c Column) error {
	if len(s.Columns) >= MaxColumns {
		return ErrTooManyColumns
	}
	s.Columns = append(s.Columns, c)
	return nil
}

// Column is a vertical slot inside a section.
type Column struct {
	ClassOverride bool
	Class         string // used only when ClassOverride is set
	Blocks        []Block
}

// OverrideClass returns the explicit class when the override is enabled.
func (c Column) OverrideClass() (string, bool) {
	if !c.ClassOverride || c.Class == "" {
		return "", false
	}
	return c.Class, true
}

// Block is a content block. The set of implementations is closed: each
// variant carries only its own fields.
type Block interface {
	Type() BlockType
	isBlock()
}

// TextBlock holds rich text (HTML authored in a WYSIWYG editor).
type TextBlock struct {
	HTML string
}

// TextareaBlock holds plain multi-line text, rendered as Markdown.
type TextareaBlock struct {
	Text string
}

// ShortcodeBlock holds a shortcode expression such as `[gallery]`.
type ShortcodeBlock struct {
	Code string
}

// HeadingBlock renders Text inside the Tag element.
type HeadingBlock struct {
	Tag  HeadingTag
	Text string
}

// ImageBlock references an image by URL at a registered size.
type ImageBlock struct {
	URL  string
	Size ImageSize
}

// ButtonBlock is a call-to-action link. Background is set only when Color
// is ButtonColorCustom.
type ButtonBlock struct {
	Class      string
	Color      ButtonColor
	Background string
	Text       string
	Link       string
	Size       ButtonSize
}

// SpaceBlock is vertical whitespace of Height pixels.
type SpaceBlock struct {
	Height int
}

func (TextBlock) Type() BlockType      { return BlockText }
func (TextareaBlock) Type() BlockType  { return BlockTextarea }
func (ShortcodeBlock) Type() BlockType { return BlockShortcode }
func (HeadingBlock) Type() BlockType   { return BlockHeading }
func (ImageBlock) Type() BlockType     { return BlockImage }
func (ButtonBlock) Type() BlockType    { return BlockButton }
func (SpaceBlock) Type() BlockType     { return BlockSpace }

func (TextBlock) isBlock()      {}
func (TextareaBlock) isBlock()  {}
func (ShortcodeBlock) isBlock() {}
func (HeadingBlock) isBlock()   {}
func (ImageBlock) isBlock()     {}
func (ButtonBlock) isBlock()    {}
func (SpaceBlock) isBlock()     {}

// MediaRef points at an external media item.
type MediaRef struct {
	ID   uuid.UUID
	Kind MediaKind
}

// Gallery is the ordered media gallery attached to a page.
type Gallery struct {
	Items []MediaRef
}

// Add appends a media reference unless its ID is already present.
func (g *Gallery) Add(ref MediaRef) error {
	if g.Contains(ref.ID) {
		return ErrDuplicateMedia
	}
	g.Items = append(g.Items, ref)
	return nil
}

// Contains reports whether the gallery references id.
func (g *Gallery) Contains(id uuid.UUID) bool {
	for _, it := range g.Items {
		if it.ID == id {
			return true
		}
	}
	return false
}
