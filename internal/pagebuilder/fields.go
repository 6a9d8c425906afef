// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pagebuilder

import (
	"fmt"
	"strings"
)

// Stored field names. They match the names declared in schema.yaml.
const (
	FieldLayoutType = "_type"
	FieldRoot       = "page_builder"

	FieldFullWidth            = "full_width_section"
	FieldContentContained     = "content_contained"
	FieldVerticalAlign        = "vertical_align"
	FieldMobileCenterText     = "mobile_center_text"
	FieldMobileReverseColumns = "mobile_reverse_columns"
	FieldPaddingTop           = "section_padding_top"
	FieldPaddingBottom        = "section_padding_bottom"
	FieldMarginTop            = "section_margin_top"
	FieldMarginBottom         = "section_margin_bottom"
	FieldSectionClass         = "section_class"
	FieldColumns              = "columns"

	FieldColumnClass         = "column_class"
	FieldColumnClassOverride = "column_class_override"
	FieldColumnContent       = "column_content"

	FieldContentType             = "content_type"
	FieldContentText             = "content_text"
	FieldContentImage            = "content_image"
	FieldContentImageSize        = "content_image_size"
	FieldContentButtonClass      = "content_button_class"
	FieldContentButtonColor      = "content_button_color"
	FieldContentButtonBackground = "content_button_background"
	FieldContentButtonText       = "content_button_text"
	FieldContentButtonLink       = "content_button_link"
	FieldContentButtonSize       = "content_button_size"
	FieldContentSpace            = "content_space"
	FieldContentTextareaText     = "content_textarea_text"
	FieldContentShortcode        = "content_shortcode"
	FieldContentHeadingTag       = "content_heading_tag"
	FieldContentHeadingText      = "content_heading_text"

	FieldMediaGallery = "media_gallery"
	FieldMediaID      = "id"
	FieldMediaKind    = "type"
)

// Layout entry types of the page_builder list.
const (
	LayoutSection = "dynamic_section"
	LayoutGallery = "media_gallery"
)

// BlockType is the content_type discriminator of a content block.
type BlockType string

const (
	BlockText      BlockType = "text"
	BlockTextarea  BlockType = "textarea"
	BlockShortcode BlockType = "shortcode"
	BlockHeading   BlockType = "heading"
	BlockImage     BlockType = "image"
	BlockButton    BlockType = "button"
	BlockSpace     BlockType = "space"
)

// MaxSpacing is the largest padding or margin level.
const MaxSpacing = 5

// Spacing is a padding or margin level from 0 to MaxSpacing.
type Spacing int

// Valid reports whether the level is within the declared range.
func (s Spacing) Valid() bool {
	return s >= 0 && s <= MaxSpacing
}

// Class returns the utility class for the level, e.g. "pt-4" for prefix "pt".
func (s Spacing) Class(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, int(s))
}

// parseSpacing reads the level out of a normalised option key such as "mb-3".
func parseSpacing(key string) (Spacing, bool) {
	i := strings.LastIndexByte(key, '-')
	if i < 0 || i == len(key)-1 {
		return 0, false
	}
	n := 0
	for _, r := range key[i+1:] {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	s := Spacing(n)
	return s, s.Valid()
}

// HeadingTag is the element a heading block renders as.
type HeadingTag string

const (
	HeadingH2   HeadingTag = "h2"
	HeadingH3   HeadingTag = "h3"
	HeadingH4   HeadingTag = "h4"
	HeadingH5   HeadingTag = "h5"
	HeadingH6   HeadingTag = "h6"
	HeadingP    HeadingTag = "p"
	HeadingSpan HeadingTag = "span"
	HeadingDiv  HeadingTag = "div"
)

// ImageSize is the registered image size an image block renders at.
type ImageSize string

const (
	ImageThumbnail ImageSize = "thumbnail"
	ImageMedium    ImageSize = "medium"
	ImageLarge     ImageSize = "large"
	ImageFull      ImageSize = "full"
)

// ButtonSize is the size class of a button block.
type ButtonSize string

const (
	ButtonSmall  ButtonSize = "btn-sm"
	ButtonMedium ButtonSize = "btn-md"
	ButtonLarge  ButtonSize = "btn-lg"
)

// ButtonColor selects the button colour scheme. The empty value keeps the
// theme colour.
type ButtonColor string

const (
	ButtonColorTheme  ButtonColor = ""
	ButtonColorCustom ButtonColor = "custom"
)

// MediaKind is the kind of a media gallery item.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)
