// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pagebuilder

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Encode serialises a typed tree into the stored shape read by Decode.
// Each block carries only the fields of its own variant.
func Encode(t *Tree) (RawTree, error) {
	entries := []map[string]any{}
	if t != nil {
		for _, sec := range t.Sections {
			cols := make([]map[string]any, 0, len(sec.Columns))
			for _, col := range sec.Columns {
				blocks := make([]map[string]any, 0, len(col.Blocks))
				for _, b := range col.Blocks {
					m, err := encodeBlock(b)
					if err != nil {
						return nil, err
					}
					blocks = append(blocks, m)
				}
				cols = append(cols, map[string]any{
					FieldColumnClass:         col.Class,
					FieldColumnClassOverride: checkboxValue(col.ClassOverride),
					FieldColumnContent:       blocks,
				})
			}
			entries = append(entries, map[string]any{
				FieldLayoutType:           LayoutSection,
				FieldFullWidth:            checkboxValue(sec.FullWidth),
				FieldContentContained:     checkboxValue(sec.ContentContained),
				FieldVerticalAlign:        checkboxValue(sec.VerticalAlign),
				FieldMobileCenterText:     checkboxValue(sec.MobileCenterText),
				FieldMobileReverseColumns: checkboxValue(sec.MobileReverseColumns),
				FieldPaddingTop:           sec.PaddingTop.Class("pt"),
				FieldPaddingBottom:        sec.PaddingBottom.Class("pb"),
				FieldMarginTop:            sec.MarginTop.Class("mt"),
				FieldMarginBottom:         sec.MarginBottom.Class("mb"),
				FieldSectionClass:         sec.ExtraClass,
				FieldColumns:              cols,
			})
		}
		if t.Gallery != nil {
			items := make([]map[string]any, 0, len(t.Gallery.Items))
			for _, it := range t.Gallery.Items {
				items = append(items, map[string]any{
					FieldMediaID:   it.ID.String(),
					FieldMediaKind: string(it.Kind),
				})
			}
			entries = append(entries, map[string]any{
				FieldLayoutType:   LayoutGallery,
				FieldMediaGallery: items,
			})
		}
	}

	raw, err := json.Marshal(map[string]any{FieldRoot: entries})
	if err != nil {
		return nil, fmt.Errorf("encode page builder tree: %w", err)
	}
	return raw, nil
}

func encodeBlock(b Block) (map[string]any, error) {
	if b == nil {
		return nil, fmt.Errorf("encode page builder tree: nil block")
	}
	m := map[string]any{FieldContentType: string(b.Type())}
	switch b := b.(type) {
	case TextBlock:
		m[FieldContentText] = b.HTML
	case TextareaBlock:
		m[FieldContentTextareaText] = b.Text
	case ShortcodeBlock:
		m[FieldContentShortcode] = b.Code
	case HeadingBlock:
		m[FieldContentHeadingTag] = string(b.Tag)
		m[FieldContentHeadingText] = b.Text
	case ImageBlock:
		m[FieldContentImage] = b.URL
		m[FieldContentImageSize] = string(b.Size)
	case ButtonBlock:
		m[FieldContentButtonClass] = b.Class
		m[FieldContentButtonColor] = string(b.Color)
		if b.Color == ButtonColorCustom {
			m[FieldContentButtonBackground] = b.Background
		}
		m[FieldContentButtonText] = b.Text
		m[FieldContentButtonLink] = b.Link
		m[FieldContentButtonSize] = string(b.Size)
	case SpaceBlock:
		m[FieldContentSpace] = strconv.Itoa(b.Height)
	default:
		return nil, fmt.Errorf("encode page builder tree: unsupported block %T", b)
	}
	return m, nil
}

func checkboxValue(on bool) string {
	if on {
		return "yes"
	}
	return ""
}
