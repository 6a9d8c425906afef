// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pagebuilder

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"
)

// RawBlock is a content block as stored: field name to untyped value.
type RawBlock map[string]any

// String returns the field as a trimmed string. Numbers and booleans are
// formatted; anything else reads as empty.
func (b RawBlock) String(field string) string {
	return scalarString(b[field])
}

// FieldSet is a set of field names.
type FieldSet map[string]struct{}

// Has reports whether name is in the set.
func (s FieldSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the members in sorted order.
func (s FieldSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// ActiveFields returns the variant fields of b that should be read and
// rendered, using the default schema.
func ActiveFields(b RawBlock) FieldSet {
	return DefaultSchema().ActiveFields(b)
}

// ActiveFields evaluates every block field's visibility condition against
// b. Conditions are applied exactly as declared: single-rule fields match
// on content_type alone, content_button_background additionally requires
// content_button_color to be "custom". The discriminator itself is not
// part of the result. A block with an undeclared content_type has no
// active fields.
func (s *Schema) ActiveFields(b RawBlock) FieldSet {
	active := make(FieldSet)
	if !s.IsVariant(b.String(s.Block.Discriminator.Name)) {
		return active
	}
	lookup := func(field string) string { return b.String(field) }
	for i := range s.Block.Fields {
		f := &s.Block.Fields[i]
		if f.ShowWhen.Matches(lookup) {
			active[f.Name] = struct{}{}
		}
	}
	return active
}

// scalarString converts a decoded JSON scalar to its string form.
func scalarString(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// truthy reads a stored checkbox value. The field editor stores the
// option value ("yes") for checked boxes; JSON booleans are accepted too.
func truthy(v any, optionValue string) bool {
	switch x := v.(type) {
	case bool:
		return x
	case json.Number:
		return x.String() != "0"
	case float64:
		return x != 0
	case string:
		x = strings.ToLower(strings.TrimSpace(x))
		if optionValue != "" && x == strings.ToLower(optionValue) {
			return true
		}
		return x == "yes" || x == "true" || x == "1" || x == "on"
	default:
		return false
	}
}
