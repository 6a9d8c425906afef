// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pagebuilder

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a validation error.
type ErrorKind string

const (
	// KindSchemaViolation covers caps, enum membership and required fields.
	KindSchemaViolation ErrorKind = "schema_violation"
	// KindUnknownVariant marks a block whose content_type is not declared.
	// It fails only that block.
	KindUnknownVariant ErrorKind = "unknown_variant"
)

// RuleName identifies the rule a validation error violated.
type RuleName string

const (
	RuleMalformed        RuleName = "malformed"
	RuleUnknownLayout    RuleName = "unknown_layout"
	RuleMaxColumns       RuleName = "max_columns"
	RuleMaxGalleries     RuleName = "max_galleries"
	RuleInvalidOption    RuleName = "invalid_option"
	RuleRequired         RuleName = "required"
	RuleUnknownVariant   RuleName = "unknown_variant"
	RuleInvalidColor     RuleName = "invalid_color"
	RuleInvalidNumber    RuleName = "invalid_number"
	RuleInvalidReference RuleName = "invalid_reference"
	RuleInvalidMediaKind RuleName = "invalid_media_kind"
	RuleDuplicateMedia   RuleName = "duplicate_media"
)

// Location addresses a node of the tree. Negative indices mean the level
// does not apply.
type Location struct {
	Section int
	Column  int
	Block   int
	Gallery bool
	Item    int // media gallery item
}

// PageLocation addresses the page itself.
func PageLocation() Location {
	return Location{Section: -1, Column: -1, Block: -1, Item: -1}
}

// SectionLocation addresses a section.
func SectionLocation(s int) Location {
	return Location{Section: s, Column: -1, Block: -1, Item: -1}
}

// ColumnLocation addresses a column of a section.
func ColumnLocation(s, c int) Location {
	return Location{Section: s, Column: c, Block: -1, Item: -1}
}

// BlockLocation addresses a block of a column.
func BlockLocation(s, c, b int) Location {
	return Location{Section: s, Column: c, Block: b, Item: -1}
}

// GalleryLocation addresses an item of the media gallery. item may be
// negative to address the gallery as a whole.
func GalleryLocation(item int) Location {
	return Location{Section: -1, Column: -1, Block: -1, Gallery: true, Item: item}
}

// String renders the location as a path such as
// "page/section[0]/column[2]/block[1]".
func (l Location) String() string {
	var b strings.Builder
	b.WriteString("page")
	if l.Section >= 0 {
		fmt.Fprintf(&b, "/section[%d]", l.Section)
		if l.Column >= 0 {
			fmt.Fprintf(&b, "/column[%d]", l.Column)
			if l.Block >= 0 {
				fmt.Fprintf(&b, "/block[%d]", l.Block)
			}
		}
	}
	if l.Gallery {
		b.WriteString("/gallery")
		if l.Item >= 0 {
			fmt.Fprintf(&b, "[%d]", l.Item)
		}
	}
	return b.String()
}

// MarshalText encodes the location as its path.
func (l Location) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ValidationError is a single violation found while validating a tree.
type ValidationError struct {
	Kind     ErrorKind `json:"kind"`
	Location Location  `json:"location"`
	Field    string    `json:"field,omitempty"`
	Rule     RuleName  `json:"rule"`
	Message  string    `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Location, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}

// ValidationErrors collects every violation of a tree, in tree order.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	switch len(errs) {
	case 0:
		return "no validation errors"
	case 1:
		return errs[0].Error()
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d validation errors: %s", len(errs), strings.Join(msgs, "; "))
}

// At returns the errors located exactly at loc.
func (errs ValidationErrors) At(loc Location) ValidationErrors {
	var out ValidationErrors
	for _, e := range errs {
		if e.Location == loc {
			out = append(out, e)
		}
	}
	return out
}

// OfKind returns the errors of the given kind.
func (errs ValidationErrors) OfKind(k ErrorKind) ValidationErrors {
	var out ValidationErrors
	for _, e := range errs {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// collector accumulates validation errors without short-circuiting.
type collector struct {
	errs ValidationErrors
}

func (c *collector) add(kind ErrorKind, loc Location, field string, rule RuleName, format string, args ...any) {
	c.errs = append(c.errs, ValidationError{
		Kind:     kind,
		Location: loc,
		Field:    field,
		Rule:     rule,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (c *collector) violation(loc Location, field string, rule RuleName, format string, args ...any) {
	c.add(KindSchemaViolation, loc, field, rule, format, args...)
}

// count is used to tell whether a sub-tree added errors.
func (c *collector) count() int {
	return len(c.errs)
}

func (c *collector) result() ValidationErrors {
	if len(c.errs) == 0 {
		return nil
	}
	return c.errs
}
