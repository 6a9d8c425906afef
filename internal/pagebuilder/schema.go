// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pagebuilder defines the page builder content schema: a page is an
// ordered list of sections, each section holds up to six columns, and each
// column holds an ordered list of typed content blocks. The package decodes
// untyped stored trees into typed values, resolves which block fields are
// active, and validates trees while collecting every violation it finds.
//
// The schema itself is data (schema.yaml). Nothing in this package performs
// I/O beyond reading that embedded file once.
package pagebuilder

import (
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed schema.yaml
var schemaYAML []byte

// FieldType is the editor widget type of a schema field.
type FieldType string

const (
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeSelect   FieldType = "select"
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeRichText FieldType = "rich_text"
	FieldTypeImage    FieldType = "image"
	FieldTypeColor    FieldType = "color"
	FieldTypeNumber   FieldType = "number"
)

// Relation combines the rules of a visibility condition.
type Relation string

const (
	RelationOR  Relation = "OR"
	RelationAND Relation = "AND"
)

// Rule compares one sibling field against a literal value.
type Rule struct {
	Field string `yaml:"field" json:"field"`
	Value string `yaml:"value" json:"value"`
}

// Condition gates a field's visibility on its siblings' values.
type Condition struct {
	Relation Relation `yaml:"relation" json:"relation"`
	Rules    []Rule   `yaml:"rules" json:"rules"`
}

// Matches evaluates the condition against the given field lookup.
// An empty condition always matches.
func (c *Condition) Matches(value func(field string) string) bool {
	if c == nil || len(c.Rules) == 0 {
		return true
	}
	switch c.Relation {
	case RelationAND:
		for _, r := range c.Rules {
			if value(r.Field) != r.Value {
				return false
			}
		}
		return true
	default:
		for _, r := range c.Rules {
			if value(r.Field) == r.Value {
				return true
			}
		}
		return false
	}
}

// Field describes one editable attribute.
type Field struct {
	Name        string            `yaml:"name" json:"name"`
	Type        FieldType         `yaml:"type" json:"type"`
	Label       string            `yaml:"label" json:"label,omitempty"`
	Width       int               `yaml:"width" json:"width,omitempty"`
	Options     []string          `yaml:"options" json:"options,omitempty"`
	Aliases     map[string]string `yaml:"aliases" json:"aliases,omitempty"`
	Default     string            `yaml:"default" json:"default,omitempty"`
	Required    bool              `yaml:"required" json:"required,omitempty"`
	OptionValue string            `yaml:"option_value" json:"option_value,omitempty"`
	ShowWhen    *Condition        `yaml:"show_when" json:"show_when,omitempty"`
}

// Normalize maps a stored value onto the field's option set. Empty input
// yields the field default. ok is false when the value is not a declared
// option or alias.
func (f *Field) Normalize(v string) (string, bool) {
	if v == "" {
		return f.Default, true
	}
	if len(f.Options) == 0 {
		return v, true
	}
	if slices.Contains(f.Options, v) {
		return v, true
	}
	if key, ok := f.Aliases[v]; ok {
		return key, true
	}
	return "", false
}

// Labels are the singular and plural names shown in the editor.
type Labels struct {
	Singular string `yaml:"singular" json:"singular"`
	Plural   string `yaml:"plural" json:"plural"`
}

// SectionSchema describes a dynamic_section layout entry.
type SectionSchema struct {
	Layout string  `yaml:"layout" json:"layout"`
	Labels Labels  `yaml:"labels" json:"labels"`
	Fields []Field `yaml:"fields" json:"fields"`
}

// ColumnSchema describes the columns complex field of a section.
type ColumnSchema struct {
	Field  string  `yaml:"field" json:"field"`
	Labels Labels  `yaml:"labels" json:"labels"`
	Max    int     `yaml:"max" json:"max"`
	Fields []Field `yaml:"fields" json:"fields"`
}

// BlockSchema describes the content blocks of a column.
type BlockSchema struct {
	Field         string  `yaml:"field" json:"field"`
	Labels        Labels  `yaml:"labels" json:"labels"`
	Discriminator Field   `yaml:"discriminator" json:"discriminator"`
	Fields        []Field `yaml:"fields" json:"fields"`
}

// GallerySchema describes the media_gallery layout entry.
type GallerySchema struct {
	Layout            string   `yaml:"layout" json:"layout"`
	Field             string   `yaml:"field" json:"field"`
	Kinds             []string `yaml:"kinds" json:"kinds"`
	DuplicatesAllowed bool     `yaml:"duplicates_allowed" json:"duplicates_allowed"`
	Max               int      `yaml:"max" json:"max"`
}

// Schema is the complete page builder definition.
type Schema struct {
	Name     string        `yaml:"name" json:"name"`
	Label    string        `yaml:"label" json:"label"`
	PostType string        `yaml:"post_type" json:"post_type"`
	Section  SectionSchema `yaml:"section" json:"section"`
	Column   ColumnSchema  `yaml:"column" json:"column"`
	Block    BlockSchema   `yaml:"block" json:"block"`
	Gallery  GallerySchema `yaml:"gallery" json:"gallery"`
}

// ParseSchema decodes a YAML schema document and checks that it is
// internally consistent.
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if err := s.check(); err != nil {
		return nil, err
	}
	return &s, nil
}

var (
	defaultOnce   sync.Once
	defaultSchema *Schema
)

// DefaultSchema returns the embedded page builder schema. The value is
// shared and must not be modified.
func DefaultSchema() *Schema {
	defaultOnce.Do(func() {
		s, err := ParseSchema(schemaYAML)
		if err != nil {
			panic(fmt.Sprintf("pagebuilder: embedded schema: %v", err))
		}
		defaultSchema = s
	})
	return defaultSchema
}

// SectionField returns the named section field.
func (s *Schema) SectionField(name string) (*Field, bool) {
	return findField(s.Section.Fields, name)
}

// ColumnField returns the named column field.
func (s *Schema) ColumnField(name string) (*Field, bool) {
	return findField(s.Column.Fields, name)
}

// BlockField returns the named block field. The discriminator is included.
func (s *Schema) BlockField(name string) (*Field, bool) {
	if name == s.Block.Discriminator.Name {
		return &s.Block.Discriminator, true
	}
	return findField(s.Block.Fields, name)
}

// IsVariant reports whether t is a declared block variant.
func (s *Schema) IsVariant(t string) bool {
	return slices.Contains(s.Block.Discriminator.Options, t)
}

func findField(fields []Field, name string) (*Field, bool) {
	for i := range fields {
		if fields[i].Name == name {
			return &fields[i], true
		}
	}
	return nil, false
}

// check rejects schemas whose defaults are not options, whose conditions
// reference unknown fields, or which are missing a discriminator.
func (s *Schema) check() error {
	if s.Block.Discriminator.Name == "" || len(s.Block.Discriminator.Options) == 0 {
		return fmt.Errorf("schema %q: block discriminator is missing", s.Name)
	}
	if s.Column.Max <= 0 {
		return fmt.Errorf("schema %q: column max must be positive", s.Name)
	}
	groups := [][]Field{s.Section.Fields, s.Column.Fields, s.Block.Fields}
	for _, fields := range groups {
		for i := range fields {
			f := &fields[i]
			if f.Default != "" && len(f.Options) > 0 && !slices.Contains(f.Options, f.Default) {
				return fmt.Errorf("schema %q: field %s default %q is not an option", s.Name, f.Name, f.Default)
			}
			for alias, key := range f.Aliases {
				if !slices.Contains(f.Options, key) {
					return fmt.Errorf("schema %q: field %s alias %q targets unknown option %q", s.Name, f.Name, alias, key)
				}
			}
		}
	}
	for _, f := range s.Block.Fields {
		if f.ShowWhen == nil {
			continue
		}
		for _, r := range f.ShowWhen.Rules {
			if _, ok := s.BlockField(r.Field); !ok {
				return fmt.Errorf("schema %q: field %s condition references unknown field %s", s.Name, f.Name, r.Field)
			}
		}
	}
	return nil
}
