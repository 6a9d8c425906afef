// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package shortcode expands bracketed shortcodes such as [year] or
// [button url="/contact"]Call us[/button] inside shortcode content blocks.
//
// Text around shortcodes is HTML-escaped. Shortcodes without a registered
// handler, or whose handler fails, are rendered as their escaped literal
// source so authors can see what went wrong. A doubled bracket ([[year]])
// escapes a shortcode and renders "[year]".
package shortcode

import (
	"html/template"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Shortcode is one parsed shortcode occurrence.
type Shortcode struct {
	Name    string
	Attrs   map[string]string // positional attributes are keyed "0", "1", ...
	Content string            // raw text between opening and closing tags
}

// Attr returns the first non-empty attribute among keys.
func (s Shortcode) Attr(keys ...string) string {
	for _, k := range keys {
		if v := s.Attrs[k]; v != "" {
			return v
		}
	}
	return ""
}

// Env is the per-render data handlers can draw on.
type Env struct {
	PageTitle string
	Gallery   template.HTML // the page's rendered media gallery, if any
	Now       time.Time
}

// Handler renders one shortcode. The returned HTML is written as is.
type Handler func(env Env, sc Shortcode) (template.HTML, error)

// Registry maps shortcode names to handlers. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds or replaces the handler for name. Names are case-insensitive.
func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[strings.ToLower(name)] = h
}

// Names returns the registered shortcode names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for n := range r.handlers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[strings.ToLower(name)]
	return h, ok
}

// openTagRe matches an opening or self-closing tag. Groups: 1 escape
// bracket, 2 name, 3 attributes, 4 self-closing slash, 5 escape bracket.
var openTagRe = regexp.MustCompile(`\[(\[?)([A-Za-z][\w-]*)((?:\s[^\[\]]*?)?)\s*(/?)\](\]?)`)

// Expand replaces every shortcode in src and escapes the text around them.
func (r *Registry) Expand(src string, env Env) template.HTML {
	if env.Now.IsZero() {
		env.Now = time.Now()
	}

	var out strings.Builder
	pos := 0
	for pos < len(src) {
		loc := openTagRe.FindStringSubmatchIndex(src[pos:])
		if loc == nil {
			break
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += pos
			}
		}
		start, end := loc[0], loc[1]
		out.WriteString(template.HTMLEscapeString(src[pos:start]))

		escOpen := loc[3] > loc[2]
		escClose := loc[11] > loc[10]
		name := src[loc[4]:loc[5]]
		attrs := src[loc[6]:loc[7]]
		selfClosing := loc[9] > loc[8]

		// [[name]] renders the inner shortcode literally.
		if escOpen && escClose {
			out.WriteString(template.HTMLEscapeString(src[start+1 : end-1]))
			pos = end
			continue
		}
		// A lone escape bracket belongs to the surrounding text.
		if escOpen {
			out.WriteString("[")
			start++
		}
		// A lone closing bracket is left for the following text.
		if escClose {
			end--
		}

		h, ok := r.lookup(name)
		if !ok {
			out.WriteString(template.HTMLEscapeString(src[start:end]))
			pos = end
			continue
		}

		sc := Shortcode{Name: strings.ToLower(name), Attrs: ParseAttrs(attrs)}
		next := end
		if !selfClosing {
			closing := "[/" + name + "]"
			if i := strings.Index(src[end:], closing); i >= 0 {
				sc.Content = src[end : end+i]
				next = end + i + len(closing)
			}
		}

		html, err := h(env, sc)
		if err != nil {
			slog.Warn("shortcode failed", "shortcode", sc.Name, "error", err)
			out.WriteString(template.HTMLEscapeString(src[start:next]))
		} else {
			out.WriteString(string(html))
		}
		pos = next
	}
	if pos < len(src) {
		out.WriteString(template.HTMLEscapeString(src[pos:]))
	}
	return template.HTML(out.String())
}

// attrRe matches name="value", name='value', name=value, "value" and bare
// value attributes, in that order of preference.
var attrRe = regexp.MustCompile(`([\w-]+)\s*=\s*"([^"]*)"|([\w-]+)\s*=\s*'([^']*)'|([\w-]+)\s*=\s*([^\s'"]+)|"([^"]*)"|'([^']*)'|(\S+)`)

// ParseAttrs parses a shortcode attribute string. Names are lower-cased;
// positional values get their index as key.
func ParseAttrs(s string) map[string]string {
	attrs := make(map[string]string)
	positional := 0
	for _, m := range attrRe.FindAllStringSubmatch(s, -1) {
		switch {
		case m[1] != "":
			attrs[strings.ToLower(m[1])] = m[2]
		case m[3] != "":
			attrs[strings.ToLower(m[3])] = m[4]
		case m[5] != "":
			attrs[strings.ToLower(m[5])] = m[6]
		default:
			v := m[7] + m[8] + m[9]
			attrs[strconv.Itoa(positional)] = v
			positional++
		}
	}
	return attrs
}
