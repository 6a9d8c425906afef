// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"bytes"
	"html/template"
	"log/slog"
	"strconv"
	"strings"

	"vibrato/internal/pagebuilder"
)

var layoutTemplates = template.Must(template.New("layout").Parse(
	`{{define "section"}}<section class="{{.Class}}"><div class="{{.Container}}"><div class="row">` +
		`{{range .Columns}}<div class="{{.Class}}">{{.Body}}</div>{{end}}` +
		`</div></div></section>{{end}}` +
		`{{define "gallery"}}<div class="media-gallery">{{range .}}` +
		`<figure class="media-item media-{{.Kind}}">` +
		`{{if .Video}}<video controls preload="metadata" src="{{.URL}}"></video>` +
		`{{else}}<img src="{{.URL}}" alt="{{.Alt}}" loading="lazy">{{end}}` +
		`</figure>{{end}}</div>{{end}}`))

type sectionData struct {
	Class     string
	Container string
	Columns   []columnData
}

type columnData struct {
	Class string
	Body  template.HTML
}

// SectionClass returns the class list of a section wrapper.
func SectionClass(s pagebuilder.Section) string {
	classes := []string{
		"section",
		s.PaddingTop.Class("pt"),
		s.PaddingBottom.Class("pb"),
		s.MarginTop.Class("mt"),
		s.MarginBottom.Class("mb"),
	}
	if s.FullWidth {
		classes = append(classes, "full-width")
	}
	if s.VerticalAlign {
		classes = append(classes, "align-items-center")
	}
	if s.MobileCenterText {
		classes = append(classes, "mobile-text-center")
	}
	if s.MobileReverseColumns {
		classes = append(classes, "mobile-reverse")
	}
	classes = append(classes, strings.Fields(s.ExtraClass)...)
	return strings.Join(classes, " ")
}

// containerClass keeps the content of a full width section at the
// container width only when asked to.
func containerClass(s pagebuilder.Section) string {
	if s.FullWidth && !s.ContentContained {
		return "container-fluid"
	}
	return "container"
}

// ColumnClass returns the class of a column in a section of n columns: the
// column's override when enabled, otherwise an equal share of the 12-unit
// grid, or auto-equal "col-md" when 12 does not divide evenly.
func ColumnClass(c pagebuilder.Column, n int) string {
	if class, ok := c.OverrideClass(); ok {
		return class
	}
	if n > 0 && 12%n == 0 {
		return "col-md-" + strconv.Itoa(12/n)
	}
	return "col-md"
}

// composeSection renders a section. Columns without renderable blocks
// still take their place in the row.
func (e *Engine) composeSection(rc *renderContext, idx int, s pagebuilder.Section) template.HTML {
	data := sectionData{
		Class:     SectionClass(s),
		Container: containerClass(s),
		Columns:   make([]columnData, 0, len(s.Columns)),
	}
	for ci, c := range s.Columns {
		var body strings.Builder
		for bi, b := range c.Blocks {
			html, err := e.renderBlock(rc, b)
			if err != nil {
				logBlockError(idx, ci, bi, b, err)
				continue
			}
			body.WriteString(string(html))
		}
		data.Columns = append(data.Columns, columnData{
			Class: ColumnClass(c, len(s.Columns)),
			Body:  template.HTML(body.String()),
		})
	}

	var buf bytes.Buffer
	if err := layoutTemplates.ExecuteTemplate(&buf, "section", data); err != nil {
		slog.Warn("section render failed",
			"location", pagebuilder.SectionLocation(idx).String(), "error", err)
		return ""
	}
	return template.HTML(buf.String())
}

type galleryItem struct {
	Kind  pagebuilder.MediaKind
	Video bool
	URL   string
	Alt   string
}

// renderGallery renders the resolved items of g. Items whose media cannot
// be resolved are omitted; a gallery with nothing left renders nothing.
func (e *Engine) renderGallery(rc *renderContext, g *pagebuilder.Gallery) template.HTML {
	if g == nil {
		return ""
	}
	var items []galleryItem
	for _, ref := range g.Items {
		url, alt, ok := rc.media.galleryItem(e.urls, ref)
		if !ok {
			continue
		}
		items = append(items, galleryItem{
			Kind:  ref.Kind,
			Video: ref.Kind == pagebuilder.MediaVideo,
			URL:   url,
			Alt:   alt,
		})
	}
	if len(items) == 0 {
		return ""
	}

	var buf bytes.Buffer
	if err := layoutTemplates.ExecuteTemplate(&buf, "gallery", items); err != nil {
		slog.Warn("gallery render failed", "error", err)
		return ""
	}
	return template.HTML(buf.String())
}
