// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"vibrato/internal/markdown"
	"vibrato/internal/pagebuilder"
)

// headingTags lists every tag a heading block may render as. Each gets its
// own named template since html/template cannot choose an element name at
// run time.
var headingTags = []pagebuilder.HeadingTag{
	pagebuilder.HeadingH2, pagebuilder.HeadingH3, pagebuilder.HeadingH4,
	pagebuilder.HeadingH5, pagebuilder.HeadingH6, pagebuilder.HeadingP,
	pagebuilder.HeadingSpan, pagebuilder.HeadingDiv,
}

// blockTemplates holds one named template per block rule. It is compiled
// once and only executed afterwards.
var blockTemplates = template.Must(template.New("blocks").Parse(blockSource()))

func blockSource() string {
	var b strings.Builder
	b.WriteString(`{{define "text"}}<div class="content-text">{{.}}</div>{{end}}`)
	b.WriteString(`{{define "textarea"}}<div class="content-textarea">{{.}}</div>{{end}}`)
	b.WriteString(`{{define "shortcode"}}<div class="content-shortcode">{{.}}</div>{{end}}`)
	b.WriteString(`{{define "image"}}<img class="content-image size-{{.Size}}" src="{{.Src}}"` +
		`{{with .Srcset}} srcset="{{.}}" sizes="(max-width: 640px) 640px, (max-width: 1024px) 1024px, 1920px"{{end}}` +
		` alt="{{.Alt}}" loading="lazy">{{end}}`)
	b.WriteString(`{{define "button"}}<a class="{{.Class}}" href="{{.Link}}"` +
		`{{with .Background}} style="background-color: {{.}}"{{end}}>{{.Text}}</a>{{end}}`)
	b.WriteString(`{{define "space"}}<div class="content-space" style="height: {{.}}px" aria-hidden="true"></div>{{end}}`)
	for _, tag := range headingTags {
		fmt.Fprintf(&b, `{{define "heading-%[1]s"}}<%[1]s class="content-heading">{{.}}</%[1]s>{{end}}`, tag)
	}
	return b.String()
}

type imageData struct {
	Size   pagebuilder.ImageSize
	Src    string
	Srcset string
	Alt    string
}

type buttonData struct {
	Class      string
	Link       string
	Background string
	Text       string
}

// renderBlock dispatches on the block variant. Every variant of the
// sealed Block interface has exactly one rule.
func (e *Engine) renderBlock(rc *renderContext, b pagebuilder.Block) (template.HTML, error) {
	switch b := b.(type) {
	case pagebuilder.TextBlock:
		html := e.rewriteBodyImages(rc.media, string(e.sanitize(b.HTML)))
		return execBlock("text", template.HTML(html))

	case pagebuilder.TextareaBlock:
		html, err := markdown.ToHTML(b.Text)
		if err != nil {
			return "", err
		}
		return execBlock("textarea", e.sanitize(html))

	case pagebuilder.ShortcodeBlock:
		return execBlock("shortcode", e.shortcodes.Expand(b.Code, rc.env))

	case pagebuilder.HeadingBlock:
		tag := b.Tag
		if tag == "" {
			tag = pagebuilder.HeadingH2
		}
		return execBlock("heading-"+string(tag), b.Text)

	case pagebuilder.ImageBlock:
		if b.URL == "" {
			return "", nil
		}
		size := b.Size
		if size == "" {
			size = pagebuilder.ImageThumbnail
		}
		data := imageData{Size: size, Src: b.URL}
		data.Src, data.Srcset, data.Alt = rc.media.image(e.urls, b.URL, size)
		return execBlock("image", data)

	case pagebuilder.ButtonBlock:
		size := b.Size
		if size == "" {
			size = pagebuilder.ButtonSmall
		}
		data := buttonData{
			Class: strings.Join(strings.Fields("btn "+string(size)+" "+b.Class), " "),
			Link:  b.Link,
			Text:  b.Text,
		}
		// The background is only active for the custom colour scheme.
		if b.Color == pagebuilder.ButtonColorCustom {
			data.Background = b.Background
		}
		return execBlock("button", data)

	case pagebuilder.SpaceBlock:
		return execBlock("space", b.Height)

	case nil:
		return "", fmt.Errorf("nil block")
	}
	return "", fmt.Errorf("unknown block type %T", b)
}

func execBlock(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := blockTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("execute %s block: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}
