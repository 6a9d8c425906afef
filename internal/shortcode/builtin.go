// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package shortcode

import (
	"bytes"
	"errors"
	"html/template"
	"strconv"
	"strings"
)

// Default returns a registry holding the built-in shortcodes:
//
//	[year]                         current year
//	[page_title]                   title of the page being rendered
//	[gallery]                      the page's media gallery
//	[button url="/x" size="btn-lg" class="..."]Label[/button]
func Default() *Registry {
	r := NewRegistry()
	r.Register("year", year)
	r.Register("page_title", pageTitle)
	r.Register("gallery", gallery)
	r.Register("button", button)
	return r
}

func year(env Env, _ Shortcode) (template.HTML, error) {
	return template.HTML(strconv.Itoa(env.Now.Year())), nil
}

func pageTitle(env Env, _ Shortcode) (template.HTML, error) {
	return template.HTML(template.HTMLEscapeString(env.PageTitle)), nil
}

func gallery(env Env, _ Shortcode) (template.HTML, error) {
	return env.Gallery, nil
}

var buttonTmpl = template.Must(template.New("button").Parse(
	`<a class="{{.Class}}" href="{{.URL}}">{{.Text}}</a>`))

var buttonSizes = map[string]bool{"btn-sm": true, "btn-md": true, "btn-lg": true}

// errMissingURL is returned by [button] without a url attribute.
var errMissingURL = errors.New("button shortcode needs a url")

func button(_ Env, sc Shortcode) (template.HTML, error) {
	url := sc.Attr("url", "link", "href")
	if url == "" {
		return "", errMissingURL
	}
	text := strings.TrimSpace(sc.Content)
	if text == "" {
		text = sc.Attr("text", "0")
	}
	if text == "" {
		text = url
	}
	size := sc.Attr("size")
	if !buttonSizes[size] {
		size = "btn-sm"
	}
	class := strings.Join(strings.Fields("btn "+size+" "+sc.Attr("class")), " ")

	var buf bytes.Buffer
	err := buttonTmpl.Execute(&buf, struct{ Class, URL, Text string }{class, url, text})
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
