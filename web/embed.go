// Package web provides the embedded public theme assets (stylesheet and
// bundled images) served at /public/.
package web

import "embed"

// PublicFS embeds the web/public/ directory tree. Theme.AssetPath builds
// URLs into it.
//
//go:embed all:public
var PublicFS embed.FS
