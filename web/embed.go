// Package web provides the embedded static assets for the landing page.
package web

import "embed"

// StaticFS contains the embedded static assets.
//
//go:embed all:static
var StaticFS embed.FS
