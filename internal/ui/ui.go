// Package ui embeds the built frontend assets served by the API
// server.
package ui

import "embed"

// DistFS holds the static frontend files.
//
//go:embed dist
var DistFS embed.FS
