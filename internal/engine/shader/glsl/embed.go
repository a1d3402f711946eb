// Package glsl embeds the default GLSL sources, laid out as <category>/<name>.
package glsl

import "embed"

// FS holds the default shader sources.
//
//go:embed lighting/*.vert lighting/*.frag basic/*.frag
var FS embed.FS
