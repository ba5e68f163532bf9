// Package static embeds the web asset files.
package static

import "embed"

//go:embed *.css
var FS embed.FS
