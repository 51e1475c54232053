// Package static embeds the dashboard's client assets.
package static

import "embed"

//go:embed *.css *.js
var Files embed.FS
