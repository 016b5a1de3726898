// Package web holds the embedded dashboard assets.
package web

import _ "embed"

//go:embed static/index.html
var IndexHTML []byte
