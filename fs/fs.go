// Package appfs holds the files embedded into the binaries.
package appfs

import "embed"

//go:embed all:templates locales
var FS embed.FS
