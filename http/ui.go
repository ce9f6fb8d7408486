package http

import (
	"embed"
	"io/fs"
)

//go:embed ui
var uiFiles embed.FS

// EmbeddedUI returns the built-in upload page.
func EmbeddedUI() fs.FS {
	sub, err := fs.Sub(uiFiles, "ui")
	if err != nil {
		panic(err)
	}
	return sub
}
