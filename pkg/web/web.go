// Package web embeds the dashboard's static assets.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var assets embed.FS

var staticFS = func() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return sub
}()

// Handler serves the embedded dashboard
func Handler() http.Handler {
	return http.FileServer(http.FS(staticFS))
}

// Assets returns the embedded dashboard filesystem
func Assets() fs.FS {
	return staticFS
}
