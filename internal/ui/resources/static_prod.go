//go:build !dev

package resources

import (
	"embed"
	"io/fs"
	"net/http"
)

// Dev reports whether assets are served from disk.
const Dev = false

//go:embed static/*
var staticFS embed.FS

// Handler returns an HTTP handler for the embedded static files.
func Handler() http.Handler {
	fsys, _ := fs.Sub(staticFS, "static")
	fileServer := http.StripPrefix(StaticPrefix, http.FileServer(http.FS(fsys)))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Embedded assets only change with the binary.
		w.Header().Set("Cache-Control", "public, max-age=86400")
		fileServer.ServeHTTP(w, r)
	})
}
