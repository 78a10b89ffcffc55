//go:build dev

package resources

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
)

// Dev reports whether assets are served from disk.
const Dev = true

// staticDir locates the static directory next to this source file so the
// dev binary can run from any working directory.
func staticDir() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return StaticDirectoryPath
	}
	return filepath.Join(filepath.Dir(filename), "static")
}

// Handler returns an HTTP handler serving static files straight from disk,
// so stylesheet edits show up on reload.
func Handler() http.Handler {
	dir := staticDir()
	slog.Info("static assets served from filesystem", "path", dir)

	fileServer := http.StripPrefix(StaticPrefix, http.FileServer(http.FS(os.DirFS(dir))))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		fileServer.ServeHTTP(w, r)
	})
}
