// Package resources serves the stylesheet and other static assets of the web UI.
package resources

// StaticDirectoryPath is the path to static assets from the project root.
const StaticDirectoryPath = "internal/ui/resources/static"

// StaticPrefix is the URL prefix static assets are mounted under.
const StaticPrefix = "/static/"

// StaticPath returns the URL path for a static asset.
func StaticPath(path string) string {
	return StaticPrefix + path
}
