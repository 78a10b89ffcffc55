package waitlist

import (
	"github.com/go-chi/chi/v5"
)

// SetupRoutes configures routes for the waitlist feature.
func SetupRoutes(router chi.Router, handlers *Handlers) {
	// Updates only attaches to sessions the page created.
	router.Get("/updates", handlers.Updates)

	router.Group(func(r chi.Router) {
		r.Use(handlers.SessionMiddleware)

		r.Get("/", handlers.Page)
		r.Post("/join", handlers.Join)
		r.Post("/stats", handlers.Stats)
		r.Post("/back", handlers.Back)
	})
}
