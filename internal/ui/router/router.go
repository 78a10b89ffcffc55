// Package router sets up HTTP routes for the UI server.
package router

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	waitlistFeature "github.com/leapstack-labs/waitlist/internal/ui/features/waitlist"
	"github.com/leapstack-labs/waitlist/internal/ui/resources"
	"github.com/leapstack-labs/waitlist/internal/waitlist/stubapi"
)

// StubMountPath is where the in-process stub service is served when enabled.
const StubMountPath = "/api/waitlist"

// Deps holds what the routes are built from.
type Deps struct {
	Waitlist *waitlistFeature.Handlers

	// Stub, when set, is mounted at StubMountPath.
	Stub *stubapi.Server

	IsDev bool
}

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps Deps) {
	// Hot reload endpoint for dev mode
	if deps.IsDev {
		setupReload(router)
	}

	router.Handle(resources.StaticPrefix+"*", resources.Handler())
	router.Get("/healthz", healthz)

	if deps.Stub != nil {
		router.Mount(StubMountPath, deps.Stub.Handler())
	}

	waitlistFeature.SetupRoutes(router, deps.Waitlist)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func setupReload(router chi.Router) {
	reloadChan := make(chan struct{}, 1)
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
