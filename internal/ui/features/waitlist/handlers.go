// Package waitlist provides the browser screens of the waitlist signup flow.
package waitlist

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/waitlist/internal/locale"
	"github.com/leapstack-labs/waitlist/internal/ui/features/waitlist/components"
	"github.com/leapstack-labs/waitlist/internal/ui/resources"
	"github.com/leapstack-labs/waitlist/internal/ui/session"
	"github.com/leapstack-labs/waitlist/internal/waitlist"
)

// Handlers provides HTTP handlers for the waitlist feature.
type Handlers struct {
	registry     *session.Registry
	sessionStore sessions.Store
	lang         language.Tag
	logger       *slog.Logger

	// running tracks flow actions started by POST handlers so tests and
	// shutdown can wait for them.
	running sync.WaitGroup
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(registry *session.Registry, sessionStore sessions.Store, lang language.Tag, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		registry:     registry,
		sessionStore: sessionStore,
		lang:         lang,
		logger:       logger,
	}
}

// Page renders the full page with the session's current screen.
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	p := locale.NewPrinter(h.lang)
	view := waitlist.Render(sess.Flow.Snapshot(), p)
	data := components.PageData{
		Title: p.Sprintf(locale.MsgAppTitle),
		Lang:  h.lang.String(),
		View:  view,
		Dev:   resources.Dev,
	}
	if err := components.Page(data).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Updates is the long-lived SSE endpoint of the page. It patches the screen
// every time the session's flow changes. The initial state is not sent since
// Page already rendered it. Requests without a live session get 404 and
// never create one.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.existingSession(r)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	sse := datastar.NewSSE(w, r)

	updates := sess.Notifier.Subscribe()
	defer sess.Notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if err := h.sendScreen(sse, snap); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// Join starts a verification submission.
func (h *Handlers) Join(w http.ResponseWriter, r *http.Request) {
	h.start(w, r, waitlist.ActionJoin, func(ctx context.Context, f *waitlist.Flow) {
		if err := f.Join(ctx); err != nil && !errors.Is(err, waitlist.ErrSubmissionInFlight) {
			h.logger.Debug("join finished on error screen", "error", err)
		}
	})
}

// Stats opens the stats screen and refreshes the counters.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	h.start(w, r, waitlist.ActionStats, func(ctx context.Context, f *waitlist.Flow) {
		_ = f.ViewStats(ctx)
	})
}

// Back returns to the welcome screen.
func (h *Handlers) Back(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	if !h.allowed(sess, waitlist.ActionBack) {
		http.Error(w, "action not available", http.StatusConflict)
		return
	}
	sess.Flow.Back()
	w.WriteHeader(http.StatusNoContent)
}

// Wait blocks until every action started by a POST handler has finished.
func (h *Handlers) Wait() {
	h.running.Wait()
}

// start runs action in the background once the current view offers it.
// The action outlives the request: a submission is never cancelled because
// the browser went away.
func (h *Handlers) start(w http.ResponseWriter, r *http.Request, action waitlist.Action, run func(context.Context, *waitlist.Flow)) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	if !h.allowed(sess, action) {
		http.Error(w, "action not available", http.StatusConflict)
		return
	}

	ctx := context.WithoutCancel(r.Context())
	h.running.Add(1)
	go func() {
		defer h.running.Done()
		run(ctx, sess.Flow)
	}()

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) allowed(sess *session.Session, action waitlist.Action) bool {
	view := waitlist.Render(sess.Flow.Snapshot(), locale.NewPrinter(h.lang))
	return view.Allows(action)
}

func (h *Handlers) sendScreen(sse *datastar.ServerSentEventGenerator, snap waitlist.Snapshot) error {
	view := waitlist.Render(snap, locale.NewPrinter(h.lang))
	return sse.PatchElementTempl(components.Screen(view))
}

// session resolves the request's session, writing an error response when it
// cannot.
func (h *Handlers) session(w http.ResponseWriter, r *http.Request) *session.Session {
	if sess, ok := SessionFromContext(r.Context()); ok {
		return sess
	}

	sess, err := h.resolveSession(w, r)
	if err != nil {
		h.logger.Error("failed to resolve session", "error", err)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return nil
	}
	return sess
}
