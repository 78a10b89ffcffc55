package waitlist

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/leapstack-labs/waitlist/internal/ui/session"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "waitlist"

	sessionIDKey = "sid"
)

type sessionKey struct{}

// SessionFromContext returns the session attached by SessionMiddleware.
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*session.Session)
	return s, ok
}

// SessionMiddleware attaches the browser's session to the request context,
// issuing a new session cookie on first visit.
func (h *Handlers) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.resolveSession(w, r)
		if err != nil {
			h.logger.Error("failed to resolve session", "error", err)
			http.Error(w, "session unavailable", http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

func (h *Handlers) resolveSession(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	// A cookie that fails to decode (for example after the secret changed)
	// still yields a fresh session.
	cookie, err := h.sessionStore.Get(r, CookieName)
	if cookie == nil {
		return nil, fmt.Errorf("load session cookie: %w", err)
	}

	id, _ := cookie.Values[sessionIDKey].(string)
	if id == "" {
		id = uuid.NewString()
		cookie.Values[sessionIDKey] = id
		if err := cookie.Save(r, w); err != nil {
			return nil, fmt.Errorf("save session cookie: %w", err)
		}
	}

	return h.registry.GetOrCreate(id), nil
}

// existingSession returns the registered session named by the request's
// cookie without issuing a cookie or creating a session.
func (h *Handlers) existingSession(r *http.Request) (*session.Session, bool) {
	cookie, _ := h.sessionStore.Get(r, CookieName)
	if cookie == nil {
		return nil, false
	}
	id, _ := cookie.Values[sessionIDKey].(string)
	if id == "" {
		return nil, false
	}
	return h.registry.Get(id)
}
