package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/waitlist/internal/testutil"
	waitlistFeature "github.com/leapstack-labs/waitlist/internal/ui/features/waitlist"
	"github.com/leapstack-labs/waitlist/internal/ui/session"
	"github.com/leapstack-labs/waitlist/internal/waitlist"
	"github.com/leapstack-labs/waitlist/internal/waitlist/stubapi"
)

type nopAPI struct{}

func (nopAPI) Submit(context.Context, waitlist.UserRecord) (waitlist.SubmitResult, error) {
	return waitlist.SubmitResult{}, nil
}

func (nopAPI) Stats(context.Context) (waitlist.Stats, error) {
	return waitlist.Stats{}, nil
}

func newRouter(t *testing.T, stub *stubapi.Server) chi.Router {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	registry := session.NewRegistry(session.Config{
		Factory: func(onChange func(waitlist.Snapshot)) *waitlist.Flow {
			return waitlist.New(waitlist.Config{API: nopAPI{}, Logger: logger, OnChange: onChange})
		},
	})
	handlers := waitlistFeature.NewHandlers(registry, sessions.NewCookieStore([]byte("test")), language.English, logger)

	r := chi.NewRouter()
	SetupRoutes(r, Deps{Waitlist: handlers, Stub: stub})
	return r
}

func TestSetupRoutes(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		withStub   bool
		wantStatus int
		wantBody   string
	}{
		{name: "health", method: http.MethodGet, path: "/healthz", wantStatus: http.StatusOK, wantBody: "ok"},
		{name: "page", method: http.MethodGet, path: "/", wantStatus: http.StatusOK, wantBody: "<!doctype html>"},
		{name: "stylesheet", method: http.MethodGet, path: "/static/waitlist.css", wantStatus: http.StatusOK, wantBody: ".screen"},
		{name: "stub stats", method: http.MethodGet, path: StubMountPath, withStub: true, wantStatus: http.StatusOK, wantBody: `"total":0`},
		{
			name:       "stub submit",
			method:     http.MethodPost,
			path:       StubMountPath,
			body:       `{"fid": 7, "verifiedAccount": true, "verifiedChannel": true}`,
			withStub:   true,
			wantStatus: http.StatusOK,
			wantBody:   `"success":true`,
		},
		{name: "stub not mounted", method: http.MethodGet, path: StubMountPath, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stub *stubapi.Server
			if tt.withStub {
				stub = stubapi.New(nil)
			}
			r := newRouter(t, stub)

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}
