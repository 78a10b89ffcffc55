package stubapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/waitlist/internal/testutil"
	"github.com/leapstack-labs/waitlist/internal/waitlist"
	"github.com/leapstack-labs/waitlist/internal/waitlist/client"
)

func serve(t *testing.T, s *Server, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Preflight(t *testing.T) {
	rec := serve(t, New(nil), http.MethodOptions, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Empty(t, rec.Body.String())
}

func TestServer_Submit(t *testing.T) {
	s := New(testutil.NewTestLogger(t))

	rec := serve(t, s, http.MethodPost, `{"fid": 12, "username": "ann", "displayName": "Ann", "verifiedAccount": true, "verifiedChannel": true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.IsNew)
	assert.Equal(t, Entry{FID: 12, Username: "ann", DisplayName: "Ann", VerifiedAccount: true, VerifiedChannel: true}, resp.User)

	// Same fid updates in place.
	rec = serve(t, s, http.MethodPost, `{"fid": 12, "username": "ann2", "verifiedAccount": true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.IsNew)
	assert.Equal(t, "ann2", resp.User.Username)

	assert.Len(t, s.Entries(), 1)
	assert.Equal(t, waitlist.Stats{Total: 1, Verified: 0}, s.Stats())
}

func TestServer_Submit_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"missing fid", `{"username": "x"}`, http.StatusBadRequest, "FID is required"},
		{"zero fid", `{"fid": 0}`, http.StatusBadRequest, "FID is required"},
		{"malformed json", `{"fid":`, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, New(nil), http.MethodPost, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotContains(t, resp, "success")
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, resp["error"])
			}
		})
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	rec := serve(t, New(nil), http.MethodDelete, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"error": "Method not allowed"}`, rec.Body.String())
}

func TestServer_Stats(t *testing.T) {
	s := New(nil)
	s.Upsert(Entry{FID: 1, VerifiedAccount: true, VerifiedChannel: true})
	s.Upsert(Entry{FID: 2, VerifiedAccount: true})
	s.Upsert(Entry{FID: 3})

	rec := serve(t, s, http.MethodGet, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total": 3, "verified": 1}`, rec.Body.String())
}

// TestServer_WithFlow drives a real flow through the HTTP client against the stub.
func TestServer_WithFlow(t *testing.T) {
	s := New(testutil.NewTestLogger(t))
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	c, err := client.New(client.Config{Endpoint: srv.URL})
	require.NoError(t, err)

	ids := []int{101, 102}
	f := waitlist.New(waitlist.Config{
		API: c,
		NewID: func() int {
			id := ids[0]
			ids = ids[1:]
			return id
		},
	})

	require.NoError(t, f.Join(context.Background()))
	assert.Equal(t, waitlist.ScreenSuccess, f.Snapshot().Screen)
	assert.Equal(t, waitlist.Stats{Total: 1, Verified: 1}, f.Snapshot().Stats)

	f.Back()
	require.NoError(t, f.Join(context.Background()))
	require.NoError(t, f.ViewStats(context.Background()))

	snap := f.Snapshot()
	assert.Equal(t, waitlist.ScreenStats, snap.Screen)
	assert.Equal(t, waitlist.Stats{Total: 2, Verified: 2}, snap.Stats)
}
