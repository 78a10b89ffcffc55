package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/waitlist/internal/testutil"
	"github.com/leapstack-labs/waitlist/internal/waitlist"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{Endpoint: srv.URL, Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	return c
}

func TestNew_ValidatesEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		wantErr  string
	}{
		{"empty", "", "scheme must be http or https"},
		{"relative", "/api/waitlist", "scheme must be http or https"},
		{"ftp", "ftp://example.com", "scheme must be http or https"},
		{"no host", "https://", "missing host"},
		{"valid", "https://functions.example.com/abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Config{Endpoint: tt.endpoint})
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestClient_Submit(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"success": true, "isNew": true, "user": {"fid": 7}}`))
	})

	res, err := c.Submit(context.Background(), waitlist.NewUserRecord(7, waitlist.DefaultIdentity))
	require.NoError(t, err)
	assert.True(t, res.Success)

	assert.Equal(t, map[string]any{
		"fid":             float64(7),
		"username":        "demo_user",
		"displayName":     "Demo User",
		"verifiedAccount": true,
		"verifiedChannel": true,
	}, got)
}

func TestClient_Submit_Responses(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantSuccess bool
		wantErr     bool
	}{
		{"success false", http.StatusOK, `{"success": false}`, false, false},
		{"error body is a rejection", http.StatusBadRequest, `{"error": "FID is required"}`, false, false},
		{"server error body is a rejection", http.StatusInternalServerError, `{"error": "db down"}`, false, false},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, false, true},
		{"empty body", http.StatusOK, ``, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			res, err := c.Submit(context.Background(), waitlist.NewUserRecord(1, waitlist.DefaultIdentity))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSuccess, res.Success)
		})
	}
}

func TestClient_Submit_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	c, err := New(Config{Endpoint: endpoint})
	require.NoError(t, err)

	_, err = c.Submit(context.Background(), waitlist.NewUserRecord(1, waitlist.DefaultIdentity))
	assert.Error(t, err)
}

func TestClient_Stats(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"total": 42, "verified": 40}`))
	})

	stats, err := c.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, waitlist.Stats{Total: 42, Verified: 40}, stats)
}

func TestClient_Stats_ErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "Database not configured"}`))
	})

	_, err := c.Stats(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
}

func TestClient_Stats_Cancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"total": 1, "verified": 1}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Stats(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
