package ui

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/waitlist/internal/testutil"
	"github.com/leapstack-labs/waitlist/internal/ui/router"
	"github.com/leapstack-labs/waitlist/internal/ui/session"
	"github.com/leapstack-labs/waitlist/internal/waitlist"
	"github.com/leapstack-labs/waitlist/internal/waitlist/client"
	"github.com/leapstack-labs/waitlist/internal/waitlist/stubapi"
)

type nopAPI struct{}

func (nopAPI) Submit(context.Context, waitlist.UserRecord) (waitlist.SubmitResult, error) {
	return waitlist.SubmitResult{}, nil
}

func (nopAPI) Stats(context.Context) (waitlist.Stats, error) {
	return waitlist.Stats{}, nil
}

func nopFactory(onChange func(waitlist.Snapshot)) *waitlist.Flow {
	return waitlist.New(waitlist.Config{API: nopAPI{}, OnChange: onChange})
}

// startServer runs s on a random port and returns its base URL.
func startServer(t *testing.T, s *Server) (string, context.CancelFunc, <-chan error) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.serve(ctx, ln) }()

	return "http://" + ln.Addr().String(), cancel, errc
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url) //nolint:gosec,noctx // test server URL
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestServer_ServeAndShutdown(t *testing.T) {
	var ready atomic.Value
	s := NewServer(Config{
		Factory:       nopFactory,
		Locale:        language.English,
		SessionSecret: "test",
		Logger:        testutil.NewTestLogger(t),
		OnReady:       func(url string) { ready.Store(url) },
	})

	base, cancel, errc := startServer(t, s)

	require.Eventually(t, func() bool { return ready.Load() != nil }, time.Second, 10*time.Millisecond)

	code, body := get(t, base+"/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body)

	code, body = get(t, base+"/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "screen--welcome")
	assert.Equal(t, 1, s.Registry().Len())

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(2 * shutdownTimeout):
		t.Fatal("server did not shut down")
	}
}

func TestServer_StubRoundTrip(t *testing.T) {
	stub := stubapi.New(nil)
	s := NewServer(Config{
		Factory:       nopFactory,
		Locale:        language.English,
		SessionSecret: "test",
		Stub:          stub,
	})

	base, cancel, errc := startServer(t, s)
	defer func() {
		cancel()
		<-errc
	}()

	c, err := client.New(client.Config{Endpoint: base + router.StubMountPath, Timeout: time.Second})
	require.NoError(t, err)

	flow := waitlist.New(waitlist.Config{API: c, NewID: func() int { return 99 }})
	require.NoError(t, flow.Join(context.Background()))

	assert.Equal(t, waitlist.ScreenSuccess, flow.Snapshot().Screen)
	assert.Equal(t, waitlist.Stats{Total: 1, Verified: 1}, flow.Snapshot().Stats)
	assert.Equal(t, waitlist.Stats{Total: 1, Verified: 1}, stub.Stats())
}

func TestServer_WatchReloadsFactory(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "waitlist.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("check_delay: 1s\n"), 0600))

	var reloads atomic.Int32
	s := NewServer(Config{
		Factory:       nopFactory,
		Locale:        language.English,
		SessionSecret: "test",
		Watch:         true,
		ConfigFile:    cfgFile,
		Reload: func() (session.FlowFactory, error) {
			reloads.Add(1)
			return nopFactory, nil
		},
		Logger: testutil.NewTestLogger(t),
	})

	_, cancel, errc := startServer(t, s)
	defer func() {
		cancel()
		<-errc
	}()

	// Give the watcher time to register before touching the file.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(cfgFile, []byte("check_delay: 0s\n"), 0600))

	assert.Eventually(t, func() bool { return reloads.Load() > 0 }, 2*time.Second, 20*time.Millisecond)
}
