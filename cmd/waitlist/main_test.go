// Package main provides tests for the waitlist CLI.
package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/waitlist/internal/cli"
	"github.com/leapstack-labs/waitlist/internal/cli/config"
	"github.com/leapstack-labs/waitlist/internal/waitlist"
	"github.com/leapstack-labs/waitlist/internal/waitlist/stubapi"
)

// run executes the root command in dir and returns what it wrote to stdout.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()
	t.Chdir(dir)

	cmd := cli.NewRootCmd()
	stdout := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "waitlist v")
}

func TestHelpCommand(t *testing.T) {
	out, err := run(t, t.TempDir(), "--help")
	require.NoError(t, err)

	for _, expected := range []string{"serve", "tui", "join", "stats", "stub", "init", "completion"} {
		assert.Contains(t, out, expected)
	}
}

func TestStatsCommand(t *testing.T) {
	stub := stubapi.New(nil)
	stub.Upsert(stubapi.Entry{FID: 1, VerifiedAccount: true, VerifiedChannel: true})
	stub.Upsert(stubapi.Entry{FID: 2})
	srv := httptest.NewServer(stub.Handler())
	defer srv.Close()

	t.Run("json", func(t *testing.T) {
		out, err := run(t, t.TempDir(), "stats", "--endpoint", srv.URL, "-o", "json")
		require.NoError(t, err)

		var stats waitlist.Stats
		require.NoError(t, json.Unmarshal([]byte(out), &stats))
		assert.Equal(t, waitlist.Stats{Total: 2, Verified: 1}, stats)
	})

	t.Run("markdown", func(t *testing.T) {
		out, err := run(t, t.TempDir(), "stats", "--endpoint", srv.URL, "--locale", "en", "-o", "markdown")
		require.NoError(t, err)

		assert.Contains(t, out, "# Waitlist stats")
		assert.Contains(t, out, "Total participants")
		assert.Contains(t, out, "| 2 |")
	})
}

func TestJoinCommand(t *testing.T) {
	stub := stubapi.New(nil)
	srv := httptest.NewServer(stub.Handler())
	defer srv.Close()

	out, err := run(t, t.TempDir(), "join", "--no-delay", "--endpoint", srv.URL, "--locale", "en", "-o", "json")
	require.NoError(t, err)

	var res struct {
		Screen  string         `json:"screen"`
		Success bool           `json:"success"`
		Notice  string         `json:"notice"`
		Stats   waitlist.Stats `json:"stats"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "success", res.Screen)
	assert.True(t, res.Success)
	assert.Equal(t, "Welcome to the waitlist!", res.Notice)
	assert.Equal(t, waitlist.Stats{Total: 1, Verified: 1}, res.Stats)
	assert.Len(t, stub.Entries(), 1)
}

func TestJoinCommand_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(stubapi.New(nil).Handler())
	endpoint := srv.URL
	srv.Close()

	_, err := run(t, t.TempDir(), "join", "--no-delay", "--endpoint", endpoint, "-o", "json")
	require.Error(t, err)
	assert.ErrorIs(t, err, waitlist.ErrNetworkFailure)
}

func TestInvalidEndpoint(t *testing.T) {
	_, err := run(t, t.TempDir(), "stats", "--endpoint", "not a url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "init")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "waitlist.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "check_delay: 1500ms")
	assert.NotContains(t, string(data), "session_secret")

	_, err = run(t, dir, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
