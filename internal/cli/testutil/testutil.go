// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/waitlist/internal/cli/output"
	"github.com/leapstack-labs/waitlist/internal/waitlist/stubapi"
)

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a test renderer in the given mode.
// Buffers are never terminals, so ModeAuto behaves like ModeMarkdown.
func NewTestRenderer(mode output.Mode) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRenderer(out, errOut, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// Reset clears both output buffers.
func (tr *TestRenderer) Reset() {
	tr.Out.Reset()
	tr.ErrOut.Reset()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation: balanced code
// fences, non-empty headers and table rows with matching column counts.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	if n := strings.Count(md, "```"); n%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", n)
	}

	columns := -1
	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
		if !strings.HasPrefix(trimmed, "|") {
			columns = -1
			continue
		}
		n := strings.Count(trimmed, "|")
		if columns >= 0 && n != columns {
			t.Errorf("table row at line %d has %d separators, want %d", i+1, n-1, columns-1)
		}
		columns = n
	}
}

// NewStubEndpoint serves a fresh stub service for the duration of the test
// and returns it with its base URL.
func NewStubEndpoint(t *testing.T, entries ...stubapi.Entry) (*stubapi.Server, string) {
	t.Helper()

	stub := stubapi.New(nil)
	for _, e := range entries {
		stub.Upsert(e)
	}
	srv := httptest.NewServer(stub.Handler())
	t.Cleanup(srv.Close)
	return stub, srv.URL
}
