package components

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/waitlist/internal/waitlist"
)

func TestScreen(t *testing.T) {
	tests := []struct {
		name     string
		view     waitlist.View
		contains []string
		excludes []string
	}{
		{
			name: "checking screen with disabled join",
			view: waitlist.View{
				Screen:  waitlist.ScreenChecking,
				Title:   "Checking subscriptions...",
				Tone:    waitlist.TonePrimary,
				Spinner: true,
				Buttons: []waitlist.Button{{Action: waitlist.ActionJoin, Label: "Join", Primary: true, Disabled: true}},
			},
			contains: []string{
				`<section id="screen" class="screen screen--checking" data-screen="checking">`,
				`<div class="spinner" aria-hidden="true"></div>`,
				`<h1 class="screen__title tone--primary">Checking subscriptions...</h1>`,
				`class="button button--primary" data-action="join" data-on:click="@post('/join')" disabled>Join</button>`,
			},
			excludes: []string{"notice"},
		},
		{
			name: "stats cards",
			view: waitlist.View{
				Screen:  waitlist.ScreenStats,
				Cards:   []waitlist.StatCard{{Label: "Verified", Value: 9, Tone: waitlist.ToneSuccess}},
				Buttons: []waitlist.Button{{Action: waitlist.ActionBack, Label: "Back"}},
			},
			contains: []string{
				`<div class="stat-card tone--success"`,
				`<p class="stat-card__value">9</p>`,
				`class="button button--outline" data-action="back" data-on:click="@post('/back')">Back</button>`,
			},
			excludes: []string{"spinner", " disabled"},
		},
		{
			name: "text is escaped",
			view: waitlist.View{
				Screen: waitlist.ScreenError,
				Title:  `<script>alert("x")</script>`,
				Notice: &waitlist.RenderedNotice{Kind: waitlist.NoticeError, Text: "a & b"},
			},
			contains: []string{
				"&lt;script&gt;",
				`<div class="notice notice--error" role="status">a &amp; b</div>`,
			},
			excludes: []string{"<script>alert"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Screen(tt.view).Render(context.Background(), &buf))

			html := buf.String()
			for _, want := range tt.contains {
				assert.Contains(t, html, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, html, unwanted)
			}
		})
	}
}

func TestPage(t *testing.T) {
	tests := []struct {
		name       string
		dev        bool
		wantReload bool
	}{
		{name: "production"},
		{name: "dev adds reload listener", dev: true, wantReload: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			data := PageData{
				Title: "Waitlist Frame",
				Lang:  "ru",
				View:  waitlist.View{Screen: waitlist.ScreenWelcome, Title: "Waitlist Frame"},
				Dev:   tt.dev,
			}
			require.NoError(t, Page(data).Render(context.Background(), &buf))

			html := buf.String()
			assert.Contains(t, html, `<html lang="ru">`)
			assert.Contains(t, html, "<title>Waitlist Frame</title>")
			assert.Contains(t, html, DatastarScriptURL)
			assert.Contains(t, html, `data-init="@get('/updates')"`)
			assert.Contains(t, html, `id="screen"`)
			assert.Equal(t, tt.wantReload, bytes.Contains(buf.Bytes(), []byte("@get('/reload')")))
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestScreen_ReportsWriteError(t *testing.T) {
	err := Screen(waitlist.View{Screen: waitlist.ScreenWelcome}).Render(context.Background(), failingWriter{})
	assert.EqualError(t, err, "closed")
}
