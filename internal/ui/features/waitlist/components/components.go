// Package components renders the waitlist screens as templ components.
package components

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/waitlist/internal/ui/resources"
	"github.com/leapstack-labs/waitlist/internal/waitlist"
)

// DatastarScriptURL is the datastar client bundle the page loads.
const DatastarScriptURL = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

// ScreenID is the element id patched on every update.
const ScreenID = "screen"

// PageData holds everything the full page needs.
type PageData struct {
	Title string
	Lang  string
	View  waitlist.View

	// Dev adds the hot reload listener.
	Dev bool
}

// ActionPath returns the POST route triggering action.
func ActionPath(action waitlist.Action) string {
	return "/" + string(action)
}

// Page renders the full HTML document with the current screen inlined and an
// update stream attached.
func Page(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw("<!doctype html>\n")
		hw.raw(`<html lang="`)
		hw.text(data.Lang)
		hw.raw(`"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.raw("<title>")
		hw.text(data.Title)
		hw.raw("</title>")
		hw.raw(`<link rel="stylesheet" href="`)
		hw.text(resources.StaticPath("waitlist.css"))
		hw.raw(`"><script type="module" src="`)
		hw.text(DatastarScriptURL)
		hw.raw(`"></script></head>`)
		hw.raw(`<body><main class="frame"><div class="card" data-init="@get('/updates')">`)
		if hw.err != nil {
			return hw.err
		}
		if err := Screen(data.View).Render(ctx, w); err != nil {
			return err
		}
		hw.raw("</div></main>")
		if data.Dev {
			hw.raw(`<div data-init="@get('/reload')"></div>`)
		}
		hw.raw("</body></html>")
		return hw.err
	})
}

// Screen renders one view. Its root element carries ScreenID so update
// patches replace it in place.
func Screen(v waitlist.View) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<section id="` + ScreenID + `" class="screen screen--`)
		hw.text(string(v.Screen))
		hw.raw(`" data-screen="`)
		hw.text(string(v.Screen))
		hw.raw(`">`)

		if v.Spinner {
			hw.raw(`<div class="spinner" aria-hidden="true"></div>`)
		}
		if v.Icon != "" {
			hw.raw(`<div class="screen__icon">`)
			hw.text(v.Icon)
			hw.raw(`</div>`)
		}
		if v.Title != "" {
			hw.raw(`<h1 class="screen__title`)
			if v.Tone != "" {
				hw.raw(" tone--")
				hw.text(string(v.Tone))
			}
			hw.raw(`">`)
			hw.text(v.Title)
			hw.raw(`</h1>`)
		}
		if v.Lead != "" {
			hw.raw(`<p class="screen__lead">`)
			hw.text(v.Lead)
			hw.raw(`</p>`)
		}

		if len(v.Requirements) > 0 {
			hw.raw(`<ul class="requirements">`)
			for _, req := range v.Requirements {
				hw.raw(`<li class="requirement" data-icon="`)
				hw.text(req.Icon)
				hw.raw(`">`)
				hw.text(req.Label)
				hw.raw(`</li>`)
			}
			hw.raw(`</ul>`)
		}

		if len(v.Cards) > 0 {
			hw.raw(`<div class="cards">`)
			for _, card := range v.Cards {
				hw.raw(`<div class="stat-card tone--`)
				hw.text(string(card.Tone))
				hw.raw(`" data-icon="`)
				hw.text(card.Icon)
				hw.raw(`"><p class="stat-card__label">`)
				hw.text(card.Label)
				hw.raw(`</p><p class="stat-card__value">`)
				hw.text(strconv.Itoa(card.Value))
				hw.raw(`</p></div>`)
			}
			hw.raw(`</div>`)
		}

		if len(v.Buttons) > 0 {
			hw.raw(`<div class="actions">`)
			for _, b := range v.Buttons {
				writeButton(hw, b)
			}
			hw.raw(`</div>`)
		}

		if v.Notice != nil {
			hw.raw(`<div class="notice notice--`)
			hw.text(string(v.Notice.Kind))
			hw.raw(`" role="status">`)
			hw.text(v.Notice.Text)
			hw.raw(`</div>`)
		}

		hw.raw(`</section>`)
		return hw.err
	})
}

func writeButton(hw *htmlWriter, b waitlist.Button) {
	classes := []string{"button"}
	if b.Primary {
		classes = append(classes, "button--primary")
	} else {
		classes = append(classes, "button--outline")
	}

	hw.raw(`<button type="button" class="`)
	hw.text(strings.Join(classes, " "))
	hw.raw(`" data-action="`)
	hw.text(string(b.Action))
	hw.raw(`"`)
	if b.Icon != "" {
		hw.raw(` data-icon="`)
		hw.text(b.Icon)
		hw.raw(`"`)
	}
	hw.raw(fmt.Sprintf(` data-on:click="@post('%s')"`, ActionPath(b.Action)))
	if b.Disabled {
		hw.raw(" disabled")
	}
	hw.raw(">")
	hw.text(b.Label)
	hw.raw("</button>")
}

// htmlWriter keeps the first write error so component bodies stay linear.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}
