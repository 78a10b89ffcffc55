// Package output renders command results for terminals, scripts and agents.
//
// Auto mode resolves to styled text on a terminal and to Markdown otherwise.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode selects how output is rendered.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Key     lipgloss.Style
}

// DefaultStyles returns the standard palette.
func DefaultStyles() *Styles {
	return &Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Key:     lipgloss.NewStyle().Bold(true),
	}
}

// Renderer writes command output in the selected mode.
type Renderer struct {
	w      io.Writer
	errW   io.Writer
	mode   Mode
	Styles *Styles

	// noColor is set from NO_COLOR and CLICOLOR=0.
	noColor bool
}

// NewRenderer creates a renderer. An empty mode means ModeAuto.
func NewRenderer(w, errW io.Writer, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	return &Renderer{
		w:       w,
		errW:    errW,
		mode:    mode,
		Styles:  DefaultStyles(),
		noColor: termenv.EnvNoColor(),
	}
}

// Writer returns the primary output writer.
func (r *Renderer) Writer() io.Writer {
	return r.w
}

// EffectiveMode resolves ModeAuto against the output writer.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if IsTerminal(r.w) {
		return ModeText
	}
	return ModeMarkdown
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}

// Println writes a line.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.w, a...)
}

// Printf writes formatted text.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.w, format, a...)
}

// Header writes a heading of the given level.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() == ModeText {
		r.Println(r.style(r.Styles.Header, text))
		return
	}
	r.Println(FormatHeader(level, text))
}

// Success writes a success message.
func (r *Renderer) Success(msg string) {
	r.Println(r.style(r.Styles.Success, "✓ "+msg))
}

// Error writes an error message to the error writer.
func (r *Renderer) Error(msg string) {
	_, _ = fmt.Fprintln(r.errW, r.style(r.Styles.Error, "✗ "+msg))
}

// Muted writes secondary text.
func (r *Renderer) Muted(msg string) {
	r.Println(r.style(r.Styles.Muted, msg))
}

// KeyValue writes one labelled value.
func (r *Renderer) KeyValue(key, value string) {
	if r.EffectiveMode() == ModeText {
		r.Printf("%s %s\n", r.style(r.Styles.Key, key+":"), value)
		return
	}
	r.Println(FormatKeyValue(key, value))
}

// StatusLine writes a line prefixed with a status marker.
func (r *Renderer) StatusLine(name, status, detail string) {
	var marker string
	switch status {
	case "success":
		marker = r.style(r.Styles.Success, "✓")
	case "error":
		marker = r.style(r.Styles.Error, "✗")
	default:
		marker = r.style(r.Styles.Muted, "•")
	}
	line := marker + " " + name
	if detail != "" {
		line += " " + r.style(r.Styles.Muted, detail)
	}
	r.Println(line)
}

// Table writes rows under header, as a box table in text mode and a
// Markdown table otherwise.
func (r *Renderer) Table(header []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.w)

	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = v
		}
		t.AppendRow(tr)
	}

	if r.EffectiveMode() == ModeText {
		t.SetStyle(table.StyleLight)
		t.Render()
		return
	}
	t.RenderMarkdown()
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if r.noColor || r.EffectiveMode() != ModeText {
		return text
	}
	return s.Render(text)
}

// FormatHeader returns a Markdown heading.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue returns a Markdown list item with a bold key.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s**: %s", key, value)
}
