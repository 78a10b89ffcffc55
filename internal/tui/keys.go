package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"golang.org/x/text/message"

	"github.com/leapstack-labs/waitlist/internal/locale"
)

// keyMap holds the bindings of the waitlist screens.
type keyMap struct {
	Join  key.Binding
	Stats key.Binding
	Back  key.Binding
	Quit  key.Binding
}

func newKeyMap(p *message.Printer) keyMap {
	return keyMap{
		Join: key.NewBinding(
			key.WithKeys("j", "enter"),
			key.WithHelp("j/enter", p.Sprintf(locale.MsgJoin)),
		),
		Stats: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", p.Sprintf(locale.MsgStats)),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "esc", "backspace"),
			key.WithHelp("b/esc", p.Sprintf(locale.MsgBack)),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Join, k.Stats, k.Back, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
