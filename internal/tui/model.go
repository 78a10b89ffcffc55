// Package tui runs the waitlist signup flow in the terminal.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/leapstack-labs/waitlist/internal/locale"
	"github.com/leapstack-labs/waitlist/internal/ui/notifier"
	"github.com/leapstack-labs/waitlist/internal/waitlist"
)

// snapshotMsg carries a flow change into the update loop.
type snapshotMsg waitlist.Snapshot

// actionDoneMsg carries the flow state right after a background action
// returned. Errors are already reflected in it as screens and notices.
type actionDoneMsg struct {
	snap waitlist.Snapshot
}

// Model is the bubbletea model of the waitlist screens.
type Model struct {
	ctx     context.Context
	flow    *waitlist.Flow
	updates chan waitlist.Snapshot
	printer *message.Printer

	snap    waitlist.Snapshot
	keys    keyMap
	help    help.Model
	spinner spinner.Model
}

// NewModel creates a model driving flow. updates must receive the flow's
// snapshots, typically from a notifier subscription.
func NewModel(ctx context.Context, flow *waitlist.Flow, updates chan waitlist.Snapshot, lang language.Tag) Model {
	p := locale.NewPrinter(lang)
	return Model{
		ctx:     ctx,
		flow:    flow,
		updates: updates,
		printer: p,
		snap:    flow.Snapshot(),
		keys:    newKeyMap(p),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(colorPrimary))),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForChange(m.updates))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case snapshotMsg:
		m.snap = waitlist.Snapshot(msg)
		return m, waitForChange(m.updates)

	case actionDoneMsg:
		if msg.snap.Version >= m.snap.Version {
			m.snap = msg.snap
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	view := m.view()
	switch {
	case key.Matches(msg, m.keys.Join) && view.Allows(waitlist.ActionJoin):
		return m, m.run(m.flow.Join)
	case key.Matches(msg, m.keys.Stats) && view.Allows(waitlist.ActionStats):
		return m, m.run(m.flow.ViewStats)
	case key.Matches(msg, m.keys.Back) && view.Allows(waitlist.ActionBack):
		m.flow.Back()
		m.snap = m.flow.Snapshot()
	}
	return m, nil
}

// run performs a flow action off the update loop. Its screen changes arrive
// as snapshotMsg; the state it ended in as actionDoneMsg.
func (m Model) run(fn func(context.Context) error) tea.Cmd {
	ctx, flow := m.ctx, m.flow
	return func() tea.Msg {
		_ = fn(ctx)
		return actionDoneMsg{snap: flow.Snapshot()}
	}
}

// waitForChange blocks until the flow publishes a snapshot. A closed channel
// ends the subscription.
func waitForChange(updates chan waitlist.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

func (m Model) view() waitlist.View {
	return waitlist.Render(m.snap, m.printer)
}

// View implements tea.Model.
func (m Model) View() string {
	v := m.view()
	tone := lipgloss.NewStyle().Foreground(toneColor(v.Tone))

	var b strings.Builder
	if v.Spinner {
		b.WriteString(m.spinner.View() + " ")
	} else if v.Icon != "" {
		b.WriteString(v.Icon + " ")
	}
	b.WriteString(titleStyle.Inherit(tone).Render(v.Title))
	b.WriteString("\n")
	if v.Lead != "" {
		b.WriteString(leadStyle.Render(v.Lead) + "\n")
	}

	if len(v.Requirements) > 0 {
		b.WriteString("\n")
		for _, req := range v.Requirements {
			b.WriteString(lipgloss.NewStyle().Foreground(colorDanger).Render("• ") + req.Label + "\n")
		}
	}

	if len(v.Cards) > 0 {
		cards := make([]string, 0, len(v.Cards))
		for _, c := range v.Cards {
			cards = append(cards, cardStyle.BorderForeground(toneColor(c.Tone)).Render(
				c.Label+"\n"+valueStyle.Foreground(toneColor(c.Tone)).Render(strconv.Itoa(c.Value)),
			))
		}
		b.WriteString("\n" + lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n")
	}

	if len(v.Buttons) > 0 {
		buttons := make([]string, 0, len(v.Buttons))
		for _, btn := range v.Buttons {
			buttons = append(buttons, m.renderButton(btn))
		}
		b.WriteString("\n" + lipgloss.JoinHorizontal(lipgloss.Top, buttons...) + "\n")
	}

	if v.Notice != nil {
		color := colorSuccess
		if v.Notice.Kind == waitlist.NoticeError {
			color = colorDanger
		}
		b.WriteString("\n" + noticeStyle.Foreground(color).Render(v.Notice.Text) + "\n")
	}

	return frameStyle.Render(b.String()) + "\n" + m.help.View(m.keys) + "\n"
}

func (m Model) renderButton(btn waitlist.Button) string {
	label := fmt.Sprintf("[%s] %s", m.bindingFor(btn.Action).Help().Key, btn.Label)
	style := buttonStyle.BorderForeground(colorMuted)
	switch {
	case btn.Disabled:
		style = style.Foreground(colorMuted).Faint(true)
	case btn.Primary:
		style = style.BorderForeground(colorPrimary).Foreground(colorPrimary).Bold(true)
	}
	return style.Render(label)
}

func (m Model) bindingFor(action waitlist.Action) key.Binding {
	switch action {
	case waitlist.ActionJoin:
		return m.keys.Join
	case waitlist.ActionStats:
		return m.keys.Stats
	default:
		return m.keys.Back
	}
}

// Config holds what Run needs.
type Config struct {
	// Flow holds the flow settings; OnChange is replaced.
	Flow waitlist.Config

	Locale language.Tag

	// Input and Output override the terminal.
	Input  io.Reader
	Output io.Writer

	// AltScreen runs the program in the alternate screen buffer.
	AltScreen bool
}

// Run shows the waitlist screens until the user quits or ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	n := notifier.New()
	updates := n.Subscribe()
	defer n.Unsubscribe(updates)

	fc := cfg.Flow
	fc.OnChange = n.Publish
	flow := waitlist.New(fc)

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if cfg.Input != nil {
		opts = append(opts, tea.WithInput(cfg.Input))
	}
	if cfg.Output != nil {
		opts = append(opts, tea.WithOutput(cfg.Output))
	}

	_, err := tea.NewProgram(NewModel(ctx, flow, updates, cfg.Locale), opts...).Run()
	if ctx.Err() != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled)) {
		return nil
	}
	return err
}
