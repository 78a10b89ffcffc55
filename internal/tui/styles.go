package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/waitlist/internal/waitlist"
)

var (
	colorPrimary = lipgloss.Color("99")
	colorSuccess = lipgloss.Color("42")
	colorDanger  = lipgloss.Color("196")
	colorMuted   = lipgloss.Color("245")

	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 3).
			Width(56)

	titleStyle  = lipgloss.NewStyle().Bold(true)
	leadStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 2).MarginRight(1)
	valueStyle  = lipgloss.NewStyle().Bold(true)
	buttonStyle = lipgloss.NewStyle().Padding(0, 1).MarginRight(1).Border(lipgloss.NormalBorder())
	noticeStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true)
)

func toneColor(t waitlist.Tone) lipgloss.Color {
	switch t {
	case waitlist.ToneSuccess:
		return colorSuccess
	case waitlist.ToneDanger:
		return colorDanger
	default:
		return colorPrimary
	}
}
