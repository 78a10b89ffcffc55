package waitlist

import (
	"golang.org/x/text/message"

	"github.com/leapstack-labs/waitlist/internal/locale"
)

// Action is a user trigger offered by a view.
type Action string

// Actions.
const (
	ActionJoin  Action = "join"
	ActionStats Action = "stats"
	ActionBack  Action = "back"
)

// Tone is the accent a view element is drawn with.
type Tone string

// Tones.
const (
	TonePrimary Tone = "primary"
	ToneSuccess Tone = "success"
	ToneDanger  Tone = "danger"
)

// Button is an action trigger.
type Button struct {
	Action   Action
	Label    string
	Icon     string
	Primary  bool
	Disabled bool
}

// StatCard displays one counter.
type StatCard struct {
	Label string
	Value int
	Icon  string
	Tone  Tone
}

// Requirement is one item of the error screen's checklist.
type Requirement struct {
	Label string
	Icon  string
}

// RenderedNotice is a notice with its text resolved.
type RenderedNotice struct {
	Kind NoticeKind
	Text string
}

// View is the display model of one screen.
type View struct {
	Screen       Screen
	Icon         string
	Title        string
	Tone         Tone
	Lead         string
	Spinner      bool
	Requirements []Requirement
	Cards        []StatCard
	Buttons      []Button
	Notice       *RenderedNotice
}

// Allows reports whether the view offers an enabled button for action.
func (v View) Allows(action Action) bool {
	for _, b := range v.Buttons {
		if b.Action == action && !b.Disabled {
			return true
		}
	}
	return false
}

// Render maps a snapshot to its view. It has no side effects.
func Render(s Snapshot, p *message.Printer) View {
	t := func(key string) string { return p.Sprintf(key) }

	var v View
	switch s.Screen {
	case ScreenWelcome:
		v = View{
			Icon:  "🚀",
			Title: t(locale.MsgAppTitle),
			Tone:  TonePrimary,
			Lead:  t(locale.MsgWelcomeLead),
			Buttons: []Button{
				{Action: ActionJoin, Label: t(locale.MsgJoin), Icon: "rocket", Primary: true, Disabled: s.Busy},
				{Action: ActionStats, Label: t(locale.MsgStats), Icon: "bar-chart"},
			},
		}
	case ScreenChecking:
		v = View{
			Icon:    "🔍",
			Title:   t(locale.MsgCheckingTitle),
			Lead:    t(locale.MsgCheckingLead),
			Spinner: true,
		}
	case ScreenSuccess:
		v = View{
			Icon:  "✅",
			Title: t(locale.MsgSuccessTitle),
			Tone:  ToneSuccess,
			Lead:  t(locale.MsgSuccessLead),
			Buttons: []Button{
				{Action: ActionStats, Label: t(locale.MsgViewStats), Icon: "users", Primary: true},
				{Action: ActionBack, Label: t(locale.MsgHome)},
			},
		}
	case ScreenError:
		v = View{
			Icon:  "❌",
			Title: t(locale.MsgErrorTitle),
			Tone:  ToneDanger,
			Lead:  t(locale.MsgErrorLead),
			Requirements: []Requirement{
				{Label: t(locale.MsgFollowAccount), Icon: "user-plus"},
				{Label: t(locale.MsgFollowChannel), Icon: "hash"},
			},
			Buttons: []Button{
				{Action: ActionBack, Label: t(locale.MsgBack), Icon: "arrow-left", Primary: true},
			},
		}
	case ScreenStats:
		v = View{
			Title: t(locale.MsgStatsTitle),
			Lead:  t(locale.MsgStatsLead),
			Cards: []StatCard{
				{Label: t(locale.MsgTotal), Value: s.Stats.Total, Icon: "users", Tone: TonePrimary},
				{Label: t(locale.MsgVerified), Value: s.Stats.Verified, Icon: "check-circle", Tone: ToneSuccess},
			},
			Buttons: []Button{
				{Action: ActionBack, Label: t(locale.MsgHome), Icon: "home"},
			},
		}
	default:
		return View{Screen: s.Screen}
	}

	v.Screen = s.Screen
	if s.Notice != nil {
		v.Notice = &RenderedNotice{Kind: s.Notice.Kind, Text: t(s.Notice.Message)}
	}
	return v
}
