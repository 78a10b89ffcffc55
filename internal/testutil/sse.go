package testutil

import (
	"strings"
)

// SSEEvent is one parsed Server-Sent Event.
type SSEEvent struct {
	Type string
	Data []string
}

// ParseSSE splits a recorded event-stream body into events. Events are
// separated by blank lines; only "event:" and "data:" fields are kept.
func ParseSSE(body string) []SSEEvent {
	var (
		events  []SSEEvent
		current SSEEvent
		started bool
	)
	flush := func() {
		if started {
			events = append(events, current)
		}
		current = SSEEvent{}
		started = false
	}

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "event:"):
			current.Type = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			started = true
		case strings.HasPrefix(line, "data:"):
			current.Data = append(current.Data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
			started = true
		}
	}
	flush()
	return events
}

// Joined returns the event's data lines joined with newlines.
func (e SSEEvent) Joined() string {
	return strings.Join(e.Data, "\n")
}
