package tui

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

// OpenLog returns the logger to use while the program owns the terminal.
// With an empty path logs are discarded; otherwise they are appended to the
// file at path. The returned close func must be called after Run.
func OpenLog(path string, level slog.Level) (*slog.Logger, func() error, error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), func() error { return nil }, nil
	}

	f, err := tea.LogToFile(path, "waitlist")
	if err != nil {
		return nil, nil, fmt.Errorf("open tui log %s: %w", path, err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, f.Close, nil
}
