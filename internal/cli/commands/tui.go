package commands

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/waitlist/internal/tui"
)

// defaultTUILog is where verbose runs log when no --log-file is given.
const defaultTUILog = "waitlist-tui.log"

// TUIOptions holds options for the tui command.
type TUIOptions struct {
	Inline  bool
	LogFile string
}

// NewTUICommand creates the tui command.
func NewTUICommand() *cobra.Command {
	opts := &TUIOptions{}

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the waitlist screens in the terminal",
		Long: `Run the signup flow as a terminal UI.

Keys: j/enter joins, s shows stats, b/esc goes back, q quits.

The screens own the terminal, so logs are not written to stderr. Use
--log-file to keep them; with --verbose they go to ` + defaultTUILog + `.`,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			cfg, closeLog, err := tuiConfig(NewCommandContext(cmd), cmd.InOrStdin(), cmd.OutOrStdout(), opts)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := closeLog(); err == nil {
					err = cerr
				}
			}()

			return tui.Run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().BoolVar(&opts.Inline, "inline", false, "Render below the prompt instead of in the alternate screen")
	cmd.Flags().StringVar(&opts.LogFile, "log-file", "", "Append logs to this file while the screens run")

	return cmd
}

// tuiConfig builds the program settings. The command's stderr logger is
// replaced so nothing writes over the rendered screens.
func tuiConfig(cmdCtx *CommandContext, in io.Reader, out io.Writer, opts *TUIOptions) (tui.Config, func() error, error) {
	cfg := cmdCtx.Cfg

	level := slog.LevelInfo
	logFile := opts.LogFile
	if cfg.Verbose {
		level = slog.LevelDebug
		if logFile == "" {
			logFile = defaultTUILog
		}
	}

	logger, closeLog, err := tui.OpenLog(logFile, level)
	if err != nil {
		return tui.Config{}, nil, err
	}

	api, err := newAPI(cfg, cfg.Endpoint, logger)
	if err != nil {
		_ = closeLog()
		return tui.Config{}, nil, err
	}

	return tui.Config{
		Flow:      flowConfig(cfg, api, logger),
		Locale:    cfg.LocaleTag(),
		Input:     in,
		Output:    out,
		AltScreen: !opts.Inline,
	}, closeLog, nil
}
