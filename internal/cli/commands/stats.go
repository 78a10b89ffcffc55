package commands

import (
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/message"

	"github.com/leapstack-labs/waitlist/internal/cli/output"
	"github.com/leapstack-labs/waitlist/internal/locale"
	"github.com/leapstack-labs/waitlist/internal/waitlist"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show waitlist participant counts",
		Long: `Fetch the current participant counters from the waitlist endpoint.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown table (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # Show counters
  waitlist stats

  # Counters as JSON
  waitlist stats -o json

  # Against another endpoint
  waitlist stats --endpoint http://localhost:8766`,
		RunE: runStats,
	}
}

func runStats(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd)

	api, err := newAPI(cmdCtx.Cfg, cmdCtx.Cfg.Endpoint, cmdCtx.Logger)
	if err != nil {
		return err
	}

	stats, err := api.Stats(cmd.Context())
	if err != nil {
		return err
	}

	return renderStats(cmdCtx.Renderer, stats, locale.NewPrinter(cmdCtx.Cfg.LocaleTag()))
}

func renderStats(r *output.Renderer, stats waitlist.Stats, p *message.Printer) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(stats)
	}

	r.Header(1, p.Sprintf(locale.MsgStatsTitle))
	r.Table(
		[]string{p.Sprintf(locale.MsgMetric), p.Sprintf(locale.MsgCount)},
		[][]string{
			{p.Sprintf(locale.MsgTotal), strconv.Itoa(stats.Total)},
			{p.Sprintf(locale.MsgVerified), strconv.Itoa(stats.Verified)},
		},
	)
	return nil
}
