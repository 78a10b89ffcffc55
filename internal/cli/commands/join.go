package commands

import (
	"errors"
	"math/rand/v2"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/waitlist/internal/cli/output"
	"github.com/leapstack-labs/waitlist/internal/locale"
	"github.com/leapstack-labs/waitlist/internal/waitlist"
)

// JoinOptions holds options for the join command.
type JoinOptions struct {
	NoDelay bool
}

// JoinResult is the machine-readable outcome of a join.
type JoinResult struct {
	Screen  waitlist.Screen `json:"screen"`
	Success bool            `json:"success"`
	FID     int             `json:"fid"`
	Notice  string          `json:"notice,omitempty"`
	Stats   waitlist.Stats  `json:"stats"`
}

// NewJoinCommand creates the join command.
func NewJoinCommand() *cobra.Command {
	opts := &JoinOptions{}

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Submit one waitlist signup without a UI",
		Long: `Run the signup flow once: wait the check delay, submit a verification
record and report whether it was accepted. On success the counters are
refreshed and printed.

The command exits non-zero when the signup ends on the error screen.`,
		Example: `  # Join with the configured delay
  waitlist join

  # Skip the delay and print JSON
  waitlist join --no-delay -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runJoin(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.NoDelay, "no-delay", false, "Submit immediately instead of waiting the check delay")

	return cmd
}

func runJoin(cmd *cobra.Command, opts *JoinOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer
	p := locale.NewPrinter(cfg.LocaleTag())

	api, err := newAPI(cfg, cfg.Endpoint, cmdCtx.Logger)
	if err != nil {
		return err
	}

	fid := rand.IntN(waitlist.MaxRecordID) //nolint:gosec // not security sensitive
	fc := flowConfig(cfg, api, cmdCtx.Logger)
	fc.NewID = func() int { return fid }
	if opts.NoDelay {
		fc.CheckDelay = 0
	}

	textMode := r.EffectiveMode() != output.ModeJSON
	if textMode {
		fc.OnChange = func(s waitlist.Snapshot) {
			if s.Screen == waitlist.ScreenChecking && s.Busy {
				r.Muted(p.Sprintf(locale.MsgCheckingTitle))
			}
		}
	}

	flow := waitlist.New(fc)
	joinErr := flow.Join(cmd.Context())
	if errors.Is(joinErr, waitlist.ErrSubmissionInFlight) {
		return joinErr
	}

	snap := flow.Snapshot()
	res := JoinResult{
		Screen:  snap.Screen,
		Success: snap.Screen == waitlist.ScreenSuccess,
		FID:     fid,
		Stats:   snap.Stats,
	}
	if snap.Notice != nil {
		res.Notice = p.Sprintf(snap.Notice.Message)
	}

	if !textMode {
		if err := r.JSON(res); err != nil {
			return err
		}
		return joinErr
	}

	view := waitlist.Render(snap, p)
	if res.Success {
		r.Success(view.Title + " " + res.Notice)
		r.Muted(view.Lead)
		r.KeyValue(p.Sprintf(locale.MsgTotal), strconv.Itoa(snap.Stats.Total))
		r.KeyValue(p.Sprintf(locale.MsgVerified), strconv.Itoa(snap.Stats.Verified))
		return nil
	}

	r.Error(view.Title + " " + res.Notice)
	r.Muted(view.Lead)
	for _, req := range view.Requirements {
		r.StatusLine(req.Label, "error", "")
	}
	return joinErr
}
