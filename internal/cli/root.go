// Package cli provides the command-line interface for the waitlist flow.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/waitlist/internal/cli/commands"
	"github.com/leapstack-labs/waitlist/internal/cli/config"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "waitlist",
		Short: "waitlist - exclusive waitlist signup frame",
		Long: `waitlist runs a small signup flow: a visitor asks to join, the request
is checked against the waitlist endpoint, and the outcome and participant
counters are shown.

The flow is available as a web UI (serve), a terminal UI (tui) and as
one-shot commands (join, stats).`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, config.LoggerKey(), logger))

			// Print config file used (if verbose)
			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					logger.Debug("using config file", "file", configFile)
				}
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./waitlist.yaml)")
	rootCmd.PersistentFlags().String("endpoint", "", "Waitlist endpoint URL")
	rootCmd.PersistentFlags().String("locale", "", "Display language (ru|en)")
	rootCmd.PersistentFlags().Duration("delay", 0, "Pause on the checking screen before submitting (default: 1.5s)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Per-request timeout (0 for none)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json)")

	// Register completion for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.OutputFormats, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("locale", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"ru", "en"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewTUICommand())
	rootCmd.AddCommand(commands.NewJoinCommand())
	rootCmd.AddCommand(commands.NewStatsCommand())
	rootCmd.AddCommand(commands.NewStubCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for waitlist.

To load completions:

Bash:
  $ source <(waitlist completion bash)

Zsh:
  $ waitlist completion zsh > "${fpath[1]}/_waitlist"

Fish:
  $ waitlist completion fish | source

PowerShell:
  PS> waitlist completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
