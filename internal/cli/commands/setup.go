package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/waitlist/internal/cli/config"
	"github.com/leapstack-labs/waitlist/internal/cli/output"
	"github.com/leapstack-labs/waitlist/internal/ui/session"
	"github.com/leapstack-labs/waitlist/internal/waitlist"
	"github.com/leapstack-labs/waitlist/internal/waitlist/client"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the loaded config, the context logger and a
// renderer for the configured output mode.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// getConfig returns the current configuration, or the validated defaults
// when none was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	cfg, err := config.LoadConfig("", nil)
	if err != nil {
		// Defaults always validate; a broken environment variable is reported
		// by the root command before we get here.
		return &config.Config{
			Endpoint:     config.DefaultEndpoint,
			Locale:       config.DefaultLocale,
			OutputFormat: config.DefaultOutput,
			Identity:     config.IdentityConfig{Handle: waitlist.DefaultIdentity.Handle, DisplayName: waitlist.DefaultIdentity.DisplayName},
			UI:           config.UIConfig{Port: config.DefaultUIPort, SessionSecret: config.DevSessionSecret},
			Stub:         config.StubConfig{Port: config.DefaultStubPort},
		}
	}
	return cfg
}

// newAPI creates the endpoint client for cfg, pointed at endpoint.
func newAPI(cfg *config.Config, endpoint string, logger *slog.Logger) (*client.Client, error) {
	c, err := client.New(client.Config{
		Endpoint: endpoint,
		Timeout:  cfg.RequestTimeout,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return c, nil
}

// flowConfig returns the flow settings derived from cfg.
func flowConfig(cfg *config.Config, api waitlist.API, logger *slog.Logger) waitlist.Config {
	return waitlist.Config{
		API:        api,
		CheckDelay: cfg.CheckDelay,
		Identity:   cfg.WaitlistIdentity(),
		Logger:     logger,
	}
}

// newFlowFactory returns a factory building flows against endpoint.
func newFlowFactory(cfg *config.Config, endpoint string, logger *slog.Logger) (session.FlowFactory, error) {
	api, err := newAPI(cfg, endpoint, logger)
	if err != nil {
		return nil, err
	}
	base := flowConfig(cfg, api, logger)
	return func(onChange func(waitlist.Snapshot)) *waitlist.Flow {
		fc := base
		fc.OnChange = onChange
		return waitlist.New(fc)
	}, nil
}
