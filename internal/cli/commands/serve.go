package commands

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/waitlist/internal/cli/config"
	"github.com/leapstack-labs/waitlist/internal/ui"
	"github.com/leapstack-labs/waitlist/internal/ui/router"
	"github.com/leapstack-labs/waitlist/internal/ui/session"
	"github.com/leapstack-labs/waitlist/internal/waitlist/stubapi"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	NoBrowser bool
	Stub      bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the waitlist web UI",
		Long: `Start a local web server presenting the waitlist signup screens.

Every browser gets its own flow, bound by a session cookie. Screen changes
are pushed to the page over a server-sent event stream.

With --stub the server also hosts an in-memory copy of the waitlist endpoint
and points the flows at it, so the whole signup works offline.`,
		Example: `  # Start UI on default port
  waitlist serve

  # Start on custom port without opening a browser
  waitlist serve --port 3000 --no-browser

  # Work offline against the built-in stub
  waitlist serve --stub

  # Pick up endpoint and delay changes from waitlist.yaml
  waitlist serve --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Stub, "stub", false, "Serve an in-memory stub endpoint and use it")
	cmd.Flags().Bool("watch", false, "Reload endpoint and delay when the config file changes")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	logger := cmdCtx.Logger
	r := cmdCtx.Renderer

	// CLI flags override config file
	port := cfg.UI.Port
	if opts.Port != 0 {
		port = opts.Port
	}
	autoOpen := cfg.UI.AutoOpen && !opts.NoBrowser

	var stub *stubapi.Server
	endpointFor := func(c *config.Config) string { return c.Endpoint }
	if opts.Stub {
		stub = stubapi.New(logger)
		stubEndpoint := fmt.Sprintf("http://localhost:%d%s", port, router.StubMountPath)
		endpointFor = func(*config.Config) string { return stubEndpoint }
	}

	factory, err := newFlowFactory(cfg, endpointFor(cfg), logger)
	if err != nil {
		return err
	}

	configFile := config.GetConfigFileUsed()
	if cfg.UI.Watch && configFile == "" {
		r.Muted("No config file found; --watch has nothing to watch")
	}

	server := ui.NewServer(ui.Config{
		Factory:       factory,
		Port:          port,
		Locale:        cfg.LocaleTag(),
		SessionSecret: cfg.UI.SessionSecret,
		SessionIdle:   cfg.UI.SessionIdle,
		Stub:          stub,
		Watch:         cfg.UI.Watch,
		ConfigFile:    configFile,
		Reload: func() (session.FlowFactory, error) {
			next, err := config.LoadConfig(configFile, cmd.Flags())
			if err != nil {
				return nil, err
			}
			return newFlowFactory(next, endpointFor(next), logger)
		},
		OnReady: func(url string) {
			r.Printf("Starting UI server on %s\n", url)
			r.Println("Press Ctrl+C to stop")
			if autoOpen {
				go openBrowser(url)
			}
		},
		Logger: logger,
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return server.Serve(ctx)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
