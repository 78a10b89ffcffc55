package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/waitlist/internal/waitlist/stubapi"
)

// StubOptions holds options for the stub command.
type StubOptions struct {
	Port int
}

// NewStubCommand creates the stub command.
func NewStubCommand() *cobra.Command {
	opts := &StubOptions{}

	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Run an in-memory waitlist endpoint",
		Long: `Serve a local stand-in for the remote waitlist endpoint.

GET returns the participant counters, POST upserts a record by fid. Records
live in memory and are lost on exit.`,
		Example: `  # Serve on the default port
  waitlist stub

  # Point another session at it
  waitlist stats --endpoint http://localhost:8766`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStub(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8766)")

	return cmd
}

func runStub(cmd *cobra.Command, opts *StubOptions) error {
	cmdCtx := NewCommandContext(cmd)
	logger := cmdCtx.Logger

	port := cmdCtx.Cfg.Stub.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	stub := stubapi.New(logger)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           middleware.Logger(stub.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, egctx := errgroup.WithContext(cmd.Context())

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Debug("shutting down stub server...")
		return srv.Shutdown(shutdownCtx)
	})

	cmdCtx.Renderer.Printf("Stub endpoint listening on http://localhost:%d\n", port)
	logger.Info("stub endpoint started", "port", port)

	return eg.Wait()
}
