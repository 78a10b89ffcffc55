// Package ui provides the browser front end of the waitlist flow.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	waitlistFeature "github.com/leapstack-labs/waitlist/internal/ui/features/waitlist"
	"github.com/leapstack-labs/waitlist/internal/ui/resources"
	"github.com/leapstack-labs/waitlist/internal/ui/router"
	"github.com/leapstack-labs/waitlist/internal/ui/session"
	"github.com/leapstack-labs/waitlist/internal/waitlist/stubapi"
)

const (
	shutdownTimeout = 5 * time.Second
	reloadDebounce  = 100 * time.Millisecond
)

// Server is the main UI server.
type Server struct {
	registry     *session.Registry
	handlers     *waitlistFeature.Handlers
	sessionStore *sessions.CookieStore
	port         int
	stub         *stubapi.Server
	configFile   string
	watch        bool
	reload       func() (session.FlowFactory, error)
	onReady      func(url string)
	logger       *slog.Logger
}

// Config holds configuration for the UI server.
type Config struct {
	// Factory builds the flow of every new browser session.
	Factory session.FlowFactory

	Port   int
	Locale language.Tag

	SessionSecret string

	// SessionIdle is how long an unused session is kept. Zero keeps
	// sessions for the life of the process.
	SessionIdle time.Duration

	// Stub, when set, is served at router.StubMountPath.
	Stub *stubapi.Server

	// Watch reloads the flow factory when ConfigFile changes.
	Watch      bool
	ConfigFile string
	Reload     func() (session.FlowFactory, error)

	// OnReady is called with the base URL once the listener is open.
	OnReady func(url string)

	Logger *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	registry := session.NewRegistry(session.Config{
		Factory: cfg.Factory,
		Idle:    cfg.SessionIdle,
		Logger:  logger,
	})

	return &Server{
		registry:     registry,
		handlers:     waitlistFeature.NewHandlers(registry, sessionStore, cfg.Locale, logger),
		sessionStore: sessionStore,
		port:         cfg.Port,
		stub:         cfg.Stub,
		configFile:   cfg.ConfigFile,
		watch:        cfg.Watch,
		reload:       cfg.Reload,
		onReady:      cfg.OnReady,
		logger:       logger,
	}
}

// Handler returns the fully routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	router.SetupRoutes(r, router.Deps{
		Waitlist: s.handlers,
		Stub:     s.stub,
		IsDev:    resources.Dev,
	})
	return r
}

// Registry returns the server's session registry.
func (s *Server) Registry() *session.Registry {
	return s.registry
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", s.port, err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	port := ln.Addr().(*net.TCPAddr).Port
	url := fmt.Sprintf("http://localhost:%d", port)
	s.logger.Info("starting UI server", "addr", url, "stub", s.stub != nil)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch && s.configFile != "" && s.reload != nil {
		eg.Go(func() error {
			return s.watchConfig(egctx)
		})
	}

	eg.Go(func() error {
		return s.registry.Run(egctx)
	})

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return s.waitActions(shutdownCtx)
	})

	if s.onReady != nil {
		s.onReady(url)
	}

	return eg.Wait()
}

// waitActions waits for running flow actions until ctx expires.
func (s *Server) waitActions(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.handlers.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.logger.Warn("flow actions still running at shutdown")
		return nil
	}
}

// watchConfig swaps the flow factory when the config file changes. Sessions
// created afterwards use the new endpoint and delay; existing ones keep theirs.
func (s *Server) watchConfig(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors often replace the file instead of writing it.
	target := filepath.Clean(s.configFile)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		s.logger.Error("failed to watch config file", "file", target, "error", err)
		<-ctx.Done()
		return nil
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(reloadDebounce, s.reloadFactory)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

func (s *Server) reloadFactory() {
	factory, err := s.reload()
	if err != nil {
		s.logger.Error("config reload failed, keeping previous settings", "file", s.configFile, "error", err)
		return
	}
	s.registry.SetFactory(factory)
	s.logger.Info("config reloaded", "file", s.configFile)
}
