// Package session binds browser sessions to their waitlist flows.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/leapstack-labs/waitlist/internal/ui/notifier"
	"github.com/leapstack-labs/waitlist/internal/waitlist"
)

// FlowFactory builds a flow that reports its changes to onChange.
type FlowFactory func(onChange func(waitlist.Snapshot)) *waitlist.Flow

// Session is one browser's flow and the notifier its update streams listen on.
type Session struct {
	ID       string
	Flow     *waitlist.Flow
	Notifier *notifier.Notifier

	lastSeen time.Time
}

// Registry holds the live sessions.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	factory  FlowFactory
	idle     time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// Config holds configuration for a Registry.
type Config struct {
	Factory FlowFactory

	// Idle is how long a session may go unused before Sweep removes it.
	// Zero keeps sessions forever.
	Idle time.Duration

	Logger *slog.Logger

	// Now overrides the clock.
	Now func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg Config) *Registry {
	r := &Registry{
		sessions: make(map[string]*Session),
		factory:  cfg.Factory,
		idle:     cfg.Idle,
		now:      cfg.Now,
		logger:   cfg.Logger,
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	return r
}

// Get returns the session for id and marks it as used.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if ok {
		s.lastSeen = r.now()
	}
	return s, ok
}

// GetOrCreate returns the session for id, creating it with a fresh flow on
// first use.
func (r *Registry) GetOrCreate(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		s.lastSeen = r.now()
		return s
	}

	n := notifier.New()
	s := &Session{
		ID:       id,
		Flow:     r.factory(n.Publish),
		Notifier: n,
		lastSeen: r.now(),
	}
	r.sessions[id] = s
	r.logger.Debug("session created", "session", id)
	return s
}

// SetFactory replaces the factory used for sessions created from now on.
// Existing sessions keep their flows.
func (r *Registry) SetFactory(f FlowFactory) {
	r.mu.Lock()
	r.factory = f
	r.mu.Unlock()
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep removes sessions idle for longer than the configured limit. Sessions
// with connected update streams or a submission in flight are kept.
func (r *Registry) Sweep() int {
	if r.idle <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.idle)
	removed := 0
	for id, s := range r.sessions {
		if s.lastSeen.After(cutoff) || s.Notifier.Len() > 0 || s.Flow.Snapshot().Busy {
			continue
		}
		delete(r.sessions, id)
		removed++
	}
	if removed > 0 {
		r.logger.Debug("swept idle sessions", "removed", removed, "remaining", len(r.sessions))
	}
	return removed
}

// Run sweeps periodically until ctx is cancelled.
func (r *Registry) Run(ctx context.Context) error {
	if r.idle <= 0 {
		<-ctx.Done()
		return nil
	}

	interval := r.idle / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Sweep()
		}
	}
}
