package waitlist

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/leapstack-labs/waitlist/internal/locale"
)

// DefaultCheckDelay is the pause shown on the checking screen before submitting.
const DefaultCheckDelay = 1500 * time.Millisecond

// Config holds the dependencies of a Flow.
type Config struct {
	API API

	// CheckDelay is the UX pause before submitting. Zero disables it.
	CheckDelay time.Duration

	// Identity is put into every submitted record. Defaults to DefaultIdentity.
	Identity Identity

	Logger *slog.Logger

	// OnChange receives a snapshot after every state change. It is called
	// without the flow lock held and must not block for long.
	OnChange func(Snapshot)

	// NewID returns the record id for a submission. Defaults to a random id
	// in [0, MaxRecordID).
	NewID func() int

	// Sleep waits for d or until ctx is done. Defaults to a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Flow is the view state store of one waitlist screen together with the
// actions that mutate it. It is safe for concurrent use.
type Flow struct {
	api      API
	delay    time.Duration
	identity Identity
	logger   *slog.Logger
	onChange func(Snapshot)
	newID    func() int
	sleep    func(ctx context.Context, d time.Duration) error

	mu      sync.Mutex
	version uint64
	screen  Screen
	stats   Stats
	busy    bool
	notice  *Notice
}

// New creates a flow on the welcome screen with zero stats.
func New(cfg Config) *Flow {
	f := &Flow{
		api:      cfg.API,
		delay:    cfg.CheckDelay,
		identity: cfg.Identity,
		logger:   cfg.Logger,
		onChange: cfg.OnChange,
		newID:    cfg.NewID,
		sleep:    cfg.Sleep,
		screen:   ScreenWelcome,
	}
	if f.identity == (Identity{}) {
		f.identity = DefaultIdentity
	}
	if f.logger == nil {
		f.logger = slog.New(slog.DiscardHandler)
	}
	if f.newID == nil {
		f.newID = func() int { return rand.IntN(MaxRecordID) }
	}
	if f.sleep == nil {
		f.sleep = sleepContext
	}
	return f
}

// Snapshot returns the current state.
func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// Join runs one verification submission: it switches to the checking screen,
// waits the check delay, submits a fresh record and lands on success or error.
//
// The returned error wraps ErrNetworkFailure or ErrVerificationRejected when
// the flow ends on the error screen, and is ErrSubmissionInFlight when another
// submission is still running. Join does not stop early when the user goes
// back; its result overwrites whatever screen is showing by then.
func (f *Flow) Join(ctx context.Context) error {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return ErrSubmissionInFlight
	}
	f.busy = true
	f.screen = ScreenChecking
	f.notice = nil
	f.version++
	snap := f.snapshotLocked()
	f.mu.Unlock()
	f.emit(snap)

	defer f.update(func() { f.busy = false })

	if err := f.sleep(ctx, f.delay); err != nil {
		return f.failNetwork(err)
	}

	rec := NewUserRecord(f.newID(), f.identity)
	f.logger.Debug("submitting waitlist record", "fid", rec.ID, "username", rec.Handle)

	res, err := f.api.Submit(ctx, rec)
	if err != nil {
		return f.failNetwork(err)
	}

	if Decide(res, rec) != ScreenSuccess {
		f.logger.Info("waitlist submission rejected", "fid", rec.ID, "success", res.Success)
		f.update(func() {
			f.screen = ScreenError
			f.notice = &Notice{Kind: NoticeError, Message: locale.MsgNoticeRejected}
		})
		return ErrVerificationRejected
	}

	f.logger.Info("waitlist submission accepted", "fid", rec.ID)
	f.update(func() { f.screen = ScreenSuccess })
	_ = f.FetchStats(ctx)
	f.update(func() {
		f.notice = &Notice{Kind: NoticeSuccess, Message: locale.MsgNoticeWelcome}
	})
	return nil
}

// ViewStats switches to the stats screen and refreshes the counters.
// The returned error is the fetch error; the screen changes regardless.
func (f *Flow) ViewStats(ctx context.Context) error {
	f.update(func() {
		f.screen = ScreenStats
		f.notice = nil
	})
	return f.FetchStats(ctx)
}

// FetchStats replaces the counters with the service's current values.
// On failure the counters are left unchanged and the error is only logged
// and returned; no notice is shown.
func (f *Flow) FetchStats(ctx context.Context) error {
	stats, err := f.api.Stats(ctx)
	if err != nil {
		f.logger.Warn("failed to fetch waitlist stats", "error", err)
		return fmt.Errorf("fetch stats: %w", err)
	}
	f.update(func() { f.stats = stats })
	return nil
}

// Back returns to the welcome screen.
func (f *Flow) Back() {
	f.update(func() {
		f.screen = ScreenWelcome
		f.notice = nil
	})
}

// Decide maps a submission response and the submitted record to the next
// screen: success only when the service accepted and both flags are set.
func Decide(res SubmitResult, rec UserRecord) Screen {
	if res.Success && rec.Verified() {
		return ScreenSuccess
	}
	return ScreenError
}

func (f *Flow) failNetwork(cause error) error {
	f.logger.Error("waitlist submission failed", "error", cause)
	f.update(func() {
		f.screen = ScreenError
		f.notice = &Notice{Kind: NoticeError, Message: locale.MsgNoticeNetwork}
	})
	return fmt.Errorf("%w: %w", ErrNetworkFailure, cause)
}

// update applies mutate under the lock and emits the resulting snapshot.
func (f *Flow) update(mutate func()) {
	f.mu.Lock()
	mutate()
	f.version++
	snap := f.snapshotLocked()
	f.mu.Unlock()
	f.emit(snap)
}

func (f *Flow) emit(snap Snapshot) {
	if f.onChange != nil {
		f.onChange(snap)
	}
}

func (f *Flow) snapshotLocked() Snapshot {
	snap := Snapshot{
		Version: f.version,
		Screen:  f.screen,
		Stats:   f.stats,
		Busy:    f.busy,
	}
	if f.notice != nil {
		n := *f.notice
		snap.Notice = &n
	}
	return snap
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
