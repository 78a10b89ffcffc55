package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/waitlist/internal/waitlist"
)

type staticAPI struct{}

func (staticAPI) Submit(context.Context, waitlist.UserRecord) (waitlist.SubmitResult, error) {
	return waitlist.SubmitResult{Success: true}, nil
}

func (staticAPI) Stats(context.Context) (waitlist.Stats, error) {
	return waitlist.Stats{Total: 1, Verified: 1}, nil
}

func testFactory(onChange func(waitlist.Snapshot)) *waitlist.Flow {
	return waitlist.New(waitlist.Config{API: staticAPI{}, OnChange: onChange})
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestRegistry_GetOrCreate(t *testing.T) {
	r := NewRegistry(Config{Factory: testFactory})

	_, ok := r.Get("a")
	assert.False(t, ok)

	s1 := r.GetOrCreate("a")
	s2 := r.GetOrCreate("a")
	require.Same(t, s1, s2)
	assert.Equal(t, "a", s1.ID)
	assert.Equal(t, 1, r.Len())

	got, ok := r.Get("a")
	require.True(t, ok)
	assert.Same(t, s1, got)
}

func TestRegistry_FlowPublishesToSessionNotifier(t *testing.T) {
	r := NewRegistry(Config{Factory: testFactory})
	s := r.GetOrCreate("a")

	ch := s.Notifier.Subscribe()
	defer s.Notifier.Unsubscribe(ch)

	s.Flow.Back()

	select {
	case snap := <-ch:
		assert.Equal(t, waitlist.ScreenWelcome, snap.Screen)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("no snapshot published")
	}
}

func TestRegistry_SetFactory(t *testing.T) {
	calls := 0
	r := NewRegistry(Config{Factory: testFactory})
	old := r.GetOrCreate("old")

	r.SetFactory(func(onChange func(waitlist.Snapshot)) *waitlist.Flow {
		calls++
		return testFactory(onChange)
	})

	assert.Same(t, old, r.GetOrCreate("old"))
	r.GetOrCreate("new")
	assert.Equal(t, 1, calls)
}

func TestRegistry_Sweep(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
	r := NewRegistry(Config{Factory: testFactory, Idle: 10 * time.Minute, Now: clock.now})

	r.GetOrCreate("stale")
	watched := r.GetOrCreate("watched")
	ch := watched.Notifier.Subscribe()
	defer watched.Notifier.Unsubscribe(ch)

	clock.t = clock.t.Add(9 * time.Minute)
	r.GetOrCreate("fresh")

	clock.t = clock.t.Add(2 * time.Minute)
	removed := r.Sweep()

	assert.Equal(t, 1, removed)
	_, ok := r.Get("stale")
	assert.False(t, ok, "idle session removed")
	_, ok = r.Get("watched")
	assert.True(t, ok, "session with a live stream kept")
	_, ok = r.Get("fresh")
	assert.True(t, ok, "recent session kept")
}

func TestRegistry_Sweep_Disabled(t *testing.T) {
	r := NewRegistry(Config{Factory: testFactory})
	r.GetOrCreate("a")
	assert.Equal(t, 0, r.Sweep())
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Run_StopsOnCancel(t *testing.T) {
	r := NewRegistry(Config{Factory: testFactory, Idle: time.Minute})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}
