// Package notifier fans flow snapshots out to subscribed listeners.
package notifier

import (
	"sync"

	"github.com/leapstack-labs/waitlist/internal/waitlist"
)

// Notifier delivers the latest snapshot to every subscriber. A slow listener
// never blocks Publish: if its channel is still holding an older snapshot,
// that snapshot is replaced. Versioned snapshots older than the last one
// published are dropped.
type Notifier struct {
	mu        sync.Mutex
	last      uint64
	listeners map[chan waitlist.Snapshot]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan waitlist.Snapshot]struct{}),
	}
}

// Subscribe returns a channel receiving published snapshots.
// The caller must call Unsubscribe when done.
func (n *Notifier) Subscribe() chan waitlist.Snapshot {
	ch := make(chan waitlist.Snapshot, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan waitlist.Snapshot) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.listeners[ch]; !ok {
		return
	}
	delete(n.listeners, ch)
	close(ch)
}

// Publish sends snap to all listeners, replacing any undelivered snapshot.
// It has the signature of waitlist.Config.OnChange.
func (n *Notifier) Publish(snap waitlist.Snapshot) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if snap.Version != 0 {
		if snap.Version <= n.last {
			return
		}
		n.last = snap.Version
	}

	for ch := range n.listeners {
		select {
		case ch <- snap:
			continue
		default:
		}
		// Drop the stale snapshot; we hold the lock so no other publisher races us.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

// Len returns the number of subscribers.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners)
}
