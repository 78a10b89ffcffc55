package waitlist

import (
	"context"
	"fmt"
)

// Screen identifies which content the flow is showing.
type Screen string

// Screen values.
const (
	ScreenWelcome  Screen = "welcome"
	ScreenChecking Screen = "checking"
	ScreenSuccess  Screen = "success"
	ScreenError    Screen = "error"
	ScreenStats    Screen = "stats"
)

// Screens lists every screen in state machine order.
var Screens = []Screen{ScreenWelcome, ScreenChecking, ScreenSuccess, ScreenError, ScreenStats}

// Valid reports whether s is a known screen.
func (s Screen) Valid() bool {
	for _, known := range Screens {
		if s == known {
			return true
		}
	}
	return false
}

// ParseScreen converts a screen name to a Screen.
func ParseScreen(name string) (Screen, error) {
	s := Screen(name)
	if !s.Valid() {
		return "", fmt.Errorf("unknown screen %q", name)
	}
	return s, nil
}

// Identity is the handle and display name put into every submitted record.
type Identity struct {
	Handle      string
	DisplayName string
}

// DefaultIdentity is the mocked user submitted when none is configured.
var DefaultIdentity = Identity{Handle: "demo_user", DisplayName: "Demo User"}

// MaxRecordID bounds the random record id (exclusive).
const MaxRecordID = 100000

// UserRecord is the payload submitted for verification.
type UserRecord struct {
	ID              int    `json:"fid"`
	Handle          string `json:"username"`
	DisplayName     string `json:"displayName"`
	AccountVerified bool   `json:"verifiedAccount"`
	ChannelVerified bool   `json:"verifiedChannel"`
}

// NewUserRecord builds the record for one submission attempt.
//
// Both verification flags are always set: the client performs no check of its
// own and the remote service decides. The decision rule still evaluates them.
func NewUserRecord(id int, ident Identity) UserRecord {
	return UserRecord{
		ID:              id,
		Handle:          ident.Handle,
		DisplayName:     ident.DisplayName,
		AccountVerified: true,
		ChannelVerified: true,
	}
}

// Verified reports whether both local verification flags are set.
func (r UserRecord) Verified() bool {
	return r.AccountVerified && r.ChannelVerified
}

// Stats holds the aggregate waitlist counters.
type Stats struct {
	Total    int `json:"total"`
	Verified int `json:"verified"`
}

// SubmitResult is the part of the submission response the flow consumes.
type SubmitResult struct {
	Success bool `json:"success"`
}

// API is the remote waitlist service.
type API interface {
	// Submit sends a record and returns the decoded response.
	Submit(ctx context.Context, rec UserRecord) (SubmitResult, error)
	// Stats fetches the aggregate counters.
	Stats(ctx context.Context) (Stats, error)
}

// NoticeKind classifies a notice.
type NoticeKind string

// Notice kinds.
const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a transient message for the user. Message is a locale key.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Snapshot is a point-in-time copy of a flow's state. Version increases with
// every change, so consumers can drop snapshots that arrive out of order.
type Snapshot struct {
	Version uint64
	Screen  Screen
	Stats   Stats
	Busy    bool
	Notice  *Notice
}
