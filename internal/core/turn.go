package core

import (
	"sync"
	"sync/atomic"
	"time"
)

// StaleAfter is how long a turn may go without a text fragment before a
// new commit is allowed to cancel it. The upstream engine serializes turns
// per connection; a stalled turn must not wedge the speaker forever.
const StaleAfter = 800 * time.Millisecond

// Admission is the tracker's verdict on a commit request.
type Admission int

const (
	// AdmitStart: no turn in flight, start one.
	AdmitStart Admission = iota
	// AdmitCancelFirst: the active turn went stale; send a cancel
	// directive upstream, then start the new turn.
	AdmitCancelFirst
	// AdmitReject: a turn is active and still producing; skip silently.
	AdmitReject
)

// TurnTracker is the per-session turn state machine. The active flag and
// last-fragment timestamp are written by the upstream-inbound loop and read
// by the client-inbound loop, which is why they are an atomic and a
// mutex-guarded cell rather than plain fields.
type TurnTracker struct {
	active atomic.Bool

	mu           sync.Mutex
	lastFragment time.Time
}

func NewTurnTracker() *TurnTracker {
	return &TurnTracker{}
}

// StartTurn marks a turn in flight and resets the fragment clock.
func (t *TurnTracker) StartTurn() {
	t.touch()
	t.active.Store(true)
}

// Fragment records a received text fragment for the active turn.
func (t *TurnTracker) Fragment() {
	t.touch()
}

// Finish returns the tracker to idle on a terminal upstream event.
func (t *TurnTracker) Finish() {
	t.active.Store(false)
}

func (t *TurnTracker) Active() bool {
	return t.active.Load()
}

// SinceLastFragment reports elapsed time since the last fragment (or turn
// start, whichever came later).
func (t *TurnTracker) SinceLastFragment() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Since(t.lastFragment)
}

// AdmitCommit decides whether a new commit may proceed. On AdmitCancelFirst
// the tracker has already transitioned to idle; the caller must emit the
// cancel directive upstream before starting the new turn.
func (t *TurnTracker) AdmitCommit() Admission {
	if !t.active.Load() {
		return AdmitStart
	}
	if t.SinceLastFragment() > StaleAfter {
		t.active.Store(false)
		return AdmitCancelFirst
	}
	return AdmitReject
}

func (t *TurnTracker) touch() {
	t.mu.Lock()
	t.lastFragment = time.Now()
	t.mu.Unlock()
}
