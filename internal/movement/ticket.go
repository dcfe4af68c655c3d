// Package movement implements the single-slot movement ticket of spec §3
// "Movement ticket" / §4.6 "Movement ticket protocol": at most one
// outstanding client-initiated walk or teleport may be in flight at a
// time, held until a confirming server packet arrives or a timeout
// elapses.
//
// No teacher file models this directly (SPEC_FULL.md module map); the
// shape is grounded on the teacher's sync/atomic field discipline seen
// throughout internal/model (e.g. player.go's lastAttackTime atomic.Int64,
// player_movement.go's mutex-guarded position pair) — a single mutex
// guarding a held flag and a deadline, rather than introducing a new
// concurrency primitive.
package movement

import (
	"sync"
	"time"
)

const defaultTimeout = 1000 * time.Millisecond

// Ticket is a single-slot permit: Acquire succeeds only when no ticket is
// currently held (and not yet timed out); Release clears it unconditionally.
type Ticket struct {
	mu       sync.Mutex
	held     bool
	deadline time.Time
	timeout  time.Duration
}

// NewTicket returns an unheld ticket with the given timeout. A timeout of
// zero uses the spec's recommended default of 1000ms.
func NewTicket(timeout time.Duration) *Ticket {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Ticket{timeout: timeout}
}

// Acquire attempts to take the ticket, reporting success. Per the Open
// Question resolution in spec §9(c), callers MUST acquire before placing
// the corresponding send on the wire — never after.
func (t *Ticket) Acquire() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.held && !t.expiredLocked() {
		return false
	}
	t.held = true
	t.deadline = time.Now().Add(t.timeout)
	return true
}

// Release clears the ticket unconditionally. Safe to call when not held.
func (t *Ticket) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.held = false
}

// Held reports whether a ticket is currently outstanding, treating an
// expired ticket as released (lazy timeout — spec §4.6 "or after a fixed
// timeout").
func (t *Ticket) Held() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.held && t.expiredLocked() {
		t.held = false
		return false
	}
	return t.held
}

// expiredLocked reports whether the current hold has passed its deadline.
// Caller must hold t.mu.
func (t *Ticket) expiredLocked() bool {
	return !t.deadline.IsZero() && time.Now().After(t.deadline)
}
