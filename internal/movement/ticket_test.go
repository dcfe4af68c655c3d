package movement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAcquireIsSingleSlot(t *testing.T) {
	tk := NewTicket(time.Second)
	assert.True(t, tk.Acquire())
	assert.False(t, tk.Acquire(), "second acquire while held must fail")
	assert.True(t, tk.Held())
}

func TestReleaseClearsTicket(t *testing.T) {
	tk := NewTicket(time.Second)
	tk.Acquire()
	tk.Release()
	assert.False(t, tk.Held())
	assert.True(t, tk.Acquire(), "ticket must be re-acquirable after release")
}

func TestWalkTicketReleaseSequence(t *testing.T) {
	// Scenario 5 (spec §8): WalkRequest acquires the ticket; ObjectWalked
	// with step_count > 0 does not release it; a later ObjectMoved does.
	tk := NewTicket(time.Second)
	require := assert.New(t)

	require.True(tk.Acquire())
	// simulate ObjectWalked with step_count=3: ticket stays held
	require.True(tk.Held())
	// simulate ObjectMoved: handler releases the ticket
	tk.Release()
	require.False(tk.Held())
}

func TestTicketExpiresAfterTimeout(t *testing.T) {
	tk := NewTicket(10 * time.Millisecond)
	assert.True(t, tk.Acquire())
	time.Sleep(20 * time.Millisecond)
	assert.False(t, tk.Held(), "ticket must auto-release after its timeout elapses")
	assert.True(t, tk.Acquire())
}
