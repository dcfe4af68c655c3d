package netio

import (
	"context"
	"time"

	"github.com/xulek/muonline-console-client/internal/crypto"
)

// RetryDialer wraps a Manager's Connect with a capped-exponential-backoff
// retry loop (spec §7 "reconnect policy is left to the caller"; supplemented
// per SPEC_FULL.md §C). It is grounded on the teacher's accept-retry loop
// in cmd/gameserver (a bare `for { ... if err { continue } }`), generalized
// here with backoff since a client redialing a remote host — unlike a
// server accepting local sockets — should not hammer it on every failure.
//
// RetryDialer is OFF by default: callers that want plain Connect semantics
// just call Manager.Connect directly.
type RetryDialer struct {
	Manager    *Manager
	MinBackoff time.Duration
	MaxBackoff time.Duration
}

// NewRetryDialer returns a RetryDialer with sensible defaults (250ms min,
// 10s max backoff).
func NewRetryDialer(m *Manager) *RetryDialer {
	return &RetryDialer{Manager: m, MinBackoff: 250 * time.Millisecond, MaxBackoff: 10 * time.Second}
}

// DialUntilConnected retries Connect with capped exponential backoff until
// it succeeds or ctx is cancelled.
func (d *RetryDialer) DialUntilConnected(ctx context.Context, host string, port int, pipeline *crypto.Pipeline) error {
	backoff := d.MinBackoff
	if backoff <= 0 {
		backoff = 250 * time.Millisecond
	}
	maxBackoff := d.MaxBackoff
	if maxBackoff <= 0 {
		maxBackoff = 10 * time.Second
	}

	for {
		err := d.Manager.Connect(ctx, host, port, pipeline)
		if err == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}
