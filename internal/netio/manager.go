// Package netio owns the single TCP connection of spec §4.3 "Connection
// manager": connect, pipeline assembly, the background receive loop, and
// single-writer send serialization.
//
// Grounded on the teacher's internal/gameserver/client.go (write lock,
// atomic connection state, closeCh/closeOnce shutdown) and
// internal/testutil/gsclient.go (net.DialTimeout dial shape) — inverted
// from "accept a client" to "dial a server". The receive loop's lifecycle
// is supervised by golang.org/x/sync/errgroup instead of the teacher's
// raw sync.WaitGroup, since this manager runs exactly one connection whose
// receive loop must stop when Disconnect cancels it (SPEC_FULL.md §B.1).
// The receive loop is the only goroutine in the group; the movement
// ticket's timeout is checked lazily by movement.Ticket, not by a goroutine.
package netio

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xulek/muonline-console-client/internal/crypto"
	"github.com/xulek/muonline-console-client/internal/wire"
)

// ErrAlreadyConnected is returned by Connect when a socket is already
// active (spec §4.3 "Invariant: at most one active socket per manager").
var ErrAlreadyConnected = errors.New("netio: already connected")

// ErrNotConnected is returned by Send when no socket is active.
var ErrNotConnected = errors.New("netio: not connected")

const dialTimeout = 5 * time.Second

// FrameHandler is invoked once per decoded frame, on the receive-loop
// goroutine only (spec §5 "single-threaded cooperative per logical
// connection").
type FrameHandler func(wire.Frame)

// DisconnectHandler is invoked exactly once when the connection ends, for
// any reason (graceful Disconnect, transport error, or framing/crypto
// failure).
type DisconnectHandler func(err error)

// Manager owns at most one active net.Conn plus its encryption pipeline.
type Manager struct {
	onFrame      FrameHandler
	onDisconnect DisconnectHandler
	bufferSize   int

	mu        sync.Mutex // serializes Send (spec §4.3 "single-writer serialization")
	conn      net.Conn
	pipeline  *crypto.Pipeline
	connected atomic.Bool

	cancel context.CancelFunc
	group  *errgroup.Group
}

// New returns an idle Manager. onFrame is called for every successfully
// decoded, decrypted frame; onDisconnect is called once when the
// connection ends.
func New(onFrame FrameHandler, onDisconnect DisconnectHandler, bufferSize int) *Manager {
	if bufferSize <= 0 {
		bufferSize = 8192
	}
	return &Manager{onFrame: onFrame, onDisconnect: onDisconnect, bufferSize: bufferSize}
}

// Connected reports whether a socket is currently active.
func (m *Manager) Connected() bool {
	return m.connected.Load()
}

// Connect dials host:port and, once the socket is writable, starts a
// background receive loop. pipeline may be crypto.NewDisabledPipeline()
// for Connect-Server connections (spec §4.2 "Connect Server: disabled").
func (m *Manager) Connect(ctx context.Context, host string, port int, pipeline *crypto.Pipeline) error {
	if m.connected.Load() {
		return ErrAlreadyConnected
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return fmt.Errorf("netio: dial %s: %w", addr, err)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	group, loopCtx := errgroup.WithContext(loopCtx)

	m.mu.Lock()
	m.conn = conn
	m.pipeline = pipeline
	m.cancel = cancel
	m.group = group
	m.mu.Unlock()
	m.connected.Store(true)

	group.Go(func() error {
		return m.receiveLoop(loopCtx, conn)
	})

	slog.Info("connected", "addr", addr, "encrypted", pipeline.Enabled())
	return nil
}

// Disconnect cancels the receive loop, closes the socket, and transitions
// the manager back to idle (spec §4.3 "disconnect()"). Safe to call when
// not connected.
func (m *Manager) Disconnect() error {
	m.mu.Lock()
	conn := m.conn
	cancel := m.cancel
	group := m.group
	m.mu.Unlock()

	if conn == nil {
		return nil
	}

	if cancel != nil {
		cancel()
	}
	closeErr := conn.Close()
	if group != nil {
		_ = group.Wait()
	}

	m.mu.Lock()
	m.conn = nil
	m.pipeline = nil
	m.cancel = nil
	m.group = nil
	m.mu.Unlock()
	m.connected.Store(false)

	if closeErr != nil && !errors.Is(closeErr, net.ErrClosed) {
		return fmt.Errorf("netio: close: %w", closeErr)
	}
	return nil
}

// Send serializes frame on the single writer lock and writes it whole to
// the socket (spec §4.3 "send(fn write_into_buffer)").
func (m *Manager) Send(frame []byte) error {
	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := conn.Write(frame); err != nil {
		return fmt.Errorf("netio: write: %w", err)
	}
	return nil
}

// receiveLoop reads length-prefixed frames until ctx is cancelled or the
// connection errors (spec §4.1 "Decoding"). Framing/crypto failures
// terminate the loop (spec §7); per-frame handler errors do not (that is
// the router's responsibility, invoked via onFrame).
func (m *Manager) receiveLoop(ctx context.Context, conn net.Conn) error {
	reader := bufio.NewReaderSize(conn, m.bufferSize)
	var pending []byte
	readBuf := make([]byte, m.bufferSize)

	var loopErr error
	defer func() {
		if m.onDisconnect != nil {
			m.onDisconnect(loopErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, err := reader.Read(readBuf)
		if n > 0 {
			pending = append(pending, readBuf[:n]...)
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			loopErr = fmt.Errorf("netio: read: %w", err)
			return loopErr
		}

		for {
			length, _, ok, perr := wire.PeekLength(pending)
			if perr != nil {
				loopErr = fmt.Errorf("netio: malformed frame: %w", perr)
				return loopErr
			}
			if !ok {
				break
			}

			raw := pending[:length]
			pending = pending[length:]

			frame, derr := wire.Decode(raw)
			if derr != nil {
				loopErr = fmt.Errorf("netio: decode: %w", derr)
				return loopErr
			}

			m.mu.Lock()
			pipeline := m.pipeline
			m.mu.Unlock()

			if pipeline != nil && pipeline.Enabled() && wire.IsEncryptedType(frame.Type) {
				decoded, cerr := pipeline.DecodeInbound(frame.Body, -1)
				if cerr != nil {
					loopErr = fmt.Errorf("netio: decrypt: %w", cerr)
					return loopErr
				}
				frame.Body = decoded
			}

			if m.onFrame != nil {
				m.onFrame(frame)
			}
		}
	}
}
