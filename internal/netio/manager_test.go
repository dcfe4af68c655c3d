package netio

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xulek/muonline-console-client/internal/crypto"
	"github.com/xulek/muonline-console-client/internal/wire"
)

// listenerPair starts a TCP listener on loopback and returns its address
// plus a channel delivering each accepted server-side conn, mirroring the
// teacher's testutil dial-and-speak harness (internal/testutil/gsclient.go)
// but from the accept side, since this package plays the client role.
func listenerPair(t *testing.T) (addr string, accepted <-chan net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	ch := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			ch <- conn
		}
	}()
	return ln.Addr().String(), ch
}

func TestConnectAndReceiveUnencryptedFrame(t *testing.T) {
	addr, accepted := listenerPair(t)
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	frames := make(chan wire.Frame, 1)
	m := New(func(f wire.Frame) { frames <- f }, func(error) {}, 4096)

	require.NoError(t, m.Connect(context.Background(), host, port, crypto.NewDisabledPipeline()))
	assert.True(t, m.Connected())

	serverConn := <-accepted
	defer serverConn.Close()

	encoded, err := wire.EncodeWithSub(wire.TypeC1, 0xF3, true, 0x00, []byte{0x01, 'A', 'D', 'M'})
	require.NoError(t, err)
	_, err = serverConn.Write(encoded)
	require.NoError(t, err)

	select {
	case f := <-frames:
		assert.Equal(t, byte(0xF3), f.Main)
		assert.Equal(t, []byte{0x00, 0x01, 'A', 'D', 'M'}, f.Body)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
	}

	require.NoError(t, m.Disconnect())
	assert.False(t, m.Connected())
}

func TestConnectTwiceFails(t *testing.T) {
	addr, _ := listenerPair(t)
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	m := New(func(wire.Frame) {}, func(error) {}, 4096)
	require.NoError(t, m.Connect(context.Background(), host, port, crypto.NewDisabledPipeline()))
	defer m.Disconnect()

	err = m.Connect(context.Background(), host, port, crypto.NewDisabledPipeline())
	assert.ErrorIs(t, err, ErrAlreadyConnected)
}

func TestSendWithoutConnectionFails(t *testing.T) {
	m := New(func(wire.Frame) {}, func(error) {}, 4096)
	err := m.Send([]byte{0x01})
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestDisconnectWithoutConnectionIsNoop(t *testing.T) {
	m := New(func(wire.Frame) {}, func(error) {}, 4096)
	assert.NoError(t, m.Disconnect())
}
