package client

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xulek/muonline-console-client/internal/config"
	"github.com/xulek/muonline-console-client/internal/crypto"
	"github.com/xulek/muonline-console-client/internal/fsm"
	"github.com/xulek/muonline-console-client/internal/wire"
)

// readFrame reads exactly one length-prefixed frame off r, blocking until
// the header and body are available.
func readFrame(r *bufio.Reader) (wire.Frame, error) {
	head, err := r.Peek(1)
	if err != nil {
		return wire.Frame{}, err
	}
	headerSize, err := wire.HeaderSize(head[0])
	if err != nil {
		return wire.Frame{}, err
	}
	hdr, err := r.Peek(headerSize)
	if err != nil {
		return wire.Frame{}, err
	}
	length, _, ok, err := wire.PeekLength(hdr)
	if err != nil {
		return wire.Frame{}, err
	}
	if !ok {
		return wire.Frame{}, err
	}
	buf := make([]byte, length)
	if _, err := readFull(r, buf); err != nil {
		return wire.Frame{}, err
	}
	return wire.Decode(buf)
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// fakeConnectServer accepts one connection, replies to ServerListRequest
// with one entry, then to ConnectionInfoRequest with gameAddr's host/port,
// modeling the Connect-Server leg of the handover (spec §5).
func fakeConnectServer(t *testing.T, gameHost string, gamePort int) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() {
		defer ln.Close()
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		reader := bufio.NewReader(conn)

		hello, err := wire.EncodeWithSub(wire.TypeC1, 0x00, true, 0x00, nil)
		if err != nil {
			return
		}
		if _, err := conn.Write(hello); err != nil {
			return
		}

		if _, err := readFrame(reader); err != nil {
			return
		}
		listResp, err := wire.EncodeWithSub(wire.TypeC1, 0xF4, true, 0x06, []byte{0x01, 0x00, 0x01, 0x00, 10})
		if err != nil {
			return
		}
		if _, err := conn.Write(listResp); err != nil {
			return
		}

		if _, err := readFrame(reader); err != nil {
			return
		}
		ipBytes := net.ParseIP(gameHost).To4()
		body := append([]byte{}, ipBytes...)
		body = append(body, byte(gamePort), byte(gamePort>>8))
		infoResp, err := wire.EncodeWithSub(wire.TypeC1, 0xF4, true, 0x03, body)
		if err != nil {
			return
		}
		_, _ = conn.Write(infoResp)
	}()

	return ln.Addr().String()
}

func TestConnectGameServerHandoverReachesConnectedToGameServer(t *testing.T) {
	gameLn, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer gameLn.Close()

	gameHost, gamePortStr, err := net.SplitHostPort(gameLn.Addr().String())
	require.NoError(t, err)
	gamePort, err := strconv.Atoi(gamePortStr)
	require.NoError(t, err)

	loginReceived := make(chan struct{}, 1)
	go func() {
		conn, err := gameLn.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		reader := bufio.NewReader(conn)
		if _, err := readFrame(reader); err == nil {
			loginReceived <- struct{}{}
		}
	}()

	connectAddr := fakeConnectServer(t, gameHost, gamePort)
	connectHost, connectPortStr, err := net.SplitHostPort(connectAddr)
	require.NoError(t, err)
	connectPort, err := strconv.Atoi(connectPortStr)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.ConnectHost = connectHost
	cfg.ConnectPort = connectPort
	cfg.Username = "tester"
	cfg.Password = "secret"

	c := New(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, c.Connect(ctx))

	require.Eventually(t, func() bool {
		return c.Phase() == fsm.ConnectedToConnectServer
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, c.RequestServers())

	require.Eventually(t, func() bool {
		return len(c.ServerList()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, c.ConnectGameServer(ctx, 1))
	require.Equal(t, fsm.ConnectedToGameServer, c.Phase())

	select {
	case <-loginReceived:
	case <-time.After(2 * time.Second):
		t.Fatal("game server never received a login frame")
	}
}

// pickupFrameType connects a Client straight to the Game-Server leg (no
// handover) and returns the wire frame type of the packet its Pickup call
// produces.
func pickupFrameType(t *testing.T, protocol config.ProtocolVersion) byte {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	frameCh := make(chan wire.Frame, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		f, err := readFrame(bufio.NewReader(conn))
		if err == nil {
			frameCh <- f
		}
	}()

	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Protocol = protocol
	c := New(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.mgr.Connect(ctx, host, port, crypto.NewDisabledPipeline()))
	c.mach.Transition(fsm.InGame)

	require.NoError(t, c.Pickup(0x1234))

	select {
	case f := <-frameCh:
		return f.Type
	case <-time.After(2 * time.Second):
		t.Fatal("game server never received the pickup frame")
		return 0
	}
}

func TestPickupFramingVersion075IsPlainC1(t *testing.T) {
	require.Equal(t, wire.TypeC1, pickupFrameType(t, config.ProtocolVersion075))
}

func TestPickupFramingSeason6IsEncryptedC3(t *testing.T) {
	require.Equal(t, wire.TypeC3, pickupFrameType(t, config.ProtocolSeason6))
}
