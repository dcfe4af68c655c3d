package handlers

import (
	"fmt"
	"net"

	"github.com/xulek/muonline-console-client/internal/fsm"
	"github.com/xulek/muonline-console-client/internal/router"
	"github.com/xulek/muonline-console-client/internal/wire"
)

// ServerEntry is one record of a ServerListResponse (spec §4.6 inbound
// table: "0xF4/0x06 ServerListResponse").
type ServerEntry struct {
	ID    uint16
	Load  uint8
}

// ServerListSink receives the parsed server list so the CLI layer can
// present it and later pick a server id for ConnectGameServer.
type ServerListSink func([]ServerEntry)

// ConnectionInfoSink receives the resolved Game-Server address from a
// ConnectionInfoResponse, so the FSM/client orchestrator can perform the
// handover described in spec §5 ("on ConnectionInfoResponse, the FSM
// disconnects the current socket... and connects to the returned (ip,
// port)").
type ConnectionInfoSink func(ip net.IP, port uint16)

// Hello parses 0x00: the Connect-Server's unsolicited greeting, which
// carries no payload this client needs beyond acknowledging it arrived
// (spec §4.6 inbound table: "0x00 Hello").
func Hello(ctx *Context, main, sub byte, body []byte) error {
	ctx.FSM.Transition(fsm.ConnectedToConnectServer)
	return nil
}

// ServerListResponse parses 0xF4/0x06: count(u16) then count records of
// serverID(u16) + load(u8).
func ServerListResponse(sink ServerListSink) func(ctx *Context, main, sub byte, body []byte) error {
	return func(ctx *Context, main, sub byte, body []byte) error {
		r := wire.NewReader(body)
		count, err := r.ReadUint16()
		if err != nil {
			return fmt.Errorf("server list response: reading count: %w", err)
		}

		entries := make([]ServerEntry, 0, count)
		for i := uint16(0); i < count; i++ {
			id, err := r.ReadUint16()
			if err != nil {
				return fmt.Errorf("server list response: record %d: reading id: %w", i, err)
			}
			load, err := r.ReadByte()
			if err != nil {
				return fmt.Errorf("server list response: record %d: reading load: %w", i, err)
			}
			entries = append(entries, ServerEntry{ID: id, Load: load})
		}

		if sink != nil {
			sink(entries)
		}
		ctx.FSM.Transition(fsm.ReceivedServerList)
		return nil
	}
}

// ConnectionInfoResponse parses 0xF4/0x03: a 4-byte IPv4 address followed
// by a little-endian port (spec §5 "Handover from Connect Server to Game
// Server").
func ConnectionInfoResponse(sink ConnectionInfoSink) func(ctx *Context, main, sub byte, body []byte) error {
	return func(ctx *Context, main, sub byte, body []byte) error {
		r := wire.NewReader(body)
		ipBytes, err := r.ReadBytes(4)
		if err != nil {
			return fmt.Errorf("connection info response: reading ip: %w", err)
		}
		port, err := r.ReadUint16()
		if err != nil {
			return fmt.Errorf("connection info response: reading port: %w", err)
		}

		ip := net.IPv4(ipBytes[0], ipBytes[1], ipBytes[2], ipBytes[3])
		if sink != nil {
			sink(ip, port)
		}
		return nil
	}
}

// RegisterConnectServer installs the Connect-Server handler family (spec
// §4.6, §5): Hello, ServerListResponse, ConnectionInfoResponse.
func RegisterConnectServer(r *router.Router, ctx *Context, onServerList ServerListSink, onConnectionInfo ConnectionInfoSink) {
	bind := func(h func(ctx *Context, main, sub byte, body []byte) error) router.HandlerFunc {
		return func(main, sub byte, body []byte) error {
			return h(ctx, main, sub, body)
		}
	}

	// 0x00 is a member of the Connect-Server sub-code set (spec §4.4), so
	// Split always peels a sub-code byte here too; the spec names no
	// distinct sub-variant for Hello, so it is wired under the single
	// sub-code 0x00 it is observed to carry (same reasoning as the
	// Game-Server 0x26/0x27 registration below).
	r.Register(0x00, 0x00, bind(Hello))
	r.Register(0xF4, 0x06, bind(ServerListResponse(onServerList)))
	r.Register(0xF4, 0x03, bind(ConnectionInfoResponse(onConnectionInfo)))
}
