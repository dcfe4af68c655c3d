// Package client wires every protocol-layer package into the single
// headless-session orchestrator described across spec.md: one connection
// manager driven through the Connect-Server→Game-Server handover, login,
// character selection, and in-game phases named by the ConnectionPhase FSM
// (spec §3, §5).
//
// Grounded on the teacher's internal/gameserver/client.go field discipline
// (a handful of atomics/mutex-guarded fields over one connection, a
// sessionID, a selected-character slot) but inverted to a client dialing
// out rather than a server accepting in, and collapsed to the single
// connection this headless client ever holds at a time.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xulek/muonline-console-client/internal/charstate"
	"github.com/xulek/muonline-console-client/internal/config"
	"github.com/xulek/muonline-console-client/internal/crypto"
	"github.com/xulek/muonline-console-client/internal/events"
	"github.com/xulek/muonline-console-client/internal/fsm"
	"github.com/xulek/muonline-console-client/internal/handlers"
	"github.com/xulek/muonline-console-client/internal/movement"
	"github.com/xulek/muonline-console-client/internal/netio"
	"github.com/xulek/muonline-console-client/internal/outbound"
	"github.com/xulek/muonline-console-client/internal/router"
	"github.com/xulek/muonline-console-client/internal/scope"
	"github.com/xulek/muonline-console-client/internal/wire"
)

// Client is the single-session headless orchestrator: one netio.Manager
// reused across the Connect-Server and Game-Server legs of the handover,
// one FSM, one scope/charstate pair, and the handler Context that binds
// them together.
type Client struct {
	cfg config.Config

	mgr    *netio.Manager
	state  *charstate.State
	scope  *scope.Manager
	ticket *movement.Ticket
	mach   *fsm.Machine
	emit   *events.Sink

	connectRouter *router.Router
	gameRouter    *router.Router
	hctx          *handlers.Context

	// handingOver suppresses the Disconnected transition for the deliberate
	// Connect-Server→Game-Server socket swap (spec §5): onDisconnect always
	// fires when a socket closes, even when the caller initiated it.
	handingOver atomic.Bool

	mu           sync.Mutex
	serverList   []handlers.ServerEntry
	connInfo     chan connInfo
	characters   []handlers.CharacterListEntry
	gamePipeline *crypto.Pipeline
}

type connInfo struct {
	host string
	port int
}

// New builds a Client from cfg; nothing is dialed until Connect is called.
func New(cfg config.Config) *Client {
	c := &Client{
		cfg:      cfg,
		state:    charstate.New(),
		scope:    scope.NewManager(),
		ticket:   movement.NewTicket(time.Duration(cfg.MovementTicketTimeoutMS) * time.Millisecond),
		mach:     fsm.New(),
		emit:     events.NewSink(256),
		connInfo: make(chan connInfo, 1),
	}

	c.hctx = &handlers.Context{
		State:    c.state,
		Scope:    c.scope,
		Ticket:   c.ticket,
		FSM:      c.mach,
		Emit:     c.emit,
		Send:     c.send,
		Config:   cfg,
		SelfName: cfg.Username,
	}

	c.mgr = netio.New(c.onFrame, c.onDisconnect, cfg.ReceiveBufferSize)

	c.connectRouter = router.New(router.ConnectServerSubCodes)
	handlers.RegisterConnectServer(c.connectRouter, c.hctx, c.onServerList, c.onConnectionInfo)

	c.gameRouter = router.New(router.GameServerSubCodes)
	handlers.RegisterGameServer(c.gameRouter, c.hctx, c.onCharacterList, nil)

	return c
}

// Events returns the channel observers should range over (spec §9
// "Observer integration").
func (c *Client) Events() <-chan events.Event {
	return c.emit.Events()
}

// State returns the authoritative self-state mirror.
func (c *Client) State() *charstate.State {
	return c.state
}

// Scope returns the live world-mirror.
func (c *Client) Scope() *scope.Manager {
	return c.scope
}

// Phase returns the current connection phase.
func (c *Client) Phase() fsm.Phase {
	return c.mach.Phase()
}

// WaitForPhase blocks until the receive loop has driven the connection
// into want, ctx is cancelled, or timeout elapses — callers that issue a
// request and then depend on the asynchronous reply's phase transition
// (e.g. RequestServers before ConnectGameServer) need this since phase
// changes happen on the receive-loop goroutine, not the caller's.
func (c *Client) WaitForPhase(ctx context.Context, want fsm.Phase, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		if c.Phase() == want {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("client: timed out waiting for phase %s (currently %s)", want, c.Phase())
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// onFrame dispatches a decoded frame to whichever router matches the
// current connection leg. Before ReceivedServerList the socket is the
// Connect Server; from ConnectingToGameServer onward it is the Game
// Server (spec §5 handover).
func (c *Client) onFrame(f wire.Frame) {
	if c.mach.Phase() < fsm.ConnectingToGameServer {
		c.connectRouter.Dispatch(f)
		return
	}
	c.gameRouter.Dispatch(f)
}

func (c *Client) onDisconnect(err error) {
	if c.handingOver.Load() {
		return
	}
	c.mach.Transition(fsm.Disconnected)
	level := events.LevelInfo
	text := "disconnected"
	if err != nil {
		level = events.LevelError
		text = fmt.Sprintf("disconnected: %v", err)
	}
	c.emit.Emit(events.LogEvent{Level: level, Text: text})
}

// send builds the outbound frame for (main, sub, payload) per spec §4.2:
// on the Game-Server leg the sub-code and payload are folded together and
// run through the encryption pipeline before framing; on the Connect-Server
// leg (never encrypted) they are framed as plain C1/C2.
func (c *Client) send(main byte, hasSub bool, sub byte, payload []byte) error {
	return c.sendFramed(main, hasSub, sub, payload, c.gameServerConnected())
}

// sendPlain frames (main, sub, payload) as an unencrypted C1/C2 frame
// regardless of connection leg. Used for the handful of messages whose
// wire variant bypasses the Game-Server encryption pipeline under an older
// protocol version (spec §6 "PickupItemRequest ... C1/0x22 for 0.75").
func (c *Client) sendPlain(main byte, hasSub bool, sub byte, payload []byte) error {
	return c.sendFramed(main, hasSub, sub, payload, false)
}

func (c *Client) sendFramed(main byte, hasSub bool, sub byte, payload []byte, encrypted bool) error {
	body := payload
	if encrypted {
		full := payload
		if hasSub {
			full = append([]byte{sub}, payload...)
			hasSub = false // sub-code is now part of the plaintext to encrypt
		}
		body = c.pipelineEncode(full)
	}

	frameType := wire.TypeC1
	if encrypted {
		frameType = wire.TypeC3
	}
	if len(body)+3 > 0xFF {
		if encrypted {
			frameType = wire.TypeC4
		} else {
			frameType = wire.TypeC2
		}
	}

	frame, err := wire.EncodeWithSub(frameType, main, hasSub, sub, body)
	if err != nil {
		return fmt.Errorf("client: encoding frame: %w", err)
	}
	return c.mgr.Send(frame)
}

// gameServerConnected reports whether the current leg is the encrypted
// Game-Server connection (spec §4.2 "Connect Server: disabled; Game
// Server: enabled").
func (c *Client) gameServerConnected() bool {
	return c.mach.Phase() >= fsm.ConnectingToGameServer
}

func (c *Client) pipelineEncode(plaintext []byte) []byte {
	c.mu.Lock()
	pipeline := c.gamePipeline
	c.mu.Unlock()
	if pipeline == nil {
		return plaintext
	}
	return pipeline.EncodeOutbound(plaintext)
}

func (c *Client) onServerList(entries []handlers.ServerEntry) {
	c.mu.Lock()
	c.serverList = entries
	c.mu.Unlock()
}

func (c *Client) onCharacterList(entries []handlers.CharacterListEntry) {
	c.mu.Lock()
	c.characters = entries
	c.mu.Unlock()
}

// ServerList returns the most recently received server list.
func (c *Client) ServerList() []handlers.ServerEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]handlers.ServerEntry(nil), c.serverList...)
}

// Characters returns the most recently received character list.
func (c *Client) Characters() []handlers.CharacterListEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]handlers.CharacterListEntry(nil), c.characters...)
}

func (c *Client) onConnectionInfo(ip net.IP, port uint16) {
	select {
	case c.connInfo <- connInfo{host: ip.String(), port: int(port)}:
	default:
	}
}

// Connect dials the Connect Server (spec §4.3 "connect(host, port,
// encrypted)").
func (c *Client) Connect(ctx context.Context) error {
	if err := c.mach.Check(fsm.CmdConnect); err != nil {
		return err
	}
	c.mach.Transition(fsm.ConnectingToConnectServer)
	if err := c.mgr.Connect(ctx, c.cfg.ConnectHost, c.cfg.ConnectPort, crypto.NewDisabledPipeline()); err != nil {
		return fmt.Errorf("client: connect: %w", err)
	}
	return nil
}

// RequestServers sends ServerListRequest (spec §6 outbound table).
func (c *Client) RequestServers() error {
	if err := c.mach.Check(fsm.CmdRequestServers); err != nil {
		return err
	}
	return c.hctx.Send(outbound.OpcodeServerListRequest, true, outbound.SubServerListRequest, outbound.BuildServerListRequest())
}

// ConnectGameServer requests the Game-Server address for serverID, waits
// for the ConnectionInfoResponse, then performs the handover: disconnect
// the Connect-Server socket, reconnect with encryption enabled (spec §5).
func (c *Client) ConnectGameServer(ctx context.Context, serverID uint16) error {
	if err := c.mach.Check(fsm.CmdConnectGameServer); err != nil {
		return err
	}

	if err := c.hctx.Send(outbound.OpcodeConnectionInfoRequest, true, outbound.SubConnectionInfoRequest, outbound.BuildConnectionInfoRequest(serverID)); err != nil {
		return fmt.Errorf("client: requesting connection info: %w", err)
	}

	var info connInfo
	select {
	case info = <-c.connInfo:
	case <-ctx.Done():
		return ctx.Err()
	}

	c.mach.Transition(fsm.ConnectingToGameServer)

	c.handingOver.Store(true)
	defer c.handingOver.Store(false)

	if err := c.mgr.Disconnect(); err != nil {
		return fmt.Errorf("client: disconnecting from connect server: %w", err)
	}

	pipeline := crypto.NewPipeline(crypto.DefaultEncryptKey, crypto.DefaultDecryptKey, crypto.DefaultXor32InitialState)
	c.mu.Lock()
	c.gamePipeline = pipeline
	c.mu.Unlock()

	if err := c.mgr.Connect(ctx, info.host, info.port, pipeline); err != nil {
		return fmt.Errorf("client: connect game server: %w", err)
	}

	tick := uint32(time.Now().UnixMilli())
	payload := outbound.BuildLogin(c.cfg, c.cfg.Username, c.cfg.Password, tick)
	if err := c.hctx.Send(outbound.OpcodeLogin, true, outbound.SubLogin, payload); err != nil {
		return fmt.Errorf("client: sending login: %w", err)
	}
	c.mach.Transition(fsm.ConnectedToGameServer)
	return nil
}

// SelectCharacter sends SelectCharacter(name) (spec §6, CLI "select
// <name>").
func (c *Client) SelectCharacter(name string) error {
	if err := c.mach.Check(fsm.CmdSelectCharacter); err != nil {
		return err
	}
	c.hctx.SelfName = name
	return c.hctx.Send(outbound.OpcodeSelectCharacter, true, outbound.SubSelectCharacter, outbound.BuildSelectCharacter(name))
}

// Move sends an InstantMoveRequest (CLI "move X Y"), acquiring the
// movement ticket before the send is placed on the wire (spec §9(c)).
func (c *Client) Move(x, y uint8) error {
	if err := c.mach.Check(fsm.CmdMove); err != nil {
		return err
	}
	if !c.ticket.Acquire() {
		return fmt.Errorf("client: movement ticket already held")
	}
	if err := c.hctx.Send(outbound.OpcodeInstantMove, true, outbound.SubInstantMove, outbound.BuildInstantMoveRequest(x, y)); err != nil {
		c.ticket.Release()
		return err
	}
	return nil
}

// WalkTo sends a WalkRequest along directions from (srcX,srcY), acquiring
// the movement ticket before the send (CLI "walkto X Y"; spec §6, §9(c)).
func (c *Client) WalkTo(srcX, srcY uint8, directions []uint8, initialRotation uint8) error {
	if err := c.mach.Check(fsm.CmdWalk); err != nil {
		return err
	}
	if !c.ticket.Acquire() {
		return fmt.Errorf("client: movement ticket already held")
	}
	payload := outbound.BuildWalkRequest(c.cfg, srcX, srcY, directions, initialRotation)
	if err := c.hctx.Send(outbound.OpcodeWalkRequest, true, outbound.SubWalkRequest, payload); err != nil {
		c.ticket.Release()
		return err
	}
	return nil
}

// Pickup sends PickupItemRequest for itemID (CLI "pickup <id>"), framed as
// C3/0x22 for >=0.97 and C1/0x22 for 0.75 (spec §6): the 0.75 wire variant
// of this one message is never run through the encryption pipeline, even
// though the connection itself is otherwise encrypted on the Game-Server
// leg.
func (c *Client) Pickup(itemID uint16) error {
	if err := c.mach.Check(fsm.CmdPickup); err != nil {
		return err
	}
	payload := outbound.BuildPickupItemRequest(itemID)
	if c.cfg.Protocol == config.ProtocolVersion075 {
		return c.sendPlain(0x22, false, router.NoSubCode, payload)
	}
	return c.hctx.Send(0x22, false, router.NoSubCode, payload)
}

// Disconnect tears down the active socket, if any.
func (c *Client) Disconnect() error {
	return c.mgr.Disconnect()
}

// SlogAttr is a convenience for callers that want to log the client's
// current phase.
func (c *Client) SlogAttr() slog.Attr {
	return slog.String("phase", c.mach.Phase().String())
}
