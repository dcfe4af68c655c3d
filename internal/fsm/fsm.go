// Package fsm implements the ConnectionPhase state machine of spec §3
// "ConnectionPhase" / §4.7 "Connection FSM": sequencing phases, gating
// user commands on phase, and owning the Connect-Server→Game-Server
// handover.
//
// Grounded on the teacher's internal/gameserver/types.go
// ClientConnectionState enum (iota block + String()), generalized from
// its five coarse states to the eight phases spec.md names, and on
// internal/gslistener/handler.go's state-gated dispatch for the
// "commands fail without mutating state" invariant (spec §8).
package fsm

import (
	"fmt"
	"sync/atomic"
)

// Phase is one state of the connection lifecycle (spec §3).
type Phase int

const (
	Initial Phase = iota
	ConnectingToConnectServer
	ConnectedToConnectServer
	ReceivedServerList
	ConnectingToGameServer
	ConnectedToGameServer
	InGame
	Disconnected
)

func (p Phase) String() string {
	switch p {
	case Initial:
		return "INITIAL"
	case ConnectingToConnectServer:
		return "CONNECTING_TO_CONNECT_SERVER"
	case ConnectedToConnectServer:
		return "CONNECTED_TO_CONNECT_SERVER"
	case ReceivedServerList:
		return "RECEIVED_SERVER_LIST"
	case ConnectingToGameServer:
		return "CONNECTING_TO_GAME_SERVER"
	case ConnectedToGameServer:
		return "CONNECTED_TO_GAME_SERVER"
	case InGame:
		return "IN_GAME"
	case Disconnected:
		return "DISCONNECTED"
	default:
		return "UNKNOWN"
	}
}

// Command identifies a user-issued action gated by phase (spec §4.7).
type Command int

const (
	CmdConnect Command = iota
	CmdRequestServers
	CmdConnectGameServer
	CmdSelectCharacter
	CmdMove
	CmdWalk
	CmdPickup
)

func (c Command) String() string {
	switch c {
	case CmdConnect:
		return "Connect"
	case CmdRequestServers:
		return "RequestServers"
	case CmdConnectGameServer:
		return "ConnectGameServer"
	case CmdSelectCharacter:
		return "SelectCharacter"
	case CmdMove:
		return "Move"
	case CmdWalk:
		return "Walk"
	case CmdPickup:
		return "Pickup"
	default:
		return "Unknown"
	}
}

// ErrWrongPhase is returned when a command is issued in a phase that does
// not permit it (spec §7 "Command" error kind).
type ErrWrongPhase struct {
	Command Command
	Phase   Phase
}

func (e *ErrWrongPhase) Error() string {
	return fmt.Sprintf("fsm: command %s not allowed in phase %s", e.Command, e.Phase)
}

// allowed maps each command to the set of phases it may run in.
var allowed = map[Command]map[Phase]bool{
	CmdConnect:           {Initial: true, Disconnected: true},
	CmdRequestServers:    {ConnectedToConnectServer: true},
	CmdConnectGameServer: {ReceivedServerList: true},
	CmdSelectCharacter:   {ConnectedToGameServer: true},
	CmdMove:              {InGame: true},
	CmdWalk:              {InGame: true},
	CmdPickup:            {InGame: true},
}

// Machine tracks the current phase. The phase is read and written
// atomically, because the receive loop transitions it while the command
// goroutine reads and transitions it too; a Check followed by a later
// Transition is not atomic as a pair.
type Machine struct {
	phase atomic.Int32
}

// New returns a Machine starting in Initial.
func New() *Machine {
	m := &Machine{}
	m.phase.Store(int32(Initial))
	return m
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	return Phase(m.phase.Load())
}

// Transition moves to the given phase unconditionally. The FSM does not
// validate phase-to-phase edges beyond command gating — protocol handlers
// are the authority on when a transition is warranted (spec §4.6).
func (m *Machine) Transition(to Phase) {
	m.phase.Store(int32(to))
}

// Check reports whether cmd is permitted in the current phase, returning
// *ErrWrongPhase if not. Callers MUST check before performing any side
// effect (spec §8: "commands not in the allowed set for that phase fail
// without mutating state").
func (m *Machine) Check(cmd Command) error {
	p := m.Phase()
	if allowed[cmd][p] {
		return nil
	}
	return &ErrWrongPhase{Command: cmd, Phase: p}
}
