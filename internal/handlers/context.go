// Package handlers implements the protocol-handler families of spec §4.6:
// session/auth, scope (world-mirror), movement-ticket release, character
// state updates, and item-data parsing. Handlers are Read-style decoders
// inverted from the teacher's internal/gameserver/serverpackets/*.go
// Write-style encoders (that package writes these messages to a client;
// here we decode them as a client receiving them).
//
// The cyclic-reference break named in spec §9 ("handlers hold references
// to the client") is Context: a capability bundle containing exactly what
// a handler needs, nothing more.
package handlers

import (
	"github.com/xulek/muonline-console-client/internal/charstate"
	"github.com/xulek/muonline-console-client/internal/config"
	"github.com/xulek/muonline-console-client/internal/events"
	"github.com/xulek/muonline-console-client/internal/fsm"
	"github.com/xulek/muonline-console-client/internal/movement"
	"github.com/xulek/muonline-console-client/internal/scope"
)

// SendFunc is the capability a handler needs to talk back to the server
// (e.g. CharacterInformation triggering a follow-up request). It takes a
// fully-built payload plus the main/sub code to frame it under.
type SendFunc func(main byte, hasSub bool, sub byte, payload []byte) error

// Context bundles everything a handler may touch, replacing direct
// references to a connection/client object (spec §9 "Cyclic reference").
type Context struct {
	State  *charstate.State
	Scope  *scope.Manager
	Ticket *movement.Ticket
	FSM    *fsm.Machine
	Emit   *events.Sink
	Send   SendFunc
	Config config.Config

	// SelfName is the locally known character name used to adopt the self
	// id from AddCharactersToScope records (spec §4.6).
	SelfName string
}

func (c *Context) emitLog(level events.LogLevel, text string) {
	if c.Emit != nil {
		c.Emit.Emit(events.LogEvent{Level: level, Text: text})
	}
}

func (c *Context) emitScopeAdded(obj scope.Object) {
	if c.Emit != nil {
		c.Emit.Emit(events.ScopeObjectAdded{Object: obj})
	}
}

func (c *Context) emitScopeRemoved(maskedID uint16) {
	if c.Emit != nil {
		c.Emit.Emit(events.ScopeObjectRemoved{MaskedID: maskedID})
	}
}

func (c *Context) emitStateChanged(field string) {
	if c.Emit != nil {
		c.Emit.Emit(events.CharacterStateChanged{Field: field})
	}
}
