package handlers

import (
	"fmt"

	"github.com/xulek/muonline-console-client/internal/events"
	"github.com/xulek/muonline-console-client/internal/fsm"
	"github.com/xulek/muonline-console-client/internal/wire"
)

// CharacterListEntry is one record of a CharacterList packet.
type CharacterListEntry struct {
	Name  string
	Class uint16
}

// CharacterListSink receives the parsed CharacterList so the CLI/observer
// layer can present it (spec §4.6 "populates the UI-facing list").
type CharacterListSink func([]CharacterListEntry)

// LoginResult codes (spec §4.6 "LoginResponse: records login outcome").
const (
	LoginResultOK byte = 0x01
)

// LoginResponse parses the LoginResponse payload: a single result byte.
func LoginResponse(ctx *Context, main, sub byte, body []byte) error {
	r := wire.NewReader(body)
	result, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("login response: %w", err)
	}

	if result != LoginResultOK {
		ctx.emitLog(events.LevelWarn, fmt.Sprintf("login failed: code 0x%02X", result))
		return nil
	}

	ctx.emitLog(events.LevelInfo, "login accepted")
	return nil
}

// CharacterList parses 0xF3/0x00: count(1) then count records of
// name(10 ASCII) + class(u16).
func CharacterList(sink CharacterListSink) func(ctx *Context, main, sub byte, body []byte) error {
	return func(ctx *Context, main, sub byte, body []byte) error {
		r := wire.NewReader(body)
		count, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("character list: reading count: %w", err)
		}

		entries := make([]CharacterListEntry, 0, count)
		for i := byte(0); i < count; i++ {
			name, err := r.ReadFixedASCII(10)
			if err != nil {
				return fmt.Errorf("character list: reading name %d: %w", i, err)
			}
			class, err := r.ReadUint16()
			if err != nil {
				return fmt.Errorf("character list: reading class %d: %w", i, err)
			}
			entries = append(entries, CharacterListEntry{Name: name, Class: class})
		}

		if sink != nil {
			sink(entries)
		}
		ctx.FSM.Transition(fsm.ConnectedToGameServer)
		return nil
	}
}

// CharacterInformation parses 0xF3/0x03, initializing self-state and
// transitioning to InGame (spec §4.6).
func CharacterInformation(ctx *Context, main, sub byte, body []byte) error {
	r := wire.NewReader(body)

	name, err := r.ReadFixedASCII(10)
	if err != nil {
		return fmt.Errorf("character information: reading name: %w", err)
	}
	class, err := r.ReadUint16()
	if err != nil {
		return fmt.Errorf("character information: reading class: %w", err)
	}
	status, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("character information: reading status: %w", err)
	}
	heroState, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("character information: reading hero state: %w", err)
	}
	level, err := r.ReadUint16()
	if err != nil {
		return fmt.Errorf("character information: reading level: %w", err)
	}
	experience, err := r.ReadUint64()
	if err != nil {
		return fmt.Errorf("character information: reading experience: %w", err)
	}
	expToNext, err := r.ReadUint64()
	if err != nil {
		return fmt.Errorf("character information: reading exp_to_next: %w", err)
	}
	levelPoints, err := r.ReadUint16()
	if err != nil {
		return fmt.Errorf("character information: reading level points: %w", err)
	}
	curHP, err := r.ReadUint32()
	if err != nil {
		return err
	}
	maxHP, err := r.ReadUint32()
	if err != nil {
		return err
	}
	curSD, err := r.ReadUint32()
	if err != nil {
		return err
	}
	maxSD, err := r.ReadUint32()
	if err != nil {
		return err
	}
	curMP, err := r.ReadUint32()
	if err != nil {
		return err
	}
	maxMP, err := r.ReadUint32()
	if err != nil {
		return err
	}
	curAG, err := r.ReadUint32()
	if err != nil {
		return err
	}
	maxAG, err := r.ReadUint32()
	if err != nil {
		return err
	}
	strength, err := r.ReadUint16()
	if err != nil {
		return err
	}
	agility, err := r.ReadUint16()
	if err != nil {
		return err
	}
	vitality, err := r.ReadUint16()
	if err != nil {
		return err
	}
	energy, err := r.ReadUint16()
	if err != nil {
		return err
	}
	leadership, err := r.ReadUint16()
	if err != nil {
		return err
	}
	mapID, err := r.ReadUint16()
	if err != nil {
		return err
	}
	posX, err := r.ReadByte()
	if err != nil {
		return err
	}
	posY, err := r.ReadByte()
	if err != nil {
		return err
	}
	zen, err := r.ReadUint32()
	if err != nil {
		return err
	}
	expansionState, err := r.ReadByte()
	if err != nil {
		return err
	}

	ctx.State.SetName(name)
	ctx.State.SetIdentity(class, status, heroState)
	if err := ctx.State.SetProgression(level, experience, maxUint64(expToNext, 1), levelPoints); err != nil {
		return fmt.Errorf("character information: %w", err)
	}
	ctx.State.SetHP(curHP, maxHP, curSD, maxSD)
	ctx.State.SetMP(curMP, maxMP, curAG, maxAG)
	ctx.State.SetBaseStats(strength, agility, vitality, energy, leadership)
	ctx.State.SetLocation(mapID, posX, posY)
	ctx.State.SetZen(zen)
	ctx.State.SetExpansionState(expansionState)

	ctx.Scope.ResetKeepingOnly(ctx.State.ID())
	ctx.FSM.Transition(fsm.InGame)
	ctx.emitStateChanged("identity")
	return nil
}

// MapChanged parses 0x1C: mapID(u16), x(u8), y(u8); clears scope except
// self and clears the movement ticket (spec §4.6).
func MapChanged(ctx *Context, main, sub byte, body []byte) error {
	r := wire.NewReader(body)
	mapID, err := r.ReadUint16()
	if err != nil {
		return fmt.Errorf("map changed: reading map id: %w", err)
	}
	x, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("map changed: reading x: %w", err)
	}
	y, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("map changed: reading y: %w", err)
	}

	ctx.State.SetLocation(mapID, x, y)
	ctx.Scope.ResetKeepingOnly(ctx.State.ID())
	ctx.Ticket.Release()
	ctx.emitStateChanged("location")
	return nil
}

func maxUint64(v, floor uint64) uint64 {
	if v < floor {
		return floor
	}
	return v
}
