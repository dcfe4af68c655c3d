package handlers

import (
	"fmt"

	"github.com/xulek/muonline-console-client/internal/config"
	scopepkg "github.com/xulek/muonline-console-client/internal/scope"
	"github.com/xulek/muonline-console-client/internal/wire"
)

// recordNameLen returns the name field width for AddCharactersToScope
// records under the given protocol version (spec §9 "Version-dependent
// packet layouts": "three protocol versions share main codes but differ
// in record sizes"). Season 6 carries the widest name field; the two
// older wire versions use a narrower one — modeled as a tagged variant
// selected once at startup rather than re-dispatched per packet.
func recordNameLen(p config.ProtocolVersion) int {
	switch p {
	case config.ProtocolSeason6:
		return 10
	case config.ProtocolVersion097, config.ProtocolVersion075:
		return 8
	default:
		return 10
	}
}

// AddCharactersToScope parses 0x12: count(1) then count records of
// rawID(u16) + x(u8) + y(u8) + name(version-dependent ASCII width).
func AddCharactersToScope(ctx *Context, main, sub byte, body []byte) error {
	r := wire.NewReader(body)
	count, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("add characters to scope: reading count: %w", err)
	}

	nameLen := recordNameLen(ctx.Config.Protocol)
	adopted := false
	for i := byte(0); i < count; i++ {
		rawID, err := r.ReadUint16()
		if err != nil {
			return fmt.Errorf("add characters to scope: record %d: reading raw id: %w", i, err)
		}
		x, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("add characters to scope: record %d: reading x: %w", i, err)
		}
		y, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("add characters to scope: record %d: reading y: %w", i, err)
		}
		name, err := r.ReadFixedASCII(nameLen)
		if err != nil {
			return fmt.Errorf("add characters to scope: record %d: reading name: %w", i, err)
		}

		obj := scopepkg.Object{Kind: scopepkg.KindPlayer, RawID: rawID, X: x, Y: y, Name: name}
		ctx.Scope.AddOrUpdate(obj)
		ctx.emitScopeAdded(obj)

		// First-in-packet-order tie-break (spec §4.6).
		if !adopted && ctx.State.IDUnknown() && name == ctx.SelfName {
			ctx.State.AdoptID(scopepkg.Mask(rawID))
			adopted = true
		}
	}
	return nil
}

// AddNpcsToScope parses 0x13: count(1) then count records of
// rawID(u16) + typeNumber(u16) + x(u8) + y(u8) + displayName(resolved
// externally — spec §2 names a "static lookup tables" external NPC
// database, out of scope here, so DisplayName is left for the caller to
// fill via a resolver callback).
func AddNpcsToScope(resolveName func(typeNumber uint16) string) func(ctx *Context, main, sub byte, body []byte) error {
	return func(ctx *Context, main, sub byte, body []byte) error {
		r := wire.NewReader(body)
		count, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("add npcs to scope: reading count: %w", err)
		}

		for i := byte(0); i < count; i++ {
			rawID, err := r.ReadUint16()
			if err != nil {
				return fmt.Errorf("add npcs to scope: record %d: reading raw id: %w", i, err)
			}
			typeNumber, err := r.ReadUint16()
			if err != nil {
				return fmt.Errorf("add npcs to scope: record %d: reading type: %w", i, err)
			}
			x, err := r.ReadByte()
			if err != nil {
				return fmt.Errorf("add npcs to scope: record %d: reading x: %w", i, err)
			}
			y, err := r.ReadByte()
			if err != nil {
				return fmt.Errorf("add npcs to scope: record %d: reading y: %w", i, err)
			}

			kind := scopepkg.KindNpc
			if typeNumber >= monsterTypeThreshold {
				kind = scopepkg.KindMonster
			}
			displayName := ""
			if resolveName != nil {
				displayName = resolveName(typeNumber)
			}

			obj := scopepkg.Object{Kind: kind, RawID: rawID, X: x, Y: y, TypeNumber: typeNumber, DisplayName: displayName}
			ctx.Scope.AddOrUpdate(obj)
			ctx.emitScopeAdded(obj)
		}
		return nil
	}
}

// monsterTypeThreshold separates NPC vs Monster type-number ranges; the
// exact boundary is a static-table concern (spec §2 "Out of scope") left
// as a tunable constant rather than hard-coded game data.
const monsterTypeThreshold = 0x8000

// ItemsDropped parses 0x20: count(1) then count records of
// rawID(u16) + x(u8) + y(u8) + itemDataLen(u8) + itemData(bytes);
// classified as money or item per spec §4.6.
//
// Under Version075 the decoder refuses any payload carrying more than one
// record (spec §9 open question (b)): the handler returns a decode error,
// which the router logs and skips without tearing down the connection.
func ItemsDropped(ctx *Context, main, sub byte, body []byte) error {
	r := wire.NewReader(body)
	count, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("items dropped: reading count: %w", err)
	}
	if ctx.Config.Protocol == config.ProtocolVersion075 && count > 1 {
		return fmt.Errorf("items dropped: version 0.75 does not support multi-record payloads (count=%d)", count)
	}

	for i := byte(0); i < count; i++ {
		rawID, err := r.ReadUint16()
		if err != nil {
			return fmt.Errorf("items dropped: record %d: reading raw id: %w", i, err)
		}
		x, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("items dropped: record %d: reading x: %w", i, err)
		}
		y, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("items dropped: record %d: reading y: %w", i, err)
		}
		dataLen, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("items dropped: record %d: reading item data length: %w", i, err)
		}
		itemData, err := r.ReadBytes(int(dataLen))
		if err != nil {
			return fmt.Errorf("items dropped: record %d: reading item data: %w", i, err)
		}

		var obj scopepkg.Object
		if scopepkg.IsMoneyDrop(itemData) {
			obj = scopepkg.Object{Kind: scopepkg.KindMoney, RawID: rawID, X: x, Y: y, Amount: scopepkg.MoneyAmount(itemData)}
		} else {
			obj = scopepkg.Object{Kind: scopepkg.KindItem, RawID: rawID, X: x, Y: y, ItemData: append([]byte(nil), itemData...)}
		}
		ctx.Scope.AddOrUpdate(obj)
		ctx.emitScopeAdded(obj)
	}
	return nil
}

// MoneyDroppedExtended parses 0x2F: always money (spec §4.6): rawID(u16)
// + x(u8) + y(u8) + amount(u32).
func MoneyDroppedExtended(ctx *Context, main, sub byte, body []byte) error {
	r := wire.NewReader(body)
	rawID, err := r.ReadUint16()
	if err != nil {
		return fmt.Errorf("money dropped extended: reading raw id: %w", err)
	}
	x, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("money dropped extended: reading x: %w", err)
	}
	y, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("money dropped extended: reading y: %w", err)
	}
	amount, err := r.ReadUint32()
	if err != nil {
		return fmt.Errorf("money dropped extended: reading amount: %w", err)
	}

	obj := scopepkg.Object{Kind: scopepkg.KindMoney, RawID: rawID, X: x, Y: y, Amount: amount}
	ctx.Scope.AddOrUpdate(obj)
	ctx.emitScopeAdded(obj)
	return nil
}

// ItemDropRemoved parses 0x21: count(1) then count raw ids (u16 each,
// big-endian) (spec §8 scenario 2 uses this exact shape).
func ItemDropRemoved(ctx *Context, main, sub byte, body []byte) error {
	return removalList(ctx, "item drop removed", body)
}

// MapObjectOutOfScope parses 0x14: same removal-list shape as
// ItemDropRemoved.
func MapObjectOutOfScope(ctx *Context, main, sub byte, body []byte) error {
	return removalList(ctx, "map object out of scope", body)
}

func removalList(ctx *Context, label string, body []byte) error {
	r := wire.NewReader(body)
	count, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("%s: reading count: %w", label, err)
	}
	for i := byte(0); i < count; i++ {
		idBytes, err := r.ReadBytes(2)
		if err != nil {
			return fmt.Errorf("%s: record %d: reading raw id: %w", label, i, err)
		}
		rawID := uint16(idBytes[0])<<8 | uint16(idBytes[1])
		masked := scopepkg.Mask(rawID)
		if ctx.Scope.Remove(masked) {
			ctx.emitScopeRemoved(masked)
		}
	}
	return nil
}

// ObjectMoved parses 0x15 (teleport/instant move): rawID(u16), x(u8), y(u8).
// Releases the movement ticket when the moved object is self (spec §4.6
// "Movement ticket protocol").
func ObjectMoved(ctx *Context, main, sub byte, body []byte) error {
	r := wire.NewReader(body)
	rawID, err := r.ReadUint16()
	if err != nil {
		return fmt.Errorf("object moved: reading raw id: %w", err)
	}
	x, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("object moved: reading x: %w", err)
	}
	y, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("object moved: reading y: %w", err)
	}

	masked := scopepkg.Mask(rawID)
	ctx.Scope.UpdatePosition(masked, x, y)
	if masked == ctx.State.ID() {
		ctx.State.SetLocation(ctx.State.MapID(), x, y)
		ctx.Ticket.Release()
	}
	return nil
}

// ObjectWalked parses 0xD4 (when it arrives as a Game-Server inbound
// message, distinct from the client's own outbound WalkRequest sharing
// the same main code): rawID(u16), targetX(u8), targetY(u8), stepCount(u8).
// step_count==0 is a walk terminator and releases the ticket for self
// (spec §4.6).
func ObjectWalked(ctx *Context, main, sub byte, body []byte) error {
	r := wire.NewReader(body)
	rawID, err := r.ReadUint16()
	if err != nil {
		return fmt.Errorf("object walked: reading raw id: %w", err)
	}
	targetX, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("object walked: reading target x: %w", err)
	}
	targetY, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("object walked: reading target y: %w", err)
	}
	stepCount, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("object walked: reading step count: %w", err)
	}

	masked := scopepkg.Mask(rawID)
	ctx.Scope.UpdatePosition(masked, targetX, targetY)

	if masked == ctx.State.ID() && stepCount == 0 {
		ctx.Ticket.Release()
	}
	return nil
}

// ObjectGotKilled parses 0x17: rawID(u16). If self, zero HP/SD and
// release the movement ticket; otherwise remove from scope (spec §4.6).
func ObjectGotKilled(ctx *Context, main, sub byte, body []byte) error {
	r := wire.NewReader(body)
	rawID, err := r.ReadUint16()
	if err != nil {
		return fmt.Errorf("object got killed: reading raw id: %w", err)
	}

	masked := scopepkg.Mask(rawID)
	if masked == ctx.State.ID() {
		ctx.State.ZeroVitalsOnDeath()
		ctx.Ticket.Release()
		ctx.emitStateChanged("hp")
		return nil
	}

	if ctx.Scope.Remove(masked) {
		ctx.emitScopeRemoved(masked)
	}
	return nil
}

// ObjectAnimation parses 0x18: informational only (spec §4.6).
func ObjectAnimation(ctx *Context, main, sub byte, body []byte) error {
	return nil
}
