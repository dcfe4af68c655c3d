package handlers

import (
	"fmt"

	"github.com/xulek/muonline-console-client/internal/wire"
)

// HealthShield parses 0x26: curHP(u32), maxHP(u32), curSD(u32), maxSD(u32)
// (spec §4.6 "HP/SD (0x26): current/max pairs. Max ≥ 1 enforced").
func HealthShield(ctx *Context, main, sub byte, body []byte) error {
	r := wire.NewReader(body)
	curHP, err := r.ReadUint32()
	if err != nil {
		return fmt.Errorf("health/shield: reading cur hp: %w", err)
	}
	maxHP, err := r.ReadUint32()
	if err != nil {
		return fmt.Errorf("health/shield: reading max hp: %w", err)
	}
	curSD, err := r.ReadUint32()
	if err != nil {
		return fmt.Errorf("health/shield: reading cur sd: %w", err)
	}
	maxSD, err := r.ReadUint32()
	if err != nil {
		return fmt.Errorf("health/shield: reading max sd: %w", err)
	}

	ctx.State.SetHP(curHP, maxHP, curSD, maxSD)
	ctx.emitStateChanged("hp")
	return nil
}

// ManaAbility parses 0x27: curMP(u32), maxMP(u32), curAG(u32), maxAG(u32)
// (spec §4.6 "MP/AG (0x27)").
func ManaAbility(ctx *Context, main, sub byte, body []byte) error {
	r := wire.NewReader(body)
	curMP, err := r.ReadUint32()
	if err != nil {
		return fmt.Errorf("mana/ability: reading cur mp: %w", err)
	}
	maxMP, err := r.ReadUint32()
	if err != nil {
		return fmt.Errorf("mana/ability: reading max mp: %w", err)
	}
	curAG, err := r.ReadUint32()
	if err != nil {
		return fmt.Errorf("mana/ability: reading cur ag: %w", err)
	}
	maxAG, err := r.ReadUint32()
	if err != nil {
		return fmt.Errorf("mana/ability: reading max ag: %w", err)
	}

	ctx.State.SetMP(curMP, maxMP, curAG, maxAG)
	ctx.emitStateChanged("mp")
	return nil
}

// InventoryList parses the full inventory snapshot sent once at login:
// count(1) then count records of slot(u8), dataLen(u8), itemData(bytes) —
// the list form of the same record shape InventoryItem applies one at a
// time (spec §4.6 "Inventory: list, add, remove, durability update").
func InventoryList(ctx *Context, main, sub byte, body []byte) error {
	r := wire.NewReader(body)
	count, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("inventory list: reading count: %w", err)
	}

	for i := byte(0); i < count; i++ {
		slot, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("inventory list: record %d: reading slot: %w", i, err)
		}
		dataLen, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("inventory list: record %d: reading data length: %w", i, err)
		}
		itemData, err := r.ReadBytes(int(dataLen))
		if err != nil {
			return fmt.Errorf("inventory list: record %d: reading item data: %w", i, err)
		}
		ctx.State.SetInventorySlot(slot, itemData)
	}
	ctx.emitStateChanged("inventory")
	return nil
}

// InventoryItem parses an inventory add/update record: slot(u8),
// dataLen(u8), itemData(bytes) (spec §4.6 "Inventory: list, add, remove,
// durability update").
func InventoryItem(ctx *Context, main, sub byte, body []byte) error {
	r := wire.NewReader(body)
	slot, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("inventory item: reading slot: %w", err)
	}
	dataLen, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("inventory item: reading data length: %w", err)
	}
	itemData, err := r.ReadBytes(int(dataLen))
	if err != nil {
		return fmt.Errorf("inventory item: reading item data: %w", err)
	}

	ctx.State.SetInventorySlot(slot, itemData)
	ctx.emitStateChanged("inventory")
	return nil
}

// InventoryRemove parses an inventory removal record: slot(u8).
func InventoryRemove(ctx *Context, main, sub byte, body []byte) error {
	r := wire.NewReader(body)
	slot, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("inventory remove: reading slot: %w", err)
	}

	ctx.State.RemoveInventorySlot(slot)
	ctx.emitStateChanged("inventory")
	return nil
}

// InventoryDurability parses a durability-update record: slot(u8),
// durability(u8) (spec §4.6 "Durability is stored at byte index 2 of the
// item data; handlers must bounds-check").
func InventoryDurability(ctx *Context, main, sub byte, body []byte) error {
	r := wire.NewReader(body)
	slot, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("inventory durability: reading slot: %w", err)
	}
	durability, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("inventory durability: reading durability: %w", err)
	}

	if err := ctx.State.UpdateDurability(slot, durability); err != nil {
		return fmt.Errorf("inventory durability: %w", err)
	}
	ctx.emitStateChanged("inventory")
	return nil
}
