package handlers

import "fmt"

// SocketEmpty/SocketNone are the socket-slot sentinels of spec §4.6.
const (
	SocketEmpty    byte = 0xFF
	SocketNone     byte = 0xFE
	socketCount         = 5
)

// ItemDisplay is the display-only decoding of an item_data blob (spec
// §4.6 "Item data parsing (display-only)", Season 6 byte layout). Fields
// beyond what the blob's length covers are left at their zero value.
type ItemDisplay struct {
	OptionLevel      uint8 // 0..7, x4 for the displayed bonus value
	Luck             bool
	ItemLevel        uint8 // 0..15, the item's "+N"
	Skill            bool
	Durability       uint8
	ExcellentOptions uint8
	AncientSetID     uint8
	AncientBonusLevel uint8
	Flag380          bool
	HarmonyType      uint8
	SocketBonusType  uint8
	HarmonyLevel     uint8
	Sockets          [socketCount]uint8
}

// ParseItemDisplay decodes itemData per spec §4.6. The blob must be at
// least 3 bytes (byte 0 is the item's base index, not consumed here;
// bytes 1-2 carry the option/level/luck/skill bits and durability).
func ParseItemDisplay(itemData []byte) (ItemDisplay, error) {
	if len(itemData) < 3 {
		return ItemDisplay{}, fmt.Errorf("item display: item data too short (len=%d, need >= 3)", len(itemData))
	}

	b1 := itemData[1]
	b2 := itemData[2]

	var d ItemDisplay
	d.Luck = b1&0x04 != 0
	d.ItemLevel = (b1 & 0x78) >> 3
	d.Skill = b1&0x80 != 0
	d.Durability = b2

	optionLow := b1 & 0x03
	var optionHighBit uint8
	if len(itemData) > 3 {
		optionHighBit = (itemData[3] >> 6) & 0x01
	}
	d.OptionLevel = optionLow | (optionHighBit << 2)

	if len(itemData) > 3 {
		d.ExcellentOptions = itemData[3] & 0x3F
	}
	if len(itemData) > 4 {
		b4 := itemData[4]
		d.AncientSetID = b4 & 0x03
		d.AncientBonusLevel = (b4 >> 2) & 0x03
	}
	if len(itemData) > 5 {
		d.Flag380 = itemData[5]&0x08 != 0
	}
	if len(itemData) > 6 {
		b6 := itemData[6]
		d.HarmonyType = b6 >> 4
		d.SocketBonusType = b6 & 0x0F
	}
	if len(itemData) > 7 {
		d.HarmonyLevel = itemData[7]
		for i := 0; i < socketCount && 7+i < len(itemData); i++ {
			d.Sockets[i] = itemData[7+i]
		}
	}

	return d, nil
}

// SocketFilled reports whether socket slot i carries a gem (neither
// sentinel value).
func (d ItemDisplay) SocketFilled(i int) bool {
	if i < 0 || i >= socketCount {
		return false
	}
	v := d.Sockets[i]
	return v != SocketEmpty && v != SocketNone
}
