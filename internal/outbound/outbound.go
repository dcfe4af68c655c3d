// Package outbound builds the client→server packets of spec §6
// "Outbound": Login, RequestCharacterList, SelectCharacter,
// InstantMoveRequest, WalkRequest, PickupItemRequest, AnimationRequest,
// ServerListRequest, ConnectionInfoRequest.
//
// Grounded on the teacher's internal/gameserver/clientpackets/*.go shape
// (a documented wire layout plus a struct and a function that turns it
// into/from bytes) but inverted: the teacher's files Parse payloads into
// structs; these Build structs into payloads, since this module is the
// client, not the server.
package outbound

import (
	"github.com/xulek/muonline-console-client/internal/config"
	"github.com/xulek/muonline-console-client/internal/crypto"
	"github.com/xulek/muonline-console-client/internal/wire"
)

// Opcodes for the outbound messages named in spec §6.
const (
	OpcodeLogin               byte = 0xF1
	SubLogin                  byte = 0x01
	OpcodeRequestCharacterList byte = 0xF3
	SubRequestCharacterList   byte = 0x00
	OpcodeSelectCharacter     byte = 0xF3
	SubSelectCharacter        byte = 0x01
	OpcodeInstantMove         byte = 0xD4
	SubInstantMove            byte = 0x03
	OpcodeWalkRequest         byte = 0xD4
	SubWalkRequest            byte = 0x00
	OpcodePickupItem097       byte = 0x22 // C3/0x22 for >=0.97
	OpcodePickupItem075       byte = 0x22 // C1/0x22 for 0.75
	OpcodeAnimationRequest    byte = 0x18
	OpcodeServerListRequest   byte = 0xF4
	SubServerListRequest      byte = 0x05
	OpcodeConnectionInfoRequest byte = 0xF4
	SubConnectionInfoRequest  byte = 0x03
)

// BuildLogin constructs the Login payload: Xor3'd username/password (each
// padded to 10 bytes, matching the character-select name field width),
// TickCount (monotonic ms as uint32), client version (5 bytes) and client
// serial (16 bytes) (spec §6 "Login (fixed layout...)").
func BuildLogin(cfg config.Config, username, password string, tickCountMS uint32) []byte {
	w := wire.NewWriter(64)

	userField := fixedASCIIBytes(username, 10)
	passField := fixedASCIIBytes(password, 10)
	crypto.Xor3Encrypt(userField, crypto.Xor3Key)
	crypto.Xor3Encrypt(passField, crypto.Xor3Key)

	w.WriteBytes(userField)
	w.WriteBytes(passField)
	w.WriteUint32(tickCountMS)
	w.WriteBytes(cfg.ClientVersion[:])
	w.WriteBytes(cfg.ClientSerial[:])
	return w.Bytes()
}

// BuildRequestCharacterList constructs the (empty-payload)
// RequestCharacterList message.
func BuildRequestCharacterList() []byte {
	return nil
}

// BuildSelectCharacter constructs SelectCharacter: name as 10 ASCII bytes,
// null-terminated/padded (spec §6).
func BuildSelectCharacter(name string) []byte {
	w := wire.NewWriter(10)
	w.WriteFixedASCII(name, 10)
	return w.Bytes()
}

// BuildInstantMoveRequest constructs InstantMoveRequest(x, y).
func BuildInstantMoveRequest(x, y uint8) []byte {
	w := wire.NewWriter(2)
	w.WriteByte(x)
	w.WriteByte(y)
	return w.Bytes()
}

// BuildWalkRequest constructs WalkRequest: source x/y, step count, a
// 4-bit-packed direction array, and an initial rotation (spec §6).
// directions holds one logical direction (0-7) per step; each pair of
// steps is packed into one byte (4 bits each), matching the protocol's
// nibble-packed path encoding.
func BuildWalkRequest(cfg config.Config, srcX, srcY uint8, directions []uint8, initialRotation uint8) []byte {
	w := wire.NewWriter(8 + len(directions)/2 + 1)
	w.WriteByte(srcX)
	w.WriteByte(srcY)
	w.WriteByte(uint8(len(directions)))

	packed := packDirections(cfg, directions)
	w.WriteBytes(packed)
	w.WriteByte(initialRotation)
	return w.Bytes()
}

// packDirections maps each logical direction through cfg.DirectionMap and
// packs two wire-direction nibbles per output byte.
func packDirections(cfg config.Config, directions []uint8) []byte {
	out := make([]byte, (len(directions)+1)/2)
	for i, dir := range directions {
		wireDir := cfg.DirectionMap[dir&0x07] & 0x0F
		if i%2 == 0 {
			out[i/2] |= wireDir << 4
		} else {
			out[i/2] |= wireDir
		}
	}
	return out
}

// BuildWalkTerminator constructs the zero-step walk message that signals
// stop or rotate-only (spec §4.6 "Step-count of zero signals a walk
// terminator").
func BuildWalkTerminator(srcX, srcY, rotation uint8) []byte {
	w := wire.NewWriter(4)
	w.WriteByte(srcX)
	w.WriteByte(srcY)
	w.WriteByte(0) // step count
	w.WriteByte(rotation)
	return w.Bytes()
}

// BuildPickupItemRequest constructs PickupItemRequest; itemID is written
// big-endian (spec §6). The caller selects C1 vs C3 framing based on
// protocol version (spec §6 "C3/0x22 for >=0.97; C1/0x22 for 0.75").
func BuildPickupItemRequest(itemID uint16) []byte {
	w := wire.NewWriter(2)
	w.WriteByte(byte(itemID >> 8))
	w.WriteByte(byte(itemID))
	return w.Bytes()
}

// BuildAnimationRequest constructs AnimationRequest(animationID).
func BuildAnimationRequest(animationID uint8) []byte {
	w := wire.NewWriter(1)
	w.WriteByte(animationID)
	return w.Bytes()
}

// BuildServerListRequest constructs the (empty-payload) ServerListRequest.
func BuildServerListRequest() []byte {
	return nil
}

// BuildConnectionInfoRequest constructs ConnectionInfoRequest(serverID).
func BuildConnectionInfoRequest(serverID uint16) []byte {
	w := wire.NewWriter(2)
	w.WriteUint16(serverID)
	return w.Bytes()
}

// fixedASCIIBytes returns s truncated/padded to exactly n bytes with
// trailing NULs, for fields that are Xor3'd before framing (Xor3Encrypt
// needs a plain []byte, not the wire.Writer's higher-level helper).
func fixedASCIIBytes(s string, n int) []byte {
	out := make([]byte, n)
	copy(out, s)
	return out
}
