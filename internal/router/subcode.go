// Package router implements the sub-code registry and packet dispatch of
// spec §4.4 "Sub-code registry" and §4.5 "Packet router".
//
// Grounded on the teacher's internal/gslistener/handler.go opcode-to-state
// dispatch (a switch keyed on connection state, then opcode); generalized
// here to a map-keyed registry since this client's two registries
// (Connect-Server, Game-Server) are built once at startup rather than
// varying per in-flight connection state.
package router

// NoSubCode is the sentinel sub-code for main codes not in a registry
// (spec §4.4).
const NoSubCode = 0xFF

// SubCodeSet is a constant set of main codes whose first payload byte is a
// sub-code rather than payload (spec §4.4).
type SubCodeSet map[byte]bool

// ConnectServerSubCodes is the Connect-Server sub-coded main code set
// (spec §4.4 example: 0x00, 0xF4, 0x05).
var ConnectServerSubCodes = SubCodeSet{
	0x00: true,
	0xF4: true,
	0x05: true,
}

// GameServerSubCodes is the Game-Server sub-coded main code set (spec
// §4.4, "the canonical list is the union of all enumerated in §6").
var GameServerSubCodes = SubCodeSet{
	0xF1: true, 0xF3: true, 0x26: true, 0x27: true, 0x1C: true,
	0xAA: true, 0xAF: true, 0xB2: true, 0xB3: true, 0xBD: true,
	0xBF: true, 0xC1: true, 0xD0: true, 0xD1: true, 0xD2: true,
	0xE1: true, 0xE2: true, 0xE3: true, 0xE4: true, 0xE5: true, 0xE6: true,
	0xEB: true,
	0xF6: true, 0xF7: true, 0xF8: true, 0xF9: true,
	0xDE: true, 0x3A: true, 0x3F: true,
}

// Split consumes the sub-code from payload per §4.4: if mainCode is a
// member of set, the first payload byte is the sub-code and the
// remainder is the logical body; otherwise sub is NoSubCode and the
// entire payload is the body.
func Split(set SubCodeSet, mainCode byte, payload []byte) (sub byte, body []byte) {
	if !set[mainCode] {
		return NoSubCode, payload
	}
	if len(payload) == 0 {
		return NoSubCode, payload
	}
	return payload[0], payload[1:]
}
