// Package wire implements the framed byte transport described in spec §4.1:
// four header shapes (C1/C2/C3/C4) distinguished by their first byte, plus
// the length-prefixed read/write primitives built on top of them. It is
// grounded on the teacher's internal/protocol/packet.go and
// internal/gslistener/protocol.go (length-header-then-body framing), and on
// internal/gameserver/packet/{reader,writer}.go for the byte cursor API.
package wire

import (
	"encoding/binary"
	"fmt"
)

// Frame type bytes (spec §4.1).
const (
	TypeC1 byte = 0xC1 // plain, 1-byte length
	TypeC2 byte = 0xC2 // plain, 2-byte length
	TypeC3 byte = 0xC3 // encrypted, 1-byte length
	TypeC4 byte = 0xC4 // encrypted, 2-byte length
)

// MaxFrameLength bounds a single frame's total length (header inclusive).
// A frame claiming to be larger is treated as corrupt (spec §4.1 "Failures").
const MaxFrameLength = 8 * 1024

// HeaderSize returns the frame header length in bytes for the given type:
// 2 for C1/C3 (type + 1-byte length), 3 for C2/C4 (type + 2-byte length).
func HeaderSize(frameType byte) (int, error) {
	switch frameType {
	case TypeC1, TypeC3:
		return 2, nil
	case TypeC2, TypeC4:
		return 3, nil
	default:
		return 0, fmt.Errorf("wire: unknown frame type 0x%02X", frameType)
	}
}

// IsEncryptedType reports whether frameType carries a SimpleModulus-encrypted
// payload (C3/C4) as opposed to a plain one (C1/C2).
func IsEncryptedType(frameType byte) bool {
	return frameType == TypeC3 || frameType == TypeC4
}

// Frame is one decoded length-prefixed unit: the wire type, the main code,
// and the body following the main-code byte. Any sub-code is still the
// first body byte; router.Split peels it (see internal/router/subcode.go).
type Frame struct {
	Type byte
	Main byte
	Body []byte // payload after the main-code byte; sub-code is peeled by the router
}

// Encode serializes a frame of the requested type with the given main code
// and payload, choosing between the 1-byte and 2-byte length variants is the
// CALLER's responsibility (via frameType) — see EncodeAuto for automatic
// selection.
func Encode(frameType byte, mainCode byte, payload []byte) ([]byte, error) {
	headerSize, err := HeaderSize(frameType)
	if err != nil {
		return nil, err
	}
	total := headerSize + 1 + len(payload)
	if total > MaxFrameLength {
		return nil, fmt.Errorf("wire: encoded frame length %d exceeds max %d", total, MaxFrameLength)
	}

	buf := make([]byte, total)
	buf[0] = frameType
	switch frameType {
	case TypeC1, TypeC3:
		if total > 0xFF {
			return nil, fmt.Errorf("wire: frame too large (%d) for 1-byte length type 0x%02X", total, frameType)
		}
		buf[1] = byte(total)
	case TypeC2, TypeC4:
		binary.BigEndian.PutUint16(buf[1:3], uint16(total))
	}
	buf[headerSize] = mainCode
	copy(buf[headerSize+1:], payload)
	return buf, nil
}

// EncodeWithSub is like Encode but prepends a sub-code byte ahead of
// payload when hasSub is true, matching how the router/subcode registry
// expects (main,sub) framed messages to be laid out on the wire (spec
// §4.4): main-code byte, then sub-code byte, then the rest of the body.
func EncodeWithSub(frameType byte, mainCode byte, hasSub bool, sub byte, payload []byte) ([]byte, error) {
	if !hasSub {
		return Encode(frameType, mainCode, payload)
	}
	full := make([]byte, 0, 1+len(payload))
	full = append(full, sub)
	full = append(full, payload...)
	return Encode(frameType, mainCode, full)
}

// EncodeAuto picks C1 vs C2 (or C3 vs C4, when encrypted is true) based on
// whether the total frame fits in a 1-byte length.
func EncodeAuto(encrypted bool, mainCode byte, payload []byte) ([]byte, error) {
	headerSize := 2
	total := headerSize + 1 + len(payload)
	useShort := total <= 0xFF

	var frameType byte
	switch {
	case !encrypted && useShort:
		frameType = TypeC1
	case !encrypted && !useShort:
		frameType = TypeC2
		headerSize = 3
	case encrypted && useShort:
		frameType = TypeC3
	default:
		frameType = TypeC4
		headerSize = 3
	}
	_ = headerSize
	return Encode(frameType, mainCode, payload)
}

// PeekLength inspects the first bytes of buf (without consuming them) and
// returns the total frame length (header inclusive) once enough bytes are
// available. ok is false if buf does not yet contain enough bytes to know
// the length.
func PeekLength(buf []byte) (length int, headerSize int, ok bool, err error) {
	if len(buf) < 1 {
		return 0, 0, false, nil
	}
	frameType := buf[0]
	headerSize, err = HeaderSize(frameType)
	if err != nil {
		return 0, 0, false, err
	}
	if len(buf) < headerSize {
		return 0, 0, false, nil
	}
	switch frameType {
	case TypeC1, TypeC3:
		length = int(buf[1])
	case TypeC2, TypeC4:
		length = int(binary.BigEndian.Uint16(buf[1:3]))
	}
	if length < headerSize+1 {
		return 0, 0, false, fmt.Errorf("wire: malformed frame length %d (header %d)", length, headerSize)
	}
	if length > MaxFrameLength {
		return 0, 0, false, fmt.Errorf("wire: frame length %d exceeds max %d", length, MaxFrameLength)
	}
	return length, headerSize, true, nil
}

// Decode parses a complete frame (buf must hold exactly one frame, as
// returned by PeekLength) into its type/main-code/body. It does not peel
// the sub-code — that is the router's job (package router, subcode.go),
// since whether the first payload byte is a sub-code depends on main code
// membership in a per-phase registry.
func Decode(buf []byte) (Frame, error) {
	length, headerSize, ok, err := PeekLength(buf)
	if err != nil {
		return Frame{}, err
	}
	if !ok || len(buf) < length {
		return Frame{}, fmt.Errorf("wire: incomplete frame (have %d, want %d)", len(buf), length)
	}
	return Frame{
		Type: buf[0],
		Main: buf[headerSize],
		Body: buf[headerSize+1 : length],
	}, nil
}

// HexDump formats b as a space-separated hex string for decode-error
// logging (spec §7: "logged with packet hex").
func HexDump(b []byte) string {
	const maxBytes = 256
	n := len(b)
	truncated := false
	if n > maxBytes {
		n = maxBytes
		truncated = true
	}
	out := make([]byte, 0, n*3+16)
	for i := 0; i < n; i++ {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, hexDigits[b[i]>>4], hexDigits[b[i]&0xF])
	}
	if truncated {
		out = append(out, []byte(fmt.Sprintf(" ...(%d more bytes)", len(b)-maxBytes))...)
	}
	return string(out)
}

var hexDigits = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'A', 'B', 'C', 'D', 'E', 'F'}
