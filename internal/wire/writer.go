package wire

import (
	"bytes"
	"encoding/binary"
)

// Writer accumulates a packet payload in Little-Endian byte order.
// Unlike the teacher's pooled Writer, this client builds a handful of
// small outbound packets per user command, not thousands per tick, so a
// plain growable buffer is used rather than a sync.Pool.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter creates a Writer with the given initial capacity hint.
func NewWriter(capacityHint int) *Writer {
	w := &Writer{}
	w.buf.Grow(capacityHint)
	return w
}

// WriteByte writes a single byte.
func (w *Writer) WriteByte(b byte) {
	w.buf.WriteByte(b)
}

// WriteBool writes a boolean as a single byte (0 or 1).
func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// WriteUint16 writes a little-endian uint16.
func (w *Writer) WriteUint16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

// WriteUint32 writes a little-endian uint32.
func (w *Writer) WriteUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// WriteUint64 writes a little-endian uint64.
func (w *Writer) WriteUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// WriteFloat32 writes a little-endian IEEE-754 float32.
func (w *Writer) WriteFloat32(v float32) {
	w.WriteUint32(encodeFloat32(v))
}

// WriteBytes appends raw bytes verbatim.
func (w *Writer) WriteBytes(b []byte) {
	w.buf.Write(b)
}

// WriteZeros appends n zero bytes (used for field padding).
func (w *Writer) WriteZeros(n int) {
	for i := 0; i < n; i++ {
		w.buf.WriteByte(0)
	}
}

// WriteFixedASCII writes s truncated/zero-padded to exactly n bytes.
func (w *Writer) WriteFixedASCII(s string, n int) {
	b := make([]byte, n)
	copy(b, s)
	w.buf.Write(b)
}

// WriteCString writes s followed by a single NUL terminator.
func (w *Writer) WriteCString(s string) {
	w.buf.WriteString(s)
	w.buf.WriteByte(0)
}

// Bytes returns the accumulated payload.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}
