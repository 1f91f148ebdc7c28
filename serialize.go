// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nbuf

import (
	"encoding/binary"
	"math"
)

// SerializeBuffer is a linear byte buffer for encoding a message front
// to back and decoding it once: write everything, then read everything.
// For back-and-forth traffic use [SPSCRing] instead.
//
// Numbers go on the wire little-endian regardless of host order.
// Strings carry a uint32 length prefix counting bytes.
//
// Every failed read or write sets a sticky fail flag (and leaves the
// positions untouched), so a whole encode sequence can run unchecked
// and be validated once at the end via Failed. Only Clear resets the
// flag.
//
// The buffer never grows on its own; writes beyond the reserved
// capacity fail and the caller resizes explicitly via TryResize. To
// reuse a SerializeBuffer call Clear to rewind both positions.
type SerializeBuffer struct {
	buf      []byte
	posRead  int
	posWrite int
	fail     bool
}

// NewSerializeBuffer creates a buffer with the given reserved capacity
// in bytes.
func NewSerializeBuffer(capacity int) *SerializeBuffer {
	if capacity < 0 {
		panic("nbuf: negative buffer capacity")
	}
	b := &SerializeBuffer{}
	if capacity != 0 {
		b.buf = make([]byte, capacity)
	}
	return b
}

// Failed reports whether any read or write failed since the last
// Clear.
func (b *SerializeBuffer) Failed() bool {
	return b.fail
}

// TryWriteBytes appends p verbatim. Fails when p exceeds the remaining
// space.
func (b *SerializeBuffer) TryWriteBytes(p []byte) bool {
	if len(p) > b.AvailableSpace() {
		b.fail = true
		return false
	}
	copy(b.buf[b.posWrite:], p)
	b.posWrite += len(p)
	return true
}

// TryReadBytes fills dst and consumes the bytes. Fails when fewer
// bytes remain unread.
func (b *SerializeBuffer) TryReadBytes(dst []byte) bool {
	if !b.TryPeekBytes(dst) {
		return false
	}
	b.posRead += len(dst)
	return true
}

// TryPeekBytes fills dst without consuming.
func (b *SerializeBuffer) TryPeekBytes(dst []byte) bool {
	if len(dst) > b.UsedSpace() {
		b.fail = true
		return false
	}
	copy(dst, b.buf[b.posRead:])
	return true
}

// WriteUint8 appends one byte.
func (b *SerializeBuffer) WriteUint8(v uint8) bool {
	return b.TryWriteBytes([]byte{v})
}

// WriteUint16 appends v little-endian.
func (b *SerializeBuffer) WriteUint16(v uint16) bool {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return b.TryWriteBytes(tmp[:])
}

// WriteUint32 appends v little-endian.
func (b *SerializeBuffer) WriteUint32(v uint32) bool {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return b.TryWriteBytes(tmp[:])
}

// WriteUint64 appends v little-endian.
func (b *SerializeBuffer) WriteUint64(v uint64) bool {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return b.TryWriteBytes(tmp[:])
}

// WriteInt8 appends one byte.
func (b *SerializeBuffer) WriteInt8(v int8) bool { return b.WriteUint8(uint8(v)) }

// WriteInt16 appends v little-endian.
func (b *SerializeBuffer) WriteInt16(v int16) bool { return b.WriteUint16(uint16(v)) }

// WriteInt32 appends v little-endian.
func (b *SerializeBuffer) WriteInt32(v int32) bool { return b.WriteUint32(uint32(v)) }

// WriteInt64 appends v little-endian.
func (b *SerializeBuffer) WriteInt64(v int64) bool { return b.WriteUint64(uint64(v)) }

// WriteFloat32 appends the IEEE 754 bits of v little-endian.
func (b *SerializeBuffer) WriteFloat32(v float32) bool {
	return b.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 appends the IEEE 754 bits of v little-endian.
func (b *SerializeBuffer) WriteFloat64(v float64) bool {
	return b.WriteUint64(math.Float64bits(v))
}

// ReadUint8 consumes one byte.
func (b *SerializeBuffer) ReadUint8() (uint8, bool) {
	var tmp [1]byte
	if !b.TryReadBytes(tmp[:]) {
		return 0, false
	}
	return tmp[0], true
}

// ReadUint16 consumes a little-endian uint16.
func (b *SerializeBuffer) ReadUint16() (uint16, bool) {
	var tmp [2]byte
	if !b.TryReadBytes(tmp[:]) {
		return 0, false
	}
	return binary.LittleEndian.Uint16(tmp[:]), true
}

// ReadUint32 consumes a little-endian uint32.
func (b *SerializeBuffer) ReadUint32() (uint32, bool) {
	var tmp [4]byte
	if !b.TryReadBytes(tmp[:]) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(tmp[:]), true
}

// ReadUint64 consumes a little-endian uint64.
func (b *SerializeBuffer) ReadUint64() (uint64, bool) {
	var tmp [8]byte
	if !b.TryReadBytes(tmp[:]) {
		return 0, false
	}
	return binary.LittleEndian.Uint64(tmp[:]), true
}

// ReadInt8 consumes one byte.
func (b *SerializeBuffer) ReadInt8() (int8, bool) {
	v, ok := b.ReadUint8()
	return int8(v), ok
}

// ReadInt16 consumes a little-endian int16.
func (b *SerializeBuffer) ReadInt16() (int16, bool) {
	v, ok := b.ReadUint16()
	return int16(v), ok
}

// ReadInt32 consumes a little-endian int32.
func (b *SerializeBuffer) ReadInt32() (int32, bool) {
	v, ok := b.ReadUint32()
	return int32(v), ok
}

// ReadInt64 consumes a little-endian int64.
func (b *SerializeBuffer) ReadInt64() (int64, bool) {
	v, ok := b.ReadUint64()
	return int64(v), ok
}

// ReadFloat32 consumes a little-endian IEEE 754 float32.
func (b *SerializeBuffer) ReadFloat32() (float32, bool) {
	v, ok := b.ReadUint32()
	return math.Float32frombits(v), ok
}

// ReadFloat64 consumes a little-endian IEEE 754 float64.
func (b *SerializeBuffer) ReadFloat64() (float64, bool) {
	v, ok := b.ReadUint64()
	return math.Float64frombits(v), ok
}

// PeekUint32 reads a little-endian uint32 without consuming it.
func (b *SerializeBuffer) PeekUint32() (uint32, bool) {
	var tmp [4]byte
	if !b.TryPeekBytes(tmp[:]) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(tmp[:]), true
}

// WriteString appends a uint32 byte-length prefix followed by the
// string bytes. Fails atomically: nothing is written unless prefix and
// payload both fit.
func (b *SerializeBuffer) WriteString(s string) bool {
	if 4+len(s) > b.AvailableSpace() {
		b.fail = true
		return false
	}
	b.WriteUint32(uint32(len(s)))
	copy(b.buf[b.posWrite:], s)
	b.posWrite += len(s)
	return true
}

// ReadString consumes a length-prefixed string. Fails atomically: the
// prefix is consumed only when the full payload is present.
func (b *SerializeBuffer) ReadString() (string, bool) {
	length, ok := b.PeekUint32()
	if !ok {
		return "", false
	}
	if 4+int(length) > b.UsedSpace() {
		b.fail = true
		return "", false
	}
	b.posRead += 4
	s := string(b.buf[b.posRead : b.posRead+int(length)])
	b.posRead += int(length)
	return s, true
}

// PeekString reads a length-prefixed string without consuming it.
func (b *SerializeBuffer) PeekString() (string, bool) {
	prev := b.posRead
	s, ok := b.ReadString()
	if !ok {
		return "", false
	}
	b.posRead = prev
	return s, true
}

// Clear rewinds both positions and resets the fail flag, making the
// buffer reusable for a fresh message.
func (b *SerializeBuffer) Clear() {
	b.posRead = 0
	b.posWrite = 0
	b.fail = false
}

// TryResize reallocates the buffer, compacting unread bytes to the
// front. Fails when the new capacity cannot hold the unread bytes, or
// equals the current capacity (nothing would change).
func (b *SerializeBuffer) TryResize(capacity int) bool {
	used := b.UsedSpace()
	if capacity < 0 || capacity < used || capacity == len(b.buf) {
		return false
	}

	var buf []byte
	if capacity != 0 {
		buf = make([]byte, capacity)
		copy(buf, b.buf[b.posRead:b.posWrite])
	}
	b.buf = buf
	b.posRead = 0
	b.posWrite = used
	return true
}

// Cap returns the reserved capacity in bytes.
func (b *SerializeBuffer) Cap() int {
	return len(b.buf)
}

// Empty reports read position has caught up with write position. Both
// Empty and Full hold at once when both positions sit at the buffer
// end.
func (b *SerializeBuffer) Empty() bool {
	return b.posRead == b.posWrite
}

// Full reports no write space remains; see the Empty caveat.
func (b *SerializeBuffer) Full() bool {
	return b.AvailableSpace() == 0
}

// UsedSpace returns how many bytes can be read before empty.
func (b *SerializeBuffer) UsedSpace() int {
	return b.posWrite - b.posRead
}

// AvailableSpace returns how many bytes can be written before full.
func (b *SerializeBuffer) AvailableSpace() int {
	return len(b.buf) - b.posWrite
}

// Bytes exposes the raw buffer for zero-copy integration.
func (b *SerializeBuffer) Bytes() []byte {
	return b.buf
}

// ReadPos returns the read position.
func (b *SerializeBuffer) ReadPos() int {
	return b.posRead
}

// WritePos returns the write position.
func (b *SerializeBuffer) WritePos() int {
	return b.posWrite
}

// MoveReadPos shifts the read position by diff with no bounds check;
// for zero-copy consumers working through Bytes.
func (b *SerializeBuffer) MoveReadPos(diff int) {
	b.posRead += diff
}

// MoveWritePos shifts the write position by diff with no bounds check;
// for zero-copy producers working through Bytes.
func (b *SerializeBuffer) MoveWritePos(diff int) {
	b.posWrite += diff
}
