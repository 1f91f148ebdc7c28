// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nbuf

import "code.hybscloud.com/atomix"

// SPSCRing is a circular byte buffer for exactly one producer
// goroutine and one consumer goroutine, synchronized purely through
// acquire/release ordering on two cursors. No compare-and-swap is
// needed: each cursor is written by one side and read by the other,
// the minimal synchronization the SPSC pattern admits.
//
// The internal buffer holds one byte more than the effective capacity,
// so empty (read == write) and full (write+1 == read, modulo the
// buffer size) stay distinguishable without a shared counter. Cursor
// arithmetic is modular against the true buffer size, not a power-of-
// two mask, because TryResize must honor arbitrary capacities.
//
// The ring never grows on its own; a full ring reports false and the
// caller resizes explicitly, in a single-threaded window.
//
// Method comments mark each operation's role. Calling a producer-only
// method from two goroutines, or overlapping a single-thread-only
// method with any traffic, is undefined behavior.
type SPSCRing struct {
	buf      []byte
	capacity uint64 // len(buf) when allocated; 1 for a zero-capacity ring
	_        pad
	posRead  atomix.Uint64 // owned by the consumer
	_        pad
	posWrite atomix.Uint64 // owned by the producer
	_        pad
}

// NewSPSCRing creates a ring able to buffer effectiveCapacity bytes.
// A zero capacity defers allocation: every write fails until the ring
// is resized.
func NewSPSCRing(effectiveCapacity int) *SPSCRing {
	if effectiveCapacity < 0 {
		panic("nbuf: negative ring capacity")
	}
	r := &SPSCRing{capacity: uint64(effectiveCapacity) + 1}
	if effectiveCapacity != 0 {
		r.buf = make([]byte, effectiveCapacity+1)
	}
	return r
}

// TryWrite copies p into the ring (producer only). Fails without a
// partial write when p exceeds the currently available write space.
// The copy runs in one phase, or two when it spans the wrap point; the
// release store on the write cursor afterwards is what makes the new
// bytes visible to the consumer's next acquire load.
func (r *SPSCRing) TryWrite(p []byte) bool {
	if uint64(len(p)) > r.AvailableWrite() {
		return false
	}
	r.writeAt(p)
	r.AdvanceWritePos(len(p))
	return true
}

// TryRead copies len(dst) bytes out of the ring and consumes them
// (consumer only). Fails without a partial read when fewer bytes are
// buffered.
func (r *SPSCRing) TryRead(dst []byte) bool {
	if !r.TryPeek(dst) {
		return false
	}
	r.AdvanceReadPos(len(dst))
	return true
}

// TryPeek copies len(dst) bytes out of the ring without consuming them
// (consumer only).
func (r *SPSCRing) TryPeek(dst []byte) bool {
	if uint64(len(dst)) > r.AvailableRead() {
		return false
	}
	r.readAt(dst)
	return true
}

// Read drains up to len(p) bytes into p (consumer only). Returns
// ErrWouldBlock when the ring is empty and len(p) > 0. Implements
// io.Reader for nonblocking pipelines; pair with iox.Backoff.
func (r *SPSCRing) Read(p []byte) (int, error) {
	n := r.AvailableRead()
	if n > uint64(len(p)) {
		n = uint64(len(p))
	}
	if n == 0 {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, ErrWouldBlock
	}
	r.readAt(p[:n])
	r.AdvanceReadPos(int(n))
	return int(n), nil
}

// Write copies as much of p as fits (producer only). Returns the byte
// count moved and ErrWouldBlock when that is less than len(p), per the
// io.Writer contract for short writes.
func (r *SPSCRing) Write(p []byte) (int, error) {
	n := r.AvailableWrite()
	if n > uint64(len(p)) {
		n = uint64(len(p))
	}
	if n > 0 {
		r.writeAt(p[:n])
		r.AdvanceWritePos(int(n))
	}
	if int(n) < len(p) {
		return int(n), ErrWouldBlock
	}
	return int(n), nil
}

// AvailableRead returns how many bytes can be read before empty
// (consumer only). Acquire load of the producer's cursor, relaxed load
// of the own cursor; the pairing with TryWrite's release store is what
// makes the handoff safe without locks.
func (r *SPSCRing) AvailableRead() uint64 {
	return (r.capacity + r.posWrite.LoadAcquire() - r.posRead.LoadRelaxed()) % r.capacity
}

// AvailableWrite returns how many bytes can be written before full
// (producer only).
func (r *SPSCRing) AvailableWrite() uint64 {
	return r.Cap() - (r.capacity+r.posWrite.LoadRelaxed()-r.posRead.LoadAcquire())%r.capacity
}

// Empty reports whether no bytes are buffered (consumer only).
func (r *SPSCRing) Empty() bool {
	return r.AvailableRead() == 0
}

// Full reports whether no write space remains (producer only).
func (r *SPSCRing) Full() bool {
	return r.AvailableWrite() == 0
}

// Cap returns the effective capacity: the number of bytes the ring can
// buffer.
func (r *SPSCRing) Cap() uint64 {
	return r.capacity - 1
}

// BufferCap returns the raw buffer size, one byte above Cap.
func (r *SPSCRing) BufferCap() uint64 {
	return r.capacity
}

// Clear resets both cursors (single-thread only).
func (r *SPSCRing) Clear() {
	r.posRead.StoreRelaxed(0)
	r.posWrite.StoreRelaxed(0)
}

// TryResize reallocates the ring to a new effective capacity,
// preserving buffered bytes (single-thread only). Fails when the new
// capacity cannot hold the currently buffered data, or equals the
// current capacity — a no-op resize reports false so the caller knows
// nothing changed.
func (r *SPSCRing) TryResize(effectiveCapacity int) bool {
	used := r.AvailableRead()
	if effectiveCapacity < 0 || uint64(effectiveCapacity) < used || uint64(effectiveCapacity) == r.Cap() {
		return false
	}

	var buf []byte
	if effectiveCapacity != 0 {
		buf = make([]byte, effectiveCapacity+1)
		if used > 0 {
			r.readAt(buf[:used])
		}
	}

	r.posRead.StoreRelaxed(0)
	r.posWrite.StoreRelaxed(used)
	r.buf = buf
	r.capacity = uint64(effectiveCapacity) + 1
	return true
}

// MonitorUsed samples the buffered byte count from a thread that is
// neither producer nor consumer. Neither cursor is owned by the
// caller, so both are loaded with acquire ordering; the figure is a
// snapshot and may be stale by the time it is returned.
func (r *SPSCRing) MonitorUsed() uint64 {
	posRead := r.posRead.LoadAcquire()
	posWrite := r.posWrite.LoadAcquire()
	return (r.capacity - posRead + posWrite) % r.capacity
}

// MonitorFree samples the free space; see MonitorUsed.
func (r *SPSCRing) MonitorFree() uint64 {
	return r.Cap() - r.MonitorUsed()
}

// Bytes exposes the raw buffer for zero-copy integration with a
// serializer or socket loop, together with the cursor accessors below.
// The extra trailing byte belongs to the ring, not the caller.
func (r *SPSCRing) Bytes() []byte {
	return r.buf
}

// ReadPos returns the read cursor (consumer only).
func (r *SPSCRing) ReadPos() uint64 {
	return r.posRead.LoadRelaxed()
}

// WritePos returns the write cursor (producer only).
func (r *SPSCRing) WritePos() uint64 {
	return r.posWrite.LoadRelaxed()
}

// ConsecutiveReadLen returns how many buffered bytes can be read
// without wrapping (consumer only).
func (r *SPSCRing) ConsecutiveReadLen() uint64 {
	return min(r.capacity-r.posRead.LoadRelaxed(), r.AvailableRead())
}

// ConsecutiveWriteLen returns how many bytes can be written without
// wrapping (producer only).
func (r *SPSCRing) ConsecutiveWriteLen() uint64 {
	return min(r.capacity-r.posWrite.LoadRelaxed(), r.AvailableWrite())
}

// AdvanceReadPos moves the read cursor by diff with a release store
// (consumer only). No bounds check: intended for zero-copy consumers
// that already read via Bytes.
func (r *SPSCRing) AdvanceReadPos(diff int) {
	pos := r.posRead.LoadRelaxed()
	r.posRead.StoreRelease(uint64(int64(pos)+int64(diff)+int64(r.capacity)) % r.capacity)
}

// AdvanceWritePos moves the write cursor by diff with a release store
// (producer only). No bounds check: intended for zero-copy producers
// that already wrote via Bytes.
func (r *SPSCRing) AdvanceWritePos(diff int) {
	pos := r.posWrite.LoadRelaxed()
	r.posWrite.StoreRelease(uint64(int64(pos)+int64(diff)+int64(r.capacity)) % r.capacity)
}

// writeAt copies p starting at the write cursor, splitting at the wrap
// point when needed. Caller has verified the space.
func (r *SPSCRing) writeAt(p []byte) {
	pos := r.posWrite.LoadRelaxed()
	n1 := copy(r.buf[pos:], p)
	if n1 < len(p) {
		copy(r.buf, p[n1:])
	}
}

// readAt copies into dst starting at the read cursor, splitting at the
// wrap point when needed. Caller has verified the length.
func (r *SPSCRing) readAt(dst []byte) {
	pos := r.posRead.LoadRelaxed()
	n1 := copy(dst, r.buf[pos:])
	if n1 < len(dst) {
		copy(dst[n1:], r.buf)
	}
}
