// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nbuf_test

import (
	"bytes"
	"testing"

	"code.hybscloud.com/nbuf"
)

func TestSPSCRingBasic(t *testing.T) {
	r := nbuf.NewSPSCRing(8)
	if got, want := r.Cap(), uint64(8); got != want {
		t.Fatalf("Cap: got %d, want %d", got, want)
	}
	if got, want := r.BufferCap(), uint64(9); got != want {
		t.Fatalf("BufferCap: got %d, want %d", got, want)
	}
	if !r.Empty() {
		t.Fatal("new ring not empty")
	}

	if !r.TryWrite([]byte("abcd")) {
		t.Fatal("TryWrite failed with space available")
	}
	if got, want := r.AvailableRead(), uint64(4); got != want {
		t.Fatalf("AvailableRead: got %d, want %d", got, want)
	}
	if got, want := r.AvailableWrite(), uint64(4); got != want {
		t.Fatalf("AvailableWrite: got %d, want %d", got, want)
	}

	dst := make([]byte, 4)
	if !r.TryRead(dst) {
		t.Fatal("TryRead failed with data available")
	}
	if string(dst) != "abcd" {
		t.Fatalf("TryRead: got %q, want %q", dst, "abcd")
	}
	if !r.Empty() {
		t.Fatal("ring not empty after draining")
	}
}

// The ring must hold exactly its effective capacity: a write filling it
// completely succeeds, one more byte fails, and draining restores the
// full write space.
func TestSPSCRingBoundary(t *testing.T) {
	const n = 5
	r := nbuf.NewSPSCRing(n)

	full := bytes.Repeat([]byte{0xa5}, n)
	if !r.TryWrite(full) {
		t.Fatalf("TryWrite of %d bytes failed on capacity-%d ring", n, n)
	}
	if !r.Full() {
		t.Fatal("ring not full at capacity")
	}
	if r.TryWrite([]byte{1}) {
		t.Fatal("TryWrite succeeded on full ring")
	}

	dst := make([]byte, n)
	if !r.TryRead(dst) {
		t.Fatal("TryRead failed on full ring")
	}
	if !bytes.Equal(dst, full) {
		t.Fatalf("TryRead: got % x, want % x", dst, full)
	}
	if r.TryRead(dst[:1]) {
		t.Fatal("TryRead succeeded on empty ring")
	}
	if got, want := r.AvailableWrite(), uint64(n); got != want {
		t.Fatalf("AvailableWrite after drain: got %d, want %d", got, want)
	}
}

func TestSPSCRingWrap(t *testing.T) {
	r := nbuf.NewSPSCRing(4)
	dst := make([]byte, 3)

	// Walk the cursors around the buffer several times so every write
	// and read crosses the wrap point at least once.
	for i := range 16 {
		src := []byte{byte(i), byte(i + 1), byte(i + 2)}
		if !r.TryWrite(src) {
			t.Fatalf("cycle %d: TryWrite failed", i)
		}
		if !r.TryRead(dst) {
			t.Fatalf("cycle %d: TryRead failed", i)
		}
		if !bytes.Equal(dst, src) {
			t.Fatalf("cycle %d: got % x, want % x", i, dst, src)
		}
	}
}

func TestSPSCRingPeek(t *testing.T) {
	r := nbuf.NewSPSCRing(8)
	r.TryWrite([]byte("hello"))

	dst := make([]byte, 5)
	if !r.TryPeek(dst) {
		t.Fatal("TryPeek failed")
	}
	if string(dst) != "hello" {
		t.Fatalf("TryPeek: got %q, want %q", dst, "hello")
	}
	if got, want := r.AvailableRead(), uint64(5); got != want {
		t.Fatalf("AvailableRead after peek: got %d, want %d", got, want)
	}
	if r.TryPeek(make([]byte, 6)) {
		t.Fatal("TryPeek succeeded beyond buffered length")
	}
	if !r.TryRead(dst) || string(dst) != "hello" {
		t.Fatal("TryRead after peek returned wrong data")
	}
}

func TestSPSCRingClear(t *testing.T) {
	r := nbuf.NewSPSCRing(8)
	r.TryWrite([]byte("junk"))
	r.Clear()
	if !r.Empty() {
		t.Fatal("ring not empty after Clear")
	}
	if got, want := r.AvailableWrite(), uint64(8); got != want {
		t.Fatalf("AvailableWrite after Clear: got %d, want %d", got, want)
	}
}

func TestSPSCRingResize(t *testing.T) {
	r := nbuf.NewSPSCRing(4)
	r.TryWrite([]byte{1, 2, 3})

	// Shrinking below the buffered length must fail and leave the data
	// untouched.
	if r.TryResize(2) {
		t.Fatal("TryResize below buffered length succeeded")
	}
	// Resizing to the current capacity is a refused no-op.
	if r.TryResize(4) {
		t.Fatal("TryResize to current capacity succeeded")
	}

	if !r.TryResize(16) {
		t.Fatal("TryResize grow failed")
	}
	if got, want := r.Cap(), uint64(16); got != want {
		t.Fatalf("Cap after grow: got %d, want %d", got, want)
	}
	dst := make([]byte, 3)
	if !r.TryRead(dst) || !bytes.Equal(dst, []byte{1, 2, 3}) {
		t.Fatalf("buffered bytes lost across resize: got % x", dst)
	}

	// Shrink-to-fit down to the exact buffered length.
	r.TryWrite([]byte{7, 8})
	if !r.TryResize(2) {
		t.Fatal("TryResize to buffered length failed")
	}
	if !r.Full() {
		t.Fatal("ring not full after exact shrink")
	}
	if !r.TryRead(dst[:2]) || !bytes.Equal(dst[:2], []byte{7, 8}) {
		t.Fatalf("buffered bytes lost across shrink: got % x", dst[:2])
	}
}

func TestSPSCRingZeroCapacity(t *testing.T) {
	r := nbuf.NewSPSCRing(0)
	if got := r.Cap(); got != 0 {
		t.Fatalf("Cap: got %d, want 0", got)
	}
	if r.TryWrite([]byte{1}) {
		t.Fatal("TryWrite succeeded on zero-capacity ring")
	}
	if !r.TryResize(4) {
		t.Fatal("TryResize from zero failed")
	}
	if !r.TryWrite([]byte{1, 2}) {
		t.Fatal("TryWrite failed after resize")
	}
}

func TestSPSCRingReadWriter(t *testing.T) {
	r := nbuf.NewSPSCRing(4)

	// Short write: 4 of 6 bytes fit, the rest is reported as would-block.
	n, err := r.Write([]byte("abcdef"))
	if n != 4 || !nbuf.IsWouldBlock(err) {
		t.Fatalf("Write: got (%d, %v), want (4, ErrWouldBlock)", n, err)
	}

	dst := make([]byte, 8)
	n, err = r.Read(dst)
	if n != 4 || err != nil {
		t.Fatalf("Read: got (%d, %v), want (4, nil)", n, err)
	}
	if string(dst[:4]) != "abcd" {
		t.Fatalf("Read: got %q, want %q", dst[:4], "abcd")
	}

	// Empty ring: would-block, not io.EOF; the producer may still show up.
	n, err = r.Read(dst)
	if n != 0 || !nbuf.IsWouldBlock(err) {
		t.Fatalf("Read on empty: got (%d, %v), want (0, ErrWouldBlock)", n, err)
	}
	if _, err = r.Read(nil); err != nil {
		t.Fatalf("zero-length Read: got %v, want nil", err)
	}
}

func TestSPSCRingMonitor(t *testing.T) {
	r := nbuf.NewSPSCRing(8)
	r.TryWrite([]byte{1, 2, 3})
	if got, want := r.MonitorUsed(), uint64(3); got != want {
		t.Fatalf("MonitorUsed: got %d, want %d", got, want)
	}
	if got, want := r.MonitorFree(), uint64(5); got != want {
		t.Fatalf("MonitorFree: got %d, want %d", got, want)
	}
}

// Zero-copy path: write through Bytes plus AdvanceWritePos, read back
// through the consecutive-length accessors.
func TestSPSCRingZeroCopy(t *testing.T) {
	r := nbuf.NewSPSCRing(8)

	if got, want := r.ConsecutiveWriteLen(), uint64(8); got != want {
		t.Fatalf("ConsecutiveWriteLen: got %d, want %d", got, want)
	}
	buf := r.Bytes()
	copy(buf[r.WritePos():], []byte("abc"))
	r.AdvanceWritePos(3)

	if got, want := r.ConsecutiveReadLen(), uint64(3); got != want {
		t.Fatalf("ConsecutiveReadLen: got %d, want %d", got, want)
	}
	got := buf[r.ReadPos() : r.ReadPos()+3]
	if string(got) != "abc" {
		t.Fatalf("zero-copy read: got %q, want %q", got, "abc")
	}
	r.AdvanceReadPos(3)
	if !r.Empty() {
		t.Fatal("ring not empty after zero-copy drain")
	}
}

func TestSPSCRingConsecutiveLenAtWrap(t *testing.T) {
	r := nbuf.NewSPSCRing(4) // buffer size 5

	// Move both cursors to position 3, then buffer 3 bytes; only 2 are
	// contiguous before the wrap.
	r.TryWrite([]byte{0, 0, 0})
	r.TryRead(make([]byte, 3))
	r.TryWrite([]byte{1, 2, 3})

	if got, want := r.ConsecutiveReadLen(), uint64(2); got != want {
		t.Fatalf("ConsecutiveReadLen: got %d, want %d", got, want)
	}
	if got, want := r.ConsecutiveWriteLen(), uint64(1); got != want {
		t.Fatalf("ConsecutiveWriteLen: got %d, want %d", got, want)
	}
}
