// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nbuf

import (
	"fmt"
	"math/bits"
	"unsafe"
)

// Compile-time bounds check: 8 <= vaBits <= 64.
const (
	_ = uint64(1) << (vaBits - 8)
	_ = uint64(1) << (64 - vaBits)
)

// upperTagMask covers the address bits above the configured
// virtual-address width. Bits inside the mask never carry address
// information on a conforming platform, so TaggedPtr claims them for
// tag storage.
const (
	upperTagBits = 64 - vaBits
	upperTagMask = ((1 << upperTagBits) - 1) << vaBits
)

// TaggedPtr packs a pointer and a small version tag into one 64-bit
// word. The tag lives in the upper bits beyond the virtual-address
// width and in the lower bits below T's natural alignment, so the
// address itself is stored losslessly.
//
// Compare-and-swap on a TaggedPtr word detects the ABA pattern: a CAS
// only inspects bit patterns, so an address that was popped and pushed
// back between the read and the compare would otherwise slip through.
// Bumping the tag on every pop makes the stale word compare unequal.
//
// TaggedPtr is a plain value; it does not keep the pointee reachable.
// As with the uintptr payloads of a lock-free free list, the caller
// must hold the pointee alive elsewhere (a block list, a slot array)
// for as long as tagged words referencing it circulate.
type TaggedPtr[T any] struct {
	word uint64
}

// NewTaggedPtr packs ptr and tag into one word.
// Returns ErrInvalidAddress if the address has bits set inside the
// reserved tag mask, meaning the configured virtual-address width (or
// T's alignment) does not match the platform. The address is never
// truncated to fit.
func NewTaggedPtr[T any](ptr *T, tag uint64) (TaggedPtr[T], error) {
	addr := uint64(uintptr(unsafe.Pointer(ptr)))
	if addr&tagMask[T]() != 0 {
		return TaggedPtr[T]{}, fmt.Errorf("%w: %#016x", ErrInvalidAddress, addr)
	}
	return TaggedPtr[T]{word: addr}.WithTag(tag), nil
}

// Ptr returns the packed address with all tag bits cleared.
//
// The cleared word is reinterpreted in place as a pointer; pointers are
// assumed to be 64 bits wide (see vaBits). The pointee must be kept
// reachable by the caller, per the type contract above.
func (p TaggedPtr[T]) Ptr() *T {
	word := p.word &^ tagMask[T]()
	return *(**T)(unsafe.Pointer(&word))
}

// Tag reassembles the tag from the upper reserved bits (shifted down)
// and the lower alignment bits.
func (p TaggedPtr[T]) Tag() uint64 {
	low := lowerTagBits[T]()
	return (p.word&upperTagMask)>>(vaBits-low) | p.word&lowerTagMask[T]()
}

// WithTag returns a word holding the same address and the given tag.
// Excess tag bits are discarded modulo 2^TagBits; the silent wrap is
// what makes monotonically increasing ABA counters work, so it is not
// an error.
func (p TaggedPtr[T]) WithTag(tag uint64) TaggedPtr[T] {
	low := lowerTagBits[T]()
	upper := (tag & (upperTagMask >> (vaBits - low))) << (vaBits - low)
	lower := tag & lowerTagMask[T]()
	return TaggedPtr[T]{word: p.word&^tagMask[T]() | upper | lower}
}

// IncTag returns the same address with the tag advanced by one,
// wrapping modulo 2^TagBits.
func (p TaggedPtr[T]) IncTag() TaggedPtr[T] {
	return p.WithTag(p.Tag() + 1)
}

// IsNil reports whether the packed address is nil, ignoring the tag.
func (p TaggedPtr[T]) IsNil() bool {
	return p.word&^tagMask[T]() == 0
}

// Word returns the raw packed representation. Two TaggedPtr values are
// interchangeable in a CAS exactly when their words are equal.
func (p TaggedPtr[T]) Word() uint64 {
	return p.word
}

// TagBits returns the number of tag bits available for T: the upper
// bits beyond the virtual-address width plus the low bits freed by T's
// alignment. Tags wrap modulo 2^TagBits.
func TagBits[T any]() uint {
	return uint(upperTagBits) + uint(lowerTagBits[T]())
}

func lowerTagBits[T any]() uint64 {
	var z T
	return uint64(bits.TrailingZeros64(uint64(unsafe.Alignof(z))))
}

func lowerTagMask[T any]() uint64 {
	var z T
	return uint64(unsafe.Alignof(z)) - 1
}

func tagMask[T any]() uint64 {
	return upperTagMask | lowerTagMask[T]()
}
