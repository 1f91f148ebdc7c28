// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nbuf

import (
	"fmt"
	"io"
	"unsafe"
)

type localNode[T any] struct {
	// val must stay the first field; see Destroy.
	val         T
	next        *localNode[T]
	pool        *LocalPool[T]
	constructed bool
}

// LocalPool is the single-goroutine twin of [Pool]: the same slot
// recycling contract, growth schedule and diagnostics, with plain
// fields instead of atomics. Confine each LocalPool to one goroutine;
// it performs no synchronization whatsoever.
type LocalPool[T any] struct {
	freeHead  *localNode[T]
	blocks    [][]localNode[T]
	capacity  int
	used      int
	nextSlots int
	errOut    io.Writer
	retain    bool
	closed    bool
}

// NewLocalPool creates a single-goroutine pool that re-initializes
// every object on Construct and zeroes the slot on Destroy. The
// capacity hint behaves as in [NewPool].
func NewLocalPool[T any](capacity int) *LocalPool[T] {
	return newLocalPool[T](capacity, false)
}

// NewRetainLocalPool creates a single-goroutine pool that initializes
// each physical slot only on first use and keeps slot state across
// recycles.
func NewRetainLocalPool[T any](capacity int) *LocalPool[T] {
	return newLocalPool[T](capacity, true)
}

func newLocalPool[T any](capacity int, retain bool) *LocalPool[T] {
	if capacity < 0 {
		panic("nbuf: negative pool capacity")
	}
	p := &LocalPool[T]{retain: retain, nextSlots: initBlockSlots}
	if capacity != 0 {
		p.nextSlots = capacity
		p.grow()
	}
	return p
}

// Construct pops a free slot, growing the pool when none is available.
// Semantics per mode match [Pool.Construct].
func (p *LocalPool[T]) Construct(v T) *T {
	if p.freeHead == nil {
		p.grow()
	}
	n := p.freeHead
	p.freeHead = n.next
	p.used++

	if !p.retain || !n.constructed {
		n.val = v
		n.constructed = true
	}
	return &n.val
}

// Destroy returns an object obtained from Construct to the free list.
// Semantics per mode match [Pool.Destroy].
func (p *LocalPool[T]) Destroy(obj *T) {
	n := (*localNode[T])(unsafe.Pointer(obj))

	if PoolCheckEnabled && n.pool != p {
		panic(fmt.Sprintf("nbuf: Destroy(%p) called with object not owned by this pool", obj))
	}

	if !p.retain {
		var zero T
		n.val = zero
		n.constructed = false
	}

	n.next = p.freeHead
	p.freeHead = n
	p.used--
}

// Capacity returns the total number of slots across all blocks.
func (p *LocalPool[T]) Capacity() int {
	return p.capacity
}

// UsedSlots returns the number of slots currently handed out.
func (p *LocalPool[T]) UsedSlots() int {
	return p.used
}

// UnusedSlots returns the number of free slots.
func (p *LocalPool[T]) UnusedSlots() int {
	return p.capacity - p.used
}

// SetErrOutput installs an advisory sink for the leak report written
// by Close.
func (p *LocalPool[T]) SetErrOutput(w io.Writer) {
	p.errOut = w
}

// Close releases all blocks, reporting leaked slots to the SetErrOutput
// sink first. Idempotent.
func (p *LocalPool[T]) Close() {
	if p.closed {
		return
	}
	p.closed = true

	if PoolCheckEnabled && p.errOut != nil && p.used > 0 {
		fmt.Fprintf(p.errOut, "[LEAK] %d slots are not returned to nbuf.LocalPool at %p\n", p.used, p)
	}

	p.blocks = nil
	p.freeHead = nil
	p.capacity = 0
	p.nextSlots = initBlockSlots
}

func (p *LocalPool[T]) grow() {
	if p.closed {
		panic("nbuf: Construct on closed pool")
	}

	count := p.nextSlots
	nodes := make([]localNode[T], count)
	for i := range nodes {
		n := &nodes[i]
		if PoolCheckEnabled {
			n.pool = p
		}
		if i+1 < count {
			n.next = &nodes[i+1]
		}
	}
	nodes[count-1].next = p.freeHead
	p.freeHead = &nodes[0]
	p.blocks = append(p.blocks, nodes)

	p.capacity += count
	p.nextSlots = p.capacity
}
