// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nbuf

import (
	"fmt"
	"io"
	"sync"
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Free-list head layout. One 64-bit word packs a generation counter and
// a slot locator, the index-handle rendition of a tagged pointer for a
// runtime where raw addresses are not stable:
//
//	[ gen:24 | block:8 | slot+1:32 ]
//
// Slot bits of zero mean an empty free list. The generation advances on
// every pop and is preserved on push, so a CAS against a stale head
// fails even when the same slot cycles back to the top (ABA).
const (
	slotBits  = 32
	blockBits = 8
	genShift  = slotBits + blockBits
	slotMask  = 1<<slotBits - 1
	indexMask = 1<<genShift - 1
	maxBlocks = 1 << blockBits
)

// initBlockSlots is the bootstrap block size used when the pool is
// created without a capacity hint. Every later block is sized to the
// capacity accumulated so far, so total capacity roughly doubles on
// each growth.
const initBlockSlots = 16

type node[T any] struct {
	// val must stay the first field: Destroy recovers the node from
	// the object address by a plain pointer conversion.
	val         T
	next        atomix.Uint64 // index bits of the next free node
	self        uint64        // this node's own index bits
	pool        *Pool[T]      // diagnostic back-reference, never rebound
	constructed bool
}

// Pool is a growable lock-free object pool: a collection of fixed-size
// slots for T coordinated through a free list whose head is a
// generation-counted handle under compare-and-swap.
//
// Construct and Destroy are safe for any number of goroutines. Neither
// blocks, except that a Construct observing an empty free list briefly
// holds the growth mutex while one new block is allocated (bounded
// critical section, no I/O). Capacity only grows; slots are recycled
// indefinitely and released together when the pool is closed.
//
// Two recycling modes exist:
//
//   - [NewPool]: Construct stores the given value on every call and
//     Destroy zeroes the slot, dropping references for the GC. Objects
//     come back fresh.
//   - [NewRetainPool]: a physical slot is initialized only the first
//     time it is handed out. Recycled slots return with whatever state
//     the previous user left behind, so callers keep warm buffers and
//     caches across cycles and must reset what they need reset.
type Pool[T any] struct {
	_        pad
	head     atomix.Uint64 // packed free-list head
	_        pad
	used     atomix.Int64
	_        pad
	capacity atomix.Int64
	_        pad

	growMu sync.Mutex
	// blocks is written under growMu only; a popper reads blocks[b]
	// strictly after an acquire load of a head that references block
	// b, which the growth CAS published with release ordering.
	blocks    [maxBlocks][]node[T]
	nblocks   int
	nextSlots int
	errOut    io.Writer
	retain    bool
	closed    bool
}

// NewPool creates a pool that re-initializes every object on Construct
// and zeroes the slot on Destroy.
//
// capacity is a reservation hint: when non-zero, one block of exactly
// that many slots is allocated up front and the next growth doubles
// from there. When zero, allocation is deferred to the first Construct,
// which bootstraps a block of 16 slots.
func NewPool[T any](capacity int) *Pool[T] {
	return newPool[T](capacity, false)
}

// NewRetainPool creates a pool that initializes each physical slot only
// on its first use and keeps slot state across recycles.
func NewRetainPool[T any](capacity int) *Pool[T] {
	return newPool[T](capacity, true)
}

func newPool[T any](capacity int, retain bool) *Pool[T] {
	if capacity < 0 {
		panic("nbuf: negative pool capacity")
	}
	p := &Pool[T]{retain: retain, nextSlots: initBlockSlots}
	if capacity != 0 {
		p.nextSlots = capacity
		p.grow()
	}
	return p
}

// Construct pops a slot off the free list and returns an object placed
// in it, growing the pool when no slot is available.
//
// In reset mode the slot always receives v. In retain mode v is stored
// only the first time the physical slot is ever used; a recycled slot
// returns unmodified, and the caller resets whatever state it needs.
//
// The returned pointer stays valid until it is passed to Destroy.
func (p *Pool[T]) Construct(v T) *T {
	var n *node[T]
	sw := spin.Wait{}
	for {
		head := p.head.LoadAcquire()
		if head&slotMask == 0 {
			p.grow()
			continue
		}
		n = p.nodeAt(head)
		next := n.next.LoadRelaxed()
		// Advance the generation on pop; the tag bump is what makes a
		// stale head detectable after the slot round-trips.
		newHead := (head&^uint64(indexMask) + 1<<genShift) | next
		if p.head.CompareAndSwapAcqRel(head, newHead) {
			break
		}
		sw.Once()
	}

	p.used.Add(1)

	if !p.retain || !n.constructed {
		n.val = v
		n.constructed = true
	}
	return &n.val
}

// Destroy returns an object obtained from Construct to the free list.
//
// In reset mode the slot payload is zeroed first, releasing anything it
// references. The push preserves the current head generation; the
// competing pop side is the one that increments it.
//
// Passing an object that does not belong to this pool corrupts the free
// list, so with diagnostics enabled (see PoolCheckEnabled) it panics instead.
func (p *Pool[T]) Destroy(obj *T) {
	n := (*node[T])(unsafe.Pointer(obj))

	if PoolCheckEnabled && n.pool != p {
		panic(fmt.Sprintf("nbuf: Destroy(%p) called with object not owned by this pool", obj))
	}

	if !p.retain {
		var zero T
		n.val = zero
		n.constructed = false
	}

	sw := spin.Wait{}
	for {
		head := p.head.LoadAcquire()
		n.next.StoreRelaxed(head & indexMask)
		newHead := head&^uint64(indexMask) | n.self
		if p.head.CompareAndSwapAcqRel(head, newHead) {
			break
		}
		sw.Once()
	}

	p.used.Add(-1)
}

// Capacity returns the total number of slots across all blocks.
// Monotonically non-decreasing until Close.
func (p *Pool[T]) Capacity() int {
	return int(p.capacity.Load())
}

// UsedSlots returns the number of slots currently handed out.
func (p *Pool[T]) UsedSlots() int {
	return int(p.used.Load())
}

// UnusedSlots returns the number of free slots. Both counters are
// individually atomic; the difference may be momentarily stale under
// concurrent mutation.
func (p *Pool[T]) UnusedSlots() int {
	return p.Capacity() - p.UsedSlots()
}

// SetErrOutput installs an advisory sink for the leak report written by
// Close. Must not race with Close; typically set right after pool
// creation.
func (p *Pool[T]) SetErrOutput(w io.Writer) {
	p.growMu.Lock()
	p.errOut = w
	p.growMu.Unlock()
}

// Close releases all blocks. If diagnostics are enabled and objects
// were never returned, a leak report goes to the SetErrOutput sink
// first; the report is advisory and never prevents teardown. Close is
// idempotent. Constructing on a closed pool panics.
func (p *Pool[T]) Close() {
	p.growMu.Lock()
	defer p.growMu.Unlock()
	if p.closed {
		return
	}
	p.closed = true

	if PoolCheckEnabled && p.errOut != nil {
		if used := p.used.Load(); used > 0 {
			fmt.Fprintf(p.errOut, "[LEAK] %d slots are not returned to nbuf.Pool at %p\n", used, p)
		}
	}

	for i := 0; i < p.nblocks; i++ {
		p.blocks[i] = nil
	}
	p.nblocks = 0
	p.head.Store(0)
	p.capacity.Store(0)
	p.nextSlots = initBlockSlots
}

// grow allocates one block and splices its slot chain onto the free
// list. At most one growth proceeds at a time; a popper that lost the
// race to the mutex re-checks the head and returns without allocating.
func (p *Pool[T]) grow() {
	p.growMu.Lock()
	defer p.growMu.Unlock()

	if p.closed {
		panic("nbuf: Construct on closed pool")
	}
	// Double-checked: another goroutine may have grown the pool while
	// this one waited on the mutex.
	if p.head.LoadAcquire()&slotMask != 0 {
		return
	}

	if p.nblocks == maxBlocks {
		panic("nbuf: pool block limit exceeded")
	}
	count := p.nextSlots
	if uint64(count) >= slotMask {
		panic("nbuf: pool block size exceeds slot index range")
	}

	b := p.nblocks
	nodes := make([]node[T], count)
	for i := range nodes {
		n := &nodes[i]
		n.self = uint64(b)<<slotBits | uint64(i+1)
		if PoolCheckEnabled {
			n.pool = p
		}
		if i+1 < count {
			n.next.StoreRelaxed(uint64(b)<<slotBits | uint64(i+2))
		}
	}
	p.blocks[b] = nodes
	p.nblocks++

	// Publish the private chain with one CAS. The release ordering of
	// the successful exchange is what makes blocks[b] visible to
	// poppers; the generation is preserved, same discipline as a push.
	first := uint64(b)<<slotBits | 1
	last := &nodes[count-1]
	sw := spin.Wait{}
	for {
		head := p.head.LoadAcquire()
		last.next.StoreRelaxed(head & indexMask)
		newHead := head&^uint64(indexMask) | first
		if p.head.CompareAndSwapAcqRel(head, newHead) {
			break
		}
		sw.Once()
	}

	p.capacity.Add(int64(count))
	p.nextSlots = int(p.capacity.Load())
}

func (p *Pool[T]) nodeAt(head uint64) *node[T] {
	b := head >> slotBits & (maxBlocks - 1)
	s := head&slotMask - 1
	return &p.blocks[b][s]
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte
