// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package nbuf provides concurrency and memory-reuse primitives for
// network and message-processing code: object pools, byte buffers, and
// the tagged-word machinery that keeps the lock-free parts ABA-safe.
//
// The concurrent core is three components:
//
//   - Pool: a growable lock-free object pool. Slots recycle through a
//     free list whose head is a generation-counted word under
//     compare-and-swap; growth adds blocks under a mutex and capacity
//     never shrinks.
//   - SPSCRing: a single-producer single-consumer byte ring
//     synchronized purely through acquire/release cursors.
//   - TaggedPtr: a pointer and a version tag packed into one 64-bit
//     word, the primitive that lets a CAS detect the ABA pattern.
//
// Around the core sit their single-goroutine collaborators, built on
// the same contracts without the synchronization: LocalPool,
// RingQueue, SerializeBuffer, and IntrusiveList.
//
// # Quick Start
//
// Direct constructors (recommended for most cases):
//
//	pool := nbuf.NewPool[Packet](1024)
//	ring := nbuf.NewSPSCRing(1 << 16)
//
// Builder API for fluent configuration:
//
//	pool := nbuf.BuildPool[Packet](nbuf.New(1024).Retain())
//	ring := nbuf.New(1 << 16).BuildRing()
//
// # Object Pools
//
// A pool hands out objects and takes them back; nothing is freed until
// the pool itself closes:
//
//	pool := nbuf.NewPool[Packet](0)
//
//	pkt := pool.Construct(Packet{Seq: next})
//	// ... use pkt ...
//	pool.Destroy(pkt)
//
// Construct never blocks and Destroy never blocks; when the free list
// runs dry, the constructing goroutine briefly holds a mutex while one
// new block is allocated, and capacity roughly doubles on each growth.
//
// Two recycling modes trade initialization cost against hygiene:
//
//	nbuf.NewPool[T](n)       // fresh object every cycle
//	nbuf.NewRetainPool[T](n) // slot state survives recycling
//
// With a retain pool, a recycled object arrives exactly as its
// previous user left it — warm buffers, grown maps, old values and
// all. That is the point: the caller resets the fields it cares about
// and keeps the expensive state. If you do not want to think about
// stale state, use NewPool.
//
// Diagnostics are compiled in by default (nbuf_nocheck removes them):
// returning an object to the wrong pool panics rather than corrupt the
// free list, and Close reports never-returned slots to an injected
// sink:
//
//	pool.SetErrOutput(os.Stderr)
//	defer pool.Close() // "[LEAK] n slots are not returned ..." if any
//
// # SPSC Byte Ring
//
// SPSCRing moves a byte stream between exactly one producer goroutine
// and one consumer goroutine with no locks and no CAS:
//
//	ring := nbuf.NewSPSCRing(1 << 16)
//
//	// Producer goroutine
//	backoff := iox.Backoff{}
//	for !ring.TryWrite(frame) {
//	    backoff.Wait()
//	}
//
//	// Consumer goroutine
//	buf := make([]byte, 4)
//	for !ring.TryRead(buf) {
//	    backoff.Wait()
//	}
//
// All operations are nonblocking: full and empty are reported as false
// returns (or ErrWouldBlock from the io.Reader/io.Writer adapters),
// never by waiting. Callers needing bounded latency poll; there is no
// blocking variant.
//
// A third thread may observe occupancy through MonitorUsed and
// MonitorFree; every other method belongs to the producer side, the
// consumer side, or a quiescent single-threaded window (Clear,
// TryResize), as marked per method.
//
// # Tagged Pointers
//
// TaggedPtr packs an address and a small version counter into one
// word, using the address bits a 64-bit platform does not: the high
// bits beyond the virtual-address width (56 by default; nbuf_va48 and
// nbuf_va57 build tags select others) and the low bits below the
// pointee's alignment. An address that collides with the reserved bits
// is a platform/configuration mismatch and is rejected with
// ErrInvalidAddress, never truncated:
//
//	tp, err := nbuf.NewTaggedPtr(ptr, 0)
//	...
//	next := tp.IncTag() // same address, bumped tag
//
// Tags wrap modulo 2^TagBits[T](); the silent wrap is what makes
// monotonically increasing ABA counters cheap. Pool does not store
// raw addresses in its shared head — its free list runs on the
// index-handle equivalent, a generation counter packed with a slot
// locator — but the discipline is the same: bump the tag on pop,
// preserve it on push.
//
// # Error Handling
//
// Expected-false conditions — a full ring, an empty queue, an
// infeasible resize — are ordinary return values and never panic.
// Misuse (destroying a foreign object, constructing on a closed pool)
// panics loudly at the failing call, because continuing would corrupt
// shared state. Allocation failure is fatal as everywhere in Go. Leak
// reports are advisory writes to the configured sink; teardown always
// completes regardless.
//
// The io adapters on SPSCRing source their would-block error from
// [code.hybscloud.com/iox] for ecosystem consistency:
//
//	n, err := ring.Read(buf)
//	if nbuf.IsWouldBlock(err) {
//	    backoff.Wait()
//	}
//
// # Race Detection
//
// Go's race detector tracks explicit synchronization primitives but
// cannot observe happens-before established through atomic memory
// orderings on separate variables. The pool free list and the ring
// cursors synchronize exactly that way, so the detector may report
// false positives on correct executions. Stress tests for the
// concurrent paths are excluded via //go:build !race; see RaceEnabled.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for atomics with
// explicit memory ordering, [code.hybscloud.com/spin] for CPU pause in
// CAS retry loops, and [code.hybscloud.com/iox] for semantic errors
// and backoff.
package nbuf
