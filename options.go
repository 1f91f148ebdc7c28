// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nbuf

import "io"

// Options configures pool and buffer creation.
type Options struct {
	// Recycling mode for pools
	retain bool

	// Advisory sink for pool leak reports
	errOut io.Writer

	// Capacity: slots for pools, bytes for byte buffers, elements for
	// ring queues
	capacity int
}

// Builder creates pools and buffers with fluent configuration.
//
// Example:
//
//	// Pool of packet objects that keep warm buffers across recycles
//	pool := nbuf.BuildPool[Packet](nbuf.New(1024).Retain())
//
//	// SPSC byte ring for a parser pipeline
//	ring := nbuf.New(1 << 16).BuildRing()
type Builder struct {
	opts Options
}

// New creates a builder with the given capacity. The capacity counts
// slots for pools, bytes for the SPSC ring and serialize buffer, and
// elements for the ring queue. Zero defers allocation where the target
// type supports it.
//
// Panics if capacity < 0.
func New(capacity int) *Builder {
	if capacity < 0 {
		panic("nbuf: negative capacity")
	}
	return &Builder{opts: Options{capacity: capacity}}
}

// Retain declares that pooled objects keep their state across
// recycles: a slot is initialized only on first use, and Destroy
// leaves the payload in place. Callers reset what they need reset.
//
// Only pools consume this option.
func (b *Builder) Retain() *Builder {
	b.opts.retain = true
	return b
}

// ErrOutput installs an advisory sink for pool leak reports, as
// [Pool.SetErrOutput] would.
//
// Only pools consume this option.
func (b *Builder) ErrOutput(w io.Writer) *Builder {
	b.opts.errOut = w
	return b
}

// BuildPool creates a lock-free [Pool] from the builder configuration.
func BuildPool[T any](b *Builder) *Pool[T] {
	p := newPool[T](b.opts.capacity, b.opts.retain)
	if b.opts.errOut != nil {
		p.SetErrOutput(b.opts.errOut)
	}
	return p
}

// BuildLocalPool creates a single-goroutine [LocalPool] from the
// builder configuration.
func BuildLocalPool[T any](b *Builder) *LocalPool[T] {
	p := newLocalPool[T](b.opts.capacity, b.opts.retain)
	if b.opts.errOut != nil {
		p.SetErrOutput(b.opts.errOut)
	}
	return p
}

// BuildRingQueue creates a sequential [RingQueue] from the builder
// configuration.
func BuildRingQueue[T any](b *Builder) *RingQueue[T] {
	return NewRingQueue[T](b.opts.capacity)
}

// BuildRing creates an [SPSCRing] with the builder's capacity as its
// effective byte capacity.
func (b *Builder) BuildRing() *SPSCRing {
	return NewSPSCRing(b.opts.capacity)
}

// BuildSerializeBuffer creates a [SerializeBuffer] with the builder's
// capacity in bytes.
func (b *Builder) BuildSerializeBuffer() *SerializeBuffer {
	return NewSerializeBuffer(b.opts.capacity)
}
