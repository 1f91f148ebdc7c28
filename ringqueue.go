// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nbuf

// RingQueue is a plain single-goroutine FIFO over a reserved slot
// array. One slot beyond the capacity keeps empty and full
// distinguishable, the same +1 discipline the SPSC ring uses. The
// buffer never grows on its own; a full queue reports false and the
// caller resizes via TryResizeBuffer.
type RingQueue[T any] struct {
	elems      []T
	capPlusOne int
	readIdx    int
	writeIdx   int
}

// NewRingQueue creates a queue able to hold capacity elements. A zero
// capacity defers allocation; every push fails until the buffer is
// resized.
func NewRingQueue[T any](capacity int) *RingQueue[T] {
	if capacity < 0 {
		panic("nbuf: negative ring queue capacity")
	}
	q := &RingQueue[T]{capPlusOne: capacity + 1}
	if capacity != 0 {
		q.elems = make([]T, capacity+1)
	}
	return q
}

// TryPush appends v, reporting false when the queue is full.
func (q *RingQueue[T]) TryPush(v T) bool {
	if q.Full() {
		return false
	}
	q.elems[q.writeIdx] = v
	q.writeIdx = (q.writeIdx + 1) % q.capPlusOne
	return true
}

// TryPop removes and returns the oldest element. The vacated slot is
// zeroed so the queue drops its reference.
func (q *RingQueue[T]) TryPop() (T, bool) {
	var zero T
	if q.Empty() {
		return zero, false
	}
	v := q.elems[q.readIdx]
	q.elems[q.readIdx] = zero
	q.readIdx = (q.readIdx + 1) % q.capPlusOne
	return v, true
}

// Front returns the oldest element in place. Panics on an empty queue.
func (q *RingQueue[T]) Front() *T {
	if q.Empty() {
		panic("nbuf: Front on empty ring queue")
	}
	return &q.elems[q.readIdx]
}

// Back returns the newest element in place. Panics on an empty queue.
func (q *RingQueue[T]) Back() *T {
	if q.Empty() {
		panic("nbuf: Back on empty ring queue")
	}
	return &q.elems[(q.writeIdx+q.capPlusOne-1)%q.capPlusOne]
}

// Len returns the number of buffered elements.
func (q *RingQueue[T]) Len() int {
	return (q.capPlusOne + q.writeIdx - q.readIdx) % q.capPlusOne
}

// Cap returns the number of elements the queue can hold.
func (q *RingQueue[T]) Cap() int {
	return q.capPlusOne - 1
}

// Empty reports whether no elements are buffered.
func (q *RingQueue[T]) Empty() bool {
	return q.readIdx == q.writeIdx
}

// Full reports whether the reserved buffer is exhausted.
func (q *RingQueue[T]) Full() bool {
	return (q.writeIdx+1)%q.capPlusOne == q.readIdx
}

// Clear drops all buffered elements, zeroing their slots.
func (q *RingQueue[T]) Clear() {
	var zero T
	for i := q.readIdx; i != q.writeIdx; i = (i + 1) % q.capPlusOne {
		q.elems[i] = zero
	}
	q.readIdx = 0
	q.writeIdx = 0
}

// TryResizeBuffer grows the reserved buffer to hold capacity elements.
// Fails only when capacity cannot hold the buffered elements. A
// capacity at or below the current one succeeds without shrinking; use
// ShrinkToFit to give memory back.
func (q *RingQueue[T]) TryResizeBuffer(capacity int) bool {
	if capacity < q.Len() {
		return false
	}
	if capacity <= q.Cap() {
		return true
	}
	q.resize(capacity)
	return true
}

// ShrinkToFit reduces the reserved buffer to the buffered element
// count.
func (q *RingQueue[T]) ShrinkToFit() {
	if !q.Full() {
		q.resize(q.Len())
	}
}

func (q *RingQueue[T]) resize(capacity int) {
	used := q.Len()
	var elems []T
	if capacity != 0 {
		elems = make([]T, capacity+1)
		for i := 0; i < used; i++ {
			elems[i] = q.elems[(q.readIdx+i)%q.capPlusOne]
		}
	}
	q.elems = elems
	q.capPlusOne = capacity + 1
	q.readIdx = 0
	q.writeIdx = used
}
