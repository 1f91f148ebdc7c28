// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nbuf

// ListHook is the linkage an element embeds to participate in an
// [IntrusiveList]. An element can belong to at most one list per hook;
// embed several hooks to thread one object through several lists.
type ListHook[T any] struct {
	prev, next *T
}

// IntrusiveList is a doubly-linked list threaded through hooks owned
// by the elements themselves. The list never allocates: push and
// remove only relink hooks, so an element known by pointer is removed
// in O(1). Pairs naturally with [Pool]: pooled objects carry their
// list linkage inside the slot.
//
// The list does not own its elements; removing never frees anything,
// and an element's lifetime is the caller's problem entirely.
type IntrusiveList[T any] struct {
	hook func(*T) *ListHook[T]
	head *T
	tail *T
	size int
}

// NewIntrusiveList creates a list over elements of type T. hook maps
// an element to the ListHook this list threads through; typically a
// field accessor:
//
//	type conn struct {
//	    idleHook nbuf.ListHook[conn]
//	    ...
//	}
//	idle := nbuf.NewIntrusiveList(func(c *conn) *nbuf.ListHook[conn] {
//	    return &c.idleHook
//	})
func NewIntrusiveList[T any](hook func(*T) *ListHook[T]) *IntrusiveList[T] {
	if hook == nil {
		panic("nbuf: nil hook accessor")
	}
	return &IntrusiveList[T]{hook: hook}
}

// PushFront links v at the head. v must not already be linked through
// this hook.
func (l *IntrusiveList[T]) PushFront(v *T) {
	h := l.hook(v)
	h.prev = nil
	h.next = l.head
	if l.head != nil {
		l.hook(l.head).prev = v
	} else {
		l.tail = v
	}
	l.head = v
	l.size++
}

// PushBack links v at the tail. v must not already be linked through
// this hook.
func (l *IntrusiveList[T]) PushBack(v *T) {
	h := l.hook(v)
	h.next = nil
	h.prev = l.tail
	if l.tail != nil {
		l.hook(l.tail).next = v
	} else {
		l.head = v
	}
	l.tail = v
	l.size++
}

// InsertBefore links v immediately before pos, which must be linked in
// this list.
func (l *IntrusiveList[T]) InsertBefore(pos, v *T) {
	prev := l.hook(pos).prev
	if prev == nil {
		l.PushFront(v)
		return
	}
	h := l.hook(v)
	h.prev = prev
	h.next = pos
	l.hook(prev).next = v
	l.hook(pos).prev = v
	l.size++
}

// InsertAfter links v immediately after pos, which must be linked in
// this list.
func (l *IntrusiveList[T]) InsertAfter(pos, v *T) {
	next := l.hook(pos).next
	if next == nil {
		l.PushBack(v)
		return
	}
	h := l.hook(v)
	h.next = next
	h.prev = pos
	l.hook(next).prev = v
	l.hook(pos).next = v
	l.size++
}

// Remove unlinks v in O(1). v must be linked in this list. The hook is
// zeroed so the element drops its neighbors.
func (l *IntrusiveList[T]) Remove(v *T) {
	h := l.hook(v)
	if h.prev != nil {
		l.hook(h.prev).next = h.next
	} else {
		l.head = h.next
	}
	if h.next != nil {
		l.hook(h.next).prev = h.prev
	} else {
		l.tail = h.prev
	}
	h.prev = nil
	h.next = nil
	l.size--
}

// PopFront unlinks and returns the head element, or nil when empty.
func (l *IntrusiveList[T]) PopFront() *T {
	v := l.head
	if v != nil {
		l.Remove(v)
	}
	return v
}

// PopBack unlinks and returns the tail element, or nil when empty.
func (l *IntrusiveList[T]) PopBack() *T {
	v := l.tail
	if v != nil {
		l.Remove(v)
	}
	return v
}

// Front returns the head element without unlinking, or nil when empty.
func (l *IntrusiveList[T]) Front() *T {
	return l.head
}

// Back returns the tail element without unlinking, or nil when empty.
func (l *IntrusiveList[T]) Back() *T {
	return l.tail
}

// Next returns the element after v, or nil at the tail.
func (l *IntrusiveList[T]) Next(v *T) *T {
	return l.hook(v).next
}

// Prev returns the element before v, or nil at the head.
func (l *IntrusiveList[T]) Prev(v *T) *T {
	return l.hook(v).prev
}

// Len returns the number of linked elements.
func (l *IntrusiveList[T]) Len() int {
	return l.size
}

// Empty reports whether no elements are linked.
func (l *IntrusiveList[T]) Empty() bool {
	return l.size == 0
}

// Clear unlinks every element, zeroing each hook.
func (l *IntrusiveList[T]) Clear() {
	for v := l.head; v != nil; {
		h := l.hook(v)
		next := h.next
		h.prev = nil
		h.next = nil
		v = next
	}
	l.head = nil
	l.tail = nil
	l.size = 0
}

// RemoveIf unlinks every element for which pred returns true and
// returns how many were removed.
func (l *IntrusiveList[T]) RemoveIf(pred func(*T) bool) int {
	removed := 0
	for v := l.head; v != nil; {
		next := l.hook(v).next
		if pred(v) {
			l.Remove(v)
			removed++
		}
		v = next
	}
	return removed
}
