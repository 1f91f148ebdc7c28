// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nbuf_test

import (
	"testing"

	"code.hybscloud.com/nbuf"
)

func TestRingQueueFIFO(t *testing.T) {
	q := nbuf.NewRingQueue[int](4)
	for i := 1; i <= 4; i++ {
		if !q.TryPush(i) {
			t.Fatalf("TryPush(%d) failed with space available", i)
		}
	}
	if !q.Full() {
		t.Fatal("queue not full at capacity")
	}
	if q.TryPush(5) {
		t.Fatal("TryPush succeeded on full queue")
	}
	for i := 1; i <= 4; i++ {
		v, ok := q.TryPop()
		if !ok || v != i {
			t.Fatalf("TryPop: got (%d, %v), want (%d, true)", v, ok, i)
		}
	}
	if _, ok := q.TryPop(); ok {
		t.Fatal("TryPop succeeded on empty queue")
	}
}

func TestRingQueueWrap(t *testing.T) {
	q := nbuf.NewRingQueue[int](3)
	next := 0
	// Half-fill and drain repeatedly so the indices lap the buffer.
	for range 10 {
		q.TryPush(next)
		q.TryPush(next + 1)
		for i := range 2 {
			v, ok := q.TryPop()
			if !ok || v != next+i {
				t.Fatalf("TryPop: got (%d, %v), want (%d, true)", v, ok, next+i)
			}
		}
		next += 2
	}
	if !q.Empty() {
		t.Fatal("queue not empty after balanced push/pop")
	}
}

func TestRingQueueFrontBack(t *testing.T) {
	q := nbuf.NewRingQueue[string](4)
	q.TryPush("a")
	q.TryPush("b")
	q.TryPush("c")
	if got := *q.Front(); got != "a" {
		t.Fatalf("Front: got %q, want %q", got, "a")
	}
	if got := *q.Back(); got != "c" {
		t.Fatalf("Back: got %q, want %q", got, "c")
	}
	// Front and Back alias queue storage: mutations are visible to Pop.
	*q.Front() = "A"
	if v, _ := q.TryPop(); v != "A" {
		t.Fatalf("mutation through Front lost: got %q", v)
	}

	q.Clear()
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("Front on empty queue did not panic")
			}
		}()
		q.Front()
	}()
}

func TestRingQueueResize(t *testing.T) {
	q := nbuf.NewRingQueue[int](2)
	q.TryPush(1)
	q.TryPush(2)

	if q.TryResizeBuffer(1) {
		t.Fatal("TryResizeBuffer below element count succeeded")
	}
	// At or below current capacity: accepted without shrinking.
	if !q.TryResizeBuffer(2) {
		t.Fatal("TryResizeBuffer to current capacity failed")
	}
	if got := q.Cap(); got != 2 {
		t.Fatalf("Cap changed by no-op resize: got %d", got)
	}

	if !q.TryResizeBuffer(8) {
		t.Fatal("TryResizeBuffer grow failed")
	}
	if got := q.Cap(); got != 8 {
		t.Fatalf("Cap after grow: got %d, want 8", got)
	}
	for i := 1; i <= 2; i++ {
		if v, ok := q.TryPop(); !ok || v != i {
			t.Fatalf("element lost across resize: got (%d, %v), want (%d, true)", v, ok, i)
		}
	}
}

func TestRingQueueShrinkToFit(t *testing.T) {
	q := nbuf.NewRingQueue[int](16)
	q.TryPush(1)
	q.TryPush(2)
	q.TryPush(3)
	q.ShrinkToFit()
	if got := q.Cap(); got != 3 {
		t.Fatalf("Cap after ShrinkToFit: got %d, want 3", got)
	}
	if !q.Full() {
		t.Fatal("queue not full after ShrinkToFit")
	}
	for i := 1; i <= 3; i++ {
		if v, ok := q.TryPop(); !ok || v != i {
			t.Fatalf("element lost across shrink: got (%d, %v), want (%d, true)", v, ok, i)
		}
	}
}

func TestRingQueueZeroCapacity(t *testing.T) {
	q := nbuf.NewRingQueue[int](0)
	if q.TryPush(1) {
		t.Fatal("TryPush succeeded on zero-capacity queue")
	}
	if !q.TryResizeBuffer(2) {
		t.Fatal("TryResizeBuffer from zero failed")
	}
	if !q.TryPush(1) {
		t.Fatal("TryPush failed after resize")
	}
}

func TestRingQueueClearDropsReferences(t *testing.T) {
	q := nbuf.NewRingQueue[[]byte](4)
	q.TryPush([]byte("x"))
	q.Clear()
	if q.Len() != 0 {
		t.Fatalf("Len after Clear: got %d, want 0", q.Len())
	}
	// The vacated slot must not pin the old payload.
	q.TryPush(nil)
	if v, _ := q.TryPop(); v != nil {
		t.Fatalf("slot kept stale payload: %q", v)
	}
}
