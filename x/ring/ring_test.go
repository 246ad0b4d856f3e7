package ring

import "testing"

func TestFIFOOrder(t *testing.T) {
	b := New[int](2)
	if !b.Push(1) || !b.Push(2) {
		t.Fatalf("expected both pushes to succeed")
	}
	if b.Push(3) {
		t.Fatalf("expected push into full buffer to fail")
	}
	v, ok := b.Pop()
	if !ok || v != 1 {
		t.Fatalf("expected 1, got %v ok=%v", v, ok)
	}
	if !b.Push(3) {
		t.Fatalf("expected push after pop to succeed")
	}
	v, ok = b.Pop()
	if !ok || v != 2 {
		t.Fatalf("expected 2, got %v ok=%v", v, ok)
	}
	v, ok = b.Pop()
	if !ok || v != 3 {
		t.Fatalf("expected 3, got %v ok=%v", v, ok)
	}
	if _, ok = b.Pop(); ok {
		t.Fatalf("expected empty buffer")
	}
}

func TestZeroCapacity(t *testing.T) {
	b := New[int](0)
	if !b.Empty() || !b.Full() {
		t.Fatalf("zero-capacity buffer must report both empty and full")
	}
	if b.Push(1) {
		t.Fatalf("push into zero-capacity buffer must fail")
	}
}

func TestWraparound(t *testing.T) {
	b := New[int](3)
	b.Push(1)
	b.Push(2)
	b.Pop()
	b.Push(3)
	b.Push(4)
	want := []int{2, 3, 4}
	for _, w := range want {
		v, ok := b.Pop()
		if !ok || v != w {
			t.Fatalf("want %d got %d ok=%v", w, v, ok)
		}
	}
}
