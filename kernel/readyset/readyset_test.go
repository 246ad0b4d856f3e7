package readyset

import "testing"

func TestHighestPicksLowestNumber(t *testing.T) {
	s := New(8)
	s.PushBack(5, "low")
	s.PushBack(2, "high")
	s.PushBack(2, "high2")
	prio, ok := s.Highest()
	if !ok || prio != 2 {
		t.Fatalf("want prio 2, got %d ok=%v", prio, ok)
	}
}

func TestFIFOWithinLevel(t *testing.T) {
	s := New(4)
	s.PushBack(1, "a")
	s.PushBack(1, "b")
	v, _ := s.PopFront()
	if v != "a" {
		t.Fatalf("want a, got %v", v)
	}
	v, _ = s.PopFront()
	if v != "b" {
		t.Fatalf("want b, got %v", v)
	}
	if !s.Empty() {
		t.Fatalf("expected empty set")
	}
}

func TestRemoveClearsBitmap(t *testing.T) {
	s := New(4)
	e := s.PushBack(3, "only")
	s.Remove(3, e)
	if !s.Empty() {
		t.Fatalf("expected empty after removing only entry")
	}
	if _, ok := s.Highest(); ok {
		t.Fatalf("expected no highest on empty set")
	}
}

func TestPopFrontEmpty(t *testing.T) {
	s := New(4)
	if _, ok := s.PopFront(); ok {
		t.Fatalf("expected PopFront on empty set to report false")
	}
}
