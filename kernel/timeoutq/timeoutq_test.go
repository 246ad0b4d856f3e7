package timeoutq

import "testing"

func TestFiresInOrder(t *testing.T) {
	q := New()
	a := &Entry{Owner: "a"}
	b := &Entry{Owner: "b"}
	c := &Entry{Owner: "c"}
	q.Schedule(a, 5)
	q.Schedule(b, 2)
	q.Schedule(c, 2)

	var order []string
	for i := 0; i < 5; i++ {
		for _, e := range q.Tick() {
			order = append(order, e.Owner.(string))
		}
	}
	if len(order) != 3 || order[0] != "b" || order[1] != "c" || order[2] != "a" {
		t.Fatalf("unexpected fire order: %v", order)
	}
}

func TestCancelFoldsDelta(t *testing.T) {
	q := New()
	a := &Entry{Owner: "a"}
	b := &Entry{Owner: "b"}
	q.Schedule(a, 3)
	q.Schedule(b, 5)
	q.Cancel(a)

	for i := 0; i < 4; i++ {
		if len(q.Tick()) != 0 {
			t.Fatalf("b fired early at tick %d", i+1)
		}
	}
	fired := q.Tick()
	if len(fired) != 1 || fired[0].Owner.(string) != "b" {
		t.Fatalf("expected b to fire at tick 5, got %v", fired)
	}
}

func TestCancelNotQueuedIsNoop(t *testing.T) {
	q := New()
	e := &Entry{Owner: "x"}
	q.Cancel(e) // must not panic
	if !q.Empty() {
		t.Fatalf("expected empty queue")
	}
}

func TestEmptyTickReturnsNil(t *testing.T) {
	q := New()
	if fired := q.Tick(); fired != nil {
		t.Fatalf("expected nil, got %v", fired)
	}
}
