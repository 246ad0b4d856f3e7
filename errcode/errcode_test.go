package errcode

import "testing"

func TestOf(t *testing.T) {
	if Of(nil) != "" {
		t.Fatalf("Of(nil) should be empty")
	}
	if Of(TooManyThreads) != TooManyThreads {
		t.Fatalf("Of(Code) should round-trip")
	}
	wrapped := &E{C: Timeout, Op: "mbox_timed_recv"}
	if Of(wrapped) != Timeout {
		t.Fatalf("Of(*E) should extract the wrapped Code")
	}
	if wrapped.Error() != "mbox_timed_recv: timeout" {
		t.Fatalf("unexpected Error() text: %q", wrapped.Error())
	}
}
