package usage

import "testing"

func TestTrackerCounts(t *testing.T) {
	tr := New()
	if tr.Get("Vial 1") != 0 || tr.Known("Vial 1") {
		t.Fatalf("expected unknown vial to read 0")
	}

	tr.Increment("Vial 1")
	tr.Increment("Vial 1")
	tr.Increment("Vial 2")
	if got := tr.Get("Vial 1"); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}

	tr.Decrement("Vial 1")
	if got := tr.Get("Vial 1"); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}

	tr.Reset("Vial 2")
	if got := tr.Get("Vial 2"); got != 0 || !tr.Known("Vial 2") {
		t.Fatalf("expected reset vial to be known at 0, got %d", got)
	}
}

func TestDecrementFloorsAtZero(t *testing.T) {
	tr := New()
	tr.Decrement("empty")
	tr.Decrement("empty")
	if got := tr.Get("empty"); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestIncrementDecrementRoundTrip(t *testing.T) {
	for _, start := range []int{0, 1, 7} {
		tr := New()
		tr.Set("v", start)
		tr.Increment("v")
		tr.Decrement("v")
		if got := tr.Get("v"); got != start {
			t.Fatalf("start %d: expected %d after round trip, got %d", start, start, got)
		}
	}
}

func TestSnapshotRestore(t *testing.T) {
	tr := New()
	tr.Set("b", 3)
	tr.Set("a", 1)
	snap := tr.Snapshot()
	snap["a"] = 99 // snapshot is a copy

	if tr.Get("a") != 1 {
		t.Fatalf("snapshot aliased tracker state")
	}

	back := Restore(map[string]int{"a": 1, "b": 3, "c": -2})
	if back.Get("c") != 0 {
		t.Fatalf("expected negative count clamped to 0")
	}
	vials := back.Vials()
	if len(vials) != 3 || vials[0] != "a" || vials[2] != "c" {
		t.Fatalf("unexpected vials %v", vials)
	}
}
