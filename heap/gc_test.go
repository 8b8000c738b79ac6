package heap

import "testing"

// fixedRoots is a minimal RootSource for tests that don't need the full
// stacks.Machine.
type fixedRoots struct{ roots []Value }

func (f fixedRoots) Roots() []Value { return f.roots }

func TestCollectReclaimsUnreachablePairs(t *testing.T) {
	h := New(Config{PairCells: 4, BlockBytes: 64})
	roots := &fixedRoots{}
	h.SetRoots(roots)

	kept, err := h.MakeCons(makeShortInt(1), Nil)
	if err != nil {
		t.Fatalf("MakeCons: %v", err)
	}
	_, err = h.MakeCons(makeShortInt(2), Nil) // garbage, no root holds it
	if err != nil {
		t.Fatalf("MakeCons: %v", err)
	}

	if h.cells.freeCount() != 2 {
		t.Fatalf("freeCount = %d, want 2 after two allocations of 4", h.cells.freeCount())
	}

	roots.roots = []Value{kept}
	h.Collect()

	if h.cells.freeCount() != 3 {
		t.Fatalf("freeCount = %d, want 3 after reclaiming the unrooted pair", h.cells.freeCount())
	}
	if h.First(kept).AsShortInt() != 1 {
		t.Fatalf("kept pair corrupted by collection")
	}
}

func TestCollectSurvivesSelfCycle(t *testing.T) {
	h := New(Config{PairCells: 4, BlockBytes: 64})
	roots := &fixedRoots{}
	h.SetRoots(roots)

	a, err := h.MakeCons(Nil, Nil)
	if err != nil {
		t.Fatalf("MakeCons: %v", err)
	}
	h.SetFirst(a, a) // self-cycle: a.first == a
	h.SetRest(a, a)  // and a.rest == a, for good measure

	roots.roots = []Value{a}
	h.Collect()

	if h.cells.freeCount() != 3 {
		t.Fatalf("freeCount = %d, want 3 (only the cyclic cell survives)", h.cells.freeCount())
	}
	if !EqIdentical(h.First(a), a) || !EqIdentical(h.Rest(a), a) {
		t.Fatalf("self-cycle not restored correctly after mark: first=%v rest=%v", h.First(a).GoString(), h.Rest(a).GoString())
	}
}

func TestCollectSurvivesMutualCycle(t *testing.T) {
	h := New(Config{PairCells: 8, BlockBytes: 64})
	roots := &fixedRoots{}
	h.SetRoots(roots)

	a, _ := h.MakeCons(makeShortInt(1), Nil)
	b, _ := h.MakeCons(makeShortInt(2), Nil)
	h.SetRest(a, b)
	h.SetRest(b, a) // a -> b -> a

	roots.roots = []Value{a}
	h.Collect()

	if h.cells.freeCount() != 6 {
		t.Fatalf("freeCount = %d, want 6", h.cells.freeCount())
	}
	if h.IntValue(h.First(a)) != 1 || h.IntValue(h.First(b)) != 2 {
		t.Fatalf("mutual cycle payload corrupted")
	}
	if !EqIdentical(h.Rest(a), b) || !EqIdentical(h.Rest(b), a) {
		t.Fatalf("mutual cycle links not restored")
	}
}

func TestCollectMarksDeepListWithoutHostRecursion(t *testing.T) {
	const n = 5000
	h := New(Config{PairCells: n + 10, BlockBytes: 64})
	roots := &fixedRoots{}
	h.SetRoots(roots)

	list := Nil
	for i := 0; i < n; i++ {
		var err error
		list, err = h.MakeCons(makeShortInt(int64(i%1000)), list)
		if err != nil {
			t.Fatalf("MakeCons at %d: %v", i, err)
		}
	}
	roots.roots = []Value{list}
	h.Collect() // must not blow the Go goroutine stack

	if got := h.Length(list); got != n {
		t.Fatalf("Length after collect = %d, want %d", got, n)
	}
}

func TestAllocatePairCollectsAndRetriesOnExhaustion(t *testing.T) {
	h := New(Config{PairCells: 2, BlockBytes: 64})
	roots := &fixedRoots{}
	h.SetRoots(roots)

	kept, _ := h.MakeCons(Nil, Nil)
	roots.roots = []Value{kept}

	// Allocate garbage repeatedly; each call must succeed because the
	// previous garbage pair is unrooted and gets reclaimed.
	for i := 0; i < 10; i++ {
		if _, err := h.MakeCons(makeShortInt(int64(i)), Nil); err != nil {
			t.Fatalf("MakeCons iteration %d: %v", i, err)
		}
	}
}
