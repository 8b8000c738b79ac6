package heap

import "testing"

func newTestHeap(t *testing.T) *Heap {
	t.Helper()
	h := New(Config{PairCells: 64, BlockBytes: 4096})
	h.SetRoots(fixedRoots{})
	return h
}

func TestMakeIntInlinesAndSpillsToBlock(t *testing.T) {
	h := newTestHeap(t)

	small, err := h.MakeInt(100)
	if err != nil {
		t.Fatalf("MakeInt(100): %v", err)
	}
	if small.Type() != TagInt {
		t.Fatalf("MakeInt(100).Type() = %v, want TagInt", small.Type())
	}

	big, err := h.MakeInt(1 << 40)
	if err != nil {
		t.Fatalf("MakeInt(1<<40): %v", err)
	}
	if big.Type() != TagBlock || h.BlockType(big) != BlockInteger {
		t.Fatalf("MakeInt(1<<40) did not spill to an integer block: %#v", big)
	}
	if got := h.IntValue(big); got != 1<<40 {
		t.Fatalf("IntValue(big) = %d, want %d", got, int64(1)<<40)
	}
	if !h.IsInteger(small) || !h.IsInteger(big) {
		t.Fatalf("IsInteger false for a constructed integer")
	}
}

func TestMakeStringInlinesAndSpillsToBlock(t *testing.T) {
	h := newTestHeap(t)

	short, err := h.MakeString([]byte("ab"))
	if err != nil {
		t.Fatalf("MakeString(ab): %v", err)
	}
	if short.Type() != TagString {
		t.Fatalf("short string did not inline: %#v", short)
	}

	long, err := h.MakeString([]byte("hello world"))
	if err != nil {
		t.Fatalf("MakeString(hello world): %v", err)
	}
	if long.Type() != TagBlock || h.BlockType(long) != BlockString {
		t.Fatalf("long string did not spill to a string block: %#v", long)
	}
	if string(h.StringBytes(long)) != "hello world" {
		t.Fatalf("StringBytes(long) = %q", h.StringBytes(long))
	}
	if !h.IsString(short) || !h.IsString(long) {
		t.Fatalf("IsString false for a constructed string")
	}
}

func TestEqualContentEqualityForLongBlocks(t *testing.T) {
	h := newTestHeap(t)

	a, _ := h.MakeString([]byte("same content here"))
	b, _ := h.MakeString([]byte("same content here"))
	if EqIdentical(a, b) {
		t.Fatalf("two separately allocated blocks should not be eq? by reference")
	}
	if !h.Equal(a, b) {
		t.Fatalf("Equal should see same-content string blocks as equal")
	}

	c, _ := h.MakeString([]byte("different"))
	if h.Equal(a, c) {
		t.Fatalf("Equal should not conflate differing string content")
	}
}

func TestListRoundTripAndLength(t *testing.T) {
	h := newTestHeap(t)

	xs := []Value{makeShortInt(1), makeShortInt(2), makeShortInt(3)}
	lst, err := h.MakeList(xs)
	if err != nil {
		t.Fatalf("MakeList: %v", err)
	}
	if !h.IsList(lst) {
		t.Fatalf("IsList false for a freshly built proper list")
	}
	if got := h.Length(lst); got != 3 {
		t.Fatalf("Length = %d, want 3", got)
	}
	back := h.ListToSlice(lst)
	if len(back) != 3 {
		t.Fatalf("ListToSlice returned %d elements, want 3", len(back))
	}
	for i, v := range back {
		if h.IntValue(v) != int64(i+1) {
			t.Fatalf("ListToSlice[%d] = %d, want %d", i, h.IntValue(v), i+1)
		}
	}
}

func TestIsListRejectsImproperAndCyclicLists(t *testing.T) {
	h := newTestHeap(t)

	improper, _ := h.MakeCons(makeShortInt(1), makeShortInt(2))
	if h.IsList(improper) {
		t.Fatalf("IsList true for a dotted pair")
	}

	cyc, _ := h.MakeCons(makeShortInt(1), Nil)
	h.SetRest(cyc, cyc)
	if h.IsList(cyc) {
		t.Fatalf("IsList true for a cyclic structure")
	}
}

func TestEnvAndProcedureHints(t *testing.T) {
	h := newTestHeap(t)

	p, _ := h.MakeCons(Nil, Nil)
	if h.IsEnv(p) || h.IsProcedure(p) {
		t.Fatalf("freshly-consed pair should carry no hint")
	}
	h.setHint(p, HintEnvHeader)
	if !h.IsEnv(p) || h.IsPair(p) {
		t.Fatalf("hint promotion to env-header not reflected by predicates")
	}
}
