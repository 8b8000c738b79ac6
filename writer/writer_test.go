package writer

import (
	"strings"
	"testing"

	"github.com/dtonhofer/micro-scheme-interpreter/heap"
)

type noRoots struct{}

func (noRoots) Roots() []heap.Value { return nil }

func newTestHeap(t *testing.T) *heap.Heap {
	t.Helper()
	h := heap.New(heap.Config{PairCells: 256, BlockBytes: 4096})
	h.SetRoots(noRoots{})
	if err := h.Symbols.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}
	return h
}

func render(t *testing.T, h *heap.Heap, v heap.Value, opts Options) string {
	t.Helper()
	var sb strings.Builder
	if err := New(h, &sb, opts).Write(v); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return sb.String()
}

func TestWriteAtoms(t *testing.T) {
	h := newTestHeap(t)
	if got := render(t, h, heap.Nil, Options{}); got != "()" {
		t.Fatalf("nil -> %q", got)
	}
	if got := render(t, h, heap.MakeBool(true), Options{}); got != "#t" {
		t.Fatalf("#t -> %q", got)
	}
	n, _ := h.MakeInt(7)
	if got := render(t, h, n, Options{}); got != "7" {
		t.Fatalf("7 -> %q", got)
	}
}

func TestWriteProperList(t *testing.T) {
	h := newTestHeap(t)
	xs := []heap.Value{mustInt(t, h, 1), mustInt(t, h, 2), mustInt(t, h, 3)}
	lst, err := h.MakeList(xs)
	if err != nil {
		t.Fatalf("MakeList: %v", err)
	}
	if got := render(t, h, lst, Options{}); got != "(1 2 3)" {
		t.Fatalf("list -> %q", got)
	}
}

func TestWriteDottedPair(t *testing.T) {
	h := newTestHeap(t)
	p, _ := h.MakeCons(mustInt(t, h, 1), mustInt(t, h, 2))
	if got := render(t, h, p, Options{}); got != "(1 . 2)" {
		t.Fatalf("dotted -> %q", got)
	}
}

func TestWriteRespectsNodeQuota(t *testing.T) {
	h := newTestHeap(t)
	var xs []heap.Value
	for i := 0; i < 50; i++ {
		xs = append(xs, mustInt(t, h, int64(i)))
	}
	lst, err := h.MakeList(xs)
	if err != nil {
		t.Fatalf("MakeList: %v", err)
	}
	got := render(t, h, lst, Options{NodeQuota: 5})
	if !strings.Contains(got, "...") {
		t.Fatalf("expected truncation marker, got %q", got)
	}
}

func TestWriteSymbolAndString(t *testing.T) {
	h := newTestHeap(t)
	sym, _ := h.MakeSymbol([]byte("a-long-symbol"))
	if got := render(t, h, sym, Options{}); got != "a-long-symbol" {
		t.Fatalf("symbol -> %q", got)
	}
	s, _ := h.MakeString([]byte("hi there"))
	if got := render(t, h, s, Options{}); got != `"hi there"` {
		t.Fatalf("string -> %q", got)
	}
}

func mustInt(t *testing.T, h *heap.Heap, n int64) heap.Value {
	t.Helper()
	v, err := h.MakeInt(n)
	if err != nil {
		t.Fatalf("MakeInt: %v", err)
	}
	return v
}
