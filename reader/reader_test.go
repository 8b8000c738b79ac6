package reader

import (
	"strings"
	"testing"

	"github.com/dtonhofer/micro-scheme-interpreter/heap"
)

func newTestReader(t *testing.T, src string) (*Reader, *heap.Heap) {
	t.Helper()
	h := heap.New(heap.Config{PairCells: 256, BlockBytes: 4096})
	h.SetRoots(noRoots{})
	if err := h.Symbols.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}
	return New(h, strings.NewReader(src), DefaultRingCapacity), h
}

type noRoots struct{}

func (noRoots) Roots() []heap.Value { return nil }

func TestReadInteger(t *testing.T) {
	rd, h := newTestReader(t, "42")
	v, status, err := rd.ReadOne()
	if err != nil {
		t.Fatalf("ReadOne: %v", err)
	}
	if status != StatusStop {
		t.Fatalf("status = %v, want stop", status)
	}
	if !h.IsInteger(v) || h.IntValue(v) != 42 {
		t.Fatalf("value = %v, want integer 42", v.GoString())
	}
}

func TestReadNegativeInteger(t *testing.T) {
	rd, h := newTestReader(t, "-17 ")
	v, status, err := rd.ReadOne()
	if err != nil {
		t.Fatalf("ReadOne: %v", err)
	}
	if status != StatusOK {
		t.Fatalf("status = %v, want ok", status)
	}
	if h.IntValue(v) != -17 {
		t.Fatalf("value = %d, want -17", h.IntValue(v))
	}
}

func TestReadHexInteger(t *testing.T) {
	rd, h := newTestReader(t, "#x1F")
	v, _, err := rd.ReadOne()
	if err != nil {
		t.Fatalf("ReadOne: %v", err)
	}
	if h.IntValue(v) != 31 {
		t.Fatalf("value = %d, want 31", h.IntValue(v))
	}
}

func TestReadBooleanAndChar(t *testing.T) {
	rd, h := newTestReader(t, "#t #f #\\a #\\space")
	var vals []heap.Value
	for i := 0; i < 4; i++ {
		v, status, err := rd.ReadOne()
		if err != nil {
			t.Fatalf("ReadOne %d: %v", i, err)
		}
		if status == StatusTerm {
			t.Fatalf("unexpected term at %d", i)
		}
		vals = append(vals, v)
	}
	if !vals[0].AsBool() || vals[1].AsBool() {
		t.Fatalf("boolean values wrong")
	}
	if vals[2].AsChar() != 'a' {
		t.Fatalf("char 'a' wrong: %v", vals[2].GoString())
	}
	if vals[3].AsChar() != ' ' {
		t.Fatalf("char space wrong: %v", vals[3].GoString())
	}
	_ = h
}

func TestReadStringWithEscapes(t *testing.T) {
	rd, h := newTestReader(t, `"hi\nthere"`)
	v, _, err := rd.ReadOne()
	if err != nil {
		t.Fatalf("ReadOne: %v", err)
	}
	if string(h.StringBytes(v)) != "hi\nthere" {
		t.Fatalf("got %q", h.StringBytes(v))
	}
}

func TestReadSymbol(t *testing.T) {
	rd, h := newTestReader(t, "foo-bar?")
	v, _, err := rd.ReadOne()
	if err != nil {
		t.Fatalf("ReadOne: %v", err)
	}
	if !h.IsSymbol(v) || string(h.SymbolBytes(v)) != "foo-bar?" {
		t.Fatalf("got %v", v.GoString())
	}
}

func TestReadProperList(t *testing.T) {
	rd, h := newTestReader(t, "(1 2 3)")
	v, _, err := rd.ReadOne()
	if err != nil {
		t.Fatalf("ReadOne: %v", err)
	}
	if h.Length(v) != 3 {
		t.Fatalf("Length = %d, want 3", h.Length(v))
	}
}

func TestReadDottedPair(t *testing.T) {
	rd, h := newTestReader(t, "(1 . 2)")
	v, _, err := rd.ReadOne()
	if err != nil {
		t.Fatalf("ReadOne: %v", err)
	}
	if !h.IsPair(v) || h.IntValue(h.First(v)) != 1 || h.IntValue(h.Rest(v)) != 2 {
		t.Fatalf("got %v", v.GoString())
	}
}

func TestReadQuoted(t *testing.T) {
	rd, h := newTestReader(t, "'x")
	v, _, err := rd.ReadOne()
	if err != nil {
		t.Fatalf("ReadOne: %v", err)
	}
	if !h.IsPair(v) {
		t.Fatalf("quoted datum should read as (quote x)")
	}
	if string(h.SymbolBytes(h.First(v))) != "quote" {
		t.Fatalf("head should be the quote symbol")
	}
}

func TestReadMultipleThenTerm(t *testing.T) {
	rd, _ := newTestReader(t, "1 2")
	_, s1, _ := rd.ReadOne()
	if s1 != StatusOK {
		t.Fatalf("first status = %v, want ok", s1)
	}
	_, s2, _ := rd.ReadOne()
	if s2 != StatusStop {
		t.Fatalf("second status = %v, want stop", s2)
	}
	_, s3, _ := rd.ReadOne()
	if s3 != StatusTerm {
		t.Fatalf("third status = %v, want term", s3)
	}
}

func TestUnterminatedStringIsSyntaxError(t *testing.T) {
	rd, _ := newTestReader(t, `"no closing quote`)
	_, status, err := rd.ReadOne()
	if status != StatusError {
		t.Fatalf("status = %v, want error", status)
	}
	if err == nil {
		t.Fatalf("expected a non-nil error")
	}
}

func TestOverflowingIntegerIsSyntaxError(t *testing.T) {
	rd, _ := newTestReader(t, "99999999999999999999999999")
	_, status, err := rd.ReadOne()
	if status != StatusError {
		t.Fatalf("status = %v, want error", status)
	}
	if err == nil {
		t.Fatalf("expected overflow error")
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	rd, h := newTestReader(t, "; a comment\n42")
	v, _, err := rd.ReadOne()
	if err != nil {
		t.Fatalf("ReadOne: %v", err)
	}
	if h.IntValue(v) != 42 {
		t.Fatalf("comment not skipped: got %v", v.GoString())
	}
}
