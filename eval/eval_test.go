package eval

import (
	"strings"
	"testing"

	"github.com/dtonhofer/micro-scheme-interpreter/heap"
	"github.com/dtonhofer/micro-scheme-interpreter/reader"
	"github.com/dtonhofer/micro-scheme-interpreter/stacks"
	"github.com/dtonhofer/micro-scheme-interpreter/writer"
	"github.com/stretchr/testify/require"
)

type testIO struct {
	out strings.Builder
	h   *heap.Heap
}

func (t *testIO) WriteValue(v heap.Value) error {
	return writer.New(t.h, &t.out, writer.Options{}).Write(v)
}

func (t *testIO) WriteString(s string) error {
	_, err := t.out.WriteString(s)
	return err
}

func (t *testIO) ReadDatum() (heap.Value, bool, error) { return heap.Nil, false, nil }

type harness struct {
	t   *testing.T
	h   *heap.Heap
	m   *stacks.Machine
	ev  *Evaluator
	env heap.Value
	io  *testIO
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := heap.New(heap.Config{PairCells: 1 << 14, BlockBytes: 1 << 16})
	m := stacks.New(4096, 4096)
	h.SetRoots(m)
	require.NoError(t, h.Symbols.Boot())

	env, err := newEnv(h, heap.Nil, heap.Nil)
	require.NoError(t, err)

	io := &testIO{h: h}
	ev, err := New(h, m, io)
	require.NoError(t, err)
	return &harness{t: t, h: h, m: m, ev: ev, env: env, io: io}
}

// run reads and evaluates every top-level form in src, returning the
// value of the last one.
func (hn *harness) run(src string) heap.Value {
	hn.t.Helper()
	rd := reader.New(hn.h, strings.NewReader(src), reader.DefaultRingCapacity)
	var last heap.Value
	for {
		v, status, err := rd.ReadOne()
		require.NoError(hn.t, err, "ReadOne")
		if status == reader.StatusTerm {
			break
		}
		val, err := hn.ev.Eval(v, hn.env)
		require.NoError(hn.t, err, "Eval(%s)", v.GoString())
		last = val
	}
	return last
}

func (hn *harness) runErr(src string) error {
	hn.t.Helper()
	rd := reader.New(hn.h, strings.NewReader(src), reader.DefaultRingCapacity)
	for {
		v, status, err := rd.ReadOne()
		if err != nil {
			return err
		}
		if status == reader.StatusTerm {
			return nil
		}
		if _, err := hn.ev.Eval(v, hn.env); err != nil {
			return err
		}
	}
}

func requireInt(t *testing.T, h *heap.Heap, v heap.Value, want int64) {
	t.Helper()
	require.True(t, h.IsInteger(v), "expected integer, got %s", v.GoString())
	require.Equal(t, want, h.IntValue(v))
}

func TestSelfEvalAndArithmetic(t *testing.T) {
	hn := newHarness(t)
	requireInt(t, hn.h, hn.run("(+ 1 2 3)"), 6)
	requireInt(t, hn.h, hn.run("(* 2 3 4)"), 24)
	requireInt(t, hn.h, hn.run("(- 10 3 2)"), 5)
	requireInt(t, hn.h, hn.run("(/ 7 2)"), 3)
	requireInt(t, hn.h, hn.run("(/ -7 2)"), -4)
}

func TestDefineAndApply(t *testing.T) {
	hn := newHarness(t)
	requireInt(t, hn.h, hn.run("(define (fact n) (if (< n 2) 1 (* n (fact (- n 1))))) (fact 6)"), 720)
}

func TestLet(t *testing.T) {
	hn := newHarness(t)
	requireInt(t, hn.h, hn.run("(let ((x 10) (y 20)) (+ x y))"), 30)
}

func TestVariadicLambda(t *testing.T) {
	hn := newHarness(t)
	v := hn.run("((lambda x x) 1 2 3)")
	got := hn.h.ListToSlice(v)
	require.Len(t, got, 3)
	requireInt(t, hn.h, got[0], 1)
	requireInt(t, hn.h, got[2], 3)
}

func TestCond(t *testing.T) {
	hn := newHarness(t)
	v := hn.run("(cond ((= 1 2) 'a) ((= 2 2) 'b) (else 'c))")
	sym, err := hn.h.MakeSymbol([]byte("b"))
	require.NoError(t, err)
	require.True(t, hn.h.Equal(v, sym), "expected b, got %s", v.GoString())
}

func TestCyclicSetCdrWriteTerminates(t *testing.T) {
	hn := newHarness(t)
	v := hn.run("(define p (cons 1 2)) (set-cdr! p p) (pair? p)")
	require.True(t, v.AsBool())

	pSym, err := hn.h.MakeSymbol([]byte("p"))
	require.NoError(t, err)
	binding, ok := lookupVariable(hn.h, hn.env, pSym)
	require.True(t, ok, "p should be bound")

	err = hn.io.WriteValue(hn.h.Rest(binding))
	require.NoError(t, err, "WriteValue on a self-cyclic pair should terminate without error")
	require.Contains(t, hn.io.out.String(), "...", "expected node-quota truncation marker in output")
}

func TestAndOrShortCircuit(t *testing.T) {
	hn := newHarness(t)
	requireInt(t, hn.h, hn.run("(and 1 2 3)"), 3)
	requireInt(t, hn.h, hn.run("(or #f #f 5)"), 5)
	got := hn.run("(and #f (error \"should not evaluate\"))")
	require.True(t, got.IsFalse(), "and should short-circuit on first false")
}

func TestUnboundVariableRaisesError(t *testing.T) {
	hn := newHarness(t)
	require.Error(t, hn.runErr("totally-unbound-name"))
}

func TestDefineReservedSymbolIsRejected(t *testing.T) {
	hn := newHarness(t)
	require.Error(t, hn.runErr("(define if 5)"))
}

// TestNoInterpreterStackGrowthUnderRecursion is the §8 testable property:
// a self-tail-recursive loop of significant depth must not exhaust either
// explicit stack, because every tail call in the body reuses the current
// continuation instead of pushing a new one.
func TestNoInterpreterStackGrowthUnderRecursion(t *testing.T) {
	hn := newHarness(t)
	hn.run("(define (loop n) (if (= n 0) 'done (loop (- n 1))))")
	before := hn.m.PointerDepth()
	beforeLabels := hn.m.LabelDepth()
	hn.run("(loop 100000)")
	require.Equal(t, before, hn.m.PointerDepth(), "pointer stack grew")
	require.Equal(t, beforeLabels, hn.m.LabelDepth(), "label stack grew")
}

func TestGCStatShape(t *testing.T) {
	hn := newHarness(t)
	v := hn.run("(gcstat)")
	require.Equal(t, 4, hn.h.Length(v))
}
