// Package eval implements the explicit-control evaluator (§4.5): a single
// state machine dispatching on a label register, using stacks.Machine's
// pointer and label stacks to hold every pending continuation instead of
// the Go call stack. The shape — an explicit work stack driving an
// iterative dispatch loop instead of recursive descent — follows the
// teacher's WalkerCore: a traversal stack of small state records
// (StackEntry{offset, state}) consumed by one iterative loop rather than
// a recursive walk, generalized here from hive-cell offsets to Scheme
// values and continuation labels.
package eval

import (
	"github.com/dtonhofer/micro-scheme-interpreter/heap"
	"github.com/dtonhofer/micro-scheme-interpreter/ierr"
	"github.com/dtonhofer/micro-scheme-interpreter/stacks"
)

// IO abstracts the built-ins that perform input/output (write, newline,
// read) so the evaluator does not hardcode os.Stdout/os.Stdin.
type IO interface {
	WriteValue(v heap.Value) error
	WriteString(s string) error
	ReadDatum() (heap.Value, bool, error) // value, ok, error; ok=false on EOF
}

// Evaluator runs the state machine for one Heap/Machine pair.
type Evaluator struct {
	h *heap.Heap
	m *stacks.Machine
	io IO

	syntaxCheck bool

	reservedQuote, reservedDefine, reservedSetBang                heap.Value
	reservedIf, reservedCond, reservedElse                        heap.Value
	reservedAnd, reservedOr, reservedLambda, reservedLet           heap.Value
	reservedBangBang                                              heap.Value
	builtins map[string]builtinFunc
}

// New constructs an Evaluator. Boot must already have run on h.Symbols.
func New(h *heap.Heap, m *stacks.Machine, io IO) (*Evaluator, error) {
	e := &Evaluator{h: h, m: m, io: io, syntaxCheck: true}

	var err error
	for sym, dst := range map[string]*heap.Value{
		"quote": &e.reservedQuote, "define": &e.reservedDefine, "set!": &e.reservedSetBang,
		"if": &e.reservedIf, "cond": &e.reservedCond, "else": &e.reservedElse,
		"and": &e.reservedAnd, "or": &e.reservedOr, "lambda": &e.reservedLambda, "let": &e.reservedLet,
		"!!": &e.reservedBangBang,
	} {
		*dst, err = h.MakeSymbol([]byte(sym))
		if err != nil {
			return nil, err
		}
	}
	e.builtins = buildBuiltinTable()
	return e, nil
}

// SyntaxCheckEnabled reports the process-wide syntax-check flag (§4.5).
func (e *Evaluator) SyntaxCheckEnabled() bool { return e.syntaxCheck }

// ToggleSyntaxCheck flips the flag and returns its new value (the
// synchecktoggle built-in, §4.5).
func (e *Evaluator) ToggleSyntaxCheck() bool {
	e.syntaxCheck = !e.syntaxCheck
	return e.syntaxCheck
}

// Eval runs the machine to completion starting from exp in env, returning
// the final value. It never recurses in Go proportionally to the Scheme
// expression's structure or to tail-recursive depth: every pending
// continuation lives on m's pointer and label stacks, not on this
// function's own call frame (§8 "no interpreter-stack growth under
// recursion").
func (e *Evaluator) Eval(exp, env heap.Value) (heap.Value, error) {
	e.m.Reg.Exp = exp
	e.m.Reg.Env = env
	e.m.Reg.Cont = uint8(LStart)

	for {
		label := Label(e.m.Reg.Cont)
		if label == LEnd {
			return e.m.Reg.Val, nil
		}
		if err := e.step(label); err != nil {
			return heap.Value{}, err
		}
	}
}

// doReturn implements the machine's single "return from this state"
// operation (§4.5 "the machine terminates when cont = end"): it sets val,
// then resumes whatever continuation is on top of the label stack, or
// halts at end if the label stack is empty.
func (e *Evaluator) doReturn(val heap.Value) error {
	e.m.Reg.Val = val
	l, err := e.m.PopLabel()
	if err == nil {
		e.m.Reg.Cont = l
		return nil
	}
	// Empty label stack: this was the outermost evaluation, so finish.
	e.m.Reg.Cont = uint8(LEnd)
	return nil
}

func (e *Evaluator) push(v heap.Value) error { return e.m.PushPointer(v) }
func (e *Evaluator) pop() (heap.Value, error) {
	return e.m.PopPointer()
}

// pop2 pops two values, returning them in the order they were pushed
// (i.e. reversing the LIFO pop order for caller convenience).
func (e *Evaluator) pop2() (a, b heap.Value, err error) {
	b, err = e.pop()
	if err != nil {
		return
	}
	a, err = e.pop()
	return
}

func (e *Evaluator) pop3() (a, b, c heap.Value, err error) {
	c, err = e.pop()
	if err != nil {
		return
	}
	b, err = e.pop()
	if err != nil {
		return
	}
	a, err = e.pop()
	return
}

func (e *Evaluator) pop4() (a, b, c, d heap.Value, err error) {
	d, err = e.pop()
	if err != nil {
		return
	}
	c, err = e.pop()
	if err != nil {
		return
	}
	b, err = e.pop()
	if err != nil {
		return
	}
	a, err = e.pop()
	return
}

func (e *Evaluator) setCont(l Label) { e.m.Reg.Cont = uint8(l) }

func wrongType(format string, args ...any) error {
	return ierr.New(ierr.KindArityType, format, args...)
}
