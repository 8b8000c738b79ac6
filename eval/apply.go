package eval

import (
	"github.com/dtonhofer/micro-scheme-interpreter/heap"
	"github.com/dtonhofer/micro-scheme-interpreter/ierr"
)

// doApplication evaluates the operator first (§4.5 "application"); once
// it resolves to a value, evalOperatorCont takes over argument collection.
func (e *Evaluator) doApplication() error {
	h := e.h
	exp := e.m.Reg.Exp
	operatorExp := h.First(exp)
	operands := h.Rest(exp)

	if err := e.push(operands); err != nil {
		return err
	}
	if err := e.push(e.m.Reg.Env); err != nil {
		return err
	}
	if err := e.m.PushLabel(uint8(LEvalOperatorCont)); err != nil {
		return err
	}
	e.m.Reg.Exp = operatorExp
	e.setCont(LStart)
	return nil
}

func (e *Evaluator) doEvalOperatorCont() error {
	operands, env, err := e.pop2()
	if err != nil {
		return err
	}
	e.m.Reg.Env = env
	e.m.Reg.Fun = e.m.Reg.Val
	e.m.Reg.Argl = heap.Nil
	e.m.Reg.Unev = operands
	return e.dispatchNextArg()
}

// dispatchNextArg evaluates operands strictly left to right (§5
// "Argument evaluation is strictly left-to-right"). Each evaluated value
// is consed onto argl as it arrives, so argl accumulates in the reverse of
// evaluation order; finishArgs performs the single reversal pass that
// produces the forward list application.micro-apply expects (§4.5
// "Argument collection": "popped and consed in reverse onto argl,
// producing a forward list" — here the reversal happens on argl itself
// rather than on a separate raw-value stack, since the two are
// observationally identical and this avoids a second, parallel counting
// scheme on the pointer stack). Fun, Argl and Env are saved on the pointer
// stack while each operand is evaluated and restored afterwards, since an
// operand that is itself an application overwrites all three.
func (e *Evaluator) dispatchNextArg() error {
	h := e.h
	unev := e.m.Reg.Unev
	if unev.IsNil() {
		return e.finishArgs()
	}
	first := h.First(unev)
	rest := h.Rest(unev)

	for _, v := range []heap.Value{e.m.Reg.Fun, e.m.Reg.Argl, e.m.Reg.Env, rest} {
		if err := e.push(v); err != nil {
			return err
		}
	}
	if err := e.m.PushLabel(uint8(LEvalArgCont)); err != nil {
		return err
	}
	e.m.Reg.Exp = first
	e.setCont(LStart)
	return nil
}

func (e *Evaluator) doEvalArgCont() error {
	fun, savedArgl, env, rest, err := e.pop4()
	if err != nil {
		return err
	}
	e.m.Reg.Fun, e.m.Reg.Argl, e.m.Reg.Env, e.m.Reg.Unev = fun, savedArgl, env, rest
	argl, err := e.h.MakeCons(e.m.Reg.Val, e.m.Reg.Argl)
	if err != nil {
		return err
	}
	e.m.Reg.Argl = argl
	return e.dispatchNextArg()
}

func (e *Evaluator) finishArgs() error {
	forward, err := reverseList(e.h, e.m.Reg.Argl)
	if err != nil {
		return err
	}
	e.m.Reg.Argl = forward
	e.setCont(LMicroApply)
	return nil
}

func reverseList(h *heap.Heap, v heap.Value) (heap.Value, error) {
	result := heap.Nil
	for h.IsPair(v) {
		var err error
		result, err = h.MakeCons(h.First(v), result)
		if err != nil {
			return heap.Value{}, err
		}
		v = h.Rest(v)
	}
	return result, nil
}

// doMicroApply dispatches a resolved procedure against its argument list
// (§4.5 "micro-apply"). A built-in runs immediately and returns through
// the normal continuation; a compound procedure extends its captured
// environment with a fresh frame and falls into eval-sequence in tail
// position, so a procedure call in tail position never grows either
// stack.
func (e *Evaluator) doMicroApply() error {
	h := e.h
	fun := e.m.Reg.Fun
	argl := e.m.Reg.Argl

	if !h.IsProcedure(fun) {
		return ierr.New(ierr.KindUnapplicable, "not applicable: %s", fun.GoString())
	}
	head := h.First(fun)

	if h.IsSymbol(head) && h.Symbols.IsReserved(head) {
		name := string(h.SymbolBytes(head))
		fn, ok := e.builtins[name]
		if !ok {
			return ierr.New(ierr.KindFatal, "no built-in registered for %s", name)
		}
		val, err := fn(e, argl)
		if err != nil {
			return err
		}
		return e.doReturn(val)
	}

	// Compound: head is the literal (lambda params body…) expression;
	// Rest(fun) is the captured environment.
	params := h.First(h.Rest(head))
	body := h.Rest(h.Rest(head))
	capturedEnv := h.Rest(fun)

	frame, err := bindParams(h, params, argl)
	if err != nil {
		return err
	}
	newFrame, err := newEnv(h, frame, capturedEnv)
	if err != nil {
		return err
	}
	e.m.Reg.Env = newFrame
	return e.enterSequenceTail(body)
}

// doEvalSequence evaluates a body in order, discarding every result but
// the last (§4.5 "eval-sequence"). The final expression is entered in
// tail position without pushing a continuation — the mechanism by which
// `(define (loop n) (if ... (loop (- n 1))))` runs in constant stack
// space (§8).
func (e *Evaluator) doEvalSequence() error {
	h := e.h
	unev := e.m.Reg.Unev
	if unev.IsNil() {
		return e.doReturn(heap.Nil)
	}
	first := h.First(unev)
	rest := h.Rest(unev)

	if rest.IsNil() {
		e.m.Reg.Exp = first
		e.setCont(LStart)
		return nil
	}

	if err := e.push(rest); err != nil {
		return err
	}
	if err := e.m.PushLabel(uint8(LEvalSequenceCont)); err != nil {
		return err
	}
	e.m.Reg.Exp = first
	e.setCont(LStart)
	return nil
}

func (e *Evaluator) doEvalSequenceCont() error {
	rest, err := e.pop()
	if err != nil {
		return err
	}
	e.m.Reg.Unev = rest
	e.setCont(LEvalSequence)
	return nil
}
