package eval

import (
	"github.com/dtonhofer/micro-scheme-interpreter/heap"
	"github.com/dtonhofer/micro-scheme-interpreter/ierr"
)

// doAnd handles `(and e…)` (§4.5 "and"): an empty operand list is
// vacuously true; otherwise the loop label takes over.
func (e *Evaluator) doAnd() error {
	e.m.Reg.Unev = e.h.Rest(e.m.Reg.Exp)
	if e.m.Reg.Unev.IsNil() {
		return e.doReturn(heap.MakeBool(true))
	}
	e.setCont(LAndLoop)
	return nil
}

func (e *Evaluator) doOr() error {
	e.m.Reg.Unev = e.h.Rest(e.m.Reg.Exp)
	if e.m.Reg.Unev.IsNil() {
		return e.doReturn(heap.MakeBool(false))
	}
	e.setCont(LOrLoop)
	return nil
}

// dispatchAndOr advances the and/or loop by one operand. The last operand
// is evaluated in tail position (its value, whatever it is, becomes the
// form's result); every earlier operand is evaluated non-tail so its
// truth value can be tested by *-cont before continuing.
func (e *Evaluator) dispatchAndOr(isAnd bool) error {
	h := e.h
	unev := e.m.Reg.Unev
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
	cont := LAndCont
	if !isAnd {
		cont = LOrCont
	}
	if err := e.m.PushLabel(uint8(cont)); err != nil {
		return err
	}
	e.m.Reg.Exp = first
	e.setCont(LStart)
	return nil
}

func (e *Evaluator) doAndCont() error {
	rest, err := e.pop()
	if err != nil {
		return err
	}
	if e.m.Reg.Val.IsFalse() {
		return e.doReturn(e.m.Reg.Val)
	}
	e.m.Reg.Unev = rest
	e.setCont(LAndLoop)
	return nil
}

func (e *Evaluator) doOrCont() error {
	rest, err := e.pop()
	if err != nil {
		return err
	}
	if !e.m.Reg.Val.IsFalse() {
		return e.doReturn(e.m.Reg.Val)
	}
	e.m.Reg.Unev = rest
	e.setCont(LOrLoop)
	return nil
}

// doConditional normalizes `if` and `cond` into a common clause-list shape
// — a list of (test . consequents) clauses, `else` matching unconditionally
// — then hands off to the shared conditional loop (§4.5 "if / cond").
func (e *Evaluator) doConditional() error {
	h := e.h
	exp := e.m.Reg.Exp
	if e.syntaxCheck {
		if err := e.checkConditional(exp); err != nil {
			return err
		}
	}
	head := h.First(exp)

	var clauses heap.Value
	if heap.EqIdentical(head, e.reservedIf) {
		built, err := e.buildIfClauses(exp)
		if err != nil {
			return err
		}
		clauses = built
	} else {
		clauses = h.Rest(exp)
	}
	e.m.Reg.Unev = clauses
	e.setCont(LCondLoop)
	return nil
}

// buildIfClauses turns `(if test conseq [alt])` into `((test conseq))` or
// `((test conseq) (else alt))`.
func (e *Evaluator) buildIfClauses(exp heap.Value) (heap.Value, error) {
	h := e.h
	rest := h.Rest(exp)
	test := h.First(rest)
	rest2 := h.Rest(rest)
	conseq := h.First(rest2)
	rest3 := h.Rest(rest2)

	consClause, err := h.MakeList([]heap.Value{test, conseq})
	if err != nil {
		return heap.Value{}, err
	}
	if rest3.IsNil() {
		return h.MakeList([]heap.Value{consClause})
	}
	alt := h.First(rest3)
	elseClause, err := h.MakeList([]heap.Value{e.reservedElse, alt})
	if err != nil {
		return heap.Value{}, err
	}
	return h.MakeList([]heap.Value{consClause, elseClause})
}

// doCondLoop evaluates the next clause's test (§4.5 "conditional loop").
// A matched clause's consequents are entered in tail position; an
// unmatched clause loops without growing either stack.
func (e *Evaluator) doCondLoop() error {
	h := e.h
	unev := e.m.Reg.Unev
	if unev.IsNil() {
		return ierr.New(ierr.KindSyntax, "conditional without else")
	}
	clause := h.First(unev)
	restClauses := h.Rest(unev)
	head := h.First(clause)
	consequents := h.Rest(clause)

	if heap.EqIdentical(head, e.reservedElse) {
		return e.enterSequenceTail(consequents)
	}

	if err := e.push(consequents); err != nil {
		return err
	}
	if err := e.push(restClauses); err != nil {
		return err
	}
	if err := e.m.PushLabel(uint8(LCondCont)); err != nil {
		return err
	}
	e.m.Reg.Exp = head
	e.setCont(LStart)
	return nil
}

func (e *Evaluator) doCondCont() error {
	consequents, restClauses, err := e.pop2()
	if err != nil {
		return err
	}
	if e.m.Reg.Val.IsFalse() {
		e.m.Reg.Unev = restClauses
		e.setCont(LCondLoop)
		return nil
	}
	return e.enterSequenceTail(consequents)
}

// enterSequenceTail jumps into eval-sequence in tail position: the caller
// is relinquishing its own continuation to the sequence, not adding one,
// so this never grows the label stack.
func (e *Evaluator) enterSequenceTail(forms heap.Value) error {
	e.m.Reg.Unev = forms
	e.setCont(LEvalSequence)
	return nil
}
