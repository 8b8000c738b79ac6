package eval

import (
	"github.com/dtonhofer/micro-scheme-interpreter/heap"
	"github.com/dtonhofer/micro-scheme-interpreter/ierr"
)

// The functions below implement the §4.5 "Syntax checking" flag: each is
// called only when e.syntaxCheck is set, from the special form's entry
// point, and reports the first well-formedness violation it finds. With
// the flag off the evaluator skips straight to the shape it assumes,
// matching "ill-formed input yields undefined (but memory-safe) behavior".

func (e *Evaluator) checkDefine(exp heap.Value) error {
	h := e.h
	rest := h.Rest(exp)
	if !h.IsPair(rest) {
		return ierr.New(ierr.KindSyntax, "define: missing target")
	}
	target := h.First(rest)
	if h.IsPair(target) {
		if !h.IsSymbol(h.First(target)) {
			return ierr.New(ierr.KindSyntax, "define: procedure name must be a symbol")
		}
		return nil
	}
	if !h.IsSymbol(target) {
		return ierr.New(ierr.KindSyntax, "define: target must be a symbol or (name . params)")
	}
	valRest := h.Rest(rest)
	if !h.IsPair(valRest) || !h.Rest(valRest).IsNil() {
		return ierr.New(ierr.KindSyntax, "define: expected exactly one value expression")
	}
	return nil
}

func (e *Evaluator) checkSetBang(exp heap.Value) error {
	h := e.h
	rest := h.Rest(exp)
	if !h.IsPair(rest) || !h.IsSymbol(h.First(rest)) {
		return ierr.New(ierr.KindSyntax, "set!: expected a symbol target")
	}
	valRest := h.Rest(rest)
	if !h.IsPair(valRest) || !h.Rest(valRest).IsNil() {
		return ierr.New(ierr.KindSyntax, "set!: expected exactly one value expression")
	}
	return nil
}

func (e *Evaluator) checkConditional(exp heap.Value) error {
	h := e.h
	head := h.First(exp)
	n := h.Length(h.Rest(exp))
	if heap.EqIdentical(head, e.reservedIf) {
		if n != 2 && n != 3 {
			return ierr.New(ierr.KindSyntax, "if: expected 2 or 3 operands")
		}
		return nil
	}
	clauses := h.ListToSlice(h.Rest(exp))
	if len(clauses) == 0 {
		return ierr.New(ierr.KindSyntax, "cond: expected at least one clause")
	}
	for i, clause := range clauses {
		if h.Length(clause) < 2 {
			return ierr.New(ierr.KindSyntax, "cond: clause must have at least 2 elements")
		}
		head := h.First(clause)
		if heap.EqIdentical(head, e.reservedElse) && i != len(clauses)-1 {
			return ierr.New(ierr.KindSyntax, "cond: else must be the final clause")
		}
	}
	return nil
}

func (e *Evaluator) checkLambda(exp heap.Value) error {
	h := e.h
	rest := h.Rest(exp)
	if !h.IsPair(rest) {
		return ierr.New(ierr.KindSyntax, "lambda: missing parameter list")
	}
	params := h.First(rest)
	if !h.IsSymbol(params) {
		seen := map[string]bool{}
		p := params
		for h.IsPair(p) {
			name := h.First(p)
			if !h.IsSymbol(name) {
				return ierr.New(ierr.KindSyntax, "lambda: parameter must be a symbol")
			}
			key := string(h.SymbolBytes(name))
			if seen[key] {
				return ierr.New(ierr.KindSyntax, "lambda: duplicate parameter %s", key)
			}
			seen[key] = true
			p = h.Rest(p)
		}
		if !p.IsNil() && !h.IsSymbol(p) {
			return ierr.New(ierr.KindSyntax, "lambda: improper parameter list must end in a symbol")
		}
	}
	if h.Rest(rest).IsNil() {
		return ierr.New(ierr.KindSyntax, "lambda: expected at least one body expression")
	}
	return nil
}
