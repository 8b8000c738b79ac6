package eval

import (
	"github.com/dtonhofer/micro-scheme-interpreter/heap"
	"github.com/dtonhofer/micro-scheme-interpreter/ierr"
)

// step runs exactly one evaluator state (§4.5 "Labels and contracts") and
// leaves the machine positioned at whatever state comes next: either by
// mutating Reg.Cont directly (classification and every tail transition) or
// by pushing a saved continuation and jumping to start (every non-tail
// transition). No case here calls step recursively — Eval's loop is the
// only place a new state is entered — so Go call-stack depth never grows
// with Scheme recursion depth.
func (e *Evaluator) step(label Label) error {
	switch label {
	case LStart:
		return e.doStart()
	case LSelfEval:
		return e.doReturn(e.m.Reg.Exp)
	case LVariable:
		return e.doVariable()
	case LQuoted:
		return e.doReturn(e.h.First(e.h.Rest(e.m.Reg.Exp)))
	case LDefine:
		return e.doDefine()
	case LDefineCont:
		return e.doDefineCont()
	case LSetBang:
		return e.doSetBang()
	case LSetBangCont:
		return e.doSetBangCont()
	case LLet:
		return e.doLet()
	case LAnd:
		return e.doAnd()
	case LAndLoop:
		return e.dispatchAndOr(true)
	case LAndCont:
		return e.doAndCont()
	case LOr:
		return e.doOr()
	case LOrLoop:
		return e.dispatchAndOr(false)
	case LOrCont:
		return e.doOrCont()
	case LConditional:
		return e.doConditional()
	case LCondLoop:
		return e.doCondLoop()
	case LCondCont:
		return e.doCondCont()
	case LLambda:
		return e.doLambda()
	case LApplication:
		return e.doApplication()
	case LEvalOperatorCont:
		return e.doEvalOperatorCont()
	case LEvalArgCont:
		return e.doEvalArgCont()
	case LMicroApply:
		return e.doMicroApply()
	case LEvalSequence:
		return e.doEvalSequence()
	case LEvalSequenceCont:
		return e.doEvalSequenceCont()
	default:
		return ierr.New(ierr.KindFatal, "invalid evaluator label %d", label)
	}
}

// doStart classifies exp and dispatches by operator identity (§4.5
// "start"). A pair whose head is not one of the reserved special-form
// keywords is an application, including the case where the head is itself
// a pair (e.g. ((lambda (x) x) 5)).
func (e *Evaluator) doStart() error {
	h := e.h
	exp := e.m.Reg.Exp

	if h.IsPair(exp) {
		first := h.First(exp)
		if h.IsSymbol(first) {
			switch {
			case heap.EqIdentical(first, e.reservedQuote):
				e.setCont(LQuoted)
			case heap.EqIdentical(first, e.reservedDefine):
				e.setCont(LDefine)
			case heap.EqIdentical(first, e.reservedSetBang):
				e.setCont(LSetBang)
			case heap.EqIdentical(first, e.reservedIf), heap.EqIdentical(first, e.reservedCond):
				e.setCont(LConditional)
			case heap.EqIdentical(first, e.reservedAnd):
				e.setCont(LAnd)
			case heap.EqIdentical(first, e.reservedOr):
				e.setCont(LOr)
			case heap.EqIdentical(first, e.reservedLambda):
				e.setCont(LLambda)
			case heap.EqIdentical(first, e.reservedLet):
				e.setCont(LLet)
			default:
				e.setCont(LApplication)
			}
			return nil
		}
		e.setCont(LApplication)
		return nil
	}

	if h.IsSymbol(exp) {
		e.setCont(LVariable)
		return nil
	}
	e.setCont(LSelfEval)
	return nil
}

// doVariable resolves a symbol reference (§4.5 "variable"). A reserved
// symbol fabricates a fresh built-in procedure cell on every reference
// rather than caching one, matching the built-in's description as "created
// on demand" (§3 "Lifecycle"). "!!" is reserved (so user code cannot
// define or set! it) but is not a procedure name, so it is excluded from
// that fabrication and resolved as an ordinary binding instead (spec.md's
// "Reserved variable !!").
func (e *Evaluator) doVariable() error {
	h := e.h
	name := e.m.Reg.Exp
	if heap.EqIdentical(name, e.reservedBangBang) {
		binding, ok := lookupVariable(h, e.m.Reg.Env, name)
		if !ok {
			return ierr.New(ierr.KindUnbound, "unbound variable: %s", h.SymbolBytes(name))
		}
		return e.doReturn(h.Rest(binding))
	}
	if h.Symbols.IsReserved(name) {
		proc, err := h.MakeCons(name, heap.Nil)
		if err != nil {
			return err
		}
		h.PromoteProcedureHeader(proc)
		return e.doReturn(proc)
	}
	binding, ok := lookupVariable(h, e.m.Reg.Env, name)
	if !ok {
		return ierr.New(ierr.KindUnbound, "unbound variable: %s", h.SymbolBytes(name))
	}
	return e.doReturn(h.Rest(binding))
}

// doDefine handles both `(define name v)` and the lambda-shorthand
// `(define (f . params) body…)`, rewritten in place to `(define f (lambda
// params body…))` (§4.5 "define").
func (e *Evaluator) doDefine() error {
	h := e.h
	if e.syntaxCheck {
		if err := e.checkDefine(e.m.Reg.Exp); err != nil {
			return err
		}
	}
	env := e.m.Reg.Env
	rest := h.Rest(e.m.Reg.Exp)
	target := h.First(rest)

	if h.IsPair(target) {
		name := h.First(target)
		if h.Symbols.IsReserved(name) {
			return ierr.New(ierr.KindReserved, "cannot define reserved symbol: %s", h.SymbolBytes(name))
		}
		params := h.Rest(target)
		body := h.Rest(rest)
		lambdaExp, err := buildLambdaExp(h, e.reservedLambda, params, body)
		if err != nil {
			return err
		}
		proc, err := makeCompoundProcedure(h, lambdaExp, env)
		if err != nil {
			return err
		}
		if err := defineInFrame(h, env, name, proc); err != nil {
			return err
		}
		return e.doReturn(name)
	}

	name := target
	if h.Symbols.IsReserved(name) {
		return ierr.New(ierr.KindReserved, "cannot define reserved symbol: %s", h.SymbolBytes(name))
	}
	valueExp := h.First(h.Rest(rest))
	if err := e.push(name); err != nil {
		return err
	}
	if err := e.push(env); err != nil {
		return err
	}
	if err := e.m.PushLabel(uint8(LDefineCont)); err != nil {
		return err
	}
	e.m.Reg.Exp = valueExp
	e.setCont(LStart)
	return nil
}

func (e *Evaluator) doDefineCont() error {
	name, env, err := e.pop2()
	if err != nil {
		return err
	}
	if err := defineInFrame(e.h, env, name, e.m.Reg.Val); err != nil {
		return err
	}
	return e.doReturn(name)
}

// defineInFrame binds name in env's topmost frame (§4.5 "define"): an
// existing topmost-frame binding is updated in place; otherwise a fresh
// one is prepended. The frame is searched once, after the value has been
// evaluated; the result is not compared with any lookup made before
// evaluation, and no diagnostic is raised if the frame changed meanwhile.
func defineInFrame(h *heap.Heap, env, name, value heap.Value) error {
	if binding, ok := lookupTopFrame(h, env, name); ok {
		h.SetRest(binding, value)
		return nil
	}
	return prependBinding(h, env, name, value)
}

// doSetBang handles `(set! name v)` (§4.5 "set!"). The pre-evaluation
// lookup validates the reference eagerly; once v is evaluated,
// doSetBangCont looks the name up again in the saved environment and
// destructively updates the binding found then.
func (e *Evaluator) doSetBang() error {
	h := e.h
	if e.syntaxCheck {
		if err := e.checkSetBang(e.m.Reg.Exp); err != nil {
			return err
		}
	}
	env := e.m.Reg.Env
	rest := h.Rest(e.m.Reg.Exp)
	name := h.First(rest)
	if h.Symbols.IsReserved(name) {
		return ierr.New(ierr.KindReserved, "cannot set! reserved symbol: %s", h.SymbolBytes(name))
	}
	if _, ok := lookupVariable(h, env, name); !ok {
		return ierr.New(ierr.KindUnbound, "unbound variable: %s", h.SymbolBytes(name))
	}
	valueExp := h.First(h.Rest(rest))
	if err := e.push(name); err != nil {
		return err
	}
	if err := e.push(env); err != nil {
		return err
	}
	if err := e.m.PushLabel(uint8(LSetBangCont)); err != nil {
		return err
	}
	e.m.Reg.Exp = valueExp
	e.setCont(LStart)
	return nil
}

func (e *Evaluator) doSetBangCont() error {
	name, env, err := e.pop2()
	if err != nil {
		return err
	}
	binding, ok := lookupVariable(e.h, env, name)
	if !ok {
		return ierr.New(ierr.KindUnbound, "unbound variable: %s", e.h.SymbolBytes(name))
	}
	e.h.SetRest(binding, e.m.Reg.Val)
	return e.doReturn(name)
}

// doLet desugars `(let ((v e)…) body…)` to `((lambda (v…) body…) e…)` and
// dispatches to application (§4.5 "let"). It is a tail transition: a let
// in tail position costs nothing extra on the stacks.
func (e *Evaluator) doLet() error {
	h := e.h
	exp := e.m.Reg.Exp
	bindings := h.ListToSlice(h.First(h.Rest(exp)))
	body := h.Rest(h.Rest(exp))

	names := make([]heap.Value, len(bindings))
	inits := make([]heap.Value, len(bindings))
	for i, b := range bindings {
		names[i] = h.First(b)
		inits[i] = h.First(h.Rest(b))
	}
	namesList, err := h.MakeList(names)
	if err != nil {
		return err
	}
	lambdaExp, err := buildLambdaExp(h, e.reservedLambda, namesList, body)
	if err != nil {
		return err
	}
	operands, err := h.MakeList(inits)
	if err != nil {
		return err
	}
	newExp, err := h.MakeCons(lambdaExp, operands)
	if err != nil {
		return err
	}
	e.m.Reg.Exp = newExp
	e.setCont(LApplication)
	return nil
}

// buildLambdaExp constructs `(lambda params . body)` as an ordinary list
// structure, the shape both doLambda and define's lambda-shorthand operate
// on (§3 "Compound").
func buildLambdaExp(h *heap.Heap, lambdaSym, params, body heap.Value) (heap.Value, error) {
	tail, err := h.MakeCons(params, body)
	if err != nil {
		return heap.Value{}, err
	}
	return h.MakeCons(lambdaSym, tail)
}

// doLambda produces a compound procedure capturing the current
// environment (§4.5 "lambda").
func (e *Evaluator) doLambda() error {
	if e.syntaxCheck {
		if err := e.checkLambda(e.m.Reg.Exp); err != nil {
			return err
		}
	}
	proc, err := makeCompoundProcedure(e.h, e.m.Reg.Exp, e.m.Reg.Env)
	if err != nil {
		return err
	}
	return e.doReturn(proc)
}

// makeCompoundProcedure builds a procedure cell whose First is the literal
// lambda expression and whose Rest is the captured environment (§3
// "Compound: first is the lambda expression ...; rest is the captured
// environment").
func makeCompoundProcedure(h *heap.Heap, lambdaExp, env heap.Value) (heap.Value, error) {
	proc, err := h.MakeCons(lambdaExp, env)
	if err != nil {
		return heap.Value{}, err
	}
	h.PromoteProcedureHeader(proc)
	return proc, nil
}
