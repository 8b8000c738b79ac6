package eval

import (
	"github.com/dtonhofer/micro-scheme-interpreter/heap"
	"github.com/dtonhofer/micro-scheme-interpreter/ierr"
)

// NewGlobalEnv builds the empty top-level environment (an empty binding
// frame with no parent) an Interpreter installs its global bindings into.
func NewGlobalEnv(h *heap.Heap) (heap.Value, error) {
	return newEnv(h, heap.Nil, heap.Nil)
}

// DefineGlobal binds name to value in env's own frame, updating an
// existing binding or prepending a fresh one — the same rule `define`
// itself uses, exported for the top-level loop's "!!" rebinding
// (spec.md's "Reserved variable !!": "the result is bound to the symbol
// !! in the starting environment, overwriting any previous value").
func DefineGlobal(h *heap.Heap, env, name, value heap.Value) error {
	return defineInFrame(h, env, name, value)
}

// newEnv builds a fresh environment pair with hint env-header: First
// holds the binding alist (a list of (name . value) pairs), Rest holds the
// parent environment (or Nil for the global environment).
func newEnv(h *heap.Heap, frame, parent heap.Value) (heap.Value, error) {
	e, err := h.MakeCons(frame, parent)
	if err != nil {
		return heap.Value{}, err
	}
	h.PromoteEnvHeader(e)
	return e, nil
}

// lookupVariable searches env and its ancestors for a binding whose name
// matches (by content, via Heap.Equal, so short and long symbol spellings
// interchange freely). It returns the binding pair itself — a (name .
// value) cons cell — so callers can mutate it in place via SetRest.
func lookupVariable(h *heap.Heap, env, name heap.Value) (heap.Value, bool) {
	for !env.IsNil() {
		if b, ok := lookupInFrame(h, h.First(env), name); ok {
			return b, true
		}
		env = h.Rest(env)
	}
	return heap.Value{}, false
}

// lookupTopFrame searches only env's own frame, not its ancestors (used by
// define's "topmost frame" rule, §4.5).
func lookupTopFrame(h *heap.Heap, env, name heap.Value) (heap.Value, bool) {
	return lookupInFrame(h, h.First(env), name)
}

func lookupInFrame(h *heap.Heap, frame, name heap.Value) (heap.Value, bool) {
	for h.IsPair(frame) {
		binding := h.First(frame)
		if h.Equal(h.First(binding), name) {
			return binding, true
		}
		frame = h.Rest(frame)
	}
	return heap.Value{}, false
}

// prependBinding adds a fresh (name . value) binding to env's own frame.
func prependBinding(h *heap.Heap, env, name, value heap.Value) error {
	binding, err := h.MakeCons(name, value)
	if err != nil {
		return err
	}
	newFrame, err := h.MakeCons(binding, h.First(env))
	if err != nil {
		return err
	}
	h.SetFirst(env, newFrame)
	return nil
}

// bindParams extends params (a parameter spec: a bare symbol, a proper
// list, or an improper/dotted list of symbols) against argl (the forward
// list of already-evaluated argument values), returning the resulting
// binding alist for a fresh frame (§4.5 "micro-apply").
func bindParams(h *heap.Heap, params, argl heap.Value) (heap.Value, error) {
	if h.IsSymbol(params) {
		binding, err := h.MakeCons(params, argl)
		if err != nil {
			return heap.Value{}, err
		}
		return h.MakeCons(binding, heap.Nil)
	}

	var names []heap.Value
	p := params
	for h.IsPair(p) {
		names = append(names, h.First(p))
		p = h.Rest(p)
	}
	restParam := p // Nil for a proper list, a symbol for a dotted tail

	var vals []heap.Value
	a := argl
	for h.IsPair(a) {
		vals = append(vals, h.First(a))
		a = h.Rest(a)
	}

	if len(vals) < len(names) || (restParam.IsNil() && len(vals) != len(names)) {
		return heap.Value{}, ierr.New(ierr.KindArityType, "wrong number of arguments")
	}

	frame := heap.Nil
	for i := len(names) - 1; i >= 0; i-- {
		b, err := h.MakeCons(names[i], vals[i])
		if err != nil {
			return heap.Value{}, err
		}
		var err2 error
		frame, err2 = h.MakeCons(b, frame)
		if err2 != nil {
			return heap.Value{}, err2
		}
	}

	if !restParam.IsNil() {
		rest, err := h.MakeList(vals[len(names):])
		if err != nil {
			return heap.Value{}, err
		}
		b, err := h.MakeCons(restParam, rest)
		if err != nil {
			return heap.Value{}, err
		}
		frame, err = h.MakeCons(b, frame)
		if err != nil {
			return heap.Value{}, err
		}
	}
	return frame, nil
}
