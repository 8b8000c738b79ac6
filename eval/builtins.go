package eval

import (
	"github.com/dtonhofer/micro-scheme-interpreter/heap"
	"github.com/dtonhofer/micro-scheme-interpreter/ierr"
	"github.com/dtonhofer/micro-scheme-interpreter/internal/buf"
)

// builtinFunc implements one reserved operator against its already-
// evaluated, forward-ordered argument list (§4.5 "Built-in dispatch").
type builtinFunc func(e *Evaluator, argl heap.Value) (heap.Value, error)

// buildBuiltinTable wires every reserved operator named in §4.5 to its
// implementation. cXr accessors beyond depth 1 are generated from a single
// generic walker rather than twenty-eight hand-written bodies.
func buildBuiltinTable() map[string]builtinFunc {
	t := map[string]builtinFunc{
		"cons":     biCons,
		"car":      biCar,
		"cdr":      biCdr,
		"set-car!": biSetCar,
		"set-cdr!": biSetCdr,

		"+": biAdd,
		"-": biSub,
		"*": biMul,
		"/": biDiv,

		"<":  biCompare("<"),
		"<=": biCompare("<="),
		"=":  biCompare("="),
		">":  biCompare(">"),
		">=": biCompare(">="),

		"not": biNot,

		"null?":    biNullP,
		"pair?":    biPairP,
		"list?":    biListP,
		"integer?": biIntegerP,
		"number?":  biIntegerP,
		"symbol?":  biSymbolP,
		"string?":  biStringP,
		"odd?":     biOddP,
		"even?":    biEvenP,
		"eq?":      biEqP,

		"list":   biList,
		"length": biLength,

		"write":   biWrite,
		"newline": biNewline,
		"read":    biRead,

		"error": biError,

		"gcstat":         biGCStat,
		"gcstatwrite":    biGCStatWrite,
		"garbagecollect": biGarbageCollect,
		"synchecktoggle": biSyncheckToggle,
	}
	for _, name := range heap.ReservedNames {
		if isCxrName(name) {
			path := name[1 : len(name)-1]
			t[name] = makeCxr(path)
		}
	}
	return t
}

func isCxrName(name string) bool {
	if len(name) < 3 || name[0] != 'c' || name[len(name)-1] != 'r' {
		return false
	}
	for _, c := range name[1 : len(name)-1] {
		if c != 'a' && c != 'd' {
			return false
		}
	}
	return true
}

// makeCxr builds a cXr accessor from its a/d path, e.g. "ad" for cadr,
// applied right to left: cadr(x) = car(cdr(x)).
func makeCxr(path string) builtinFunc {
	return func(e *Evaluator, argl heap.Value) (heap.Value, error) {
		h := e.h
		v, err := arg1(h, argl, "cxr")
		if err != nil {
			return heap.Value{}, err
		}
		for i := len(path) - 1; i >= 0; i-- {
			if !h.IsPair(v) {
				return heap.Value{}, wrongType("cxr: not a pair")
			}
			if path[i] == 'a' {
				v = h.First(v)
			} else {
				v = h.Rest(v)
			}
		}
		return v, nil
	}
}

func arg1(h *heap.Heap, argl heap.Value, who string) (heap.Value, error) {
	if !h.IsPair(argl) {
		return heap.Value{}, wrongType("%s: expected 1 argument", who)
	}
	return h.First(argl), nil
}

func arg2(h *heap.Heap, argl heap.Value, who string) (a, b heap.Value, err error) {
	if !h.IsPair(argl) {
		return heap.Value{}, heap.Value{}, wrongType("%s: expected 2 arguments", who)
	}
	a = h.First(argl)
	rest := h.Rest(argl)
	if !h.IsPair(rest) {
		return heap.Value{}, heap.Value{}, wrongType("%s: expected 2 arguments", who)
	}
	b = h.First(rest)
	return a, b, nil
}

func biCons(e *Evaluator, argl heap.Value) (heap.Value, error) {
	a, b, err := arg2(e.h, argl, "cons")
	if err != nil {
		return heap.Value{}, err
	}
	return e.h.MakeCons(a, b)
}

func biCar(e *Evaluator, argl heap.Value) (heap.Value, error) {
	v, err := arg1(e.h, argl, "car")
	if err != nil {
		return heap.Value{}, err
	}
	if !e.h.IsPair(v) {
		return heap.Value{}, wrongType("car: not a pair")
	}
	return e.h.First(v), nil
}

func biCdr(e *Evaluator, argl heap.Value) (heap.Value, error) {
	v, err := arg1(e.h, argl, "cdr")
	if err != nil {
		return heap.Value{}, err
	}
	if !e.h.IsPair(v) {
		return heap.Value{}, wrongType("cdr: not a pair")
	}
	return e.h.Rest(v), nil
}

func biSetCar(e *Evaluator, argl heap.Value) (heap.Value, error) {
	p, v, err := arg2(e.h, argl, "set-car!")
	if err != nil {
		return heap.Value{}, err
	}
	if !e.h.IsPair(p) {
		return heap.Value{}, wrongType("set-car!: not a pair")
	}
	e.h.SetFirst(p, v)
	return p, nil
}

func biSetCdr(e *Evaluator, argl heap.Value) (heap.Value, error) {
	p, v, err := arg2(e.h, argl, "set-cdr!")
	if err != nil {
		return heap.Value{}, err
	}
	if !e.h.IsPair(p) {
		return heap.Value{}, wrongType("set-cdr!: not a pair")
	}
	e.h.SetRest(p, v)
	return p, nil
}

func integers(h *heap.Heap, argl heap.Value, who string) ([]int64, error) {
	var out []int64
	for h.IsPair(argl) {
		v := h.First(argl)
		if !h.IsInteger(v) {
			return nil, wrongType("%s: not an integer", who)
		}
		out = append(out, h.IntValue(v))
		argl = h.Rest(argl)
	}
	return out, nil
}

// The arithmetic built-ins below check each accumulation step with
// internal/buf's overflow-safe int helpers (grounded on the same
// AddOverflowSafe the teacher uses to guard slice-bounds arithmetic,
// extended here with MulOverflowSafe for `*`) rather than letting a wrap
// pass silently into a corrupted short/long integer Value.

func biAdd(e *Evaluator, argl heap.Value) (heap.Value, error) {
	ns, err := integers(e.h, argl, "+")
	if err != nil {
		return heap.Value{}, err
	}
	sum := 0
	for _, n := range ns {
		var ok bool
		sum, ok = buf.AddOverflowSafe(sum, int(n))
		if !ok {
			return heap.Value{}, ierr.New(ierr.KindOverflow, "+: integer overflow")
		}
	}
	return e.h.MakeInt(int64(sum))
}

func biMul(e *Evaluator, argl heap.Value) (heap.Value, error) {
	ns, err := integers(e.h, argl, "*")
	if err != nil {
		return heap.Value{}, err
	}
	prod := 1
	for _, n := range ns {
		var ok bool
		prod, ok = buf.MulOverflowSafe(prod, int(n))
		if !ok {
			return heap.Value{}, ierr.New(ierr.KindOverflow, "*: integer overflow")
		}
	}
	return e.h.MakeInt(int64(prod))
}

func biSub(e *Evaluator, argl heap.Value) (heap.Value, error) {
	ns, err := integers(e.h, argl, "-")
	if err != nil {
		return heap.Value{}, err
	}
	if len(ns) == 0 {
		return heap.Value{}, wrongType("-: expected at least 1 argument")
	}
	if len(ns) == 1 {
		return e.h.MakeInt(-ns[0])
	}
	result := int(ns[0])
	for _, n := range ns[1:] {
		var ok bool
		result, ok = buf.AddOverflowSafe(result, -int(n))
		if !ok {
			return heap.Value{}, ierr.New(ierr.KindOverflow, "-: integer overflow")
		}
	}
	return e.h.MakeInt(int64(result))
}

func biDiv(e *Evaluator, argl heap.Value) (heap.Value, error) {
	ns, err := integers(e.h, argl, "/")
	if err != nil {
		return heap.Value{}, err
	}
	if len(ns) == 0 {
		return heap.Value{}, wrongType("/: expected at least 1 argument")
	}
	if len(ns) == 1 {
		if ns[0] == 0 {
			return heap.Value{}, wrongType("/: division by zero")
		}
		return e.h.MakeInt(floorDiv(1, ns[0]))
	}
	result := ns[0]
	for _, n := range ns[1:] {
		if n == 0 {
			return heap.Value{}, wrongType("/: division by zero")
		}
		result = floorDiv(result, n)
	}
	return e.h.MakeInt(result)
}

// floorDiv rounds toward negative infinity (§4.5 "integer division toward
// negative infinity"), unlike Go's truncating /.
func floorDiv(a, b int64) int64 {
	q := a / b
	r := a % b
	if r != 0 && ((r < 0) != (b < 0)) {
		q--
	}
	return q
}

// biCompare builds an n-ary chained comparison: true iff every adjacent
// pair satisfies the relation (§4.5 "n-ary chained comparisons").
func biCompare(op string) builtinFunc {
	return func(e *Evaluator, argl heap.Value) (heap.Value, error) {
		ns, err := integers(e.h, argl, op)
		if err != nil {
			return heap.Value{}, err
		}
		for i := 0; i+1 < len(ns); i++ {
			if !relates(op, ns[i], ns[i+1]) {
				return heap.MakeBool(false), nil
			}
		}
		return heap.MakeBool(true), nil
	}
}

func relates(op string, a, b int64) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case "=":
		return a == b
	case ">":
		return a > b
	case ">=":
		return a >= b
	default:
		return false
	}
}

func biNot(e *Evaluator, argl heap.Value) (heap.Value, error) {
	v, err := arg1(e.h, argl, "not")
	if err != nil {
		return heap.Value{}, err
	}
	return heap.MakeBool(v.IsFalse()), nil
}

func biNullP(e *Evaluator, argl heap.Value) (heap.Value, error) {
	v, err := arg1(e.h, argl, "null?")
	if err != nil {
		return heap.Value{}, err
	}
	return heap.MakeBool(v.IsNil()), nil
}

func biPairP(e *Evaluator, argl heap.Value) (heap.Value, error) {
	v, err := arg1(e.h, argl, "pair?")
	if err != nil {
		return heap.Value{}, err
	}
	return heap.MakeBool(e.h.IsPair(v)), nil
}

func biListP(e *Evaluator, argl heap.Value) (heap.Value, error) {
	v, err := arg1(e.h, argl, "list?")
	if err != nil {
		return heap.Value{}, err
	}
	return heap.MakeBool(e.h.IsList(v)), nil
}

func biIntegerP(e *Evaluator, argl heap.Value) (heap.Value, error) {
	v, err := arg1(e.h, argl, "integer?")
	if err != nil {
		return heap.Value{}, err
	}
	return heap.MakeBool(e.h.IsInteger(v)), nil
}

func biSymbolP(e *Evaluator, argl heap.Value) (heap.Value, error) {
	v, err := arg1(e.h, argl, "symbol?")
	if err != nil {
		return heap.Value{}, err
	}
	return heap.MakeBool(e.h.IsSymbol(v)), nil
}

func biStringP(e *Evaluator, argl heap.Value) (heap.Value, error) {
	v, err := arg1(e.h, argl, "string?")
	if err != nil {
		return heap.Value{}, err
	}
	return heap.MakeBool(e.h.IsString(v)), nil
}

func biOddP(e *Evaluator, argl heap.Value) (heap.Value, error) {
	v, err := arg1(e.h, argl, "odd?")
	if err != nil {
		return heap.Value{}, err
	}
	if !e.h.IsInteger(v) {
		return heap.Value{}, wrongType("odd?: not an integer")
	}
	return heap.MakeBool(e.h.IntValue(v)%2 != 0), nil
}

func biEvenP(e *Evaluator, argl heap.Value) (heap.Value, error) {
	v, err := arg1(e.h, argl, "even?")
	if err != nil {
		return heap.Value{}, err
	}
	if !e.h.IsInteger(v) {
		return heap.Value{}, wrongType("even?: not an integer")
	}
	return heap.MakeBool(e.h.IntValue(v)%2 == 0), nil
}

func biEqP(e *Evaluator, argl heap.Value) (heap.Value, error) {
	a, b, err := arg2(e.h, argl, "eq?")
	if err != nil {
		return heap.Value{}, err
	}
	return heap.MakeBool(heap.EqIdentical(a, b)), nil
}

func biList(e *Evaluator, argl heap.Value) (heap.Value, error) {
	return argl, nil
}

func biLength(e *Evaluator, argl heap.Value) (heap.Value, error) {
	v, err := arg1(e.h, argl, "length")
	if err != nil {
		return heap.Value{}, err
	}
	n := e.h.Length(v)
	if n < 0 {
		return heap.Value{}, wrongType("length: not a proper list")
	}
	return e.h.MakeInt(int64(n))
}

func biWrite(e *Evaluator, argl heap.Value) (heap.Value, error) {
	v, err := arg1(e.h, argl, "write")
	if err != nil {
		return heap.Value{}, err
	}
	if e.io == nil {
		return heap.Value{}, ierr.New(ierr.KindFatal, "write: no IO attached")
	}
	if err := e.io.WriteValue(v); err != nil {
		return heap.Value{}, err
	}
	return v, nil
}

func biNewline(e *Evaluator, argl heap.Value) (heap.Value, error) {
	if e.io == nil {
		return heap.Value{}, ierr.New(ierr.KindFatal, "newline: no IO attached")
	}
	if err := e.io.WriteString("\n"); err != nil {
		return heap.Value{}, err
	}
	return heap.Nil, nil
}

func biRead(e *Evaluator, argl heap.Value) (heap.Value, error) {
	if e.io == nil {
		return heap.Value{}, ierr.New(ierr.KindFatal, "read: no IO attached")
	}
	v, ok, err := e.io.ReadDatum()
	if err != nil {
		return heap.Value{}, err
	}
	if !ok {
		return heap.Nil, nil
	}
	return v, nil
}

func biError(e *Evaluator, argl heap.Value) (heap.Value, error) {
	var sb []byte
	for cur := argl; e.h.IsPair(cur); cur = e.h.Rest(cur) {
		v := e.h.First(cur)
		if e.h.IsString(v) {
			sb = append(sb, e.h.StringBytes(v)...)
		} else {
			sb = append(sb, v.GoString()...)
		}
		sb = append(sb, ' ')
	}
	return heap.Value{}, ierr.New(ierr.KindUser, "%s", string(sb))
}

func biGCStat(e *Evaluator, argl heap.Value) (heap.Value, error) {
	st := e.h.Stat()
	vals := []heap.Value{}
	for _, n := range []int{st.PairFree, st.BlockFree, e.m.PointerFree(), e.m.LabelFree()} {
		v, err := e.h.MakeInt(int64(n))
		if err != nil {
			return heap.Value{}, err
		}
		vals = append(vals, v)
	}
	return e.h.MakeList(vals)
}

func biGCStatWrite(e *Evaluator, argl heap.Value) (heap.Value, error) {
	v, err := biGCStat(e, argl)
	if err != nil {
		return heap.Value{}, err
	}
	if e.io != nil {
		if err := e.io.WriteValue(v); err != nil {
			return heap.Value{}, err
		}
		if err := e.io.WriteString("\n"); err != nil {
			return heap.Value{}, err
		}
	}
	return v, nil
}

func biGarbageCollect(e *Evaluator, argl heap.Value) (heap.Value, error) {
	e.h.Collect()
	return heap.Nil, nil
}

func biSyncheckToggle(e *Evaluator, argl heap.Value) (heap.Value, error) {
	return heap.MakeBool(e.ToggleSyntaxCheck()), nil
}
