package heap

// MakeList conses xs into a proper list, last element first, matching the
// evaluator's "argument collection" discipline of consing in reverse
// (§4.5).
func (h *Heap) MakeList(xs []Value) (Value, error) {
	result := Nil
	for i := len(xs) - 1; i >= 0; i-- {
		var err error
		result, err = h.MakeCons(xs[i], result)
		if err != nil {
			return Value{}, err
		}
	}
	return result, nil
}

// ListToSlice walks a proper list into a Go slice. It does not bound
// cyclic input; callers that might be handed a cyclic list (the writer,
// IsList) use their own bounded walks instead.
func (h *Heap) ListToSlice(v Value) []Value {
	var out []Value
	for h.IsPair(v) {
		out = append(out, h.First(v))
		v = h.Rest(v)
	}
	return out
}

// Length returns a proper list's element count, or -1 if v is not a
// proper list (§4.5 built-in "length").
func (h *Heap) Length(v Value) int {
	if !h.IsList(v) {
		return -1
	}
	n := 0
	for {
		if v.IsNil() {
			return n
		}
		if !h.IsPair(v) {
			return -1
		}
		v = h.Rest(v)
		n++
	}
}
