package heap

// IsPair reports whether v is a pair reference with hint none (an
// ordinary pair, not an environment or procedure header).
func (h *Heap) IsPair(v Value) bool {
	return v.Type() == TagPair && h.HintOf(v) == HintNone
}

// IsEnv reports whether v is an environment header.
func (h *Heap) IsEnv(v Value) bool {
	return v.Type() == TagPair && h.HintOf(v) == HintEnvHeader
}

// IsProcedure reports whether v is a procedure header.
func (h *Heap) IsProcedure(v Value) bool {
	return v.Type() == TagPair && h.HintOf(v) == HintProcedureHeader
}

// IsList reports whether v is nil or a proper list of ordinary pairs
// (§4.5 built-in "list?"). Cyclic structures are rejected by a
// tortoise-and-hare walk so this terminates even on a set-cdr!-induced
// cycle (§9 "Cyclic graphs via mutation").
func (h *Heap) IsList(v Value) bool {
	slow, fast := v, v
	for {
		if fast.IsNil() {
			return true
		}
		if !h.IsPair(fast) {
			return false
		}
		fast = h.Rest(fast)
		if fast.IsNil() {
			return true
		}
		if !h.IsPair(fast) {
			return false
		}
		fast = h.Rest(fast)
		slow = h.Rest(slow)
		if EqIdentical(slow, fast) {
			return false
		}
	}
}
