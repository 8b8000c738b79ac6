package heap

// cell is the backing storage for one pair-cell slot. The mark-phase
// bookkeeping (marked, doneFirst) lives beside First/Rest rather than
// stolen from their bit patterns — see Value's doc comment — but it is
// still only ever touched by collect(), matching §3's "outside the
// collector, never has its mark bit observable" invariant.
type cell struct {
	first, rest Value
	hint        Hint

	free     bool
	freeNext CellRef

	marked    bool // black: reachable, survives this collection
	doneFirst bool // DSW: has the First subtree already been explored?
}

// cellRegion is the fixed-capacity pair-cell arena (§4.1 "allocate-pair").
type cellRegion struct {
	cells    []cell
	freeHead CellRef
	freeLen  int
}

func newCellRegion(capacity int) *cellRegion {
	r := &cellRegion{
		cells:    make([]cell, capacity),
		freeHead: noCellRef,
	}
	for i := capacity - 1; i >= 0; i-- {
		r.cells[i].free = true
		r.cells[i].freeNext = r.freeHead
		r.freeHead = CellRef(i)
	}
	r.freeLen = capacity
	return r
}

// capacity returns the fixed number of pair cells the region holds.
func (r *cellRegion) capacity() int { return len(r.cells) }

// freeCount returns the number of cells currently on the free list, for
// the gcstat built-in.
func (r *cellRegion) freeCount() int { return r.freeLen }

// allocate pops a cell off the free list; the caller (Heap.AllocatePair)
// is responsible for invoking the collector and retrying on failure.
func (r *cellRegion) allocate() (CellRef, bool) {
	if r.freeHead == noCellRef {
		return 0, false
	}
	idx := r.freeHead
	c := &r.cells[idx]
	r.freeHead = c.freeNext
	r.freeLen--
	c.free = false
	c.first, c.rest = Nil, Nil
	c.hint = HintNone
	c.marked = false
	c.doneFirst = false
	return idx, true
}

// release pushes a cell back onto the free list; called only from sweep.
func (r *cellRegion) release(idx CellRef) {
	c := &r.cells[idx]
	c.free = true
	c.first, c.rest = Nil, Nil
	c.hint = HintNone
	c.freeNext = r.freeHead
	r.freeHead = idx
	r.freeLen++
}

func (r *cellRegion) get(idx CellRef) *cell { return &r.cells[idx] }

// --- public pair accessors (Heap delegates to these) ---

// First returns a pair's car.
func (h *Heap) First(v Value) Value {
	return h.cells.get(v.PairIndex()).first
}

// Rest returns a pair's cdr.
func (h *Heap) Rest(v Value) Value {
	return h.cells.get(v.PairIndex()).rest
}

// SetFirst mutates a pair's car (set-car!).
func (h *Heap) SetFirst(v, x Value) {
	h.cells.get(v.PairIndex()).first = x
}

// SetRest mutates a pair's cdr (set-cdr!).
func (h *Heap) SetRest(v, x Value) {
	h.cells.get(v.PairIndex()).rest = x
}

// HintOf returns a pair's hint (ordinary/env-header/procedure-header).
func (h *Heap) HintOf(v Value) Hint {
	return h.cells.get(v.PairIndex()).hint
}

// setHint promotes a freshly-allocated cell's hint. It is an error (in the
// structural sense, guarded by callers) to call this on a cell that has
// already been promoted, matching §3's "never silently changed" invariant.
func (h *Heap) setHint(v Value, hint Hint) {
	h.cells.get(v.PairIndex()).hint = hint
}

// PromoteEnvHeader marks v, a freshly-consed pair, as an environment
// header (§3 "Environment"). Callers promote immediately after construction
// and never again.
func (h *Heap) PromoteEnvHeader(v Value) { h.setHint(v, HintEnvHeader) }

// PromoteProcedureHeader marks v, a freshly-consed pair, as a procedure
// header (§3 "Procedure").
func (h *Heap) PromoteProcedureHeader(v Value) { h.setHint(v, HintProcedureHeader) }

// AllocatePair allocates a fresh ordinary pair cell holding (first . rest).
// On exhaustion it runs a collection and retries once before returning
// errNoPairSpace (§4.1).
func (h *Heap) AllocatePair(first, rest Value) (Value, error) {
	if idx, ok := h.cells.allocate(); ok {
		c := h.cells.get(idx)
		c.first, c.rest = first, rest
		h.stats.pairAllocs++
		return pairRef(idx), nil
	}
	h.Collect()
	if idx, ok := h.cells.allocate(); ok {
		c := h.cells.get(idx)
		c.first, c.rest = first, rest
		h.stats.pairAllocs++
		return pairRef(idx), nil
	}
	return Value{}, errNoPairSpace
}
