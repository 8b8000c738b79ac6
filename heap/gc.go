package heap

// RootSource supplies the GC's root set: the pointer stack, the pinned
// roots region, and the machine registers (§4.2). It is an interface
// rather than a direct dependency on package stacks so that heap never
// imports its caller — stacks.Machine implements this method set instead.
type RootSource interface {
	// Roots returns every live Value currently reachable as a root.
	// Implementations must include immediates (the collector skips them
	// cheaply) rather than filter them out themselves.
	Roots() []Value
}

// SetRoots registers the root source the collector consults. It must be
// called once before the first allocation that might trigger a collection;
// interp.New does this as part of wiring the interpreter together.
func (h *Heap) SetRoots(rs RootSource) {
	h.roots = rs
}

// Collect runs a full, non-recursive mark-and-sweep collection (§4.1).
// Marking never allocates and never recurses into host-stack depth
// proportional to the value graph's depth — see markPair.
func (h *Heap) Collect() {
	for i := range h.cells.cells {
		h.cells.cells[i].marked = false
		h.cells.cells[i].doneFirst = false
	}
	for i := range h.blocks.blocks[:h.blocks.nextFresh] {
		h.blocks.blocks[i].marked = false
	}

	if h.roots != nil {
		for _, root := range h.roots.Roots() {
			h.markValue(root)
		}
	}
	for _, root := range h.pinned {
		h.markValue(root)
	}

	h.sweep()
	h.stats.collections++
}

// Pin adds v to the pinned-roots region: a small area allocated once at
// boot and never popped, anchoring the initial environment and the
// reserved-symbol list (§4.2).
func (h *Heap) Pin(v Value) {
	h.pinned = append(h.pinned, v)
}

// markValue marks a single root. Data blocks are marked directly (leaves,
// no outgoing pointers); pairs are marked by the pointer-reversal walk;
// every other tag is an immediate and terminates immediately.
func (h *Heap) markValue(v Value) {
	switch v.Type() {
	case TagPair:
		h.markPair(v)
	case TagBlock:
		h.blocks.get(v.BlockIndex()).marked = true
	default:
		// immediates and nil need no marking
	}
}

// markPair performs the Deutsch-Schorr-Waite pointer-reversal mark of the
// pair graph reachable from root, using no auxiliary stack: the path back
// to root is threaded through the very First/Rest slots being visited.
//
// Invariant maintained at every step: when backtracking arrives back at an
// ancestor p, `cur` holds exactly the original value that was in the child
// slot being closed out (first on the way down, because the pointer was
// never altered, only relocated between "live slot" and "back-link slot"
// as the walk passed through it). Each cell is visited at most three times:
// once descending through it, once switching from its First side to its
// Rest side, and once closing it out on the way back up — matching §4.1.
func (h *Heap) markPair(root Value) {
	cur := root
	prev := noCellRef

	for {
		if cur.Type() == TagPair {
			idx := cur.PairIndex()
			c := h.cells.get(idx)
			if !c.marked {
				c.marked = true
				c.doneFirst = false
				origFirst := c.first
				c.first = encodeBackLink(prev)
				prev = idx
				cur = origFirst
				continue
			}
		}

		// cur is a terminal for the current branch (nil, an immediate, an
		// already-marked pair, or a block): mark it if it is a block, which
		// is a leaf, then backtrack.
		if cur.Type() == TagBlock {
			h.blocks.get(cur.BlockIndex()).marked = true
		}
		for {
			if prev == noCellRef {
				return
			}
			p := h.cells.get(prev)
			if !p.doneFirst {
				p.doneFirst = true
				parent := decodeBackLink(p.first)
				p.first = cur // restore: cur == the original First value
				origRest := p.rest
				p.rest = encodeBackLink(parent)
				cur = origRest
				// prev stays at p: we're now exploring its Rest side.
				break // continue outer loop, descend into Rest
			}
			parent := decodeBackLink(p.rest)
			p.rest = cur // restore: cur == the original Rest value
			cur = pairRef(prev)
			prev = parent
		}
	}
}

// encodeBackLink and decodeBackLink repurpose a pair slot to hold a
// back-link to an ancestor cell (or "none") during marking. A back-link is
// itself just a pair reference, so no extra Value variant is needed — §9's
// design note calls out exactly this representation choice.
func encodeBackLink(c CellRef) Value { return Value{tag: TagPair, i: int64(c)} }
func decodeBackLink(v Value) CellRef { return CellRef(v.i) }

// sweep reclaims every unmarked cell and block (§4.1 "Sweep phase").
func (h *Heap) sweep() {
	for i := range h.cells.cells {
		c := &h.cells.cells[i]
		if c.free {
			continue
		}
		if !c.marked {
			h.cells.release(CellRef(i))
		}
	}

	for i := 0; i < h.blocks.nextFresh; i++ {
		b := &h.blocks.blocks[i]
		if b.free {
			continue
		}
		if !b.marked {
			b.free = true
		}
	}
	h.blocks.coalesce()
}
