package heap

// stats accumulates heap bookkeeping the way hive/dirty.Tracker accumulates
// dirty byte ranges for a flush: instead of recording which ranges changed
// for durability, it counts pair and block allocations and collections.
// The free figures that gcstat reports are computed by Stat from the
// regions themselves.
type stats struct {
	pairAllocs  int
	blockAllocs int
	collections int
}

// Stats is the heap's part of the gcstat figures: free pair cells and free
// block bytes, plus the running collection count. The two stack figures
// come from stacks.Machine, not from here.
type Stats struct {
	PairFree    int
	BlockFree   int
	Collections int
}

// Stat reports the current heap statistics (§4.5 "gcstat").
func (h *Heap) Stat() Stats {
	return Stats{
		PairFree:    h.cells.freeCount(),
		BlockFree:   h.blocks.freeBytes(),
		Collections: h.stats.collections,
	}
}
