// Package interp wires the heap, stacks, reader, writer, and evaluator
// into one interpreter session and runs the §6 file-then-stdin read-eval
// loop over it, recovering from recoverable errors per §7.
package interp

import (
	"github.com/dtonhofer/micro-scheme-interpreter/heap"
	"github.com/dtonhofer/micro-scheme-interpreter/reader"
	"github.com/dtonhofer/micro-scheme-interpreter/writer"
)

// Options sizes a session's regions and stacks and sets its initial
// toggles. The zero Options is not valid; use DefaultOptions as a base.
type Options struct {
	PairCells    int // heap.Config.PairCells
	BlockBytes   int // heap.Config.BlockBytes
	PointerStack int // stacks.New pointer-stack capacity
	LabelStack   int // stacks.New label-stack capacity
	NodeQuota    int // writer.Options.NodeQuota, 0 means writer.DefaultNodeQuota
	SyntaxCheck  bool
	ReadRingSize int // reader.New ring-buffer capacity, 0 means reader.DefaultRingCapacity
}

// DefaultOptions matches the teacher's DefaultConfig sizing philosophy:
// generous enough for interactive use and for deep tail recursion between
// collections, syntax checking on by default.
func DefaultOptions() Options {
	hc := heap.DefaultConfig()
	return Options{
		PairCells:    hc.PairCells,
		BlockBytes:   hc.BlockBytes,
		PointerStack: 1 << 14,
		LabelStack:   1 << 14,
		NodeQuota:    writer.DefaultNodeQuota,
		SyntaxCheck:  true,
		ReadRingSize: reader.DefaultRingCapacity,
	}
}
