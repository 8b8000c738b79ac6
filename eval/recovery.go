package eval

import (
	"github.com/dtonhofer/micro-scheme-interpreter/heap"
	"github.com/dtonhofer/micro-scheme-interpreter/stacks"
)

// Recovery implements §7's non-local error recovery with the same
// begin/mutate/commit-or-rollback shape as the teacher's hive/tx.Manager,
// applied to evaluator state instead of REGF sequence numbers: Begin marks
// the start of a top-level form's evaluation, Commit marks clean
// completion, and Rollback performs the four-step reset (clear both
// stacks, reinit registers, full collection) a caught recoverable error
// requires before the REPL resumes.
type Recovery struct {
	h      *heap.Heap
	m      *stacks.Machine
	active bool
}

// NewRecovery builds a Recovery over the heap and machine an Evaluator
// shares with its caller.
func NewRecovery(h *heap.Heap, m *stacks.Machine) *Recovery {
	return &Recovery{h: h, m: m}
}

// Begin marks the start of a top-level evaluation. Idempotent, matching
// hive/tx.Manager.Begin's "called while already in a transaction is a
// no-op".
func (r *Recovery) Begin() { r.active = true }

// Commit marks a top-level evaluation as having completed without error.
func (r *Recovery) Commit() { r.active = false }

// Rollback performs the §7 reset: both explicit stacks are cleared and
// the six registers reinitialized (stacks.Machine.Reset), then a full
// collection runs so a heap left in a half-built state by the aborted
// evaluation is reclaimed before the next top-level form allocates
// anything. The diagnostic message itself is the caller's job (the REPL
// writes it before calling Rollback), matching Manager.Rollback's own
// "best-effort, caller decides what happens next" contract.
func (r *Recovery) Rollback() {
	r.m.Reset()
	r.h.Collect()
	r.active = false
}

// Active reports whether a top-level evaluation is mid-flight: Begin has
// been called and neither Commit nor Rollback since. The REPL loop does
// not consult it.
func (r *Recovery) Active() bool { return r.active }
