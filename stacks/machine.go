// Package stacks holds the evaluator's non-heap state: the pointer stack,
// the label stack, and the six machine registers (§4.2). Both stacks are
// plain pre-sized Go slices used as LIFO structures, the same shape as the
// teacher's iterative walker traversal stack (WalkerCore.stack): a fixed-
// capacity slice grown by append and shrunk by re-slicing, never by a
// linked structure, so push/pop cost no allocation once warmed up.
package stacks

import (
	"github.com/dtonhofer/micro-scheme-interpreter/heap"
	"github.com/dtonhofer/micro-scheme-interpreter/ierr"
)

// Registers holds the six machine registers plus the one-byte cont label
// register (§4.2). The zero Registers has every value register set to the
// Go zero Value, which is heap.Nil.
type Registers struct {
	Val, Env, Fun, Argl, Exp, Unev heap.Value
	Cont                           uint8
}

// Machine is the evaluator's root-set-carrying state: everything the
// collector must scan besides the pinned-roots region the Heap itself
// tracks (§4.1 "Roots"). It implements heap.RootSource.
type Machine struct {
	ptr []heap.Value
	lbl []uint8

	ptrCap int
	lblCap int

	Reg Registers
}

// New constructs a Machine with the given stack capacities. Typical values
// are generous multiples of expected recursion/argument depth; overflow is
// a recoverable error (§4.2), not a panic.
func New(pointerCapacity, labelCapacity int) *Machine {
	return &Machine{
		ptr:    make([]heap.Value, 0, pointerCapacity),
		lbl:    make([]uint8, 0, labelCapacity),
		ptrCap: pointerCapacity,
		lblCap: labelCapacity,
	}
}

// PushPointer pushes v onto the pointer stack (the evaluator's "before a
// call that may allocate, push any live local temporary" contract, §4.2).
func (m *Machine) PushPointer(v heap.Value) error {
	if len(m.ptr) >= m.ptrCap {
		return ierr.ErrStackOverflow
	}
	m.ptr = append(m.ptr, v)
	return nil
}

// PopPointer pops and returns the top of the pointer stack.
func (m *Machine) PopPointer() (heap.Value, error) {
	if len(m.ptr) == 0 {
		return heap.Value{}, ierr.ErrStackUnderflow
	}
	v := m.ptr[len(m.ptr)-1]
	m.ptr = m.ptr[:len(m.ptr)-1]
	return v, nil
}

// PeekPointer returns the top of the pointer stack without popping it.
func (m *Machine) PeekPointer() (heap.Value, error) {
	if len(m.ptr) == 0 {
		return heap.Value{}, ierr.ErrStackUnderflow
	}
	return m.ptr[len(m.ptr)-1], nil
}

// PointerDepth reports the current pointer-stack depth. The gcstat
// built-in's "stack-free" figure comes from PointerFree instead.
func (m *Machine) PointerDepth() int { return len(m.ptr) }

// PointerFree reports remaining pointer-stack capacity.
func (m *Machine) PointerFree() int { return m.ptrCap - len(m.ptr) }

// PushLabel pushes a continuation label (an opaque small integer the
// evaluator alone interprets) onto the label stack.
func (m *Machine) PushLabel(l uint8) error {
	if len(m.lbl) >= m.lblCap {
		return ierr.ErrLabelStackOverflow
	}
	m.lbl = append(m.lbl, l)
	return nil
}

// PopLabel pops and returns the top label.
func (m *Machine) PopLabel() (uint8, error) {
	if len(m.lbl) == 0 {
		return 0, ierr.ErrLabelStackUnderflow
	}
	l := m.lbl[len(m.lbl)-1]
	m.lbl = m.lbl[:len(m.lbl)-1]
	return l, nil
}

// LabelDepth reports the current label-stack depth. The gcstat
// built-in's "label-stack-free" figure comes from LabelFree instead.
func (m *Machine) LabelDepth() int { return len(m.lbl) }

// LabelFree reports remaining label-stack capacity.
func (m *Machine) LabelFree() int { return m.lblCap - len(m.lbl) }

// Roots implements heap.RootSource: the pointer stack from base to top,
// plus the six value registers. Cont is a label, never a pointer, and is
// deliberately excluded (§4.1 "Labels on the label stack are opaque small
// integers, never treated as pointers").
func (m *Machine) Roots() []heap.Value {
	roots := make([]heap.Value, 0, len(m.ptr)+6)
	roots = append(roots, m.ptr...)
	roots = append(roots, m.Reg.Val, m.Reg.Env, m.Reg.Fun, m.Reg.Argl, m.Reg.Exp, m.Reg.Unev)
	return roots
}

// Reset clears both stacks (keeping their backing capacity, the same reuse
// discipline as WalkerCore.Reset) and reinitializes the six registers. This
// is steps (1) and (2) of the §7 recovery sequence; the caller still owes a
// full collection as step (3).
func (m *Machine) Reset() {
	m.ptr = m.ptr[:0]
	m.lbl = m.lbl[:0]
	m.Reg = Registers{}
}
