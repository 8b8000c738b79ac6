package stacks

import (
	"testing"

	"github.com/dtonhofer/micro-scheme-interpreter/heap"
	"github.com/dtonhofer/micro-scheme-interpreter/ierr"
)

func TestPointerStackOverflowAndUnderflow(t *testing.T) {
	m := New(2, 2)

	if err := m.PushPointer(heap.Nil); err != nil {
		t.Fatalf("first push: %v", err)
	}
	if err := m.PushPointer(heap.Nil); err != nil {
		t.Fatalf("second push: %v", err)
	}
	if err := m.PushPointer(heap.Nil); err != ierr.ErrStackOverflow {
		t.Fatalf("third push should overflow, got %v", err)
	}

	if _, err := m.PopPointer(); err != nil {
		t.Fatalf("pop 1: %v", err)
	}
	if _, err := m.PopPointer(); err != nil {
		t.Fatalf("pop 2: %v", err)
	}
	if _, err := m.PopPointer(); err != ierr.ErrStackUnderflow {
		t.Fatalf("third pop should underflow, got %v", err)
	}
}

func TestLabelStackOverflowAndUnderflow(t *testing.T) {
	m := New(4, 1)

	if err := m.PushLabel(7); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := m.PushLabel(8); err != ierr.ErrLabelStackOverflow {
		t.Fatalf("should overflow, got %v", err)
	}
	l, err := m.PopLabel()
	if err != nil || l != 7 {
		t.Fatalf("pop = %d, %v; want 7, nil", l, err)
	}
	if _, err := m.PopLabel(); err != ierr.ErrLabelStackUnderflow {
		t.Fatalf("should underflow, got %v", err)
	}
}

func TestRootsIncludesStackAndRegistersNotCont(t *testing.T) {
	m := New(8, 8)
	a := heap.MakeChar('a')
	b := heap.MakeChar('b')
	m.PushPointer(a)
	m.PushPointer(b)
	m.Reg.Val = heap.MakeChar('v')
	m.Reg.Cont = 42

	roots := m.Roots()
	if len(roots) != 2+6 {
		t.Fatalf("Roots() len = %d, want 8", len(roots))
	}
	var sawVal bool
	for _, r := range roots {
		if r.Type() == heap.TagChar && r.AsChar() == 'v' {
			sawVal = true
		}
	}
	if !sawVal {
		t.Fatalf("Roots() did not include the Val register")
	}
}

func TestResetClearsStacksAndRegistersButKeepsCapacity(t *testing.T) {
	m := New(4, 4)
	m.PushPointer(heap.Nil)
	m.PushLabel(1)
	m.Reg.Val = heap.MakeChar('x')

	m.Reset()

	if m.PointerDepth() != 0 || m.LabelDepth() != 0 {
		t.Fatalf("Reset did not clear stacks")
	}
	if !m.Reg.Val.IsNil() {
		t.Fatalf("Reset did not clear registers")
	}
	if err := m.PushPointer(heap.Nil); err != nil {
		t.Fatalf("capacity lost after Reset: %v", err)
	}
}
