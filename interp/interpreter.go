package interp

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/dtonhofer/micro-scheme-interpreter/eval"
	"github.com/dtonhofer/micro-scheme-interpreter/heap"
	"github.com/dtonhofer/micro-scheme-interpreter/ierr"
	"github.com/dtonhofer/micro-scheme-interpreter/reader"
	"github.com/dtonhofer/micro-scheme-interpreter/stacks"
	"github.com/dtonhofer/micro-scheme-interpreter/writer"
)

// ioAdapter implements eval.IO over a Writer fixed for the session's
// lifetime and a *reader.Reader that Interpreter repoints at each new
// input source (a file, then stdin) as the §6 loop advances. `read`
// therefore pulls from whatever source the top-level loop is currently
// consuming, not a source of its own.
type ioAdapter struct {
	w   *writer.Writer
	out io.Writer
	rd  *reader.Reader
}

func (a *ioAdapter) WriteValue(v heap.Value) error { return a.w.Write(v) }

func (a *ioAdapter) WriteString(s string) error {
	_, err := io.WriteString(a.out, s)
	return err
}

func (a *ioAdapter) ReadDatum() (heap.Value, bool, error) {
	if a.rd == nil {
		return heap.Nil, false, nil
	}
	v, status, err := a.rd.ReadOne()
	if err != nil {
		return heap.Nil, false, err
	}
	if status == reader.StatusTerm {
		return heap.Nil, false, nil
	}
	return v, true, nil
}

// Interpreter owns one session's heap, stacks, evaluator, and global
// environment, plus the recovery manager the top-level loop consults
// after every form.
type Interpreter struct {
	h        *heap.Heap
	m        *stacks.Machine
	ev       *eval.Evaluator
	env      heap.Value
	rec      *eval.Recovery
	io       *ioAdapter
	opt      Options
	bangBang heap.Value // the "!!" symbol, rebound to each top-level result
}

// New assembles a session exactly the way the test harness in eval does:
// build the heap and machine, wire roots, boot the symbol table, build
// the global environment, then the writer/IO adapter/evaluator/recovery
// manager on top.
func New(opt Options, stdout io.Writer) (*Interpreter, error) {
	h := heap.New(heap.Config{PairCells: opt.PairCells, BlockBytes: opt.BlockBytes})
	m := stacks.New(opt.PointerStack, opt.LabelStack)
	h.SetRoots(m)
	if err := h.Symbols.Boot(); err != nil {
		return nil, fmt.Errorf("booting symbol table: %w", err)
	}
	env, err := eval.NewGlobalEnv(h)
	if err != nil {
		return nil, fmt.Errorf("building global environment: %w", err)
	}
	// Pinned rather than left to ride the Env register: a §7 Rollback
	// resets every register (stacks.Machine.Reset), and the global
	// environment must survive that reset across top-level forms.
	h.Pin(env)

	w := writer.New(h, stdout, writer.Options{NodeQuota: opt.NodeQuota})
	io := &ioAdapter{w: w, out: stdout}

	ev, err := eval.New(h, m, io)
	if err != nil {
		return nil, fmt.Errorf("building evaluator: %w", err)
	}
	if opt.SyntaxCheck != ev.SyntaxCheckEnabled() {
		ev.ToggleSyntaxCheck()
	}

	bangBang, err := h.MakeSymbol([]byte("!!"))
	if err != nil {
		return nil, fmt.Errorf("interning !!: %w", err)
	}

	return &Interpreter{
		h:        h,
		m:        m,
		ev:       ev,
		env:      env,
		rec:      eval.NewRecovery(h, m),
		io:       io,
		bangBang: bangBang,
		opt:      opt,
	}, nil
}

// Heap, Machine, and Evaluator expose the session's pieces for callers
// that need them directly (cmd/mscheme's --gcstat reporting, tests).
func (in *Interpreter) Heap() *heap.Heap         { return in.h }
func (in *Interpreter) Machine() *stacks.Machine { return in.m }
func (in *Interpreter) Evaluator() *eval.Evaluator { return in.ev }

// RunFile reads and evaluates every top-level form in the named file to
// completion, then RunStdin (or further RunFile calls) continue over the
// same environment and heap — §6's "files in order, then stdin" surface.
func (in *Interpreter) RunFile(path string, stderr io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return in.runSource(f, stderr)
}

// RunStdin drives the loop over standard input.
func (in *Interpreter) RunStdin(stdin io.Reader, stderr io.Writer) error {
	return in.runSource(bufio.NewReader(stdin), stderr)
}

// runSource is the §6/§7 loop body: read one form, evaluate it inside a
// Begin/Commit bracket, and on a recoverable error perform the §7 reset
// before moving on to the next form. An unrecoverable (KindFatal) error
// stops the loop and is returned to the caller, which exits 1 per §6.
func (in *Interpreter) runSource(src io.Reader, stderr io.Writer) error {
	rd := reader.New(in.h, src, in.opt.ReadRingSize)
	in.io.rd = rd

	for {
		v, status, err := rd.ReadOne()
		if err != nil {
			if !in.reportRecoverable(err, stderr) {
				return err
			}
			continue
		}
		if status == reader.StatusTerm {
			return nil
		}

		in.rec.Begin()
		val, evalErr := in.ev.Eval(v, in.env)
		if evalErr != nil {
			if !in.reportRecoverable(evalErr, stderr) {
				return evalErr
			}
			in.rec.Rollback()
			continue
		}
		in.rec.Commit()

		// spec.md's "Reserved variable !!": the result of every top-level
		// evaluation is bound to !! in the starting environment, overwriting
		// whatever it held before.
		if bindErr := eval.DefineGlobal(in.h, in.env, in.bangBang, val); bindErr != nil {
			if !in.reportRecoverable(bindErr, stderr) {
				return bindErr
			}
			in.rec.Rollback()
		}
	}
}

// reportRecoverable writes a diagnostic for err and reports whether the
// loop may continue. A non-*ierr.Error (should not happen once every
// package uses ierr, but guarded here) is treated as fatal.
func (in *Interpreter) reportRecoverable(err error, stderr io.Writer) bool {
	ie, ok := err.(*ierr.Error)
	if !ok {
		fmt.Fprintf(stderr, "fatal: %v\n", err)
		return false
	}
	fmt.Fprintf(stderr, "error: %v\n", ie)
	return ie.Recoverable()
}

// GCStat reports the four figures the gcstat built-in computes, for the
// CLI's --gcstat-on-exit report.
func (in *Interpreter) GCStat() (pairFree, blockFree, pointerFree, labelFree int) {
	st := in.h.Stat()
	return st.PairFree, st.BlockFree, in.m.PointerFree(), in.m.LabelFree()
}
