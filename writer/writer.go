// Package writer implements the external textual form (§4.4): write(value)
// emits to an io.Writer, bounded by a node quota so cyclic or oversized
// structures cannot exhaust output. The shape follows the teacher's
// hive/printer.Printer: an options struct plus a writer.Writer wrapping an
// io.Writer, with fmt.Fprintf doing the actual formatting.
package writer

import (
	"fmt"
	"io"

	"github.com/dtonhofer/micro-scheme-interpreter/heap"
	"github.com/dtonhofer/micro-scheme-interpreter/ierr"
)

// DefaultNodeQuota is write's default node budget (§4.4 "default 200").
const DefaultNodeQuota = 200

// Options configures a Writer.
type Options struct {
	NodeQuota int // 0 means DefaultNodeQuota
}

// Writer prints heap.Value graphs to an underlying io.Writer.
type Writer struct {
	out  io.Writer
	h    *heap.Heap
	opts Options
}

// New constructs a Writer over out for values belonging to h.
func New(h *heap.Heap, out io.Writer, opts Options) *Writer {
	if opts.NodeQuota == 0 {
		opts.NodeQuota = DefaultNodeQuota
	}
	return &Writer{out: out, h: h, opts: opts}
}

// Write emits v's external textual form. Once the node quota is exhausted,
// remaining structure is elided with "...".
func (w *Writer) Write(v heap.Value) error {
	budget := w.opts.NodeQuota
	return w.write(v, &budget)
}

func (w *Writer) write(v heap.Value, budget *int) error {
	if *budget <= 0 {
		_, err := fmt.Fprint(w.out, "...")
		return err
	}
	*budget--

	switch v.Type() {
	case heap.TagNil:
		return w.printf("()")
	case heap.TagBool:
		if v.AsBool() {
			return w.printf("#t")
		}
		return w.printf("#f")
	case heap.TagChar:
		return w.writeChar(v.AsChar())
	case heap.TagInt:
		return w.printf("%d", v.AsShortInt())
	case heap.TagString:
		return w.printf("%q", string(v.ShortBytes()))
	case heap.TagSymbol:
		return w.printf("%s", string(v.ShortBytes()))
	case heap.TagBlock:
		return w.writeBlock(v)
	case heap.TagPair:
		return w.writePair(v, budget)
	default:
		return ierr.New(ierr.KindFatal, "writer: value with unknown tag")
	}
}

func (w *Writer) writeChar(r rune) error {
	switch r {
	case ' ':
		return w.printf(`#\space`)
	case '\n':
		return w.printf(`#\newline`)
	default:
		return w.printf(`#\%c`, r)
	}
}

func (w *Writer) writeBlock(v heap.Value) error {
	switch w.h.BlockType(v) {
	case heap.BlockInteger:
		return w.printf("%d", w.h.IntValue(v))
	case heap.BlockString:
		return w.printf("%q", string(w.h.StringBytes(v)))
	case heap.BlockSymbol:
		return w.printf("%s", string(w.h.SymbolBytes(v)))
	default:
		return ierr.New(ierr.KindFatal, "writer: block with unknown type")
	}
}

// writePair prints a pair graph in list notation, env/procedure headers as
// bracketed banners, and a dotted tail when the final rest is neither nil
// nor a pair (§4.4).
func (w *Writer) writePair(v heap.Value, budget *int) error {
	switch w.h.HintOf(v) {
	case heap.HintEnvHeader:
		return w.writeEnv(v, budget)
	case heap.HintProcedureHeader:
		return w.writeProcedure(v, budget)
	}

	if err := w.printf("("); err != nil {
		return err
	}
	first := true
	cur := v
	for {
		if !first {
			if err := w.printf(" "); err != nil {
				return err
			}
		}
		first = false
		if *budget <= 0 {
			if err := w.printf("..."); err != nil {
				return err
			}
			break
		}
		if err := w.write(w.h.First(cur), budget); err != nil {
			return err
		}
		rest := w.h.Rest(cur)
		if rest.IsNil() {
			break
		}
		if w.h.IsPair(rest) {
			cur = rest
			continue
		}
		if err := w.printf(" . "); err != nil {
			return err
		}
		if err := w.write(rest, budget); err != nil {
			return err
		}
		break
	}
	return w.printf(")")
}

// writeEnv prints an environment header as a bracketed banner followed by
// its frame bindings (§4.4). An environment pair is assumed to hold the
// frame (an alist of name/value pairs) in First and the parent environment
// in Rest, matching the evaluator's frame-extension discipline.
func (w *Writer) writeEnv(v heap.Value, budget *int) error {
	if err := w.printf("[environment"); err != nil {
		return err
	}
	frame := w.h.First(v)
	for w.h.IsPair(frame) {
		binding := w.h.First(frame)
		if w.h.IsPair(binding) {
			if err := w.printf(" "); err != nil {
				return err
			}
			if err := w.write(w.h.First(binding), budget); err != nil {
				return err
			}
		}
		frame = w.h.Rest(frame)
	}
	return w.printf("]")
}

// writeProcedure prints a procedure header, distinguishing a reserved
// built-in from a compound procedure (§4.4). A procedure pair holds the
// reserved-symbol value in First when built-in, or the lambda expression
// in First and the captured environment in Rest when compound.
func (w *Writer) writeProcedure(v heap.Value, budget *int) error {
	head := w.h.First(v)
	if w.h.IsSymbol(head) && w.h.Symbols.IsReserved(head) {
		return w.printf("[built-in %s]", string(w.h.SymbolBytes(head)))
	}
	return w.printf("[compound procedure]")
}

func (w *Writer) printf(format string, args ...any) error {
	_, err := fmt.Fprintf(w.out, format, args...)
	return err
}
