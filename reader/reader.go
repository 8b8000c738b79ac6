// Package reader implements the external S-expression grammar (§4.3): a
// recursive-descent parser with backtracking, built over a fixed-capacity
// ring buffer so that trying one alternative and failing never requires an
// unbounded amount of pushback.
package reader

import (
	"io"

	"github.com/dtonhofer/micro-scheme-interpreter/heap"
	"github.com/dtonhofer/micro-scheme-interpreter/ierr"
)

// DefaultRingCapacity is the ring buffer's default size, generous for every
// token this grammar defines except a string literal, which has its own
// explicit length cap (see parseString).
const DefaultRingCapacity = 64

// MaxStringLength bounds a string literal's decoded length (§4.3 "max
// length bounded").
const MaxStringLength = 4096

// Reader parses data from an underlying byte stream into heap.Value graphs,
// one datum at a time, on behalf of one *heap.Heap. It is not safe for
// concurrent use (§5: the ring buffer is owned by the active reader).
type Reader struct {
	h   *heap.Heap
	rb  *ring
	err error // sticky I/O error, once encountered on a non-EOF read
}

// New constructs a Reader over src backed by a ring buffer of capacity
// bytes; a capacity of 0 or less selects DefaultRingCapacity.
func New(h *heap.Heap, src io.Reader, capacity int) *Reader {
	if capacity <= 0 {
		capacity = DefaultRingCapacity
	}
	return &Reader{h: h, rb: newRing(src, capacity)}
}

// ReadOne parses the next datum, returning (value, status) as specified by
// §4.3. On StatusError the returned error describes the syntax problem and
// input has already been resynchronized past the next blank line.
func (rd *Reader) ReadOne() (heap.Value, Status, error) {
	if rd.err != nil {
		return heap.Nil, StatusTerm, rd.err
	}

	if done, err := rd.skipAtmosphere(); err != nil {
		if err == io.EOF {
			return heap.Nil, StatusTerm, nil
		}
		rd.err = err
		return heap.Nil, StatusTerm, err
	} else if done {
		return heap.Nil, StatusTerm, nil
	}

	v, status, err := rd.parseDatum()
	switch status {
	case StatusError:
		rd.resync()
		return heap.Nil, StatusError, err
	case statusBack:
		// No alternative in parseDatum's dispatch matched: the lookahead
		// byte does not start any recognized datum.
		rd.resync()
		return heap.Nil, StatusError, ierr.New(ierr.KindSyntax, "unrecognized input")
	}

	if rd.atEOF() {
		if status == StatusTerm {
			return heap.Nil, StatusTerm, nil
		}
		return v, StatusStop, nil
	}
	return v, StatusOK, nil
}

// atEOF reports whether the underlying stream has nothing left to give,
// without consuming a byte.
func (rd *Reader) atEOF() bool {
	_, err := rd.rb.peek()
	return err == io.EOF
}

// skipAtmosphere consumes whitespace and `;`-to-end-of-line comments ahead
// of a datum. It must only run between datums, never inside a probe (§4.3
// "Whitespace/comment skipping must never run during read-ahead").
func (rd *Reader) skipAtmosphere() (eof bool, err error) {
	for {
		b, err := rd.rb.peek()
		if err == io.EOF {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		switch {
		case b == ' ' || b == '\t' || b == '\r' || b == '\n':
			rd.rb.next()
		case b == ';':
			for {
				b, err := rd.rb.peek()
				if err == io.EOF || b == '\n' {
					break
				}
				if err != nil {
					return false, err
				}
				rd.rb.next()
			}
		default:
			return false, nil
		}
	}
}

// resync flushes input to the next blank line (two consecutive newlines),
// the reader's resynchronization discipline after a syntax error (§4.3).
func (rd *Reader) resync() {
	newlines := 0
	for newlines < 2 {
		b, err := rd.rb.next()
		if err != nil {
			return
		}
		if b == '\n' {
			newlines++
		} else if b != '\r' {
			newlines = 0
		}
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// isSpecial matches the symbol grammar's "special" character class: the
// punctuation Scheme identifiers are conventionally built from, including
// the arithmetic/comparison operator spellings that are themselves
// reserved symbols (§3).
func isSpecial(b byte) bool {
	switch b {
	case '!', '$', '%', '&', '*', '/', ':', '<', '=', '>', '?', '^', '_', '~', '+', '-':
		return true
	}
	return false
}

func isSymbolStart(b byte) bool { return isAlpha(b) || isDigit(b) || isSpecial(b) }
func isSymbolCont(b byte) bool  { return isSymbolStart(b) || b == '.' }
