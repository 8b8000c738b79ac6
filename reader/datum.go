package reader

import (
	"io"

	"github.com/dtonhofer/micro-scheme-interpreter/heap"
	"github.com/dtonhofer/micro-scheme-interpreter/ierr"
)

// parseDatum dispatches over the grammar's alternatives in the order the
// external grammar fixes (§4.3 "Dispatch order"): list, boolean, character,
// quoted, string, integer, symbol. Each alternative probes under its own
// backmark; on statusBack the probe is rewound and the next alternative is
// tried untouched.
func (rd *Reader) parseDatum() (heap.Value, Status, error) {
	alternatives := []func() (heap.Value, Status, error){
		rd.parseList,
		rd.parseBoolean,
		rd.parseChar,
		rd.parseQuoted,
		rd.parseString,
		rd.parseNumber,
		rd.parseSymbol,
	}
	for _, alt := range alternatives {
		rd.rb.startReadAhead()
		v, status, err := alt()
		if status == statusBack {
			rd.rb.rewindToBackmark()
			continue
		}
		if err == errOverflow {
			rd.rb.rewindToBackmark()
			return heap.Nil, StatusError, ierr.New(ierr.KindSyntax, "token too long for the read-ahead window")
		}
		rd.rb.confirmAccept()
		return v, status, err
	}
	return heap.Nil, statusBack, nil
}

// parseQuoted handles `'datum`.
func (rd *Reader) parseQuoted() (heap.Value, Status, error) {
	b, err := rd.rb.peek()
	if err == io.EOF {
		return heap.Nil, statusBack, nil
	}
	if err != nil {
		return heap.Nil, StatusError, err
	}
	if b != '\'' {
		return heap.Nil, statusBack, nil
	}
	rd.rb.next()
	// No other alternative starts with '\'': commit, so the quoted datum
	// is not bounded by this probe's window.
	rd.rb.confirmAccept()

	quoteSym, err := rd.h.MakeSymbol([]byte("quote"))
	if err != nil {
		return heap.Nil, StatusError, err
	}

	if done, err := rd.skipAtmosphere(); err != nil {
		return heap.Nil, StatusError, err
	} else if done {
		return heap.Nil, StatusError, ierr.New(ierr.KindSyntax, "quote with no following datum")
	}
	inner, status, err := rd.parseDatum()
	if status == statusBack {
		return heap.Nil, StatusError, ierr.New(ierr.KindSyntax, "quote with no following datum")
	}
	if status == StatusError {
		return heap.Nil, StatusError, err
	}

	tail, err := rd.h.MakeCons(inner, heap.Nil)
	if err != nil {
		return heap.Nil, StatusError, err
	}
	v, err := rd.h.MakeCons(quoteSym, tail)
	if err != nil {
		return heap.Nil, StatusError, err
	}
	return v, StatusOK, nil
}

// parseBoolean handles #t, #T, #f, #F.
func (rd *Reader) parseBoolean() (heap.Value, Status, error) {
	b0, err := rd.rb.peek()
	if err != nil || b0 != '#' {
		return heap.Nil, statusBack, nil
	}
	rd.rb.next()
	b1, err := rd.rb.peek()
	if err == io.EOF {
		return heap.Nil, statusBack, nil
	}
	if err != nil {
		return heap.Nil, StatusError, err
	}
	switch b1 {
	case 't', 'T':
		rd.rb.next()
		return heap.MakeBool(true), StatusOK, nil
	case 'f', 'F':
		rd.rb.next()
		return heap.MakeBool(false), StatusOK, nil
	default:
		return heap.Nil, statusBack, nil
	}
}

// parseChar handles `#\name` where name is "space", "newline", or a single
// character.
func (rd *Reader) parseChar() (heap.Value, Status, error) {
	b0, err := rd.rb.peek()
	if err != nil || b0 != '#' {
		return heap.Nil, statusBack, nil
	}
	rd.rb.next()
	b1, err := rd.rb.peek()
	if err == io.EOF || err != nil || b1 != '\\' {
		return heap.Nil, statusBack, nil
	}
	rd.rb.next()

	c, err := rd.rb.next()
	if err != nil {
		return heap.Nil, StatusError, ierr.New(ierr.KindSyntax, "truncated character literal")
	}

	// A following run of letters turns #\c into a named character (space,
	// newline); a single punctuation/digit character stands for itself.
	if isAlpha(c) {
		name := []byte{c}
		for {
			b, err := rd.rb.peek()
			if err != nil || !isAlpha(b) {
				break
			}
			rd.rb.next()
			name = append(name, b)
		}
		switch string(name) {
		case "space":
			return heap.MakeChar(' '), StatusOK, nil
		case "newline":
			return heap.MakeChar('\n'), StatusOK, nil
		default:
			if len(name) == 1 {
				return heap.MakeChar(rune(name[0])), StatusOK, nil
			}
			return heap.Nil, StatusError, ierr.New(ierr.KindSyntax, "unknown character name %q", name)
		}
	}
	return heap.MakeChar(rune(c)), StatusOK, nil
}

// parseString handles `"chars"` with \n and \\ escapes.
func (rd *Reader) parseString() (heap.Value, Status, error) {
	b, err := rd.rb.peek()
	if err != nil || b != '"' {
		return heap.Nil, statusBack, nil
	}
	rd.rb.next()
	// No other alternative starts with '"': commit, so the literal is
	// bounded by MaxStringLength rather than by the ring's capacity.
	rd.rb.confirmAccept()

	var out []byte
	for {
		c, err := rd.rb.next()
		if err != nil {
			return heap.Nil, StatusError, ierr.New(ierr.KindSyntax, "unterminated string literal")
		}
		if c == '"' {
			break
		}
		if c == '\\' {
			e, err := rd.rb.next()
			if err != nil {
				return heap.Nil, StatusError, ierr.New(ierr.KindSyntax, "unterminated string literal")
			}
			switch e {
			case 'n':
				out = append(out, '\n')
			case '\\':
				out = append(out, '\\')
			case '"':
				out = append(out, '"')
			default:
				return heap.Nil, StatusError, ierr.New(ierr.KindSyntax, "unknown string escape \\%c", e)
			}
			continue
		}
		out = append(out, c)
		if len(out) > MaxStringLength {
			return heap.Nil, StatusError, ierr.New(ierr.KindSyntax, "string literal too long")
		}
	}
	v, err := rd.h.MakeString(out)
	if err != nil {
		return heap.Nil, StatusError, err
	}
	return v, StatusOK, nil
}

// parseSymbol handles bare identifiers, rejecting a lone "." (which belongs
// to the list grammar's dotted tail, never a symbol).
func (rd *Reader) parseSymbol() (heap.Value, Status, error) {
	b, err := rd.rb.peek()
	if err != nil || !isSymbolStart(b) {
		return heap.Nil, statusBack, nil
	}
	var out []byte
	for {
		c, err := rd.rb.peek()
		if err == errOverflow {
			return heap.Nil, StatusError, err
		}
		if err != nil || !isSymbolCont(c) {
			break
		}
		rd.rb.next()
		out = append(out, c)
	}
	if len(out) == 0 {
		return heap.Nil, statusBack, nil
	}
	if string(out) == "." {
		return heap.Nil, statusBack, nil
	}
	v, err := rd.h.MakeSymbol(out)
	if err != nil {
		return heap.Nil, StatusError, err
	}
	return v, StatusOK, nil
}

// parseList handles `(` datum* (`.` datum)? `)`.
func (rd *Reader) parseList() (heap.Value, Status, error) {
	b, err := rd.rb.peek()
	if err != nil || b != '(' {
		return heap.Nil, statusBack, nil
	}
	rd.rb.next()
	// No other alternative starts with '(': commit, so the list's
	// contents are not bounded by this probe's window.
	rd.rb.confirmAccept()

	var elems []heap.Value
	tail := heap.Nil

	for {
		if done, err := rd.skipAtmosphere(); err != nil {
			return heap.Nil, StatusError, err
		} else if done {
			return heap.Nil, StatusError, ierr.New(ierr.KindSyntax, "unterminated list")
		}
		b, err := rd.rb.peek()
		if err != nil {
			return heap.Nil, StatusError, err
		}
		if b == ')' {
			rd.rb.next()
			break
		}
		if b == '.' {
			// Only a dotted tail if '.' is not itself the start of a longer
			// symbol (e.g. "...") — probe one byte ahead.
			rd.rb.startReadAhead()
			rd.rb.next()
			nb, nerr := rd.rb.peek()
			isDotted := nerr == io.EOF || !isSymbolCont(nb)
			rd.rb.rewindToBackmark()
			if isDotted {
				rd.rb.next() // consume '.'
				if done, err := rd.skipAtmosphere(); err != nil {
					return heap.Nil, StatusError, err
				} else if done {
					return heap.Nil, StatusError, ierr.New(ierr.KindSyntax, "dotted tail with no datum")
				}
				v, status, err := rd.parseDatum()
				if status != StatusOK && status != StatusStop {
					return heap.Nil, StatusError, ierr.New(ierr.KindSyntax, "malformed dotted tail")
				}
				if err != nil {
					return heap.Nil, StatusError, err
				}
				tail = v
				if done, err := rd.skipAtmosphere(); err != nil {
					return heap.Nil, StatusError, err
				} else if done {
					return heap.Nil, StatusError, ierr.New(ierr.KindSyntax, "unterminated list")
				}
				closeB, err := rd.rb.next()
				if err != nil || closeB != ')' {
					return heap.Nil, StatusError, ierr.New(ierr.KindSyntax, "expected ')' after dotted tail")
				}
				break
			}
		}

		v, status, err := rd.parseDatum()
		if status == statusBack {
			return heap.Nil, StatusError, ierr.New(ierr.KindSyntax, "unrecognized input inside list")
		}
		if status == StatusError {
			return heap.Nil, StatusError, err
		}
		elems = append(elems, v)
	}

	result := tail
	for i := len(elems) - 1; i >= 0; i-- {
		var err error
		result, err = rd.h.MakeCons(elems[i], result)
		if err != nil {
			return heap.Nil, StatusError, err
		}
	}
	return result, StatusOK, nil
}
