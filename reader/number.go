package reader

import (
	"math"

	"github.com/dtonhofer/micro-scheme-interpreter/heap"
	"github.com/dtonhofer/micro-scheme-interpreter/ierr"
)

// parseNumber handles Integer = (#d|#D)? sign? digits and the supplemented
// hexint = (#x|#X) sign? hexdigits. Overflow is checked against int64
// limits before each digit is folded in, raising "integer too large" the
// moment it would occur (§4.3 "Numeric limits").
func (rd *Reader) parseNumber() (heap.Value, Status, error) {
	base := 10
	sawPrefix := false

	b, err := rd.rb.peek()
	if err != nil {
		return heap.Nil, statusBack, nil
	}
	if b == '#' {
		rd.rb.next()
		p, err := rd.rb.next()
		if err != nil {
			return heap.Nil, statusBack, nil
		}
		switch p {
		case 'd', 'D':
			base = 10
		case 'x', 'X':
			base = 16
		default:
			return heap.Nil, statusBack, nil
		}
		sawPrefix = true
	}

	neg := false
	if b, err := rd.rb.peek(); err == nil && (b == '+' || b == '-') {
		rd.rb.next()
		neg = b == '-'
	}

	firstDigit := true
	var n int64
	for {
		c, err := rd.rb.peek()
		if err != nil {
			break
		}
		d, ok := digitValue(c, base)
		if !ok {
			break
		}
		rd.rb.next()
		firstDigit = false

		if n > (math.MaxInt64-int64(d))/int64(base) {
			return heap.Nil, StatusError, ierr.New(ierr.KindOverflow, "integer too large")
		}
		n = n*int64(base) + int64(d)
	}

	if firstDigit {
		// A bare "#d"/"#x" prefix with no digits is not a number; without a
		// prefix, a non-digit lookahead just means this alternative does
		// not apply.
		if sawPrefix {
			return heap.Nil, StatusError, ierr.New(ierr.KindSyntax, "malformed integer literal")
		}
		return heap.Nil, statusBack, nil
	}

	if neg {
		n = -n
	}
	v, err := rd.h.MakeInt(n)
	if err != nil {
		return heap.Nil, StatusError, err
	}
	return v, StatusOK, nil
}

func digitValue(c byte, base int) (int, bool) {
	var d int
	switch {
	case c >= '0' && c <= '9':
		d = int(c - '0')
	case c >= 'a' && c <= 'f':
		d = int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		d = int(c-'A') + 10
	default:
		return 0, false
	}
	if d >= base {
		return 0, false
	}
	return d, true
}
