package reader

// Status classifies the outcome of reading one datum (§4.3).
type Status int

const (
	// StatusOK: a value was parsed and more input may still be available.
	StatusOK Status = iota
	// StatusStop: a value was parsed and EOF was reached while parsing it.
	StatusStop
	// StatusTerm: EOF with no value read; the caller should stop reading.
	StatusTerm
	// StatusError: a syntax error; input has been resynchronized past the
	// next blank line.
	StatusError
	// statusBack is an internal backtracking signal from one alternative of
	// parseDatum to its caller; it is never returned from ReadOne.
	statusBack
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusStop:
		return "stop"
	case StatusTerm:
		return "term"
	case StatusError:
		return "error"
	case statusBack:
		return "back"
	default:
		return "invalid"
	}
}
