// Package ierr classifies the interpreter's runtime errors so the REPL can
// branch on intent (§7) rather than on error text, and so the non-local
// recovery path can decide whether an error is recoverable (everything
// except Fatal) or must abort the process.
package ierr

import "fmt"

// Kind classifies an interpreter error into one of the categories named by
// the core's error handling design.
type Kind int

const (
	// KindSyntax covers ill-formed source text or ill-formed special forms
	// caught by syntax-check.
	KindSyntax Kind = iota
	// KindUnbound is a reference to a symbol with no binding.
	KindUnbound
	// KindUnapplicable is an application of a non-procedure.
	KindUnapplicable
	// KindReserved is an attempt to define or set! a reserved symbol.
	KindReserved
	// KindArityType is a built-in invoked with the wrong number or kind of
	// arguments.
	KindArityType
	// KindUser is raised by the (error ...) built-in.
	KindUser
	// KindOverflow is integer-parsing overflow or a block size exceeding
	// the representable range.
	KindOverflow
	// KindResource is heap exhaustion, stack overflow, or label-stack
	// overflow.
	KindResource
	// KindFatal is an internal invariant violation; it is never recovered,
	// even during the recovery path itself.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindUnbound:
		return "unbound"
	case KindUnapplicable:
		return "unapplicable"
	case KindReserved:
		return "reserved"
	case KindArityType:
		return "arity/type"
	case KindUser:
		return "user"
	case KindOverflow:
		return "overflow"
	case KindResource:
		return "resource"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error is a typed error carrying a Kind so callers can branch on the
// category rather than parsing Msg, plus an optional wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// New builds an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given kind around an underlying cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Recoverable reports whether the §7 recovery loop should catch this error
// (reset stacks, reinit registers, collect, resume) rather than let the
// process abort. Every kind except KindFatal is recoverable, whenever it
// is raised. Errors raised while a session is being built never reach the
// loop: interp.New returns them to its caller.
func (e *Error) Recoverable() bool {
	return e.Kind != KindFatal
}

// Sentinels for conditions identified purely structurally (no dynamic
// message text needed at the call site).
var (
	// ErrOutOfMemory is raised when both the pair and block free lists are
	// exhausted after a full collection.
	ErrOutOfMemory = &Error{Kind: KindResource, Msg: "out of memory: pair and block free lists exhausted"}
	// ErrStackOverflow is raised on pointer-stack push past capacity.
	ErrStackOverflow = &Error{Kind: KindResource, Msg: "pointer stack overflow"}
	// ErrStackUnderflow is raised on pointer-stack pop below the base.
	ErrStackUnderflow = &Error{Kind: KindResource, Msg: "pointer stack underflow"}
	// ErrLabelStackOverflow is raised on label-stack push past capacity.
	ErrLabelStackOverflow = &Error{Kind: KindResource, Msg: "label stack overflow"}
	// ErrLabelStackUnderflow is raised on label-stack pop below empty.
	ErrLabelStackUnderflow = &Error{Kind: KindResource, Msg: "label stack underflow"}
)
