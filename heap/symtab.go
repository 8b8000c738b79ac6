package heap

// SymbolTable interns symbol spellings and anchors the reserved-keyword
// table. It generalizes the teacher's hive/namecache sharded LRU decode
// cache: the sharding and locking there exist to serve concurrent
// decoders, but this interpreter is single-threaded and cooperative (§5),
// so one unsharded, unlocked map-of-spelling-to-Value does the same job —
// mapping raw spelling bytes to a canonical Value — without the
// concurrency machinery the teacher needed and this domain does not.
//
// Unlike a decode cache, entries here are never evicted: reserved symbols
// are pinned for the interpreter's lifetime, and interned long symbols
// must stay valid for as long as any live Value references their backing
// block (the GC, not this table, decides when a symbol block dies).
type SymbolTable struct {
	h *Heap

	reserved map[string]Value // keyword spelling -> canonical Value, pinned
	interned map[string]Value // long (>3 byte) non-reserved spelling -> Value
}

func newSymbolTable(h *Heap) *SymbolTable {
	return &SymbolTable{
		h:        h,
		reserved: make(map[string]Value, 64),
		interned: make(map[string]Value, 64),
	}
}

// ReservedNames lists every reserved spelling the evaluator anchors at
// boot (§3 "Reserved symbols"). "!!" is reserved so ordinary code cannot
// define or set! it, but the evaluator's variable lookup special-cases it
// to read an ordinary binding rather than fabricating a built-in
// procedure cell (spec.md's "Reserved variable !!").
var ReservedNames = []string{
	"quote", "define", "set!", "if", "cond", "else", "and", "or", "lambda", "let",
	"+", "-", "*", "/", "<", "<=", "=", ">", ">=",
	"caar", "cadr", "cdar", "cddr",
	"caaar", "caadr", "cadar", "caddr", "cdaar", "cdadr", "cddar", "cdddr",
	"caaaar", "caaadr", "caadar", "caaddr", "cadaar", "cadadr", "caddar", "cadddr",
	"cdaaar", "cdaadr", "cdadar", "cdaddr", "cddaar", "cddadr", "cdddar", "cddddr",
	"cons", "car", "cdr", "set-car!", "set-cdr!",
	"eq?", "null?", "pair?", "list?", "integer?", "number?", "symbol?", "string?",
	"odd?", "even?", "not", "length", "list",
	"newline", "write", "read", "error",
	"gcstat", "gcstatwrite", "garbagecollect", "synchecktoggle",
	"!!",
}

// Boot constructs the canonical Value for every reserved spelling and pins
// each one individually; it builds no Scheme list of the reserved names.
// It must run exactly once, before any user input is read.
func (st *SymbolTable) Boot() error {
	for _, name := range ReservedNames {
		v, err := st.makeCanonical([]byte(name))
		if err != nil {
			return err
		}
		st.reserved[name] = v
		st.h.Pin(v)
	}
	return nil
}

// makeCanonical allocates (or inlines) a symbol Value without consulting
// the reserved table — used by Boot itself to avoid recursing into Intern.
func (st *SymbolTable) makeCanonical(s []byte) (Value, error) {
	if len(s) <= ShortLen {
		return makeShortSymbol(s), nil
	}
	v, err := st.h.AllocateBlock(len(s), BlockSymbol)
	if err != nil {
		return Value{}, err
	}
	copy(st.h.BlockBytes(v), s)
	return v, nil
}

// Lookup reports whether spelling names a reserved keyword, returning its
// canonical Value.
func (st *SymbolTable) Lookup(spelling string) (Value, bool) {
	v, ok := st.reserved[spelling]
	return v, ok
}

// IsReserved reports whether v is the canonical Value of some reserved
// keyword (reference-identity check, §3 "Reserved symbols are compared by
// reference identity").
func (st *SymbolTable) IsReserved(v Value) bool {
	for _, r := range st.reserved {
		if EqIdentical(v, r) {
			return true
		}
	}
	return false
}

// Intern returns the canonical Value for spelling: the reserved Value when
// spelling names a keyword (§4.1 "make-symbol additionally scans the
// reserved-keyword list"), the cached long-symbol Value when one has
// already been interned, or a freshly allocated symbol otherwise.
func (st *SymbolTable) Intern(spelling []byte) (Value, error) {
	s := string(spelling)
	if v, ok := st.reserved[s]; ok {
		return v, nil
	}
	if len(spelling) <= ShortLen {
		return makeShortSymbol(spelling), nil
	}
	if v, ok := st.interned[s]; ok {
		// The cached block may have been collected and reused since.
		blk := st.h.blocks.get(v.BlockIndex())
		if !blk.free && blk.typ == BlockSymbol && string(st.h.BlockBytes(v)) == s {
			return v, nil
		}
	}
	v, err := st.makeCanonical(spelling)
	if err != nil {
		return Value{}, err
	}
	st.interned[s] = v
	return v, nil
}

// MakeSymbol is the public entry point matching §4.1's make-symbol
// constructor.
func (h *Heap) MakeSymbol(spelling []byte) (Value, error) {
	return h.Symbols.Intern(spelling)
}
