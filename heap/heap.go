package heap

import "github.com/dtonhofer/micro-scheme-interpreter/internal/buf"

// Heap owns the pair-cell region, the data-block region, the pinned-roots
// region, and the symbol table for one interpreter instance. It has no
// package-level state; every field below is instance-local so more than
// one *Heap can coexist in a process (§9 "Global state").
type Heap struct {
	cells  *cellRegion
	blocks *blockRegion
	roots  RootSource
	pinned []Value
	stats  stats
	Symbols *SymbolTable
}

// Config sizes the two regions. Defaults are generous for interactive use
// and for the §8 "no interpreter-stack growth under recursion" scenario,
// which allocates one pair per loop iteration until the next collection.
type Config struct {
	PairCells  int
	BlockBytes int
}

// DefaultConfig matches the sizing the teacher's BumpAllocator documents
// for a single 4KB HBIN, scaled up for an in-memory session instead of a
// single disk page.
func DefaultConfig() Config {
	return Config{
		PairCells:  1 << 16,
		BlockBytes: 1 << 20,
	}
}

// New constructs a heap with the given region sizes and an empty, not-yet-
// populated symbol table. Callers must call SetRoots once the stack/
// register machine exists, before any allocation that might collect.
func New(cfg Config) *Heap {
	h := &Heap{
		cells:  newCellRegion(cfg.PairCells),
		blocks: newBlockRegion(cfg.BlockBytes / 2), // ~2 bytes/block floor
	}
	h.Symbols = newSymbolTable(h)
	return h
}

// PairCapacity and BlockCapacity report region sizing for diagnostics.
func (h *Heap) PairCapacity() int  { return h.cells.capacity() }
func (h *Heap) BlockCapacity() int { return h.blocks.capacity() }

// MakeCons allocates an ordinary pair (the "cons" primitive and general
// pair construction throughout the evaluator and reader).
func (h *Heap) MakeCons(first, rest Value) (Value, error) {
	return h.AllocatePair(first, rest)
}

// MakeInt constructs an integer value, inlining it when it fits the
// short-integer range and otherwise allocating a long-integer data block
// (§3 "Data block", §4.1 "Constructors").
func (h *Heap) MakeInt(n int64) (Value, error) {
	if FitsShortInt(n) {
		return makeShortInt(n), nil
	}
	v, err := h.AllocateBlock(8, BlockInteger)
	if err != nil {
		return Value{}, err
	}
	putInt64(h.BlockBytes(v), n)
	return v, nil
}

// IntValue returns the integer payload of any TagInt or TagBlock/BlockInteger
// value.
func (h *Heap) IntValue(v Value) int64 {
	if v.Type() == TagInt {
		return v.AsShortInt()
	}
	return getInt64(h.BlockBytes(v))
}

// IsInteger reports whether v holds an integer, short or long.
func (h *Heap) IsInteger(v Value) bool {
	if v.Type() == TagInt {
		return true
	}
	return v.Type() == TagBlock && h.BlockType(v) == BlockInteger
}

// MakeString constructs a string value, inlining 0-3 byte strings and
// allocating a data block otherwise (§4.1 "Constructors").
func (h *Heap) MakeString(s []byte) (Value, error) {
	if len(s) <= ShortLen {
		return makeShortString(s), nil
	}
	v, err := h.AllocateBlock(len(s), BlockString)
	if err != nil {
		return Value{}, err
	}
	copy(h.BlockBytes(v), s)
	return v, nil
}

// StringBytes returns the character content of a string value, short or
// long.
func (h *Heap) StringBytes(v Value) []byte {
	if v.Type() == TagString {
		return v.ShortBytes()
	}
	return h.BlockBytes(v)
}

// IsString reports whether v holds a string, short or long.
func (h *Heap) IsString(v Value) bool {
	if v.Type() == TagString {
		return true
	}
	return v.Type() == TagBlock && h.BlockType(v) == BlockString
}

// IsSymbol reports whether v holds a symbol, short or long.
func (h *Heap) IsSymbol(v Value) bool {
	if v.Type() == TagSymbol {
		return true
	}
	return v.Type() == TagBlock && h.BlockType(v) == BlockSymbol
}

// SymbolBytes returns the spelling of a symbol value, short or long.
func (h *Heap) SymbolBytes(v Value) []byte {
	if v.Type() == TagSymbol {
		return v.ShortBytes()
	}
	return h.BlockBytes(v)
}

// Equal implements the core's structural content equality for data
// blocks: same type descriptor, same textual content (string/symbol) or
// integer value (§4.1 "Equality"). It does not recurse into pairs — eq?
// is reference/immediate equality only, per the spec.
func (h *Heap) Equal(a, b Value) bool {
	if EqIdentical(a, b) {
		return true
	}
	if h.IsSymbol(a) && h.IsSymbol(b) {
		return string(h.SymbolBytes(a)) == string(h.SymbolBytes(b))
	}
	if h.IsString(a) && h.IsString(b) {
		return string(h.StringBytes(a)) == string(h.StringBytes(b))
	}
	if h.IsInteger(a) && h.IsInteger(b) {
		return h.IntValue(a) == h.IntValue(b)
	}
	return false
}

func putInt64(b []byte, n int64) {
	buf.PutU64LE(b, uint64(n))
}

func getInt64(b []byte) int64 {
	return int64(buf.U64LE(b))
}
