package heap

// CellRef indexes the pair-cell region. It is a plain slice index, not a
// byte offset — the source's HCELL_INDEX-style byte offsets have no
// analogue once the region is modeled as a Go slice of structs.
type CellRef uint32

// BlockRef indexes the data-block region.
type BlockRef uint32

// noCellRef and noBlockRef are the sentinel "no next cell" / "no next
// block" values threaded through the free lists, analogous to the source's
// use of nil-terminated singly-linked free lists.
const (
	noCellRef  = CellRef(^uint32(0))
	noBlockRef = BlockRef(^uint32(0))
)

// Hint distinguishes an ordinary pair cell from one that has been promoted
// to an environment header or a procedure header (§3 "Pair cell", §3
// "Environment", §3 "Procedure"). The source stores hint as 2 bits of the
// rest slot; here it is tracked per-cell in the region's own bookkeeping
// (heap.cells.hint), which keeps Value a plain tagged scalar with no
// GC-visible bits (see heap.Value's doc comment) while preserving the
// invariant that a cell's hint is set only at construction/promotion and
// never silently changed.
type Hint uint8

const (
	HintNone Hint = iota
	HintEnvHeader
	HintProcedureHeader
)

// BlockType is the 15-bit type descriptor carried by a data-block header.
type BlockType uint8

const (
	BlockString BlockType = iota
	BlockInteger
	BlockSymbol
)

func (t BlockType) String() string {
	switch t {
	case BlockString:
		return "string"
	case BlockInteger:
		return "integer"
	case BlockSymbol:
		return "symbol"
	default:
		return "invalid"
	}
}

// MaxBlockBytes caps a single data block's body, matching §4.1's "the
// maximum block size equals the region's encoding cap". Chosen generously
// for a textual Scheme core (source strings are bounded by the reader's
// grammar well below this).
const MaxBlockBytes = 1 << 20
