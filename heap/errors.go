package heap

import (
	"errors"

	"github.com/dtonhofer/micro-scheme-interpreter/ierr"
)

// Sentinel errors for conditions the allocators detect structurally, named
// in the same flat var-block style as the teacher's hive/alloc/errors.go.
//
// errNoPairSpace and errNoBlockSpace are ordinary resource exhaustion
// (§7 "KindResource ... is recoverable") and errBlockTooLarge is a size
// overflow (KindOverflow, also recoverable), so they are built as
// *ierr.Error rather than a plain errors.New:
// the top-level loop's recovery path type-asserts on *ierr.Error to decide
// whether to reset and continue or abort, and an un-wrapped error would be
// misclassified as fatal. errBadCellRef/errBadBlockRef stay plain errors:
// they signal a broken allocator invariant, not resource exhaustion, and
// are not expected to reach the top-level loop at all.
var (
	// errNoPairSpace indicates the pair free list is empty after a collection.
	errNoPairSpace = ierr.New(ierr.KindResource, "heap: no free pair cell after collection")

	// errNoBlockSpace indicates no free block large enough exists after a
	// collection.
	errNoBlockSpace = ierr.New(ierr.KindResource, "heap: no free block large enough after collection")

	// errBlockTooLarge indicates a requested block exceeds MaxBlockBytes.
	errBlockTooLarge = ierr.New(ierr.KindOverflow, "heap: requested block exceeds encoding cap")

	// errBadCellRef indicates an out-of-range or already-free cell reference.
	errBadCellRef = errors.New("heap: bad cell reference")

	// errBadBlockRef indicates an out-of-range or already-free block reference.
	errBadBlockRef = errors.New("heap: bad block reference")
)
