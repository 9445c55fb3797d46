// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

import "fmt"

// ErrINVAL reports an invalid argument passed to a Heap method, e.g. a
// negative size, or a Free/Realloc of an address the Heap never handed
// out.
type ErrINVAL struct {
	Msg string
	Arg interface{}
}

func (e *ErrINVAL) Error() string {
	if e.Arg != nil {
		return fmt.Sprintf("alloc: invalid argument: %s (%v)", e.Msg, e.Arg)
	}

	return fmt.Sprintf("alloc: invalid argument: %s", e.Msg)
}

// ErrILSEQ reports heap metadata that CheckHeap (or an internal
// consistency assertion reached during normal operation) found
// corrupted: a header/footer mismatch, a free block not reachable from
// its size class's list, two adjacent blocks that both claim to be
// free, and the like.
type ErrILSEQ struct {
	Violation Violation
	Off       uintptr
	Msg       string
}

func (e *ErrILSEQ) Error() string {
	return fmt.Sprintf("alloc: illegal heap sequence at %#x: %s (%s)", e.Off, e.Msg, e.Violation)
}

// Violation enumerates the invariants CheckHeap verifies.
type Violation int

// Violation values, I1 through I8.
const (
	_ Violation = iota
	// I1: the prologue block is exactly one allocated, zero-payload
	// block at the very start of the heap.
	ViolationPrologue
	// I2: the epilogue is a zero-size allocated header at the very
	// end of the heap.
	ViolationEpilogue
	// I3: every block's address and size keep it 8-byte aligned and
	// entirely inside [heap start, heap end).
	ViolationAlignment
	// I4: a block's header and footer (when it has one) agree on
	// size and allocatedness.
	ViolationHeaderFooter
	// I5: no two physically adjacent blocks are both free.
	ViolationUncoalesced
	// I6: every free block appears in exactly the free list its size
	// class predicts.
	ViolationFreeListMembership
	// I7: every block on a free list is actually marked free.
	ViolationFreeListAllocated
	// I8: a block's header's prev-alloc bit agrees with the
	// allocatedness of the block immediately before it.
	ViolationPrevAlloc
)

func (v Violation) String() string {
	switch v {
	case ViolationPrologue:
		return "I1: bad prologue"
	case ViolationEpilogue:
		return "I2: bad epilogue"
	case ViolationAlignment:
		return "I3: misaligned or out-of-range block"
	case ViolationHeaderFooter:
		return "I4: header/footer mismatch"
	case ViolationUncoalesced:
		return "I5: adjacent free blocks not coalesced"
	case ViolationFreeListMembership:
		return "I6: free block missing from its size class list"
	case ViolationFreeListAllocated:
		return "I7: allocated block present on a free list"
	case ViolationPrevAlloc:
		return "I8: stale prev-alloc bit"
	default:
		return "unknown violation"
	}
}
