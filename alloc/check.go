// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

import (
	"fmt"
	"os"
)

// HeapReport summarizes a CheckHeap pass.
type HeapReport struct {
	Blocks     int
	FreeBlocks int
	FreeBytes  int
	UsedBytes  int
}

// CheckHeap walks the whole heap and its free lists, verifying
// invariants I1 through I8 (see the Violation constants), and reports
// basic occupancy counters when it finds nothing wrong. It runs in two
// phases, the same shape as lldb.Allocator.Verify: first a linear scan
// of every block by address, which catches anything about a block's
// own header/footer or its relationship to its immediate neighbours;
// then a scan of every free list, which catches anything about free
// list membership that the linear scan can't see on its own.
//
// When verbose is true, CheckHeap writes a printblock-style dump of
// every block it visits to stderr as it scans, and, if a violation is
// found, a final line naming it — the same "walk and narrate" shape
// as mm.c's mm_checkheap(verbose).
func (h *Heap) CheckHeap(verbose bool) (HeapReport, error) {
	var rep HeapReport

	seenFree := make(map[uintptr]bool)

	if err := h.checkPrologue(); err != nil {
		return rep, h.reportViolation(verbose, err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "prologue: [%#x:a]\n", dsize)
	}

	prevAllocExpected := true
	bp := h.base + dsize + 2*wordSize // first real block, past prologue
	for hdrp(bp) != h.epilogue {
		if bp < h.base || bp >= h.epilogue {
			return rep, h.reportViolation(verbose, &ErrILSEQ{Violation: ViolationAlignment, Off: bp, Msg: "block address out of heap range"})
		}
		if (bp-h.base)%alignment != 0 {
			return rep, h.reportViolation(verbose, &ErrILSEQ{Violation: ViolationAlignment, Off: bp, Msg: "block address not 8-byte aligned"})
		}

		size := h.blockSize(bp)
		if size < minBlockSize || size%alignment != 0 {
			return rep, h.reportViolation(verbose, &ErrILSEQ{Violation: ViolationAlignment, Off: bp, Msg: "bad block size"})
		}

		alloc := h.blockAlloc(bp)
		prevAlloc := h.blockPrevAlloc(bp)

		if verbose {
			h.printblock(bp, size, alloc, prevAlloc)
		}

		if prevAlloc != prevAllocExpected {
			return rep, h.reportViolation(verbose, &ErrILSEQ{Violation: ViolationPrevAlloc, Off: bp, Msg: "prev-alloc bit does not match predecessor"})
		}

		if !alloc {
			footer := h.getWord(bp + uintptr(size) - dsize)
			if sizeOf(footer) != size || isAlloc(footer) {
				return rep, h.reportViolation(verbose, &ErrILSEQ{Violation: ViolationHeaderFooter, Off: bp, Msg: "header/footer mismatch"})
			}
			if !prevAllocExpected {
				return rep, h.reportViolation(verbose, &ErrILSEQ{Violation: ViolationUncoalesced, Off: bp, Msg: "two adjacent free blocks"})
			}

			rep.FreeBlocks++
			rep.FreeBytes += int(size)
			seenFree[bp] = true
		} else {
			rep.UsedBytes += int(size)
		}

		rep.Blocks++
		prevAllocExpected = alloc
		bp += uintptr(size)
	}

	if err := h.checkEpilogue(prevAllocExpected); err != nil {
		return rep, h.reportViolation(verbose, err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "epilogue: [0:a]\n")
	}

	listed := make(map[uintptr]bool, len(seenFree))
	for c := 0; c < numClasses; c++ {
		for o := h.heads[c]; !o.isNull(); o = h.succ(o.addr()) {
			bp := o.addr()
			if h.blockAlloc(bp) {
				return rep, h.reportViolation(verbose, &ErrILSEQ{Violation: ViolationFreeListAllocated, Off: bp, Msg: "allocated block on a free list"})
			}
			if sizeClass(h.blockSize(bp)) != c {
				return rep, h.reportViolation(verbose, &ErrILSEQ{Violation: ViolationFreeListMembership, Off: bp, Msg: "block on the wrong size class list"})
			}
			if !seenFree[bp] {
				return rep, h.reportViolation(verbose, &ErrILSEQ{Violation: ViolationFreeListMembership, Off: bp, Msg: "free list block not found by linear scan"})
			}
			listed[bp] = true
		}
	}
	if len(listed) != len(seenFree) {
		return rep, h.reportViolation(verbose, &ErrILSEQ{Violation: ViolationFreeListMembership, Off: h.base, Msg: "free block missing from every size class list"})
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "heap ok: %d blocks, %d free (%d bytes), %d used bytes\n",
			rep.Blocks, rep.FreeBlocks, rep.FreeBytes, rep.UsedBytes)
	}
	return rep, nil
}

// printblock writes one line per visited block, in the spirit of
// mm.c's printblock: address, total size, and both blocks' alloc bits.
func (h *Heap) printblock(bp uintptr, size uint32, alloc, prevAlloc bool) {
	allocCh, prevCh := 'f', 'f'
	if alloc {
		allocCh = 'a'
	}
	if prevAlloc {
		prevCh = 'a'
	}
	fmt.Fprintf(os.Stderr, "block %#x: size %d [%c|prev %c]\n", bp, size, allocCh, prevCh)
}

// reportViolation prints err to stderr when verbose and returns it
// unchanged, so a verbose caller sees the same violation that's also
// returned as an error.
func (h *Heap) reportViolation(verbose bool, err error) error {
	if verbose && err != nil {
		fmt.Fprintf(os.Stderr, "violation: %s\n", err)
	}
	return err
}

func (h *Heap) checkPrologue() error {
	hdr := h.getWord(h.base + wordSize)
	ftr := h.getWord(h.base + 2*wordSize)
	if sizeOf(hdr) != dsize || !isAlloc(hdr) || hdr != ftr {
		return &ErrILSEQ{Violation: ViolationPrologue, Off: h.base, Msg: "malformed prologue"}
	}
	return nil
}

func (h *Heap) checkEpilogue(prevAllocExpected bool) error {
	w := h.getWord(h.epilogue)
	if sizeOf(w) != 0 || !isAlloc(w) {
		return &ErrILSEQ{Violation: ViolationEpilogue, Off: h.epilogue, Msg: "malformed epilogue"}
	}
	if isPrevAlloc(w) != prevAllocExpected {
		return &ErrILSEQ{Violation: ViolationPrevAlloc, Off: h.epilogue, Msg: "epilogue prev-alloc bit stale"}
	}
	return nil
}
