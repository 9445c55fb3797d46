// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

// coalesce merges bp with any free neighbour(s), unthreading whichever
// of them were already on a free list, and returns the payload address
// of the resulting block. bp itself must not be on a free list when
// this is called — it is inserted, once, by the caller. The four cases
// mirror the textbook boundary-tag coalesce: both neighbours
// allocated, only the next one free, only the previous one free, or
// both free.
func (h *Heap) coalesce(bp uintptr) uintptr {
	prevAlloc := h.blockPrevAlloc(bp)
	next := h.nextBlock(bp)
	nextAlloc := next == h.epilogue || h.blockAlloc(next)

	size := h.blockSize(bp)

	switch {
	case prevAlloc && nextAlloc:
		// Case 1: isolated, nothing to merge.
		return bp

	case prevAlloc && !nextAlloc:
		// Case 2: merge with the following free block.
		h.freeListRemove(next)
		size += h.blockSize(next)
		h.setHeader(bp, size, true, false)
		h.setNextPrevAlloc(bp, false)
		return bp

	case !prevAlloc && nextAlloc:
		// Case 3: merge with the preceding free block.
		prev := h.prevBlock(bp)
		h.freeListRemove(prev)
		size += h.blockSize(prev)
		prevPrevAlloc := h.blockPrevAlloc(prev)
		h.setHeader(prev, size, prevPrevAlloc, false)
		h.setNextPrevAlloc(prev, false)
		return prev

	default:
		// Case 4: merge with both neighbours.
		prev := h.prevBlock(bp)
		h.freeListRemove(prev)
		h.freeListRemove(next)
		size += h.blockSize(prev) + h.blockSize(next)
		prevPrevAlloc := h.blockPrevAlloc(prev)
		h.setHeader(prev, size, prevPrevAlloc, false)
		h.setNextPrevAlloc(prev, false)
		return prev
	}
}

// free validates that ptr is a live allocation this Heap handed out
// and returns it to the free lists, coalescing with any free
// neighbours.
func (h *Heap) free(bp uintptr) error {
	if err := h.checkLivePointer(bp); err != nil {
		return err
	}

	size := h.blockSize(bp)
	prevAlloc := h.blockPrevAlloc(bp)
	h.setHeader(bp, size, prevAlloc, false)
	h.setNextPrevAlloc(bp, false)

	h.stats.Frees++
	h.stats.BytesInUse -= int(size)

	bp = h.coalesce(bp)
	h.freeListInsert(bp)
	return nil
}

// checkLivePointer rejects a ptr that is out of range, misaligned, or
// already free — the minimum sanity check every Free/Realloc call
// performs regardless of whether VerifyOnFree is set.
func (h *Heap) checkLivePointer(bp uintptr) error {
	if h.base == 0 || bp < h.base+dsize+2*wordSize || bp >= h.epilogue {
		return &ErrINVAL{Msg: "pointer out of range", Arg: bp}
	}
	if (bp-h.base)%alignment != 0 {
		return &ErrINVAL{Msg: "misaligned pointer", Arg: bp}
	}
	if !h.blockAlloc(bp) {
		return &ErrINVAL{Msg: "double free or invalid pointer", Arg: bp}
	}
	return nil
}
