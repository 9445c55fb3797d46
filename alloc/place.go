// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

// place carves an allocation of asize bytes out of the free block at
// bp, which findFit has already verified is large enough. bp is always
// removed from its free list first by the caller.
//
// If the remainder after carving off asize would be smaller than
// minBlockSize, the whole block is handed out as-is — splitting it
// would produce a fragment too small to ever satisfy a future request
// or even carry its own free-list links. Otherwise the block is split:
// the front asize bytes become the new allocation and the tail
// becomes a new free block threaded onto its own size class.
func (h *Heap) place(bp uintptr, asize uint32) {
	csize := h.blockSize(bp)
	prevAlloc := h.blockPrevAlloc(bp)

	if csize-asize < minBlockSize {
		h.setHeader(bp, csize, prevAlloc, true)
		h.setNextPrevAlloc(bp, true)
		return
	}

	h.setHeader(bp, asize, prevAlloc, true)

	rem := bp + uintptr(asize)
	h.setHeader(rem, csize-asize, true, false)
	h.freeListInsert(rem)
}

// setNextPrevAlloc updates the prev-alloc bit of the block physically
// following bp to match bp's own (freshly written) alloc bit. Every
// caller that changes whether bp is allocated, without changing bp's
// size, must keep the next block's header in sync or a later coalesce
// or CheckHeap pass will misread the boundary.
func (h *Heap) setNextPrevAlloc(bp uintptr, alloc bool) {
	next := h.nextBlock(bp)
	if next == h.epilogue {
		w := h.getWord(h.epilogue)
		h.putWord(h.epilogue, pack(0, alloc, isAlloc(w)))
		return
	}

	h.setPrevAlloc(next, alloc)
}
