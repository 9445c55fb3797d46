// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

import "github.com/cznic/mathutil"

// Allocate returns the address of a block of at least n usable bytes,
// growing the heap if no free block is large enough. Allocate(0)
// returns a null (0) address with no error, mirroring C's
// implementation-defined-but-commonly-null malloc(0).
func (h *Heap) Allocate(n int) (uintptr, error) {
	if n == 0 {
		return 0, nil
	}
	if n < 0 {
		return 0, &ErrINVAL{Msg: "size must not be negative", Arg: n}
	}

	asize := payloadCapacity(n)

	bp, ok := h.findFit(asize)
	if !ok {
		grow := mathutil.Max(int(asize), h.opts.ChunkSize)
		var err error
		if bp, err = h.extendHeap(grow); err != nil {
			return 0, err
		}
	}

	h.freeListRemove(bp)
	h.place(bp, asize)

	h.stats.Allocs++
	h.stats.BytesInUse += int(h.blockSize(bp))
	h.stats.PeakInUse = mathutil.Max(h.stats.PeakInUse, h.stats.BytesInUse)
	return bp, nil
}

// Free returns the block at ptr, previously returned by Allocate or
// Reallocate, to the heap. Free(0) is a no-op. Freeing any other
// address this Heap did not hand out, or one already freed, returns
// ErrINVAL.
func (h *Heap) Free(ptr uintptr) error {
	if ptr == 0 {
		return nil
	}
	if err := h.free(ptr); err != nil {
		return err
	}

	if h.opts.VerifyOnFree {
		if _, err := h.CheckHeap(false); err != nil {
			return err
		}
	}
	return nil
}

// Reallocate resizes the block at ptr to hold at least n bytes,
// preserving its content up to the smaller of the old and new sizes,
// and returns the (possibly different) address of the resized block.
// A ptr of 0 behaves like Allocate(n); an n of 0 behaves like
// Free(ptr) and returns 0.
//
// Reallocate never resizes a block in place, growing or shrinking:
// it is always Allocate(n) + copy + Free(ptr), same as mm.c's naive
// mm_realloc. first-fit over the free lists already finds a shrunk
// block's own freed tail as a candidate the next time it's the best
// fit, so a dedicated in-place-shrink path earns its complexity only
// as a later optimization, not a correctness requirement.
func (h *Heap) Reallocate(ptr uintptr, n int) (uintptr, error) {
	if ptr == 0 {
		return h.Allocate(n)
	}
	if n == 0 {
		return 0, h.Free(ptr)
	}
	if err := h.checkLivePointer(ptr); err != nil {
		return 0, err
	}

	oldSize := h.blockSize(ptr)

	newPtr, err := h.Allocate(n)
	if err != nil {
		return 0, err
	}

	copySize := oldSize - wordSize
	if newUsable := h.blockSize(newPtr) - wordSize; newUsable < copySize {
		copySize = newUsable
	}
	buf := h.prov.Bytes()
	copy(buf[newPtr-h.base:newPtr-h.base+uintptr(copySize)], buf[ptr-h.base:ptr-h.base+uintptr(copySize)])

	if err := h.free(ptr); err != nil {
		return 0, err
	}

	h.stats.Reallocs++
	if h.opts.VerifyOnFree {
		if _, err := h.CheckHeap(false); err != nil {
			return 0, err
		}
	}
	return newPtr, nil
}

// Stats returns a snapshot of the heap's running counters.
func (h *Heap) Stats() Stats { return h.stats }
