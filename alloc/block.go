// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

import "encoding/binary"

const (
	wordSize  = 4 // header, footer, and a free-list link all occupy one word
	dsize     = 8 // double word: the alignment granularity and the header+footer overhead
	alignment = dsize

	// minBlockSize is the smallest block the allocator ever hands out
	// or threads onto a free list: header + succ + pred + footer.
	minBlockSize = 4 * wordSize

	allocBit     = 1 << 0
	prevAllocBit = 1 << 1
	sizeMask     = ^uint32(0x7)
)

// pack combines a block size with its own alloc bit and its
// predecessor's alloc bit into a header or footer word.
func pack(size uint32, prevAlloc, alloc bool) uint32 {
	w := size
	if prevAlloc {
		w |= prevAllocBit
	}
	if alloc {
		w |= allocBit
	}
	return w
}

func sizeOf(word uint32) uint32    { return word & sizeMask }
func isAlloc(word uint32) bool     { return word&allocBit != 0 }
func isPrevAlloc(word uint32) bool { return word&prevAllocBit != 0 }

// getWord and putWord read/write a header-sized word at a logical
// address. They always re-fetch the provider's backing slice rather
// than caching one, since a Provider may relocate its storage on
// Extend.
func (h *Heap) getWord(addr uintptr) uint32 {
	b := h.prov.Bytes()
	off := addr - h.base
	return binary.LittleEndian.Uint32(b[off : off+wordSize])
}

func (h *Heap) putWord(addr uintptr, w uint32) {
	b := h.prov.Bytes()
	off := addr - h.base
	binary.LittleEndian.PutUint32(b[off:off+wordSize], w)
}

// hdrp, ftrp: header and footer addresses of the block whose payload
// starts at bp.
func hdrp(bp uintptr) uintptr { return bp - wordSize }
func (h *Heap) ftrp(bp uintptr) uintptr {
	return bp + uintptr(h.blockSize(bp)) - dsize
}

func (h *Heap) blockSize(bp uintptr) uint32    { return sizeOf(h.getWord(hdrp(bp))) }
func (h *Heap) blockAlloc(bp uintptr) bool     { return isAlloc(h.getWord(hdrp(bp))) }
func (h *Heap) blockPrevAlloc(bp uintptr) bool { return isPrevAlloc(h.getWord(hdrp(bp))) }

// setHeader writes the header, and the footer too when the block is
// free; an allocated block never carries a footer.
func (h *Heap) setHeader(bp uintptr, size uint32, prevAlloc, alloc bool) {
	w := pack(size, prevAlloc, alloc)
	h.putWord(hdrp(bp), w)
	if !alloc {
		h.putWord(bp+uintptr(size)-dsize, w)
	}
}

// setPrevAlloc flips only the predecessor-alloc bit of bp's header
// (and footer, if bp is free), leaving bp's own size and alloc bit
// untouched. Used when a neighbour's allocatedness changes without bp
// itself moving or changing size.
func (h *Heap) setPrevAlloc(bp uintptr, prevAlloc bool) {
	w := h.getWord(hdrp(bp))
	size, alloc := sizeOf(w), isAlloc(w)
	h.setHeader(bp, size, prevAlloc, alloc)
}

// nextBlock returns the payload address of the block physically
// following bp.
func (h *Heap) nextBlock(bp uintptr) uintptr {
	return bp + uintptr(h.blockSize(bp))
}

// prevBlock returns the payload address of the block physically
// preceding bp. Only valid when that block is free, i.e. when
// !blockPrevAlloc(bp): an allocated predecessor has no footer to read
// the size from.
func (h *Heap) prevBlock(bp uintptr) uintptr {
	prevFooter := h.getWord(bp - dsize)
	return bp - uintptr(sizeOf(prevFooter))
}
