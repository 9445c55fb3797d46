// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

import (
	"github.com/cznic/mathutil"

	"github.com/segheap/segheap/provider"
)

// maxHeapSize bounds how large a heap this allocator will grow to: an
// offset is 32 bits, so no live address may exceed that range.
const maxHeapSize = 1<<32 - 1

// Heap is a segregated-fits allocator operating over a Provider's
// linearly growable region. It is not safe for concurrent use; callers
// needing that must serialize their own access, the same contract
// lldb.Allocator places on its Filer.
type Heap struct {
	prov provider.Provider
	opts Options

	base     uintptr // prov.Low(), fixed once the heap is initialized
	epilogue uintptr // address of the current epilogue header

	heads [numClasses]offset

	stats Stats
}

// Stats accumulates running counters about a Heap's lifetime, useful
// for cmd/heaptrace style reporting and tests.
type Stats struct {
	Allocs      int
	Frees       int
	Reallocs    int
	Extensions  int
	BytesInUse  int
	HeapBytes   int
	PeakInUse   int
}

// New creates a Heap over prov, laying down the initial prologue and
// epilogue sentinels and one chunk's worth of free space. prov must be
// freshly constructed (Low() == 0, nothing extended yet).
func New(prov provider.Provider, opts Options) (*Heap, error) {
	if prov.Low() != 0 || prov.High() != 0 {
		return nil, &ErrINVAL{Msg: "provider is not empty"}
	}

	if err := opts.check(); err != nil {
		return nil, err
	}

	h := &Heap{prov: prov, opts: opts}

	// Padding(4) + prologue header+footer(8) + epilogue header(4).
	base, err := prov.Extend(4 + dsize + wordSize)
	if err != nil {
		return nil, err
	}

	h.base = base
	prologueHdr := base + wordSize
	h.putWord(prologueHdr, pack(dsize, true, true))
	h.putWord(prologueHdr+wordSize, pack(dsize, true, true))
	h.epilogue = prologueHdr + dsize
	h.putWord(h.epilogue, pack(0, true, true))
	h.stats.HeapBytes = 4 + dsize + wordSize

	if _, err := h.extendHeap(h.opts.ChunkSize); err != nil {
		return nil, err
	}
	return h, nil
}

// extendHeap grows the backing Provider by at least n bytes (rounded
// up to alignment and to at least minBlockSize), folds the grown
// region into one new free block in place of the old epilogue, merges
// it with a free predecessor if there is one, and threads the result
// onto a free list. It returns the payload address of that block.
func (h *Heap) extendHeap(n int) (uintptr, error) {
	size := roundUp(n)
	if size < minBlockSize {
		size = minBlockSize
	}

	if uint64(h.base)+uint64(h.stats.HeapBytes)+uint64(size) > maxHeapSize {
		return 0, &ErrOutOfMemory{Requested: n}
	}

	oldEpilogue := h.epilogue
	prevAlloc := isPrevAlloc(h.getWord(oldEpilogue))

	// The new block's header reuses the 4 bytes that used to hold the
	// epilogue, exactly as the epilogue's own header would reuse a
	// predecessor's tail in an ordinary coalesce: the provider's newly
	// appended bytes start right where that header ends.
	bp, err := h.prov.Extend(size)
	if err != nil {
		return 0, err
	}
	if bp != oldEpilogue+wordSize {
		return 0, &ErrILSEQ{Off: bp, Msg: "provider did not extend contiguously"}
	}

	h.setHeader(bp, uint32(size), prevAlloc, false)

	h.epilogue = bp + uintptr(size) - wordSize
	h.putWord(h.epilogue, pack(0, false, true))

	h.stats.Extensions++
	h.stats.HeapBytes += size

	bp = h.coalesce(bp)
	h.freeListInsert(bp)
	return bp, nil
}

// roundUp rounds n up to the next multiple of alignment.
func roundUp(n int) int {
	return (n + alignment - 1) &^ (alignment - 1)
}

// payloadCapacity returns the block size needed to satisfy a request
// for n bytes of payload: header overhead plus alignment, floored at
// minBlockSize.
func payloadCapacity(n int) uint32 {
	need := roundUp(n + wordSize)
	return uint32(mathutil.Max(need, minBlockSize))
}

// ErrOutOfMemory mirrors provider.ErrOutOfMemory at the alloc level,
// returned when growing the heap would take an address past
// maxHeapSize. When the Provider itself refuses to grow, its own error
// is returned unchanged.
type ErrOutOfMemory struct {
	Requested int
}

func (e *ErrOutOfMemory) Error() string {
	return (&provider.ErrOutOfMemory{Requested: e.Requested}).Error()
}
