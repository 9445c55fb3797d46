// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

const (
	numClasses = 20

	// Classes 0..exactClasses-1 hold exactly one block size each,
	// 16, 24, ..., 16+8*(exactClasses-1). Small requests dominate in
	// practice, so giving them their own list avoids first-fit ever
	// having to walk past larger, unrelated free blocks.
	exactClasses = 10
	exactMax     = 16 + 8*(exactClasses-1)

	// Classes exactClasses..numClasses-2 double their upper bound
	// starting from exactMax+8; the last class, numClasses-1, is the
	// catch-all for anything past the last doubling bound.
	doublingStart = exactMax + 8
)

// sizeClass returns the free list a block of the given size is
// threaded onto. Both a request looking for a fit and a freed block
// looking for a home use the same function, so a class always holds
// blocks that a request of its own representative size would also
// search first.
func sizeClass(size uint32) int {
	if size <= exactMax {
		idx := (int(size) - 16) / 8
		if idx < 0 {
			idx = 0
		}
		return idx
	}

	threshold := uint32(doublingStart)
	for c := exactClasses; c < numClasses-1; c++ {
		if size <= threshold {
			return c
		}
		threshold *= 2
	}
	return numClasses - 1
}

// freeListInsert threads bp onto the head of its size class's free
// list. Insertion is always LIFO: the most recently freed block of a
// class is the first one first-fit will see, which is cheap to
// maintain and, for workloads with locality, frequently the right
// block to reuse anyway.
func (h *Heap) freeListInsert(bp uintptr) {
	c := sizeClass(h.blockSize(bp))
	head := h.heads[c]

	h.setPred(bp, 0)
	h.setSucc(bp, head)
	if !head.isNull() {
		h.setPred(head.addr(), toOffset(bp))
	}
	h.heads[c] = toOffset(bp)
}

// freeListRemove unthreads bp from whichever size class it is
// currently on.
func (h *Heap) freeListRemove(bp uintptr) {
	c := sizeClass(h.blockSize(bp))
	pred, succ := h.pred(bp), h.succ(bp)

	if pred.isNull() {
		h.heads[c] = succ
	} else {
		h.setSucc(pred.addr(), succ)
	}
	if !succ.isNull() {
		h.setPred(succ.addr(), pred)
	}
}

// findFit returns the payload address of the first free block able to
// hold size bytes, starting the search at size's own class and
// spilling into successively larger classes — first-fit within a
// class, best-fit-ish across classes, same trade-off mm.c's segregated
// lists make.
func (h *Heap) findFit(size uint32) (uintptr, bool) {
	for c := sizeClass(size); c < numClasses; c++ {
		for o := h.heads[c]; !o.isNull(); o = h.succ(o.addr()) {
			bp := o.addr()
			if h.blockSize(bp) >= size {
				return bp, true
			}
		}
	}
	return 0, false
}
