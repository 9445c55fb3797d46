// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

// offset is a compressed in-heap "pointer": the low 32 bits of a
// logical address, with 0 reserved for null. This only loses
// information if a heap ever grows past 4GiB of address space, which
// extendHeap refuses to do (see maxHeapSize); every live address fits.
//
// Compression pays off in exactly the two words every free block
// dedicates to list links (succ and pred): at 4 bytes apiece instead
// of a full uintptr, a free block's minimum size stays 16 bytes
// instead of growing with the host's pointer width.
type offset uint32

func toOffset(addr uintptr) offset { return offset(addr) }
func (o offset) addr() uintptr     { return uintptr(o) }
func (o offset) isNull() bool      { return o == 0 }

// succ, pred read and write the free list links stored in a free
// block's payload: succ at bp, pred at bp+wordSize.
func (h *Heap) succ(bp uintptr) offset { return offset(h.getWord(bp)) }
func (h *Heap) pred(bp uintptr) offset { return offset(h.getWord(bp + wordSize)) }

func (h *Heap) setSucc(bp uintptr, o offset) { h.putWord(bp, uint32(o)) }
func (h *Heap) setPred(bp uintptr, o offset) { h.putWord(bp+wordSize, uint32(o)) }
