// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// An abstraction of a linearly growable heap region, playing the role
// of the sbrk-style heap provider consumed by package alloc.

package provider

import "fmt"

// ErrOutOfMemory is returned by Extend when the backing store cannot
// grow any further.
type ErrOutOfMemory struct {
	Requested int
}

func (e *ErrOutOfMemory) Error() string {
	return fmt.Sprintf("provider: out of memory extending by %d bytes", e.Requested)
}

// A Provider is a []byte-like model of a monotonically growing heap
// region. In contrast to a file, a Provider is never shrunk and is not
// addressed by an independent offset parameter: every access goes
// through the byte slice returned by Bytes, sized to High()-Low().
//
// A Provider is not safe for concurrent access; it's designed for
// consumption by a single package alloc.Heap, same as a Filer is
// designed for consumption by one lldb.Allocator.
type Provider interface {
	// Extend grows the region by n bytes and returns the address of
	// the first newly appended byte. n must be > 0. Returns
	// ErrOutOfMemory if the backing store refuses to grow; in that
	// case the region is left unchanged.
	Extend(n int) (base uintptr, err error)

	// Low returns the address of the first byte of the region, or 0
	// if the region is still empty.
	Low() uintptr

	// High returns the address one past the last byte of the region,
	// or 0 if the region is still empty.
	High() uintptr

	// Bytes returns the entire region as a byte slice backed by the
	// provider's own storage: writes through the slice are writes to
	// the heap.
	Bytes() []byte
}
