// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// A memory-only implementation of Provider.

package provider

import "github.com/cznic/mathutil"

// baseAddr is the logical address of the first byte ever handed out by
// a SliceProvider. It is deliberately non-zero so that address 0 can
// keep doubling as both "uninitialized Provider" and the free-list
// null sentinel, mirroring how heap_base itself is never a valid free
// block address in the spec.
const baseAddr = 0x10000

var _ Provider = (*SliceProvider)(nil)

// SliceProvider is a growable-[]byte-backed Provider, the in-process
// analog of lldb.MemFiler. Unlike MemFiler it does not page its
// storage into fixed-size chunks: a Provider's "pointers" are never
// real machine addresses, only base-relative offsets recomputed from
// Bytes() on every access, so growing the underlying slice (which may
// relocate it) never invalidates anything a caller is holding onto.
type SliceProvider struct {
	buf []byte
}

// NewSliceProvider returns a new, empty SliceProvider.
func NewSliceProvider() *SliceProvider { return &SliceProvider{} }

// Extend implements Provider.
func (p *SliceProvider) Extend(n int) (base uintptr, err error) {
	if n <= 0 {
		return 0, &ErrOutOfMemory{Requested: n}
	}

	base = baseAddr + uintptr(len(p.buf))
	p.reserve(n)
	p.buf = p.buf[:len(p.buf)+n]
	return base, nil
}

// Low implements Provider.
func (p *SliceProvider) Low() uintptr {
	if len(p.buf) == 0 {
		return 0
	}

	return baseAddr
}

// High implements Provider.
func (p *SliceProvider) High() uintptr {
	if len(p.buf) == 0 {
		return 0
	}

	return baseAddr + uintptr(len(p.buf))
}

// Bytes implements Provider.
func (p *SliceProvider) Bytes() []byte { return p.buf }

// Len reports the current size of the region in bytes.
func (p *SliceProvider) Len() int { return len(p.buf) }

// reserve grows the backing array's capacity ahead of need, amortizing
// repeated small Extend calls the way MemFiler amortizes repeated
// small writes across a page.
func (p *SliceProvider) reserve(n int) {
	if cap(p.buf)-len(p.buf) >= n {
		return
	}

	want := mathutil.Max(cap(p.buf)*2, len(p.buf)+n)
	grown := make([]byte, len(p.buf), want)
	copy(grown, p.buf)
	p.buf = grown
}
