// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

// An anonymously mmap-ed implementation of Provider, grown in place
// with mremap(2). Grounded on cznic/memory's page-at-a-time mmap
// allocator, generalized from "one mapping per size class" to "one
// mapping, grown on demand" since the heap region here must stay a
// single contiguous address range.

package provider

import (
	"fmt"

	"golang.org/x/sys/unix"
)

var _ Provider = (*MmapProvider)(nil)

// MmapProvider is a Provider backed by a single anonymous, private
// mmap(2) mapping that is grown with mremap(2)/MREMAP_MAYMOVE as
// needed. Like SliceProvider, a relocation on growth never invalidates
// a caller's logical addresses because those are always offsets
// resolved against the current Bytes() slice, never raw pointers into
// the mapping.
type MmapProvider struct {
	data []byte
}

// NewMmapProvider returns an empty MmapProvider.
func NewMmapProvider() *MmapProvider { return &MmapProvider{} }

// Extend implements Provider.
func (p *MmapProvider) Extend(n int) (base uintptr, err error) {
	if n <= 0 {
		return 0, &ErrOutOfMemory{Requested: n}
	}

	base = baseAddr + uintptr(len(p.data))
	newLen := len(p.data) + n
	switch {
	case p.data == nil:
		b, err := unix.Mmap(-1, 0, newLen, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
		if err != nil {
			return 0, fmt.Errorf("provider: mmap: %w", err)
		}

		p.data = b
	default:
		b, err := unix.Mremap(p.data, newLen, unix.MREMAP_MAYMOVE)
		if err != nil {
			return 0, fmt.Errorf("provider: mremap: %w", err)
		}

		p.data = b
	}
	return base, nil
}

// Low implements Provider.
func (p *MmapProvider) Low() uintptr {
	if len(p.data) == 0 {
		return 0
	}

	return baseAddr
}

// High implements Provider.
func (p *MmapProvider) High() uintptr {
	if len(p.data) == 0 {
		return 0
	}

	return baseAddr + uintptr(len(p.data))
}

// Bytes implements Provider.
func (p *MmapProvider) Bytes() []byte { return p.data }

// Close unmaps the region. It's not necessary to Close before process
// exit, same caveat as cznic/memory.Allocator.Close.
func (p *MmapProvider) Close() error {
	if p.data == nil {
		return nil
	}

	err := unix.Munmap(p.data)
	p.data = nil
	return err
}
