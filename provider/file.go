// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// An os.File backed implementation of Provider, for exercising the
// allocator against storage that isn't just process memory.

package provider

import (
	"os"

	"github.com/cznic/fileutil"
	"github.com/cznic/mathutil"
)

var _ Provider = (*FileProvider)(nil)

// FileProvider is an os.File-backed Provider, the in-process analog of
// lldb.SimpleFileFiler. It keeps the whole region in an in-memory
// []byte and writes it to the file with WriteAt on Sync, rather than
// using mmap, so it behaves identically on every platform fileutil
// supports.
type FileProvider struct {
	f    *os.File
	size int64
	buf  []byte
}

// NewFileProvider returns a FileProvider backed by f. Any existing
// content of f is discarded (f is truncated to zero length), so a
// FileProvider always starts a fresh, empty region.
func NewFileProvider(f *os.File) (*FileProvider, error) {
	if err := f.Truncate(0); err != nil {
		return nil, err
	}

	return &FileProvider{f: f}, nil
}

// Extend implements Provider.
func (p *FileProvider) Extend(n int) (base uintptr, err error) {
	if n <= 0 {
		return 0, &ErrOutOfMemory{Requested: n}
	}

	base = baseAddr + uintptr(p.size)
	newSize := p.size + int64(n)
	if err = p.f.Truncate(newSize); err != nil {
		return 0, err
	}

	p.size = mathutil.MaxInt64(p.size, newSize)
	p.buf = append(p.buf, make([]byte, n)...)
	return base, nil
}

// Low implements Provider.
func (p *FileProvider) Low() uintptr {
	if p.size == 0 {
		return 0
	}

	return baseAddr
}

// High implements Provider.
func (p *FileProvider) High() uintptr {
	if p.size == 0 {
		return 0
	}

	return baseAddr + uintptr(p.size)
}

// Bytes implements Provider. FileProvider keeps an in-memory mirror
// of the file's content; every Extend appends to it and
// every write the caller performs through the returned slice must be
// flushed explicitly with Sync, matching lldb.SimpleFileFiler's stance
// that it "does not really implement" crash-safety on its own.
func (p *FileProvider) Bytes() []byte { return p.buf }

// Sync persists the in-memory mirror to the backing file.
func (p *FileProvider) Sync() error {
	if _, err := p.f.WriteAt(p.buf, 0); err != nil {
		return err
	}

	return p.f.Sync()
}

// Reclaim hole-punches n bytes of the file starting at off, for callers
// that know that range holds only the tail of a coalesced free block
// and want the filesystem to stop reserving space for it. The
// allocator itself never calls this — spec.md's no-shrink non-goal
// means the logical heap size (and thus block arithmetic) is
// unaffected; only the file's physical storage footprint shrinks.
func (p *FileProvider) Reclaim(off, n int64) error {
	return fileutil.PunchHole(p.f, off, n)
}

// Close releases the backing file.
func (p *FileProvider) Close() error { return p.f.Close() }
