// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

// Options configures a Heap at construction time, following the same
// zero-value-is-valid, check()-at-the-door shape as dbm.Options.
type Options struct {
	// ChunkSize is the minimum number of bytes requested from the
	// Provider on each heap extension. Must be a multiple of
	// alignment. Zero means defaultChunkSize.
	ChunkSize int

	// VerifyOnFree, when true, runs CheckHeap after every Free and
	// Realloc. It is orders of magnitude slower than normal operation
	// and is meant for tests and debugging, not production use.
	VerifyOnFree bool
}

const defaultChunkSize = 256

func (o *Options) check() error {
	if o.ChunkSize == 0 {
		o.ChunkSize = defaultChunkSize
		return nil
	}

	if o.ChunkSize < 0 || o.ChunkSize%alignment != 0 {
		return &ErrINVAL{Msg: "ChunkSize must be a positive multiple of 8", Arg: o.ChunkSize}
	}
	return nil
}
