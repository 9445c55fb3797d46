// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package alloc implements a general-purpose dynamic memory allocator
// over a linearly growable heap region supplied by a provider.Provider.
//
// The design follows the classic segregated-fits scheme: blocks are
// bucketed into size classes, each class threaded as a doubly linked,
// LIFO free list; placement is first-fit starting at the request's own
// class; freed blocks are immediately coalesced with free neighbours;
// and every in-heap "pointer" — block header size fields aside — is a
// 32-bit compressed address rather than a full uintptr, the same trick
// lldb.Filer's handle space and cznic/memory's chunk headers both play
// to keep metadata small relative to payload.
//
// Block layout
//
// An allocated block is
//
//	[ header(4) | payload ... ]
//
// and a free block is
//
//	[ header(4) | succ(4) | pred(4) | ... | footer(4) ]
//
// Header and footer both pack the block's total size (a multiple of 8)
// together with two flag bits: whether the block itself is allocated,
// and whether the block immediately before it is allocated. Carrying
// the predecessor's allocatedness in every header is what lets an
// allocated block drop its footer — there is no other way to tell,
// when walking forward, whether the word preceding a block is payload
// or a footer. Free blocks still need a footer: when a block's
// prev-alloc bit says its predecessor is free, coalescing reads that
// predecessor's footer to find where it starts.
package alloc
