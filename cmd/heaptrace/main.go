// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command heaptrace runs a seeded random allocate/realloc/free
// workload against the allocator and prints a short occupancy report.
// It's an illustrative demo, not a conformance harness: it makes no
// pass/fail judgment, it just shows the allocator staying internally
// consistent (via a CheckHeap pass at the end) across a representative
// trace, the way lldb/lab/1/main.go exercises lldb.Allocator.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/segheap/segheap/alloc"
	"github.com/segheap/segheap/provider"
)

func main() {
	var (
		ops     = flag.Int("ops", 20000, "number of allocate/realloc/free operations to perform")
		seed    = flag.Int64("seed", 1, "PRNG seed")
		maxLen  = flag.Int("max", 4096, "maximum request size in bytes")
		verbose = flag.Bool("verbose", false, "dump a printblock-style trace of the final heap check to stderr")
	)
	flag.Parse()

	if err := run(*ops, *seed, *maxLen, *verbose); err != nil {
		log.Fatal(err)
	}
}

func run(ops int, seed int64, maxLen int, verbose bool) error {
	h, err := alloc.New(provider.NewSliceProvider(), alloc.Options{})
	if err != nil {
		return fmt.Errorf("heaptrace: %w", err)
	}

	rnd := rand.New(rand.NewSource(seed))
	live := make([]uintptr, 0, ops)

	for i := 0; i < ops; i++ {
		switch {
		case len(live) == 0 || rnd.Intn(3) != 0:
			p, err := h.Allocate(1 + rnd.Intn(maxLen))
			if err != nil {
				return fmt.Errorf("heaptrace: allocate: %w", err)
			}
			live = append(live, p)

		case rnd.Intn(2) == 0:
			idx := rnd.Intn(len(live))
			p, err := h.Reallocate(live[idx], 1+rnd.Intn(maxLen))
			if err != nil {
				return fmt.Errorf("heaptrace: reallocate: %w", err)
			}
			live[idx] = p

		default:
			idx := rnd.Intn(len(live))
			if err := h.Free(live[idx]); err != nil {
				return fmt.Errorf("heaptrace: free: %w", err)
			}
			live[idx] = live[len(live)-1]
			live = live[:len(live)-1]
		}
	}

	rep, err := h.CheckHeap(verbose)
	if err != nil {
		return fmt.Errorf("heaptrace: final heap check: %w", err)
	}

	stats := h.Stats()
	fmt.Fprintf(os.Stdout, "ops=%d allocs=%d frees=%d reallocs=%d extensions=%d\n",
		ops, stats.Allocs, stats.Frees, stats.Reallocs, stats.Extensions)
	fmt.Fprintf(os.Stdout, "heap=%d bytes, in-use=%d bytes, peak=%d bytes\n",
		stats.HeapBytes, stats.BytesInUse, stats.PeakInUse)
	fmt.Fprintf(os.Stdout, "check: %d blocks, %d free (%d bytes), %d used bytes\n",
		rep.Blocks, rep.FreeBlocks, rep.FreeBytes, rep.UsedBytes)
	return nil
}
