// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package drbg

import (
	"encoding/binary"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cex-go/cex/parallel"
)

// GenerateParallel fans the output buffer out across up to degree worker
// goroutines, each given its own
// cloned counter positioned at the block offset it owns, then
// deterministically reconciles the shared counter once every worker
// completes. The result is byte-for-byte identical to a serial Generate
// call of the same length, regardless of how many workers ran it.
//
// This is the Go analogue of CEX's ParallelUtils::ParallelFor — a bounded
// goroutine fan-out with sync.WaitGroup, not a generic worker-pool
// library.
func (g *BCG) GenerateParallel(out []byte, degree int) error {
	if g.poisoned.Load() {
		return ErrPoisoned
	}
	st := g.state.Load()
	if st == nil {
		return ErrNotInitialized
	}
	if degree < 1 {
		degree = 1
	}
	if len(out) == 0 {
		return nil
	}

	bs := st.block.BlockSize()
	totalBlocks := (len(out) + bs - 1) / bs
	if degree > totalBlocks {
		degree = totalBlocks
	}

	g.vMu.Lock()
	base := g.v
	g.vMu.Unlock()

	blocksPerWorker := totalBlocks / degree
	remainder := totalBlocks % degree

	var wg sync.WaitGroup
	errs := make([]error, degree)

	blockOffset := 0
	byteOffset := 0
	for w := 0; w < degree; w++ {
		blocks := blocksPerWorker
		if w < remainder {
			blocks++
		}
		if blocks == 0 {
			continue
		}

		byteLen := blocks * bs
		if byteOffset+byteLen > len(out) {
			byteLen = len(out) - byteOffset
		}
		chunk := out[byteOffset : byteOffset+byteLen]

		counter := base
		advanceBy(&counter, blockOffset)

		wg.Add(1)
		go func(idx int, chunk []byte, counter [16]byte) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					g.Poison()
					errs[idx] = fmt.Errorf("drbg: worker panic: %v", r)
				}
			}()
			fillBlocks(chunk, st.block, &counter)
		}(w, chunk, counter)

		blockOffset += blocks
		byteOffset += byteLen
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	g.vMu.Lock()
	advanceBy(&g.v, totalBlocks)
	g.vMu.Unlock()
	atomic.AddUint64(&g.usage, uint64(len(out)))
	return nil
}

// GenerateAuto fans out through GenerateParallel using opts' SIMD/core
// probe to pick the worker count, falling back to a serial Generate when
// out is smaller than opts' fan-out threshold.
func (g *BCG) GenerateAuto(out []byte, opts *parallel.Options) error {
	if !opts.IsParallel() || len(out) < opts.ParallelBlockSize() {
		return g.Generate(out)
	}
	return g.GenerateParallel(out, opts.ParallelMaxDegree())
}

// advanceBy adds n to the counter's low-8-byte ripple-carry segment in a
// single step, equivalent to calling incV n times but O(1).
func advanceBy(v *[16]byte, n int) {
	cur := binary.BigEndian.Uint64(v[8:16])
	cur += uint64(n)
	binary.BigEndian.PutUint64(v[8:16], cur)
}
