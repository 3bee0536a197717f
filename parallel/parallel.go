// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package parallel computes the parallel-processing profile shared by the
// CTR DRBG and its dispatcher: how many goroutines to fan a generate() call
// across, and the block size that triggers fan-out in the first place.
//
// It is the Go analogue of CEX's ParallelOptions: a SIMD/core probe run once
// at construction, producing a small value object that downstream components
// query rather than recompute.
package parallel

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/cpu"

	"github.com/cex-go/cex/cexerr"
)

// SimdLevel identifies the widest SIMD instruction set this process can use
// to process multiple cipher blocks per call, and therefore how many
// consecutive counter blocks the DRBG stages per staggered batch.
type SimdLevel int

const (
	// SimdNone means no wide SIMD path is available; blocks are processed
	// one at a time.
	SimdNone SimdLevel = iota
	// SimdAVX corresponds to a 4-lane (128-bit x4) staggered batch.
	SimdAVX
	// SimdAVX2 corresponds to an 8-lane (256-bit x4) staggered batch.
	SimdAVX2
	// SimdAVX512 corresponds to a 16-lane (512-bit x4) staggered batch.
	SimdAVX512
)

// LaneCount returns the number of cipher blocks processed per staggered
// batch for this SIMD level: 16/8/4/1 for AVX-512/AVX2/AVX/none.
func (l SimdLevel) LaneCount() int {
	switch l {
	case SimdAVX512:
		return 16
	case SimdAVX2:
		return 8
	case SimdAVX:
		return 4
	default:
		return 1
	}
}

func (l SimdLevel) String() string {
	switch l {
	case SimdAVX512:
		return "AVX512"
	case SimdAVX2:
		return "AVX2"
	case SimdAVX:
		return "AVX"
	default:
		return "none"
	}
}

// detectSimdLevel probes the running CPU for the widest relevant SIMD
// extension. It only consults amd64 feature bits; other architectures report
// SimdNone, which is always correct (just not maximally fast).
func detectSimdLevel() SimdLevel {
	switch {
	case cpu.X86.HasAVX512F:
		return SimdAVX512
	case cpu.X86.HasAVX2:
		return SimdAVX2
	case cpu.X86.HasAVX:
		return SimdAVX
	default:
		return SimdNone
	}
}

// defDataCache is the per-degree share, in bytes, that calculate assigns
// to a zero ParallelBlockSize outside the first (auto) calculation; it
// matches CEX's DEF_DATACACHE fallback. The L1 size assumed by detect is a
// separate 32 KiB value.
const defDataCache = 16384

// maxPrlAlloc is an advisory (not enforced) upper bound on ParallelBlockSize.
const maxPrlAlloc = defDataCache * 2000

// Options is the computed parallel-processing profile for one algorithm
// instance. It is immutable after Calculate except for the fields mutated
// through SetMaxDegree/Recalculate.
type Options struct {
	blockSize           int
	simdMultiply        bool
	splitChannel        bool
	l1DataCacheReserved int
	l1DataCacheTotal    int
	processorCount      int
	simdLevel           SimdLevel
	overrideMaxDegree   bool
	autoInit            bool

	isParallel         bool
	parallelBlockSize  int
	parallelMinSize    int
	parallelMaxDegree  int
}

// New computes a parallel profile for an algorithm whose natural processing
// unit is blockSize bytes. simdMultiply should be true when the calling
// algorithm can pipeline simdLevel.LaneCount() blocks per call (as the CTR
// DRBG does); reservedCache is the number of L1 bytes the caller's own
// working state needs set aside; splitChannel is true for dual input/output
// channel algorithms, which halves the cache budget. maxDegree, if non-zero,
// is used as the parallel degree in place of the probed processor count,
// but is capped at that count.
//
// New fails if blockSize is zero or odd.
func New(blockSize int, simdMultiply bool, reservedCache int, splitChannel bool, maxDegree int) (*Options, error) {
	if blockSize == 0 || blockSize%2 != 0 {
		return nil, fmt.Errorf("%w: parallel: BlockSize must be a positive even number", cexerr.ErrIllegalOperation)
	}

	o := &Options{
		blockSize:           blockSize,
		simdMultiply:        simdMultiply,
		splitChannel:        splitChannel,
		l1DataCacheReserved: reservedCache,
		parallelMaxDegree:   maxDegree,
		autoInit:            true,
	}
	o.detect()
	o.calculate()
	return o, nil
}

// detect populates the processor count and SIMD level from the runtime.
func (o *Options) detect() {
	o.processorCount = runtime.NumCPU()
	if o.processorCount > 1 && o.processorCount%2 != 0 {
		o.processorCount--
	}
	if o.processorCount < 1 {
		o.processorCount = 1
	}

	o.simdLevel = detectSimdLevel()
	// assume a conservative 32KiB L1 data cache when unknown; Go offers no
	// portable cache-size query, unlike CEX's CpuDetect.
	o.l1DataCacheTotal = 32 * 1024
}

// calculate derives parallelMinSize and parallelBlockSize from the current
// processor count, block size, and SIMD profile. It mirrors
// ParallelOptions::Calculate, including the "first call is auto" distinction:
// the very first Calculate (from New) derives ParallelBlockSize from the L1
// cache budget; subsequent calls (via Recalculate) respect a user value.
func (o *Options) calculate() {
	if (o.parallelMaxDegree > o.processorCount && !o.overrideMaxDegree) || o.parallelMaxDegree == 0 {
		o.parallelMaxDegree = o.processorCount
	}

	o.parallelMinSize = o.parallelMaxDegree * o.blockSize
	if o.simdMultiply {
		o.parallelMinSize *= o.simdLevel.LaneCount()
	}

	if o.autoInit {
		size := o.l1DataCacheTotal - o.l1DataCacheReserved
		if size < 0 {
			size = 0
		}
		if o.splitChannel {
			size /= 2
		}
		o.parallelBlockSize = size
		o.isParallel = o.processorCount > 1
		o.autoInit = false
	} else if o.isParallel && o.parallelBlockSize == 0 {
		o.parallelBlockSize = defDataCache * o.parallelMaxDegree
	}

	// parallelBlockSize is never zero: a cache budget smaller than one
	// worker's minimum share (large degree x wide SIMD lane count) would
	// otherwise round down to 0 at the next step and silently disable
	// fan-out forever.
	if o.parallelBlockSize < o.parallelMinSize {
		o.parallelBlockSize = o.parallelMinSize
	}

	if o.parallelMinSize != 0 {
		o.parallelBlockSize -= o.parallelBlockSize % o.parallelMinSize
	}
}

// Recalculate re-derives ParallelBlockSize and ParallelMaxDegree after a
// caller changes parallel, blockSize, or maxDegree. A zero blockSize or
// maxDegree leaves that field unchanged.
func (o *Options) Recalculate(isParallel bool, blockSize int, maxDegree int) {
	o.isParallel = isParallel && o.processorCount > 1
	if blockSize != 0 {
		o.parallelBlockSize = blockSize
	}
	if maxDegree != 0 {
		o.parallelMaxDegree = maxDegree
	}
	o.calculate()
}

// SetMaxDegree overrides the maximum parallel degree. n must be even,
// greater than zero, no larger than the detected processor count, and
// recalculates the dependent sizes immediately.
func (o *Options) SetMaxDegree(n int) error {
	if n == 0 || n%2 != 0 {
		return fmt.Errorf("%w: parallel: MaxDegree must be a positive even number", cexerr.ErrIllegalOperation)
	}
	if n > o.processorCount {
		return fmt.Errorf("%w: parallel: MaxDegree must not exceed the processor count", cexerr.ErrIllegalOperation)
	}

	o.overrideMaxDegree = true
	o.parallelMaxDegree = n
	o.calculate()
	return nil
}

// IsParallel reports whether this profile currently recommends fan-out.
func (o *Options) IsParallel() bool { return o.isParallel }

// SetParallel enables or disables fan-out without touching sizes, then
// recalculates (sizes may still change because IsParallel gates whether a
// zero ParallelBlockSize gets the user-default treatment).
func (o *Options) SetParallel(v bool) {
	o.isParallel = v && o.processorCount > 1
	o.calculate()
}

// BlockSize returns the algorithm's natural block size in bytes.
func (o *Options) BlockSize() int { return o.blockSize }

// ParallelBlockSize returns the input size, in bytes, that triggers
// fan-out. It is always a whole multiple of ParallelMinSize.
func (o *Options) ParallelBlockSize() int { return o.parallelBlockSize }

// ParallelMinSize returns the smallest legal ParallelBlockSize: MaxDegree *
// BlockSize * (simd lane count, if SimdMultiply).
func (o *Options) ParallelMinSize() int { return o.parallelMinSize }

// ParallelMaxDegree returns the number of goroutines fanned out across.
func (o *Options) ParallelMaxDegree() int { return o.parallelMaxDegree }

// ParallelMaxSize returns the advisory (unenforced) maximum input size for
// parallel processing.
func (o *Options) ParallelMaxSize() int { return maxPrlAlloc }

// ProcessorCount returns the detected, even-rounded processor count used to
// size MaxDegree by default.
func (o *Options) ProcessorCount() int { return o.processorCount }

// SimdLevel returns the detected SIMD profile.
func (o *Options) SimdLevel() SimdLevel { return o.simdLevel }
