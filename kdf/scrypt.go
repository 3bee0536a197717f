// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package kdf

import (
	"encoding/binary"
	"sync"

	"github.com/cex-go/cex/digest"
)

// ScryptParams bundles SCRYPT's CPU/memory cost and parallelism. BlockMix
// width r is fixed at 8 in this core.
type ScryptParams struct {
	// N is the CPU/memory cost, a power of two, N >= 1024.
	N int
	// P is the parallelism (number of independent ROMix lanes).
	P int
}

const scryptBlockMixR = 8

// Scrypt implements RFC 7914: a PBKDF2 prelude splits the
// password into P lanes, each lane runs ROMix(Salsa20/8) independently (in
// parallel, up to P workers), and a PBKDF2 postlude compresses the mixed
// block into the derived key.
type Scrypt struct {
	newHash func() digest.Hash
}

// NewScrypt constructs a Scrypt instance over the digest produced by
// newHash (HMAC-SHA256 per RFC 7914, but left pluggable as the rest of this
// suite is).
func NewScrypt(newHash func() digest.Hash) *Scrypt {
	return &Scrypt{newHash: newHash}
}

// Derive computes the dkLen-byte derived key for password/salt under params.
func (s *Scrypt) Derive(password, salt []byte, params ScryptParams, dkLen int) ([]byte, error) {
	if params.N <= 1 || params.N&(params.N-1) != 0 || params.N < 1024 {
		return nil, wrap(ErrIllegalParam, "scrypt: N must be a power of two >= 1024")
	}
	if params.P == 0 {
		return nil, wrap(ErrIllegalParam, "scrypt: P must be non-zero")
	}
	const maxBlocks = 1<<32 - 1
	hashSize := s.newHash().DigestSize()
	if (dkLen+hashSize-1)/hashSize > maxBlocks {
		return nil, wrap(ErrMaxExceeded, "scrypt: requested length exceeds (2^32-1) hash blocks")
	}

	r := scryptBlockMixR
	laneLen := 128 * r // bytes per lane

	prelude := NewPBKDF2(s.newHash)
	if err := prelude.Initialize(password, salt, 1); err != nil {
		return nil, err
	}
	b := make([]byte, params.P*laneLen)
	if err := prelude.Generate(b); err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	wg.Add(params.P)
	for i := 0; i < params.P; i++ {
		lane := b[i*laneLen : (i+1)*laneLen]
		go func(lane []byte) {
			defer wg.Done()
			romix(lane, params.N, r)
		}(lane)
	}
	wg.Wait()

	postlude := NewPBKDF2(s.newHash)
	if err := postlude.Initialize(password, b, 1); err != nil {
		return nil, err
	}
	dk := make([]byte, dkLen)
	if err := postlude.Generate(dk); err != nil {
		return nil, err
	}
	return dk, nil
}

// romix runs SCRYPT's sequential-memory-hard mixing in place over a single
// lane: V_j = X (saved), X = BlockMix(X) for N rounds, then N more rounds of
// X = BlockMix(X XOR V[X[-16] mod N]).
func romix(block []byte, n, r int) {
	laneLen := 128 * r
	x := make([]byte, laneLen)
	copy(x, block)

	v := make([][]byte, n)
	t := make([]byte, laneLen)

	for i := 0; i < n; i++ {
		v[i] = append([]byte(nil), x...)
		blockMix(x, t, r)
	}

	for i := 0; i < n; i++ {
		j := int(binary.LittleEndian.Uint32(x[laneLen-64:laneLen-60])) & (n - 1)
		for k := range x {
			x[k] ^= v[j][k]
		}
		blockMix(x, t, r)
	}

	copy(block, x)
}

// blockMix implements SCRYPT's BlockMix: alternates Salsa20/8 calls across
// the 2r 64-byte sub-blocks of x, ping-ponging the running state through the
// y buffer before de-interleaving back into x (even indices first, then
// odd, per RFC 7914 §3).
func blockMix(x, scratch []byte, r int) {
	var xBlock [64]byte
	copy(xBlock[:], x[len(x)-64:])

	y := scratch[:len(x)]
	var tmp [64]byte

	for i := 0; i < 2*r; i++ {
		for k := range tmp {
			tmp[k] = xBlock[k] ^ x[i*64+k]
		}
		salsa208(&tmp)
		copy(xBlock[:], tmp[:])

		dst := i / 2
		if i%2 != 0 {
			dst = r + i/2
		}
		copy(y[dst*64:dst*64+64], xBlock[:])
	}

	copy(x, y)
}

// salsa208 applies the Salsa20/8 core permutation (8 rounds = 4 double
// rounds) in place, treating b as 16 little-endian uint32 words. This is the
// narrow primitive golang.org/x/crypto/salsa20/salsa does not expose (its
// exported Core is hardcoded to 20 rounds), so it is implemented directly
// per RFC 7914 §3's reference definition.
func salsa208(b *[64]byte) {
	var x [16]uint32
	for i := range x {
		x[i] = binary.LittleEndian.Uint32(b[i*4:])
	}

	orig := x

	// Reference Salsa20 core (djb): four iterations of a column round
	// followed by a row round give the eight rounds Salsa20/8 needs.
	for i := 0; i < 4; i++ {
		x[4] ^= rotl32(x[0]+x[12], 7)
		x[8] ^= rotl32(x[4]+x[0], 9)
		x[12] ^= rotl32(x[8]+x[4], 13)
		x[0] ^= rotl32(x[12]+x[8], 18)

		x[9] ^= rotl32(x[5]+x[1], 7)
		x[13] ^= rotl32(x[9]+x[5], 9)
		x[1] ^= rotl32(x[13]+x[9], 13)
		x[5] ^= rotl32(x[1]+x[13], 18)

		x[14] ^= rotl32(x[10]+x[6], 7)
		x[2] ^= rotl32(x[14]+x[10], 9)
		x[6] ^= rotl32(x[2]+x[14], 13)
		x[10] ^= rotl32(x[6]+x[2], 18)

		x[3] ^= rotl32(x[15]+x[11], 7)
		x[7] ^= rotl32(x[3]+x[15], 9)
		x[11] ^= rotl32(x[7]+x[3], 13)
		x[15] ^= rotl32(x[11]+x[7], 18)

		x[1] ^= rotl32(x[0]+x[3], 7)
		x[2] ^= rotl32(x[1]+x[0], 9)
		x[3] ^= rotl32(x[2]+x[1], 13)
		x[0] ^= rotl32(x[3]+x[2], 18)

		x[6] ^= rotl32(x[5]+x[4], 7)
		x[7] ^= rotl32(x[6]+x[5], 9)
		x[4] ^= rotl32(x[7]+x[6], 13)
		x[5] ^= rotl32(x[4]+x[7], 18)

		x[11] ^= rotl32(x[10]+x[9], 7)
		x[8] ^= rotl32(x[11]+x[10], 9)
		x[9] ^= rotl32(x[8]+x[11], 13)
		x[10] ^= rotl32(x[9]+x[8], 18)

		x[12] ^= rotl32(x[15]+x[14], 7)
		x[13] ^= rotl32(x[12]+x[15], 9)
		x[14] ^= rotl32(x[13]+x[12], 13)
		x[15] ^= rotl32(x[14]+x[13], 18)
	}

	for i := range x {
		x[i] += orig[i]
		binary.LittleEndian.PutUint32(b[i*4:], x[i])
	}
}

func rotl32(x uint32, n uint) uint32 {
	return x<<n | x>>(32-n)
}
