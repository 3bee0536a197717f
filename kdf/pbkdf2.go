// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package kdf

import (
	"encoding/binary"

	"github.com/cex-go/cex/digest"
	"github.com/cex-go/cex/mac"
)

// PBKDF2 implements RFC 2898 password-based key derivation: for
// each output block i, U1 = HMAC(pw, salt||BE32(i)), Uj = HMAC(pw, U{j-1})
// for j in 2..=iterations, block = XOR of U1..Uc.
type PBKDF2 struct {
	newHash func() digest.Hash

	initialized bool
	password    []byte
	salt        []byte
	iterations  int
	hashSize    int
}

// NewPBKDF2 constructs a PBKDF2 instance over the digest produced by
// newHash.
func NewPBKDF2(newHash func() digest.Hash) *PBKDF2 {
	return &PBKDF2{newHash: newHash, hashSize: newHash().DigestSize()}
}

// Initialize arms the generator with password, salt, and an iteration count.
// iterations must be at least 1; the RFC recommends at least 1000.
func (k *PBKDF2) Initialize(password, salt []byte, iterations int) error {
	if iterations < 1 {
		return wrap(ErrIllegalParam, "pbkdf2: iterations must be at least 1")
	}

	k.password = append([]byte(nil), password...)
	k.salt = append([]byte(nil), salt...)
	k.iterations = iterations
	k.initialized = true
	return nil
}

// Generate fills out (the derived key, dkLen = len(out)) with PBKDF2 output.
// dkLen must not exceed (2^32 - 1) * hLen bytes.
func (k *PBKDF2) Generate(out []byte) error {
	if !k.initialized {
		return ErrNotInitialized
	}

	const maxBlocks = 1<<32 - 1
	blocksNeeded := (len(out) + k.hashSize - 1) / k.hashSize
	if blocksNeeded > maxBlocks {
		return wrap(ErrMaxExceeded, "pbkdf2: requested length exceeds (2^32-1)*digest-size")
	}

	offset := 0
	var blockIndex uint32 = 1
	block := make([]byte, k.hashSize)
	u := make([]byte, k.hashSize)
	var idxBuf [4]byte

	for offset < len(out) {
		binary.BigEndian.PutUint32(idxBuf[:], blockIndex)

		prf := mac.New(k.newHash, k.password)
		prf.Update(k.salt)
		prf.Update(idxBuf[:])
		prf.Finalize(u)
		copy(block, u)

		for j := 1; j < k.iterations; j++ {
			iter := mac.New(k.newHash, k.password)
			iter.Update(u)
			iter.Finalize(u)
			for b := range block {
				block[b] ^= u[b]
			}
		}

		n := copy(out[offset:], block)
		offset += n
		blockIndex++
	}

	return nil
}

// Reset discards password/salt state; Initialize must be called again
// before the next Generate.
func (k *PBKDF2) Reset() {
	k.password = nil
	k.salt = nil
	k.iterations = 0
	k.initialized = false
}
