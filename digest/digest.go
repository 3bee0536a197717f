// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package digest adapts stdlib and golang.org/x/crypto hash implementations
// to the narrow Hash contract the keying packages (mac, kdf, cipher) consume.
//
// The message-digest algorithms themselves are out of this module's scope:
// this package does not implement SHA-2, SHA-3, or Keccak, it
// only exposes them as the opaque block_size/digest_size/update/finalize/reset
// collaborator the rest of the library is written against.
package digest

import (
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"golang.org/x/crypto/sha3"
)

// Hash is the external collaborator contract. Implementations
// must write exactly DigestSize() bytes on Finalize, and Finalize must reset
// the instance so it is immediately ready to absorb the next message.
type Hash interface {
	// BlockSize returns the hash function's internal block size in bytes,
	// used by HMAC to size its ipad/opad.
	BlockSize() int

	// DigestSize returns the number of bytes Finalize writes.
	DigestSize() int

	// Update absorbs more message bytes.
	Update(p []byte)

	// Finalize writes the digest of everything absorbed so far into out
	// (which must be at least DigestSize() bytes) and resets the instance.
	Finalize(out []byte)

	// Reset discards any absorbed input and returns to the initial state.
	Reset()
}

// stdHash adapts any stdlib-shaped hash.Hash (crypto/sha256, crypto/sha512,
// golang.org/x/crypto/sha3's fixed-output constructors all satisfy it) to the
// Hash contract.
type stdHash struct {
	h hash.Hash
}

func newStdHash(h hash.Hash) *stdHash { return &stdHash{h: h} }

func (s *stdHash) BlockSize() int  { return s.h.BlockSize() }
func (s *stdHash) DigestSize() int { return s.h.Size() }
func (s *stdHash) Update(p []byte) { s.h.Write(p) }

func (s *stdHash) Finalize(out []byte) {
	s.h.Sum(out[:0])
	s.h.Reset()
}

func (s *stdHash) Reset() { s.h.Reset() }

// NewSHA256 returns a Hash backed by crypto/sha256 (block size 64, digest
// size 32). It is the default digest for KDF2-256/HKDF-256/the RHX
// HKDF-SHA2-256 extended schedule.
func NewSHA256() Hash { return newStdHash(sha256.New()) }

// NewSHA512 returns a Hash backed by crypto/sha512 (block size 128, digest
// size 64). It backs KDF2-512/HKDF-512/the RHX HKDF-SHA2-512 extended
// schedule.
func NewSHA512() Hash { return newStdHash(sha512.New()) }

// NewSHA3_256 returns a Hash backed by golang.org/x/crypto/sha3.
func NewSHA3_256() Hash { return newStdHash(sha3.New256()) }

// NewSHA3_512 returns a Hash backed by golang.org/x/crypto/sha3.
func NewSHA3_512() Hash { return newStdHash(sha3.New512()) }

// shakeHash adapts a golang.org/x/crypto/sha3 ShakeHash (an XOF with Read
// instead of Sum) to the fixed-size Hash contract by reading exactly
// DigestSize() bytes per Finalize.
type shakeHash struct {
	h         sha3.ShakeHash
	blockSize int
	size      int
}

func (s *shakeHash) BlockSize() int  { return s.blockSize }
func (s *shakeHash) DigestSize() int { return s.size }
func (s *shakeHash) Update(p []byte) { s.h.Write(p) }

func (s *shakeHash) Finalize(out []byte) {
	s.h.Read(out[:s.size])
	s.h.Reset()
}

func (s *shakeHash) Reset() { s.h.Reset() }

// NewSHAKE128 returns an extendable-output Hash backed by SHAKE128, sized to
// outputSize bytes per Finalize call. Used by the RHX "Secure-SHAKE128"
// extended schedule.
func NewSHAKE128(outputSize int) Hash {
	return &shakeHash{h: sha3.NewShake128(), blockSize: 168, size: outputSize}
}

// NewSHAKE256 returns an extendable-output Hash backed by SHAKE256, sized to
// outputSize bytes per Finalize call. Used by the RHX "Secure-SHAKE256" and
// "Secure-SHAKE512" extended schedules, which both run this same SHAKE256
// primitive.
func NewSHAKE256(outputSize int) Hash {
	return &shakeHash{h: sha3.NewShake256(), blockSize: 136, size: outputSize}
}
