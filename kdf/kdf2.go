// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package kdf

import (
	"encoding/binary"

	"github.com/cex-go/cex/digest"
)

// maxGenRequests bounds KDF2/HKDF output to 255 digest blocks, matching
// CEX's KDF2::MAXGEN_REQUESTS ceiling.
const maxGenRequests = 255

// KDF2 implements the ISO 18033-2 hash-counter key-derivation function:
// iterated Hash(Z || BE32(counter) || salt || info),
// concatenated and truncated to the requested length.
type KDF2 struct {
	newHash func() digest.Hash
	h       digest.Hash

	initialized bool
	key         []byte
	salt        []byte
	info        []byte
	counter     uint32
}

// NewKDF2 constructs a KDF2 instance over the digest produced by newHash
// (typically digest.NewSHA256 or digest.NewSHA512).
func NewKDF2(newHash func() digest.Hash) *KDF2 {
	return &KDF2{newHash: newHash, h: newHash()}
}

// Initialize arms the generator with key Z and optional salt/info. Either may
// be nil; Z itself carries no minimum length. A re-Initialize silently
// replaces prior state without requiring an explicit Reset first (Reset is
// only required to clear state without immediately reinitializing).
func (k *KDF2) Initialize(key, salt, info []byte) error {
	k.key = append([]byte(nil), key...)
	k.salt = append([]byte(nil), salt...)
	k.info = append([]byte(nil), info...)
	k.counter = 1
	k.h.Reset()
	k.initialized = true
	return nil
}

// Generate fills out with derived key material. len(out) must not push the
// cumulative output for this Initialize past 255*DigestSize bytes.
func (k *KDF2) Generate(out []byte) error {
	if !k.initialized {
		return ErrNotInitialized
	}

	hlen := k.h.DigestSize()
	blocksNeeded := (len(out) + hlen - 1) / hlen
	if blocksNeeded > 0 && int(k.counter)+blocksNeeded-1 > maxGenRequests {
		return wrap(ErrMaxExceeded, "kdf2: requested length exceeds 255*digest-size")
	}

	offset := 0
	tmp := make([]byte, hlen)
	var counterBuf [4]byte

	for offset < len(out) {
		binary.BigEndian.PutUint32(counterBuf[:], k.counter)

		k.h.Update(k.key)
		k.h.Update(counterBuf[:])
		if len(k.salt) > 0 {
			k.h.Update(k.salt)
		}
		if len(k.info) > 0 {
			k.h.Update(k.info)
		}
		k.h.Finalize(tmp)
		k.counter++

		n := copy(out[offset:], tmp)
		offset += n
	}

	return nil
}

// Reset discards absorbed key/salt/info state; Initialize must be called
// again before the next Generate.
func (k *KDF2) Reset() {
	k.h.Reset()
	k.key = nil
	k.salt = nil
	k.info = nil
	k.counter = 1
	k.initialized = false
}

// DigestSize returns the underlying hash's output size in bytes, the unit
// KDF2's 255-block output ceiling is measured in.
func (k *KDF2) DigestSize() int { return k.h.DigestSize() }
