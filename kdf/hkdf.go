// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package kdf

import (
	"github.com/cex-go/cex/digest"
	"github.com/cex-go/cex/mac"
)

// HKDF implements RFC 5869 extract-then-expand key derivation over any
// digest.Hash via this module's own mac.HMAC construction, keeping the
// state shape (current T, info, generated byte count, armed HMAC) so it
// can plug directly into the RHX extended schedule and the DRBG reseed
// path.
type HKDF struct {
	newHash func() digest.Hash

	initialized    bool
	hmac           *mac.HMAC
	info           []byte
	currentT       []byte
	generatedBytes int
	hashSize       int
}

// NewHKDF constructs an HKDF instance over the digest produced by newHash.
func NewHKDF(newHash func() digest.Hash) *HKDF {
	return &HKDF{newHash: newHash, hashSize: newHash().DigestSize()}
}

// extract computes PRK = HMAC(salt, ikm), defaulting salt to hashSize zero
// bytes when empty, per RFC 5869 §2.2.
func (k *HKDF) extract(salt, ikm []byte) []byte {
	if len(salt) == 0 {
		salt = make([]byte, k.hashSize)
	}
	extractor := mac.New(k.newHash, salt)
	return extractor.Sum(ikm)
}

// Initialize arms the generator from ikm and optional salt/info. A nil salt
// triggers the RFC 5869 zero-salt default; a nil info derives with an empty
// info string.
func (k *HKDF) Initialize(ikm, salt, info []byte) error {
	if len(ikm) == 0 {
		return wrap(ErrInvalidKey, "hkdf: ikm must not be empty")
	}

	prk := k.extract(salt, ikm)
	k.hmac = mac.New(k.newHash, prk)
	k.info = append([]byte(nil), info...)
	k.currentT = nil
	k.generatedBytes = 0
	k.initialized = true
	return nil
}

// Generate fills out with derived key material. Cumulative output across
// calls since the last Initialize must not exceed 255*DigestSize bytes.
func (k *HKDF) Generate(out []byte) error {
	if !k.initialized {
		return ErrNotInitialized
	}
	if k.generatedBytes+len(out) > maxGenRequests*k.hashSize {
		return wrap(ErrMaxExceeded, "hkdf: requested length exceeds 255*digest-size")
	}

	offset := 0
	for offset < len(out) {
		if k.generatedBytes%k.hashSize == 0 {
			if err := k.expand(); err != nil {
				return err
			}
		}

		posInT := k.generatedBytes % k.hashSize
		leftInT := k.hashSize - posInT
		toCopy := leftInT
		if remaining := len(out) - offset; remaining < toCopy {
			toCopy = remaining
		}

		copy(out[offset:offset+toCopy], k.currentT[posInT:posInT+toCopy])
		k.generatedBytes += toCopy
		offset += toCopy
	}

	return nil
}

// expand computes the next T_i = HMAC(PRK, T_{i-1} || info || byte(i)).
func (k *HKDF) expand() error {
	n := k.generatedBytes/k.hashSize + 1
	if n >= 256 {
		return wrap(ErrMaxExceeded, "hkdf: cannot generate more than 255 blocks of digest output")
	}

	k.hmac.Reset()
	if k.generatedBytes != 0 {
		k.hmac.Update(k.currentT)
	}
	if len(k.info) > 0 {
		k.hmac.Update(k.info)
	}
	k.hmac.Update([]byte{byte(n)})

	k.currentT = make([]byte, k.hashSize)
	k.hmac.Finalize(k.currentT)
	return nil
}

// Reset discards the armed HMAC and counters; Initialize must be called
// again before the next Generate.
func (k *HKDF) Reset() {
	k.hmac = nil
	k.info = nil
	k.currentT = nil
	k.generatedBytes = 0
	k.initialized = false
}

// DigestSize returns the underlying hash's output size in bytes.
func (k *HKDF) DigestSize() int { return k.hashSize }
