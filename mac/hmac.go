// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package mac implements HMAC as a keyed construction polymorphic
// over any digest.Hash, the way CEX's HMAC.h wraps an IDigest rather than
// hard-coding a single hash algorithm.
package mac

import "github.com/cex-go/cex/digest"

// HMAC is a keyed message authentication code over an arbitrary digest.Hash.
// It is not safe for concurrent use; callers needing concurrent MACs should
// construct one HMAC per goroutine (the same convention the DRBG uses for
// its per-worker counters).
type HMAC struct {
	newHash func() digest.Hash
	inner   digest.Hash
	ipad    []byte
	opad    []byte
}

// New returns an HMAC keyed with key, using newHash to construct the inner
// digest (and a second instance internally for the outer pass). newHash must
// return a freshly reset digest.Hash each call.
func New(newHash func() digest.Hash, key []byte) *HMAC {
	h := &HMAC{newHash: newHash}
	h.setKey(key)
	return h
}

// setKey derives ipad/opad per RFC 2104: key' = key if |key| <= blockSize,
// else Hash(key), right-padded with zeros to blockSize.
func (h *HMAC) setKey(key []byte) {
	probe := h.newHash()
	blockSize := probe.BlockSize()

	keyPrime := key
	if len(key) > blockSize {
		probe.Update(key)
		digested := make([]byte, probe.DigestSize())
		probe.Finalize(digested)
		keyPrime = digested
	}

	h.ipad = make([]byte, blockSize)
	h.opad = make([]byte, blockSize)
	copy(h.ipad, keyPrime)
	copy(h.opad, keyPrime)
	for i := range h.ipad {
		h.ipad[i] ^= 0x36
		h.opad[i] ^= 0x5c
	}

	h.inner = h.newHash()
	h.inner.Update(h.ipad)
}

// BlockSize returns the underlying digest's block size.
func (h *HMAC) BlockSize() int { return h.inner.BlockSize() }

// MacSize returns the underlying digest's output size.
func (h *HMAC) MacSize() int { return h.inner.DigestSize() }

// Update absorbs more message bytes into the inner hash.
func (h *HMAC) Update(p []byte) { h.inner.Update(p) }

// Finalize computes Hash(opad || Hash(ipad || message)) into out, which must
// be at least MacSize() bytes, then re-arms the instance with ipad as if
// Reset had been called.
func (h *HMAC) Finalize(out []byte) {
	inner := make([]byte, h.inner.DigestSize())
	h.inner.Finalize(inner)

	outer := h.newHash()
	outer.Update(h.opad)
	outer.Update(inner)
	outer.Finalize(out)

	h.inner = h.newHash()
	h.inner.Update(h.ipad)
}

// Reset restarts the inner hash and re-absorbs ipad, discarding any message
// bytes absorbed since the last Finalize.
func (h *HMAC) Reset() {
	h.inner = h.newHash()
	h.inner.Update(h.ipad)
}

// Sum is a convenience wrapper returning a freshly allocated MacSize()-byte
// tag for a single message, without disturbing h's armed state.
func (h *HMAC) Sum(message []byte) []byte {
	inner := h.newHash()
	inner.Update(h.ipad)
	inner.Update(message)
	t := make([]byte, inner.DigestSize())
	inner.Finalize(t)

	outer := h.newHash()
	outer.Update(h.opad)
	outer.Update(t)
	out := make([]byte, outer.DigestSize())
	outer.Finalize(out)
	return out
}
