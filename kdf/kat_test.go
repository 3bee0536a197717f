// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package kdf

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/cex-go/cex/digest"
	"github.com/cex-go/cex/mac"
	"github.com/stretchr/testify/require"
)

// RFC 5869 Appendix A.1, Test Case 1 (HKDF-SHA256).
func TestHKDFRFC5869TestCase1(t *testing.T) {
	ikm := bytes.Repeat([]byte{0x0b}, 22)
	salt, err := hex.DecodeString("000102030405060708090a0b0c")
	require.NoError(t, err)
	info, err := hex.DecodeString("f0f1f2f3f4f5f6f7f8f9")
	require.NoError(t, err)
	want, err := hex.DecodeString(
		"3cb25f25faacd57a90434f64d0362f2a2d2d0a90cf1a5a4c5db02d56ecc4c5bf34007208d5b887185865")
	require.NoError(t, err)

	h := NewHKDF(digest.NewSHA256)
	require.NoError(t, h.Initialize(ikm, salt, info))

	out := make([]byte, 42)
	require.NoError(t, h.Generate(out))
	require.Equal(t, want, out)
}

// Widely cited PBKDF2-HMAC-SHA256 known-answer value for
// pw="password", salt="salt", c=4096, dkLen=32.
func TestPBKDF2SHA256KAT(t *testing.T) {
	want, err := hex.DecodeString("c5e478d59288c841aa530db6845c4c8d962893a001ce4e11a4963873aa98134a")
	require.NoError(t, err)

	p := NewPBKDF2(digest.NewSHA256)
	require.NoError(t, p.Initialize([]byte("password"), []byte("salt"), 4096))

	out := make([]byte, 32)
	require.NoError(t, p.Generate(out))
	require.Equal(t, want, out)
}

// PBKDF2 with a single iteration and no salt collapses to a single HMAC
// call.
func TestPBKDF2SingleIterationNoSaltEqualsSingleHMAC(t *testing.T) {
	p := NewPBKDF2(digest.NewSHA256)
	require.NoError(t, p.Initialize([]byte("pw"), nil, 1))

	out := make([]byte, 32)
	require.NoError(t, p.Generate(out))

	prf := mac.New(digest.NewSHA256, []byte("pw"))
	want := prf.Sum([]byte{0x00, 0x00, 0x00, 0x01})
	require.Equal(t, want, out)
}

// RFC 7914 §12, test vector 2 (scrypt).
func TestScryptRFC7914TestVector2(t *testing.T) {
	want, err := hex.DecodeString(
		"fdbabe1c9d3472007856e7190d01e9fe7c6ad7cbc8237830e77376634b3731" +
			"622eaf30d92e22a3886ff109279d9830dac727afb94a83ee6d8360cbdfa2cc0" +
			"640")
	require.NoError(t, err)

	s := NewScrypt(digest.NewSHA256)
	dk, err := s.Derive([]byte("password"), []byte("NaCl"), ScryptParams{N: 1024, P: 16}, 64)
	require.NoError(t, err)
	require.Equal(t, want, dk)
}

func TestKDF2GenerateTruncationPrefixProperty(t *testing.T) {
	k := NewKDF2(digest.NewSHA256)
	require.NoError(t, k.Initialize(bytes.Repeat([]byte{0x01}, 20), nil, nil))

	full := make([]byte, 64)
	require.NoError(t, k.Generate(full))

	k.Reset()
	require.NoError(t, k.Initialize(bytes.Repeat([]byte{0x01}, 20), nil, nil))
	prefix := make([]byte, 20)
	require.NoError(t, k.Generate(prefix))

	require.Equal(t, full[:20], prefix)
}

func TestHKDFGenerateTruncationPrefixProperty(t *testing.T) {
	ikm := bytes.Repeat([]byte{0x42}, 32)

	h1 := NewHKDF(digest.NewSHA256)
	require.NoError(t, h1.Initialize(ikm, nil, nil))
	full := make([]byte, 50)
	require.NoError(t, h1.Generate(full))

	h2 := NewHKDF(digest.NewSHA256)
	require.NoError(t, h2.Initialize(ikm, nil, nil))
	prefix := make([]byte, 17)
	require.NoError(t, h2.Generate(prefix))

	require.Equal(t, full[:17], prefix)
}
