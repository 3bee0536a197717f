// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package digest

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

// SHA3-256 of the empty string, a standard NIST known-answer value.
func TestSHA3_256EmptyKAT(t *testing.T) {
	want, err := hex.DecodeString("a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a")
	require.NoError(t, err)

	h := NewSHA3_256()
	out := make([]byte, h.DigestSize())
	h.Finalize(out)
	require.Equal(t, want, out)
}

func TestSHA256ResetAfterFinalize(t *testing.T) {
	h := NewSHA256()
	h.Update([]byte("abc"))
	out1 := make([]byte, h.DigestSize())
	h.Finalize(out1)

	// Finalize must reset so the instance is immediately reusable.
	h.Update([]byte("abc"))
	out2 := make([]byte, h.DigestSize())
	h.Finalize(out2)

	require.Equal(t, out1, out2)
}

func TestSHAKE128DistinctOutputsForDistinctInputs(t *testing.T) {
	h1 := NewSHAKE128(32)
	h1.Update([]byte("a"))
	out1 := make([]byte, 32)
	h1.Finalize(out1)

	h2 := NewSHAKE128(32)
	h2.Update([]byte("b"))
	out2 := make([]byte, 32)
	h2.Finalize(out2)

	require.NotEqual(t, out1, out2)
}
