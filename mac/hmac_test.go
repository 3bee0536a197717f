// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package mac

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/cex-go/cex/digest"
	"github.com/stretchr/testify/require"
)

// RFC 4231 Test Case 1 (HMAC-SHA-256).
func TestHMACSHA256RFC4231TestCase1(t *testing.T) {
	key := bytes.Repeat([]byte{0x0b}, 20)
	want, err := hex.DecodeString("b0344c61d8db38535ca8afceaf0bf12b881dc200c9833da726e9376c2e32cff7")
	require.NoError(t, err)

	h := New(digest.NewSHA256, key)
	got := h.Sum([]byte("Hi There"))
	require.Equal(t, want, got)
}

func TestHMACResetDiscardsUnfinalizedMessage(t *testing.T) {
	h := New(digest.NewSHA256, []byte("key"))
	h.Update([]byte("partial"))
	h.Reset()

	out := make([]byte, h.MacSize())
	h.Finalize(out)

	h2 := New(digest.NewSHA256, []byte("key"))
	want := make([]byte, h2.MacSize())
	h2.Finalize(want)

	require.Equal(t, want, out)
}

func TestHMACFinalizeRearmsForNextMessage(t *testing.T) {
	h := New(digest.NewSHA256, []byte("key"))
	first := h.Sum([]byte("message one"))
	second := h.Sum([]byte("message two"))
	require.NotEqual(t, first, second)
}

func TestHMACKeyLongerThanBlockSizeIsHashed(t *testing.T) {
	longKey := bytes.Repeat([]byte{0x5a}, 200)
	h1 := New(digest.NewSHA256, longKey)
	h2 := New(digest.NewSHA256, longKey)
	require.Equal(t, h1.Sum([]byte("msg")), h2.Sum([]byte("msg")))
}
