// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package drbg

import (
	"bytes"
	"testing"

	"github.com/cex-go/cex/cipher"
	"github.com/cex-go/cex/keyparams"
	"github.com/cex-go/cex/parallel"
	"github.com/cex-go/cex/provider"
	"github.com/stretchr/testify/require"
)

// panickyBlock simulates a worker-side fault so GenerateParallel's panic
// -> Poison path can be exercised without relying on a real cipher bug.
type panickyBlock struct{}

func (panickyBlock) BlockSize() int { return cipher.BlockSize }
func (panickyBlock) EncryptBlock(dst, src []byte) {
	panic("simulated cipher fault")
}
func (panickyBlock) DecryptBlock(dst, src []byte) {}

func newTestBCG(t *testing.T) *BCG {
	t.Helper()
	g := New(WithKeySize(16))
	require.NoError(t, g.Initialize())
	return g
}

func TestBCGGenerateDeterministicFromFixedSeed(t *testing.T) {
	key := bytes.Repeat([]byte{0x2a}, 16)
	nonce := bytes.Repeat([]byte{0x00}, 16)

	g1 := New(WithKeySize(16))
	require.NoError(t, g1.InitializeKeyNonce(key, nonce))
	g2 := New(WithKeySize(16))
	require.NoError(t, g2.InitializeKeyNonce(key, nonce))

	out1 := make([]byte, 10_000)
	out2 := make([]byte, 10_000)
	require.NoError(t, g1.Generate(out1))
	require.NoError(t, g2.Generate(out2))
	require.Equal(t, out1, out2)
}

func TestBCGParallelMatchesSerial(t *testing.T) {
	key := bytes.Repeat([]byte{0x11}, 32)
	nonce := bytes.Repeat([]byte{0x00}, 16)

	serial := New(WithKeySize(32))
	require.NoError(t, serial.InitializeKeyNonce(key, nonce))
	parallel := New(WithKeySize(32))
	require.NoError(t, parallel.InitializeKeyNonce(key, nonce))

	serialOut := make([]byte, 10_000)
	parallelOut := make([]byte, 10_000)

	require.NoError(t, serial.Generate(serialOut))
	require.NoError(t, parallel.GenerateParallel(parallelOut, 4))

	require.Equal(t, serialOut, parallelOut)
}

func TestBCGGenerateZeroLengthIsNoOp(t *testing.T) {
	g := newTestBCG(t)
	require.NoError(t, g.Generate(nil))
	require.Equal(t, uint64(0), g.Usage())
}

func TestBCGGenerateBeforeInitializeFails(t *testing.T) {
	g := New()
	err := g.Generate(make([]byte, 16))
	require.ErrorIs(t, err, ErrNotInitialized)
}

func TestBCGInitializeFromParamsMatchesDirectCall(t *testing.T) {
	key := bytes.Repeat([]byte{0x5a}, 32)
	nonce := bytes.Repeat([]byte{0x11}, 16)
	info := []byte("ctx")

	g1 := New()
	require.NoError(t, g1.InitializeKeyNonceInfo(key, nonce, info))

	g2 := New()
	require.NoError(t, g2.InitializeFromParams(keyparams.New(key, nonce, info)))

	out1 := make([]byte, 64)
	out2 := make([]byte, 64)
	require.NoError(t, g1.Generate(out1))
	require.NoError(t, g2.Generate(out2))
	require.Equal(t, out1, out2)
}

func TestBCGGenerateAutoMatchesSerialRegardlessOfFanOut(t *testing.T) {
	key := bytes.Repeat([]byte{0x7c}, 16)
	nonce := bytes.Repeat([]byte{0x03}, 16)

	opts, err := parallel.New(cipher.BlockSize, false, 0, false, 4)
	require.NoError(t, err)

	serial := New(WithKeySize(16))
	require.NoError(t, serial.InitializeKeyNonce(key, nonce))
	auto := New(WithKeySize(16))
	require.NoError(t, auto.InitializeKeyNonce(key, nonce))

	size := opts.ParallelBlockSize() * 3
	serialOut := make([]byte, size)
	autoOut := make([]byte, size)

	require.NoError(t, serial.Generate(serialOut))
	require.NoError(t, auto.GenerateAuto(autoOut, opts))

	require.Equal(t, serialOut, autoOut)
}

func TestBCGOffsetLengthPartitioningEquivalence(t *testing.T) {
	g1 := New(WithKeySize(16))
	require.NoError(t, g1.Initialize())
	g2 := New(WithKeySize(16))
	g2.config = g1.config
	require.NoError(t, g2.InitializeKeyNonce(g1.state.Load().key, g1.v[:]))

	whole := make([]byte, 1000)
	require.NoError(t, g1.Generate(whole))

	part1 := make([]byte, 333)
	part2 := make([]byte, 667)
	require.NoError(t, g2.Generate(part1))
	require.NoError(t, g2.Generate(part2))

	require.Equal(t, whole, append(part1, part2...))
}

func TestBCGDeriveReseeds(t *testing.T) {
	g := newTestBCG(t)
	before := g.state.Load()
	require.NoError(t, g.Derive())
	after := g.state.Load()
	require.NotEqual(t, before.key, after.key)
	require.Equal(t, uint64(0), g.Usage())
}

func TestBCGInfoHasNoEffectForStandardCipher(t *testing.T) {
	key := bytes.Repeat([]byte{0x5a}, 32)
	nonce := bytes.Repeat([]byte{0x11}, 16)

	plain := New(WithKeySize(32))
	require.NoError(t, plain.InitializeKeyNonce(key, nonce))
	withInfo := New(WithKeySize(32))
	require.NoError(t, withInfo.InitializeKeyNonceInfo(key, nonce, []byte("distribution-code")))

	out1 := make([]byte, 64)
	out2 := make([]byte, 64)
	require.NoError(t, plain.Generate(out1))
	require.NoError(t, withInfo.Generate(out2))
	require.Equal(t, out1, out2)
}

func TestBCGInfoReachesSecureScheduleForHXCipher(t *testing.T) {
	key := bytes.Repeat([]byte{0x5a}, 32)
	nonce := bytes.Repeat([]byte{0x11}, 16)
	newSecure := func(key, info []byte) (cipher.Block, error) {
		return cipher.NewRHXSecure(key, cipher.KdfHKDF256, info)
	}

	noInfo := New(WithKeySize(32), WithNewSecureBlock(newSecure))
	require.NoError(t, noInfo.InitializeKeyNonceInfo(key, nonce, nil))
	withInfo := New(WithKeySize(32), WithNewSecureBlock(newSecure))
	require.NoError(t, withInfo.InitializeKeyNonceInfo(key, nonce, []byte("distribution-code")))

	out1 := make([]byte, 64)
	out2 := make([]byte, 64)
	require.NoError(t, noInfo.Generate(out1))
	require.NoError(t, withInfo.Generate(out2))
	require.NotEqual(t, out1, out2)
}

func TestBCGGenerateAutoReseedsAtThreshold(t *testing.T) {
	key := bytes.Repeat([]byte{0x09}, 16)
	nonce := bytes.Repeat([]byte{0x00}, 16)

	g := New(WithKeySize(16), WithProvider(provider.OS), WithMaxBytesPerKey(16))
	require.NoError(t, g.InitializeKeyNonce(key, nonce))
	before := g.state.Load()

	out := make([]byte, 16)
	require.NoError(t, g.Generate(out))

	after := g.state.Load()
	require.NotEqual(t, before.key, after.key)
	require.Equal(t, uint64(0), g.Usage())
}

func TestBCGDeriveFailsOnceReseedRequestsExhausted(t *testing.T) {
	g := New(WithKeySize(16), WithMaxReseedRequests(2))
	require.NoError(t, g.Initialize())

	require.NoError(t, g.Derive())
	require.NoError(t, g.Derive())
	require.ErrorIs(t, g.Derive(), ErrMaxExceeded)
	require.ErrorIs(t, g.Derive(), ErrMaxExceeded)
}

func TestBCGParallelWorkerPanicPoisonsGenerator(t *testing.T) {
	g := New(WithKeySize(16), WithNewBlock(func(key []byte) (cipher.Block, error) {
		return panickyBlock{}, nil
	}))
	require.NoError(t, g.Initialize())
	err := g.GenerateParallel(make([]byte, 64), 4)
	require.Error(t, err)
	require.True(t, g.Poisoned())
	require.ErrorIs(t, g.Generate(make([]byte, 16)), ErrPoisoned)
}
