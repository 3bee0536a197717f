// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package keyparams

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeccakParamsRoundTripsThroughBytes(t *testing.T) {
	p := NewKeccakParams(32, 136, 4)
	p.NodeOffset = 7
	p.DistributionCode[0] = 0xAB

	got, err := ParseKeccakParams(p.ToBytes())
	require.NoError(t, err)
	require.True(t, p.Equals(got))
}

func TestKeccakParamsDistributionCodeMaxVariesByOutputSize(t *testing.T) {
	require.Equal(t, 112, NewKeccakParams(32, 0, 0).DistributionCodeMax())
	require.Equal(t, 48, NewKeccakParams(64, 0, 0).DistributionCodeMax())
}

func TestKeccakParamsCloneIsIndependent(t *testing.T) {
	p := NewKeccakParams(32, 0, 0)
	c := p.Clone()
	c.DistributionCode[0] = 0xFF
	require.NotEqual(t, p.DistributionCode[0], c.DistributionCode[0])
}

func TestParseKeccakParamsRejectsShortBuffer(t *testing.T) {
	_, err := ParseKeccakParams(make([]byte, 10))
	require.Error(t, err)
}

func TestSHA2ParamsRoundTripsThroughBytes(t *testing.T) {
	p := NewSHA2Params(32, 64, 8)
	p.NodeOffset = 3
	p.DistributionCode = []byte{0x01, 0x02, 0x03}

	got, err := ParseSHA2Params(p.ToBytes())
	require.NoError(t, err)
	require.Equal(t, p, got)
}
