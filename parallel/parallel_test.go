// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package parallel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRejectsZeroOrOddBlockSize(t *testing.T) {
	_, err := New(0, false, 0, false, 0)
	require.Error(t, err)

	_, err = New(17, false, 0, false, 0)
	require.Error(t, err)
}

func TestNewDefaultsMaxDegreeToProcessorCount(t *testing.T) {
	o, err := New(16, false, 0, false, 0)
	require.NoError(t, err)
	require.Equal(t, o.ProcessorCount(), o.ParallelMaxDegree())
}

func TestParallelBlockSizeIsMultipleOfMinSize(t *testing.T) {
	o, err := New(16, true, 1024, false, 4)
	require.NoError(t, err)
	if o.ParallelMinSize() > 0 {
		require.Equal(t, 0, o.ParallelBlockSize()%o.ParallelMinSize())
	}
}

func TestSetMaxDegreeRejectsOddOrZero(t *testing.T) {
	o, err := New(16, false, 0, false, 0)
	require.NoError(t, err)

	require.Error(t, o.SetMaxDegree(0))
	require.Error(t, o.SetMaxDegree(3))

	n := o.ProcessorCount()
	if n%2 != 0 {
		n--
	}
	if n < 2 {
		t.Skip("requires a multi-core host")
	}
	require.NoError(t, o.SetMaxDegree(n))
	require.Equal(t, n, o.ParallelMaxDegree())
}

func TestSetMaxDegreeRejectsExceedingProcessorCount(t *testing.T) {
	o, err := New(16, false, 0, false, 0)
	require.NoError(t, err)

	require.Error(t, o.SetMaxDegree(o.ProcessorCount()+2))
}

func TestSimdLevelLaneCounts(t *testing.T) {
	require.Equal(t, 1, SimdNone.LaneCount())
	require.Equal(t, 4, SimdAVX.LaneCount())
	require.Equal(t, 8, SimdAVX2.LaneCount())
	require.Equal(t, 16, SimdAVX512.LaneCount())
}

func TestRecalculateHonorsExplicitBlockSize(t *testing.T) {
	o, err := New(16, false, 0, false, 2)
	require.NoError(t, err)
	o.Recalculate(true, 4096, 2)
	require.Equal(t, 0, o.ParallelBlockSize()%o.ParallelMinSize())
}
