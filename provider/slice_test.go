// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package provider

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSliceProviderGrows(t *testing.T) {
	p := NewSliceProvider()
	require.Zero(t, p.Low())
	require.Zero(t, p.High())

	base, err := p.Extend(64)
	require.NoError(t, err)
	require.Equal(t, p.Low(), base)
	require.Equal(t, 64, p.Len())
	require.Equal(t, p.Low()+64, p.High())

	base2, err := p.Extend(32)
	require.NoError(t, err)
	require.Equal(t, base+64, base2)
	require.Equal(t, 96, p.Len())
}

func TestSliceProviderExtendRejectsNonPositive(t *testing.T) {
	p := NewSliceProvider()
	_, err := p.Extend(0)
	require.Error(t, err)
	_, err = p.Extend(-1)
	require.Error(t, err)
}

func TestSliceProviderBytesSurviveGrowthRelocation(t *testing.T) {
	p := NewSliceProvider()
	base, err := p.Extend(8)
	require.NoError(t, err)

	p.Bytes()[0] = 0xAB

	for i := 0; i < 100; i++ {
		_, err := p.Extend(8)
		require.NoError(t, err)
	}

	require.Equal(t, byte(0xAB), p.Bytes()[base-p.Low()])
}
