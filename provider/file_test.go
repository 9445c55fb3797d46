// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package provider

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileProviderGrowsAndSyncs(t *testing.T) {
	f, err := os.CreateTemp("", "segheap-file-provider-")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	defer f.Close()

	p, err := NewFileProvider(f)
	require.NoError(t, err)

	base, err := p.Extend(128)
	require.NoError(t, err)
	require.Equal(t, p.Low(), base)

	copy(p.Bytes(), []byte("hello provider"))
	require.NoError(t, p.Sync())

	got := make([]byte, len("hello provider"))
	_, err = f.ReadAt(got, 0)
	require.NoError(t, err)
	require.Equal(t, "hello provider", string(got))
}

func TestFileProviderTruncatesNonEmptyFile(t *testing.T) {
	f, err := os.CreateTemp("", "segheap-file-provider-")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	defer f.Close()

	_, err = f.Write([]byte("not empty"))
	require.NoError(t, err)

	p, err := NewFileProvider(f)
	require.NoError(t, err)
	require.Zero(t, p.Low())
}
