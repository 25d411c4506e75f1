// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hex

import (
	"bytes"
	"testing"

	"github.com/embeddedgo/srectools/srec"
	"github.com/embeddedgo/srectools/srectool/internal/util"
	"github.com/marcinbor85/gohex"
	"github.com/stretchr/testify/require"
)

func TestWriteHex(t *testing.T) {
	img := new(srec.Image)
	require.NoError(t, img.AddData(0x08000000, []byte{1, 2, 3, 4, 5}))
	require.NoError(t, img.AddData(0x20000000, []byte{6}))
	var buf bytes.Buffer
	meta := util.Meta{Start: 0x08000101, HasStart: true}
	require.NoError(t, WriteHex(&buf, img, meta, 16))

	mem := gohex.NewMemory()
	require.NoError(t, mem.ParseIntelHex(&buf))
	segs := mem.GetDataSegments()
	require.Len(t, segs, 2)
	require.EqualValues(t, 0x08000000, segs[0].Address)
	require.Equal(t, []byte{1, 2, 3, 4, 5}, segs[0].Data)
	require.EqualValues(t, 0x20000000, segs[1].Address)
	require.Equal(t, []byte{6}, segs[1].Data)
	start, ok := mem.GetStartAddress()
	require.True(t, ok)
	require.EqualValues(t, 0x08000101, start)
}
