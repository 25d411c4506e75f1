// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package info

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/embeddedgo/srectools/srec"
	"github.com/stretchr/testify/require"
)

const demo = "S00600004844521B\n" +
	"S10500001122C7\n" +
	"S1050000FFFFFB\n" + // checksum mismatch
	"S10500011122C6\n" + // overlaps the first record
	"S10500101122B7\n" +
	"S5030003F9\n" +
	"S9030000FC\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	name = filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
	return name
}

func TestInspectSREC(t *testing.T) {
	r, err := Inspect(writeFile(t, "demo.srec", demo))
	require.NoError(t, err)
	require.Equal(t, "srec", r.Format)
	require.Equal(t, "HDR", r.Header)
	require.True(t, r.HasStart)
	require.Zero(t, r.Start)
	require.True(t, r.HasCount)
	require.EqualValues(t, 3, r.Count)
	require.Equal(t, 3, r.DataRecords())
	require.Equal(t, 1, r.Records[srec.S0])
	require.Equal(t, 1, r.Records[srec.S9])
	require.Len(t, r.Errors, 2)
	require.ErrorIs(t, r.Errors[0], srec.ErrChecksumMismatch)
	require.ErrorContains(t, r.Errors[0], "line 3")
	require.ErrorIs(t, r.Errors[1], srec.ErrOverlap)
	require.ErrorContains(t, r.Errors[1], "line 4")

	require.Equal(t, []BlockInfo{
		{0x00, 2, xxhash.Sum64([]byte{0x11, 0x22})},
		{0x10, 2, xxhash.Sum64([]byte{0x11, 0x22})},
	}, r.Blocks)
	require.Equal(t, 4, r.Size)

	var buf bytes.Buffer
	r.Print(&buf, false)
	out := buf.String()
	require.Contains(t, out, `header:  "HDR"`)
	require.Contains(t, out, "records: S0:1 S1:3 S5:1 S9:1")
	require.Contains(t, out, "4 bytes in 2 blocks")
	require.Contains(t, out, "errors:  2")
	require.Contains(t, out, "start:   0x00000000\n")
	require.Contains(t, out, "    0x00000010-0x00000012        2  xxh64")
	require.NotContains(t, out, "count:")
}

func TestInspectDigest(t *testing.T) {
	// The same memory content gives the same digest regardless of format.
	a, err := Inspect(writeFile(t, "a.srec", "S10500001122C7\nS10500021122C5\n"))
	require.NoError(t, err)
	b, err := Inspect(writeFile(t, "b.bin", "\x11\x22\x11\x22"))
	require.NoError(t, err)
	require.Equal(t, a.Digest, b.Digest)
	require.Equal(t, "bin", b.Format)
	require.Len(t, a.Blocks, 1)

	c, err := Inspect(writeFile(t, "c.srec", "S10500011122C6\nS10500031122C4\n"))
	require.NoError(t, err)
	require.NotEqual(t, a.Digest, c.Digest)
}

func TestInspectAll(t *testing.T) {
	good := writeFile(t, "good.srec", "S10500001122C7\n")
	missing := filepath.Join(t.TempDir(), "missing.srec")
	reports, err := InspectAll([]string{good, missing, good})
	require.Error(t, err)
	require.Len(t, reports, 3)
	require.NotNil(t, reports[0])
	require.Nil(t, reports[1])
	require.NotNil(t, reports[2])
	require.Equal(t, good, reports[2].Name)
}

func TestPrintCountMismatch(t *testing.T) {
	r, err := Inspect(writeFile(t, "c.srec", "S10500001122C7\nS5030005F7\n"))
	require.NoError(t, err)
	var buf bytes.Buffer
	r.Print(&buf, false)
	require.Contains(t, buf.String(), "count:   5, expected 1")
}
