// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package srec

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{"S0 empty", Header(""), "S0030000FC"},
		{"S0 text", Header("HDR"), "S00600004844521B"},
		{"S1 empty", Data[Address16]{Address: 0x1234}, "S1031234B6"},
		{"S1 data", Data[Address16]{0x1234, []byte{0, 1, 2, 3}}, "S107123400010203AC"},
		{"S2 empty", Data[Address24]{Address: 0x123456}, "S2041234565F"},
		{"S2 data", Data[Address24]{0x123456, []byte{0, 1, 2, 3}}, "S2081234560001020355"},
		{"S3 empty", Data[Address32]{Address: 0x12345678}, "S30512345678E6"},
		{"S3 data", Data[Address32]{0x12345678, []byte{0, 1, 2, 3}}, "S3091234567800010203DC"},
		{"S5", Count16(0x1234), "S5031234B6"},
		{"S6", Count24(0x123456), "S6041234565F"},
		{"S7", Start[Address32]{0x12345678}, "S70512345678E6"},
		{"S8", Start[Address24]{0x123456}, "S8041234565F"},
		{"S9", Start[Address16]{0x1234}, "S9031234B6"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Encode(tt.rec)
			require.NoError(t, err)
			require.Equal(t, tt.want, s)
		})
	}
}

func TestEncodeLimits(t *testing.T) {
	s, err := Encode(Data[Address16]{0, make([]byte, 252)})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(s, "S1FF0000"))

	_, err = Encode(Data[Address16]{0, make([]byte, 253)})
	require.ErrorIs(t, err, ErrRecordTooLong)

	_, err = Encode(Data[Address32]{0, make([]byte, 251)})
	require.ErrorIs(t, err, ErrRecordTooLong)

	_, err = Encode(Header(strings.Repeat("x", 253)))
	require.ErrorIs(t, err, ErrRecordTooLong)

	_, err = Encode(Data[Address24]{Max24 + 1, nil})
	require.ErrorIs(t, err, ErrRange)

	_, err = Encode(Start[Address24]{1 << 30})
	require.ErrorIs(t, err, ErrRange)

	_, err = Encode(Count24(1 << 24))
	require.ErrorIs(t, err, ErrRange)
}

func TestGenerateFile(t *testing.T) {
	s, err := GenerateFile(demoRecords)
	require.NoError(t, err)
	require.Equal(t, demoFile, s)

	s, err = GenerateFile(nil)
	require.NoError(t, err)
	require.Empty(t, s)

	_, err = GenerateFile([]Record{Header("ok"), Data[Address24]{1 << 24, nil}})
	require.ErrorIs(t, err, ErrRange)
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteRecords(demoRecords))
	require.Equal(t, demoFile, buf.String())
	require.Equal(t, 2, w.Count())

	err := w.WriteRecord(Data[Address16]{0, make([]byte, 300)})
	require.ErrorIs(t, err, ErrRecordTooLong)
	require.Equal(t, demoFile, buf.String())
	require.Equal(t, 2, w.Count())
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestWriterError(t *testing.T) {
	w := NewWriter(failWriter{})
	require.EqualError(t, w.WriteRecord(Header("")), "disk full")
	require.Zero(t, w.Count())
}

func TestRoundTrip(t *testing.T) {
	s, err := GenerateFile(demoRecords)
	require.NoError(t, err)
	recs, errs := collect(ReadRecords(s))
	require.Empty(t, errs)
	require.Equal(t, demoRecords, recs)

	recs, errs = collect(ReadRecords(demoFile))
	require.Empty(t, errs)
	s, err = GenerateFile(recs)
	require.NoError(t, err)
	require.Equal(t, demoFile, s)
}

func randomRecord(rnd *rand.Rand) Record {
	data := func(max int) []byte {
		n := rnd.IntN(max + 1)
		if n == 0 {
			return nil
		}
		b := make([]byte, n)
		for i := range b {
			b[i] = byte(rnd.Uint32())
		}
		return b
	}
	switch rnd.IntN(9) {
	case 0:
		// printable ASCII without NUL, trailing NULs are trimmed on decode
		b := data(252)
		for i := range b {
			b[i] = ' ' + b[i]%95
		}
		return Header(b)
	case 1:
		return Data[Address16]{Address16(rnd.Uint32()), data(252)}
	case 2:
		return Data[Address24]{Address24(rnd.Uint32() & Max24), data(251)}
	case 3:
		return Data[Address32]{Address32(rnd.Uint32()), data(250)}
	case 4:
		return Count16(rnd.Uint32())
	case 5:
		return Count24(rnd.Uint32() & Max24)
	case 6:
		return Start[Address32]{Address32(rnd.Uint32())}
	case 7:
		return Start[Address24]{Address24(rnd.Uint32() & Max24)}
	}
	return Start[Address16]{Address16(rnd.Uint32())}
}

func TestRoundTripRandom(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 50; i++ {
		recs := make([]Record, 1+rnd.IntN(40))
		for k := range recs {
			recs[k] = randomRecord(rnd)
		}
		s, err := GenerateFile(recs)
		require.NoError(t, err)
		got, errs := collect(ReadRecords(s))
		require.Empty(t, errs)
		require.True(t, EqualAll(recs, got), "iteration %d", i)
	}
}
