// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package load

import (
	"bytes"
	"testing"

	"github.com/embeddedgo/srectools/srec"
	"github.com/stretchr/testify/require"
)

// fakePort records the written data and replies from a fixed response.
type fakePort struct {
	out  bytes.Buffer
	resp bytes.Buffer
}

func (p *fakePort) Write(b []byte) (int, error) { return p.out.Write(b) }

func (p *fakePort) Read(b []byte) (int, error) {
	if p.resp.Len() == 0 {
		return 0, nil // timeout
	}
	return p.resp.Read(b)
}

var recs = []srec.Record{
	srec.Header("HDR"),
	srec.Data[srec.Address16]{0x1234, []byte{1, 2}},
	srec.Start[srec.Address16]{0x1234},
}

func TestSend(t *testing.T) {
	var p fakePort
	var progress []int
	cfg := Config{Progress: func(cur, max int) {
		require.Equal(t, 3, max)
		progress = append(progress, cur)
	}}
	require.NoError(t, Send(&p, recs, cfg))
	require.Equal(t,
		"S00600004844521B\r\nS10512340102B1\r\nS9031234B6\r\n",
		p.out.String(),
	)
	require.Equal(t, []int{1, 2, 3}, progress)
}

func TestSendAck(t *testing.T) {
	p := new(fakePort)
	p.resp.WriteString("***")
	cfg := Config{Ack: '*', WaitAck: true}
	require.NoError(t, Send(p, recs, cfg))

	p = new(fakePort)
	p.resp.WriteString("*")
	require.ErrorIs(t, Send(p, recs, cfg), ErrNoAck)
	require.Equal(t, 2, bytes.Count(p.out.Bytes(), []byte("\r\n")))

	p = new(fakePort)
	p.resp.WriteString("*!")
	require.ErrorContains(t, Send(p, recs, cfg), "record 2: unexpected response")
}

func TestSendBadRecord(t *testing.T) {
	var p fakePort
	bad := []srec.Record{srec.Data[srec.Address24]{1 << 24, nil}}
	require.ErrorIs(t, Send(&p, bad, Config{}), srec.ErrRange)
	require.Zero(t, p.out.Len())
}

func TestParseAck(t *testing.T) {
	b, err := parseAck("*")
	require.NoError(t, err)
	require.Equal(t, byte('*'), b)
	b, err = parseAck("0x06")
	require.NoError(t, err)
	require.Equal(t, byte(6), b)
	_, err = parseAck("0x100")
	require.Error(t, err)
}
