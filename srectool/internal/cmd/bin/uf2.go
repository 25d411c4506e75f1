// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bin

import (
	"encoding/binary"
	"io"
)

const (
	uf2Magic0 = 0x0a324655
	uf2Magic1 = 0x9e5d5157
	uf2Magic2 = 0x0ab16f30

	uf2FamilyIDPresent = 0x00002000
)

var uf2FamilyMap = map[string]uint32{
	"rp2040":        0xe48bff56,
	"absolute":      0xe48bff57,
	"data":          0xe48bff58,
	"rp2350_arm_s":  0xe48bff59,
	"rp2350_riscv":  0xe48bff5a,
	"rp2350_arm_ns": 0xe48bff5b,
	"stm32f4":       0x57755a57,
	"stm32l4":       0x00ff6919,
	"samd21":        0x68ed2b88,
	"samd51":        0x55114460,
	"nrf52840":      0xada52840,
}

// uf2block is the 512-byte UF2 block. Only the first 256 bytes of the data
// area are used.
type uf2block struct {
	Magic0 uint32
	Magic1 uint32
	Flags  uint32
	Addr   uint32
	Len    uint32
	Seq    uint32
	Total  uint32
	Family uint32
	Data   [256]byte
	_      [476 - 256]byte
	Magic2 uint32
}

// uf2Writer splits the written data into consecutive UF2 blocks.
type uf2Writer struct {
	w io.Writer
	b uf2block
}

func newUF2Writer(w io.Writer, addr, flags, family uint32, size int) *uf2Writer {
	u := &uf2Writer{w: w}
	u.b = uf2block{
		Magic0: uf2Magic0,
		Magic1: uf2Magic1,
		Flags:  flags,
		Addr:   addr,
		Total:  uint32((size + len(u.b.Data) - 1) / len(u.b.Data)),
		Family: family,
		Magic2: uf2Magic2,
	}
	return u
}

func (u *uf2Writer) emit() error {
	b := &u.b
	clear(b.Data[b.Len:])
	b.Len = uint32(len(b.Data))
	if err := binary.Write(u.w, binary.LittleEndian, b); err != nil {
		return err
	}
	b.Addr += b.Len
	b.Seq++
	b.Len = 0
	return nil
}

func (u *uf2Writer) Write(p []byte) (n int, err error) {
	b := &u.b
	for len(p) != 0 {
		m := copy(b.Data[b.Len:], p)
		n += m
		p = p[m:]
		b.Len += uint32(m)
		if int(b.Len) == len(b.Data) {
			if err = u.emit(); err != nil {
				return
			}
		}
	}
	return
}

// Flush writes the last, partially filled block padded with zeros.
func (u *uf2Writer) Flush() error {
	if u.b.Len == 0 {
		return nil
	}
	return u.emit()
}
