// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package srec

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"slices"
)

// Block is a contiguous range of memory.
type Block struct {
	Address uint32
	Data    []byte
}

// End returns the address of the first byte after b.
func (b Block) End() uint64 {
	return uint64(b.Address) + uint64(len(b.Data))
}

// Image is a memory image: a set of blocks sorted by address. Blocks never
// overlap and are never adjacent: data added right after (or right before) a
// block is merged into it. The zero value is an empty image.
type Image struct {
	blocks []Block
}

// AddData copies data to the image at addr. If the new range overlaps an
// existing block AddData returns *OverlapError and the image is unchanged.
// Adding empty data does nothing.
func (m *Image) AddData(addr uint32, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	end := uint64(addr) + uint64(len(data))
	if end > 1<<32 {
		return fmt.Errorf("%w: %d bytes at %#x", ErrAddressOverflow, len(data), addr)
	}
	bs := m.blocks
	// bs[i] is the first block that starts above addr
	i, _ := slices.BinarySearchFunc(bs, addr, func(b Block, a uint32) int {
		if b.Address > a {
			return 1
		}
		return -1
	})
	if i > 0 && bs[i-1].End() > uint64(addr) {
		return overlapError(addr, data, bs[i-1])
	}
	if i < len(bs) && uint64(bs[i].Address) < end {
		return overlapError(addr, data, bs[i])
	}
	joinPrev := i > 0 && bs[i-1].End() == uint64(addr)
	joinNext := i < len(bs) && uint64(bs[i].Address) == end
	switch {
	case joinPrev && joinNext:
		p := &bs[i-1]
		p.Data = append(append(p.Data, data...), bs[i].Data...)
		m.blocks = slices.Delete(bs, i, i+1)
	case joinPrev:
		p := &bs[i-1]
		p.Data = append(p.Data, data...)
	case joinNext:
		n := &bs[i]
		n.Data = append(bytes.Clone(data), n.Data...)
		n.Address = addr
	default:
		m.blocks = slices.Insert(bs, i, Block{addr, bytes.Clone(data)})
	}
	return nil
}

func overlapError(addr uint32, data []byte, b Block) error {
	return &OverlapError{
		Addr:      addr,
		Len:       len(data),
		BlockAddr: b.Address,
		BlockLen:  len(b.Data),
	}
}

// AddRecord adds the payload of the data record r (S1, S2, S3) to the image.
// Other records are ignored.
func (m *Image) AddRecord(r Record) error {
	addr, data, ok := Payload(r)
	if !ok {
		return nil
	}
	return m.AddData(addr, data)
}

// AddRecords adds all data records from seq and stops at the first error.
func (m *Image) AddRecords(seq iter.Seq2[Record, error]) error {
	for r, err := range seq {
		if err != nil {
			return err
		}
		if err = m.AddRecord(r); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of blocks.
func (m *Image) Len() int { return len(m.blocks) }

// Size returns the number of bytes stored in the image.
func (m *Image) Size() int {
	n := 0
	for _, b := range m.blocks {
		n += len(b.Data)
	}
	return n
}

// Range returns the lowest address and the end of the highest block. The ok
// is false for an empty image.
func (m *Image) Range() (lo uint32, hi uint64, ok bool) {
	if len(m.blocks) == 0 {
		return 0, 0, false
	}
	return m.blocks[0].Address, m.blocks[len(m.blocks)-1].End(), true
}

// Blocks returns a copy of the blocks in ascending address order.
func (m *Image) Blocks() []Block {
	bs := make([]Block, len(m.blocks))
	for i, b := range m.blocks {
		bs[i] = Block{b.Address, bytes.Clone(b.Data)}
	}
	return bs
}

// All returns the blocks in ascending address order. The yielded data is
// owned by the image and must not be modified.
func (m *Image) All() iter.Seq[Block] {
	return func(yield func(Block) bool) {
		for _, b := range m.blocks {
			if !yield(b) {
				return
			}
		}
	}
}

// Flatten writes the image to w starting from its lowest address. The gaps
// between blocks are filled using the pad byte.
func (m *Image) Flatten(w io.Writer, pad byte) (int, error) {
	var (
		n        int
		padCache []byte
	)
	for i, b := range m.blocks {
		if i > 0 {
			gap := int(uint64(b.Address) - m.blocks[i-1].End())
			k, err := w.Write(padBytes(&padCache, gap, pad))
			n += k
			if err != nil {
				return n, err
			}
		}
		k, err := w.Write(b.Data)
		n += k
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// padBytes returns the slice containing n bytes equal b.
func padBytes(cache *[]byte, n int, b byte) []byte {
	if len(*cache) < n {
		*cache = bytes.Repeat([]byte{b}, n)
	}
	return (*cache)[:n]
}
