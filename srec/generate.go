// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package srec

import (
	"bytes"
	"fmt"
	"iter"
)

// ChunkSize is the default number of data bytes per record.
const ChunkSize = 32

// AddrMode selects the address width of generated data records. AddrMode
// implements flag.Value.
type AddrMode int

const (
	AddrAuto AddrMode = 0  // smallest width that fits the whole image
	Addr16   AddrMode = 16 // S1 data, S9 start
	Addr24   AddrMode = 24 // S2 data, S8 start
	Addr32   AddrMode = 32 // S3 data, S7 start
)

func (m AddrMode) String() string {
	switch m {
	case AddrAuto:
		return "auto"
	case Addr16, Addr24, Addr32:
		return fmt.Sprint(int(m))
	}
	return fmt.Sprintf("AddrMode(%d)", int(m))
}

func (m *AddrMode) Set(s string) error {
	switch s {
	case "auto", "":
		*m = AddrAuto
	case "16":
		*m = Addr16
	case "24":
		*m = Addr24
	case "32":
		*m = Addr32
	default:
		return fmt.Errorf("srec: bad address mode %q (want auto, 16, 24 or 32)", s)
	}
	return nil
}

// resolve returns the address width to use for addresses up to maxAddr.
func (m AddrMode) resolve(maxAddr uint32) (AddrMode, error) {
	switch m {
	case AddrAuto:
		switch {
		case maxAddr <= 0xffff:
			return Addr16, nil
		case maxAddr <= Max24:
			return Addr24, nil
		}
		return Addr32, nil
	case Addr16:
		if maxAddr > 0xffff {
			return 0, fmt.Errorf("%w: address %#x does not fit in 16 bits", ErrRange, maxAddr)
		}
	case Addr24:
		if maxAddr > Max24 {
			return 0, fmt.Errorf("%w: address %#x does not fit in 24 bits", ErrRange, maxAddr)
		}
	case Addr32:
	default:
		return 0, fmt.Errorf("%w: unknown address mode %d", ErrRange, int(m))
	}
	return m, nil
}

// chunks splits every block of m into pieces of at most size bytes. The data
// of the yielded blocks is shared with m.
func chunks(m *Image, size int) iter.Seq[Block] {
	return func(yield func(Block) bool) {
		for b := range m.All() {
			for i := 0; i < len(b.Data); i += size {
				c := Block{b.Address + uint32(i), b.Data[i:min(i+size, len(b.Data))]}
				if !yield(c) {
					return
				}
			}
		}
	}
}

// ImageRecords splits the blocks of m into chunks of at most ChunkSize bytes
// and returns one data record for each chunk.
//
// Addr16, Addr24 and Addr32 force the record type (S1, S2, S3). ErrRange is
// returned, before any record is produced, if the address of a chunk does not
// fit in the forced width. AddrAuto uses the narrowest width that fits the
// highest chunk address for all records.
func ImageRecords(m *Image, mode AddrMode) ([]Record, error) {
	var maxAddr uint32
	for c := range chunks(m, ChunkSize) {
		maxAddr = max(maxAddr, c.Address)
	}
	width, err := mode.resolve(maxAddr)
	if err != nil {
		return nil, err
	}
	return dataRecords(m, width, ChunkSize), nil
}

func dataRecords(m *Image, width AddrMode, size int) []Record {
	var recs []Record
	for c := range chunks(m, size) {
		data := bytes.Clone(c.Data)
		switch width {
		case Addr16:
			recs = append(recs, Data[Address16]{Address16(c.Address), data})
		case Addr24:
			recs = append(recs, Data[Address24]{Address24(c.Address), data})
		default:
			recs = append(recs, Data[Address32]{Address32(c.Address), data})
		}
	}
	return recs
}

func startRecord(width AddrMode, addr uint32) Record {
	switch width {
	case Addr16:
		return Start[Address16]{Address16(addr)}
	case Addr24:
		return Start[Address24]{Address24(addr)}
	}
	return Start[Address32]{Address32(addr)}
}

type fileConfig struct {
	header    string
	hasHeader bool
	start     uint32
	hasStart  bool
	count     bool
	mode      AddrMode
	chunk     int
}

// Option configures FileRecords.
type Option func(*fileConfig)

// WithHeader adds an S0 record with the header text h.
func WithHeader(h string) Option {
	return func(c *fileConfig) {
		c.header = h
		c.hasHeader = true
	}
}

// WithStartAddress adds a start address record (S9, S8 or S7, matching the
// data records) after the data.
func WithStartAddress(addr uint32) Option {
	return func(c *fileConfig) {
		c.start = addr
		c.hasStart = true
	}
}

// WithRecordCount adds a record count record (S5 or S6) after the data.
func WithRecordCount() Option {
	return func(c *fileConfig) {
		c.count = true
	}
}

// WithAddrMode sets the address width of the data records (default
// AddrAuto).
func WithAddrMode(mode AddrMode) Option {
	return func(c *fileConfig) {
		c.mode = mode
	}
}

// WithChunkSize sets the maximum number of data bytes per record (default
// ChunkSize).
func WithChunkSize(n int) Option {
	return func(c *fileConfig) {
		c.chunk = n
	}
}

// FileRecords returns the records of a complete S-record file that holds the
// image m: an optional header, the data records, an optional record count and
// an optional start address. With AddrAuto the start address takes part in
// choosing the address width.
func FileRecords(m *Image, opts ...Option) ([]Record, error) {
	cfg := fileConfig{mode: AddrAuto, chunk: ChunkSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.chunk < 1 {
		return nil, fmt.Errorf("%w: chunk size %d", ErrRange, cfg.chunk)
	}
	var maxAddr uint32
	for c := range chunks(m, cfg.chunk) {
		maxAddr = max(maxAddr, c.Address)
	}
	if cfg.hasStart {
		maxAddr = max(maxAddr, cfg.start)
	}
	width, err := cfg.mode.resolve(maxAddr)
	if err != nil {
		return nil, err
	}
	if n := 1 + int(width)/8 + cfg.chunk; n > MaxByteCount {
		return nil, fmt.Errorf("%w: chunk size %d needs byte count %d", ErrRecordTooLong, cfg.chunk, n)
	}
	var recs []Record
	if cfg.hasHeader {
		if n := 1 + 2 + len(cfg.header); n > MaxByteCount {
			return nil, fmt.Errorf("%w: header needs byte count %d", ErrRecordTooLong, n)
		}
		recs = append(recs, Header(cfg.header))
	}
	data := dataRecords(m, width, cfg.chunk)
	recs = append(recs, data...)
	if cfg.count {
		switch n := len(data); {
		case n <= 0xffff:
			recs = append(recs, Count16(n))
		case n <= Max24:
			recs = append(recs, Count24(n))
		default:
			return nil, fmt.Errorf("%w: %d data records do not fit in a count record", ErrRange, n)
		}
	}
	if cfg.hasStart {
		recs = append(recs, startRecord(width, cfg.start))
	}
	return recs, nil
}
