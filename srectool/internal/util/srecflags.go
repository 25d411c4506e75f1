// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"flag"

	"github.com/embeddedgo/srectools/srec"
)

// SRECFlags holds the command line options that control S-record output.
type SRECFlags struct {
	Mode   srec.AddrMode
	Header string
	Start  string
	Count  bool
	Chunk  int
}

// Register defines the S-record output flags in fs.
func (f *SRECFlags) Register(fs *flag.FlagSet) {
	fs.Var(
		&f.Mode, "addr",
		"address `width` of data records: auto, 16, 24 or 32",
	)
	fs.StringVar(
		&f.Header, "header", "",
		"header `text` stored in the S0 record (default: input header)",
	)
	fs.StringVar(
		&f.Start, "start", "",
		"start `address`, none to omit the termination record\n"+
			"(default: input start address or 0)",
	)
	fs.BoolVar(&f.Count, "count", false, "write the S5/S6 record count")
	fs.IntVar(
		&f.Chunk, "chunk", srec.ChunkSize,
		"maximum number of data `bytes` per record",
	)
}

// Options returns the srec.FileRecords options described by the flags.
// The header and the start address not set by the flags are taken from meta.
func (f *SRECFlags) Options(meta Meta) ([]srec.Option, error) {
	opts := []srec.Option{
		srec.WithAddrMode(f.Mode),
		srec.WithChunkSize(f.Chunk),
	}
	header := f.Header
	if header == "" {
		header = meta.Header
	}
	if header != "" {
		opts = append(opts, srec.WithHeader(header))
	}
	switch f.Start {
	case "none":
	case "":
		opts = append(opts, srec.WithStartAddress(meta.Start))
	default:
		addr, err := ParseAddr(f.Start)
		if err != nil {
			return nil, err
		}
		opts = append(opts, srec.WithStartAddress(addr))
	}
	if f.Count {
		opts = append(opts, srec.WithRecordCount())
	}
	return opts, nil
}
