// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package info

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/embeddedgo/srectools/srec"
	"github.com/embeddedgo/srectools/srectool/internal/util"
)

// maxListed is the number of errors and blocks printed in the non-verbose
// mode.
const maxListed = 8

type BlockInfo struct {
	Address uint32
	Len     int
	Digest  uint64 // xxHash64 of the block data
}

// Report describes the content of a memory image file.
type Report struct {
	Name     string
	Format   string
	Header   string
	Start    uint32
	HasStart bool
	Records  [10]int // number of records of every type, S-record files only
	Count    uint32  // value of the last S5/S6 record
	HasCount bool
	Errors   []error // malformed lines and overlapping data
	Blocks   []BlockInfo
	Size     int
	Digest   uint64 // xxHash64 of all block addresses and data
}

// Inspect reads the named file and describes its content. S-record files are
// read to the end: malformed lines and overlapping data records are reported
// in the Errors field.
func Inspect(name string) (*Report, error) {
	r := &Report{Name: name, Format: util.Format(name)}
	img := new(srec.Image)
	if r.Format == "srec" {
		if err := r.readSREC(img); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	} else {
		if r.Format == "" {
			r.Format = "elf"
		}
		meta, err := util.LoadFile(img, name)
		if err != nil {
			return nil, err
		}
		r.Header, r.Start, r.HasStart = meta.Header, meta.Start, meta.HasStart
	}
	r.summarize(img)
	return r, nil
}

func (r *Report) readSREC(img *srec.Image) error {
	f, err := util.Open(r.Name)
	if err != nil {
		return err
	}
	defer f.Close()
	sr := srec.NewReader(f)
	for rec, err := range sr.All() {
		if err != nil {
			var le *srec.LineError
			if !errors.As(err, &le) {
				return err
			}
			r.Errors = append(r.Errors, err)
			continue
		}
		r.Records[rec.Type()]++
		switch rec := rec.(type) {
		case srec.Header:
			r.Header = string(rec)
		case srec.Count16:
			r.Count, r.HasCount = uint32(rec), true
		case srec.Count24:
			r.Count, r.HasCount = uint32(rec), true
		default:
			if addr, ok := srec.StartAddress(rec); ok {
				r.Start, r.HasStart = addr, true
				continue
			}
			if err := img.AddRecord(rec); err != nil {
				r.Errors = append(r.Errors, &srec.LineError{Line: sr.Line(), Err: err})
			}
		}
	}
	return nil
}

func (r *Report) summarize(img *srec.Image) {
	h := xxhash.New()
	var addr [4]byte
	for b := range img.All() {
		r.Blocks = append(r.Blocks, BlockInfo{
			Address: b.Address,
			Len:     len(b.Data),
			Digest:  xxhash.Sum64(b.Data),
		})
		binary.BigEndian.PutUint32(addr[:], b.Address)
		h.Write(addr[:])
		h.Write(b.Data)
	}
	r.Size = img.Size()
	r.Digest = h.Sum64()
}

// DataRecords returns the number of S1, S2 and S3 records.
func (r *Report) DataRecords() int {
	return r.Records[srec.S1] + r.Records[srec.S2] + r.Records[srec.S3]
}

// Print writes the human readable report to w.
func (r *Report) Print(w io.Writer, verbose bool) {
	fmt.Fprintf(w, "%s (%s):\n", r.Name, r.Format)
	if r.Header != "" {
		fmt.Fprintf(w, "  header:  %q\n", r.Header)
	}
	if r.Format == "srec" {
		fmt.Fprint(w, "  records:")
		for t, n := range r.Records {
			if n != 0 {
				fmt.Fprintf(w, " %v:%d", srec.Type(t), n)
			}
		}
		fmt.Fprintln(w)
		if r.HasCount && int(r.Count) != r.DataRecords() {
			fmt.Fprintf(
				w, "  count:   %d, expected %d\n", r.Count, r.DataRecords(),
			)
		}
	}
	if r.HasStart {
		fmt.Fprintf(w, "  start:   %#010x\n", r.Start)
	}
	fmt.Fprintf(
		w, "  data:    %d bytes in %d blocks, xxh64 %016x\n",
		r.Size, len(r.Blocks), r.Digest,
	)
	for i, b := range r.Blocks {
		if i == maxListed && !verbose {
			fmt.Fprintf(w, "    ... %d more\n", len(r.Blocks)-i)
			break
		}
		fmt.Fprintf(
			w, "    %#010x-%#010x %8d  xxh64 %016x\n",
			b.Address, uint64(b.Address)+uint64(b.Len), b.Len, b.Digest,
		)
	}
	if len(r.Errors) != 0 {
		fmt.Fprintf(w, "  errors:  %d\n", len(r.Errors))
		for i, err := range r.Errors {
			if i == maxListed && !verbose {
				fmt.Fprintf(w, "    ... %d more\n", len(r.Errors)-i)
				break
			}
			fmt.Fprintf(w, "    %v\n", err)
		}
	}
}
