// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/embeddedgo/srectools/srec"
	"github.com/marcinbor85/gohex"
)

// Format returns the file format implied by the name suffix, ignoring the
// compression suffix: "elf", "hex", "srec", "bin" or "" if unknown.
func Format(name string) string {
	if Compression(name) != "" {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".elf":
		return "elf"
	case ".hex", ".ihex", ".ihx":
		return "hex"
	case ".srec", ".s19", ".s28", ".s37", ".mot", ".sx":
		return "srec"
	case ".bin":
		return "bin"
	}
	return ""
}

// Meta contains the information stored in the input file besides the
// memory content.
type Meta struct {
	Header   string // content of the S0 record
	Start    uint32 // start address
	HasStart bool
}

// LoadFile adds the memory content stored in the named file to m. The file
// format is determined by the name suffix. Files of unknown format are read
// as ELF. Raw binaries are placed at address zero.
func LoadFile(m *srec.Image, name string) (meta Meta, err error) {
	switch Format(name) {
	case "srec":
		meta, err = loadSREC(m, name)
	case "hex":
		meta, err = loadHex(m, name)
	case "bin":
		var data []byte
		if data, err = readFile(name); err == nil {
			err = m.AddData(0, data)
		}
	default:
		meta, err = loadELF(m, name)
	}
	if err != nil {
		err = fmt.Errorf("%s: %w", name, err)
	}
	return
}

func loadELF(m *srec.Image, name string) (meta Meta, err error) {
	ss, entry, err := ReadELFFile(name)
	if err != nil {
		return
	}
	if err = ss.AddTo(m); err != nil {
		return
	}
	if entry <= 1<<32-1 {
		meta.Start, meta.HasStart = uint32(entry), true
	}
	return
}

func loadHex(m *srec.Image, name string) (meta Meta, err error) {
	r, err := Open(name)
	if err != nil {
		return
	}
	defer r.Close()
	mem := gohex.NewMemory()
	if err = mem.ParseIntelHex(r); err != nil {
		return
	}
	for _, seg := range mem.GetDataSegments() {
		if err = m.AddData(seg.Address, seg.Data); err != nil {
			return
		}
	}
	meta.Start, meta.HasStart = mem.GetStartAddress()
	return
}

func loadSREC(m *srec.Image, name string) (meta Meta, err error) {
	r, err := Open(name)
	if err != nil {
		return
	}
	defer r.Close()
	err = ReadSREC(m, r, &meta)
	return
}

// ReadSREC reads S-records from r and adds their data to m. The header and
// the start address are stored in meta. Reading stops at the first
// malformed record.
func ReadSREC(m *srec.Image, r io.Reader, meta *Meta) error {
	sr := srec.NewReader(r)
	for rec, err := range sr.All() {
		if err != nil {
			return err
		}
		switch rec := rec.(type) {
		case srec.Header:
			meta.Header = string(rec)
		default:
			if addr, ok := srec.StartAddress(rec); ok {
				meta.Start, meta.HasStart = addr, true
				continue
			}
			if err := m.AddRecord(rec); err != nil {
				return fmt.Errorf("line %d: %w", sr.Line(), err)
			}
		}
	}
	return nil
}

// WriteRecords writes the records to the named, possibly compressed, file.
func WriteRecords(name string, recs []srec.Record) error {
	f, err := Create(name)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	err = srec.NewWriter(bw).WriteRecords(recs)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
