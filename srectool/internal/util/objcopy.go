// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"bytes"
	"debug/elf"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/embeddedgo/srectools/srec"
)

type Section struct {
	Vaddr  uint64 // address in the memory during execution
	Paddr  uint64 // phisical location of the section in the Flash/ROM
	Offset uint64 // offset in the ELF file to the beggining of the section data
	Data   []byte // section data
}

type Sections []*Section

// ReadELF reads the loadable sections of the program and returns them as
// a slice together with the program entry point. The order of the returned
// sections is unspecified.
func ReadELF(r io.ReaderAt) (Sections, uint64, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	ss := make(Sections, 0, 16)
	for i, s := range f.Sections {
		if s.Type != elf.SHT_PROGBITS || s.Flags&elf.SHF_ALLOC == 0 {
			if k := i + 1; k < len(f.Sections) && len(ss) != 0 {
				ns := f.Sections[k]
				if ns.Type == elf.SHT_PROGBITS && ns.Flags&elf.SHF_ALLOC != 0 {
					// Log the non-loadable sections between loadable ones.
					Warn(
						"readelf: skipping section '%s' (%d bytes)",
						s.Name, ns.Size,
					)
				}
			}
			continue
		}
		data, err := s.Data()
		if err != nil {
			return nil, 0, err
		}
		if len(data) == 0 {
			continue
		}
		paddr := ^uint64(0)
		for _, p := range f.Progs {
			if p.Type != elf.PT_LOAD {
				continue
			}
			if p.Off <= s.Offset && s.Offset < p.Off+p.Filesz {
				paddr = p.Paddr + s.Offset - p.Off
				break
			}
		}
		ss = append(ss, &Section{s.Addr, paddr, s.Offset, data})
	}
	return ss, f.Entry, nil
}

// ReadBins reads binary files acording to the description and returns them
// as a slice of sections.
func ReadBins(descr string) (Sections, error) {
	bins := strings.Split(descr, ",")
	ss := make(Sections, len(bins))
	for k, ba := range bins {
		i := strings.LastIndexByte(ba, ':')
		if i <= 0 {
			return nil, fmt.Errorf("bad '%s' in the -inc option", ba)
		}
		bin, addr := ba[:i], ba[i+1:]
		paddr, err := ParseAddr(addr)
		if err != nil {
			return nil, err
		}
		data, err := readFile(bin)
		if err != nil {
			return nil, err
		}
		ss[k] = &Section{Paddr: uint64(paddr), Data: data}
	}
	return ss, nil
}

// readFile reads the whole, possibly compressed, file.
func readFile(name string) ([]byte, error) {
	r, err := Open(name)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if cerr := r.Close(); err == nil {
		err = cerr
	}
	return data, err
}

// SortByPaddr sorts sections according to the Paddr field.
func (ss Sections) SortByPaddr() {
	sort.Slice(
		ss,
		func(i, j int) bool {
			return ss[i].Paddr < ss[j].Paddr
		},
	)
}

// Size returns the total number of data bytes in all sections.
func (ss Sections) Size() int {
	n := 0
	for _, s := range ss {
		n += len(s.Data)
	}
	return n
}

// AddTo adds the sections to the memory image at their physical addresses.
func (ss Sections) AddTo(m *srec.Image) error {
	for _, s := range ss {
		if s.Paddr+uint64(len(s.Data)) > 1<<32 {
			return fmt.Errorf(
				"section at %#x (%d bytes) doesn't fit in 32-bit address space",
				s.Paddr, len(s.Data),
			)
		}
		if err := m.AddData(uint32(s.Paddr), s.Data); err != nil {
			return err
		}
	}
	return nil
}

// ReadELFFile is like ReadELF but reads the named, possibly compressed, file.
func ReadELFFile(name string) (Sections, uint64, error) {
	if Compression(name) == "" {
		f, err := os.Open(name)
		if err != nil {
			return nil, 0, err
		}
		defer f.Close()
		return ReadELF(f)
	}
	data, err := readFile(name)
	if err != nil {
		return nil, 0, err
	}
	return ReadELF(bytes.NewReader(data))
}
