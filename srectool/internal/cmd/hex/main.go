// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hex

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/embeddedgo/srectools/srec"
	"github.com/embeddedgo/srectools/srectool/internal/util"
	"github.com/marcinbor85/gohex"
)

const Descr = "convert an S-record, ELF or binary file to the Intel HEX format"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s [OPTIONS] [INPUT [%s]]\nOptions:\n",
			cmd, strings.ToUpper(cmd),
		)
		fs.PrintDefaults()
	}
	inc := fs.String(
		"inc", "",
		"binary files to be included BIN1:ADDR1[,BIN2:ADDR2[,...]]",
	)
	lineLen := fs.Int("line", 16, "number of data `bytes` per line")
	fs.Parse(args)
	if fs.NArg() > 2 {
		fs.Usage()
		os.Exit(1)
	}
	in, out := util.InOutFiles(fs.Arg(0), ".srec", fs.Arg(1), ".hex")
	img := new(srec.Image)
	meta, err := util.LoadFile(img, in)
	util.FatalErr("load", err)
	if *inc != "" {
		isec, err := util.ReadBins(*inc)
		util.FatalErr("readbins", err)
		util.FatalErr("readbins", isec.AddTo(img))
	}
	of, err := util.Create(out)
	util.FatalErr("", err)
	err = WriteHex(of, img, meta, *lineLen)
	if cerr := of.Close(); err == nil {
		err = cerr
	}
	util.FatalErr("dumpintelhex", err)
}

// WriteHex writes the image in the Intel HEX format.
func WriteHex(w io.Writer, img *srec.Image, meta util.Meta, lineLen int) error {
	mem := gohex.NewMemory()
	for b := range img.All() {
		if err := mem.AddBinary(b.Address, b.Data); err != nil {
			return err
		}
	}
	if meta.HasStart {
		mem.SetStartAddress(meta.Start)
	}
	return mem.DumpIntelHex(w, lineLen)
}
