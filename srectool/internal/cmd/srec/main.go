// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package srec

import (
	"flag"
	"fmt"
	"os"

	"github.com/embeddedgo/srectools/srec"
	"github.com/embeddedgo/srectools/srectool/internal/util"
)

const Descr = "convert an ELF, Intel HEX or binary file to the S-record format"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s [OPTIONS] [INPUT [SREC]]\nOptions:\n",
			cmd,
		)
		fs.PrintDefaults()
	}
	inc := fs.String(
		"inc", "",
		"binary files to be included BIN1:ADDR1[,BIN2:ADDR2[,...]]",
	)
	var sf util.SRECFlags
	sf.Register(fs)
	fs.Parse(args)
	if fs.NArg() > 2 {
		fs.Usage()
		os.Exit(1)
	}
	in, out := util.InOutFiles(fs.Arg(0), ".elf", fs.Arg(1), ".srec")
	img := new(srec.Image)
	meta, err := util.LoadFile(img, in)
	util.FatalErr("load", err)
	if *inc != "" {
		isec, err := util.ReadBins(*inc)
		util.FatalErr("readbins", err)
		util.FatalErr("readbins", isec.AddTo(img))
	}
	opts, err := sf.Options(meta)
	util.FatalErr("", err)
	recs, err := srec.FileRecords(img, opts...)
	util.FatalErr("srec", err)
	util.FatalErr("", util.WriteRecords(out, recs))
}
