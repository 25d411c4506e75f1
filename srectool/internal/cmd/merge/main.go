// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package merge

import (
	"flag"
	"fmt"
	"os"

	"github.com/embeddedgo/srectools/srec"
	"github.com/embeddedgo/srectools/srectool/internal/util"
)

const Descr = "merge S-record, Intel HEX, ELF and binary files into one S-record file"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s [OPTIONS] SREC INPUT1 [INPUT2 ...]\nOptions:\n",
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
	if fs.NArg() < 2 {
		fs.Usage()
		os.Exit(1)
	}
	img := new(srec.Image)
	meta, err := Merge(img, fs.Args()[1:])
	util.FatalErr("merge", err)
	if *inc != "" {
		isec, err := util.ReadBins(*inc)
		util.FatalErr("readbins", err)
		util.FatalErr("readbins", isec.AddTo(img))
	}
	opts, err := sf.Options(meta)
	util.FatalErr("", err)
	recs, err := srec.FileRecords(img, opts...)
	util.FatalErr("srec", err)
	util.FatalErr("", util.WriteRecords(fs.Arg(0), recs))
}

// Merge loads the named files into img. Overlapping data is an error. The
// returned meta contains the first header and the first start address found
// in the input files.
func Merge(img *srec.Image, names []string) (util.Meta, error) {
	var meta util.Meta
	for _, name := range names {
		m, err := util.LoadFile(img, name)
		if err != nil {
			return meta, err
		}
		if meta.Header == "" {
			meta.Header = m.Header
		}
		if !meta.HasStart && m.HasStart {
			meta.Start, meta.HasStart = m.Start, true
		}
	}
	return meta, nil
}
