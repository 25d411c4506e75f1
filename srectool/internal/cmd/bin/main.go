// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bin

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/embeddedgo/srectools/srec"
	"github.com/embeddedgo/srectools/srectool/internal/util"
)

const (
	DescrBin = "convert an S-record, Intel HEX or ELF file to a binary image"
	DescrUF2 = "convert an S-record, Intel HEX or ELF file to the UF2 format"
)

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
	pad := fs.Uint(
		"pad", 0xff,
		"pad `byte` used to fill gaps between blocks",
	)
	var family string
	if cmd == "uf2" {
		fs.StringVar(
			&family, "family", "",
			"UF2 family `ID` (32-bit number) or a known family name:\n"+
				strings.Join(slices.Sorted(maps.Keys(uf2FamilyMap)), "\n"),
		)
	}
	fs.Parse(args)
	if fs.NArg() > 2 {
		fs.Usage()
		os.Exit(1)
	}
	in, out := util.InOutFiles(fs.Arg(0), ".srec", fs.Arg(1), "."+cmd)
	img := new(srec.Image)
	_, err := util.LoadFile(img, in)
	util.FatalErr("load", err)
	if *inc != "" {
		isec, err := util.ReadBins(*inc)
		util.FatalErr("readbins", err)
		util.FatalErr("readbins", isec.AddTo(img))
	}
	if img.Len() == 0 {
		util.Fatal("%s: no data", in)
	}
	of, err := util.Create(out)
	util.FatalErr("", err)
	switch cmd {
	case "bin":
		_, err = img.Flatten(of, byte(*pad))
		util.FatalErr("flatten", err)
	case "uf2":
		familyID, err := ParseFamily(family)
		util.FatalErr("uf2", err)
		util.FatalErr("uf2", WriteUF2(of, img, familyID, byte(*pad)))
	}
	util.FatalErr("", of.Close())
}

// ParseFamily returns the UF2 family ID for a known family name or a number.
func ParseFamily(family string) (uint32, error) {
	if id, ok := uf2FamilyMap[family]; ok {
		return id, nil
	}
	u, err := strconv.ParseUint(family, 0, 32)
	if err != nil {
		return 0, fmt.Errorf(`bad family ID: "%s"`, family)
	}
	return uint32(u), nil
}

// WriteUF2 writes the flattened image as a sequence of UF2 blocks.
func WriteUF2(w io.Writer, img *srec.Image, familyID uint32, pad byte) error {
	lo, _, ok := img.Range()
	if !ok {
		return nil
	}
	buf := bytes.NewBuffer(make([]byte, 0, img.Size()*5/4))
	if _, err := img.Flatten(buf, pad); err != nil {
		return err
	}
	u := newUF2Writer(w, lo, uf2FamilyIDPresent, familyID, buf.Len())
	if _, err := u.Write(buf.Bytes()); err != nil {
		return err
	}
	return u.Flush()
}
