// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package info

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/embeddedgo/srectools/srectool/internal/util"
	"golang.org/x/sync/errgroup"
)

const Descr = "print the content summary and checksums of memory image files"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s [OPTIONS] [FILE ...]\nOptions:\n",
			cmd,
		)
		fs.PrintDefaults()
	}
	verbose := fs.Bool("v", false, "print all malformed lines and all blocks")
	fs.Parse(args)
	names := fs.Args()
	if len(names) == 0 {
		in, _ := util.InOutFiles("", ".srec", "", "")
		names = []string{in}
	}
	reports, err := InspectAll(names)
	for _, r := range reports {
		if r != nil {
			r.Print(os.Stdout, *verbose)
		}
	}
	util.FatalErr("info", err)
}

// InspectAll inspects the named files concurrently. The reports are returned
// in the order of names. A nil report means the file couldn't be read.
func InspectAll(names []string) ([]*Report, error) {
	reports := make([]*Report, len(names))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range names {
		g.Go(func() error {
			r, err := Inspect(name)
			reports[i] = r
			return err
		})
	}
	return reports, g.Wait()
}
