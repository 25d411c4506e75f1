// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/embeddedgo/srectools/srectool/internal/cmd/bin"
	"github.com/embeddedgo/srectools/srectool/internal/cmd/hex"
	"github.com/embeddedgo/srectools/srectool/internal/cmd/info"
	"github.com/embeddedgo/srectools/srectool/internal/cmd/load"
	"github.com/embeddedgo/srectools/srectool/internal/cmd/merge"
	srecmd "github.com/embeddedgo/srectools/srectool/internal/cmd/srec"
)

type tool struct {
	descr string
	main  func(cmd string, args []string)
}

var tools = map[string]tool{
	"bin":   {bin.DescrBin, bin.Main},
	"hex":   {hex.Descr, hex.Main},
	"info":  {info.Descr, info.Main},
	"load":  {load.Descr, load.Main},
	"merge": {merge.Descr, merge.Main},
	"srec":  {srecmd.Descr, srecmd.Main},
	"uf2":   {bin.DescrUF2, bin.Main},
}

func printToolList() {
	names := slices.Sorted(maps.Keys(tools))
	maxLen := 0
	for _, k := range names {
		if maxLen < len(k) {
			maxLen = len(k)
		}
	}
	uw := os.Stderr
	uw.WriteString("Usage:\n  srectool COMMAND [ARGUMENTS]\n\n")
	uw.WriteString("Available commands:\n")
	for _, name := range names {
		fmt.Fprintf(uw, "  %*s  %s\n", maxLen, name, tools[name].descr)
	}
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" {
		printToolList()
		return
	}
	tool, ok := tools[os.Args[1]]
	if !ok {
		printToolList()
		os.Exit(1)
	}
	tool.main(os.Args[1], os.Args[2:])
}
