// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package load

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/embeddedgo/srectools/srec"
	"github.com/embeddedgo/srectools/srectool/internal/util"
	"github.com/tarm/serial"
)

const Descr = "send the memory image to a ROM monitor over a serial port"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s [OPTIONS] [INPUT]\nOptions:\n",
			cmd,
		)
		fs.PrintDefaults()
	}
	port := fs.String("port", "/dev/ttyUSB0", "serial port `device`")
	baud := fs.Int("baud", 115200, "baud `rate`")
	ack := fs.String(
		"ack", "",
		"`byte` (character or number) the monitor sends after every record",
	)
	timeout := fs.Duration("timeout", time.Second, "acknowledge timeout")
	delay := fs.Duration("delay", 0, "pause after every record")
	quiet := fs.Bool("quiet", false, "do not print the progress bar")
	var sf util.SRECFlags
	sf.Register(fs)
	fs.Parse(args)
	if fs.NArg() > 1 {
		fs.Usage()
		os.Exit(1)
	}
	in, _ := util.InOutFiles(fs.Arg(0), ".srec", "", "")
	img := new(srec.Image)
	meta, err := util.LoadFile(img, in)
	util.FatalErr("load", err)
	opts, err := sf.Options(meta)
	util.FatalErr("", err)
	recs, err := srec.FileRecords(img, opts...)
	util.FatalErr("srec", err)

	cfg := Config{Delay: *delay}
	if *ack != "" {
		cfg.Ack, err = parseAck(*ack)
		util.FatalErr("", err)
		cfg.WaitAck = true
	}
	if !*quiet {
		cfg.Progress = func(cur, max int) {
			util.Progress("sending: ", cur, max, 1, "records")
		}
	}
	p, err := serial.OpenPort(&serial.Config{
		Name:        *port,
		Baud:        *baud,
		ReadTimeout: *timeout,
	})
	util.FatalErr("", err)
	err = Send(p, recs, cfg)
	if cerr := p.Close(); err == nil {
		err = cerr
	}
	util.FatalErr("load", err)
}

// parseAck accepts a single character or a number that fits in a byte.
func parseAck(s string) (byte, error) {
	if len(s) == 1 {
		return s[0], nil
	}
	u, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("bad ack byte '%s'", s)
	}
	return byte(u), nil
}
