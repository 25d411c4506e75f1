// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package load

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/embeddedgo/srectools/srec"
)

var ErrNoAck = errors.New("no acknowledge from the target")

type Config struct {
	Ack      byte
	WaitAck  bool
	Delay    time.Duration
	Progress func(cur, max int)
}

// Send writes the records to the port, one line at a time. If cfg.WaitAck is
// set, Send waits for the cfg.Ack byte after every record. The port read
// timeout (if any) limits this wait: a read that returns no data is treated
// as a missing acknowledge.
func Send(port io.ReadWriter, recs []srec.Record, cfg Config) error {
	var (
		line []byte
		resp [1]byte
		err  error
	)
	for i, r := range recs {
		line, err = srec.AppendRecord(line[:0], r)
		if err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
		line = append(line, '\r', '\n')
		if _, err = port.Write(line); err != nil {
			return err
		}
		if cfg.WaitAck {
			n, err := port.Read(resp[:])
			if err != nil && err != io.EOF {
				return err
			}
			if n == 0 {
				return fmt.Errorf("record %d: %w", i+1, ErrNoAck)
			}
			if resp[0] != cfg.Ack {
				return fmt.Errorf(
					"record %d: unexpected response %#02x", i+1, resp[0],
				)
			}
		}
		if cfg.Delay != 0 {
			time.Sleep(cfg.Delay)
		}
		if cfg.Progress != nil {
			cfg.Progress(i+1, len(recs))
		}
	}
	return nil
}
