// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package srec

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"iter"
	"strings"
	"unicode/utf8"
)

// ParseRecord decodes a single record. The line must not contain the line
// terminator. Characters after the declared byte count are ignored.
func ParseRecord(line string) (Record, error) {
	t, b, err := parseRaw(line)
	if err != nil {
		return nil, err
	}
	// minimum (data) or exact (count, start) payload length
	n, exact := 0, true
	switch t {
	case S0, S1:
		n, exact = 2, false
	case S2:
		n, exact = 3, false
	case S3:
		n, exact = 4, false
	case S5, S9:
		n = 2
	case S6, S8:
		n = 3
	case S7:
		n = 4
	default:
		return nil, ErrUnexpectedCharacter
	}
	if len(b) < n || exact && len(b) != n {
		return nil, ErrNotEnoughData
	}
	switch t {
	case S0:
		h := b[2:]
		if !utf8.Valid(h) {
			return nil, ErrInvalidHeader
		}
		return Header(bytes.TrimRight(h, "\x00")), nil
	case S1:
		return Data[Address16]{Address16(be(b[:2])), clone(b[2:])}, nil
	case S2:
		return Data[Address24]{Address24(be(b[:3])), clone(b[3:])}, nil
	case S3:
		return Data[Address32]{Address32(be(b[:4])), clone(b[4:])}, nil
	case S5:
		return Count16(be(b)), nil
	case S6:
		return Count24(be(b)), nil
	case S7:
		return Start[Address32]{Address32(be(b))}, nil
	case S8:
		return Start[Address24]{Address24(be(b))}, nil
	default:
		return Start[Address16]{Address16(be(b))}, nil
	}
}

// parseRaw decodes the type, checks the byte count and the checksum and
// returns the address and payload bytes.
func parseRaw(s string) (Type, []byte, error) {
	if len(s) < 1 {
		return 0, nil, ErrNotEnoughData
	}
	if s[0] != 'S' {
		return 0, nil, ErrUnexpectedCharacter
	}
	if len(s) < 2 {
		return 0, nil, ErrNotEnoughData
	}
	if s[1] < '0' || s[1] > '9' {
		return 0, nil, ErrUnexpectedCharacter
	}
	t := Type(s[1] - '0')
	s = s[2:]
	if len(s) < 2 {
		return 0, nil, ErrNotEnoughData
	}
	count, ok := hexByte(s)
	if !ok {
		return 0, nil, ErrUnexpectedCharacter
	}
	if count == 0 {
		return 0, nil, ErrByteCountZero
	}
	s = s[2:]
	// b holds the byte count and the count bytes that follow it
	b := make([]byte, 1+int(count))
	b[0] = count
	for i := 1; i < len(b); i++ {
		if len(s) < 2 {
			return 0, nil, ErrNotEnoughData
		}
		if b[i], ok = hexByte(s); !ok {
			return 0, nil, ErrUnexpectedCharacter
		}
		s = s[2:]
	}
	n := len(b) - 1
	if b[n] != Checksum(b[:n]) {
		return 0, nil, ErrChecksumMismatch
	}
	return t, b[1:n], nil
}

func hexByte(s string) (byte, bool) {
	h, ok1 := hexDigit(s[0])
	l, ok2 := hexDigit(s[1])
	return h<<4 | l, ok1 && ok2
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

// be decodes up to 4 big-endian bytes.
func be(b []byte) uint32 {
	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}
	return v
}

func clone(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return bytes.Clone(b)
}

// Reader decodes records from a line oriented input. Lines may end with "\n"
// or "\r\n" and have no length limit. Leading and trailing white space is
// ignored and blank lines are skipped.
type Reader struct {
	br   *bufio.Reader
	line int
	err  error
}

// NewReader returns a Reader that reads from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// Read returns the next record. A line that cannot be decoded is reported as
// *LineError and the next call continues with the following line. At the end
// of input Read returns io.EOF. Any other error comes from the underlying
// reader and is returned by all subsequent calls.
func (r *Reader) Read() (Record, error) {
	for r.err == nil {
		s, err := r.br.ReadString('\n')
		if err != nil {
			r.err = err
			if err != io.EOF {
				break // incomplete line
			}
		}
		if s == "" {
			continue
		}
		r.line++
		line := strings.TrimSpace(s)
		if line == "" {
			continue
		}
		rec, err := ParseRecord(line)
		if err != nil {
			return nil, &LineError{r.line, err}
		}
		return rec, nil
	}
	return nil, r.err
}

// Line returns the number of the last line read.
func (r *Reader) Line() int { return r.line }

// All returns the sequence of the remaining records. Every non-blank line
// produces one element: a record or a *LineError. An I/O error is yielded
// once and ends the sequence.
func (r *Reader) All() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for {
			rec, err := r.Read()
			if err == io.EOF {
				return
			}
			if !yield(rec, err) {
				return
			}
			var le *LineError
			if err != nil && !errors.As(err, &le) {
				return
			}
		}
	}
}

// ReadRecords returns the records of the S-record text s as a lazy sequence.
// Every range over the sequence decodes s again.
//
// The file is not validated as a whole: data records may overlap and start
// records may be duplicated.
func ReadRecords(s string) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		NewReader(strings.NewReader(s)).All()(yield)
	}
}

// ReadAll reads all records from r. It returns the records that were decoded
// and the line errors joined together. An I/O error stops reading and is
// returned alone.
func ReadAll(r io.Reader) ([]Record, error) {
	var (
		recs []Record
		errs []error
	)
	rd := NewReader(r)
	for {
		rec, err := rd.Read()
		switch {
		case err == nil:
			recs = append(recs, rec)
			continue
		case err == io.EOF:
			return recs, errors.Join(errs...)
		}
		var le *LineError
		if !errors.As(err, &le) {
			return recs, err
		}
		errs = append(errs, err)
	}
}
