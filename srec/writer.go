// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package srec

import (
	"fmt"
	"io"
)

// MaxByteCount is the largest value of the byte count field.
const MaxByteCount = 255

const hexDigits = "0123456789ABCDEF"

// AppendRecord appends the text of r to dst, without a line terminator.
// Uppercase hexadecimal digits are used.
func AppendRecord(dst []byte, r Record) ([]byte, error) {
	f := r.field()
	switch v := f.(type) {
	case Address24:
		if !v.Valid() {
			return dst, fmt.Errorf("%w: %s address %#x exceeds 24 bits", ErrRange, r.Type(), uint32(v))
		}
	case Count24:
		if !v.Valid() {
			return dst, fmt.Errorf("%w: %s count %d exceeds 24 bits", ErrRange, r.Type(), uint32(v))
		}
	}
	p := r.payload()
	n := 1 + f.Width() + len(p)
	if n > MaxByteCount {
		return dst, fmt.Errorf("%w: %s at %#x needs byte count %d", ErrRecordTooLong, r.Type(), f.Uint32(), n)
	}
	b := make([]byte, 0, n+1)
	b = append(b, byte(n))
	b = f.AppendBytes(b)
	b = append(b, p...)
	b = append(b, Checksum(b))
	dst = append(dst, 'S', '0'+byte(r.Type()))
	return appendHex(dst, b), nil
}

func appendHex(dst, b []byte) []byte {
	for _, c := range b {
		dst = append(dst, hexDigits[c>>4], hexDigits[c&15])
	}
	return dst
}

// Encode returns the text of r without a line terminator.
func Encode(r Record) (string, error) {
	b, err := AppendRecord(nil, r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// GenerateFile encodes records one per line. Every record, including the
// last one, is followed by "\n".
//
// The records are not validated as a whole. The caller is responsible for
// their order and for avoiding overlapping data or duplicated start records.
func GenerateFile(records []Record) (string, error) {
	var buf []byte
	for _, r := range records {
		var err error
		if buf, err = AppendRecord(buf, r); err != nil {
			return "", err
		}
		buf = append(buf, '\n')
	}
	return string(buf), nil
}

// Writer writes records to an io.Writer, one per line.
type Writer struct {
	w     io.Writer
	buf   []byte
	count int
}

// NewWriter returns a Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, buf: make([]byte, 0, 2*(MaxByteCount+3))}
}

// WriteRecord encodes r and writes it followed by "\n". Nothing is written if
// r cannot be encoded.
func (w *Writer) WriteRecord(r Record) error {
	b, err := AppendRecord(w.buf[:0], r)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	w.buf = b
	if _, err = w.w.Write(b); err != nil {
		return err
	}
	switch r.Type() {
	case S1, S2, S3:
		w.count++
	}
	return nil
}

// WriteRecords writes records in order and stops at the first error.
func (w *Writer) WriteRecords(records []Record) error {
	for _, r := range records {
		if err := w.WriteRecord(r); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of data records written so far.
func (w *Writer) Count() int { return w.count }
