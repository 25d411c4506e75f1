// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package srec

import (
	"errors"
	"fmt"
)

// Errors returned when decoding a record.
var (
	ErrNotEnoughData       = errors.New("srec: not enough data")
	ErrUnexpectedCharacter = errors.New("srec: unexpected character")
	ErrByteCountZero       = errors.New("srec: byte count is zero")
	ErrChecksumMismatch    = errors.New("srec: checksum mismatch")
	ErrInvalidHeader       = errors.New("srec: header is not valid UTF-8")
)

// Errors returned when encoding records or building an image.
var (
	ErrRecordTooLong   = errors.New("srec: record longer than 255 bytes")
	ErrRange           = errors.New("srec: value out of range")
	ErrOverlap         = errors.New("srec: overlapping data")
	ErrAddressOverflow = errors.New("srec: data extends past the 32-bit address space")
)

// LineError reports a record that could not be decoded.
type LineError struct {
	Line int // 1-based line number in the input
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// OverlapError is returned by Image.AddData when the new data overlaps an
// existing block. The image is left unchanged.
type OverlapError struct {
	Addr      uint32 // address of the rejected data
	Len       int    // length of the rejected data
	BlockAddr uint32 // existing block it overlaps
	BlockLen  int
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf(
		"srec: new data (at %#x, length %#x) overlaps existing block (at %#x, length %#x)",
		e.Addr, e.Len, e.BlockAddr, e.BlockLen,
	)
}

func (e *OverlapError) Unwrap() error { return ErrOverlap }
