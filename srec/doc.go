// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package srec reads and writes Motorola S-record (SREC) files.
//
// An S-record file is a sequence of text lines, one record per line:
//
//	S<type><count><address><data><checksum>
//
// where type is a decimal digit, count is the number of bytes that follow
// (address, data and checksum) and all fields after the type are written as
// pairs of hexadecimal digits. The checksum is the one's complement of the
// 8-bit sum of the count, address and data bytes.
//
//	S0  header            16-bit (zero) address, text
//	S1  data              16-bit address
//	S2  data              24-bit address
//	S3  data              32-bit address
//	S5  record count      16-bit count
//	S6  record count      24-bit count
//	S7  start address     32-bit, terminates S3 files
//	S8  start address     24-bit, terminates S2 files
//	S9  start address     16-bit, terminates S1 files
//
// S4 is reserved and is neither produced nor accepted.
//
// The Reader decodes records lazily, one line at a time, and reports a bad
// line without stopping. The Writer encodes records independently. Neither
// checks the file as a whole: overlapping data and duplicated start records
// are passed through. Use an Image to collect the data records of a file into
// contiguous blocks (overlaps are rejected there) and ImageRecords or
// FileRecords to turn an Image back into records.
package srec
