// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package srec

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"fmt"
)

// Max24 is the largest value of a 24-bit address or count.
const Max24 = 1<<24 - 1

// Type is the record type, the digit that follows the leading 'S'.
type Type uint8

const (
	S0 Type = 0 // header
	S1 Type = 1 // data, 16-bit address
	S2 Type = 2 // data, 24-bit address
	S3 Type = 3 // data, 32-bit address
	S5 Type = 5 // record count, 16-bit
	S6 Type = 6 // record count, 24-bit
	S7 Type = 7 // start address, 32-bit
	S8 Type = 8 // start address, 24-bit
	S9 Type = 9 // start address, 16-bit
)

// Valid reports whether t is one of the defined record types.
func (t Type) Valid() bool {
	return t <= S9 && t != 4
}

func (t Type) String() string {
	if t > 9 {
		return fmt.Sprintf("S?(%d)", uint8(t))
	}
	return string([]byte{'S', '0' + byte(t)})
}

// Field is a fixed-width record field: an address or a record count.
type Field interface {
	// Width returns the encoded size in bytes.
	Width() int
	Uint32() uint32
	// AppendBytes appends the Width bytes of the big-endian encoding.
	AppendBytes(b []byte) []byte
}

type Address16 uint16

func (a Address16) Width() int     { return 2 }
func (a Address16) Uint32() uint32 { return uint32(a) }

func (a Address16) AppendBytes(b []byte) []byte {
	return binary.BigEndian.AppendUint16(b, uint16(a))
}

// Address24 holds a 24-bit address. Values above Max24 are invalid and are
// rejected by the writer.
type Address24 uint32

// NewAddress24 returns v as Address24 or ErrRange if it does not fit in 24
// bits.
func NewAddress24(v uint32) (Address24, error) {
	if v > Max24 {
		return 0, fmt.Errorf("%w: address %#x exceeds 24 bits", ErrRange, v)
	}
	return Address24(v), nil
}

func (a Address24) Valid() bool    { return a <= Max24 }
func (a Address24) Width() int     { return 3 }
func (a Address24) Uint32() uint32 { return uint32(a) }

func (a Address24) AppendBytes(b []byte) []byte {
	return append(b, byte(a>>16), byte(a>>8), byte(a))
}

type Address32 uint32

func (a Address32) Width() int     { return 4 }
func (a Address32) Uint32() uint32 { return uint32(a) }

func (a Address32) AppendBytes(b []byte) []byte {
	return binary.BigEndian.AppendUint32(b, uint32(a))
}

// Count16 is the S5 record: the number of preceding data records.
type Count16 uint16

func (c Count16) Type() Type      { return S5 }
func (c Count16) Width() int      { return 2 }
func (c Count16) Uint32() uint32  { return uint32(c) }
func (c Count16) field() Field    { return c }
func (c Count16) payload() []byte { return nil }

func (c Count16) AppendBytes(b []byte) []byte {
	return binary.BigEndian.AppendUint16(b, uint16(c))
}

// Count24 is the S6 record: the number of preceding data records.
type Count24 uint32

// NewCount24 returns v as Count24 or ErrRange if it does not fit in 24 bits.
func NewCount24(v uint32) (Count24, error) {
	if v > Max24 {
		return 0, fmt.Errorf("%w: count %d exceeds 24 bits", ErrRange, v)
	}
	return Count24(v), nil
}

func (c Count24) Type() Type      { return S6 }
func (c Count24) Valid() bool     { return c <= Max24 }
func (c Count24) Width() int      { return 3 }
func (c Count24) Uint32() uint32  { return uint32(c) }
func (c Count24) field() Field    { return c }
func (c Count24) payload() []byte { return nil }

func (c Count24) AppendBytes(b []byte) []byte {
	return append(b, byte(c>>16), byte(c>>8), byte(c))
}

// Address is the set of address types used by data and start records.
type Address interface {
	Address16 | Address24 | Address32
	Field
}

// Record is one line of an S-record file. It is implemented by Header,
// Data[Address16], Data[Address24], Data[Address32], Count16, Count24,
// Start[Address32], Start[Address24] and Start[Address16] only.
type Record interface {
	Type() Type
	field() Field
	payload() []byte
}

// Header is the S0 record.
type Header string

func (h Header) Type() Type      { return S0 }
func (h Header) field() Field    { return Address16(0) }
func (h Header) payload() []byte { return []byte(h) }

// Data is a data record: S1, S2 or S3 depending on A.
type Data[A Address] struct {
	Address A
	Data    []byte
}

func (d Data[A]) Type() Type {
	switch d.Address.Width() {
	case 2:
		return S1
	case 3:
		return S2
	}
	return S3
}

func (d Data[A]) field() Field    { return d.Address }
func (d Data[A]) payload() []byte { return d.Data }

// Start is a start address record: S9, S8 or S7 depending on A.
type Start[A Address] struct {
	Address A
}

func (s Start[A]) Type() Type {
	switch s.Address.Width() {
	case 2:
		return S9
	case 3:
		return S8
	}
	return S7
}

func (s Start[A]) field() Field    { return s.Address }
func (s Start[A]) payload() []byte { return nil }

// Compare orders records by type, then by address (or count), then by
// payload.
func Compare(a, b Record) int {
	if c := cmp.Compare(a.Type(), b.Type()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.field().Uint32(), b.field().Uint32()); c != 0 {
		return c
	}
	return bytes.Compare(a.payload(), b.payload())
}

// Equal reports whether a and b are the same record. A nil payload equals an
// empty one.
func Equal(a, b Record) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Compare(a, b) == 0
}

// EqualAll reports whether a and b hold equal records in the same order.
func EqualAll(a, b []Record) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Payload returns the address and payload of the data record r. The ok is
// false if r is not a data record. The returned slice aliases r.
func Payload(r Record) (addr uint32, data []byte, ok bool) {
	switch d := r.(type) {
	case Data[Address16]:
		return d.Address.Uint32(), d.Data, true
	case Data[Address24]:
		return d.Address.Uint32(), d.Data, true
	case Data[Address32]:
		return d.Address.Uint32(), d.Data, true
	}
	return 0, nil, false
}

// StartAddress returns the address of the start record r.
func StartAddress(r Record) (addr uint32, ok bool) {
	switch s := r.(type) {
	case Start[Address16]:
		return s.Address.Uint32(), true
	case Start[Address24]:
		return s.Address.Uint32(), true
	case Start[Address32]:
		return s.Address.Uint32(), true
	}
	return 0, false
}
