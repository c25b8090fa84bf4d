package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/wippyai/reltkit/errors"
)

// Endian selects the byte order for multi-byte primitives. The values are the
// byte-order-mark readings of each order.
type Endian uint16

const (
	Big    Endian = 0xFFFE
	Little Endian = 0xFEFF
)

// NativeEndian returns the byte order of the host.
func NativeEndian() Endian {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)
	if b[0] == 1 {
		return Little
	}
	return Big
}

// Valid reports whether e is Big or Little.
func (e Endian) Valid() bool {
	return e == Big || e == Little
}

// ByteOrder returns the encoding/binary order for e.
func (e Endian) ByteOrder() binary.ByteOrder {
	if e == Big {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (e Endian) String() string {
	switch e {
	case Big:
		return "big"
	case Little:
		return "little"
	default:
		return fmt.Sprintf("Endian(%#04x)", uint16(e))
	}
}

func checkEndian(phase errors.Phase, e Endian) error {
	if !e.Valid() {
		return errors.InvalidEnum(phase, fmt.Sprintf("%#04x", uint16(e)), "Endian")
	}
	return nil
}

// Encoding selects the text encoding used by the string codec.
type Encoding uint8

const (
	UTF8 Encoding = iota
	UTF16
)

func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "utf-8"
	case UTF16:
		return "utf-16"
	default:
		return fmt.Sprintf("Encoding(%d)", uint8(e))
	}
}

// unitSize is the width of one code unit, which is also the terminator width.
func (e Encoding) unitSize() int {
	if e == UTF16 {
		return 2
	}
	return 1
}

// Options configures a Writer or Reader.
type Options struct {
	Endian   Endian
	Encoding Encoding
}

// DefaultOptions returns native byte order and UTF-8 text.
func DefaultOptions() Options {
	return Options{
		Endian:   NativeEndian(),
		Encoding: UTF8,
	}
}

// BoolType is the storage width of a boolean.
type BoolType int

const (
	BoolByte  BoolType = 1
	BoolWord  BoolType = 2
	BoolDWord BoolType = 4
	BoolQWord BoolType = 8
)

func (t BoolType) valid() bool {
	switch t {
	case BoolByte, BoolWord, BoolDWord, BoolQWord:
		return true
	}
	return false
}
