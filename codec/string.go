package codec

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"

	"github.com/wippyai/reltkit/errors"
)

// StringKind is the framing of an encoded string. The values are the widths
// of the length prefix.
type StringKind int

const (
	ZeroTerminated StringKind = 0
	U16Count       StringKind = 2
	U32Count       StringKind = 4
	// Pascal is a u16 byte count followed by the payload and a NUL byte.
	Pascal StringKind = 16
)

// Valid reports whether k is a known framing.
func (k StringKind) Valid() bool {
	switch k {
	case ZeroTerminated, U16Count, U32Count, Pascal:
		return true
	}
	return false
}

func (k StringKind) String() string {
	switch k {
	case ZeroTerminated:
		return "zero-terminated"
	case U16Count:
		return "u16-count"
	case U32Count:
		return "u32-count"
	case Pascal:
		return "pascal"
	default:
		return fmt.Sprintf("StringKind(%d)", int(k))
	}
}

func utf16Encoding(e Endian) encoding.Encoding {
	if e == Big {
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	}
	return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
}

// EncodeText converts s to bytes in the given encoding and byte order.
func EncodeText(s string, enc Encoding, e Endian) ([]byte, error) {
	switch enc {
	case UTF8:
		return []byte(s), nil
	case UTF16:
		b, err := utf16Encoding(e).NewEncoder().Bytes([]byte(s))
		if err != nil {
			return nil, errors.New(errors.PhaseWrite, errors.KindInvalidEnum).
				Cause(err).
				Detail("cannot encode %q as %s", s, enc).
				Build()
		}
		return b, nil
	default:
		return nil, errors.InvalidEnum(errors.PhaseWrite, int(enc), "Encoding")
	}
}

// DecodeText converts bytes in the given encoding and byte order to a string.
func DecodeText(b []byte, enc Encoding, e Endian) (string, error) {
	switch enc {
	case UTF8:
		return string(b), nil
	case UTF16:
		s, err := utf16Encoding(e).NewDecoder().Bytes(b)
		if err != nil {
			return "", errors.New(errors.PhaseRead, errors.KindInvalidEnum).
				Cause(err).
				Detail("cannot decode %d bytes as %s", len(b), enc).
				Build()
		}
		return string(s), nil
	default:
		return "", errors.InvalidEnum(errors.PhaseRead, int(enc), "Encoding")
	}
}

// EncodeText converts s with the writer's encoding and byte order.
func (w *Writer) EncodeText(s string) ([]byte, error) {
	return EncodeText(s, w.enc, w.endian)
}

// WriteString writes s with the given framing. Length prefixes count bytes,
// not characters.
func (w *Writer) WriteString(s string, kind StringKind) error {
	if !kind.Valid() {
		return errors.InvalidEnum(errors.PhaseWrite, int(kind), "StringKind")
	}
	data, err := w.EncodeText(s)
	if err != nil {
		return err
	}

	switch kind {
	case U16Count, Pascal:
		if len(data) > 0xffff {
			return errors.Overflow(errors.PhaseWrite, w.pos, len(data), "u16 string length")
		}
		if err := w.WriteU16(uint16(len(data))); err != nil {
			return err
		}
	case U32Count:
		if uint64(len(data)) > 0xffffffff {
			return errors.Overflow(errors.PhaseWrite, w.pos, len(data), "u32 string length")
		}
		if err := w.WriteU32(uint32(len(data))); err != nil {
			return err
		}
	}

	if err := w.WriteBytes(data); err != nil {
		return err
	}

	switch kind {
	case ZeroTerminated:
		return w.WriteZeros(w.enc.unitSize())
	case Pascal:
		return w.WriteU8(0)
	}
	return nil
}

// WritePascalString writes a u16 byte count, the payload and a NUL byte.
func (w *Writer) WritePascalString(s string) error {
	return w.WriteString(s, Pascal)
}

// ReadStringN reads n bytes of text.
func (r *Reader) ReadStringN(n int) (string, error) {
	data, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	return DecodeText(data, r.enc, r.endian)
}

// ReadString reads a string with the given framing.
func (r *Reader) ReadString(kind StringKind) (string, error) {
	switch kind {
	case ZeroTerminated:
		return r.readTerminated()
	case U16Count:
		n, err := r.ReadU16()
		if err != nil {
			return "", err
		}
		return r.ReadStringN(int(n))
	case U32Count:
		n, err := r.ReadU32()
		if err != nil {
			return "", err
		}
		return r.ReadStringN(int(n))
	case Pascal:
		n, err := r.ReadU16()
		if err != nil {
			return "", err
		}
		s, err := r.ReadStringN(int(n))
		if err != nil {
			return "", err
		}
		if _, err := r.ReadU8(); err != nil {
			return "", err
		}
		return s, nil
	default:
		return "", errors.InvalidEnum(errors.PhaseRead, int(kind), "StringKind")
	}
}

// ReadPascalString reads a u16 byte count, the payload and a NUL byte.
func (r *Reader) ReadPascalString() (string, error) {
	return r.ReadString(Pascal)
}

func (r *Reader) readTerminated() (string, error) {
	unit := r.enc.unitSize()
	var buf bytes.Buffer
	for {
		b, err := r.fill(unit)
		if err != nil {
			return "", err
		}
		if isZero(b) {
			break
		}
		buf.Write(b)
	}
	return DecodeText(buf.Bytes(), r.enc, r.endian)
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
