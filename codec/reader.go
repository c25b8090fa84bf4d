package codec

import (
	"bytes"
	"encoding/binary"
	stderrors "errors"
	"io"
	"math"

	"github.com/x448/float16"

	"github.com/wippyai/reltkit"
	"github.com/wippyai/reltkit/errors"
)

// smallRead is the largest ReadBytes length served without checking the
// remaining input first.
const smallRead = 4096

// Reader decodes primitives from a seekable source.
//
// Not safe for concurrent use.
type Reader struct {
	cursor
	r       io.Reader
	order   binary.ByteOrder
	endian  Endian
	enc     Encoding
	scratch [16]byte
}

// NewReader creates a Reader at the source's current position.
// An invalid Endian in opts falls back to the native order.
func NewReader(s reltkit.Source, opts Options) *Reader {
	r := &Reader{
		cursor: newCursor(s, errors.PhaseRead),
		r:      s,
		enc:    opts.Encoding,
	}
	if r.SetEndian(opts.Endian) != nil {
		_ = r.SetEndian(NativeEndian())
	}
	return r
}

// NewBytesReader creates a Reader over an in-memory byte slice.
func NewBytesReader(data []byte, opts Options) *Reader {
	return NewReader(bytes.NewReader(data), opts)
}

// Endian returns the current byte order.
func (r *Reader) Endian() Endian {
	return r.endian
}

// SetEndian changes the byte order for subsequent reads.
func (r *Reader) SetEndian(e Endian) error {
	if err := checkEndian(errors.PhaseRead, e); err != nil {
		return err
	}
	r.endian = e
	r.order = e.ByteOrder()
	return nil
}

// Encoding returns the text encoding.
func (r *Reader) Encoding() Encoding {
	return r.enc
}

// SetEncoding changes the text encoding for subsequent string reads.
func (r *Reader) SetEncoding(enc Encoding) {
	r.enc = enc
}

// Read implements io.Reader at the current position.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	r.pos += int64(n)
	return n, err
}

// ReadFull fills p or fails with a truncation error.
func (r *Reader) ReadFull(p []byte) error {
	start := r.pos
	n, err := io.ReadFull(r, p)
	if err != nil {
		if stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) {
			return errors.Truncated(errors.PhaseRead, start, len(p), n)
		}
		return errors.IO(errors.PhaseRead, start, err)
	}
	return nil
}

// ReadBytes reads exactly n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.New(errors.PhaseRead, errors.KindOutOfBounds).
			Offset(r.pos).
			Detail("negative length %d", n).
			Build()
	}
	if n == 0 {
		return []byte{}, nil
	}
	if n > smallRead {
		rem, err := r.Remaining()
		if err != nil {
			return nil, err
		}
		if int64(n) > rem {
			return nil, errors.Truncated(errors.PhaseRead, r.pos, n, int(rem))
		}
	}
	buf := make([]byte, n)
	if err := r.ReadFull(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Remaining returns the number of bytes between the position and the end of
// the source.
func (r *Reader) Remaining() (int64, error) {
	end, err := r.s.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, errors.IO(errors.PhaseRead, r.pos, err)
	}
	if _, err := r.s.Seek(r.pos, io.SeekStart); err != nil {
		return 0, errors.IO(errors.PhaseRead, r.pos, err)
	}
	return max(end-r.pos, 0), nil
}

// Skip advances n bytes without reading them.
func (r *Reader) Skip(n int64) error {
	_, err := r.Seek(n, FromCurrent)
	return err
}

// Align skips to the next multiple of alignment.
func (r *Reader) Align(alignment int64) error {
	return r.Skip(Padding(r.pos, alignment))
}

func (r *Reader) fill(n int) ([]byte, error) {
	buf := r.scratch[:n]
	if err := r.ReadFull(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadU8 reads an unsigned byte.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.fill(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadI8 reads a signed byte.
func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

// ReadU16 reads an unsigned 16-bit value.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.fill(2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(b), nil
}

// ReadI16 reads a signed 16-bit value.
func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

// ReadU24 reads an unsigned 24-bit value.
func (r *Reader) ReadU24() (uint32, error) {
	b, err := r.fill(3)
	if err != nil {
		return 0, err
	}
	if r.endian == Big {
		return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
	}
	return uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0]), nil
}

// ReadI24 reads a signed 24-bit value.
func (r *Reader) ReadI24() (int32, error) {
	v, err := r.ReadU24()
	if err != nil {
		return 0, err
	}
	return int32(v<<8) >> 8, nil
}

// ReadU32 reads an unsigned 32-bit value.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.fill(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(b), nil
}

// ReadI32 reads a signed 32-bit value.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadU64 reads an unsigned 64-bit value.
func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.fill(8)
	if err != nil {
		return 0, err
	}
	return r.order.Uint64(b), nil
}

// ReadI64 reads a signed 64-bit value.
func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

// ReadF16 reads an IEEE-754 half as raw bits.
func (r *Reader) ReadF16() (float16.Float16, error) {
	v, err := r.ReadU16()
	return float16.Frombits(v), err
}

// ReadF32 reads an IEEE-754 single.
func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	return math.Float32frombits(v), err
}

// ReadF64 reads an IEEE-754 double.
func (r *Reader) ReadF64() (float64, error) {
	v, err := r.ReadU64()
	return math.Float64frombits(v), err
}

// ReadBool reads a boolean of the given width. With exact set, only the
// canonical true encoding counts as true; otherwise any non-zero byte does.
func (r *Reader) ReadBool(t BoolType, exact bool) (bool, error) {
	if !t.valid() {
		return false, errors.InvalidEnum(errors.PhaseRead, int(t), "BoolType")
	}
	b, err := r.fill(int(t))
	if err != nil {
		return false, err
	}
	if exact {
		lsb := 0
		if r.endian == Big {
			lsb = len(b) - 1
		}
		for i, c := range b {
			if (i == lsb && c != 1) || (i != lsb && c != 0) {
				return false, nil
			}
		}
		return true, nil
	}
	for _, c := range b {
		if c != 0 {
			return true, nil
		}
	}
	return false, nil
}

// ReadDecimal reads the 128-bit decimal layout.
func (r *Reader) ReadDecimal() (Decimal, error) {
	b, err := r.fill(16)
	if err != nil {
		return Decimal{}, err
	}
	return decimalFrom(b), nil
}

// ReadPointer reads a pointer field of the given kind and returns the stored
// offset.
func (r *Reader) ReadPointer(kind PtrKind) (int64, error) {
	if err := kind.Validate(); err != nil {
		return 0, err
	}
	b, err := r.fill(kind.Size())
	if err != nil {
		return 0, err
	}
	var bits uint64
	switch len(b) {
	case 1:
		bits = uint64(b[0])
	case 2:
		bits = uint64(r.order.Uint16(b))
	case 4:
		bits = uint64(r.order.Uint32(b))
	case 8:
		bits = r.order.Uint64(b)
	}
	return kind.widen(bits), nil
}

// ExpectMagic reads len(magic) bytes and fails with a mismatch error carrying
// both signatures if they differ.
func (r *Reader) ExpectMagic(magic []byte) error {
	start := r.pos
	got, err := r.ReadBytes(len(magic))
	if err != nil {
		return err
	}
	if !bytes.Equal(got, magic) {
		return errors.MagicMismatch(errors.PhaseRead, start, magic, got)
	}
	return nil
}

// MatchMagic reads len(magic) bytes and reports whether they match. Only
// read failures are returned as errors.
func (r *Reader) MatchMagic(magic []byte) (bool, error) {
	got, err := r.ReadBytes(len(magic))
	if err != nil {
		return false, err
	}
	return bytes.Equal(got, magic), nil
}
