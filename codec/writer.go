package codec

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/x448/float16"

	"github.com/wippyai/reltkit"
	"github.com/wippyai/reltkit/errors"
)

var zeros [64]byte

// Writer encodes primitives into a seekable sink.
//
// Not safe for concurrent use.
type Writer struct {
	cursor
	w       io.Writer
	order   binary.ByteOrder
	end     int64
	endian  Endian
	enc     Encoding
	scratch [16]byte
}

// NewWriter creates a Writer at the sink's current position.
// An invalid Endian in opts falls back to the native order.
func NewWriter(s reltkit.Sink, opts Options) *Writer {
	w := &Writer{
		cursor: newCursor(s, errors.PhaseWrite),
		w:      s,
		enc:    opts.Encoding,
	}
	if end, err := s.Seek(0, io.SeekEnd); err == nil {
		w.end = end
		if _, err := s.Seek(w.pos, io.SeekStart); err != nil {
			w.end = w.pos
		}
	}
	if w.end < w.pos {
		w.end = w.pos
	}
	if w.SetEndian(opts.Endian) != nil {
		_ = w.SetEndian(NativeEndian())
	}
	return w
}

// Endian returns the current byte order.
func (w *Writer) Endian() Endian {
	return w.endian
}

// SetEndian changes the byte order for subsequent writes.
func (w *Writer) SetEndian(e Endian) error {
	if err := checkEndian(errors.PhaseWrite, e); err != nil {
		return err
	}
	w.endian = e
	w.order = e.ByteOrder()
	return nil
}

// Encoding returns the text encoding.
func (w *Writer) Encoding() Encoding {
	return w.enc
}

// SetEncoding changes the text encoding for subsequent string writes.
func (w *Writer) SetEncoding(enc Encoding) {
	w.enc = enc
}

// End returns the highest offset written so far.
func (w *Writer) End() int64 {
	return w.end
}

// Write implements io.Writer at the current position.
func (w *Writer) Write(p []byte) (int, error) {
	start := w.pos
	n, err := w.w.Write(p)
	w.pos += int64(n)
	if w.pos > w.end {
		w.end = w.pos
	}
	if err != nil {
		return n, errors.IO(errors.PhaseWrite, start, err)
	}
	return n, nil
}

// Sync reloads the position and end from the sink, picking up writes and
// seeks made on the sink outside this Writer.
func (w *Writer) Sync() error {
	pos, err := w.s.Seek(0, io.SeekCurrent)
	if err != nil {
		return errors.IO(errors.PhaseWrite, w.pos, err)
	}
	end, err := w.s.Seek(0, io.SeekEnd)
	if err != nil {
		return errors.IO(errors.PhaseWrite, pos, err)
	}
	if _, err := w.s.Seek(pos, io.SeekStart); err != nil {
		return errors.IO(errors.PhaseWrite, pos, err)
	}
	w.pos = pos
	w.end = max(end, pos)
	return nil
}

// WriteBytes writes p in full.
func (w *Writer) WriteBytes(p []byte) error {
	_, err := w.Write(p)
	return err
}

// Skip advances n bytes. Bytes that already exist are left untouched and
// bytes past the end are zero-filled, so skipping never leaves a hole.
func (w *Writer) Skip(n int64) error {
	if n <= 0 {
		return nil
	}
	inside := w.end - w.pos
	if inside > n {
		inside = n
	}
	if inside > 0 {
		if _, err := w.Seek(inside, FromCurrent); err != nil {
			return err
		}
	}
	return w.writeZeros(n - inside)
}

// Align pads to the next multiple of alignment.
func (w *Writer) Align(alignment int64) error {
	return w.Skip(Padding(w.pos, alignment))
}

// WriteZeros writes n zero bytes.
func (w *Writer) WriteZeros(n int) error {
	return w.writeZeros(int64(n))
}

func (w *Writer) writeZeros(n int64) error {
	for n > 0 {
		chunk := n
		if chunk > int64(len(zeros)) {
			chunk = int64(len(zeros))
		}
		if err := w.WriteBytes(zeros[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// WriteU8 writes an unsigned byte.
func (w *Writer) WriteU8(v uint8) error {
	w.scratch[0] = v
	return w.WriteBytes(w.scratch[:1])
}

// WriteI8 writes a signed byte.
func (w *Writer) WriteI8(v int8) error {
	return w.WriteU8(uint8(v))
}

// WriteU16 writes an unsigned 16-bit value.
func (w *Writer) WriteU16(v uint16) error {
	w.order.PutUint16(w.scratch[:2], v)
	return w.WriteBytes(w.scratch[:2])
}

// WriteI16 writes a signed 16-bit value.
func (w *Writer) WriteI16(v int16) error {
	return w.WriteU16(uint16(v))
}

// WriteU24 writes the low 24 bits of v.
func (w *Writer) WriteU24(v uint32) error {
	w.order.PutUint32(w.scratch[:4], v)
	if w.endian == Big {
		return w.WriteBytes(w.scratch[1:4])
	}
	return w.WriteBytes(w.scratch[:3])
}

// WriteI24 writes the low 24 bits of v.
func (w *Writer) WriteI24(v int32) error {
	return w.WriteU24(uint32(v))
}

// WriteU32 writes an unsigned 32-bit value.
func (w *Writer) WriteU32(v uint32) error {
	w.order.PutUint32(w.scratch[:4], v)
	return w.WriteBytes(w.scratch[:4])
}

// WriteI32 writes a signed 32-bit value.
func (w *Writer) WriteI32(v int32) error {
	return w.WriteU32(uint32(v))
}

// WriteU64 writes an unsigned 64-bit value.
func (w *Writer) WriteU64(v uint64) error {
	w.order.PutUint64(w.scratch[:8], v)
	return w.WriteBytes(w.scratch[:8])
}

// WriteI64 writes a signed 64-bit value.
func (w *Writer) WriteI64(v int64) error {
	return w.WriteU64(uint64(v))
}

// WriteF16 writes an IEEE-754 half from its raw bits.
func (w *Writer) WriteF16(v float16.Float16) error {
	return w.WriteU16(v.Bits())
}

// WriteF32 writes an IEEE-754 single.
func (w *Writer) WriteF32(v float32) error {
	return w.WriteU32(math.Float32bits(v))
}

// WriteF64 writes an IEEE-754 double.
func (w *Writer) WriteF64(v float64) error {
	return w.WriteU64(math.Float64bits(v))
}

// WriteBool writes v in a field of the given width. True sets the least
// significant byte to 1; false writes zeros.
func (w *Writer) WriteBool(v bool, t BoolType) error {
	if !t.valid() {
		return errors.InvalidEnum(errors.PhaseWrite, int(t), "BoolType")
	}
	buf := w.scratch[:t]
	clear(buf)
	if v {
		if w.endian == Big {
			buf[len(buf)-1] = 1
		} else {
			buf[0] = 1
		}
	}
	return w.WriteBytes(buf)
}

// WriteDecimal writes the 128-bit decimal layout.
func (w *Writer) WriteDecimal(d Decimal) error {
	d.put(w.scratch[:16])
	return w.WriteBytes(w.scratch[:16])
}

// WritePointer stores offset in a field of the given kind at the current
// position.
func (w *Writer) WritePointer(kind PtrKind, offset int64) error {
	bits, err := kind.Narrow(offset)
	if err != nil {
		return err
	}
	return w.writeUint(kind.Size(), bits)
}

func (w *Writer) writeUint(size int, v uint64) error {
	switch size {
	case 1:
		return w.WriteU8(uint8(v))
	case 2:
		return w.WriteU16(uint16(v))
	case 4:
		return w.WriteU32(uint32(v))
	case 8:
		return w.WriteU64(v)
	}
	return errors.Unsupported(errors.PhaseWrite, "integer width")
}
