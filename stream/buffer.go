package stream

import (
	"io"

	"github.com/valyala/bytebufferpool"

	"github.com/wippyai/reltkit/errors"
)

// Buffer is a seekable in-memory stream. Call Release when done to return the
// storage to the pool; the Buffer must not be used afterwards.
type Buffer struct {
	bb  *bytebufferpool.ByteBuffer
	pos int64
}

// NewBuffer returns an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{bb: bytebufferpool.Get()}
}

// NewBufferFrom returns a Buffer holding a copy of data, positioned at 0.
func NewBufferFrom(data []byte) *Buffer {
	b := NewBuffer()
	b.bb.B = append(b.bb.B[:0], data...)
	return b
}

// Bytes returns the buffer contents. The slice aliases the buffer until the
// next write or Release.
func (b *Buffer) Bytes() []byte {
	return b.bb.B
}

// Len returns the number of bytes in the buffer.
func (b *Buffer) Len() int {
	return len(b.bb.B)
}

// Reset empties the buffer and rewinds it.
func (b *Buffer) Reset() {
	b.bb.Reset()
	b.pos = 0
}

// Release returns the storage to the pool.
func (b *Buffer) Release() {
	if b.bb == nil {
		return
	}
	bytebufferpool.Put(b.bb)
	b.bb = nil
	b.pos = 0
}

// Write writes p at the current position, overwriting existing bytes and
// zero-filling any gap left by a forward seek.
func (b *Buffer) Write(p []byte) (int, error) {
	end := b.pos + int64(len(p))
	if n := int64(len(b.bb.B)); end > n {
		if end > int64(cap(b.bb.B)) {
			grown := make([]byte, n, growCap(cap(b.bb.B), end))
			copy(grown, b.bb.B)
			b.bb.B = grown
		}
		b.bb.B = b.bb.B[:end]
		if b.pos > n {
			clear(b.bb.B[n:b.pos])
		}
	}
	copy(b.bb.B[b.pos:end], p)
	b.pos = end
	return len(p), nil
}

// Read reads from the current position.
func (b *Buffer) Read(p []byte) (int, error) {
	if b.pos >= int64(len(b.bb.B)) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, b.bb.B[b.pos:])
	b.pos += int64(n)
	return n, nil
}

// ReadByte reads one byte from the current position.
func (b *Buffer) ReadByte() (byte, error) {
	if b.pos >= int64(len(b.bb.B)) {
		return 0, io.EOF
	}
	c := b.bb.B[b.pos]
	b.pos++
	return c, nil
}

// Seek implements io.Seeker. Seeking past the end is allowed.
func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	pos, err := resolveSeek(b.pos, int64(len(b.bb.B)), offset, whence)
	if err != nil {
		return b.pos, err
	}
	b.pos = pos
	return pos, nil
}

func resolveSeek(pos, length, offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = pos + offset
	case io.SeekEnd:
		abs = length + offset
	default:
		return 0, errors.InvalidEnum(errors.PhaseStream, whence, "whence")
	}
	if abs < 0 {
		return 0, errors.New(errors.PhaseStream, errors.KindOutOfBounds).
			Offset(pos).
			Detail("seek to negative position %d", abs).
			Build()
	}
	return abs, nil
}

func growCap(current int, need int64) int {
	c := int64(current) * 2
	if c < 64 {
		c = 64
	}
	for c < need {
		c *= 2
	}
	return int(c)
}
