package stream

import (
	"io"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/reltkit/errors"
)

const wasmPageSize = 65536

// Memory adapts a wazero api.Memory region starting at a base address into a
// seekable stream. The stream length is the high-water mark of writes, or the
// initial length for a region that already holds data.
type Memory struct {
	mem    api.Memory
	base   uint32
	pos    int64
	length int64
	// Grow allows writes past the end of memory to grow it by whole pages.
	Grow bool
}

// NewMemory wraps mem starting at base. length is the number of bytes already
// present at base (0 for a fresh sink). Returns nil for a nil memory.
func NewMemory(mem api.Memory, base uint32, length uint32) *Memory {
	if mem == nil {
		return nil
	}
	return &Memory{mem: mem, base: base, length: int64(length), Grow: true}
}

// Len returns the stream length.
func (m *Memory) Len() int64 {
	return m.length
}

// Base returns the address of stream offset 0.
func (m *Memory) Base() uint32 {
	return m.base
}

// Bytes returns a copy of the stream contents.
func (m *Memory) Bytes() ([]byte, error) {
	if m.length == 0 {
		return []byte{}, nil
	}
	data, ok := m.mem.Read(m.base, uint32(m.length))
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseStream, int64(m.base), uint64(m.length), uint64(m.mem.Size()))
	}
	return append([]byte(nil), data...), nil
}

// Write writes p at the current position, growing the memory if allowed.
func (m *Memory) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	addr := int64(m.base) + m.pos
	end := addr + int64(len(p))
	if end > int64(^uint32(0))+1 {
		return 0, errors.OutOfBounds(errors.PhaseStream, m.pos, uint64(len(p)), uint64(m.mem.Size()))
	}
	if err := m.ensure(end); err != nil {
		return 0, err
	}
	if gap := m.pos - m.length; gap > 0 {
		if !m.mem.Write(uint32(int64(m.base)+m.length), make([]byte, gap)) {
			return 0, errors.OutOfBounds(errors.PhaseStream, m.length, uint64(gap), uint64(m.mem.Size()))
		}
	}
	if !m.mem.Write(uint32(addr), p) {
		return 0, errors.OutOfBounds(errors.PhaseStream, m.pos, uint64(len(p)), uint64(m.mem.Size()))
	}
	m.pos += int64(len(p))
	if m.pos > m.length {
		m.length = m.pos
	}
	return len(p), nil
}

func (m *Memory) ensure(end int64) error {
	size := int64(m.mem.Size())
	if end <= size {
		return nil
	}
	if !m.Grow {
		return errors.OutOfBounds(errors.PhaseStream, m.pos, uint64(end-int64(m.base)-m.pos), uint64(size))
	}
	pages := (end - size + wasmPageSize - 1) / wasmPageSize
	if _, ok := m.mem.Grow(uint32(pages)); !ok {
		return errors.New(errors.PhaseStream, errors.KindOutOfBounds).
			Offset(m.pos).
			Detail("cannot grow memory by %d pages", pages).
			Build()
	}
	return nil
}

// Read reads from the current position up to the stream length.
func (m *Memory) Read(p []byte) (int, error) {
	if m.pos >= m.length {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := int64(len(p))
	if rest := m.length - m.pos; n > rest {
		n = rest
	}
	data, ok := m.mem.Read(uint32(int64(m.base)+m.pos), uint32(n))
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseStream, m.pos, uint64(n), uint64(m.mem.Size()))
	}
	copy(p, data)
	m.pos += n
	return int(n), nil
}

// Seek implements io.Seeker. Seeking past the end is allowed; the gap is
// zero-filled by the next write.
func (m *Memory) Seek(offset int64, whence int) (int64, error) {
	pos, err := resolveSeek(m.pos, m.length, offset, whence)
	if err != nil {
		return m.pos, err
	}
	m.pos = pos
	return pos, nil
}
