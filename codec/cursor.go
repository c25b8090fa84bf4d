package codec

import (
	stderrors "errors"
	"io"

	"github.com/wippyai/reltkit/errors"
)

// Whence selects the origin of a seek.
type Whence int

const (
	FromStart   = Whence(io.SeekStart)
	FromCurrent = Whence(io.SeekCurrent)
	FromEnd     = Whence(io.SeekEnd)
)

// Padding returns the number of bytes needed to move pos to a multiple of align.
func Padding(pos, align int64) int64 {
	if align <= 1 {
		return 0
	}
	return (align - pos%align) % align
}

// AlignTo rounds pos up to a multiple of align.
func AlignTo(pos, align int64) int64 {
	return pos + Padding(pos, align)
}

// cursor tracks the absolute position of a seekable stream so that position
// queries never hit the stream.
type cursor struct {
	s     io.Seeker
	phase errors.Phase
	pos   int64
}

func newCursor(s io.Seeker, phase errors.Phase) cursor {
	pos, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		pos = 0
	}
	return cursor{s: s, phase: phase, pos: pos}
}

// Position returns the current absolute offset.
func (c *cursor) Position() int64 {
	return c.pos
}

// Seek moves the cursor and returns the new absolute offset.
func (c *cursor) Seek(offset int64, whence Whence) (int64, error) {
	if whence == FromCurrent && offset == 0 {
		return c.pos, nil
	}
	pos, err := c.s.Seek(offset, int(whence))
	if err != nil {
		return c.pos, errors.IO(c.phase, c.pos, err)
	}
	c.pos = pos
	return pos, nil
}

// WithTemporarySeek moves to offset, runs fn and moves back to the original
// position, whether fn succeeds or not.
func (c *cursor) WithTemporarySeek(offset int64, whence Whence, fn func() error) (err error) {
	orig := c.pos
	if _, err := c.Seek(offset, whence); err != nil {
		return err
	}
	defer func() {
		if _, serr := c.Seek(orig, FromStart); serr != nil {
			err = stderrors.Join(err, serr)
		}
	}()
	return fn()
}
