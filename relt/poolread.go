package relt

import (
	"github.com/wippyai/reltkit/codec"
	"github.com/wippyai/reltkit/errors"
)

const maxPoolPrealloc = 1024

// PoolString is a decoded pool string and the offset it was read from.
type PoolString struct {
	Offset int64
	Text   string
}

// ReadStringPool decodes a string pool at the reader's position, tagged with
// opts.PoolMagic and framed with opts.PoolStringKind. The reader is left
// after the last string's padding.
func ReadStringPool(r *codec.Reader, opts Options) ([]PoolString, error) {
	opts = opts.withDefaults()
	start := r.Position()
	if err := r.ExpectMagic(opts.PoolMagic); err != nil {
		return nil, err
	}
	if err := r.Skip(12); err != nil {
		return nil, err
	}
	last, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	if last < -1 {
		return nil, errors.New(errors.PhasePool, errors.KindOutOfBounds).
			Offset(start).
			Value(last).
			Detail("negative string count").
			Build()
	}

	out := make([]PoolString, 0, min(int(last)+1, maxPoolPrealloc))
	for i := int32(0); i <= last; i++ {
		off := r.Position()
		s, err := r.ReadString(opts.PoolStringKind)
		if err != nil {
			return nil, err
		}
		if err := r.Align(opts.PoolAlignment); err != nil {
			return nil, err
		}
		out = append(out, PoolString{Offset: off, Text: s})
	}
	return out, nil
}
