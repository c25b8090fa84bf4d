package relt

import (
	"go.uber.org/zap"

	"github.com/wippyai/reltkit/codec"
)

// Options configures a Writer and the decoders of its artifacts.
type Options struct {
	// Codec sets the initial byte order and text encoding.
	Codec codec.Options

	// PoolAlignment pads every pooled string to this multiple.
	PoolAlignment int64

	// PoolMagic and TableMagic tag the string pool and relocation table.
	PoolMagic  []byte
	TableMagic []byte

	// PoolStringKind frames strings interned without an explicit kind.
	PoolStringKind codec.StringKind

	// Logger overrides the package logger for this writer.
	Logger *zap.Logger
}

// DefaultOptions returns native byte order, UTF-8 text, a 2-byte aligned
// "STR " pool of Pascal strings and a "RELT" table.
func DefaultOptions() Options {
	return Options{
		Codec:          codec.DefaultOptions(),
		PoolAlignment:  2,
		PoolMagic:      []byte("STR "),
		TableMagic:     []byte("RELT"),
		PoolStringKind: codec.Pascal,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.PoolAlignment <= 0 {
		o.PoolAlignment = def.PoolAlignment
	}
	if len(o.PoolMagic) == 0 {
		o.PoolMagic = def.PoolMagic
	}
	if len(o.TableMagic) == 0 {
		o.TableMagic = def.TableMagic
	}
	if !o.PoolStringKind.Valid() {
		o.PoolStringKind = def.PoolStringKind
	}
	if !o.Codec.Endian.Valid() {
		o.Codec.Endian = def.Codec.Endian
	}
	return o
}
