package relt

import (
	"testing"

	"github.com/wippyai/reltkit/codec"
	"github.com/wippyai/reltkit/stream"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Codec.Endian = codec.Little
	return opts
}

func newTestWriter(t *testing.T) (*Writer, *stream.Buffer) {
	t.Helper()
	buf := stream.NewBuffer()
	t.Cleanup(buf.Release)
	return NewWriter(buf, testOptions()), buf
}

func testReader(data []byte) *codec.Reader {
	return codec.NewBytesReader(data, testOptions().Codec)
}

func writeU32(v uint32) PointeeFunc {
	return func(w *codec.Writer) error {
		return w.WriteU32(v)
	}
}
